package domain

import "time"

type EventType string

const (
	EventSessionStarted   EventType = "session_started"
	EventSessionEnded     EventType = "session_ended"
	EventSpaceOccupied    EventType = "space_occupied"
	EventSpaceFreed       EventType = "space_freed"
	EventPaymentPaid      EventType = "payment_paid"
	EventPaymentCancelled EventType = "payment_cancelled"
)

// Event is a notification pushed to live dashboards and gate devices.
type Event struct {
	Type         EventType `json:"type"`
	SessionID    int       `json:"sessionId,omitempty"`
	SpaceID      int       `json:"spaceId,omitempty"`
	SpaceNumber  string    `json:"spaceNumber,omitempty"`
	PaymentID    int       `json:"paymentId,omitempty"`
	LicensePlate string    `json:"licensePlate,omitempty"`
	TicketCode   string    `json:"ticketCode,omitempty"`
	At           time.Time `json:"at"`
}

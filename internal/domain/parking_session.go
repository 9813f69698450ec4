package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/guregu/null.v4"
)

type ParkingSessionStatus string

const (
	SessionActive ParkingSessionStatus = "ACTIVE"
	SessionClosed ParkingSessionStatus = "CLOSED"
)

// ParkingSession records one vehicle's stay. A session is ACTIVE until it is
// closed; CLOSED is terminal.
type ParkingSession struct {
	ID              int       `json:"id"`
	VehicleID       int       `json:"vehicleId"`
	ParkingSpaceID  int       `json:"parkingSpaceId"`
	EntryTime       time.Time `json:"entryTime"`
	ExitTime        null.Time `json:"exitTime"`
	OperatorEntryID int       `json:"operatorEntryId"`
	OperatorExitID  null.Int  `json:"operatorExitId"`
	IsActive        bool      `json:"isActive"`
	TicketCode      string    `json:"ticketCode"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (s *ParkingSession) Status() ParkingSessionStatus {
	if s.IsActive {
		return SessionActive
	}
	return SessionClosed
}

// Close records the exit. Exit time and operator are set together and only once.
// An exit earlier than the entry is clamped to the entry time.
func (s *ParkingSession) Close(exit time.Time, operatorID int) error {
	if !s.IsActive || s.ExitTime.Valid {
		return fmt.Errorf("%w: session %s is already closed", ErrIllegalState, s.TicketCode)
	}
	if operatorID <= 0 {
		return fmt.Errorf("%w: exit operator is required", ErrIllegalArgument)
	}
	if exit.Before(s.EntryTime) {
		exit = s.EntryTime
	}
	s.ExitTime = null.TimeFrom(exit)
	s.OperatorExitID = null.IntFrom(int64(operatorID))
	s.IsActive = false
	return nil
}

// HoursParked is the elapsed stay in fractional hours. Active sessions are
// measured up to now.
func (s *ParkingSession) HoursParked(now time.Time) decimal.Decimal {
	if s.ExitTime.Valid {
		return HoursBetween(s.EntryTime, s.ExitTime.Time)
	}
	return HoursBetween(s.EntryTime, now)
}

type StartSessionDTO struct {
	LicensePlate  string `json:"licensePlate" binding:"required"`
	OperatorID    int    `json:"operatorId"`
	VehicleTypeID *int   `json:"vehicleTypeId"`
}

// EndSessionDTO locates the session by plate, then session id, then ticket code.
type EndSessionDTO struct {
	LicensePlate  string `json:"licensePlate"`
	SessionID     *int   `json:"sessionId"`
	TicketCode    string `json:"ticketCode"`
	OperatorID    int    `json:"operatorId"`
	PaymentMethod string `json:"paymentMethod"`
}

type ParkingSessionFilter struct {
	Active    *bool      `form:"active"`
	VehicleID *int       `form:"vehicleId"`
	From      *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To        *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
}

// Matches applies the filter on entry time and state.
func (f ParkingSessionFilter) Matches(s ParkingSession) bool {
	if f.Active != nil && s.IsActive != *f.Active {
		return false
	}
	if f.VehicleID != nil && s.VehicleID != *f.VehicleID {
		return false
	}
	if f.From != nil && s.EntryTime.Before(*f.From) {
		return false
	}
	if f.To != nil && !s.EntryTime.Before(*f.To) {
		return false
	}
	return true
}

type StartSessionResponse struct {
	SessionID     int       `json:"sessionId"`
	TicketCode    string    `json:"ticketCode"`
	LicensePlate  string    `json:"licensePlate"`
	VehicleType   string    `json:"vehicleType"`
	AssignedSpace string    `json:"assignedSpace"`
	EntryTime     time.Time `json:"entryTime"`
	OperatorName  string    `json:"operatorName"`
}

type EndSessionResponse struct {
	SessionID     int             `json:"sessionId"`
	TicketCode    string          `json:"ticketCode"`
	LicensePlate  string          `json:"licensePlate"`
	VehicleType   string          `json:"vehicleType"`
	AssignedSpace string          `json:"assignedSpace"`
	EntryTime     time.Time       `json:"entryTime"`
	ExitTime      time.Time       `json:"exitTime"`
	HoursParked   decimal.Decimal `json:"hoursParked"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	PaymentID     int             `json:"paymentId"`
	PaymentStatus PaymentStatus   `json:"paymentStatus"`
	OperatorName  string          `json:"operatorName"`
}

// FormatTicketCode renders prefix-yyyyMMddHHmmss-NNNN.
func FormatTicketCode(prefix string, at time.Time, seq uint32) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, at.UTC().Format("20060102150405"), seq%10000)
}

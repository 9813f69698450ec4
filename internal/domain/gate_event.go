package domain

type GateDirection string

const (
	GateDirectionEntry GateDirection = "entry"
	GateDirectionExit  GateDirection = "exit"
)

// GateEvent is what entry/exit gate devices push onto the gate queue.
type GateEvent struct {
	EventID      string        `json:"eventId"`
	Direction    GateDirection `json:"direction"`
	LicensePlate string        `json:"licensePlate"`
	TicketCode   string        `json:"ticketCode,omitempty"`
	OperatorID   int           `json:"operatorId"`
	DeviceID     string        `json:"deviceId,omitempty"`
}

// BarrierCommand is published to a gate device after a session starts or ends.
type BarrierCommand struct {
	Action       string        `json:"action"`
	Direction    GateDirection `json:"direction"`
	LicensePlate string        `json:"licensePlate,omitempty"`
	TicketCode   string        `json:"ticketCode,omitempty"`
	RequestID    string        `json:"requestId"`
}

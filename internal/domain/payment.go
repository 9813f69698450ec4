package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/guregu/null.v4"
)

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "CASH"
	PaymentCard     PaymentMethod = "CARD"
	PaymentTransfer PaymentMethod = "TRANSFER"
)

// ParsePaymentMethod accepts any case; blank yields def.
func ParsePaymentMethod(s string, def PaymentMethod) (PaymentMethod, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	switch PaymentMethod(s) {
	case "":
		return def, nil
	case PaymentCash, PaymentCard, PaymentTransfer:
		return PaymentMethod(s), nil
	}
	return "", fmt.Errorf("%w: unknown payment method %q", ErrIllegalArgument, s)
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentPaid      PaymentStatus = "PAID"
	PaymentCancelled PaymentStatus = "CANCELLED"
)

type PaymentAction string

const (
	ActionComplete PaymentAction = "complete"
	ActionCancel   PaymentAction = "cancel"
	ActionRefund   PaymentAction = "refund"
)

// Payment settles one session's fee. PENDING moves to PAID or CANCELLED; both are terminal.
type Payment struct {
	ID               int             `json:"id"`
	ParkingSessionID int             `json:"parkingSessionId"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	HoursParked      decimal.Decimal `json:"hoursParked"`
	RateApplied      decimal.Decimal `json:"rateApplied"`
	PaymentMethod    PaymentMethod   `json:"paymentMethod"`
	PaymentStatus    PaymentStatus   `json:"paymentStatus"`
	PaidAt           null.Time       `json:"paidAt"`
	OperatorID       int             `json:"operatorId"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// Complete settles a pending payment.
func (p *Payment) Complete(method PaymentMethod, operatorID int, at time.Time) error {
	if p.PaymentStatus != PaymentPending {
		return fmt.Errorf("%w: payment %d is %s and cannot be completed", ErrIllegalState, p.ID, p.PaymentStatus)
	}
	if method != "" {
		p.PaymentMethod = method
	}
	if operatorID > 0 {
		p.OperatorID = operatorID
	}
	p.PaymentStatus = PaymentPaid
	p.PaidAt = null.TimeFrom(at)
	return nil
}

// Cancel abandons a pending payment.
func (p *Payment) Cancel() error {
	if p.PaymentStatus != PaymentPending {
		return fmt.Errorf("%w: payment %d is %s and cannot be cancelled", ErrIllegalState, p.ID, p.PaymentStatus)
	}
	p.PaymentStatus = PaymentCancelled
	return nil
}

// AllowedActions lists what may be done with the payment in its current state.
// A refund is a separate record, so PAID stays PAID.
func (p *Payment) AllowedActions() []PaymentAction {
	switch p.PaymentStatus {
	case PaymentPending:
		return []PaymentAction{ActionComplete, ActionCancel}
	case PaymentPaid:
		return []PaymentAction{ActionRefund}
	default:
		return []PaymentAction{}
	}
}

// TimeoutPolicy decides when a pending payment is abandoned. It is evaluated
// on demand; nothing runs in the background.
type TimeoutPolicy struct {
	Timeout       time.Duration
	WarningWindow time.Duration
}

func DefaultTimeoutPolicy() TimeoutPolicy {
	return TimeoutPolicy{Timeout: 15 * time.Minute, WarningWindow: 5 * time.Minute}
}

// Remaining is the time left before the payment times out (zero when elapsed).
func (tp TimeoutPolicy) Remaining(p *Payment, now time.Time) time.Duration {
	left := p.CreatedAt.Add(tp.Timeout).Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// ShouldCancelDueToTimeout is true once a pending payment's window has elapsed.
func (tp TimeoutPolicy) ShouldCancelDueToTimeout(p *Payment, now time.Time) bool {
	if p.PaymentStatus != PaymentPending {
		return false
	}
	return !now.Before(p.CreatedAt.Add(tp.Timeout))
}

// IsNearTimeout is true for a pending payment with at most WarningWindow left.
// It only drives warnings.
func (tp TimeoutPolicy) IsNearTimeout(p *Payment, now time.Time) bool {
	if p.PaymentStatus != PaymentPending || tp.ShouldCancelDueToTimeout(p, now) {
		return false
	}
	return tp.Remaining(p, now) <= tp.WarningWindow
}

type CalculatePaymentDTO struct {
	SessionID int `json:"sessionId" binding:"required,gt=0"`
}

type CalculatePaymentResponse struct {
	SessionID     int             `json:"sessionId"`
	TicketCode    string          `json:"ticketCode"`
	HoursParked   decimal.Decimal `json:"hoursParked"`
	RateApplied   decimal.Decimal `json:"rateApplied"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	SessionActive bool            `json:"sessionActive"`
}

type ProcessPaymentDTO struct {
	PaymentID     int    `json:"paymentId" binding:"required,gt=0"`
	PaymentMethod string `json:"paymentMethod"`
	OperatorID    int    `json:"operatorId"`
}

type PaymentStatusResponse struct {
	PaymentID        int             `json:"paymentId"`
	Status           PaymentStatus   `json:"status"`
	AllowedActions   []PaymentAction `json:"allowedActions"`
	NearTimeout      bool            `json:"nearTimeout"`
	ShouldCancel     bool            `json:"shouldCancel"`
	RemainingSeconds int64           `json:"remainingSeconds"`
}

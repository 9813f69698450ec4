package domain

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func pendingPayment(createdAt time.Time) *Payment {
	return &Payment{
		ID:               7,
		ParkingSessionID: 3,
		TotalAmount:      decimal.NewFromInt(4000),
		PaymentMethod:    PaymentCash,
		PaymentStatus:    PaymentPending,
		OperatorID:       2,
		CreatedAt:        createdAt,
	}
}

func TestTimeoutPolicy_ShouldCancel(t *testing.T) {
	created := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	tp := DefaultTimeoutPolicy()

	tests := []struct {
		name  string
		after time.Duration
		want  bool
	}{
		{"ten minutes", 10 * time.Minute, false},
		{"exactly fifteen", 15 * time.Minute, true},
		{"sixteen minutes", 16 * time.Minute, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := pendingPayment(created)
			if got := tp.ShouldCancelDueToTimeout(p, created.Add(tc.after)); got != tc.want {
				t.Errorf("ShouldCancelDueToTimeout(+%s) = %v, want %v", tc.after, got, tc.want)
			}
		})
	}

	p := pendingPayment(created)
	_ = p.Complete(PaymentCard, 2, created.Add(time.Minute))
	if tp.ShouldCancelDueToTimeout(p, created.Add(time.Hour)) {
		t.Error("paid payment should never time out")
	}
}

func TestTimeoutPolicy_NearTimeout(t *testing.T) {
	created := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	tp := DefaultTimeoutPolicy()
	p := pendingPayment(created)

	if tp.IsNearTimeout(p, created.Add(9*time.Minute)) {
		t.Error("6 minutes left should not be near timeout")
	}
	if !tp.IsNearTimeout(p, created.Add(10*time.Minute)) {
		t.Error("5 minutes left should be near timeout")
	}
	if tp.IsNearTimeout(p, created.Add(15*time.Minute)) {
		t.Error("timed out payment is past the warning window")
	}
	if got := tp.Remaining(p, created.Add(20*time.Minute)); got != 0 {
		t.Errorf("Remaining after timeout = %s, want 0", got)
	}
	if got := tp.Remaining(p, created.Add(12*time.Minute)); got != 3*time.Minute {
		t.Errorf("Remaining = %s, want 3m", got)
	}
}

func TestPayment_Transitions(t *testing.T) {
	at := time.Date(2026, 5, 1, 12, 5, 0, 0, time.UTC)

	p := pendingPayment(at)
	if err := p.Complete(PaymentCard, 4, at); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if p.PaymentStatus != PaymentPaid || !p.PaidAt.Valid || p.PaymentMethod != PaymentCard || p.OperatorID != 4 {
		t.Errorf("unexpected paid payment: %+v", p)
	}
	if err := p.Cancel(); !errors.Is(err, ErrIllegalState) {
		t.Errorf("cancel paid: expected ErrIllegalState, got %v", err)
	}
	if err := p.Complete(PaymentCash, 4, at); !errors.Is(err, ErrIllegalState) {
		t.Errorf("complete paid: expected ErrIllegalState, got %v", err)
	}

	p = pendingPayment(at)
	if err := p.Cancel(); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if err := p.Complete(PaymentCash, 2, at); !errors.Is(err, ErrIllegalState) {
		t.Errorf("complete cancelled: expected ErrIllegalState, got %v", err)
	}
}

func TestPayment_AllowedActions(t *testing.T) {
	tests := []struct {
		status PaymentStatus
		want   []PaymentAction
	}{
		{PaymentPending, []PaymentAction{ActionComplete, ActionCancel}},
		{PaymentPaid, []PaymentAction{ActionRefund}},
		{PaymentCancelled, []PaymentAction{}},
	}
	for _, tc := range tests {
		t.Run(string(tc.status), func(t *testing.T) {
			p := &Payment{PaymentStatus: tc.status}
			if got := p.AllowedActions(); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("AllowedActions() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParsePaymentMethod(t *testing.T) {
	if m, err := ParsePaymentMethod("", PaymentCash); err != nil || m != PaymentCash {
		t.Errorf("blank: got %q, %v", m, err)
	}
	if m, err := ParsePaymentMethod(" card ", PaymentCash); err != nil || m != PaymentCard {
		t.Errorf("card: got %q, %v", m, err)
	}
	if _, err := ParsePaymentMethod("bitcoin", PaymentCash); !errors.Is(err, ErrIllegalArgument) {
		t.Errorf("unknown: expected ErrIllegalArgument, got %v", err)
	}
}

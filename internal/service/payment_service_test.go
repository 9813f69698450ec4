package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/apperror"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
)

// pendingPayment parks a car for 90 minutes and returns the payment created at exit.
func pendingPayment(f *fixture) *domain.EndSessionResponse {
	f.t.Helper()
	f.start("PAY-001", 2)
	f.advance(90 * time.Minute)
	return f.end(domain.EndSessionDTO{LicensePlate: "PAY-001", OperatorID: 2, PaymentMethod: "card"})
}

func TestProcessPayment(t *testing.T) {
	f := newFixture(t)
	ended := pendingPayment(f)
	if !ended.TotalAmount.Equal(decimal.NewFromInt(4000)) {
		t.Fatalf("1.5 hours should bill 2 hours, got %s", ended.TotalAmount)
	}

	f.advance(5 * time.Minute)
	p, err := f.svc.Payments.Process(f.ctx, ProcessPayment{domain.ProcessPaymentDTO{PaymentID: ended.PaymentID, OperatorID: 3}})
	if err != nil {
		t.Fatal(err)
	}
	if p.PaymentStatus != domain.PaymentPaid || !p.PaidAt.Valid || !p.PaidAt.Time.Equal(f.now) {
		t.Errorf("unexpected payment %+v", p)
	}
	if p.PaymentMethod != domain.PaymentCard || p.OperatorID != 3 {
		t.Errorf("method/operator = %s/%d", p.PaymentMethod, p.OperatorID)
	}

	_, err = f.svc.Payments.Process(f.ctx, ProcessPayment{domain.ProcessPaymentDTO{PaymentID: ended.PaymentID}})
	wantAppError(t, err, apperror.Conflict, "ILLEGAL_STATE")

	_, err = f.svc.Payments.Cancel(f.ctx, CancelPayment{ID: ended.PaymentID})
	wantAppError(t, err, apperror.Conflict, "ILLEGAL_STATE")
}

func TestProcessTimedOutPayment(t *testing.T) {
	f := newFixture(t)
	ended := pendingPayment(f)

	f.advance(15 * time.Minute)
	_, err := f.svc.Payments.Process(f.ctx, ProcessPayment{domain.ProcessPaymentDTO{PaymentID: ended.PaymentID, OperatorID: 2}})
	wantAppError(t, err, apperror.BadRequest, "PAYMENT_TIMEOUT")

	p, err := f.svc.Payments.Get(f.ctx, GetPayment{ID: ended.PaymentID})
	if err != nil {
		t.Fatal(err)
	}
	if p.PaymentStatus != domain.PaymentCancelled {
		t.Errorf("status = %s, want CANCELLED to be persisted", p.PaymentStatus)
	}
}

func TestGetPaymentAppliesTimeout(t *testing.T) {
	tests := []struct {
		name  string
		after time.Duration
		want  domain.PaymentStatus
	}{
		{"within window", 10 * time.Minute, domain.PaymentPending},
		{"at the limit", 15 * time.Minute, domain.PaymentCancelled},
		{"past the limit", 16 * time.Minute, domain.PaymentCancelled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ended := pendingPayment(f)
			f.advance(tt.after)
			p, err := f.svc.Payments.Get(f.ctx, GetPayment{ID: ended.PaymentID})
			if err != nil {
				t.Fatal(err)
			}
			if p.PaymentStatus != tt.want {
				t.Errorf("status = %s, want %s", p.PaymentStatus, tt.want)
			}
		})
	}
}

func TestPaymentStatus(t *testing.T) {
	f := newFixture(t)
	ended := pendingPayment(f)

	f.advance(11 * time.Minute)
	st, err := f.svc.Payments.Status(f.ctx, GetPaymentStatus{ID: ended.PaymentID})
	if err != nil {
		t.Fatal(err)
	}
	if st.Status != domain.PaymentPending || !st.NearTimeout || st.ShouldCancel {
		t.Errorf("unexpected status %+v", st)
	}
	if st.RemainingSeconds != 240 {
		t.Errorf("remaining = %d, want 240", st.RemainingSeconds)
	}
	if len(st.AllowedActions) != 2 {
		t.Errorf("allowed actions = %v", st.AllowedActions)
	}

	f.advance(4 * time.Minute)
	st, err = f.svc.Payments.Status(f.ctx, GetPaymentStatus{ID: ended.PaymentID})
	if err != nil {
		t.Fatal(err)
	}
	if st.Status != domain.PaymentCancelled || st.NearTimeout || len(st.AllowedActions) != 0 {
		t.Errorf("unexpected status after timeout %+v", st)
	}
}

func TestCalculatePreview(t *testing.T) {
	f := newFixture(t)
	started := f.start("CAL-001", 2)
	f.advance(30 * time.Minute)

	preview, err := f.svc.Payments.Calculate(f.ctx, CalculatePayment{domain.CalculatePaymentDTO{SessionID: started.SessionID}})
	if err != nil {
		t.Fatal(err)
	}
	if !preview.TotalAmount.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("total = %s, want the one hour minimum", preview.TotalAmount)
	}
	if !preview.HoursParked.Equal(decimal.RequireFromString("0.5")) || !preview.SessionActive {
		t.Errorf("unexpected preview %+v", preview)
	}

	_, err = f.svc.Payments.GetBySession(f.ctx, GetPaymentBySession{SessionID: started.SessionID})
	wantAppError(t, err, apperror.NotFound, "")
}

func TestCancelPayment(t *testing.T) {
	f := newFixture(t)
	ended := pendingPayment(f)

	p, err := f.svc.Payments.Cancel(f.ctx, CancelPayment{ID: ended.PaymentID})
	if err != nil {
		t.Fatal(err)
	}
	if p.PaymentStatus != domain.PaymentCancelled {
		t.Errorf("status = %s", p.PaymentStatus)
	}
	_, err = f.svc.Payments.Process(f.ctx, ProcessPayment{domain.ProcessPaymentDTO{PaymentID: ended.PaymentID}})
	wantAppError(t, err, apperror.Conflict, "ILLEGAL_STATE")

	_, err = f.svc.Payments.Get(f.ctx, GetPayment{ID: 999})
	wantAppError(t, err, apperror.NotFound, "")
}

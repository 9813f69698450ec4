package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/apperror"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/repository"
)

// PaymentService settles the fees created when sessions end. Pending payments
// time out lazily: whichever read or write first sees an expired payment
// cancels it.
type PaymentService struct {
	deps Deps
}

// Calculate previews the fee for a session without persisting anything.
// Active sessions are billed up to now.
func (s *PaymentService) Calculate(ctx context.Context, req CalculatePayment) (*domain.CalculatePaymentResponse, error) {
	if err := requireID("sessionId", req.SessionID); err != nil {
		return nil, err
	}
	session, err := s.deps.Sessions.FindByID(ctx, req.SessionID)
	if err != nil {
		return nil, translate(notFound(err, "parking session %d not found", req.SessionID))
	}
	vehicle, err := s.deps.Vehicles.FindByID(ctx, session.VehicleID)
	if err != nil {
		return nil, translate(err)
	}
	rc, err := s.deps.RateConfigs.FindActiveByVehicleTypeID(ctx, vehicle.VehicleTypeID)
	if errors.Is(err, repository.ErrNotFound) {
		err = fmt.Errorf("%w: no active rate configuration for vehicle type %d", domain.ErrIllegalState, vehicle.VehicleTypeID)
	}
	if err != nil {
		return nil, translate(err)
	}

	hours := session.HoursParked(s.deps.now())
	amount, err := domain.CalculateAmount(hours, *rc)
	if err != nil {
		return nil, translate(err)
	}
	return &domain.CalculatePaymentResponse{
		SessionID:     session.ID,
		TicketCode:    session.TicketCode,
		HoursParked:   hours.Round(4),
		RateApplied:   rc.RatePerHour,
		TotalAmount:   amount,
		SessionActive: session.IsActive,
	}, nil
}

// Process completes a pending payment. A payment found past its timeout is
// cancelled instead and the request fails.
func (s *PaymentService) Process(ctx context.Context, req ProcessPayment) (*domain.Payment, error) {
	if err := requireID("paymentId", req.PaymentID); err != nil {
		return nil, err
	}
	method, err := domain.ParsePaymentMethod(req.PaymentMethod, "")
	if err != nil {
		return nil, translate(err)
	}

	var (
		out      *domain.Payment
		timedOut bool
	)
	err = s.deps.inTx(ctx, func(ctx context.Context) error {
		p, expired, err := s.loadFresh(ctx, req.PaymentID)
		if err != nil {
			return err
		}
		if expired {
			timedOut, out = true, p
			return nil
		}
		if req.OperatorID > 0 {
			if _, err := activeOperator(ctx, s.deps, req.OperatorID); err != nil {
				return err
			}
		}
		if err := p.Complete(method, req.OperatorID, s.deps.now()); err != nil {
			return err
		}
		out, err = s.deps.Payments.Update(ctx, p)
		return err
	})
	if err != nil {
		return nil, err
	}
	if timedOut {
		s.cancelled(ctx, out)
		return nil, apperror.NewBadRequest("payment %d timed out and was cancelled", out.ID).WithCode("PAYMENT_TIMEOUT")
	}

	s.deps.Log.Info("payment completed",
		zap.Int("payment_id", out.ID),
		zap.Int("session_id", out.ParkingSessionID),
		zap.String("method", string(out.PaymentMethod)),
		zap.String("amount", out.TotalAmount.StringFixed(2)))
	publish(ctx, s.deps, domain.Event{Type: domain.EventPaymentPaid, PaymentID: out.ID, SessionID: out.ParkingSessionID, At: out.PaidAt.Time})
	return out, nil
}

func (s *PaymentService) Cancel(ctx context.Context, req CancelPayment) (*domain.Payment, error) {
	if err := requireID("paymentId", req.ID); err != nil {
		return nil, err
	}
	var out *domain.Payment
	err := s.deps.inTx(ctx, func(ctx context.Context) error {
		p, err := s.deps.Payments.FindByID(ctx, req.ID)
		if err != nil {
			return notFound(err, "payment %d not found", req.ID)
		}
		if err := p.Cancel(); err != nil {
			return err
		}
		out, err = s.deps.Payments.Update(ctx, p)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.cancelled(ctx, out)
	return out, nil
}

// Get returns the payment, cancelling it first when its timeout has elapsed.
func (s *PaymentService) Get(ctx context.Context, req GetPayment) (*domain.Payment, error) {
	if err := requireID("paymentId", req.ID); err != nil {
		return nil, err
	}
	return s.read(ctx, func(ctx context.Context) (*domain.Payment, error) {
		p, err := s.deps.Payments.FindByID(ctx, req.ID)
		return p, notFound(err, "payment %d not found", req.ID)
	})
}

func (s *PaymentService) GetBySession(ctx context.Context, req GetPaymentBySession) (*domain.Payment, error) {
	if err := requireID("sessionId", req.SessionID); err != nil {
		return nil, err
	}
	return s.read(ctx, func(ctx context.Context) (*domain.Payment, error) {
		p, err := s.deps.Payments.FindBySessionID(ctx, req.SessionID)
		return p, notFound(err, "no payment for parking session %d", req.SessionID)
	})
}

func (s *PaymentService) Status(ctx context.Context, req GetPaymentStatus) (*domain.PaymentStatusResponse, error) {
	p, err := s.Get(ctx, GetPayment(req))
	if err != nil {
		return nil, err
	}
	now := s.deps.now()
	tp := s.deps.TimeoutPolicy
	resp := &domain.PaymentStatusResponse{
		PaymentID:      p.ID,
		Status:         p.PaymentStatus,
		AllowedActions: p.AllowedActions(),
		NearTimeout:    tp.IsNearTimeout(p, now),
		ShouldCancel:   tp.ShouldCancelDueToTimeout(p, now),
	}
	if p.PaymentStatus == domain.PaymentPending {
		resp.RemainingSeconds = int64(tp.Remaining(p, now).Seconds())
	}
	return resp, nil
}

func (s *PaymentService) read(ctx context.Context, find func(ctx context.Context) (*domain.Payment, error)) (*domain.Payment, error) {
	var (
		out     *domain.Payment
		expired bool
	)
	err := s.deps.inTx(ctx, func(ctx context.Context) error {
		p, err := find(ctx)
		if err != nil {
			return err
		}
		out, expired, err = s.expire(ctx, p)
		return err
	})
	if err != nil {
		return nil, err
	}
	if expired {
		s.cancelled(ctx, out)
	}
	return out, nil
}

// loadFresh reads a payment and applies the timeout to it.
func (s *PaymentService) loadFresh(ctx context.Context, id int) (*domain.Payment, bool, error) {
	p, err := s.deps.Payments.FindByID(ctx, id)
	if err != nil {
		return nil, false, notFound(err, "payment %d not found", id)
	}
	return s.expire(ctx, p)
}

// expire cancels p when its timeout has elapsed and reports whether it did.
func (s *PaymentService) expire(ctx context.Context, p *domain.Payment) (*domain.Payment, bool, error) {
	if !s.deps.TimeoutPolicy.ShouldCancelDueToTimeout(p, s.deps.now()) {
		return p, false, nil
	}
	if err := p.Cancel(); err != nil {
		return nil, false, err
	}
	updated, err := s.deps.Payments.Update(ctx, p)
	if err != nil {
		return nil, false, err
	}
	s.deps.Log.Info("pending payment timed out",
		zap.Int("payment_id", updated.ID),
		zap.Time("created_at", updated.CreatedAt))
	return updated, true, nil
}

func (s *PaymentService) cancelled(ctx context.Context, p *domain.Payment) {
	s.deps.Log.Info("payment cancelled", zap.Int("payment_id", p.ID), zap.Int("session_id", p.ParkingSessionID))
	publish(ctx, s.deps, domain.Event{Type: domain.EventPaymentCancelled, PaymentID: p.ID, SessionID: p.ParkingSessionID, At: s.deps.now()})
}

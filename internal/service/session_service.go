package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/apperror"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/repository"
)

// SessionService handles vehicle entry and exit.
type SessionService struct {
	deps    Deps
	tickets *TicketGenerator
}

// Start opens a session for a plate: it assigns the first available space of
// the vehicle's type and issues a ticket code. Unknown plates are registered
// on the fly when the request names a vehicle type.
func (s *SessionService) Start(ctx context.Context, req StartSession) (*domain.StartSessionResponse, error) {
	plate, err := domain.NormalizePlate(req.LicensePlate)
	if err != nil {
		return nil, translate(err)
	}
	if err := requireID("operatorId", req.OperatorID); err != nil {
		return nil, err
	}

	var (
		resp    *domain.StartSessionResponse
		session *domain.ParkingSession
		space   *domain.ParkingSpace
	)
	open := func(ctx context.Context) error {
		operator, err := activeOperator(ctx, s.deps, req.OperatorID)
		if err != nil {
			return err
		}
		vehicle, err := s.vehicleFor(ctx, plate, req.VehicleTypeID)
		if err != nil {
			return err
		}
		vt, err := s.deps.VehicleTypes.FindByID(ctx, vehicle.VehicleTypeID)
		if err != nil {
			return notFound(err, "vehicle type %d not found", vehicle.VehicleTypeID)
		}

		if err := s.ensureNotParked(ctx, vehicle); err != nil {
			return err
		}

		space, err = s.deps.Spaces.FindFirstAvailableByVehicleType(ctx, vt.ID)
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w for vehicle type %s", domain.ErrNoAvailableSpace, vt.Name)
		}
		if err != nil {
			return err
		}

		now := s.deps.now()
		if err := space.Occupy(plate, now); err != nil {
			return err
		}
		if _, err := s.deps.Spaces.Update(ctx, space); err != nil {
			return err
		}

		code, err := s.tickets.Next(ctx, now)
		if err != nil {
			return err
		}
		session = &domain.ParkingSession{
			VehicleID:       vehicle.ID,
			ParkingSpaceID:  space.ID,
			EntryTime:       now,
			OperatorEntryID: operator.ID,
			IsActive:        true,
			TicketCode:      code,
			CreatedAt:       now,
		}
		if _, err := s.deps.Sessions.Create(ctx, session); err != nil {
			if errors.Is(err, repository.ErrDuplicateTicketCode) {
				return err
			}
			if errors.Is(err, repository.ErrDuplicateEntry) {
				return fmt.Errorf("%w: %s", domain.ErrVehicleAlreadyParked, plate)
			}
			return err
		}

		resp = &domain.StartSessionResponse{
			SessionID:     session.ID,
			TicketCode:    session.TicketCode,
			LicensePlate:  vehicle.LicensePlate,
			VehicleType:   vt.Name,
			AssignedSpace: space.SpaceNumber,
			EntryTime:     session.EntryTime,
			OperatorName:  operator.DisplayName(),
		}
		return nil
	}
	// A ticket code taken by a concurrent start rolls the whole attempt back.
	for attempt := 1; ; attempt++ {
		err = s.deps.inTx(ctx, open)
		if !errors.Is(err, repository.ErrDuplicateTicketCode) || attempt == maxTicketAttempts {
			break
		}
		s.deps.Log.Warn("ticket code collision, retrying", zap.String("license_plate", plate), zap.Int("attempt", attempt))
	}
	if err != nil {
		return nil, err
	}

	s.deps.Log.Info("parking session started",
		zap.Int("session_id", session.ID),
		zap.String("ticket_code", session.TicketCode),
		zap.Int("space_id", space.ID),
		zap.String("license_plate", plate))
	publish(ctx, s.deps, domain.Event{Type: domain.EventSpaceOccupied, SpaceID: space.ID, SpaceNumber: space.SpaceNumber, LicensePlate: plate, At: session.EntryTime})
	publish(ctx, s.deps, domain.Event{Type: domain.EventSessionStarted, SessionID: session.ID, SpaceID: space.ID, SpaceNumber: space.SpaceNumber, LicensePlate: plate, TicketCode: session.TicketCode, At: session.EntryTime})
	return resp, nil
}

func (s *SessionService) vehicleFor(ctx context.Context, plate string, vehicleTypeID *int) (*domain.Vehicle, error) {
	vehicle, err := s.deps.Vehicles.FindByLicensePlate(ctx, plate)
	if err == nil {
		return vehicle, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if vehicleTypeID == nil {
		return nil, apperror.Wrap(apperror.NotFound, err, "vehicle with plate %s is not registered", plate)
	}
	vehicles := &VehicleService{deps: s.deps}
	return vehicles.register(ctx, domain.RegisterVehicleDTO{LicensePlate: plate, VehicleTypeID: *vehicleTypeID})
}

// ensureNotParked rejects a vehicle that has an active session or sits in a
// space occupied by hand.
func (s *SessionService) ensureNotParked(ctx context.Context, vehicle *domain.Vehicle) error {
	_, err := s.deps.Sessions.FindActiveByVehicleID(ctx, vehicle.ID)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s", domain.ErrVehicleAlreadyParked, vehicle.LicensePlate)
	case !errors.Is(err, repository.ErrNotFound):
		return err
	}
	occupied, err := s.deps.Spaces.FindByOccupiedPlate(ctx, vehicle.LicensePlate)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s occupies space %s", domain.ErrVehicleAlreadyParked, vehicle.LicensePlate, occupied.SpaceNumber)
	case !errors.Is(err, repository.ErrNotFound):
		return err
	}
	return nil
}

// End closes the active session found by plate, session id or ticket code (the
// first one given wins), frees its space and records a pending payment.
func (s *SessionService) End(ctx context.Context, req EndSession) (*domain.EndSessionResponse, error) {
	if err := requireID("operatorId", req.OperatorID); err != nil {
		return nil, err
	}
	method, err := domain.ParsePaymentMethod(req.PaymentMethod, domain.PaymentCash)
	if err != nil {
		return nil, translate(err)
	}
	if strings.TrimSpace(req.LicensePlate) == "" && req.SessionID == nil && strings.TrimSpace(req.TicketCode) == "" {
		return nil, apperror.NewBadRequest("one of licensePlate, sessionId or ticketCode is required").WithCode("VALIDATION_ERROR")
	}

	var (
		resp    *domain.EndSessionResponse
		session *domain.ParkingSession
		payment *domain.Payment
		space   *domain.ParkingSpace
	)
	err = s.deps.inTx(ctx, func(ctx context.Context) error {
		operator, err := activeOperator(ctx, s.deps, req.OperatorID)
		if err != nil {
			return err
		}
		session, err = s.locateActive(ctx, req.EndSessionDTO)
		if err != nil {
			return err
		}
		vehicle, err := s.deps.Vehicles.FindByID(ctx, session.VehicleID)
		if err != nil {
			return err
		}
		vt, err := s.deps.VehicleTypes.FindByID(ctx, vehicle.VehicleTypeID)
		if err != nil {
			return err
		}
		rc, err := s.deps.RateConfigs.FindActiveByVehicleTypeID(ctx, vt.ID)
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: no active rate configuration for vehicle type %s", domain.ErrIllegalState, vt.Name)
		}
		if err != nil {
			return err
		}

		now := s.deps.now()
		if err := session.Close(now, operator.ID); err != nil {
			return err
		}
		if _, err := s.deps.Sessions.Update(ctx, session); err != nil {
			return err
		}

		space, err = s.deps.Spaces.FindByIDForUpdate(ctx, session.ParkingSpaceID)
		if err != nil {
			return err
		}
		if space.Occupied && space.OccupiedByVehiclePlate.String == vehicle.LicensePlate {
			if err := space.Free(); err != nil {
				return err
			}
			if _, err := s.deps.Spaces.Update(ctx, space); err != nil {
				return err
			}
		} else {
			s.deps.Log.Warn("session space was already released",
				zap.Int("session_id", session.ID),
				zap.Int("space_id", space.ID))
		}

		hours := session.HoursParked(now)
		amount, err := domain.CalculateAmount(hours, *rc)
		if err != nil {
			return err
		}
		payment = &domain.Payment{
			ParkingSessionID: session.ID,
			TotalAmount:      amount,
			HoursParked:      hours.Round(4),
			RateApplied:      rc.RatePerHour,
			PaymentMethod:    method,
			PaymentStatus:    domain.PaymentPending,
			OperatorID:       operator.ID,
			CreatedAt:        now,
		}
		if _, err := s.deps.Payments.Create(ctx, payment); err != nil {
			return err
		}

		resp = &domain.EndSessionResponse{
			SessionID:     session.ID,
			TicketCode:    session.TicketCode,
			LicensePlate:  vehicle.LicensePlate,
			VehicleType:   vt.Name,
			AssignedSpace: space.SpaceNumber,
			EntryTime:     session.EntryTime,
			ExitTime:      session.ExitTime.Time,
			HoursParked:   payment.HoursParked,
			TotalAmount:   payment.TotalAmount,
			PaymentID:     payment.ID,
			PaymentStatus: payment.PaymentStatus,
			OperatorName:  operator.DisplayName(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.deps.Log.Info("parking session ended",
		zap.Int("session_id", session.ID),
		zap.String("ticket_code", session.TicketCode),
		zap.Int("payment_id", payment.ID),
		zap.String("amount", payment.TotalAmount.StringFixed(2)))
	at := session.ExitTime.Time
	publish(ctx, s.deps, domain.Event{Type: domain.EventSpaceFreed, SpaceID: space.ID, SpaceNumber: space.SpaceNumber, LicensePlate: resp.LicensePlate, At: at})
	publish(ctx, s.deps, domain.Event{Type: domain.EventSessionEnded, SessionID: session.ID, SpaceID: space.ID, SpaceNumber: space.SpaceNumber, PaymentID: payment.ID, LicensePlate: resp.LicensePlate, TicketCode: session.TicketCode, At: at})
	return resp, nil
}

// locateActive resolves the session to close. Every miss is reported as
// ErrNoActiveSession.
func (s *SessionService) locateActive(ctx context.Context, dto domain.EndSessionDTO) (*domain.ParkingSession, error) {
	var (
		session *domain.ParkingSession
		err     error
		key     string
	)
	switch {
	case strings.TrimSpace(dto.LicensePlate) != "":
		key = "plate " + dto.LicensePlate
		var plate string
		if plate, err = domain.NormalizePlate(dto.LicensePlate); err != nil {
			return nil, err
		}
		var vehicle *domain.Vehicle
		if vehicle, err = s.deps.Vehicles.FindByLicensePlate(ctx, plate); err == nil {
			session, err = s.deps.Sessions.FindActiveByVehicleID(ctx, vehicle.ID)
		}
	case dto.SessionID != nil:
		key = fmt.Sprintf("session %d", *dto.SessionID)
		session, err = s.deps.Sessions.FindByID(ctx, *dto.SessionID)
	default:
		key = "ticket " + strings.TrimSpace(dto.TicketCode)
		session, err = s.deps.Sessions.FindByTicketCode(ctx, strings.TrimSpace(dto.TicketCode))
	}
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !session.IsActive) {
		return nil, fmt.Errorf("%w for %s", domain.ErrNoActiveSession, key)
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SessionService) Get(ctx context.Context, req GetSession) (*domain.ParkingSession, error) {
	if err := requireID("sessionId", req.ID); err != nil {
		return nil, err
	}
	session, err := s.deps.Sessions.FindByID(ctx, req.ID)
	if err != nil {
		return nil, translate(notFound(err, "parking session %d not found", req.ID))
	}
	return session, nil
}

func (s *SessionService) GetByTicket(ctx context.Context, req GetSessionByTicket) (*domain.ParkingSession, error) {
	code := strings.TrimSpace(req.TicketCode)
	if code == "" {
		return nil, apperror.NewBadRequest("ticketCode is required").WithCode("VALIDATION_ERROR")
	}
	session, err := s.deps.Sessions.FindByTicketCode(ctx, code)
	if err != nil {
		return nil, translate(notFound(err, "parking session with ticket %s not found", code))
	}
	return session, nil
}

func (s *SessionService) ListActive(ctx context.Context, _ ListActiveSessions) ([]domain.ParkingSession, error) {
	active := true
	return s.List(ctx, ListSessions{Filter: domain.ParkingSessionFilter{Active: &active}})
}

func (s *SessionService) List(ctx context.Context, req ListSessions) ([]domain.ParkingSession, error) {
	f := req.Filter
	if f.From != nil && f.To != nil && !f.From.Before(*f.To) {
		return nil, apperror.NewBadRequest("from must be before to").WithCode("VALIDATION_ERROR")
	}
	sessions, err := s.deps.Sessions.Find(ctx, f)
	return sessions, translate(err)
}

// activeOperator loads the user acting on a command. Unknown or disabled users are NotFound.
func activeOperator(ctx context.Context, d Deps, id int) (*domain.User, error) {
	u, err := d.Users.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "operator %d not found", id)
	}
	if !u.IsActive {
		return nil, apperror.NewNotFound("operator %d not found", id)
	}
	return u, nil
}

package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/apperror"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/repository"
)

// Deps are the collaborators shared by all application services.
type Deps struct {
	Tx           repository.Transactor
	Users        repository.UserRepository
	VehicleTypes repository.VehicleTypeRepository
	RateConfigs  repository.RateConfigRepository
	Vehicles     repository.VehicleRepository
	Spaces       repository.ParkingSpaceRepository
	Sessions     repository.ParkingSessionRepository
	Payments     repository.PaymentRepository
	Dashboard    repository.DashboardRepository

	Events     EventPublisher
	Recognizer PlateRecognizer
	Log        *zap.Logger
	Clock      func() time.Time

	TimeoutPolicy domain.TimeoutPolicy
	TicketPrefix  string
	JWTSecret     string
	JWTExpiration time.Duration
}

type Services struct {
	VehicleTypes *VehicleTypeService
	RateConfigs  *RateConfigService
	Vehicles     *VehicleService
	Spaces       *ParkingSpaceService
	Sessions     *SessionService
	Payments     *PaymentService
	Auth         *AuthService
	Dashboard    *DashboardService
	Plates       *PlateService
}

func New(d Deps) *Services {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Clock == nil {
		d.Clock = time.Now
	}
	if d.Events == nil {
		d.Events = NopPublisher{}
	}
	if d.TimeoutPolicy.Timeout <= 0 {
		d.TimeoutPolicy = domain.DefaultTimeoutPolicy()
	}
	if d.TicketPrefix == "" {
		d.TicketPrefix = "TK"
	}
	if d.JWTExpiration <= 0 {
		d.JWTExpiration = 24 * time.Hour
	}

	tickets := NewTicketGenerator(d.TicketPrefix, d.Sessions)
	auth := NewAuthService(d.Users, d.JWTSecret, d.JWTExpiration, d.Clock)
	auth.log = d.Log
	return &Services{
		VehicleTypes: &VehicleTypeService{deps: d},
		RateConfigs:  &RateConfigService{deps: d},
		Vehicles:     &VehicleService{deps: d},
		Spaces:       &ParkingSpaceService{deps: d},
		Sessions:     &SessionService{deps: d, tickets: tickets},
		Payments:     &PaymentService{deps: d},
		Auth:         auth,
		Dashboard:    &DashboardService{deps: d},
		Plates:       &PlateService{recognizer: d.Recognizer, log: d.Log},
	}
}

func (d Deps) now() time.Time {
	return d.Clock().UTC()
}

// inTx runs fn in one transaction and translates its error.
func (d Deps) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return translate(d.Tx.WithinTx(ctx, fn))
}

// translate maps domain and repository failures onto typed application errors.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperror.As(err); ok {
		return err
	}
	msg := err.Error()
	switch {
	case errors.Is(err, domain.ErrVehicleAlreadyParked):
		return apperror.Wrap(apperror.Conflict, err, "%s", msg).WithCode("VEHICLE_ALREADY_PARKED")
	case errors.Is(err, domain.ErrNoAvailableSpace):
		return apperror.Wrap(apperror.Conflict, err, "%s", msg).WithCode("NO_AVAILABLE_SPACE")
	case errors.Is(err, domain.ErrNoActiveSession):
		return apperror.Wrap(apperror.NotFound, err, "%s", msg).WithCode("NO_ACTIVE_SESSION")
	case errors.Is(err, domain.ErrIllegalState):
		return apperror.Wrap(apperror.Conflict, err, "%s", msg).WithCode("ILLEGAL_STATE")
	case errors.Is(err, domain.ErrIllegalArgument):
		return apperror.Wrap(apperror.BadRequest, err, "%s", msg).WithCode("VALIDATION_ERROR")
	case errors.Is(err, repository.ErrNotFound):
		return apperror.Wrap(apperror.NotFound, err, "%s", msg)
	case errors.Is(err, repository.ErrDuplicateEntry):
		return apperror.Wrap(apperror.Conflict, err, "%s", msg).WithCode("DUPLICATE_ENTRY")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	}
	return apperror.Wrap(apperror.Internal, err, "internal error")
}

// notFound turns repository.ErrNotFound into a NotFound error naming the key.
func notFound(err error, format string, args ...any) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.Wrap(apperror.NotFound, err, format, args...)
	}
	return err
}

func requireID(name string, id int) error {
	if id <= 0 {
		return apperror.NewBadRequest("%s must be a positive id", name).WithCode("VALIDATION_ERROR")
	}
	return nil
}

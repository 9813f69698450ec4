package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
)

var ErrNotFound = errors.New("record not found")
var ErrDuplicateEntry = errors.New("record already exists")

// ErrDuplicateTicketCode is the ErrDuplicateEntry raised when a session's
// ticket code is already taken.
var ErrDuplicateTicketCode = fmt.Errorf("%w: ticket code", ErrDuplicateEntry)

// Transactor runs fn as one all-or-nothing unit. Repositories called with the
// ctx passed to fn take part in the transaction; nested calls join the outer one.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id int) (*domain.User, error)
}

type VehicleTypeRepository interface {
	Create(ctx context.Context, vt *domain.VehicleType) (*domain.VehicleType, error)
	FindByID(ctx context.Context, id int) (*domain.VehicleType, error)
	FindByName(ctx context.Context, name string) (*domain.VehicleType, error)
	FindAll(ctx context.Context, activeOnly bool) ([]domain.VehicleType, error)
	Update(ctx context.Context, vt *domain.VehicleType) (*domain.VehicleType, error)
}

type RateConfigRepository interface {
	Create(ctx context.Context, rc *domain.RateConfig) (*domain.RateConfig, error)
	FindByID(ctx context.Context, id int) (*domain.RateConfig, error)
	FindActiveByVehicleTypeID(ctx context.Context, vehicleTypeID int) (*domain.RateConfig, error)
	FindByVehicleTypeID(ctx context.Context, vehicleTypeID int) ([]domain.RateConfig, error)
	Update(ctx context.Context, rc *domain.RateConfig) (*domain.RateConfig, error)
	// DeactivateActiveByVehicleTypeID deactivates every active config of the
	// vehicle type except exceptID and returns how many rows changed.
	DeactivateActiveByVehicleTypeID(ctx context.Context, vehicleTypeID, exceptID int) (int, error)
}

type VehicleRepository interface {
	Create(ctx context.Context, v *domain.Vehicle) (*domain.Vehicle, error)
	FindByID(ctx context.Context, id int) (*domain.Vehicle, error)
	FindByLicensePlate(ctx context.Context, plate string) (*domain.Vehicle, error)
	FindAll(ctx context.Context) ([]domain.Vehicle, error)
}

type ParkingSpaceRepository interface {
	Create(ctx context.Context, space *domain.ParkingSpace) (*domain.ParkingSpace, error)
	FindByID(ctx context.Context, id int) (*domain.ParkingSpace, error)
	// FindByIDForUpdate reads the row and, inside a transaction, locks it until commit.
	FindByIDForUpdate(ctx context.Context, id int) (*domain.ParkingSpace, error)
	FindBySpaceNumber(ctx context.Context, spaceNumber string) (*domain.ParkingSpace, error)
	FindByOccupiedPlate(ctx context.Context, plate string) (*domain.ParkingSpace, error)
	// FindFirstAvailableByVehicleType returns the available space with the lowest
	// space number, locked for the surrounding transaction.
	FindFirstAvailableByVehicleType(ctx context.Context, vehicleTypeID int) (*domain.ParkingSpace, error)
	Find(ctx context.Context, filter domain.ParkingSpaceFilter) ([]domain.ParkingSpace, error)
	Count(ctx context.Context, filter domain.ParkingSpaceFilter) (int, error)
	Update(ctx context.Context, space *domain.ParkingSpace) (*domain.ParkingSpace, error)
}

type ParkingSessionRepository interface {
	Create(ctx context.Context, session *domain.ParkingSession) (*domain.ParkingSession, error)
	FindByID(ctx context.Context, id int) (*domain.ParkingSession, error)
	FindByTicketCode(ctx context.Context, ticketCode string) (*domain.ParkingSession, error)
	FindActiveByVehicleID(ctx context.Context, vehicleID int) (*domain.ParkingSession, error)
	Find(ctx context.Context, filter domain.ParkingSessionFilter) ([]domain.ParkingSession, error)
	Update(ctx context.Context, session *domain.ParkingSession) (*domain.ParkingSession, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) (*domain.Payment, error)
	FindByID(ctx context.Context, id int) (*domain.Payment, error)
	FindBySessionID(ctx context.Context, sessionID int) (*domain.Payment, error)
	Update(ctx context.Context, p *domain.Payment) (*domain.Payment, error)
}

// DashboardRepository computes aggregates. Time ranges are half open [from, to).
type DashboardRepository interface {
	SpaceStats(ctx context.Context) ([]domain.VehicleTypeOccupancy, error)
	SessionStats(ctx context.Context, from, to time.Time) (domain.SessionStats, error)
	PaymentStats(ctx context.Context, from, to time.Time) (domain.PaymentStats, error)
}

package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/repository"
)

type pgVehicleRepository struct {
	db *sql.DB
}

func NewPgVehicleRepository(db *sql.DB) repository.VehicleRepository {
	return &pgVehicleRepository{db: db}
}

const vehicleColumns = `id, license_plate, vehicle_type_id, owner_name, owner_phone, created_at, updated_at`

func scanVehicle(row rowScanner) (*domain.Vehicle, error) {
	v := &domain.Vehicle{}
	if err := row.Scan(&v.ID, &v.LicensePlate, &v.VehicleTypeID, &v.OwnerName, &v.OwnerPhone, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	v.CreatedAt = v.CreatedAt.In(time.UTC)
	v.UpdatedAt = v.UpdatedAt.In(time.UTC)
	return v, nil
}

func (r *pgVehicleRepository) Create(ctx context.Context, v *domain.Vehicle) (*domain.Vehicle, error) {
	query := `INSERT INTO vehicles (license_plate, vehicle_type_id, owner_name, owner_phone, created_at, updated_at)
	           VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	           RETURNING id, created_at, updated_at`
	err := conn(ctx, r.db).QueryRowContext(ctx, query, v.LicensePlate, v.VehicleTypeID, v.OwnerName, v.OwnerPhone).
		Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return nil, fmt.Errorf("%w: vehicle '%s' already registered", repository.ErrDuplicateEntry, v.LicensePlate)
		}
		return nil, fmt.Errorf("VehicleRepository.Create: %w", err)
	}
	v.CreatedAt = v.CreatedAt.In(time.UTC)
	v.UpdatedAt = v.UpdatedAt.In(time.UTC)
	return v, nil
}

func (r *pgVehicleRepository) FindByID(ctx context.Context, id int) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`
	v, err := scanVehicle(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("VehicleRepository.FindByID: %w", err)
	}
	return v, nil
}

func (r *pgVehicleRepository) FindByLicensePlate(ctx context.Context, plate string) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE license_plate = $1`
	v, err := scanVehicle(conn(ctx, r.db).QueryRowContext(ctx, query, plate))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("VehicleRepository.FindByLicensePlate: %w", err)
	}
	return v, nil
}

func (r *pgVehicleRepository) FindAll(ctx context.Context) ([]domain.Vehicle, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, `SELECT `+vehicleColumns+` FROM vehicles ORDER BY license_plate`)
	if err != nil {
		return nil, fmt.Errorf("VehicleRepository.FindAll: %w", err)
	}
	defer rows.Close()

	vehicles := []domain.Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("VehicleRepository.FindAll (scanning row): %w", err)
		}
		vehicles = append(vehicles, *v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("VehicleRepository.FindAll (rows error): %w", err)
	}
	return vehicles, nil
}

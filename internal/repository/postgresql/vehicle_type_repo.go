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

type pgVehicleTypeRepository struct {
	db *sql.DB
}

func NewPgVehicleTypeRepository(db *sql.DB) repository.VehicleTypeRepository {
	return &pgVehicleTypeRepository{db: db}
}

const vehicleTypeColumns = `id, name, description, is_active, created_at, updated_at`

func scanVehicleType(row rowScanner) (*domain.VehicleType, error) {
	vt := &domain.VehicleType{}
	if err := row.Scan(&vt.ID, &vt.Name, &vt.Description, &vt.IsActive, &vt.CreatedAt, &vt.UpdatedAt); err != nil {
		return nil, err
	}
	vt.CreatedAt = vt.CreatedAt.In(time.UTC)
	vt.UpdatedAt = vt.UpdatedAt.In(time.UTC)
	return vt, nil
}

func (r *pgVehicleTypeRepository) Create(ctx context.Context, vt *domain.VehicleType) (*domain.VehicleType, error) {
	query := `INSERT INTO vehicle_types (name, description, is_active, created_at, updated_at)
	           VALUES ($1, $2, $3, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	           RETURNING id, created_at, updated_at`
	err := conn(ctx, r.db).QueryRowContext(ctx, query, vt.Name, vt.Description, vt.IsActive).
		Scan(&vt.ID, &vt.CreatedAt, &vt.UpdatedAt)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return nil, fmt.Errorf("%w: vehicle type '%s' already exists", repository.ErrDuplicateEntry, vt.Name)
		}
		return nil, fmt.Errorf("VehicleTypeRepository.Create: %w", err)
	}
	vt.CreatedAt = vt.CreatedAt.In(time.UTC)
	vt.UpdatedAt = vt.UpdatedAt.In(time.UTC)
	return vt, nil
}

func (r *pgVehicleTypeRepository) FindByID(ctx context.Context, id int) (*domain.VehicleType, error) {
	query := `SELECT ` + vehicleTypeColumns + ` FROM vehicle_types WHERE id = $1`
	vt, err := scanVehicleType(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("VehicleTypeRepository.FindByID: %w", err)
	}
	return vt, nil
}

func (r *pgVehicleTypeRepository) FindByName(ctx context.Context, name string) (*domain.VehicleType, error) {
	query := `SELECT ` + vehicleTypeColumns + ` FROM vehicle_types WHERE LOWER(name) = LOWER($1)`
	vt, err := scanVehicleType(conn(ctx, r.db).QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("VehicleTypeRepository.FindByName: %w", err)
	}
	return vt, nil
}

func (r *pgVehicleTypeRepository) FindAll(ctx context.Context, activeOnly bool) ([]domain.VehicleType, error) {
	query := `SELECT ` + vehicleTypeColumns + ` FROM vehicle_types WHERE ($1 = FALSE OR is_active) ORDER BY id`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("VehicleTypeRepository.FindAll: %w", err)
	}
	defer rows.Close()

	types := []domain.VehicleType{}
	for rows.Next() {
		vt, err := scanVehicleType(rows)
		if err != nil {
			return nil, fmt.Errorf("VehicleTypeRepository.FindAll (scanning row): %w", err)
		}
		types = append(types, *vt)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("VehicleTypeRepository.FindAll (rows error): %w", err)
	}
	return types, nil
}

func (r *pgVehicleTypeRepository) Update(ctx context.Context, vt *domain.VehicleType) (*domain.VehicleType, error) {
	query := `UPDATE vehicle_types
	           SET name = $1, description = $2, is_active = $3, updated_at = CURRENT_TIMESTAMP
	           WHERE id = $4
	           RETURNING updated_at`
	err := conn(ctx, r.db).QueryRowContext(ctx, query, vt.Name, vt.Description, vt.IsActive, vt.ID).Scan(&vt.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		if _, ok := uniqueViolation(err); ok {
			return nil, fmt.Errorf("%w: vehicle type '%s' already exists", repository.ErrDuplicateEntry, vt.Name)
		}
		return nil, fmt.Errorf("VehicleTypeRepository.Update: %w", err)
	}
	vt.UpdatedAt = vt.UpdatedAt.In(time.UTC)
	return vt, nil
}

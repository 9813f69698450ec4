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

type pgRateConfigRepository struct {
	db *sql.DB
}

func NewPgRateConfigRepository(db *sql.DB) repository.RateConfigRepository {
	return &pgRateConfigRepository{db: db}
}

const rateConfigColumns = `id, vehicle_type_id, rate_per_hour, minimum_charge_hours, maximum_daily_rate, is_active, created_at, updated_at`

func scanRateConfig(row rowScanner) (*domain.RateConfig, error) {
	rc := &domain.RateConfig{}
	if err := row.Scan(&rc.ID, &rc.VehicleTypeID, &rc.RatePerHour, &rc.MinimumChargeHours,
		&rc.MaximumDailyRate, &rc.IsActive, &rc.CreatedAt, &rc.UpdatedAt); err != nil {
		return nil, err
	}
	rc.CreatedAt = rc.CreatedAt.In(time.UTC)
	rc.UpdatedAt = rc.UpdatedAt.In(time.UTC)
	return rc, nil
}

func (r *pgRateConfigRepository) Create(ctx context.Context, rc *domain.RateConfig) (*domain.RateConfig, error) {
	query := `INSERT INTO rate_configs (vehicle_type_id, rate_per_hour, minimum_charge_hours, maximum_daily_rate, is_active, created_at, updated_at)
	           VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	           RETURNING id, created_at, updated_at`
	err := conn(ctx, r.db).QueryRowContext(ctx, query,
		rc.VehicleTypeID, rc.RatePerHour, rc.MinimumChargeHours, rc.MaximumDailyRate, rc.IsActive,
	).Scan(&rc.ID, &rc.CreatedAt, &rc.UpdatedAt)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return nil, fmt.Errorf("%w: vehicle type %d already has an active rate", repository.ErrDuplicateEntry, rc.VehicleTypeID)
		}
		return nil, fmt.Errorf("RateConfigRepository.Create: %w", err)
	}
	rc.CreatedAt = rc.CreatedAt.In(time.UTC)
	rc.UpdatedAt = rc.UpdatedAt.In(time.UTC)
	return rc, nil
}

func (r *pgRateConfigRepository) FindByID(ctx context.Context, id int) (*domain.RateConfig, error) {
	query := `SELECT ` + rateConfigColumns + ` FROM rate_configs WHERE id = $1`
	rc, err := scanRateConfig(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("RateConfigRepository.FindByID: %w", err)
	}
	return rc, nil
}

func (r *pgRateConfigRepository) FindActiveByVehicleTypeID(ctx context.Context, vehicleTypeID int) (*domain.RateConfig, error) {
	query := `SELECT ` + rateConfigColumns + ` FROM rate_configs WHERE vehicle_type_id = $1 AND is_active`
	rc, err := scanRateConfig(conn(ctx, r.db).QueryRowContext(ctx, query, vehicleTypeID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("RateConfigRepository.FindActiveByVehicleTypeID: %w", err)
	}
	return rc, nil
}

func (r *pgRateConfigRepository) FindByVehicleTypeID(ctx context.Context, vehicleTypeID int) ([]domain.RateConfig, error) {
	query := `SELECT ` + rateConfigColumns + ` FROM rate_configs WHERE vehicle_type_id = $1 ORDER BY id`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, vehicleTypeID)
	if err != nil {
		return nil, fmt.Errorf("RateConfigRepository.FindByVehicleTypeID: %w", err)
	}
	defer rows.Close()

	configs := []domain.RateConfig{}
	for rows.Next() {
		rc, err := scanRateConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("RateConfigRepository.FindByVehicleTypeID (scanning row): %w", err)
		}
		configs = append(configs, *rc)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("RateConfigRepository.FindByVehicleTypeID (rows error): %w", err)
	}
	return configs, nil
}

func (r *pgRateConfigRepository) Update(ctx context.Context, rc *domain.RateConfig) (*domain.RateConfig, error) {
	query := `UPDATE rate_configs
	           SET rate_per_hour = $1, minimum_charge_hours = $2, maximum_daily_rate = $3, is_active = $4,
	               updated_at = CURRENT_TIMESTAMP
	           WHERE id = $5
	           RETURNING updated_at`
	err := conn(ctx, r.db).QueryRowContext(ctx, query,
		rc.RatePerHour, rc.MinimumChargeHours, rc.MaximumDailyRate, rc.IsActive, rc.ID,
	).Scan(&rc.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		if _, ok := uniqueViolation(err); ok {
			return nil, fmt.Errorf("%w: vehicle type %d already has an active rate", repository.ErrDuplicateEntry, rc.VehicleTypeID)
		}
		return nil, fmt.Errorf("RateConfigRepository.Update: %w", err)
	}
	rc.UpdatedAt = rc.UpdatedAt.In(time.UTC)
	return rc, nil
}

// DeactivateActiveByVehicleTypeID locks the vehicle type's configs before
// flipping them so that concurrent activations queue behind each other.
func (r *pgRateConfigRepository) DeactivateActiveByVehicleTypeID(ctx context.Context, vehicleTypeID, exceptID int) (int, error) {
	q := conn(ctx, r.db)
	if _, err := q.ExecContext(ctx, `SELECT id FROM rate_configs WHERE vehicle_type_id = $1 FOR UPDATE`, vehicleTypeID); err != nil {
		return 0, fmt.Errorf("RateConfigRepository.DeactivateActiveByVehicleTypeID (lock): %w", err)
	}
	res, err := q.ExecContext(ctx,
		`UPDATE rate_configs SET is_active = FALSE, updated_at = CURRENT_TIMESTAMP
		 WHERE vehicle_type_id = $1 AND is_active AND id <> $2`, vehicleTypeID, exceptID)
	if err != nil {
		return 0, fmt.Errorf("RateConfigRepository.DeactivateActiveByVehicleTypeID: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("RateConfigRepository.DeactivateActiveByVehicleTypeID (rows affected): %w", err)
	}
	return int(n), nil
}

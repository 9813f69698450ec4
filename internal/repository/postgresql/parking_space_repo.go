package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/repository"
)

type pgParkingSpaceRepository struct {
	db *sql.DB
}

func NewPgParkingSpaceRepository(db *sql.DB) repository.ParkingSpaceRepository {
	return &pgParkingSpaceRepository{db: db}
}

const spaceColumns = `id, space_number, vehicle_type_id, is_occupied, is_active, occupied_by_vehicle_plate, occupied_at, created_at, updated_at`

func scanSpace(row rowScanner) (*domain.ParkingSpace, error) {
	sp := &domain.ParkingSpace{}
	if err := row.Scan(&sp.ID, &sp.SpaceNumber, &sp.VehicleTypeID, &sp.Occupied, &sp.Active,
		&sp.OccupiedByVehiclePlate, &sp.OccupiedAt, &sp.CreatedAt, &sp.UpdatedAt); err != nil {
		return nil, err
	}
	if sp.OccupiedAt.Valid {
		sp.OccupiedAt.Time = sp.OccupiedAt.Time.In(time.UTC)
	}
	sp.CreatedAt = sp.CreatedAt.In(time.UTC)
	sp.UpdatedAt = sp.UpdatedAt.In(time.UTC)
	return sp, nil
}

func spaceConflict(err error, sp *domain.ParkingSpace) error {
	constraint, ok := uniqueViolation(err)
	if !ok {
		return nil
	}
	if constraint == "parking_spaces_occupied_plate_key" {
		return fmt.Errorf("%w: vehicle '%s' already occupies another space", repository.ErrDuplicateEntry, sp.OccupiedByVehiclePlate.String)
	}
	return fmt.Errorf("%w: space number '%s' already exists", repository.ErrDuplicateEntry, sp.SpaceNumber)
}

func (r *pgParkingSpaceRepository) Create(ctx context.Context, sp *domain.ParkingSpace) (*domain.ParkingSpace, error) {
	query := `INSERT INTO parking_spaces (space_number, vehicle_type_id, is_occupied, is_active, occupied_by_vehicle_plate, occupied_at, created_at, updated_at)
	           VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	           RETURNING id, created_at, updated_at`
	err := conn(ctx, r.db).QueryRowContext(ctx, query,
		sp.SpaceNumber, sp.VehicleTypeID, sp.Occupied, sp.Active, sp.OccupiedByVehiclePlate, sp.OccupiedAt,
	).Scan(&sp.ID, &sp.CreatedAt, &sp.UpdatedAt)
	if err != nil {
		if dup := spaceConflict(err, sp); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("ParkingSpaceRepository.Create: %w", err)
	}
	sp.CreatedAt = sp.CreatedAt.In(time.UTC)
	sp.UpdatedAt = sp.UpdatedAt.In(time.UTC)
	return sp, nil
}

func (r *pgParkingSpaceRepository) findOne(ctx context.Context, op, where string, args ...any) (*domain.ParkingSpace, error) {
	query := `SELECT ` + spaceColumns + ` FROM parking_spaces WHERE ` + where
	sp, err := scanSpace(conn(ctx, r.db).QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("ParkingSpaceRepository.%s: %w", op, err)
	}
	return sp, nil
}

func (r *pgParkingSpaceRepository) FindByID(ctx context.Context, id int) (*domain.ParkingSpace, error) {
	return r.findOne(ctx, "FindByID", `id = $1`, id)
}

func (r *pgParkingSpaceRepository) FindByIDForUpdate(ctx context.Context, id int) (*domain.ParkingSpace, error) {
	return r.findOne(ctx, "FindByIDForUpdate", `id = $1 FOR UPDATE`, id)
}

func (r *pgParkingSpaceRepository) FindBySpaceNumber(ctx context.Context, spaceNumber string) (*domain.ParkingSpace, error) {
	return r.findOne(ctx, "FindBySpaceNumber", `LOWER(space_number) = LOWER($1)`, spaceNumber)
}

func (r *pgParkingSpaceRepository) FindByOccupiedPlate(ctx context.Context, plate string) (*domain.ParkingSpace, error) {
	return r.findOne(ctx, "FindByOccupiedPlate", `is_occupied AND occupied_by_vehicle_plate = $1`, plate)
}

// FindFirstAvailableByVehicleType skips rows other transactions hold, so two
// concurrent entries never receive the same space.
func (r *pgParkingSpaceRepository) FindFirstAvailableByVehicleType(ctx context.Context, vehicleTypeID int) (*domain.ParkingSpace, error) {
	return r.findOne(ctx, "FindFirstAvailableByVehicleType",
		`vehicle_type_id = $1 AND is_active AND NOT is_occupied
		 ORDER BY space_number LIMIT 1 FOR UPDATE SKIP LOCKED`, vehicleTypeID)
}

func spaceFilterClause(filter domain.ParkingSpaceFilter) (string, []any) {
	var conditions []string
	var args []any
	argID := 1

	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", argID))
		args = append(args, *filter.Active)
		argID++
	}
	if filter.Available != nil {
		conditions = append(conditions, fmt.Sprintf("(is_active AND NOT is_occupied) = $%d", argID))
		args = append(args, *filter.Available)
		argID++
	}
	if filter.VehicleTypeID != nil {
		conditions = append(conditions, fmt.Sprintf("vehicle_type_id = $%d", argID))
		args = append(args, *filter.VehicleTypeID)
	}
	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *pgParkingSpaceRepository) Find(ctx context.Context, filter domain.ParkingSpaceFilter) ([]domain.ParkingSpace, error) {
	where, args := spaceFilterClause(filter)
	query := `SELECT ` + spaceColumns + ` FROM parking_spaces` + where + ` ORDER BY space_number`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ParkingSpaceRepository.Find: %w", err)
	}
	defer rows.Close()

	spaces := []domain.ParkingSpace{}
	for rows.Next() {
		sp, err := scanSpace(rows)
		if err != nil {
			return nil, fmt.Errorf("ParkingSpaceRepository.Find (scanning row): %w", err)
		}
		spaces = append(spaces, *sp)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("ParkingSpaceRepository.Find (rows error): %w", err)
	}
	return spaces, nil
}

// Count uses the same predicate as Find.
func (r *pgParkingSpaceRepository) Count(ctx context.Context, filter domain.ParkingSpaceFilter) (int, error) {
	where, args := spaceFilterClause(filter)
	var n int
	if err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM parking_spaces`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("ParkingSpaceRepository.Count: %w", err)
	}
	return n, nil
}

func (r *pgParkingSpaceRepository) Update(ctx context.Context, sp *domain.ParkingSpace) (*domain.ParkingSpace, error) {
	query := `UPDATE parking_spaces
	           SET space_number = $1, vehicle_type_id = $2, is_occupied = $3, is_active = $4,
	               occupied_by_vehicle_plate = $5, occupied_at = $6, updated_at = CURRENT_TIMESTAMP
	           WHERE id = $7
	           RETURNING updated_at`
	err := conn(ctx, r.db).QueryRowContext(ctx, query,
		sp.SpaceNumber, sp.VehicleTypeID, sp.Occupied, sp.Active, sp.OccupiedByVehiclePlate, sp.OccupiedAt, sp.ID,
	).Scan(&sp.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		if dup := spaceConflict(err, sp); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("ParkingSpaceRepository.Update: %w", err)
	}
	sp.UpdatedAt = sp.UpdatedAt.In(time.UTC)
	return sp, nil
}

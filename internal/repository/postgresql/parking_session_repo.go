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

type pgParkingSessionRepository struct {
	db *sql.DB
}

func NewPgParkingSessionRepository(db *sql.DB) repository.ParkingSessionRepository {
	return &pgParkingSessionRepository{db: db}
}

const sessionColumns = `id, vehicle_id, parking_space_id, entry_time, exit_time, operator_entry_id, operator_exit_id,
	is_active, ticket_code, created_at, updated_at`

func scanSession(row rowScanner) (*domain.ParkingSession, error) {
	s := &domain.ParkingSession{}
	if err := row.Scan(&s.ID, &s.VehicleID, &s.ParkingSpaceID, &s.EntryTime, &s.ExitTime, &s.OperatorEntryID,
		&s.OperatorExitID, &s.IsActive, &s.TicketCode, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.EntryTime = s.EntryTime.In(time.UTC)
	if s.ExitTime.Valid {
		s.ExitTime.Time = s.ExitTime.Time.In(time.UTC)
	}
	s.CreatedAt = s.CreatedAt.In(time.UTC)
	s.UpdatedAt = s.UpdatedAt.In(time.UTC)
	return s, nil
}

func sessionConflict(err error, s *domain.ParkingSession) error {
	constraint, ok := uniqueViolation(err)
	if !ok {
		return nil
	}
	if constraint == "parking_sessions_one_active_per_vehicle" {
		return fmt.Errorf("%w: vehicle %d already has an active session", repository.ErrDuplicateEntry, s.VehicleID)
	}
	return fmt.Errorf("%w '%s' already issued", repository.ErrDuplicateTicketCode, s.TicketCode)
}

func (r *pgParkingSessionRepository) Create(ctx context.Context, s *domain.ParkingSession) (*domain.ParkingSession, error) {
	query := `INSERT INTO parking_sessions
	           (vehicle_id, parking_space_id, entry_time, exit_time, operator_entry_id, operator_exit_id, is_active, ticket_code, created_at, updated_at)
	           VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9, CURRENT_TIMESTAMP), COALESCE($9, CURRENT_TIMESTAMP))
	           RETURNING id, created_at, updated_at`
	err := conn(ctx, r.db).QueryRowContext(ctx, query,
		s.VehicleID, s.ParkingSpaceID, s.EntryTime, s.ExitTime, s.OperatorEntryID, s.OperatorExitID,
		s.IsActive, s.TicketCode, optionalTime(s.CreatedAt),
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if dup := sessionConflict(err, s); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("ParkingSessionRepository.Create: %w", err)
	}
	s.CreatedAt = s.CreatedAt.In(time.UTC)
	s.UpdatedAt = s.UpdatedAt.In(time.UTC)
	return s, nil
}

func (r *pgParkingSessionRepository) findOne(ctx context.Context, op, where string, args ...any) (*domain.ParkingSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM parking_sessions WHERE ` + where
	s, err := scanSession(conn(ctx, r.db).QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("ParkingSessionRepository.%s: %w", op, err)
	}
	return s, nil
}

func (r *pgParkingSessionRepository) FindByID(ctx context.Context, id int) (*domain.ParkingSession, error) {
	return r.findOne(ctx, "FindByID", `id = $1`, id)
}

func (r *pgParkingSessionRepository) FindByTicketCode(ctx context.Context, ticketCode string) (*domain.ParkingSession, error) {
	return r.findOne(ctx, "FindByTicketCode", `ticket_code = $1`, ticketCode)
}

func (r *pgParkingSessionRepository) FindActiveByVehicleID(ctx context.Context, vehicleID int) (*domain.ParkingSession, error) {
	return r.findOne(ctx, "FindActiveByVehicleID", `vehicle_id = $1 AND is_active ORDER BY entry_time DESC LIMIT 1`, vehicleID)
}

func (r *pgParkingSessionRepository) Find(ctx context.Context, filter domain.ParkingSessionFilter) ([]domain.ParkingSession, error) {
	var conditions []string
	var args []any
	argID := 1

	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", argID))
		args = append(args, *filter.Active)
		argID++
	}
	if filter.VehicleID != nil {
		conditions = append(conditions, fmt.Sprintf("vehicle_id = $%d", argID))
		args = append(args, *filter.VehicleID)
		argID++
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("entry_time >= $%d", argID))
		args = append(args, *filter.From)
		argID++
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("entry_time < $%d", argID))
		args = append(args, *filter.To)
	}

	query := `SELECT ` + sessionColumns + ` FROM parking_sessions`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY entry_time DESC, id DESC"

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ParkingSessionRepository.Find: %w", err)
	}
	defer rows.Close()

	sessions := []domain.ParkingSession{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("ParkingSessionRepository.Find (scanning row): %w", err)
		}
		sessions = append(sessions, *s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("ParkingSessionRepository.Find (rows error): %w", err)
	}
	return sessions, nil
}

func (r *pgParkingSessionRepository) Update(ctx context.Context, s *domain.ParkingSession) (*domain.ParkingSession, error) {
	query := `UPDATE parking_sessions
	           SET exit_time = $1, operator_exit_id = $2, is_active = $3, updated_at = CURRENT_TIMESTAMP
	           WHERE id = $4
	           RETURNING updated_at`
	err := conn(ctx, r.db).QueryRowContext(ctx, query, s.ExitTime, s.OperatorExitID, s.IsActive, s.ID).Scan(&s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		if dup := sessionConflict(err, s); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("ParkingSessionRepository.Update: %w", err)
	}
	s.UpdatedAt = s.UpdatedAt.In(time.UTC)
	return s, nil
}

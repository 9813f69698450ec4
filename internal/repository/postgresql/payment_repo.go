package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gopkg.in/guregu/null.v4"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/repository"
)

type pgPaymentRepository struct {
	db *sql.DB
}

func NewPgPaymentRepository(db *sql.DB) repository.PaymentRepository {
	return &pgPaymentRepository{db: db}
}

const paymentColumns = `id, parking_session_id, total_amount, hours_parked, rate_applied, payment_method, payment_status,
	paid_at, operator_id, created_at, updated_at`

// optionalTime maps the zero time to NULL so the column default applies.
func optionalTime(t time.Time) null.Time {
	return null.NewTime(t, !t.IsZero())
}

func scanPayment(row rowScanner) (*domain.Payment, error) {
	p := &domain.Payment{}
	if err := row.Scan(&p.ID, &p.ParkingSessionID, &p.TotalAmount, &p.HoursParked, &p.RateApplied, &p.PaymentMethod,
		&p.PaymentStatus, &p.PaidAt, &p.OperatorID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if p.PaidAt.Valid {
		p.PaidAt.Time = p.PaidAt.Time.In(time.UTC)
	}
	p.CreatedAt = p.CreatedAt.In(time.UTC)
	p.UpdatedAt = p.UpdatedAt.In(time.UTC)
	return p, nil
}

func (r *pgPaymentRepository) Create(ctx context.Context, p *domain.Payment) (*domain.Payment, error) {
	query := `INSERT INTO payments
	           (parking_session_id, total_amount, hours_parked, rate_applied, payment_method, payment_status, paid_at, operator_id, created_at, updated_at)
	           VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9, CURRENT_TIMESTAMP), COALESCE($9, CURRENT_TIMESTAMP))
	           RETURNING id, created_at, updated_at`
	err := conn(ctx, r.db).QueryRowContext(ctx, query,
		p.ParkingSessionID, p.TotalAmount, p.HoursParked, p.RateApplied, p.PaymentMethod, p.PaymentStatus,
		p.PaidAt, p.OperatorID, optionalTime(p.CreatedAt),
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return nil, fmt.Errorf("%w: session %d already has a payment", repository.ErrDuplicateEntry, p.ParkingSessionID)
		}
		return nil, fmt.Errorf("PaymentRepository.Create: %w", err)
	}
	p.CreatedAt = p.CreatedAt.In(time.UTC)
	p.UpdatedAt = p.UpdatedAt.In(time.UTC)
	return p, nil
}

func (r *pgPaymentRepository) FindByID(ctx context.Context, id int) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	p, err := scanPayment(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("PaymentRepository.FindByID: %w", err)
	}
	return p, nil
}

func (r *pgPaymentRepository) FindBySessionID(ctx context.Context, sessionID int) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE parking_session_id = $1`
	p, err := scanPayment(conn(ctx, r.db).QueryRowContext(ctx, query, sessionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("PaymentRepository.FindBySessionID: %w", err)
	}
	return p, nil
}

func (r *pgPaymentRepository) Update(ctx context.Context, p *domain.Payment) (*domain.Payment, error) {
	query := `UPDATE payments
	           SET payment_method = $1, payment_status = $2, paid_at = $3, operator_id = $4, updated_at = CURRENT_TIMESTAMP
	           WHERE id = $5
	           RETURNING updated_at`
	err := conn(ctx, r.db).QueryRowContext(ctx, query, p.PaymentMethod, p.PaymentStatus, p.PaidAt, p.OperatorID, p.ID).
		Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("PaymentRepository.Update: %w", err)
	}
	p.UpdatedAt = p.UpdatedAt.In(time.UTC)
	return p, nil
}

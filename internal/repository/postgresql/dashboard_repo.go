package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/repository"
)

type pgDashboardRepository struct {
	db *sql.DB
}

func NewPgDashboardRepository(db *sql.DB) repository.DashboardRepository {
	return &pgDashboardRepository{db: db}
}

func (r *pgDashboardRepository) SpaceStats(ctx context.Context) ([]domain.VehicleTypeOccupancy, error) {
	query := `SELECT vt.id, vt.name,
	                 COUNT(ps.id),
	                 COUNT(ps.id) FILTER (WHERE ps.is_active),
	                 COUNT(ps.id) FILTER (WHERE ps.is_occupied),
	                 COUNT(ps.id) FILTER (WHERE ps.is_active AND NOT ps.is_occupied)
	           FROM vehicle_types vt
	           LEFT JOIN parking_spaces ps ON ps.vehicle_type_id = vt.id
	           GROUP BY vt.id, vt.name
	           ORDER BY vt.id`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("DashboardRepository.SpaceStats: %w", err)
	}
	defer rows.Close()

	out := []domain.VehicleTypeOccupancy{}
	for rows.Next() {
		var o domain.VehicleTypeOccupancy
		if err := rows.Scan(&o.VehicleTypeID, &o.VehicleTypeName, &o.TotalSpaces, &o.ActiveSpaces,
			&o.OccupiedSpaces, &o.AvailableSpaces); err != nil {
			return nil, fmt.Errorf("DashboardRepository.SpaceStats (scanning row): %w", err)
		}
		out = append(out, o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("DashboardRepository.SpaceStats (rows error): %w", err)
	}
	return out, nil
}

func (r *pgDashboardRepository) SessionStats(ctx context.Context, from, to time.Time) (domain.SessionStats, error) {
	var stats domain.SessionStats
	query := `SELECT COUNT(*) FILTER (WHERE is_active),
	                 COUNT(*) FILTER (WHERE entry_time >= $1 AND entry_time < $2),
	                 COUNT(*) FILTER (WHERE exit_time >= $1 AND exit_time < $2)
	           FROM parking_sessions`
	if err := conn(ctx, r.db).QueryRowContext(ctx, query, from, to).
		Scan(&stats.ActiveSessions, &stats.Entered, &stats.Exited); err != nil {
		return stats, fmt.Errorf("DashboardRepository.SessionStats: %w", err)
	}
	return stats, nil
}

func (r *pgDashboardRepository) PaymentStats(ctx context.Context, from, to time.Time) (domain.PaymentStats, error) {
	stats := domain.PaymentStats{
		PaidTotal:      decimal.Zero,
		TotalsByMethod: make(map[domain.PaymentMethod]decimal.Decimal),
	}
	q := conn(ctx, r.db)

	counts := `SELECT COUNT(*) FILTER (WHERE payment_status = $3 AND created_at >= $1 AND created_at < $2),
	                  COUNT(*) FILTER (WHERE payment_status = $4 AND created_at >= $1 AND created_at < $2)
	            FROM payments`
	if err := q.QueryRowContext(ctx, counts, from, to, domain.PaymentPending, domain.PaymentCancelled).
		Scan(&stats.PendingCount, &stats.CancelledCount); err != nil {
		return stats, fmt.Errorf("DashboardRepository.PaymentStats (counts): %w", err)
	}

	byMethod := `SELECT payment_method, COUNT(*), COALESCE(SUM(total_amount), 0)
	              FROM payments
	              WHERE payment_status = $3 AND paid_at >= $1 AND paid_at < $2
	              GROUP BY payment_method`
	rows, err := q.QueryContext(ctx, byMethod, from, to, domain.PaymentPaid)
	if err != nil {
		return stats, fmt.Errorf("DashboardRepository.PaymentStats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var method domain.PaymentMethod
		var n int
		var total decimal.Decimal
		if err := rows.Scan(&method, &n, &total); err != nil {
			return stats, fmt.Errorf("DashboardRepository.PaymentStats (scanning row): %w", err)
		}
		stats.PaidCount += n
		stats.PaidTotal = stats.PaidTotal.Add(total)
		stats.TotalsByMethod[method] = total
	}
	if err = rows.Err(); err != nil {
		return stats, fmt.Errorf("DashboardRepository.PaymentStats (rows error): %w", err)
	}
	return stats, nil
}

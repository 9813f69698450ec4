package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
)

type dashboardRepo struct{ s *Store }

func within(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

func (r *dashboardRepo) SpaceStats(ctx context.Context) ([]domain.VehicleTypeOccupancy, error) {
	out := []domain.VehicleTypeOccupancy{}
	err := r.s.read(ctx, func(st *state) error {
		byType := make(map[int]*domain.VehicleTypeOccupancy, len(st.vehicleTypes))
		for _, vt := range st.vehicleTypes {
			byType[vt.ID] = &domain.VehicleTypeOccupancy{VehicleTypeID: vt.ID, VehicleTypeName: vt.Name}
		}
		for _, sp := range st.spaces {
			occ, ok := byType[sp.VehicleTypeID]
			if !ok {
				continue
			}
			occ.TotalSpaces++
			if sp.Active {
				occ.ActiveSpaces++
			}
			if sp.Occupied {
				occ.OccupiedSpaces++
			}
			if sp.Available() {
				occ.AvailableSpaces++
			}
		}
		for _, occ := range byType {
			out = append(out, *occ)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].VehicleTypeID < out[j].VehicleTypeID })
	return out, err
}

func (r *dashboardRepo) SessionStats(ctx context.Context, from, to time.Time) (domain.SessionStats, error) {
	var stats domain.SessionStats
	err := r.s.read(ctx, func(st *state) error {
		for _, ps := range st.sessions {
			if ps.IsActive {
				stats.ActiveSessions++
			}
			if within(ps.EntryTime, from, to) {
				stats.Entered++
			}
			if ps.ExitTime.Valid && within(ps.ExitTime.Time, from, to) {
				stats.Exited++
			}
		}
		return nil
	})
	return stats, err
}

func (r *dashboardRepo) PaymentStats(ctx context.Context, from, to time.Time) (domain.PaymentStats, error) {
	stats := domain.PaymentStats{
		PaidTotal:      decimal.Zero,
		TotalsByMethod: make(map[domain.PaymentMethod]decimal.Decimal),
	}
	err := r.s.read(ctx, func(st *state) error {
		for _, p := range st.payments {
			switch p.PaymentStatus {
			case domain.PaymentPaid:
				if !p.PaidAt.Valid || !within(p.PaidAt.Time, from, to) {
					continue
				}
				stats.PaidCount++
				stats.PaidTotal = stats.PaidTotal.Add(p.TotalAmount)
				stats.TotalsByMethod[p.PaymentMethod] = stats.TotalsByMethod[p.PaymentMethod].Add(p.TotalAmount)
			case domain.PaymentPending:
				if within(p.CreatedAt, from, to) {
					stats.PendingCount++
				}
			case domain.PaymentCancelled:
				if within(p.CreatedAt, from, to) {
					stats.CancelledCount++
				}
			}
		}
		return nil
	})
	return stats, err
}

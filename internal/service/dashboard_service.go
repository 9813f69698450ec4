package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
)

const reportDateLayout = "2006-01-02"

var (
	beginningOfTime = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	endOfTime       = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
)

type DashboardService struct {
	deps Deps
}

// dayRange returns the UTC day containing date, or today when date is zero.
func (s *DashboardService) dayRange(date time.Time) (time.Time, time.Time) {
	if date.IsZero() {
		date = s.deps.now()
	}
	y, m, d := date.UTC().Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 0, 1)
}

func (s *DashboardService) Summary(ctx context.Context, _ GetDashboardSummary) (*domain.DashboardSummary, error) {
	byType, err := s.deps.Dashboard.SpaceStats(ctx)
	if err != nil {
		return nil, translate(err)
	}
	from, to := s.dayRange(time.Time{})
	sessions, err := s.deps.Dashboard.SessionStats(ctx, from, to)
	if err != nil {
		return nil, translate(err)
	}
	today, err := s.deps.Dashboard.PaymentStats(ctx, from, to)
	if err != nil {
		return nil, translate(err)
	}
	allTime, err := s.deps.Dashboard.PaymentStats(ctx, beginningOfTime, endOfTime)
	if err != nil {
		return nil, translate(err)
	}

	sum := &domain.DashboardSummary{
		ActiveSessions:  sessions.ActiveSessions,
		TodayRevenue:    today.PaidTotal,
		PendingPayments: allTime.PendingCount,
		OccupancyRate:   decimal.Zero,
		GeneratedAt:     s.deps.now(),
	}
	for _, t := range byType {
		sum.TotalSpaces += t.TotalSpaces
		sum.ActiveSpaces += t.ActiveSpaces
		sum.OccupiedSpaces += t.OccupiedSpaces
		sum.AvailableSpaces += t.AvailableSpaces
	}
	if sum.ActiveSpaces > 0 {
		sum.OccupancyRate = decimal.NewFromInt(int64(sum.OccupiedSpaces)).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(int64(sum.ActiveSpaces))).
			Round(2)
	}
	return sum, nil
}

func (s *DashboardService) Occupancy(ctx context.Context, req GetOccupancyReport) (*domain.OccupancyReport, error) {
	from, to := s.dayRange(req.Date)
	sessions, err := s.deps.Dashboard.SessionStats(ctx, from, to)
	if err != nil {
		return nil, translate(err)
	}
	byType, err := s.deps.Dashboard.SpaceStats(ctx)
	if err != nil {
		return nil, translate(err)
	}
	return &domain.OccupancyReport{
		Date:            from.Format(reportDateLayout),
		SessionsEntered: sessions.Entered,
		SessionsExited:  sessions.Exited,
		ActiveSessions:  sessions.ActiveSessions,
		ByVehicleType:   byType,
	}, nil
}

func (s *DashboardService) Revenue(ctx context.Context, req GetRevenueReport) (*domain.RevenueReport, error) {
	from, to := s.dayRange(req.Date)
	stats, err := s.deps.Dashboard.PaymentStats(ctx, from, to)
	if err != nil {
		return nil, translate(err)
	}
	return &domain.RevenueReport{
		Date:           from.Format(reportDateLayout),
		TotalRevenue:   stats.PaidTotal,
		PaymentCount:   stats.PaidCount,
		PendingCount:   stats.PendingCount,
		CancelledCount: stats.CancelledCount,
		ByMethod:       stats.TotalsByMethod,
	}, nil
}

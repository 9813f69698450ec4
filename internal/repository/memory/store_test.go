package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/guregu/null.v4"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/repository"
)

func seedSpaces(t *testing.T, s *Store, numbers ...string) {
	t.Helper()
	ctx := context.Background()
	for _, n := range numbers {
		if _, err := s.ParkingSpaces().Create(ctx, &domain.ParkingSpace{SpaceNumber: n, VehicleTypeID: 1, Active: true}); err != nil {
			t.Fatalf("create space %s: %v", n, err)
		}
	}
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedSpaces(t, s, "A-01")

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(ctx context.Context) error {
		sp, err := s.ParkingSpaces().FindBySpaceNumber(ctx, "A-01")
		if err != nil {
			return err
		}
		if err := sp.Occupy("ABC-123", time.Now()); err != nil {
			return err
		}
		if _, err := s.ParkingSpaces().Update(ctx, sp); err != nil {
			return err
		}
		if _, err := s.Vehicles().Create(ctx, &domain.Vehicle{LicensePlate: "ABC-123", VehicleTypeID: 1}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	sp, _ := s.ParkingSpaces().FindBySpaceNumber(ctx, "A-01")
	if sp.Occupied {
		t.Error("space occupancy survived rollback")
	}
	if _, err := s.Vehicles().FindByLicensePlate(ctx, "ABC-123"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("vehicle survived rollback: %v", err)
	}
}

func TestWithinTx_Nested(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	err := s.WithinTx(ctx, func(ctx context.Context) error {
		return s.WithinTx(ctx, func(ctx context.Context) error {
			_, err := s.Vehicles().Create(ctx, &domain.Vehicle{LicensePlate: "XYZ-1", VehicleTypeID: 1})
			return err
		})
	})
	if err != nil {
		t.Fatalf("nested tx: %v", err)
	}
	if _, err := s.Vehicles().FindByLicensePlate(ctx, "XYZ-1"); err != nil {
		t.Errorf("vehicle not committed: %v", err)
	}
}

func TestFirstAvailable_LowestSpaceNumber(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedSpaces(t, s, "A-03", "A-01", "A-02")

	sp, err := s.ParkingSpaces().FindFirstAvailableByVehicleType(ctx, 1)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if sp.SpaceNumber != "A-01" {
		t.Errorf("got %s, want A-01", sp.SpaceNumber)
	}

	if _, err := s.ParkingSpaces().FindFirstAvailableByVehicleType(ctx, 2); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("other type: expected ErrNotFound, got %v", err)
	}
}

func TestSpaces_PlateUniqueAcrossSpaces(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedSpaces(t, s, "A-01", "A-02")
	now := time.Now()

	a, _ := s.ParkingSpaces().FindBySpaceNumber(ctx, "A-01")
	_ = a.Occupy("ABC-123", now)
	if _, err := s.ParkingSpaces().Update(ctx, a); err != nil {
		t.Fatalf("update A-01: %v", err)
	}
	b, _ := s.ParkingSpaces().FindBySpaceNumber(ctx, "A-02")
	_ = b.Occupy("ABC-123", now)
	if _, err := s.ParkingSpaces().Update(ctx, b); !errors.Is(err, repository.ErrDuplicateEntry) {
		t.Errorf("expected ErrDuplicateEntry, got %v", err)
	}
}

func TestSpaces_CountMatchesFind(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedSpaces(t, s, "A-01", "A-02", "A-03")
	sp, _ := s.ParkingSpaces().FindBySpaceNumber(ctx, "A-02")
	_ = sp.Occupy("ABC-123", time.Now())
	_, _ = s.ParkingSpaces().Update(ctx, sp)

	yes, no := true, false
	for _, f := range []domain.ParkingSpaceFilter{{}, {Available: &yes}, {Available: &no}, {Active: &yes}} {
		list, _ := s.ParkingSpaces().Find(ctx, f)
		n, _ := s.ParkingSpaces().Count(ctx, f)
		if n != len(list) {
			t.Errorf("filter %+v: count %d != len %d", f, n, len(list))
		}
	}
}

func TestRateConfigs_SingleActive(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	rate := func(active bool) *domain.RateConfig {
		return &domain.RateConfig{VehicleTypeID: 1, RatePerHour: decimal.NewFromInt(1000), MinimumChargeHours: 1, IsActive: active}
	}
	first, err := s.RateConfigs().Create(ctx, rate(true))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.RateConfigs().Create(ctx, rate(true)); !errors.Is(err, repository.ErrDuplicateEntry) {
		t.Fatalf("second active: expected ErrDuplicateEntry, got %v", err)
	}
	second, _ := s.RateConfigs().Create(ctx, rate(false))

	n, err := s.RateConfigs().DeactivateActiveByVehicleTypeID(ctx, 1, second.ID)
	if err != nil || n != 1 {
		t.Fatalf("deactivate: n=%d err=%v", n, err)
	}
	second.IsActive = true
	if _, err := s.RateConfigs().Update(ctx, second); err != nil {
		t.Fatalf("activate second: %v", err)
	}
	active, _ := s.RateConfigs().FindActiveByVehicleTypeID(ctx, 1)
	if active.ID != second.ID {
		t.Errorf("active = %d, want %d", active.ID, second.ID)
	}
	reloaded, _ := s.RateConfigs().FindByID(ctx, first.ID)
	if reloaded.IsActive {
		t.Error("first config still active")
	}
}

func TestSessions_OneActivePerVehicle(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	now := time.Now()
	if _, err := s.ParkingSessions().Create(ctx, &domain.ParkingSession{VehicleID: 1, ParkingSpaceID: 1, EntryTime: now, IsActive: true, TicketCode: "T1"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := s.ParkingSessions().Create(ctx, &domain.ParkingSession{VehicleID: 1, ParkingSpaceID: 2, EntryTime: now, IsActive: true, TicketCode: "T2"})
	if !errors.Is(err, repository.ErrDuplicateEntry) {
		t.Errorf("expected ErrDuplicateEntry, got %v", err)
	}
	_, err = s.ParkingSessions().Create(ctx, &domain.ParkingSession{VehicleID: 2, ParkingSpaceID: 2, EntryTime: now, IsActive: true, TicketCode: "T1"})
	if !errors.Is(err, repository.ErrDuplicateEntry) {
		t.Errorf("duplicate ticket: expected ErrDuplicateEntry, got %v", err)
	}
}

func TestConcurrentTransactionsSerialize(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedSpaces(t, s, "A-01")

	var wg sync.WaitGroup
	results := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results <- s.WithinTx(ctx, func(ctx context.Context) error {
				sp, err := s.ParkingSpaces().FindFirstAvailableByVehicleType(ctx, 1)
				if err != nil {
					return err
				}
				if err := sp.Occupy(domain.FormatTicketCode("CAR", time.Now(), uint32(i)), time.Now()); err != nil {
					return err
				}
				_, err = s.ParkingSpaces().Update(ctx, sp)
				return err
			})
		}(i)
	}
	wg.Wait()
	close(results)

	ok := 0
	for err := range results {
		if err == nil {
			ok++
		}
	}
	if ok != 1 {
		t.Errorf("%d transactions occupied the single space, want 1", ok)
	}
}

func TestPaymentStats(t *testing.T) {
	day := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	s := NewStore(WithClock(func() time.Time { return day.Add(time.Hour) }))
	ctx := context.Background()

	mk := func(session int, amount int64, status domain.PaymentStatus, method domain.PaymentMethod) {
		p := &domain.Payment{ParkingSessionID: session, TotalAmount: decimal.NewFromInt(amount), PaymentStatus: status, PaymentMethod: method}
		if status == domain.PaymentPaid {
			p.PaidAt = null.TimeFrom(day.Add(2 * time.Hour))
		}
		if _, err := s.Payments().Create(ctx, p); err != nil {
			t.Fatalf("create payment: %v", err)
		}
	}
	mk(1, 2000, domain.PaymentPaid, domain.PaymentCash)
	mk(2, 4000, domain.PaymentPaid, domain.PaymentCard)
	mk(3, 6000, domain.PaymentPending, domain.PaymentCash)

	stats, err := s.Dashboard().PaymentStats(ctx, day, day.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.PaidCount != 2 || !stats.PaidTotal.Equal(decimal.NewFromInt(6000)) || stats.PendingCount != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if !stats.TotalsByMethod[domain.PaymentCard].Equal(decimal.NewFromInt(4000)) {
		t.Errorf("card total = %s", stats.TotalsByMethod[domain.PaymentCard])
	}
}

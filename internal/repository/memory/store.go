// Package memory implements the repositories in process, for development and tests.
package memory

import (
	"context"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/repository"
)

type state struct {
	users        map[int]domain.User
	vehicleTypes map[int]domain.VehicleType
	rateConfigs  map[int]domain.RateConfig
	vehicles     map[int]domain.Vehicle
	spaces       map[int]domain.ParkingSpace
	sessions     map[int]domain.ParkingSession
	payments     map[int]domain.Payment

	userSeq, vehicleTypeSeq, rateConfigSeq, vehicleSeq, spaceSeq, sessionSeq, paymentSeq int
}

func newState() state {
	return state{
		users:        make(map[int]domain.User),
		vehicleTypes: make(map[int]domain.VehicleType),
		rateConfigs:  make(map[int]domain.RateConfig),
		vehicles:     make(map[int]domain.Vehicle),
		spaces:       make(map[int]domain.ParkingSpace),
		sessions:     make(map[int]domain.ParkingSession),
		payments:     make(map[int]domain.Payment),
	}
}

func (st state) clone() state {
	c := st
	c.users = maps.Clone(st.users)
	c.vehicleTypes = maps.Clone(st.vehicleTypes)
	c.rateConfigs = maps.Clone(st.rateConfigs)
	c.vehicles = maps.Clone(st.vehicles)
	c.spaces = maps.Clone(st.spaces)
	c.sessions = maps.Clone(st.sessions)
	c.payments = maps.Clone(st.payments)
	return c
}

// Store holds every table behind one lock. A transaction keeps the lock for
// its whole duration, so transactions are serialized.
type Store struct {
	mu  sync.Mutex
	st  state
	now func() time.Time
}

type Option func(*Store)

// WithClock sets the clock used for created/updated timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(opts ...Option) *Store {
	s := &Store{st: newState(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ repository.Transactor = (*Store)(nil)

type txKey struct{ s *Store }

func (s *Store) inTx(ctx context.Context) bool {
	return ctx.Value(txKey{s}) != nil
}

// WithinTx runs fn holding the store lock. On error or panic the state is
// restored to what it was before fn ran.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if s.inTx(ctx) {
		return fn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	defer func() {
		if p := recover(); p != nil {
			s.st = snapshot
			panic(p)
		}
		if err != nil {
			s.st = snapshot
		}
	}()
	return fn(context.WithValue(ctx, txKey{s}, true))
}

// read runs fn under the lock unless ctx already holds it.
func (s *Store) read(ctx context.Context, fn func(st *state) error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if s.inTx(ctx) {
		return fn(&s.st)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.st)
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

func (s *Store) Users() repository.UserRepository                     { return &userRepo{s} }
func (s *Store) VehicleTypes() repository.VehicleTypeRepository       { return &vehicleTypeRepo{s} }
func (s *Store) RateConfigs() repository.RateConfigRepository         { return &rateConfigRepo{s} }
func (s *Store) Vehicles() repository.VehicleRepository               { return &vehicleRepo{s} }
func (s *Store) ParkingSpaces() repository.ParkingSpaceRepository     { return &spaceRepo{s} }
func (s *Store) ParkingSessions() repository.ParkingSessionRepository { return &sessionRepo{s} }
func (s *Store) Payments() repository.PaymentRepository               { return &paymentRepo{s} }
func (s *Store) Dashboard() repository.DashboardRepository            { return &dashboardRepo{s} }

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

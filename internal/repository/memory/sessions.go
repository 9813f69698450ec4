package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/repository"
)

type sessionRepo struct{ s *Store }

func checkSessionUnique(st *state, session *domain.ParkingSession) error {
	for _, other := range st.sessions {
		if other.ID == session.ID {
			continue
		}
		if other.TicketCode == session.TicketCode {
			return fmt.Errorf("%w '%s' already issued", repository.ErrDuplicateTicketCode, session.TicketCode)
		}
		if session.IsActive && other.IsActive && other.VehicleID == session.VehicleID {
			return fmt.Errorf("%w: vehicle %d already has an active session", repository.ErrDuplicateEntry, session.VehicleID)
		}
	}
	return nil
}

func (r *sessionRepo) Create(ctx context.Context, session *domain.ParkingSession) (*domain.ParkingSession, error) {
	err := r.s.read(ctx, func(st *state) error {
		session.ID = 0
		if err := checkSessionUnique(st, session); err != nil {
			return err
		}
		st.sessionSeq++
		now := r.s.timestamp()
		session.ID = st.sessionSeq
		if session.CreatedAt.IsZero() {
			session.CreatedAt = now
		}
		session.UpdatedAt = session.CreatedAt
		st.sessions[session.ID] = *session
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (r *sessionRepo) FindByID(ctx context.Context, id int) (*domain.ParkingSession, error) {
	var out *domain.ParkingSession
	err := r.s.read(ctx, func(st *state) error {
		ps, ok := st.sessions[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &ps
		return nil
	})
	return out, err
}

func (r *sessionRepo) findOne(ctx context.Context, match func(domain.ParkingSession) bool) (*domain.ParkingSession, error) {
	var out *domain.ParkingSession
	err := r.s.read(ctx, func(st *state) error {
		for _, ps := range st.sessions {
			if match(ps) {
				out = &ps
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r *sessionRepo) FindByTicketCode(ctx context.Context, ticketCode string) (*domain.ParkingSession, error) {
	return r.findOne(ctx, func(ps domain.ParkingSession) bool { return ps.TicketCode == ticketCode })
}

func (r *sessionRepo) FindActiveByVehicleID(ctx context.Context, vehicleID int) (*domain.ParkingSession, error) {
	return r.findOne(ctx, func(ps domain.ParkingSession) bool { return ps.IsActive && ps.VehicleID == vehicleID })
}

func (r *sessionRepo) Find(ctx context.Context, filter domain.ParkingSessionFilter) ([]domain.ParkingSession, error) {
	out := []domain.ParkingSession{}
	err := r.s.read(ctx, func(st *state) error {
		for _, ps := range st.sessions {
			if filter.Matches(ps) {
				out = append(out, ps)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].EntryTime.Equal(out[j].EntryTime) {
			return out[i].ID > out[j].ID
		}
		return out[i].EntryTime.After(out[j].EntryTime)
	})
	return out, err
}

func (r *sessionRepo) Update(ctx context.Context, session *domain.ParkingSession) (*domain.ParkingSession, error) {
	err := r.s.read(ctx, func(st *state) error {
		if _, ok := st.sessions[session.ID]; !ok {
			return repository.ErrNotFound
		}
		if err := checkSessionUnique(st, session); err != nil {
			return err
		}
		session.UpdatedAt = r.s.timestamp()
		st.sessions[session.ID] = *session
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

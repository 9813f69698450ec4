package memory

import (
	"context"
	"fmt"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/repository"
)

type paymentRepo struct{ s *Store }

func (r *paymentRepo) Create(ctx context.Context, p *domain.Payment) (*domain.Payment, error) {
	err := r.s.read(ctx, func(st *state) error {
		for _, other := range st.payments {
			if other.ParkingSessionID == p.ParkingSessionID {
				return fmt.Errorf("%w: session %d already has a payment", repository.ErrDuplicateEntry, p.ParkingSessionID)
			}
		}
		st.paymentSeq++
		p.ID = st.paymentSeq
		if p.CreatedAt.IsZero() {
			p.CreatedAt = r.s.timestamp()
		}
		p.UpdatedAt = p.CreatedAt
		st.payments[p.ID] = *p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *paymentRepo) FindByID(ctx context.Context, id int) (*domain.Payment, error) {
	var out *domain.Payment
	err := r.s.read(ctx, func(st *state) error {
		p, ok := st.payments[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &p
		return nil
	})
	return out, err
}

func (r *paymentRepo) FindBySessionID(ctx context.Context, sessionID int) (*domain.Payment, error) {
	var out *domain.Payment
	err := r.s.read(ctx, func(st *state) error {
		for _, p := range st.payments {
			if p.ParkingSessionID == sessionID {
				out = &p
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r *paymentRepo) Update(ctx context.Context, p *domain.Payment) (*domain.Payment, error) {
	err := r.s.read(ctx, func(st *state) error {
		if _, ok := st.payments[p.ID]; !ok {
			return repository.ErrNotFound
		}
		p.UpdatedAt = r.s.timestamp()
		st.payments[p.ID] = *p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

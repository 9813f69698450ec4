package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/repository"
)

type vehicleRepo struct{ s *Store }

func (r *vehicleRepo) Create(ctx context.Context, v *domain.Vehicle) (*domain.Vehicle, error) {
	err := r.s.read(ctx, func(st *state) error {
		for _, existing := range st.vehicles {
			if existing.LicensePlate == v.LicensePlate {
				return fmt.Errorf("%w: vehicle '%s' already registered", repository.ErrDuplicateEntry, v.LicensePlate)
			}
		}
		st.vehicleSeq++
		now := r.s.timestamp()
		v.ID = st.vehicleSeq
		v.CreatedAt, v.UpdatedAt = now, now
		st.vehicles[v.ID] = *v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *vehicleRepo) FindByID(ctx context.Context, id int) (*domain.Vehicle, error) {
	var out *domain.Vehicle
	err := r.s.read(ctx, func(st *state) error {
		v, ok := st.vehicles[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &v
		return nil
	})
	return out, err
}

func (r *vehicleRepo) FindByLicensePlate(ctx context.Context, plate string) (*domain.Vehicle, error) {
	var out *domain.Vehicle
	err := r.s.read(ctx, func(st *state) error {
		for _, v := range st.vehicles {
			if v.LicensePlate == plate {
				out = &v
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r *vehicleRepo) FindAll(ctx context.Context) ([]domain.Vehicle, error) {
	out := []domain.Vehicle{}
	err := r.s.read(ctx, func(st *state) error {
		for _, v := range st.vehicles {
			out = append(out, v)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].LicensePlate < out[j].LicensePlate })
	return out, err
}

package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/repository"
)

type vehicleTypeRepo struct{ s *Store }

func nameTaken(st *state, name string, exceptID int) bool {
	for _, vt := range st.vehicleTypes {
		if vt.ID != exceptID && domain.SameName(vt.Name, name) {
			return true
		}
	}
	return false
}

func (r *vehicleTypeRepo) Create(ctx context.Context, vt *domain.VehicleType) (*domain.VehicleType, error) {
	err := r.s.read(ctx, func(st *state) error {
		if nameTaken(st, vt.Name, 0) {
			return fmt.Errorf("%w: vehicle type '%s' already exists", repository.ErrDuplicateEntry, vt.Name)
		}
		st.vehicleTypeSeq++
		now := r.s.timestamp()
		vt.ID = st.vehicleTypeSeq
		vt.CreatedAt, vt.UpdatedAt = now, now
		st.vehicleTypes[vt.ID] = *vt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vt, nil
}

func (r *vehicleTypeRepo) FindByID(ctx context.Context, id int) (*domain.VehicleType, error) {
	var out *domain.VehicleType
	err := r.s.read(ctx, func(st *state) error {
		vt, ok := st.vehicleTypes[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &vt
		return nil
	})
	return out, err
}

func (r *vehicleTypeRepo) FindByName(ctx context.Context, name string) (*domain.VehicleType, error) {
	var out *domain.VehicleType
	err := r.s.read(ctx, func(st *state) error {
		for _, vt := range st.vehicleTypes {
			if domain.SameName(vt.Name, name) {
				out = &vt
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r *vehicleTypeRepo) FindAll(ctx context.Context, activeOnly bool) ([]domain.VehicleType, error) {
	out := []domain.VehicleType{}
	err := r.s.read(ctx, func(st *state) error {
		for _, vt := range st.vehicleTypes {
			if activeOnly && !vt.IsActive {
				continue
			}
			out = append(out, vt)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r *vehicleTypeRepo) Update(ctx context.Context, vt *domain.VehicleType) (*domain.VehicleType, error) {
	err := r.s.read(ctx, func(st *state) error {
		if _, ok := st.vehicleTypes[vt.ID]; !ok {
			return repository.ErrNotFound
		}
		if nameTaken(st, vt.Name, vt.ID) {
			return fmt.Errorf("%w: vehicle type '%s' already exists", repository.ErrDuplicateEntry, vt.Name)
		}
		vt.UpdatedAt = r.s.timestamp()
		st.vehicleTypes[vt.ID] = *vt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vt, nil
}

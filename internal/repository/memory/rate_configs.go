package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/repository"
)

type rateConfigRepo struct{ s *Store }

func otherActiveRate(st *state, vehicleTypeID, exceptID int) bool {
	for _, rc := range st.rateConfigs {
		if rc.ID != exceptID && rc.VehicleTypeID == vehicleTypeID && rc.IsActive {
			return true
		}
	}
	return false
}

func (r *rateConfigRepo) Create(ctx context.Context, rc *domain.RateConfig) (*domain.RateConfig, error) {
	err := r.s.read(ctx, func(st *state) error {
		if rc.IsActive && otherActiveRate(st, rc.VehicleTypeID, 0) {
			return fmt.Errorf("%w: vehicle type %d already has an active rate", repository.ErrDuplicateEntry, rc.VehicleTypeID)
		}
		st.rateConfigSeq++
		now := r.s.timestamp()
		rc.ID = st.rateConfigSeq
		rc.CreatedAt, rc.UpdatedAt = now, now
		st.rateConfigs[rc.ID] = *rc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rc, nil
}

func (r *rateConfigRepo) FindByID(ctx context.Context, id int) (*domain.RateConfig, error) {
	var out *domain.RateConfig
	err := r.s.read(ctx, func(st *state) error {
		rc, ok := st.rateConfigs[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &rc
		return nil
	})
	return out, err
}

func (r *rateConfigRepo) FindActiveByVehicleTypeID(ctx context.Context, vehicleTypeID int) (*domain.RateConfig, error) {
	var out *domain.RateConfig
	err := r.s.read(ctx, func(st *state) error {
		for _, rc := range st.rateConfigs {
			if rc.VehicleTypeID == vehicleTypeID && rc.IsActive {
				out = &rc
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r *rateConfigRepo) FindByVehicleTypeID(ctx context.Context, vehicleTypeID int) ([]domain.RateConfig, error) {
	out := []domain.RateConfig{}
	err := r.s.read(ctx, func(st *state) error {
		for _, rc := range st.rateConfigs {
			if rc.VehicleTypeID == vehicleTypeID {
				out = append(out, rc)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r *rateConfigRepo) Update(ctx context.Context, rc *domain.RateConfig) (*domain.RateConfig, error) {
	err := r.s.read(ctx, func(st *state) error {
		if _, ok := st.rateConfigs[rc.ID]; !ok {
			return repository.ErrNotFound
		}
		if rc.IsActive && otherActiveRate(st, rc.VehicleTypeID, rc.ID) {
			return fmt.Errorf("%w: vehicle type %d already has an active rate", repository.ErrDuplicateEntry, rc.VehicleTypeID)
		}
		rc.UpdatedAt = r.s.timestamp()
		st.rateConfigs[rc.ID] = *rc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rc, nil
}

func (r *rateConfigRepo) DeactivateActiveByVehicleTypeID(ctx context.Context, vehicleTypeID, exceptID int) (int, error) {
	n := 0
	err := r.s.read(ctx, func(st *state) error {
		now := r.s.timestamp()
		for id, rc := range st.rateConfigs {
			if rc.VehicleTypeID == vehicleTypeID && rc.IsActive && rc.ID != exceptID {
				rc.IsActive = false
				rc.UpdatedAt = now
				st.rateConfigs[id] = rc
				n++
			}
		}
		return nil
	})
	return n, err
}

package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/repository"
)

type spaceRepo struct{ s *Store }

func checkSpaceUnique(st *state, space *domain.ParkingSpace) error {
	for _, other := range st.spaces {
		if other.ID == space.ID {
			continue
		}
		if fold(other.SpaceNumber) == fold(space.SpaceNumber) {
			return fmt.Errorf("%w: space number '%s' already exists", repository.ErrDuplicateEntry, space.SpaceNumber)
		}
		if space.Occupied && other.Occupied && other.OccupiedByVehiclePlate.String == space.OccupiedByVehiclePlate.String {
			return fmt.Errorf("%w: vehicle '%s' already occupies space %s", repository.ErrDuplicateEntry, space.OccupiedByVehiclePlate.String, other.SpaceNumber)
		}
	}
	return nil
}

func (r *spaceRepo) Create(ctx context.Context, space *domain.ParkingSpace) (*domain.ParkingSpace, error) {
	err := r.s.read(ctx, func(st *state) error {
		space.ID = 0
		if err := checkSpaceUnique(st, space); err != nil {
			return err
		}
		st.spaceSeq++
		now := r.s.timestamp()
		space.ID = st.spaceSeq
		space.CreatedAt, space.UpdatedAt = now, now
		st.spaces[space.ID] = *space
		return nil
	})
	if err != nil {
		return nil, err
	}
	return space, nil
}

func (r *spaceRepo) FindByID(ctx context.Context, id int) (*domain.ParkingSpace, error) {
	var out *domain.ParkingSpace
	err := r.s.read(ctx, func(st *state) error {
		sp, ok := st.spaces[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &sp
		return nil
	})
	return out, err
}

// FindByIDForUpdate is FindByID; the store lock already serializes transactions.
func (r *spaceRepo) FindByIDForUpdate(ctx context.Context, id int) (*domain.ParkingSpace, error) {
	return r.FindByID(ctx, id)
}

func (r *spaceRepo) findOne(ctx context.Context, match func(domain.ParkingSpace) bool) (*domain.ParkingSpace, error) {
	var out *domain.ParkingSpace
	err := r.s.read(ctx, func(st *state) error {
		for _, sp := range sortedSpaces(st) {
			if match(sp) {
				out = &sp
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r *spaceRepo) FindBySpaceNumber(ctx context.Context, spaceNumber string) (*domain.ParkingSpace, error) {
	return r.findOne(ctx, func(sp domain.ParkingSpace) bool {
		return fold(sp.SpaceNumber) == fold(spaceNumber)
	})
}

func (r *spaceRepo) FindByOccupiedPlate(ctx context.Context, plate string) (*domain.ParkingSpace, error) {
	return r.findOne(ctx, func(sp domain.ParkingSpace) bool {
		return sp.Occupied && sp.OccupiedByVehiclePlate.String == plate
	})
}

func (r *spaceRepo) FindFirstAvailableByVehicleType(ctx context.Context, vehicleTypeID int) (*domain.ParkingSpace, error) {
	return r.findOne(ctx, func(sp domain.ParkingSpace) bool {
		return sp.VehicleTypeID == vehicleTypeID && sp.Available()
	})
}

func sortedSpaces(st *state) []domain.ParkingSpace {
	out := make([]domain.ParkingSpace, 0, len(st.spaces))
	for _, sp := range st.spaces {
		out = append(out, sp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SpaceNumber < out[j].SpaceNumber })
	return out
}

func (r *spaceRepo) Find(ctx context.Context, filter domain.ParkingSpaceFilter) ([]domain.ParkingSpace, error) {
	out := []domain.ParkingSpace{}
	err := r.s.read(ctx, func(st *state) error {
		for _, sp := range sortedSpaces(st) {
			if filter.Matches(sp) {
				out = append(out, sp)
			}
		}
		return nil
	})
	return out, err
}

func (r *spaceRepo) Count(ctx context.Context, filter domain.ParkingSpaceFilter) (int, error) {
	spaces, err := r.Find(ctx, filter)
	if err != nil {
		return 0, err
	}
	return len(spaces), nil
}

func (r *spaceRepo) Update(ctx context.Context, space *domain.ParkingSpace) (*domain.ParkingSpace, error) {
	err := r.s.read(ctx, func(st *state) error {
		if _, ok := st.spaces[space.ID]; !ok {
			return repository.ErrNotFound
		}
		if err := checkSpaceUnique(st, space); err != nil {
			return err
		}
		space.UpdatedAt = r.s.timestamp()
		st.spaces[space.ID] = *space
		return nil
	})
	if err != nil {
		return nil, err
	}
	return space, nil
}

package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/apperror"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/repository"
)

type ParkingSpaceService struct {
	deps Deps
}

func (s *ParkingSpaceService) Create(ctx context.Context, req CreateParkingSpace) (*domain.ParkingSpace, error) {
	number := strings.ToUpper(strings.TrimSpace(req.SpaceNumber))
	if number == "" {
		return nil, apperror.NewBadRequest("spaceNumber is required").WithCode("VALIDATION_ERROR")
	}
	if err := requireID("vehicleTypeId", req.VehicleTypeID); err != nil {
		return nil, err
	}
	space := &domain.ParkingSpace{SpaceNumber: number, VehicleTypeID: req.VehicleTypeID, Active: true}
	if req.Active != nil {
		space.Active = *req.Active
	}

	err := s.deps.inTx(ctx, func(ctx context.Context) error {
		if _, err := s.deps.VehicleTypes.FindByID(ctx, req.VehicleTypeID); err != nil {
			return notFound(err, "vehicle type %d not found", req.VehicleTypeID)
		}
		_, err := s.deps.Spaces.FindBySpaceNumber(ctx, number)
		switch {
		case err == nil:
			return apperror.NewConflict("parking space %s already exists", number).WithCode("DUPLICATE_ENTRY")
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}
		_, err = s.deps.Spaces.Create(ctx, space)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.deps.Log.Info("parking space created", zap.Int("space_id", space.ID), zap.String("space_number", space.SpaceNumber))
	return space, nil
}

func (s *ParkingSpaceService) Get(ctx context.Context, req GetParkingSpace) (*domain.ParkingSpace, error) {
	if err := requireID("spaceId", req.ID); err != nil {
		return nil, err
	}
	space, err := s.deps.Spaces.FindByID(ctx, req.ID)
	if err != nil {
		return nil, translate(notFound(err, "parking space %d not found", req.ID))
	}
	return space, nil
}

// Update applies one state transition to a space. Occupying a space with a
// plate already parked elsewhere is rejected.
func (s *ParkingSpaceService) Update(ctx context.Context, req UpdateParkingSpace) (*domain.ParkingSpace, error) {
	if err := requireID("spaceId", req.ID); err != nil {
		return nil, err
	}
	var (
		out *domain.ParkingSpace
		ev  *domain.Event
	)
	err := s.deps.inTx(ctx, func(ctx context.Context) error {
		space, err := s.deps.Spaces.FindByIDForUpdate(ctx, req.ID)
		if err != nil {
			return notFound(err, "parking space %d not found", req.ID)
		}
		now := s.deps.now()

		switch req.Action {
		case domain.SpaceActionOccupy:
			if err := space.CanOccupy(); err != nil {
				return err
			}
			plate, err := domain.NormalizePlate(req.LicensePlate)
			if err != nil {
				return err
			}
			other, err := s.deps.Spaces.FindByOccupiedPlate(ctx, plate)
			switch {
			case err == nil && other.ID != space.ID:
				return apperror.NewConflict("vehicle %s already occupies space %s", plate, other.SpaceNumber).
					WithCode("VEHICLE_ALREADY_PARKED")
			case err != nil && !errors.Is(err, repository.ErrNotFound):
				return err
			}
			if err := space.Occupy(plate, now); err != nil {
				return err
			}
			ev = &domain.Event{Type: domain.EventSpaceOccupied, LicensePlate: plate}
		case domain.SpaceActionFree:
			plate := space.OccupiedByVehiclePlate.String
			if err := space.Free(); err != nil {
				return err
			}
			ev = &domain.Event{Type: domain.EventSpaceFreed, LicensePlate: plate}
		case domain.SpaceActionActivate:
			space.Activate()
		case domain.SpaceActionDeactivate:
			if err := space.Deactivate(); err != nil {
				return err
			}
		default:
			return apperror.NewBadRequest("unknown action %q", req.Action).WithCode("VALIDATION_ERROR")
		}

		out, err = s.deps.Spaces.Update(ctx, space)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.deps.Log.Info("parking space updated",
		zap.Int("space_id", out.ID),
		zap.String("action", string(req.Action)),
		zap.Bool("occupied", out.Occupied),
		zap.Bool("active", out.Active))
	if ev != nil {
		ev.SpaceID, ev.SpaceNumber, ev.At = out.ID, out.SpaceNumber, s.deps.now()
		publish(ctx, s.deps, *ev)
	}
	return out, nil
}

func (s *ParkingSpaceService) List(ctx context.Context, req ListParkingSpaces) ([]domain.ParkingSpace, error) {
	spaces, err := s.deps.Spaces.Find(ctx, req.Filter)
	return spaces, translate(err)
}

func (s *ParkingSpaceService) Count(ctx context.Context, req CountParkingSpaces) (int, error) {
	n, err := s.deps.Spaces.Count(ctx, req.Filter)
	return n, translate(err)
}

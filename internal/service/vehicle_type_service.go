package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/guregu/null.v4"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/apperror"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/repository"
)

type VehicleTypeService struct {
	deps Deps
}

func (s *VehicleTypeService) Create(ctx context.Context, req CreateVehicleType) (*domain.VehicleType, error) {
	name, err := domain.NormalizeVehicleTypeName(req.Name)
	if err != nil {
		return nil, translate(err)
	}
	vt := &domain.VehicleType{Name: name, Description: strings.TrimSpace(req.Description), IsActive: true}

	err = s.deps.inTx(ctx, func(ctx context.Context) error {
		if err := s.ensureNameFree(ctx, name, 0); err != nil {
			return err
		}
		_, err := s.deps.VehicleTypes.Create(ctx, vt)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.deps.Log.Info("vehicle type created", zap.Int("vehicle_type_id", vt.ID), zap.String("name", vt.Name))
	return vt, nil
}

func (s *VehicleTypeService) ensureNameFree(ctx context.Context, name string, selfID int) error {
	existing, err := s.deps.VehicleTypes.FindByName(ctx, name)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != selfID:
		return apperror.NewConflict("vehicle type '%s' already exists", name).WithCode("DUPLICATE_ENTRY")
	}
	return nil
}

func (s *VehicleTypeService) Get(ctx context.Context, req GetVehicleType) (*domain.VehicleType, error) {
	if err := requireID("vehicleTypeId", req.ID); err != nil {
		return nil, err
	}
	vt, err := s.deps.VehicleTypes.FindByID(ctx, req.ID)
	if err != nil {
		return nil, translate(notFound(err, "vehicle type %d not found", req.ID))
	}
	return vt, nil
}

func (s *VehicleTypeService) List(ctx context.Context, req ListVehicleTypes) ([]domain.VehicleType, error) {
	types, err := s.deps.VehicleTypes.FindAll(ctx, req.ActiveOnly)
	return types, translate(err)
}

func (s *VehicleTypeService) Update(ctx context.Context, req UpdateVehicleType) (*domain.VehicleType, error) {
	if err := requireID("vehicleTypeId", req.ID); err != nil {
		return nil, err
	}
	var out *domain.VehicleType
	err := s.deps.inTx(ctx, func(ctx context.Context) error {
		vt, err := s.deps.VehicleTypes.FindByID(ctx, req.ID)
		if err != nil {
			return notFound(err, "vehicle type %d not found", req.ID)
		}
		if err := vt.Apply(req.Patch); err != nil {
			return err
		}
		if req.Patch.Name.Valid {
			if err := s.ensureNameFree(ctx, vt.Name, vt.ID); err != nil {
				return err
			}
		}
		out, err = s.deps.VehicleTypes.Update(ctx, vt)
		return err
	})
	return out, err
}

func (s *VehicleTypeService) Deactivate(ctx context.Context, req DeactivateVehicleType) (*domain.VehicleType, error) {
	return s.Update(ctx, UpdateVehicleType{ID: req.ID, Patch: domain.VehicleTypePatch{IsActive: null.BoolFrom(false)}})
}

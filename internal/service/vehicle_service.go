package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/apperror"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
)

type VehicleService struct {
	deps Deps
}

func (s *VehicleService) Register(ctx context.Context, req RegisterVehicle) (*domain.Vehicle, error) {
	var out *domain.Vehicle
	err := s.deps.inTx(ctx, func(ctx context.Context) error {
		v, err := s.register(ctx, req.RegisterVehicleDTO)
		out = v
		return err
	})
	return out, err
}

// register runs inside the caller's transaction.
func (s *VehicleService) register(ctx context.Context, dto domain.RegisterVehicleDTO) (*domain.Vehicle, error) {
	plate, err := domain.NormalizePlate(dto.LicensePlate)
	if err != nil {
		return nil, err
	}
	if err := requireID("vehicleTypeId", dto.VehicleTypeID); err != nil {
		return nil, err
	}
	vt, err := s.deps.VehicleTypes.FindByID(ctx, dto.VehicleTypeID)
	if err != nil {
		return nil, notFound(err, "vehicle type %d not found", dto.VehicleTypeID)
	}
	if !vt.IsActive {
		return nil, apperror.NewBadRequest("vehicle type %s is not active", vt.Name).WithCode("VALIDATION_ERROR")
	}
	v := &domain.Vehicle{
		LicensePlate:  plate,
		VehicleTypeID: vt.ID,
		OwnerName:     strings.TrimSpace(dto.OwnerName),
		OwnerPhone:    strings.TrimSpace(dto.OwnerPhone),
	}
	if _, err := s.deps.Vehicles.Create(ctx, v); err != nil {
		return nil, err
	}
	s.deps.Log.Info("vehicle registered", zap.Int("vehicle_id", v.ID), zap.String("license_plate", v.LicensePlate))
	return v, nil
}

func (s *VehicleService) Get(ctx context.Context, req GetVehicle) (*domain.Vehicle, error) {
	if err := requireID("vehicleId", req.ID); err != nil {
		return nil, err
	}
	v, err := s.deps.Vehicles.FindByID(ctx, req.ID)
	if err != nil {
		return nil, translate(notFound(err, "vehicle %d not found", req.ID))
	}
	return v, nil
}

func (s *VehicleService) GetByPlate(ctx context.Context, req GetVehicleByPlate) (*domain.Vehicle, error) {
	plate, err := domain.NormalizePlate(req.LicensePlate)
	if err != nil {
		return nil, translate(err)
	}
	v, err := s.deps.Vehicles.FindByLicensePlate(ctx, plate)
	if err != nil {
		return nil, translate(notFound(err, "vehicle with plate %s not found", plate))
	}
	return v, nil
}

func (s *VehicleService) List(ctx context.Context, _ ListVehicles) ([]domain.Vehicle, error) {
	vehicles, err := s.deps.Vehicles.FindAll(ctx)
	return vehicles, translate(err)
}

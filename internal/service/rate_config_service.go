package service

import (
	"context"

	"go.uber.org/zap"
	"gopkg.in/guregu/null.v4"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
)

type RateConfigService struct {
	deps Deps
}

func (s *RateConfigService) Create(ctx context.Context, req CreateRateConfig) (*domain.RateConfig, error) {
	if err := requireID("vehicleTypeId", req.VehicleTypeID); err != nil {
		return nil, err
	}
	rc := &domain.RateConfig{
		VehicleTypeID:      req.VehicleTypeID,
		RatePerHour:        req.RatePerHour,
		MinimumChargeHours: req.MinimumChargeHours,
		MaximumDailyRate:   req.MaximumDailyRate,
		IsActive:           req.IsActive.ValueOrZero() || !req.IsActive.Valid,
	}
	if rc.MinimumChargeHours == 0 {
		rc.MinimumChargeHours = 1
	}
	if err := rc.Validate(); err != nil {
		return nil, translate(err)
	}

	err := s.deps.inTx(ctx, func(ctx context.Context) error {
		if _, err := s.deps.VehicleTypes.FindByID(ctx, rc.VehicleTypeID); err != nil {
			return notFound(err, "vehicle type %d not found", rc.VehicleTypeID)
		}
		if rc.IsActive {
			if _, err := s.deps.RateConfigs.DeactivateActiveByVehicleTypeID(ctx, rc.VehicleTypeID, 0); err != nil {
				return err
			}
		}
		_, err := s.deps.RateConfigs.Create(ctx, rc)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.deps.Log.Info("rate config created",
		zap.Int("rate_config_id", rc.ID),
		zap.Int("vehicle_type_id", rc.VehicleTypeID),
		zap.Bool("active", rc.IsActive))
	return rc, nil
}

func (s *RateConfigService) Get(ctx context.Context, req GetRateConfig) (*domain.RateConfig, error) {
	if err := requireID("rateConfigId", req.ID); err != nil {
		return nil, err
	}
	rc, err := s.deps.RateConfigs.FindByID(ctx, req.ID)
	if err != nil {
		return nil, translate(notFound(err, "rate config %d not found", req.ID))
	}
	return rc, nil
}

func (s *RateConfigService) GetActive(ctx context.Context, req GetActiveRateConfig) (*domain.RateConfig, error) {
	if err := requireID("vehicleTypeId", req.VehicleTypeID); err != nil {
		return nil, err
	}
	rc, err := s.deps.RateConfigs.FindActiveByVehicleTypeID(ctx, req.VehicleTypeID)
	if err != nil {
		return nil, translate(notFound(err, "no active rate config for vehicle type %d", req.VehicleTypeID))
	}
	return rc, nil
}

func (s *RateConfigService) List(ctx context.Context, req ListRateConfigs) ([]domain.RateConfig, error) {
	if err := requireID("vehicleTypeId", req.VehicleTypeID); err != nil {
		return nil, err
	}
	configs, err := s.deps.RateConfigs.FindByVehicleTypeID(ctx, req.VehicleTypeID)
	return configs, translate(err)
}

// Update applies a partial update. Activating a config first deactivates every
// other active config of the same vehicle type.
func (s *RateConfigService) Update(ctx context.Context, req UpdateRateConfig) (*domain.RateConfig, error) {
	if err := requireID("rateConfigId", req.ID); err != nil {
		return nil, err
	}
	var out *domain.RateConfig
	err := s.deps.inTx(ctx, func(ctx context.Context) error {
		rc, err := s.deps.RateConfigs.FindByID(ctx, req.ID)
		if err != nil {
			return notFound(err, "rate config %d not found", req.ID)
		}
		wasActive := rc.IsActive
		rc.Apply(req.Patch)
		if err := rc.Validate(); err != nil {
			return err
		}
		if rc.IsActive && !wasActive {
			n, err := s.deps.RateConfigs.DeactivateActiveByVehicleTypeID(ctx, rc.VehicleTypeID, rc.ID)
			if err != nil {
				return err
			}
			s.deps.Log.Info("rate config activated",
				zap.Int("rate_config_id", rc.ID),
				zap.Int("vehicle_type_id", rc.VehicleTypeID),
				zap.Int("deactivated", n))
		}
		out, err = s.deps.RateConfigs.Update(ctx, rc)
		return err
	})
	return out, err
}

func (s *RateConfigService) Deactivate(ctx context.Context, req DeactivateRateConfig) (*domain.RateConfig, error) {
	return s.Update(ctx, UpdateRateConfig{ID: req.ID, Patch: domain.RateConfigPatch{IsActive: null.BoolFrom(false)}})
}

package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"gopkg.in/guregu/null.v4"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/apperror"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
)

func countActive(t *testing.T, f *fixture, vehicleTypeID int) int {
	t.Helper()
	configs, err := f.svc.RateConfigs.List(f.ctx, ListRateConfigs{VehicleTypeID: vehicleTypeID})
	if err != nil {
		t.Fatal(err)
	}
	n := 0
	for _, rc := range configs {
		if rc.IsActive {
			n++
		}
	}
	return n
}

func TestRateActivationIsExclusive(t *testing.T) {
	f := newFixture(t)
	var truck *domain.VehicleType
	for _, name := range []string{"Motorcycle", "Bicycle", "Van", "Truck"} {
		vt, err := f.svc.VehicleTypes.Create(f.ctx, CreateVehicleType{domain.CreateVehicleTypeDTO{Name: name}})
		if err != nil {
			t.Fatal(err)
		}
		truck = vt
	}
	if truck.ID != 5 {
		t.Fatalf("truck id = %d, want 5", truck.ID)
	}

	create := func(rate int64) *domain.RateConfig {
		rc, err := f.svc.RateConfigs.Create(f.ctx, CreateRateConfig{domain.CreateRateConfigDTO{
			VehicleTypeID: truck.ID, RatePerHour: decimal.NewFromInt(rate), MinimumChargeHours: 1,
		}})
		if err != nil {
			t.Fatal(err)
		}
		return rc
	}
	first := create(5000)
	second := create(6000)

	if n := countActive(t, f, truck.ID); n != 1 {
		t.Fatalf("active configs = %d, want 1", n)
	}
	active, err := f.svc.RateConfigs.GetActive(f.ctx, GetActiveRateConfig{VehicleTypeID: truck.ID})
	if err != nil {
		t.Fatal(err)
	}
	if active.ID != second.ID {
		t.Errorf("active = %d, want the newest %d", active.ID, second.ID)
	}

	if _, err := f.svc.RateConfigs.Update(f.ctx, UpdateRateConfig{ID: first.ID, Patch: domain.RateConfigPatch{IsActive: null.BoolFrom(true)}}); err != nil {
		t.Fatal(err)
	}
	if n := countActive(t, f, truck.ID); n != 1 {
		t.Fatalf("active configs after reactivation = %d, want 1", n)
	}
	active, _ = f.svc.RateConfigs.GetActive(f.ctx, GetActiveRateConfig{VehicleTypeID: truck.ID})
	if active.ID != first.ID {
		t.Errorf("active = %d, want %d", active.ID, first.ID)
	}

	// the car rate is untouched
	if n := countActive(t, f, f.car.ID); n != 1 {
		t.Errorf("car active configs = %d, want 1", n)
	}
}

func TestCreateInactiveRateKeepsCurrent(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.RateConfigs.Create(f.ctx, CreateRateConfig{domain.CreateRateConfigDTO{
		VehicleTypeID: f.car.ID, RatePerHour: decimal.NewFromInt(3000), IsActive: null.BoolFrom(false),
	}})
	if err != nil {
		t.Fatal(err)
	}
	active, err := f.svc.RateConfigs.GetActive(f.ctx, GetActiveRateConfig{VehicleTypeID: f.car.ID})
	if err != nil {
		t.Fatal(err)
	}
	if active.ID != f.rate.ID {
		t.Errorf("active = %d, want %d", active.ID, f.rate.ID)
	}
}

func TestRateConfigValidation(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name string
		dto  domain.CreateRateConfigDTO
		typ  apperror.Type
	}{
		{"zero rate", domain.CreateRateConfigDTO{VehicleTypeID: f.car.ID}, apperror.BadRequest},
		{"cap below rate", domain.CreateRateConfigDTO{
			VehicleTypeID:    f.car.ID,
			RatePerHour:      decimal.NewFromInt(2000),
			MaximumDailyRate: decimal.NewNullDecimal(decimal.NewFromInt(1000)),
		}, apperror.BadRequest},
		{"unknown type", domain.CreateRateConfigDTO{VehicleTypeID: 42, RatePerHour: decimal.NewFromInt(1)}, apperror.NotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.RateConfigs.Create(f.ctx, CreateRateConfig{tt.dto})
			wantAppError(t, err, tt.typ, "")
		})
	}

	_, err := f.svc.RateConfigs.Update(f.ctx, UpdateRateConfig{ID: f.rate.ID, Patch: domain.RateConfigPatch{MinimumChargeHours: null.IntFrom(0)}})
	wantAppError(t, err, apperror.BadRequest, "VALIDATION_ERROR")
}

func TestDeactivatedVehicleTypeRejectsVehicles(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.VehicleTypes.Deactivate(f.ctx, DeactivateVehicleType{ID: f.car.ID}); err != nil {
		t.Fatal(err)
	}

	_, err := f.svc.Vehicles.Register(f.ctx, RegisterVehicle{domain.RegisterVehicleDTO{LicensePlate: "XYZ-1", VehicleTypeID: f.car.ID}})
	wantAppError(t, err, apperror.BadRequest, "VALIDATION_ERROR")
}

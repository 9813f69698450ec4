package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/guregu/null.v4"
)

// RateConfig is the pricing rule for one vehicle type. At most one config per
// vehicle type is active at any time.
type RateConfig struct {
	ID                 int                 `json:"id"`
	VehicleTypeID      int                 `json:"vehicleTypeId"`
	RatePerHour        decimal.Decimal     `json:"ratePerHour"`
	MinimumChargeHours int                 `json:"minimumChargeHours"`
	MaximumDailyRate   decimal.NullDecimal `json:"maximumDailyRate"`
	IsActive           bool                `json:"isActive"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
}

type CreateRateConfigDTO struct {
	VehicleTypeID      int                 `json:"vehicleTypeId" binding:"required,gt=0"`
	RatePerHour        decimal.Decimal     `json:"ratePerHour"`
	MinimumChargeHours int                 `json:"minimumChargeHours"`
	MaximumDailyRate   decimal.NullDecimal `json:"maximumDailyRate"`
	IsActive           null.Bool           `json:"isActive"`
}

// RateConfigPatch is a partial update; only valid fields overwrite.
type RateConfigPatch struct {
	RatePerHour        decimal.NullDecimal `json:"ratePerHour"`
	MinimumChargeHours null.Int            `json:"minimumChargeHours"`
	MaximumDailyRate   decimal.NullDecimal `json:"maximumDailyRate"`
	IsActive           null.Bool           `json:"isActive"`
}

// Validate checks the field rules: rate > 0, minimum hours >= 1 and, when set,
// a daily cap no lower than the hourly rate.
func (rc RateConfig) Validate() error {
	if !rc.RatePerHour.IsPositive() {
		return fmt.Errorf("%w: ratePerHour must be greater than zero", ErrIllegalArgument)
	}
	if rc.MinimumChargeHours < 1 {
		return fmt.Errorf("%w: minimumChargeHours must be at least 1", ErrIllegalArgument)
	}
	if rc.MaximumDailyRate.Valid && rc.MaximumDailyRate.Decimal.LessThan(rc.RatePerHour) {
		return fmt.Errorf("%w: maximumDailyRate must not be lower than ratePerHour", ErrIllegalArgument)
	}
	return nil
}

// Apply copies the valid patch fields onto rc. The result is not validated.
func (rc *RateConfig) Apply(p RateConfigPatch) {
	if p.RatePerHour.Valid {
		rc.RatePerHour = p.RatePerHour.Decimal
	}
	if p.MinimumChargeHours.Valid {
		rc.MinimumChargeHours = int(p.MinimumChargeHours.Int64)
	}
	if p.MaximumDailyRate.Valid {
		rc.MaximumDailyRate = p.MaximumDailyRate
	}
	if p.IsActive.Valid {
		rc.IsActive = p.IsActive.Bool
	}
}

package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var nanosPerHour = decimal.NewFromInt(int64(time.Hour))

// CalculateAmount returns the fee for a stay of hoursParked under rc.
// The billable hours are max(hoursParked, minimum) rounded up to a whole hour;
// the result is capped by the daily maximum when one is configured.
func CalculateAmount(hoursParked decimal.Decimal, rc RateConfig) (decimal.Decimal, error) {
	if err := rc.Validate(); err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid rate configuration %d: %v", ErrIllegalState, rc.ID, err)
	}
	if hoursParked.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: hours parked cannot be negative", ErrIllegalArgument)
	}

	hoursToCharge := decimal.Max(hoursParked, decimal.NewFromInt(int64(rc.MinimumChargeHours))).Ceil()
	amount := rc.RatePerHour.Mul(hoursToCharge)

	if rc.MaximumDailyRate.Valid && amount.GreaterThan(rc.MaximumDailyRate.Decimal) {
		amount = rc.MaximumDailyRate.Decimal
	}
	return amount, nil
}

// HoursBetween is the elapsed time from entry to exit as fractional hours.
// An exit before entry counts as zero.
func HoursBetween(entry, exit time.Time) decimal.Decimal {
	d := exit.Sub(entry)
	if d < 0 {
		d = 0
	}
	return decimal.NewFromInt(int64(d)).Div(nanosPerHour)
}

package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var platePattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9 -]{1,13}[A-Z0-9]$`)

// NormalizePlate upper-cases and trims a licence plate and checks its shape.
func NormalizePlate(plate string) (string, error) {
	p := strings.ToUpper(strings.Join(strings.Fields(plate), " "))
	if p == "" {
		return "", fmt.Errorf("%w: license plate is required", ErrIllegalArgument)
	}
	if !platePattern.MatchString(p) {
		return "", fmt.Errorf("%w: malformed license plate %q", ErrIllegalArgument, plate)
	}
	return p, nil
}

type Vehicle struct {
	ID            int       `json:"id"`
	LicensePlate  string    `json:"licensePlate"`
	VehicleTypeID int       `json:"vehicleTypeId"`
	OwnerName     string    `json:"ownerName,omitempty"`
	OwnerPhone    string    `json:"ownerPhone,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type RegisterVehicleDTO struct {
	LicensePlate  string `json:"licensePlate" binding:"required"`
	VehicleTypeID int    `json:"vehicleTypeId" binding:"required,gt=0"`
	OwnerName     string `json:"ownerName" binding:"max=100"`
	OwnerPhone    string `json:"ownerPhone" binding:"max=30"`
}

package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"gopkg.in/guregu/null.v4"
)

const (
	vehicleTypeNameMin = 2
	vehicleTypeNameMax = 50
)

// VehicleType is a named category of vehicle. Types are deactivated, never deleted.
type VehicleType struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateVehicleTypeDTO struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"max=255"`
}

// VehicleTypePatch carries the fields of a partial update. Invalid (absent)
// fields leave the stored value untouched.
type VehicleTypePatch struct {
	Name        null.String `json:"name"`
	Description null.String `json:"description"`
	IsActive    null.Bool   `json:"isActive"`
}

// NormalizeVehicleTypeName trims the name and checks its length.
func NormalizeVehicleTypeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n < vehicleTypeNameMin || n > vehicleTypeNameMax {
		return "", fmt.Errorf("%w: vehicle type name must be between %d and %d characters", ErrIllegalArgument, vehicleTypeNameMin, vehicleTypeNameMax)
	}
	return name, nil
}

// Apply copies the valid fields of p onto vt.
func (vt *VehicleType) Apply(p VehicleTypePatch) error {
	if p.Name.Valid {
		name, err := NormalizeVehicleTypeName(p.Name.String)
		if err != nil {
			return err
		}
		vt.Name = name
	}
	if p.Description.Valid {
		vt.Description = strings.TrimSpace(p.Description.String)
	}
	if p.IsActive.Valid {
		vt.IsActive = p.IsActive.Bool
	}
	return nil
}

// SameName reports whether two vehicle type names collide (case-insensitive).
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

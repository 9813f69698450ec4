package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/guregu/null.v4"
)

// ParkingSpace is a physical slot reserved for one vehicle type. It is
// occupied by at most one vehicle at a time.
type ParkingSpace struct {
	ID                     int         `json:"id"`
	SpaceNumber            string      `json:"spaceNumber"`
	VehicleTypeID          int         `json:"vehicleTypeId"`
	Occupied               bool        `json:"occupied"`
	Active                 bool        `json:"active"`
	OccupiedByVehiclePlate null.String `json:"occupiedByVehiclePlate"`
	OccupiedAt             null.Time   `json:"occupiedAt"`
	CreatedAt              time.Time   `json:"createdAt"`
	UpdatedAt              time.Time   `json:"updatedAt"`
}

// Available reports whether the space can take a vehicle.
func (s *ParkingSpace) Available() bool {
	return s.Active && !s.Occupied
}

// CanOccupy reports why the space cannot take a vehicle, or nil.
func (s *ParkingSpace) CanOccupy() error {
	if !s.Active {
		return fmt.Errorf("%w: space %s is not active", ErrIllegalState, s.SpaceNumber)
	}
	if s.Occupied {
		return fmt.Errorf("%w: space %s is already occupied", ErrIllegalState, s.SpaceNumber)
	}
	return nil
}

// Occupy marks the space as taken by plate at the given time.
func (s *ParkingSpace) Occupy(plate string, at time.Time) error {
	if err := s.CanOccupy(); err != nil {
		return err
	}
	plate = strings.TrimSpace(plate)
	if plate == "" {
		return fmt.Errorf("%w: license plate is required to occupy space %s", ErrIllegalArgument, s.SpaceNumber)
	}
	s.Occupied = true
	s.OccupiedByVehiclePlate = null.StringFrom(plate)
	s.OccupiedAt = null.TimeFrom(at)
	return nil
}

// Free releases an occupied space.
func (s *ParkingSpace) Free() error {
	if !s.Occupied {
		return fmt.Errorf("%w: space %s is not occupied", ErrIllegalState, s.SpaceNumber)
	}
	s.Occupied = false
	s.OccupiedByVehiclePlate = null.String{}
	s.OccupiedAt = null.Time{}
	return nil
}

func (s *ParkingSpace) Activate() {
	s.Active = true
}

// Deactivate takes the space out of service. An occupied space must be freed first.
func (s *ParkingSpace) Deactivate() error {
	if s.Occupied {
		return fmt.Errorf("%w: space %s is occupied and cannot be deactivated", ErrIllegalState, s.SpaceNumber)
	}
	s.Active = false
	return nil
}

// MarshalJSON adds the derived "available" property.
func (s ParkingSpace) MarshalJSON() ([]byte, error) {
	type plain ParkingSpace
	return json.Marshal(struct {
		plain
		Available bool `json:"available"`
	}{plain(s), s.Available()})
}

type CreateParkingSpaceDTO struct {
	SpaceNumber   string `json:"spaceNumber" binding:"required,max=20"`
	VehicleTypeID int    `json:"vehicleTypeId" binding:"required,gt=0"`
	Active        *bool  `json:"active"`
}

// SpaceAction is the transition requested through PATCH /parking-spaces/{id}.
type SpaceAction string

const (
	SpaceActionOccupy     SpaceAction = "occupy"
	SpaceActionFree       SpaceAction = "free"
	SpaceActionActivate   SpaceAction = "activate"
	SpaceActionDeactivate SpaceAction = "deactivate"
)

type UpdateParkingSpaceDTO struct {
	Action       SpaceAction `json:"action" binding:"required,oneof=occupy free activate deactivate"`
	LicensePlate string      `json:"licensePlate"`
}

type ParkingSpaceFilter struct {
	Active        *bool `form:"active"`
	Available     *bool `form:"available"`
	VehicleTypeID *int  `form:"vehicleTypeId"`
}

// Matches applies the filter to a single space. List and count queries share it.
func (f ParkingSpaceFilter) Matches(s ParkingSpace) bool {
	if f.Active != nil && s.Active != *f.Active {
		return false
	}
	if f.Available != nil && s.Available() != *f.Available {
		return false
	}
	if f.VehicleTypeID != nil && s.VehicleTypeID != *f.VehicleTypeID {
		return false
	}
	return true
}

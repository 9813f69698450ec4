package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func newSpace() *ParkingSpace {
	return &ParkingSpace{ID: 1, SpaceNumber: "A-01", VehicleTypeID: 5, Active: true}
}

func TestParkingSpace_OccupyThenFree(t *testing.T) {
	s := newSpace()
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	if err := s.Occupy("ABC-123", at); err != nil {
		t.Fatalf("Occupy: %v", err)
	}
	if !s.Occupied || s.OccupiedByVehiclePlate.String != "ABC-123" || !s.OccupiedAt.Time.Equal(at) {
		t.Fatalf("space not occupied as expected: %+v", s)
	}
	if s.Available() {
		t.Error("occupied space reported available")
	}

	if err := s.Free(); err != nil {
		t.Fatalf("Free: %v", err)
	}
	if s.Occupied || s.OccupiedByVehiclePlate.Valid || s.OccupiedAt.Valid {
		t.Errorf("free did not clear occupancy: %+v", s)
	}

	if err := s.Free(); !errors.Is(err, ErrIllegalState) {
		t.Errorf("second Free: expected ErrIllegalState, got %v", err)
	}
}

func TestParkingSpace_OccupyRejections(t *testing.T) {
	now := time.Now()

	s := newSpace()
	if err := s.Occupy("  ", now); !errors.Is(err, ErrIllegalArgument) {
		t.Errorf("blank plate: expected ErrIllegalArgument, got %v", err)
	}

	s = newSpace()
	s.Active = false
	if err := s.Occupy("ABC-123", now); !errors.Is(err, ErrIllegalState) {
		t.Errorf("inactive: expected ErrIllegalState, got %v", err)
	}

	s = newSpace()
	_ = s.Occupy("ABC-123", now)
	if err := s.Occupy("XYZ-999", now); !errors.Is(err, ErrIllegalState) {
		t.Errorf("occupied: expected ErrIllegalState, got %v", err)
	}
	if s.OccupiedByVehiclePlate.String != "ABC-123" {
		t.Errorf("failed occupy changed plate to %q", s.OccupiedByVehiclePlate.String)
	}

	// State is checked before the plate.
	if err := s.Occupy("", now); !errors.Is(err, ErrIllegalState) {
		t.Errorf("occupied, blank plate: expected ErrIllegalState, got %v", err)
	}
	s = newSpace()
	s.Active = false
	if err := s.Occupy(" ", now); !errors.Is(err, ErrIllegalState) {
		t.Errorf("inactive, blank plate: expected ErrIllegalState, got %v", err)
	}
}

func TestParkingSpace_AvailableInvariant(t *testing.T) {
	s := newSpace()
	now := time.Now()
	check := func(step string) {
		t.Helper()
		if s.Available() != (s.Active && !s.Occupied) {
			t.Fatalf("%s: available=%v active=%v occupied=%v", step, s.Available(), s.Active, s.Occupied)
		}
	}

	check("initial")
	_ = s.Occupy("ABC-123", now)
	check("occupy")
	if err := s.Deactivate(); !errors.Is(err, ErrIllegalState) {
		t.Fatalf("deactivating occupied space: expected ErrIllegalState, got %v", err)
	}
	check("deactivate occupied")
	_ = s.Free()
	check("free")
	if err := s.Deactivate(); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	check("deactivate")
	if s.Available() {
		t.Error("inactive space reported available")
	}
	_ = s.Occupy("ABC-123", now)
	check("occupy inactive")
	s.Activate()
	check("activate")
	if !s.Available() {
		t.Error("active free space not available")
	}
}

func TestParkingSpace_JSONIncludesAvailable(t *testing.T) {
	s := newSpace()
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["available"] != true {
		t.Errorf("available = %v, want true", out["available"])
	}
	if out["spaceNumber"] != "A-01" {
		t.Errorf("spaceNumber = %v", out["spaceNumber"])
	}
}

func TestParkingSpaceFilter_Matches(t *testing.T) {
	yes, no := true, false
	vt := 5
	free := ParkingSpace{VehicleTypeID: 5, Active: true}
	taken := ParkingSpace{VehicleTypeID: 5, Active: true, Occupied: true}
	other := ParkingSpace{VehicleTypeID: 7, Active: true}

	f := ParkingSpaceFilter{Available: &yes, VehicleTypeID: &vt}
	if !f.Matches(free) || f.Matches(taken) || f.Matches(other) {
		t.Error("available-by-type filter mismatch")
	}
	f = ParkingSpaceFilter{Available: &no}
	if f.Matches(free) || !f.Matches(taken) {
		t.Error("unavailable filter mismatch")
	}
}

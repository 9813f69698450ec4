package domain

import (
	"errors"
	"testing"
)

func TestNormalizePlate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"abc-123", "ABC-123", false},
		{"  abc   123 ", "ABC 123", false},
		{"X1Y", "X1Y", false},
		{"", "", true},
		{"   ", "", true},
		{"AB", "", true},
		{"-ABC", "", true},
		{"ABC_123", "", true},
		{"ABCDEFGHIJKLMNOP", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := NormalizePlate(tc.in)
			if tc.wantErr {
				if !errors.Is(err, ErrIllegalArgument) {
					t.Fatalf("expected ErrIllegalArgument, got %q, %v", got, err)
				}
				return
			}
			if err != nil || got != tc.want {
				t.Errorf("NormalizePlate(%q) = %q, %v; want %q", tc.in, got, err, tc.want)
			}
		})
	}
}

func TestNormalizeVehicleTypeName(t *testing.T) {
	if got, err := NormalizeVehicleTypeName("  Car "); err != nil || got != "Car" {
		t.Errorf("got %q, %v", got, err)
	}
	if _, err := NormalizeVehicleTypeName("C"); !errors.Is(err, ErrIllegalArgument) {
		t.Errorf("short name: expected ErrIllegalArgument, got %v", err)
	}
	if !SameName("Car", "cAR") {
		t.Error("names should compare case-insensitively")
	}
}

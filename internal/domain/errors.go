package domain

import "errors"

// Invariant violations raised by entities. Application handlers translate
// these into typed client errors.
var (
	ErrIllegalState    = errors.New("illegal state")
	ErrIllegalArgument = errors.New("illegal argument")

	ErrVehicleAlreadyParked = errors.New("vehicle is already parked")
	ErrNoAvailableSpace     = errors.New("no available parking space")
	ErrNoActiveSession      = errors.New("no active parking session")
)

package allocation

import "errors"

var (
	// ErrAllocationNotFound indicates the allocation doesn't exist.
	ErrAllocationNotFound = errors.New("allocation not found")
	// ErrOverlap indicates the hardware unit is already allocated in the
	// requested time window.
	ErrOverlap = errors.New("hardware unit already allocated in this time window")
	// ErrInvalidInput indicates invalid allocation input.
	ErrInvalidInput = errors.New("invalid allocation input")
)

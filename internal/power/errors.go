package power

import (
	"errors"
	"fmt"
)

// ErrMismatch indicates the tracked lease state disagrees with the
// configured flag at the start of a toggle.
var ErrMismatch = errors.New("power: assertion mismatch")

// ErrClosed is returned by operations on a Guard after Close.
var ErrClosed = errors.New("power: guard closed")

// StatusError is returned when the OS refuses to create an assertion.
type StatusError struct {
	// Kind is the lease that could not be created
	Kind Kind
	// Status is the raw code reported by the facility
	Status Status
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("power: create %s assertion: IOReturn %#x", e.Kind, uint32(e.Status))
}

func mismatch(k Kind) error {
	return fmt.Errorf("%w: %s_assertion", ErrMismatch, k)
}

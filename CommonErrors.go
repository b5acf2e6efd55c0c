package dyn4go

import (
	"errors"
	"fmt"
)

// Errors returned by constructors, setters, and detectors. Construction
// and configuration fail fast with one of these. The solvers themselves
// never return errors mid step, degenerate input is healed in place and
// reported through the optional logger instead.
var (
	// ErrNilArgument is returned when a required reference argument is nil.
	ErrNilArgument = errors.New("dyn4go: argument must not be nil")

	// ErrValueOutOfRange is the sentinel wrapped by every
	// ValueOutOfRangeError. Use errors.Is to test for it.
	ErrValueOutOfRange = errors.New("dyn4go: value out of range")

	// ErrInvalidGeometry is returned when shape construction is given
	// geometry that cannot form a valid convex shape.
	ErrInvalidGeometry = errors.New("dyn4go: invalid geometry")

	// ErrSatNotSupported is returned by shapes whose curved boundary
	// cannot be captured by a finite set of separating axes or focal
	// points, and by the Sat detector when given such a shape.
	ErrSatNotSupported = errors.New("dyn4go: shape does not support separating axis queries")
)

// ValueOutOfRangeError reports a numeric argument that violates its
// documented range.
type ValueOutOfRangeError struct {
	// Argument is the name of the offending parameter.
	Argument string
	// Value is the rejected value.
	Value float64
	// Constraint describes the accepted range.
	Constraint string
}

func (e *ValueOutOfRangeError) Error() string {
	return fmt.Sprintf("dyn4go: %s must be %s, was %v", e.Argument, e.Constraint, e.Value)
}

func (e *ValueOutOfRangeError) Unwrap() error {
	return ErrValueOutOfRange
}

func valueOutOfRange(argument string, value float64, constraint string) error {
	return &ValueOutOfRangeError{Argument: argument, Value: value, Constraint: constraint}
}

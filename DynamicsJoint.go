package dyn4go

import (
	"math"

	"github.com/google/uuid"
)

// SpringMode selects which spring input drives the derived
// coefficients. In frequency mode the stiffness is computed from the
// frequency, in stiffness mode the frequency is computed from the
// stiffness.
type SpringMode int

const (
	SpringModeFrequency SpringMode = iota
	SpringModeStiffness
)

// Default spring tuning shared by the spring capable joints.
const (
	DefaultSpringFrequency    = 8.0
	DefaultSpringDampingRatio = 0.3
	DefaultMaximumSpringForce = 1000.0
)

// Joint is a constraint between one or two bodies solved by the island
// solver alongside contacts.
type Joint interface {
	GetID() uuid.UUID
	GetBodyCount() int
	GetBody(index int) *Body
	// IsCollisionAllowed returns true when the joined bodies may still
	// collide with each other.
	IsCollisionAllowed() bool
	// InitializeConstraints recomputes the effective masses and biases
	// from the current transforms and warm starts the accumulated
	// impulses.
	InitializeConstraints(step *TimeStep, settings *Settings)
	// SolveVelocityConstraints performs one velocity iteration.
	SolveVelocityConstraints(step *TimeStep, settings *Settings)
	// SolvePositionConstraints performs one position iteration and
	// returns true when the positional error is within tolerance.
	SolvePositionConstraints(step *TimeStep, settings *Settings) bool
}

// joint carries the identity and flags shared by all joint kinds.
type joint struct {
	id               uuid.UUID
	collisionAllowed bool
}

func newJoint() joint {
	return joint{id: uuid.New()}
}

// GetID returns the unique id of this joint.
func (j *joint) GetID() uuid.UUID {
	return j.id
}

// IsCollisionAllowed returns true when the joined bodies may still
// collide with each other.
func (j *joint) IsCollisionAllowed() bool {
	return j.collisionAllowed
}

// SetCollisionAllowed controls whether the joined bodies may collide
// with each other.
func (j *joint) SetCollisionAllowed(allowed bool) {
	j.collisionAllowed = allowed
}

// angularFrequency converts a frequency in hertz to radians per
// second.
func angularFrequency(frequency float64) float64 {
	return 2.0 * math.Pi * frequency
}

// angularFrequencyOfSpring derives the angular frequency of a spring
// from its stiffness and the attached mass.
func angularFrequencyOfSpring(stiffness, mass float64) float64 {
	return math.Sqrt(stiffness / mass)
}

// springFrequency converts an angular frequency back to hertz.
func springFrequency(angularFrequency float64) float64 {
	return angularFrequency / (2.0 * math.Pi)
}

// springStiffness derives the stiffness of a spring with the given
// angular frequency attached to the given mass.
func springStiffness(mass, angularFrequency float64) float64 {
	return mass * angularFrequency * angularFrequency
}

// springDampingCoefficient derives the damping coefficient of a spring
// from its damping ratio.
func springDampingCoefficient(mass, angularFrequency, dampingRatio float64) float64 {
	return 2.0 * mass * dampingRatio * angularFrequency
}

// constraintImpulseMixing is the softening factor folded into the
// effective mass of a soft constraint. Zero stiffness and damping
// yield zero, never a division by zero.
func constraintImpulseMixing(dt, stiffness, damping float64) float64 {
	cim := dt * (dt*stiffness + damping)
	if cim <= Epsilon {
		return 0.0
	}
	return 1.0 / cim
}

// errorReductionParameter is the bias factor applied to the positional
// error of a soft constraint.
func errorReductionParameter(dt, stiffness, damping float64) float64 {
	return dt * stiffness * constraintImpulseMixing(dt, stiffness, damping)
}

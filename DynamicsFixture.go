package dyn4go

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Default fixture material values.
const (
	DefaultFixtureDensity     = 1.0
	DefaultFixtureFriction    = 0.2
	DefaultFixtureRestitution = 0.0
)

var fixtureSequence atomic.Uint64

// Fixture attaches a convex shape to a body along with the material
// values the contact solver consumes.
type Fixture struct {
	id uuid.UUID
	// sequence orders fixtures by creation. The random id identifies a
	// fixture but cannot order one, two runs of the same program draw
	// different ids and pair orientation must not follow them.
	sequence    uint64
	shape       Convex
	density     float64
	friction    float64
	restitution float64
	sensor      bool
}

// NewFixture creates a fixture around the given shape with default
// material values.
func NewFixture(shape Convex) (*Fixture, error) {
	if shape == nil {
		return nil, ErrNilArgument
	}
	return &Fixture{
		id:          uuid.New(),
		sequence:    fixtureSequence.Add(1),
		shape:       shape,
		density:     DefaultFixtureDensity,
		friction:    DefaultFixtureFriction,
		restitution: DefaultFixtureRestitution,
	}, nil
}

// GetID returns the unique id of this fixture.
func (f *Fixture) GetID() uuid.UUID {
	return f.id
}

// GetShape returns the shape of this fixture.
func (f *Fixture) GetShape() Convex {
	return f.shape
}

// GetDensity returns the density in kg/m^2.
func (f *Fixture) GetDensity() float64 {
	return f.density
}

// SetDensity sets the density in kg/m^2. The density must be greater
// than zero.
func (f *Fixture) SetDensity(density float64) error {
	if density <= 0.0 {
		return valueOutOfRange("density", density, "must be greater than zero")
	}
	f.density = density
	return nil
}

// GetFriction returns the friction coefficient.
func (f *Fixture) GetFriction() float64 {
	return f.friction
}

// SetFriction sets the friction coefficient. The coefficient must be
// zero or greater.
func (f *Fixture) SetFriction(friction float64) error {
	if friction < 0.0 {
		return valueOutOfRange("friction", friction, "must be zero or greater")
	}
	f.friction = friction
	return nil
}

// GetRestitution returns the restitution coefficient.
func (f *Fixture) GetRestitution() float64 {
	return f.restitution
}

// SetRestitution sets the restitution coefficient. The coefficient
// must be zero or greater.
func (f *Fixture) SetRestitution(restitution float64) error {
	if restitution < 0.0 {
		return valueOutOfRange("restitution", restitution, "must be zero or greater")
	}
	f.restitution = restitution
	return nil
}

// IsSensor returns true when this fixture detects contacts without
// responding to them.
func (f *Fixture) IsSensor() bool {
	return f.sensor
}

// SetSensor flags this fixture as a sensor.
func (f *Fixture) SetSensor(sensor bool) {
	f.sensor = sensor
}

// CreateMass computes the mass of the shape at this fixture's density.
func (f *Fixture) CreateMass() *Mass {
	return f.shape.CreateMass(f.density)
}

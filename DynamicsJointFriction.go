package dyn4go

import "errors"

// Default friction joint limits.
const (
	DefaultFrictionJointMaximumForce  = 10.0
	DefaultFrictionJointMaximumTorque = 0.25
)

// FrictionJoint drives the relative linear and angular velocity of two
// bodies toward zero, bounded by a maximum force and torque. The
// typical use is top down friction at the anchor point.
type FrictionJoint struct {
	joint
	body1 *Body
	body2 *Body

	localAnchor1 Vector2
	localAnchor2 Vector2

	maximumForce  float64
	maximumTorque float64

	k           Matrix22
	angularMass float64

	linearImpulse  Vector2
	angularImpulse float64
}

// NewFrictionJoint creates a friction joint between the two bodies
// anchored at the given world point.
func NewFrictionJoint(body1, body2 *Body, anchor *Vector2) (*FrictionJoint, error) {
	if body1 == nil || body2 == nil || anchor == nil {
		return nil, ErrNilArgument
	}
	if body1 == body2 {
		return nil, errors.New("dyn4go: joint requires two distinct bodies")
	}
	return &FrictionJoint{
		joint:         newJoint(),
		body1:         body1,
		body2:         body2,
		localAnchor1:  *body1.GetLocalPoint(anchor),
		localAnchor2:  *body2.GetLocalPoint(anchor),
		maximumForce:  DefaultFrictionJointMaximumForce,
		maximumTorque: DefaultFrictionJointMaximumTorque,
	}, nil
}

// GetBodyCount returns 2.
func (fj *FrictionJoint) GetBodyCount() int {
	return 2
}

// GetBody returns the body at the given index or nil.
func (fj *FrictionJoint) GetBody(index int) *Body {
	switch index {
	case 0:
		return fj.body1
	case 1:
		return fj.body2
	}
	return nil
}

// GetAnchor1 returns the anchor point on the first body in world
// space.
func (fj *FrictionJoint) GetAnchor1() *Vector2 {
	return fj.body1.GetWorldPoint(&fj.localAnchor1)
}

// GetAnchor2 returns the anchor point on the second body in world
// space.
func (fj *FrictionJoint) GetAnchor2() *Vector2 {
	return fj.body2.GetWorldPoint(&fj.localAnchor2)
}

// GetMaximumForce returns the maximum friction force in newtons.
func (fj *FrictionJoint) GetMaximumForce() float64 {
	return fj.maximumForce
}

// SetMaximumForce sets the maximum friction force. The force must be
// zero or greater.
func (fj *FrictionJoint) SetMaximumForce(force float64) error {
	if force < 0.0 {
		return valueOutOfRange("force", force, "must be zero or greater")
	}
	fj.maximumForce = force
	return nil
}

// GetMaximumTorque returns the maximum friction torque in newton
// meters.
func (fj *FrictionJoint) GetMaximumTorque() float64 {
	return fj.maximumTorque
}

// SetMaximumTorque sets the maximum friction torque. The torque must
// be zero or greater.
func (fj *FrictionJoint) SetMaximumTorque(torque float64) error {
	if torque < 0.0 {
		return valueOutOfRange("torque", torque, "must be zero or greater")
	}
	fj.maximumTorque = torque
	return nil
}

// GetReactionForce returns the force applied at the anchor to enforce
// the constraint over the last step.
func (fj *FrictionJoint) GetReactionForce(invdt float64) *Vector2 {
	return fj.linearImpulse.Product(invdt)
}

// GetReactionTorque returns the torque applied to enforce the
// constraint over the last step.
func (fj *FrictionJoint) GetReactionTorque(invdt float64) float64 {
	return fj.angularImpulse * invdt
}

// InitializeConstraints computes the point mass matrix and the angular
// mass, then warm starts the accumulated impulses.
func (fj *FrictionJoint) InitializeConstraints(step *TimeStep, settings *Settings) {
	m1 := fj.body1.mass
	m2 := fj.body2.mass
	invM1 := m1.GetInverseMass()
	invM2 := m2.GetInverseMass()
	invI1 := m1.GetInverseInertia()
	invI2 := m2.GetInverseInertia()

	r1 := fj.body1.transform.GetTransformedR(fj.localAnchor1.Difference(&m1.Center))
	r2 := fj.body2.transform.GetTransformedR(fj.localAnchor2.Difference(&m2.Center))

	fj.k.M00 = invM1 + invM2 + invI1*r1.Y*r1.Y + invI2*r2.Y*r2.Y
	fj.k.M01 = -invI1*r1.X*r1.Y - invI2*r2.X*r2.Y
	fj.k.M10 = fj.k.M01
	fj.k.M11 = invM1 + invM2 + invI1*r1.X*r1.X + invI2*r2.X*r2.X

	axI := invI1 + invI2
	if axI > Epsilon {
		fj.angularMass = 1.0 / axI
	} else {
		fj.angularMass = 0.0
	}

	if settings.WarmStartingEnabled {
		fj.linearImpulse.Multiply(step.DeltaTimeRatio)
		fj.angularImpulse *= step.DeltaTimeRatio
		// static bodies are shared between concurrently solved islands
		// and are never written
		if invM1 > 0.0 || invI1 > 0.0 {
			fj.body1.velocity.Add(fj.linearImpulse.Product(invM1))
			fj.body1.angularVelocity += invI1 * (r1.Cross(&fj.linearImpulse) + fj.angularImpulse)
		}
		if invM2 > 0.0 || invI2 > 0.0 {
			fj.body2.velocity.Subtract(fj.linearImpulse.Product(invM2))
			fj.body2.angularVelocity -= invI2 * (r2.Cross(&fj.linearImpulse) + fj.angularImpulse)
		}
	} else {
		fj.linearImpulse.Zero()
		fj.angularImpulse = 0.0
	}
}

// SolveVelocityConstraints solves the angular constraint first, then
// the linear constraint, clamping each accumulated impulse to its
// maximum times the step time.
func (fj *FrictionJoint) SolveVelocityConstraints(step *TimeStep, settings *Settings) {
	m1 := fj.body1.mass
	m2 := fj.body2.mass
	invM1 := m1.GetInverseMass()
	invM2 := m2.GetInverseMass()
	invI1 := m1.GetInverseInertia()
	invI2 := m2.GetInverseInertia()

	{
		c := fj.body1.angularVelocity - fj.body2.angularVelocity
		impulse := fj.angularMass * -c
		old := fj.angularImpulse
		max := fj.maximumTorque * step.DeltaTime
		fj.angularImpulse = Clamp(old+impulse, -max, max)
		impulse = fj.angularImpulse - old

		if invM1 > 0.0 || invI1 > 0.0 {
			fj.body1.angularVelocity += invI1 * impulse
		}
		if invM2 > 0.0 || invI2 > 0.0 {
			fj.body2.angularVelocity -= invI2 * impulse
		}
	}

	{
		r1 := fj.body1.transform.GetTransformedR(fj.localAnchor1.Difference(&m1.Center))
		r2 := fj.body2.transform.GetTransformedR(fj.localAnchor2.Difference(&m2.Center))

		rv := fj.body1.velocity.Sum(r1.CrossZ(fj.body1.angularVelocity)).
			Subtract(fj.body2.velocity.Sum(r2.CrossZ(fj.body2.angularVelocity)))

		impulse := fj.k.Solve(rv.Negate())
		old := fj.linearImpulse.Copy()
		fj.linearImpulse.Add(impulse)
		max := fj.maximumForce * step.DeltaTime
		if fj.linearImpulse.GetMagnitudeSquared() > max*max {
			fj.linearImpulse.Normalize()
			fj.linearImpulse.Multiply(max)
		}
		impulse = fj.linearImpulse.Difference(old)

		if invM1 > 0.0 || invI1 > 0.0 {
			fj.body1.velocity.Add(impulse.Product(invM1))
			fj.body1.angularVelocity += invI1 * r1.Cross(impulse)
		}
		if invM2 > 0.0 || invI2 > 0.0 {
			fj.body2.velocity.Subtract(impulse.Product(invM2))
			fj.body2.angularVelocity -= invI2 * r2.Cross(impulse)
		}
	}
}

// SolvePositionConstraints is a no-op, friction has no positional
// target.
func (fj *FrictionJoint) SolvePositionConstraints(step *TimeStep, settings *Settings) bool {
	return true
}

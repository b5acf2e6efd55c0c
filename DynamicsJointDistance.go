package dyn4go

import (
	"errors"
	"math"
)

// DistanceJoint keeps the distance between two anchor points at a rest
// distance. By default the joint is a rigid rod; enabling the spring
// softens it with the frequency/damping formulation, and the optional
// lower and upper limits act as hard stops around the spring.
type DistanceJoint struct {
	joint
	body1 *Body
	body2 *Body

	localAnchor1 Vector2
	localAnchor2 Vector2

	restDistance float64

	springMode                SpringMode
	springEnabled             bool
	springDamperEnabled       bool
	springFrequency           float64
	springStiffness           float64
	springDampingRatio        float64
	springMaximumForceEnabled bool
	springMaximumForce        float64

	lowerLimitEnabled bool
	lowerLimit        float64
	upperLimitEnabled bool
	upperLimit        float64

	// per step state
	r1              Vector2
	r2              Vector2
	n               Vector2
	currentDistance float64
	mass            float64
	softMass        float64
	gamma           float64
	bias            float64
	damping         float64

	impulse      float64
	lowerImpulse float64
	upperImpulse float64
}

// NewDistanceJoint joins the two bodies at the given world anchor
// points. The rest distance and both limits start at the current
// anchor distance, the spring and limits start disabled.
func NewDistanceJoint(body1, body2 *Body, anchor1, anchor2 *Vector2) (*DistanceJoint, error) {
	if body1 == nil || body2 == nil || anchor1 == nil || anchor2 == nil {
		return nil, ErrNilArgument
	}
	if body1 == body2 {
		return nil, errors.New("dyn4go: joint requires two distinct bodies")
	}
	distance := anchor1.Distance(anchor2)
	return &DistanceJoint{
		joint:              newJoint(),
		body1:              body1,
		body2:              body2,
		localAnchor1:       *body1.GetLocalPoint(anchor1),
		localAnchor2:       *body2.GetLocalPoint(anchor2),
		restDistance:       distance,
		springMode:         SpringModeFrequency,
		springFrequency:    DefaultSpringFrequency,
		springDampingRatio: DefaultSpringDampingRatio,
		springMaximumForce: DefaultMaximumSpringForce,
		lowerLimit:         distance,
		upperLimit:         distance,
	}, nil
}

// GetBodyCount returns 2.
func (dj *DistanceJoint) GetBodyCount() int {
	return 2
}

// GetBody returns the body at the given index or nil.
func (dj *DistanceJoint) GetBody(index int) *Body {
	switch index {
	case 0:
		return dj.body1
	case 1:
		return dj.body2
	}
	return nil
}

// GetAnchor1 returns the anchor point on the first body in world
// space.
func (dj *DistanceJoint) GetAnchor1() *Vector2 {
	return dj.body1.GetWorldPoint(&dj.localAnchor1)
}

// GetAnchor2 returns the anchor point on the second body in world
// space.
func (dj *DistanceJoint) GetAnchor2() *Vector2 {
	return dj.body2.GetWorldPoint(&dj.localAnchor2)
}

// GetRestDistance returns the rest distance.
func (dj *DistanceJoint) GetRestDistance() float64 {
	return dj.restDistance
}

// SetRestDistance sets the rest distance. The distance must be zero or
// greater.
func (dj *DistanceJoint) SetRestDistance(distance float64) error {
	if distance < 0.0 {
		return valueOutOfRange("distance", distance, "must be zero or greater")
	}
	if dj.restDistance != distance {
		dj.restDistance = distance
		dj.body1.SetAtRest(false)
		dj.body2.SetAtRest(false)
	}
	return nil
}

// IsSpringEnabled returns true when the spring is enabled.
func (dj *DistanceJoint) IsSpringEnabled() bool {
	return dj.springEnabled
}

// SetSpringEnabled toggles the spring. Disabled, the joint is a rigid
// rod.
func (dj *DistanceJoint) SetSpringEnabled(enabled bool) {
	if dj.springEnabled != enabled {
		dj.springEnabled = enabled
		dj.body1.SetAtRest(false)
		dj.body2.SetAtRest(false)
	}
}

// IsSpringDamperEnabled returns true when the spring damper is
// enabled.
func (dj *DistanceJoint) IsSpringDamperEnabled() bool {
	return dj.springDamperEnabled
}

// SetSpringDamperEnabled toggles the spring damper.
func (dj *DistanceJoint) SetSpringDamperEnabled(enabled bool) {
	if dj.springDamperEnabled != enabled {
		dj.springDamperEnabled = enabled
		dj.body1.SetAtRest(false)
		dj.body2.SetAtRest(false)
	}
}

// GetSpringMode returns which input drives the spring coefficients.
func (dj *DistanceJoint) GetSpringMode() SpringMode {
	return dj.springMode
}

// GetSpringFrequency returns the spring frequency in hertz.
func (dj *DistanceJoint) GetSpringFrequency() float64 {
	return dj.springFrequency
}

// SetSpringFrequency sets the spring frequency and switches the joint
// to frequency mode. The frequency must be greater than zero.
func (dj *DistanceJoint) SetSpringFrequency(frequency float64) error {
	if frequency <= 0.0 {
		return valueOutOfRange("frequency", frequency, "must be greater than zero")
	}
	dj.springMode = SpringModeFrequency
	if dj.springFrequency != frequency {
		dj.springFrequency = frequency
		if dj.springEnabled {
			dj.body1.SetAtRest(false)
			dj.body2.SetAtRest(false)
		}
	}
	return nil
}

// GetSpringStiffness returns the spring stiffness in newtons per
// meter.
func (dj *DistanceJoint) GetSpringStiffness() float64 {
	return dj.springStiffness
}

// SetSpringStiffness sets the spring stiffness and switches the joint
// to stiffness mode. The stiffness must be greater than zero.
func (dj *DistanceJoint) SetSpringStiffness(stiffness float64) error {
	if stiffness <= 0.0 {
		return valueOutOfRange("stiffness", stiffness, "must be greater than zero")
	}
	dj.springMode = SpringModeStiffness
	if dj.springStiffness != stiffness {
		dj.springStiffness = stiffness
		if dj.springEnabled {
			dj.body1.SetAtRest(false)
			dj.body2.SetAtRest(false)
		}
	}
	return nil
}

// GetSpringDampingRatio returns the damping ratio.
func (dj *DistanceJoint) GetSpringDampingRatio() float64 {
	return dj.springDampingRatio
}

// SetSpringDampingRatio sets the damping ratio. The ratio must be in
// (0, 1].
func (dj *DistanceJoint) SetSpringDampingRatio(dampingRatio float64) error {
	if dampingRatio <= 0.0 || dampingRatio > 1.0 {
		return valueOutOfRange("dampingRatio", dampingRatio, "must be in (0, 1]")
	}
	if dj.springDampingRatio != dampingRatio {
		dj.springDampingRatio = dampingRatio
		if dj.springEnabled && dj.springDamperEnabled {
			dj.body1.SetAtRest(false)
			dj.body2.SetAtRest(false)
		}
	}
	return nil
}

// IsMaximumSpringForceEnabled returns true when the spring force is
// clamped.
func (dj *DistanceJoint) IsMaximumSpringForceEnabled() bool {
	return dj.springMaximumForceEnabled
}

// SetMaximumSpringForceEnabled toggles clamping of the spring force.
func (dj *DistanceJoint) SetMaximumSpringForceEnabled(enabled bool) {
	dj.springMaximumForceEnabled = enabled
}

// GetMaximumSpringForce returns the maximum spring force in newtons.
func (dj *DistanceJoint) GetMaximumSpringForce() float64 {
	return dj.springMaximumForce
}

// SetMaximumSpringForce sets the maximum spring force. The force must
// be zero or greater.
func (dj *DistanceJoint) SetMaximumSpringForce(force float64) error {
	if force < 0.0 {
		return valueOutOfRange("force", force, "must be zero or greater")
	}
	dj.springMaximumForce = force
	return nil
}

// IsLowerLimitEnabled returns true when the lower limit is enabled.
func (dj *DistanceJoint) IsLowerLimitEnabled() bool {
	return dj.lowerLimitEnabled
}

// SetLowerLimitEnabled toggles the lower limit.
func (dj *DistanceJoint) SetLowerLimitEnabled(enabled bool) {
	if dj.lowerLimitEnabled != enabled {
		dj.lowerLimitEnabled = enabled
		dj.body1.SetAtRest(false)
		dj.body2.SetAtRest(false)
	}
}

// GetLowerLimit returns the lower distance limit.
func (dj *DistanceJoint) GetLowerLimit() float64 {
	return dj.lowerLimit
}

// SetLowerLimit sets the lower distance limit. The limit must be zero
// or greater and no greater than the upper limit.
func (dj *DistanceJoint) SetLowerLimit(limit float64) error {
	if limit < 0.0 {
		return valueOutOfRange("limit", limit, "must be zero or greater")
	}
	if limit > dj.upperLimit {
		return valueOutOfRange("limit", limit, "must be less than or equal to the upper limit")
	}
	if dj.lowerLimit != limit {
		dj.lowerLimit = limit
		if dj.lowerLimitEnabled {
			dj.body1.SetAtRest(false)
			dj.body2.SetAtRest(false)
		}
	}
	return nil
}

// IsUpperLimitEnabled returns true when the upper limit is enabled.
func (dj *DistanceJoint) IsUpperLimitEnabled() bool {
	return dj.upperLimitEnabled
}

// SetUpperLimitEnabled toggles the upper limit.
func (dj *DistanceJoint) SetUpperLimitEnabled(enabled bool) {
	if dj.upperLimitEnabled != enabled {
		dj.upperLimitEnabled = enabled
		dj.body1.SetAtRest(false)
		dj.body2.SetAtRest(false)
	}
}

// GetUpperLimit returns the upper distance limit.
func (dj *DistanceJoint) GetUpperLimit() float64 {
	return dj.upperLimit
}

// SetUpperLimit sets the upper distance limit. The limit must be no
// less than the lower limit.
func (dj *DistanceJoint) SetUpperLimit(limit float64) error {
	if limit < dj.lowerLimit {
		return valueOutOfRange("limit", limit, "must be greater than or equal to the lower limit")
	}
	if dj.upperLimit != limit {
		dj.upperLimit = limit
		if dj.upperLimitEnabled {
			dj.body1.SetAtRest(false)
			dj.body2.SetAtRest(false)
		}
	}
	return nil
}

// GetReactionForce returns the force applied along the joint axis over
// the last step.
func (dj *DistanceJoint) GetReactionForce(invdt float64) *Vector2 {
	return dj.n.Product((dj.impulse + dj.lowerImpulse - dj.upperImpulse) * invdt)
}

// GetReactionTorque returns zero, the distance joint applies no
// torque.
func (dj *DistanceJoint) GetReactionTorque(invdt float64) float64 {
	return 0.0
}

// reducedMass is the equivalent single mass of the two bodies for the
// spring coefficient derivation.
func (dj *DistanceJoint) reducedMass() float64 {
	m1 := dj.body1.mass.Mass
	m2 := dj.body2.mass.Mass
	if m1 > 0.0 && m2 > 0.0 {
		return m1 * m2 / (m1 + m2)
	}
	if m1 > 0.0 {
		return m1
	}
	return m2
}

func (dj *DistanceJoint) updateSpringCoefficients() {
	m := dj.reducedMass()
	nf := 0.0
	switch dj.springMode {
	case SpringModeFrequency:
		nf = angularFrequency(dj.springFrequency)
		dj.springStiffness = springStiffness(m, nf)
	case SpringModeStiffness:
		nf = angularFrequencyOfSpring(dj.springStiffness, m)
		dj.springFrequency = springFrequency(nf)
	}
	if dj.springDamperEnabled {
		dj.damping = springDampingCoefficient(m, nf, dj.springDampingRatio)
	} else {
		dj.damping = 0.0
	}
}

// InitializeConstraints computes the joint axis from the current
// anchors, the effective masses along it, and warm starts the
// accumulated axial impulses.
func (dj *DistanceJoint) InitializeConstraints(step *TimeStep, settings *Settings) {
	m1 := dj.body1.mass
	m2 := dj.body2.mass
	invM1 := m1.GetInverseMass()
	invM2 := m2.GetInverseMass()
	invI1 := m1.GetInverseInertia()
	invI2 := m2.GetInverseInertia()

	dj.r1 = *dj.body1.transform.GetTransformedR(dj.localAnchor1.Difference(&m1.Center))
	dj.r2 = *dj.body2.transform.GetTransformedR(dj.localAnchor2.Difference(&m2.Center))

	dj.n = *dj.r1.Sum(dj.body1.GetWorldCenter()).Subtract(dj.r2.Sum(dj.body2.GetWorldCenter()))
	dj.currentDistance = dj.n.GetMagnitude()
	if dj.currentDistance < settings.LinearTolerance {
		// anchors on top of each other leave no usable axis
		dj.n.Zero()
	} else {
		dj.n.Multiply(1.0 / dj.currentDistance)
	}

	crossN1 := dj.r1.Cross(&dj.n)
	crossN2 := dj.r2.Cross(&dj.n)
	invMass := invM1 + invI1*crossN1*crossN1 + invM2 + invI2*crossN2*crossN2
	if invMass <= Epsilon {
		dj.mass = 0.0
	} else {
		dj.mass = 1.0 / invMass
	}

	if dj.springEnabled {
		dj.updateSpringCoefficients()
		dt := step.DeltaTime
		dj.gamma = constraintImpulseMixing(dt, dj.springStiffness, dj.damping)
		erp := errorReductionParameter(dt, dj.springStiffness, dj.damping)
		dj.bias = (dj.currentDistance - dj.restDistance) * erp
		soft := invMass + dj.gamma
		if soft <= Epsilon {
			dj.softMass = 0.0
		} else {
			dj.softMass = 1.0 / soft
		}
	} else {
		dj.gamma = 0.0
		dj.bias = 0.0
		dj.softMass = dj.mass
	}

	if settings.WarmStartingEnabled {
		dj.impulse *= step.DeltaTimeRatio
		dj.lowerImpulse *= step.DeltaTimeRatio
		dj.upperImpulse *= step.DeltaTimeRatio
		j := dj.n.Product(dj.impulse + dj.lowerImpulse - dj.upperImpulse)
		// static bodies are shared between concurrently solved islands
		// and are never written
		if invM1 > 0.0 || invI1 > 0.0 {
			dj.body1.velocity.Add(j.Product(invM1))
			dj.body1.angularVelocity += invI1 * dj.r1.Cross(j)
		}
		if invM2 > 0.0 || invI2 > 0.0 {
			dj.body2.velocity.Subtract(j.Product(invM2))
			dj.body2.angularVelocity -= invI2 * dj.r2.Cross(j)
		}
	} else {
		dj.impulse = 0.0
		dj.lowerImpulse = 0.0
		dj.upperImpulse = 0.0
	}
}

// relativeAxialVelocity is the rate of change of the anchor distance.
func (dj *DistanceJoint) relativeAxialVelocity() float64 {
	va1 := dj.body1.velocity.Sum(dj.r1.CrossZ(dj.body1.angularVelocity))
	va2 := dj.body2.velocity.Sum(dj.r2.CrossZ(dj.body2.angularVelocity))
	return dj.n.Dot(va1.Subtract(va2))
}

// applyAxialImpulse applies the axial impulse to both bodies, positive
// along the axis from the second anchor toward the first.
func (dj *DistanceJoint) applyAxialImpulse(impulse float64) {
	invM1 := dj.body1.mass.GetInverseMass()
	invM2 := dj.body2.mass.GetInverseMass()
	invI1 := dj.body1.mass.GetInverseInertia()
	invI2 := dj.body2.mass.GetInverseInertia()
	j := dj.n.Product(impulse)
	if invM1 > 0.0 || invI1 > 0.0 {
		dj.body1.velocity.Add(j.Product(invM1))
		dj.body1.angularVelocity += invI1 * dj.r1.Cross(j)
	}
	if invM2 > 0.0 || invI2 > 0.0 {
		dj.body2.velocity.Subtract(j.Product(invM2))
		dj.body2.angularVelocity -= invI2 * dj.r2.Cross(j)
	}
}

// SolveVelocityConstraints solves the axial constraint. With the
// spring enabled the soft equation drives the distance toward rest and
// the enabled limits act as one sided hard stops; otherwise the rigid
// constraint removes all axial velocity.
func (dj *DistanceJoint) SolveVelocityConstraints(step *TimeStep, settings *Settings) {
	if dj.springEnabled {
		{
			jv := dj.relativeAxialVelocity()
			impulse := -dj.softMass * (jv + dj.bias + dj.gamma*dj.impulse)
			if dj.springMaximumForceEnabled {
				max := dj.springMaximumForce * step.DeltaTime
				old := dj.impulse
				dj.impulse = Clamp(old+impulse, -max, max)
				impulse = dj.impulse - old
			} else {
				dj.impulse += impulse
			}
			dj.applyAxialImpulse(impulse)
		}
		if dj.lowerLimitEnabled {
			c := dj.currentDistance - dj.lowerLimit
			jv := dj.relativeAxialVelocity()
			impulse := -dj.mass * (jv + math.Max(c, 0.0)*step.InverseDeltaTime)
			old := dj.lowerImpulse
			dj.lowerImpulse = math.Max(0.0, old+impulse)
			impulse = dj.lowerImpulse - old
			dj.applyAxialImpulse(impulse)
		}
		if dj.upperLimitEnabled {
			c := dj.upperLimit - dj.currentDistance
			jv := -dj.relativeAxialVelocity()
			impulse := -dj.mass * (jv + math.Max(c, 0.0)*step.InverseDeltaTime)
			old := dj.upperImpulse
			dj.upperImpulse = math.Max(0.0, old+impulse)
			impulse = dj.upperImpulse - old
			dj.applyAxialImpulse(-impulse)
		}
	} else {
		jv := dj.relativeAxialVelocity()
		impulse := -dj.mass * jv
		dj.impulse += impulse
		dj.applyAxialImpulse(impulse)
	}
}

// SolvePositionConstraints removes the residual distance error of the
// rigid rod, or of a violated limit when the spring is enabled.
func (dj *DistanceJoint) SolvePositionConstraints(step *TimeStep, settings *Settings) bool {
	if dj.springEnabled && !dj.lowerLimitEnabled && !dj.upperLimitEnabled {
		return true
	}

	m1 := dj.body1.mass
	m2 := dj.body2.mass
	invM1 := m1.GetInverseMass()
	invM2 := m2.GetInverseMass()
	invI1 := m1.GetInverseInertia()
	invI2 := m2.GetInverseInertia()

	r1 := dj.body1.transform.GetTransformedR(dj.localAnchor1.Difference(&m1.Center))
	r2 := dj.body2.transform.GetTransformedR(dj.localAnchor2.Difference(&m2.Center))
	n := r1.Sum(dj.body1.GetWorldCenter()).Subtract(r2.Sum(dj.body2.GetWorldCenter()))
	l := n.Normalize()

	c := 0.0
	if !dj.springEnabled {
		c = l - dj.restDistance
	} else if dj.lowerLimitEnabled && l < dj.lowerLimit {
		c = l - dj.lowerLimit
	} else if dj.upperLimitEnabled && l > dj.upperLimit {
		c = l - dj.upperLimit
	}
	if c == 0.0 {
		return true
	}
	c = Clamp(c, -settings.MaximumLinearCorrection, settings.MaximumLinearCorrection)
	impulse := -dj.mass * c
	j := n.Product(impulse)

	if invM1 > 0.0 || invI1 > 0.0 {
		dj.body1.Translate(j.X*invM1, j.Y*invM1)
		dj.body1.RotateAboutCenter(invI1 * r1.Cross(j))
	}
	if invM2 > 0.0 || invI2 > 0.0 {
		dj.body2.Translate(-j.X*invM2, -j.Y*invM2)
		dj.body2.RotateAboutCenter(-invI2 * r2.Cross(j))
	}

	return math.Abs(c) < settings.LinearTolerance
}

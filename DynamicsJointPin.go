package dyn4go

// Default pin joint tuning values.
const (
	DefaultPinJointCorrectionFactor       = 0.3
	DefaultPinJointCorrectionMaximumForce = 1000.0
)

// PinJoint pins a single body to a world space target point. With the
// spring enabled the pin behaves as a damped spring between the anchor
// and the target; with it disabled the pin acts as a motor driving the
// anchor onto the target, correcting a fraction of the positional
// error each step. Dragging bodies with a mouse is the typical use.
type PinJoint struct {
	joint
	body *Body

	localAnchor Vector2
	target      Vector2

	springMode                SpringMode
	springEnabled             bool
	springDamperEnabled       bool
	springFrequency           float64
	springStiffness           float64
	springDampingRatio        float64
	springMaximumForceEnabled bool
	springMaximumForce        float64

	correctionFactor       float64
	correctionMaximumForce float64

	// per step state
	r           Vector2
	k           Matrix22
	gamma       float64
	bias        Vector2
	linearError Vector2
	damping     float64

	impulse Vector2
}

// NewPinJoint pins the given body at the given world point. The
// target starts at the anchor so the joint is initially satisfied.
func NewPinJoint(body *Body, anchor *Vector2) (*PinJoint, error) {
	if body == nil || anchor == nil {
		return nil, ErrNilArgument
	}
	return &PinJoint{
		joint:                     newJoint(),
		body:                      body,
		localAnchor:               *body.GetLocalPoint(anchor),
		target:                    *anchor,
		springMode:                SpringModeFrequency,
		springEnabled:             true,
		springDamperEnabled:       true,
		springFrequency:           DefaultSpringFrequency,
		springDampingRatio:        DefaultSpringDampingRatio,
		springMaximumForceEnabled: true,
		springMaximumForce:        DefaultMaximumSpringForce,
		correctionFactor:          DefaultPinJointCorrectionFactor,
		correctionMaximumForce:    DefaultPinJointCorrectionMaximumForce,
	}, nil
}

// GetBodyCount returns 1.
func (pj *PinJoint) GetBodyCount() int {
	return 1
}

// GetBody returns the pinned body for index 0 and nil otherwise.
func (pj *PinJoint) GetBody(index int) *Body {
	if index == 0 {
		return pj.body
	}
	return nil
}

// GetAnchor returns the anchor point on the body in world space.
func (pj *PinJoint) GetAnchor() *Vector2 {
	return pj.body.GetWorldPoint(&pj.localAnchor)
}

// GetTarget returns a copy of the world space target point.
func (pj *PinJoint) GetTarget() *Vector2 {
	return pj.target.Copy()
}

// SetTarget moves the world space target point, waking the body only
// when the target actually changes.
func (pj *PinJoint) SetTarget(target *Vector2) error {
	if target == nil {
		return ErrNilArgument
	}
	if pj.target.X != target.X || pj.target.Y != target.Y {
		pj.target.SetVector2(target)
		pj.body.SetAtRest(false)
	}
	return nil
}

// IsSpringEnabled returns true when the spring is enabled.
func (pj *PinJoint) IsSpringEnabled() bool {
	return pj.springEnabled
}

// SetSpringEnabled toggles the spring. Disabled, the joint runs in
// motor mode.
func (pj *PinJoint) SetSpringEnabled(enabled bool) {
	if pj.springEnabled != enabled {
		pj.springEnabled = enabled
		pj.body.SetAtRest(false)
	}
}

// IsSpringDamperEnabled returns true when the spring damper is
// enabled.
func (pj *PinJoint) IsSpringDamperEnabled() bool {
	return pj.springDamperEnabled
}

// SetSpringDamperEnabled toggles the spring damper.
func (pj *PinJoint) SetSpringDamperEnabled(enabled bool) {
	if pj.springDamperEnabled != enabled {
		pj.springDamperEnabled = enabled
		pj.body.SetAtRest(false)
	}
}

// GetSpringMode returns which input drives the spring coefficients.
func (pj *PinJoint) GetSpringMode() SpringMode {
	return pj.springMode
}

// GetSpringFrequency returns the spring frequency in hertz.
func (pj *PinJoint) GetSpringFrequency() float64 {
	return pj.springFrequency
}

// SetSpringFrequency sets the spring frequency and switches the joint
// to frequency mode. The frequency must be greater than zero.
func (pj *PinJoint) SetSpringFrequency(frequency float64) error {
	if frequency <= 0.0 {
		return valueOutOfRange("frequency", frequency, "must be greater than zero")
	}
	pj.springMode = SpringModeFrequency
	if pj.springFrequency != frequency {
		pj.springFrequency = frequency
		if pj.springEnabled {
			pj.body.SetAtRest(false)
		}
	}
	return nil
}

// GetSpringStiffness returns the spring stiffness in newtons per
// meter.
func (pj *PinJoint) GetSpringStiffness() float64 {
	return pj.springStiffness
}

// SetSpringStiffness sets the spring stiffness and switches the joint
// to stiffness mode. The stiffness must be greater than zero.
func (pj *PinJoint) SetSpringStiffness(stiffness float64) error {
	if stiffness <= 0.0 {
		return valueOutOfRange("stiffness", stiffness, "must be greater than zero")
	}
	pj.springMode = SpringModeStiffness
	if pj.springStiffness != stiffness {
		pj.springStiffness = stiffness
		if pj.springEnabled {
			pj.body.SetAtRest(false)
		}
	}
	return nil
}

// GetSpringDampingRatio returns the damping ratio.
func (pj *PinJoint) GetSpringDampingRatio() float64 {
	return pj.springDampingRatio
}

// SetSpringDampingRatio sets the damping ratio. The ratio must be in
// (0, 1].
func (pj *PinJoint) SetSpringDampingRatio(dampingRatio float64) error {
	if dampingRatio <= 0.0 || dampingRatio > 1.0 {
		return valueOutOfRange("dampingRatio", dampingRatio, "must be in (0, 1]")
	}
	if pj.springDampingRatio != dampingRatio {
		pj.springDampingRatio = dampingRatio
		if pj.springEnabled && pj.springDamperEnabled {
			pj.body.SetAtRest(false)
		}
	}
	return nil
}

// IsMaximumSpringForceEnabled returns true when the spring force is
// clamped.
func (pj *PinJoint) IsMaximumSpringForceEnabled() bool {
	return pj.springMaximumForceEnabled
}

// SetMaximumSpringForceEnabled toggles clamping of the spring force.
func (pj *PinJoint) SetMaximumSpringForceEnabled(enabled bool) {
	pj.springMaximumForceEnabled = enabled
}

// GetMaximumSpringForce returns the maximum spring force in newtons.
func (pj *PinJoint) GetMaximumSpringForce() float64 {
	return pj.springMaximumForce
}

// SetMaximumSpringForce sets the maximum spring force. The force must
// be zero or greater.
func (pj *PinJoint) SetMaximumSpringForce(force float64) error {
	if force < 0.0 {
		return valueOutOfRange("force", force, "must be zero or greater")
	}
	pj.springMaximumForce = force
	return nil
}

// GetCorrectionFactor returns the fraction of positional error
// corrected per step in motor mode.
func (pj *PinJoint) GetCorrectionFactor() float64 {
	return pj.correctionFactor
}

// SetCorrectionFactor sets the fraction of positional error corrected
// per step in motor mode. The factor must be in [0, 1].
func (pj *PinJoint) SetCorrectionFactor(factor float64) error {
	if factor < 0.0 || factor > 1.0 {
		return valueOutOfRange("factor", factor, "must be in [0, 1]")
	}
	pj.correctionFactor = factor
	return nil
}

// GetCorrectionMaximumForce returns the maximum correction force in
// motor mode.
func (pj *PinJoint) GetCorrectionMaximumForce() float64 {
	return pj.correctionMaximumForce
}

// SetCorrectionMaximumForce sets the maximum correction force in motor
// mode. The force must be zero or greater.
func (pj *PinJoint) SetCorrectionMaximumForce(force float64) error {
	if force < 0.0 {
		return valueOutOfRange("force", force, "must be zero or greater")
	}
	pj.correctionMaximumForce = force
	return nil
}

// GetReactionForce returns the force applied to the body over the last
// step.
func (pj *PinJoint) GetReactionForce(invdt float64) *Vector2 {
	return pj.impulse.Product(invdt)
}

// GetReactionTorque returns zero, the pin applies no torque.
func (pj *PinJoint) GetReactionTorque(invdt float64) float64 {
	return 0.0
}

// updateSpringCoefficients derives the stiffness or frequency from the
// other per the spring mode, against the body's mass. A near zero mass
// falls back to the inertia so rotation-only bodies still spring.
func (pj *PinJoint) updateSpringCoefficients() {
	mass := pj.body.mass
	m := mass.Mass
	if m <= Epsilon {
		m = mass.Inertia
	}
	nf := 0.0
	switch pj.springMode {
	case SpringModeFrequency:
		nf = angularFrequency(pj.springFrequency)
		pj.springStiffness = springStiffness(m, nf)
	case SpringModeStiffness:
		nf = angularFrequencyOfSpring(pj.springStiffness, m)
		pj.springFrequency = springFrequency(nf)
	}
	if pj.springDamperEnabled {
		pj.damping = springDampingCoefficient(m, nf, pj.springDampingRatio)
	} else {
		pj.damping = 0.0
	}
}

// InitializeConstraints computes the effective mass at the anchor, the
// soft constraint terms when the spring is enabled, and warm starts
// the accumulated impulse.
func (pj *PinJoint) InitializeConstraints(step *TimeStep, settings *Settings) {
	// a pinned static body cannot move, there is nothing to solve
	if pj.body.IsStatic() {
		return
	}
	mass := pj.body.mass
	invM := mass.GetInverseMass()
	invI := mass.GetInverseInertia()

	if pj.springEnabled {
		pj.updateSpringCoefficients()
	}

	pj.r = *pj.body.transform.GetTransformedR(pj.localAnchor.Difference(&mass.Center))

	pj.k.M00 = invM + invI*pj.r.Y*pj.r.Y
	pj.k.M01 = -invI * pj.r.X * pj.r.Y
	pj.k.M10 = pj.k.M01
	pj.k.M11 = invM + invI*pj.r.X*pj.r.X

	anchor := pj.body.GetWorldCenter().Add(&pj.r)
	if pj.springEnabled {
		dt := step.DeltaTime
		pj.gamma = constraintImpulseMixing(dt, pj.springStiffness, pj.damping)
		erp := errorReductionParameter(dt, pj.springStiffness, pj.damping)
		pj.bias = *anchor.Subtract(&pj.target).Multiply(erp)
		pj.k.M00 += pj.gamma
		pj.k.M11 += pj.gamma
	} else {
		pj.gamma = 0.0
		pj.bias.Zero()
		pj.linearError = *pj.target.Difference(anchor)
	}

	if settings.WarmStartingEnabled {
		pj.impulse.Multiply(step.DeltaTimeRatio)
		pj.body.velocity.Add(pj.impulse.Product(invM))
		pj.body.angularVelocity += invI * pj.r.Cross(&pj.impulse)
	} else {
		pj.impulse.Zero()
	}
}

// SolveVelocityConstraints drives the anchor toward the target, either
// through the soft spring equation or the motor style error
// correction, clamping the accumulated impulse to the active maximum
// force times the step time.
func (pj *PinJoint) SolveVelocityConstraints(step *TimeStep, settings *Settings) {
	if pj.body.IsStatic() {
		return
	}
	mass := pj.body.mass
	invM := mass.GetInverseMass()
	invI := mass.GetInverseInertia()

	rv := pj.body.velocity.Sum(pj.r.CrossZ(pj.body.angularVelocity))

	if pj.springEnabled {
		jvb := rv.Add(&pj.bias).Add(pj.impulse.Product(pj.gamma)).Negate()
		impulse := pj.k.Solve(jvb)

		old := pj.impulse.Copy()
		pj.impulse.Add(impulse)
		if pj.springMaximumForceEnabled {
			max := pj.springMaximumForce * step.DeltaTime
			if pj.impulse.GetMagnitudeSquared() > max*max {
				pj.impulse.Normalize()
				pj.impulse.Multiply(max)
			}
		}
		impulse = pj.impulse.Difference(old)

		pj.body.velocity.Add(impulse.Product(invM))
		pj.body.angularVelocity += invI * pj.r.Cross(impulse)
	} else {
		pivotV := pj.linearError.Product(pj.correctionFactor * step.InverseDeltaTime)
		jvb := rv.Negate().Add(pivotV)
		impulse := pj.k.Solve(jvb)

		old := pj.impulse.Copy()
		pj.impulse.Add(impulse)
		max := pj.correctionMaximumForce * step.DeltaTime
		if pj.impulse.GetMagnitudeSquared() > max*max {
			pj.impulse.Normalize()
			pj.impulse.Multiply(max)
		}
		impulse = pj.impulse.Difference(old)

		pj.body.velocity.Add(impulse.Product(invM))
		pj.body.angularVelocity += invI * pj.r.Cross(impulse)
	}
}

// SolvePositionConstraints is a no-op, the bias terms handle the
// positional error.
func (pj *PinJoint) SolvePositionConstraints(step *TimeStep, settings *Settings) bool {
	return true
}

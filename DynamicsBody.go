package dyn4go

import (
	"math"

	"github.com/google/uuid"
)

// Default body damping values.
const (
	DefaultLinearDamping  = 0.0
	DefaultAngularDamping = 0.01
)

// Body is a rigid body: a set of fixtures sharing one transform, mass
// and velocity state. The solvers read and write the velocity state
// directly; user code goes through the accessors.
type Body struct {
	id        uuid.UUID
	fixtures  []*Fixture
	transform Transform
	mass      *Mass

	velocity        Vector2
	angularVelocity float64

	force  Vector2
	torque float64

	linearDamping  float64
	angularDamping float64
	gravityScale   float64

	atRest                 bool
	atRestDetectionEnabled bool
	atRestTime             float64
}

// NewBody creates an empty body with infinite mass at the origin. Add
// fixtures and call SetMass to make it dynamic.
func NewBody() *Body {
	return &Body{
		id:                     uuid.New(),
		fixtures:               make([]*Fixture, 0, 1),
		transform:              *NewTransform(),
		mass:                   NewInfiniteMass(nil),
		linearDamping:          DefaultLinearDamping,
		angularDamping:         DefaultAngularDamping,
		gravityScale:           1.0,
		atRestDetectionEnabled: true,
	}
}

// GetID returns the unique id of this body.
func (b *Body) GetID() uuid.UUID {
	return b.id
}

// AddFixture attaches the given fixture. The mass is not recomputed,
// call SetMass after all fixtures are added.
func (b *Body) AddFixture(fixture *Fixture) error {
	if fixture == nil {
		return ErrNilArgument
	}
	b.fixtures = append(b.fixtures, fixture)
	return nil
}

// RemoveFixture detaches the given fixture and returns true when it
// was attached.
func (b *Body) RemoveFixture(fixture *Fixture) bool {
	for i, f := range b.fixtures {
		if f == fixture {
			b.fixtures = append(b.fixtures[:i], b.fixtures[i+1:]...)
			return true
		}
	}
	return false
}

// GetFixtures returns the attached fixtures. The slice is live, do not
// modify it.
func (b *Body) GetFixtures() []*Fixture {
	return b.fixtures
}

// GetFixtureCount returns the number of attached fixtures.
func (b *Body) GetFixtureCount() int {
	return len(b.fixtures)
}

// SetMass computes the mass from the attached fixtures, combines it
// about the common center, and applies the given mass type.
func (b *Body) SetMass(massType MassType) {
	// a fixtureless body has nothing to respond with, so the requested
	// type never applies
	if len(b.fixtures) == 0 {
		b.mass = NewInfiniteMass(nil)
		return
	}
	masses := make([]*Mass, 0, len(b.fixtures))
	for _, f := range b.fixtures {
		masses = append(masses, f.CreateMass())
	}
	b.mass = CombineMasses(masses)
	b.mass.Type = massType
}

// GetMass returns the mass of this body.
func (b *Body) GetMass() *Mass {
	return b.mass
}

// IsStatic returns true when this body has infinite mass.
func (b *Body) IsStatic() bool {
	return b.mass.Type == MassTypeInfinite
}

// IsDynamic returns true when this body responds to forces.
func (b *Body) IsDynamic() bool {
	return b.mass.Type != MassTypeInfinite
}

// GetTransform returns the live transform of this body.
func (b *Body) GetTransform() *Transform {
	return &b.transform
}

// Translate moves the body in world space.
func (b *Body) Translate(x, y float64) {
	b.transform.Translate(x, y)
}

// Rotate rotates the body about the world origin.
func (b *Body) Rotate(theta float64) {
	b.transform.Rotate(theta)
}

// RotateAboutCenter rotates the body about its world center of mass.
func (b *Body) RotateAboutCenter(theta float64) {
	wc := b.GetWorldCenter()
	b.transform.RotateAbout(theta, wc.X, wc.Y)
}

// GetWorldCenter returns the center of mass in world space.
func (b *Body) GetWorldCenter() *Vector2 {
	return b.transform.GetTransformed(&b.mass.Center)
}

// GetLocalCenter returns a copy of the center of mass in local space.
func (b *Body) GetLocalCenter() *Vector2 {
	return b.mass.Center.Copy()
}

// GetWorldPoint maps a local point to world space.
func (b *Body) GetWorldPoint(localPoint *Vector2) *Vector2 {
	return b.transform.GetTransformed(localPoint)
}

// GetLocalPoint maps a world point to local space.
func (b *Body) GetLocalPoint(worldPoint *Vector2) *Vector2 {
	return b.transform.GetInverseTransformed(worldPoint)
}

// GetVelocity returns the live linear velocity of the center of mass.
func (b *Body) GetVelocity() *Vector2 {
	return &b.velocity
}

// SetVelocity sets the linear velocity and wakes the body.
func (b *Body) SetVelocity(velocity *Vector2) {
	b.velocity.SetVector2(velocity)
	b.SetAtRest(false)
}

// GetAngularVelocity returns the angular velocity in radians per
// second.
func (b *Body) GetAngularVelocity() float64 {
	return b.angularVelocity
}

// SetAngularVelocity sets the angular velocity and wakes the body.
func (b *Body) SetAngularVelocity(angularVelocity float64) {
	b.angularVelocity = angularVelocity
	b.SetAtRest(false)
}

// ApplyForce accumulates a force through the center of mass for the
// next step and wakes the body.
func (b *Body) ApplyForce(force *Vector2) {
	b.force.Add(force)
	b.SetAtRest(false)
}

// ApplyForceAtPoint accumulates a force applied at the given world
// point, contributing torque about the center of mass.
func (b *Body) ApplyForceAtPoint(force, point *Vector2) {
	b.force.Add(force)
	r := b.GetWorldCenter().To(point)
	b.torque += r.Cross(force)
	b.SetAtRest(false)
}

// ApplyTorque accumulates a torque for the next step and wakes the
// body.
func (b *Body) ApplyTorque(torque float64) {
	b.torque += torque
	b.SetAtRest(false)
}

// ApplyImpulse changes the linear velocity immediately by the given
// impulse.
func (b *Body) ApplyImpulse(impulse *Vector2) {
	invM := b.mass.GetInverseMass()
	b.velocity.X += impulse.X * invM
	b.velocity.Y += impulse.Y * invM
	b.SetAtRest(false)
}

// ApplyImpulseAtPoint changes the linear and angular velocity
// immediately by an impulse applied at the given world point.
func (b *Body) ApplyImpulseAtPoint(impulse, point *Vector2) {
	invM := b.mass.GetInverseMass()
	invI := b.mass.GetInverseInertia()
	b.velocity.X += impulse.X * invM
	b.velocity.Y += impulse.Y * invM
	r := b.GetWorldCenter().To(point)
	b.angularVelocity += invI * r.Cross(impulse)
	b.SetAtRest(false)
}

// GetForce returns the accumulated force for the next step.
func (b *Body) GetForce() *Vector2 {
	return b.force.Copy()
}

// GetTorque returns the accumulated torque for the next step.
func (b *Body) GetTorque() float64 {
	return b.torque
}

// ClearForce clears the accumulated force.
func (b *Body) ClearForce() {
	b.force.Zero()
}

// ClearTorque clears the accumulated torque.
func (b *Body) ClearTorque() {
	b.torque = 0.0
}

// GetLinearDamping returns the linear damping.
func (b *Body) GetLinearDamping() float64 {
	return b.linearDamping
}

// SetLinearDamping sets the linear damping. Damping must be zero or
// greater.
func (b *Body) SetLinearDamping(linearDamping float64) error {
	if linearDamping < 0.0 {
		return valueOutOfRange("linearDamping", linearDamping, "must be zero or greater")
	}
	b.linearDamping = linearDamping
	return nil
}

// GetAngularDamping returns the angular damping.
func (b *Body) GetAngularDamping() float64 {
	return b.angularDamping
}

// SetAngularDamping sets the angular damping. Damping must be zero or
// greater.
func (b *Body) SetAngularDamping(angularDamping float64) error {
	if angularDamping < 0.0 {
		return valueOutOfRange("angularDamping", angularDamping, "must be zero or greater")
	}
	b.angularDamping = angularDamping
	return nil
}

// GetGravityScale returns the gravity scale.
func (b *Body) GetGravityScale() float64 {
	return b.gravityScale
}

// SetGravityScale sets the multiplier applied to the world gravity for
// this body.
func (b *Body) SetGravityScale(gravityScale float64) {
	b.gravityScale = gravityScale
}

// IsAtRest returns true when this body is asleep.
func (b *Body) IsAtRest() bool {
	return b.atRest
}

// SetAtRest puts the body to rest or wakes it. Going to rest zeroes
// the velocities and pending forces, waking resets the rest timer.
func (b *Body) SetAtRest(atRest bool) {
	if atRest {
		b.atRest = true
		b.velocity.Zero()
		b.angularVelocity = 0.0
		b.force.Zero()
		b.torque = 0.0
	} else {
		b.atRest = false
		b.atRestTime = 0.0
	}
}

// IsAtRestDetectionEnabled returns true when this body may be put to
// rest automatically.
func (b *Body) IsAtRestDetectionEnabled() bool {
	return b.atRestDetectionEnabled
}

// SetAtRestDetectionEnabled controls whether this body may be put to
// rest automatically. Disabling it wakes the body.
func (b *Body) SetAtRestDetectionEnabled(enabled bool) {
	b.atRestDetectionEnabled = enabled
	if !enabled && b.atRest {
		b.SetAtRest(false)
	}
}

// UpdateAtRestTime advances the rest timer when the body is slow
// enough and returns the accumulated time. Static bodies return -1 so
// they never hold an island awake.
func (b *Body) UpdateAtRestTime(step *TimeStep, settings *Settings) float64 {
	if b.IsStatic() {
		return -1.0
	}
	maxLinear := settings.MaximumAtRestLinearVelocity
	if !b.atRestDetectionEnabled ||
		b.velocity.GetMagnitudeSquared() > maxLinear*maxLinear ||
		math.Abs(b.angularVelocity) > settings.MaximumAtRestAngularVelocity {
		b.atRestTime = 0.0
	} else {
		b.atRestTime += step.DeltaTime
	}
	return b.atRestTime
}

// CreateAABB returns the union of the fixture AABBs in world space. A
// body with no fixtures yields a degenerate AABB at its translation.
func (b *Body) CreateAABB() *AABB {
	if len(b.fixtures) == 0 {
		t := b.transform.GetTranslation()
		return NewAABB(t.X, t.Y, t.X, t.Y)
	}
	aabb := b.fixtures[0].GetShape().CreateAABB(&b.transform)
	for _, f := range b.fixtures[1:] {
		aabb.Union(f.GetShape().CreateAABB(&b.transform))
	}
	return aabb
}

// IntegrateVelocity advances the velocities by the accumulated forces
// and gravity, then applies damping.
func (b *Body) IntegrateVelocity(gravity *Vector2, step *TimeStep, settings *Settings) {
	if b.IsStatic() {
		return
	}
	dt := step.DeltaTime
	invM := b.mass.GetInverseMass()
	invI := b.mass.GetInverseInertia()
	if invM > Epsilon {
		b.velocity.X += dt * (gravity.X*b.gravityScale + b.force.X*invM)
		b.velocity.Y += dt * (gravity.Y*b.gravityScale + b.force.Y*invM)
	}
	if invI > Epsilon {
		b.angularVelocity += dt * invI * b.torque
	}
	linear := 1.0 / (1.0 + dt*b.linearDamping)
	angular := 1.0 / (1.0 + dt*b.angularDamping)
	b.velocity.Multiply(linear)
	b.angularVelocity *= angular
}

// IntegratePosition advances the transform by the velocities, clamping
// the translation and rotation of a single step to the settings
// maximums. When a clamp engages the velocity is scaled down with it.
func (b *Body) IntegratePosition(step *TimeStep, settings *Settings) {
	if b.IsStatic() || b.atRest {
		return
	}
	dt := step.DeltaTime
	maxTranslation := settings.MaximumTranslation
	maxRotation := settings.MaximumRotation

	tx := b.velocity.X * dt
	ty := b.velocity.Y * dt
	d2 := tx*tx + ty*ty
	if d2 > maxTranslation*maxTranslation {
		ratio := maxTranslation / math.Sqrt(d2)
		b.velocity.Multiply(ratio)
		tx *= ratio
		ty *= ratio
	}

	rotation := b.angularVelocity * dt
	if math.Abs(rotation) > maxRotation {
		ratio := maxRotation / math.Abs(rotation)
		b.angularVelocity *= ratio
		rotation *= ratio
	}

	b.Translate(tx, ty)
	b.RotateAboutCenter(rotation)
}

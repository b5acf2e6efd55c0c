package dyn4go

import (
	"math"

	"go.uber.org/zap"
)

// contactSolverMaxConditionNumber gates the two point block solver. A
// pair whose effective mass matrix is conditioned worse than this is
// solved one point at a time instead.
const contactSolverMaxConditionNumber = 1000.0

// ContactConstraintSolver solves contact constraints with sequential
// impulses. Velocity constraints accumulate clamped impulses and are
// warm started from the previous step; position constraints push the
// bodies directly using a Baumgarte scaled pseudo impulse.
type ContactConstraintSolver struct {
	log *zap.Logger
}

// NewContactConstraintSolver creates a contact constraint solver.
func NewContactConstraintSolver() *ContactConstraintSolver {
	return &ContactConstraintSolver{
		log: zap.NewNop(),
	}
}

// SetLogger sets the logger used to report degenerate configurations.
// A nil logger disables logging.
func (s *ContactConstraintSolver) SetLogger(log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	s.log = log
}

// relativeVelocity returns the velocity of the contact point on the
// second body relative to the same point on the first.
func relativeVelocity(cc *ContactConstraint, c *Contact) *Vector2 {
	return cc.body2.velocity.Sum(c.r2.CrossZ(cc.body2.angularVelocity)).
		Subtract(cc.body1.velocity.Sum(c.r1.CrossZ(cc.body1.angularVelocity)))
}

// Initialize computes the effective masses and restitution bias for
// the given constraints. Accumulated impulses from the previous step
// are scaled by the ratio of the current to the previous time step
// when warm starting is enabled and discarded otherwise.
func (s *ContactConstraintSolver) Initialize(constraints []*ContactConstraint, step *TimeStep, settings *Settings) {
	for _, cc := range constraints {
		m1 := cc.body1.mass
		m2 := cc.body2.mass
		invM1 := m1.GetInverseMass()
		invI1 := m1.GetInverseInertia()
		invM2 := m2.GetInverseMass()
		invI2 := m2.GetInverseInertia()
		c1 := cc.body1.GetWorldCenter()
		c2 := cc.body2.GetWorldCenter()
		n := &cc.normal
		t := &cc.tangent

		for _, c := range cc.contacts {
			c.r1.SetVector2(c1.To(&c.point))
			c.r2.SetVector2(c2.To(&c.point))

			rn1 := c.r1.Cross(n)
			rn2 := c.r2.Cross(n)
			kn := invM1 + invM2 + invI1*rn1*rn1 + invI2*rn2*rn2
			c.massN = 0.0
			if kn > 0.0 {
				c.massN = 1.0 / kn
			}

			rt1 := c.r1.Cross(t)
			rt2 := c.r2.Cross(t)
			kt := invM1 + invM2 + invI1*rt1*rt1 + invI2*rt2*rt2
			c.massT = 0.0
			if kt > 0.0 {
				c.massT = 1.0 / kt
			}

			// restitution bias from the approach velocity
			c.vb = 0.0
			rv := n.Dot(relativeVelocity(cc, c))
			if rv < -settings.RestitutionVelocity {
				c.vb = -cc.restitution * rv
			}

			if settings.WarmStartingEnabled {
				c.jn *= step.DeltaTimeRatio
				c.jt *= step.DeltaTimeRatio
			} else {
				c.jn = 0.0
				c.jt = 0.0
			}
		}

		cc.blockSolve = false
		if len(cc.contacts) == 2 {
			ct1 := cc.contacts[0]
			ct2 := cc.contacts[1]
			rn11 := ct1.r1.Cross(n)
			rn12 := ct1.r2.Cross(n)
			rn21 := ct2.r1.Cross(n)
			rn22 := ct2.r2.Cross(n)
			k11 := invM1 + invM2 + invI1*rn11*rn11 + invI2*rn12*rn12
			k22 := invM1 + invM2 + invI1*rn21*rn21 + invI2*rn22*rn22
			k12 := invM1 + invM2 + invI1*rn11*rn21 + invI2*rn12*rn22
			if k11*k11 < contactSolverMaxConditionNumber*(k11*k22-k12*k12) {
				cc.k = Matrix22{M00: k11, M01: k12, M10: k12, M11: k22}
				cc.normalMass = *cc.k.GetInverse()
				cc.blockSolve = true
			} else {
				s.log.Debug("contact pair is ill conditioned, solving points independently",
					zap.Float64("k11", k11),
					zap.Float64("k22", k22),
					zap.Float64("k12", k12))
			}
		}
	}
}

// WarmStart applies the accumulated impulses carried over from the
// previous step.
func (s *ContactConstraintSolver) WarmStart(constraints []*ContactConstraint, step *TimeStep, settings *Settings) {
	if !settings.WarmStartingEnabled {
		return
	}
	for _, cc := range constraints {
		invM1 := cc.body1.mass.GetInverseMass()
		invI1 := cc.body1.mass.GetInverseInertia()
		invM2 := cc.body2.mass.GetInverseMass()
		invI2 := cc.body2.mass.GetInverseInertia()
		for _, c := range cc.contacts {
			p := cc.normal.Product(c.jn).Add(cc.tangent.Product(c.jt))
			applyImpulse(cc, c, p, invM1, invI1, invM2, invI2)
		}
	}
}

// applyImpulse applies the impulse p at the contact point, pushing the
// first body against the normal and the second along it. Static bodies
// are shared between concurrently solved islands and must never be
// written, not even with a zero delta.
func applyImpulse(cc *ContactConstraint, c *Contact, p *Vector2, invM1, invI1, invM2, invI2 float64) {
	if invM1 > 0.0 || invI1 > 0.0 {
		cc.body1.velocity.Subtract(p.Product(invM1))
		cc.body1.angularVelocity -= invI1 * c.r1.Cross(p)
	}
	if invM2 > 0.0 || invI2 > 0.0 {
		cc.body2.velocity.Add(p.Product(invM2))
		cc.body2.angularVelocity += invI2 * c.r2.Cross(p)
	}
}

// SolveVelocityConstraints performs one sequential impulse iteration
// over the given constraints. Friction is solved before the normal
// impulses so its clamp uses the previous iteration's normal impulse.
func (s *ContactConstraintSolver) SolveVelocityConstraints(constraints []*ContactConstraint, step *TimeStep, settings *Settings) {
	for _, cc := range constraints {
		invM1 := cc.body1.mass.GetInverseMass()
		invI1 := cc.body1.mass.GetInverseInertia()
		invM2 := cc.body2.mass.GetInverseMass()
		invI2 := cc.body2.mass.GetInverseInertia()
		n := &cc.normal
		t := &cc.tangent

		// friction along the tangent, clamped by the friction cone
		for _, c := range cc.contacts {
			rv := t.Dot(relativeVelocity(cc, c))
			lambda := c.massT * -rv
			maxFriction := cc.friction * c.jn
			jt0 := c.jt
			c.jt = Clamp(jt0+lambda, -maxFriction, maxFriction)
			lambda = c.jt - jt0
			applyImpulse(cc, c, t.Product(lambda), invM1, invI1, invM2, invI2)
		}

		// non penetration along the normal
		if !cc.blockSolve {
			for _, c := range cc.contacts {
				rv := n.Dot(relativeVelocity(cc, c))
				lambda := -c.massN * (rv - c.vb)
				jn0 := c.jn
				c.jn = math.Max(jn0+lambda, 0.0)
				lambda = c.jn - jn0
				applyImpulse(cc, c, n.Product(lambda), invM1, invI1, invM2, invI2)
			}
			continue
		}

		// Both points are solved together as a small LCP:
		//
		//   vn = K * x + b, vn >= 0, x >= 0, vn_i * x_i = 0
		//
		// by enumerating the four active set cases. The incremental
		// impulse is the difference between the accumulated impulse a
		// entering the iteration and the new solution x.
		ct1 := cc.contacts[0]
		ct2 := cc.contacts[1]
		a := &Vector2{X: ct1.jn, Y: ct2.jn}

		vn1 := n.Dot(relativeVelocity(cc, ct1))
		vn2 := n.Dot(relativeVelocity(cc, ct2))
		b := &Vector2{X: vn1 - ct1.vb, Y: vn2 - ct2.vb}
		b.Subtract(cc.k.Product(a))

		for {
			// case 1: both points remain in contact
			x := cc.normalMass.Product(b).Negate()
			if x.X >= 0.0 && x.Y >= 0.0 {
				s.applyBlockImpulse(cc, x, a, invM1, invI1, invM2, invI2)
				break
			}

			// case 2: only the first point remains in contact
			x.X = -ct1.massN * b.X
			x.Y = 0.0
			vn2 = cc.k.M10*x.X + b.Y
			if x.X >= 0.0 && vn2 >= 0.0 {
				s.applyBlockImpulse(cc, x, a, invM1, invI1, invM2, invI2)
				break
			}

			// case 3: only the second point remains in contact
			x.X = 0.0
			x.Y = -ct2.massN * b.Y
			vn1 = cc.k.M01*x.Y + b.X
			if x.Y >= 0.0 && vn1 >= 0.0 {
				s.applyBlockImpulse(cc, x, a, invM1, invI1, invM2, invI2)
				break
			}

			// case 4: both points are separating
			x.X = 0.0
			x.Y = 0.0
			if b.X >= 0.0 && b.Y >= 0.0 {
				s.applyBlockImpulse(cc, x, a, invM1, invI1, invM2, invI2)
				break
			}

			// no solution, keep the accumulated impulses as they are
			break
		}
	}
}

// applyBlockImpulse applies the difference between the block solution
// x and the accumulated impulses a to both bodies and stores x.
func (s *ContactConstraintSolver) applyBlockImpulse(cc *ContactConstraint, x, a *Vector2, invM1, invI1, invM2, invI2 float64) {
	ct1 := cc.contacts[0]
	ct2 := cc.contacts[1]
	d := x.Difference(a)
	p1 := cc.normal.Product(d.X)
	p2 := cc.normal.Product(d.Y)

	p := p1.Sum(p2)
	if invM1 > 0.0 || invI1 > 0.0 {
		cc.body1.velocity.Subtract(p.Product(invM1))
		cc.body1.angularVelocity -= invI1 * (ct1.r1.Cross(p1) + ct2.r1.Cross(p2))
	}
	if invM2 > 0.0 || invI2 > 0.0 {
		cc.body2.velocity.Add(p.Product(invM2))
		cc.body2.angularVelocity += invI2 * (ct1.r2.Cross(p1) + ct2.r2.Cross(p2))
	}

	ct1.jn = x.X
	ct2.jn = x.Y
}

// SolvePositionConstraints pushes the bodies of the given constraints
// directly out of penetration and returns true when every contact
// point is within tolerance of separation.
func (s *ContactConstraintSolver) SolvePositionConstraints(constraints []*ContactConstraint, step *TimeStep, settings *Settings) bool {
	minSeparation := 0.0
	for _, cc := range constraints {
		invM1 := cc.body1.mass.GetInverseMass()
		invI1 := cc.body1.mass.GetInverseInertia()
		invM2 := cc.body2.mass.GetInverseMass()
		invI2 := cc.body2.mass.GetInverseInertia()

		for _, c := range cc.contacts {
			// re-derive the separating axis and anchors from the
			// current transforms
			n := cc.body1.transform.GetTransformedR(&cc.localNormal)
			p1 := cc.body1.transform.GetTransformed(&c.localAnchor1)
			p2 := cc.body2.transform.GetTransformed(&c.localAnchor2)

			// the anchors coincided at detection time, so the current
			// separation is their drift along the normal less the
			// original penetration depth
			separation := n.Dot(p1.To(p2)) - c.depth
			minSeparation = math.Min(minSeparation, separation)

			correction := Clamp(settings.Baumgarte*(separation+settings.LinearTolerance),
				-settings.MaximumLinearCorrection, 0.0)

			r1 := cc.body1.GetWorldCenter().To(p1)
			r2 := cc.body2.GetWorldCenter().To(p2)
			rn1 := r1.Cross(n)
			rn2 := r2.Cross(n)
			k := invM1 + invM2 + invI1*rn1*rn1 + invI2*rn2*rn2

			impulse := 0.0
			if k > 0.0 {
				impulse = -correction / k
			}
			p := n.Product(impulse)

			if invM1 > 0.0 || invI1 > 0.0 {
				cc.body1.Translate(-p.X*invM1, -p.Y*invM1)
				cc.body1.RotateAboutCenter(-invI1 * r1.Cross(p))
			}
			if invM2 > 0.0 || invI2 > 0.0 {
				cc.body2.Translate(p.X*invM2, p.Y*invM2)
				cc.body2.RotateAboutCenter(invI2 * r2.Cross(p))
			}
		}
	}
	return minSeparation >= -3.0*settings.LinearTolerance
}

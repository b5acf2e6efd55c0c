package dyn4go

import "math"

// Contact is one persistent solved point of a contact constraint. The
// warm starting impulses survive from step to step as long as the
// manifold keeps producing a point with the same id.
type Contact struct {
	id    ManifoldPointID
	point Vector2
	depth float64

	// anchors in the local frames of the respective bodies, captured
	// when the manifold point was generated
	localAnchor1 Vector2
	localAnchor2 Vector2

	// solver state
	r1    Vector2
	r2    Vector2
	massN float64
	massT float64
	vb    float64

	// accumulated impulses
	jn float64
	jt float64
}

// GetID returns the manifold point id used to match this contact
// across detection passes.
func (c *Contact) GetID() ManifoldPointID {
	return c.id
}

// GetPoint returns the world space contact point.
func (c *Contact) GetPoint() *Vector2 {
	return &Vector2{X: c.point.X, Y: c.point.Y}
}

// GetDepth returns the penetration depth at this point.
func (c *Contact) GetDepth() float64 {
	return c.depth
}

// GetNormalImpulse returns the accumulated normal impulse.
func (c *Contact) GetNormalImpulse() float64 {
	return c.jn
}

// GetTangentImpulse returns the accumulated tangent impulse.
func (c *Contact) GetTangentImpulse() float64 {
	return c.jt
}

// ContactConstraint couples the contacts of one fixture pair with the
// mixed material values the solver needs. The constraint persists
// while the pair stays overlapping so that contact impulses can be
// carried across steps.
type ContactConstraint struct {
	body1    *Body
	fixture1 *Fixture
	body2    *Body
	fixture2 *Fixture

	// normal points from body1 toward body2
	normal Vector2
	// tangent is the normal rotated clockwise a quarter turn
	tangent Vector2
	// localNormal is the normal in the rotation frame of body1, used
	// to re-derive the separating axis during position solving
	localNormal Vector2

	contacts []*Contact

	friction    float64
	restitution float64
	sensor      bool

	// two point block solver state
	k          Matrix22
	normalMass Matrix22
	blockSolve bool
}

// NewContactConstraint creates a contact constraint for the given
// fixture pair.
func NewContactConstraint(body1 *Body, fixture1 *Fixture, body2 *Body, fixture2 *Fixture) (*ContactConstraint, error) {
	if body1 == nil || fixture1 == nil || body2 == nil || fixture2 == nil {
		return nil, ErrNilArgument
	}
	return &ContactConstraint{
		body1:    body1,
		fixture1: fixture1,
		body2:    body2,
		fixture2: fixture2,
		contacts: make([]*Contact, 0, 2),
	}, nil
}

// GetBody1 returns the first body.
func (cc *ContactConstraint) GetBody1() *Body {
	return cc.body1
}

// GetFixture1 returns the fixture on the first body.
func (cc *ContactConstraint) GetFixture1() *Fixture {
	return cc.fixture1
}

// GetBody2 returns the second body.
func (cc *ContactConstraint) GetBody2() *Body {
	return cc.body2
}

// GetFixture2 returns the fixture on the second body.
func (cc *ContactConstraint) GetFixture2() *Fixture {
	return cc.fixture2
}

// GetNormal returns the world space contact normal, pointing from the
// first body toward the second.
func (cc *ContactConstraint) GetNormal() *Vector2 {
	return &Vector2{X: cc.normal.X, Y: cc.normal.Y}
}

// GetTangent returns the world space contact tangent.
func (cc *ContactConstraint) GetTangent() *Vector2 {
	return &Vector2{X: cc.tangent.X, Y: cc.tangent.Y}
}

// GetContacts returns the contacts of this constraint.
func (cc *ContactConstraint) GetContacts() []*Contact {
	return cc.contacts
}

// GetFriction returns the mixed coefficient of friction.
func (cc *ContactConstraint) GetFriction() float64 {
	return cc.friction
}

// GetRestitution returns the mixed coefficient of restitution.
func (cc *ContactConstraint) GetRestitution() float64 {
	return cc.restitution
}

// IsSensor returns true if either fixture of the pair is a sensor.
// Sensor constraints produce contact events but are never solved.
func (cc *ContactConstraint) IsSensor() bool {
	return cc.sensor
}

// Update replaces the contacts of this constraint with the points of
// the given manifold. Accumulated impulses of matching points from the
// previous detection pass are carried over when warm starting is
// enabled.
func (cc *ContactConstraint) Update(manifold *Manifold, settings *Settings) {
	cc.normal.SetVector2(&manifold.Normal)
	cc.tangent.SetVector2(manifold.Normal.GetLeftHandOrthogonalVector())
	cc.localNormal.SetVector2(cc.body1.transform.GetInverseTransformedR(&manifold.Normal))

	cc.friction = math.Sqrt(cc.fixture1.friction * cc.fixture2.friction)
	cc.restitution = math.Max(cc.fixture1.restitution, cc.fixture2.restitution)
	cc.sensor = cc.fixture1.sensor || cc.fixture2.sensor

	old := cc.contacts
	contacts := make([]*Contact, 0, len(manifold.Points))
	for _, mp := range manifold.Points {
		contact := &Contact{
			id:           mp.ID,
			point:        mp.Point,
			depth:        mp.Depth,
			localAnchor1: *cc.body1.GetLocalPoint(&mp.Point),
			localAnchor2: *cc.body2.GetLocalPoint(&mp.Point),
		}
		if settings.WarmStartingEnabled {
			for _, o := range old {
				if o.id == contact.id {
					contact.jn = o.jn
					contact.jt = o.jt
					break
				}
			}
		}
		contacts = append(contacts, contact)
	}
	cc.contacts = contacts
}

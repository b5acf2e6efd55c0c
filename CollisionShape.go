package dyn4go

import (
	"math"
)

// ShapeType tags the concrete type of a Shape. The set is closed;
// callers can switch over it without reflection.
type ShapeType int

const (
	ShapeTypeCircle ShapeType = iota
	ShapeTypeSegment
	ShapeTypePolygon
	ShapeTypeRectangle
	ShapeTypeCapsule
	ShapeTypeEllipse
	ShapeTypeHalfEllipse
)

// shapeTypeParent declares the subtype families of the tag set. A tag
// missing here has no parent.
var shapeTypeParent = map[ShapeType]ShapeType{
	ShapeTypeRectangle: ShapeTypePolygon,
}

// IsMemberOf returns true if this tag equals the given tag or is
// declared a subtype of it.
func (t ShapeType) IsMemberOf(family ShapeType) bool {
	if t == family {
		return true
	}
	p, ok := shapeTypeParent[t]
	for ok {
		if p == family {
			return true
		}
		p, ok = shapeTypeParent[p]
	}
	return false
}

// String returns a human readable name for the shape type.
func (t ShapeType) String() string {
	switch t {
	case ShapeTypeCircle:
		return "Circle"
	case ShapeTypeSegment:
		return "Segment"
	case ShapeTypePolygon:
		return "Polygon"
	case ShapeTypeRectangle:
		return "Rectangle"
	case ShapeTypeCapsule:
		return "Capsule"
	case ShapeTypeEllipse:
		return "Ellipse"
	case ShapeTypeHalfEllipse:
		return "HalfEllipse"
	default:
		return "Unknown"
	}
}

// Shape is the base contract for all collision geometry. Shapes are
// defined in local coordinates and paired with a Transform for world
// space queries.
type Shape interface {
	// GetType returns the closed type tag of this shape.
	GetType() ShapeType

	// GetCenter returns the geometric center in local coordinates.
	// The returned vector is live, mutating it mutates the shape.
	GetCenter() *Vector2

	// GetRadius returns the radius of the smallest disc centered at
	// the shape's center that encloses the shape.
	GetRadius() float64

	// GetRotationRadius returns the radius of the smallest disc
	// centered at the given local point that encloses the shape.
	GetRotationRadius(center *Vector2) float64

	// Translate moves the shape in its local frame.
	Translate(x, y float64)

	// Rotate rotates the shape about the local origin.
	Rotate(theta float64)

	// RotateAboutPoint rotates the shape about the given local point.
	RotateAboutPoint(theta, x, y float64)

	// Project projects the shape onto the given world axis.
	Project(axis *Vector2, transform *Transform) *Interval

	// Contains returns true if the given world point lies inside or
	// on the boundary of the shape.
	Contains(point *Vector2, transform *Transform) bool

	// CreateAABB returns the world axis aligned bounding box.
	CreateAABB(transform *Transform) *AABB

	// CreateMass computes mass, center, and inertia from the given
	// density.
	CreateMass(density float64) *Mass
}

// Convex is a shape that supports the queries required by the SAT and
// GJK narrowphase detectors.
type Convex interface {
	Shape

	// GetAxes returns the world space separating axis candidates for
	// this shape, including axes induced by the given focal points of
	// the other shape. Shapes whose curved boundary cannot be captured
	// by finitely many axes return ErrSatNotSupported.
	GetAxes(foci []*Vector2, transform *Transform) ([]*Vector2, error)

	// GetFoci returns the world space focal points of this shape, nil
	// when it has none. Shapes incompatible with SAT return
	// ErrSatNotSupported.
	GetFoci(transform *Transform) ([]*Vector2, error)

	// GetFarthestPoint returns the world space point of this shape
	// farthest in the given world direction.
	GetFarthestPoint(vector *Vector2, transform *Transform) *Vector2

	// GetFarthestFeature returns the vertex or edge of this shape
	// farthest in the given world direction.
	GetFarthestFeature(vector *Vector2, transform *Transform) Feature
}

// AbstractShape holds the state shared by all shape implementations.
type AbstractShape struct {
	// Center is the geometric center in local coordinates.
	Center Vector2
	// Radius is the maximum distance from Center to the boundary.
	Radius float64
}

// GetCenter returns the local center of the shape. The returned vector
// is live.
func (s *AbstractShape) GetCenter() *Vector2 {
	return &s.Center
}

// GetRadius returns the rotation disc radius about the shape center.
func (s *AbstractShape) GetRadius() float64 {
	return s.Radius
}

// AABB is an axis aligned bounding box in world coordinates.
type AABB struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// NewAABB creates a new AABB from the given bounds.
func NewAABB(minX, minY, maxX, maxY float64) *AABB {
	return &AABB{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

// Union grows this AABB to also cover the given AABB.
func (a *AABB) Union(o *AABB) *AABB {
	a.MinX = math.Min(a.MinX, o.MinX)
	a.MinY = math.Min(a.MinY, o.MinY)
	a.MaxX = math.Max(a.MaxX, o.MaxX)
	a.MaxY = math.Max(a.MaxY, o.MaxY)
	return a
}

// Overlaps returns true if this AABB and the given AABB share any
// area, including touching edges.
func (a *AABB) Overlaps(o *AABB) bool {
	return a.MinX <= o.MaxX && a.MaxX >= o.MinX && a.MinY <= o.MaxY && a.MaxY >= o.MinY
}

// Expand grows the AABB by the given amount in every direction.
func (a *AABB) Expand(expansion float64) *AABB {
	a.MinX -= expansion
	a.MinY -= expansion
	a.MaxX += expansion
	a.MaxY += expansion
	return a
}

// GetWidth returns the width of the AABB.
func (a *AABB) GetWidth() float64 {
	return a.MaxX - a.MinX
}

// GetHeight returns the height of the AABB.
func (a *AABB) GetHeight() float64 {
	return a.MaxY - a.MinY
}

// MassType controls how a body's mass responds to forces and impulses.
type MassType int

const (
	// MassTypeNormal reacts to both linear and angular effects.
	MassTypeNormal MassType = iota
	// MassTypeInfinite never moves; used for static geometry.
	MassTypeInfinite
	// MassTypeFixedLinearVelocity ignores linear effects but rotates.
	MassTypeFixedLinearVelocity
	// MassTypeFixedAngularVelocity ignores angular effects but
	// translates.
	MassTypeFixedAngularVelocity
)

// Mass holds the mass, center of mass, and rotational inertia of a
// body. The Type modulates what the effective inverse mass and inertia
// report without losing the underlying values.
type Mass struct {
	Type       MassType
	Center     Vector2
	Mass       float64
	Inertia    float64
	InvMass    float64
	InvInertia float64
}

// NewMass creates a new Mass from the given local center of mass, mass
// in kg, and inertia in kg m^2. Zero mass or inertia pieces become
// infinite, both zero yields MassTypeInfinite.
func NewMass(center *Vector2, mass, inertia float64) (*Mass, error) {
	if center == nil {
		return nil, ErrNilArgument
	}
	if mass < 0.0 {
		return nil, valueOutOfRange("mass", mass, "zero or greater")
	}
	if inertia < 0.0 {
		return nil, valueOutOfRange("inertia", inertia, "zero or greater")
	}
	m := &Mass{
		Type:    MassTypeNormal,
		Center:  *center,
		Mass:    mass,
		Inertia: inertia,
	}
	if mass > Epsilon {
		m.InvMass = 1.0 / mass
	} else {
		m.Type = MassTypeFixedLinearVelocity
	}
	if inertia > Epsilon {
		m.InvInertia = 1.0 / inertia
	} else if m.Type == MassTypeFixedLinearVelocity {
		m.Type = MassTypeInfinite
	} else {
		m.Type = MassTypeFixedAngularVelocity
	}
	return m, nil
}

// NewInfiniteMass creates a Mass that never moves, centered at the
// given local point.
func NewInfiniteMass(center *Vector2) *Mass {
	if center == nil {
		center = &Vector2{}
	}
	return &Mass{Type: MassTypeInfinite, Center: *center}
}

// CombineMasses combines the given masses into one about their common
// center of mass, moving each inertia by the parallel axis theorem. An
// empty list yields an infinite mass at the origin.
func CombineMasses(masses []*Mass) *Mass {
	if len(masses) == 0 {
		return NewInfiniteMass(nil)
	}
	center := &Vector2{}
	total := 0.0
	for _, m := range masses {
		center.Add(m.Center.Product(m.Mass))
		total += m.Mass
	}
	if total > Epsilon {
		center.Multiply(1.0 / total)
	} else {
		// all pieces are massless, fall back to the average center
		center.Zero()
		for _, m := range masses {
			center.Add(&m.Center)
		}
		center.Multiply(1.0 / float64(len(masses)))
	}
	inertia := 0.0
	for _, m := range masses {
		inertia += m.Inertia + m.Mass*m.Center.DistanceSquared(center)
	}
	combined, _ := NewMass(center, total, inertia)
	return combined
}

// GetInverseMass returns the effective inverse mass honoring the mass
// type.
func (m *Mass) GetInverseMass() float64 {
	if m.Type == MassTypeInfinite || m.Type == MassTypeFixedLinearVelocity {
		return 0.0
	}
	return m.InvMass
}

// GetInverseInertia returns the effective inverse inertia honoring the
// mass type.
func (m *Mass) GetInverseInertia() float64 {
	if m.Type == MassTypeInfinite || m.Type == MassTypeFixedAngularVelocity {
		return 0.0
	}
	return m.InvInertia
}

// IsInfinite returns true if the mass type is MassTypeInfinite.
func (m *Mass) IsInfinite() bool {
	return m.Type == MassTypeInfinite
}

// createUnitAABB builds an AABB by projecting the shape on the world
// axes. Shapes with cheaper direct bounds override this path.
func createUnitAABB(shape Shape, transform *Transform) *AABB {
	x := shape.Project(&Vector2{X: 1.0}, transform)
	y := shape.Project(&Vector2{Y: 1.0}, transform)
	return &AABB{MinX: x.Min, MinY: y.Min, MaxX: x.Max, MaxY: y.Max}
}

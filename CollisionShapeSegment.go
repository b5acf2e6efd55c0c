package dyn4go

import (
	"fmt"
	"math"
)

// Segment is a one dimensional convex shape between two local points.
// Segments have zero area; their mass is derived from length.
type Segment struct {
	AbstractShape
	// Vertices holds the two endpoints in local coordinates.
	Vertices [2]Vector2
	// Normals holds the normalized edge direction and its right hand
	// orthogonal, the two separating axis candidates of the segment.
	Normals [2]Vector2

	length float64
}

// NewSegment creates a segment between the two given local points.
func NewSegment(p1, p2 *Vector2) (*Segment, error) {
	if p1 == nil || p2 == nil {
		return nil, ErrNilArgument
	}
	if p1.DistanceSquared(p2) <= Epsilon {
		return nil, fmt.Errorf("%w: segment vertices are coincident", ErrInvalidGeometry)
	}
	s := &Segment{}
	s.Vertices[0] = *p1
	s.Vertices[1] = *p2
	s.Center = *p1.Sum(p2).Multiply(0.5)
	s.length = p1.Distance(p2)
	s.Radius = s.length * 0.5
	edge := p1.To(p2)
	edge.Normalize()
	s.Normals[0] = *edge
	s.Normals[1] = *edge.GetRightHandOrthogonalVector()
	return s, nil
}

// GetType returns ShapeTypeSegment.
func (s *Segment) GetType() ShapeType {
	return ShapeTypeSegment
}

// GetLength returns the length of the segment.
func (s *Segment) GetLength() float64 {
	return s.length
}

// GetRotationRadius returns the enclosing disc radius about the given
// local point.
func (s *Segment) GetRotationRadius(center *Vector2) float64 {
	return math.Sqrt(math.Max(center.DistanceSquared(&s.Vertices[0]), center.DistanceSquared(&s.Vertices[1])))
}

// Translate moves the segment in its local frame.
func (s *Segment) Translate(x, y float64) {
	s.Vertices[0].X += x
	s.Vertices[0].Y += y
	s.Vertices[1].X += x
	s.Vertices[1].Y += y
	s.Center.X += x
	s.Center.Y += y
}

// Rotate rotates the segment about the local origin.
func (s *Segment) Rotate(theta float64) {
	s.RotateAboutPoint(theta, 0.0, 0.0)
}

// RotateAboutPoint rotates the segment about the given local point.
func (s *Segment) RotateAboutPoint(theta, x, y float64) {
	s.Vertices[0].RotateAbout(theta, x, y)
	s.Vertices[1].RotateAbout(theta, x, y)
	s.Center.RotateAbout(theta, x, y)
	s.Normals[0].Rotate(theta)
	s.Normals[1].Rotate(theta)
}

// Project projects the segment onto the given unit world axis.
func (s *Segment) Project(axis *Vector2, transform *Transform) *Interval {
	d1 := transform.GetTransformed(&s.Vertices[0]).Dot(axis)
	d2 := transform.GetTransformed(&s.Vertices[1]).Dot(axis)
	return &Interval{Min: math.Min(d1, d2), Max: math.Max(d1, d2)}
}

// Contains returns true if the given world point lies on the segment.
func (s *Segment) Contains(point *Vector2, transform *Transform) bool {
	p1 := transform.GetTransformed(&s.Vertices[0])
	p2 := transform.GetTransformed(&s.Vertices[1])
	edge := p1.To(p2)
	toPoint := p1.To(point)
	if math.Abs(edge.Cross(toPoint)) > Epsilon {
		return false
	}
	d := toPoint.Dot(edge)
	return d >= 0.0 && d <= edge.GetMagnitudeSquared()
}

// CreateAABB returns the world bounds of the segment.
func (s *Segment) CreateAABB(transform *Transform) *AABB {
	p1 := transform.GetTransformed(&s.Vertices[0])
	p2 := transform.GetTransformed(&s.Vertices[1])
	return &AABB{
		MinX: math.Min(p1.X, p2.X),
		MinY: math.Min(p1.Y, p2.Y),
		MaxX: math.Max(p1.X, p2.X),
		MaxY: math.Max(p1.Y, p2.Y),
	}
}

// CreateMass computes the mass of the segment at the given linear
// density, with thin rod inertia l^2 m / 12 about the midpoint.
func (s *Segment) CreateMass(density float64) *Mass {
	mass := density * s.length
	inertia := s.length * s.length * mass / 12.0
	m, _ := NewMass(&s.Center, mass, inertia)
	return m
}

// GetAxes returns the segment direction, its normal, and one axis per
// given focal point.
func (s *Segment) GetAxes(foci []*Vector2, transform *Transform) ([]*Vector2, error) {
	axes := make([]*Vector2, 0, 2+len(foci))
	axes = append(axes, transform.GetTransformedR(&s.Normals[0]))
	axes = append(axes, transform.GetTransformedR(&s.Normals[1]))
	p1 := transform.GetTransformed(&s.Vertices[0])
	p2 := transform.GetTransformed(&s.Vertices[1])
	for _, f := range foci {
		closest := p1
		if p2.DistanceSquared(f) < p1.DistanceSquared(f) {
			closest = p2
		}
		axis := f.To(closest)
		axis.Normalize()
		axes = append(axes, axis)
	}
	return axes, nil
}

// GetFoci returns nil; segments have no focal points.
func (s *Segment) GetFoci(transform *Transform) ([]*Vector2, error) {
	return nil, nil
}

// GetFarthestPoint returns the endpoint farthest in the given world
// direction.
func (s *Segment) GetFarthestPoint(vector *Vector2, transform *Transform) *Vector2 {
	p1 := transform.GetTransformed(&s.Vertices[0])
	p2 := transform.GetTransformed(&s.Vertices[1])
	if p1.Dot(vector) >= p2.Dot(vector) {
		return p1
	}
	return p2
}

// GetFarthestFeature returns the segment as an edge feature wound for
// the clipping manifold solver.
func (s *Segment) GetFarthestFeature(vector *Vector2, transform *Transform) Feature {
	return farthestSegmentFeature(&s.Vertices[0], &s.Vertices[1], vector, transform)
}

// farthestSegmentFeature builds the edge feature of the local segment
// v1 v2 along the given world direction. The vertices are ordered so
// that rotating the edge vector right hand yields the outward front
// normal expected by the clipping manifold solver.
func farthestSegmentFeature(v1, v2 *Vector2, vector *Vector2, transform *Transform) *EdgeFeature {
	p1 := transform.GetTransformed(v1)
	p2 := transform.GetTransformed(v2)
	vp1 := NewPointFeature(p1, 0)
	vp2 := NewPointFeature(p2, 1)
	max := vp1
	if p2.Dot(vector) > p1.Dot(vector) {
		max = vp2
	}
	if p1.To(p2).Right().Dot(vector) > 0.0 {
		return NewEdgeFeature(vp2, vp1, max, p2.To(p1), 0)
	}
	return NewEdgeFeature(vp1, vp2, max, p1.To(p2), 0)
}

// GetPointOnSegmentClosestToPoint returns the point on the segment
// from linePoint1 to linePoint2 closest to the given point.
func GetPointOnSegmentClosestToPoint(point, linePoint1, linePoint2 *Vector2) *Vector2 {
	toPoint := point.Difference(linePoint1)
	line := linePoint2.Difference(linePoint1)
	ab2 := line.Dot(line)
	if ab2 <= Epsilon {
		return linePoint1.Copy()
	}
	t := Clamp(toPoint.Dot(line)/ab2, 0.0, 1.0)
	return line.Multiply(t).Add(linePoint1)
}

// GetSegmentIntersection returns the intersection point of the two
// segments ap1 ap2 and bp1 bp2, or nil if they do not intersect.
// Parallel and collinear segments report no intersection.
func GetSegmentIntersection(ap1, ap2, bp1, bp2 *Vector2) *Vector2 {
	a := ap1.To(ap2)
	b := bp1.To(bp2)
	bxa := b.Cross(a)
	if math.Abs(bxa) <= Epsilon {
		return nil
	}
	tb := ap1.Difference(bp1).Cross(a) / bxa
	if tb < 0.0 || tb > 1.0 {
		return nil
	}
	ip := b.Multiply(tb).Add(bp1)
	ta := ip.Difference(ap1).Dot(a) / a.GetMagnitudeSquared()
	if ta < 0.0 || ta > 1.0 {
		return nil
	}
	return ip
}

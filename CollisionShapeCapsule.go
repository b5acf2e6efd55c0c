package dyn4go

import (
	"fmt"
	"math"
)

const (
	// capsuleEdgeFeatureSelectionCriteria is the fraction of alignment
	// with a side wall normal above which the wall is returned as the
	// farthest feature instead of a cap point.
	capsuleEdgeFeatureSelectionCriteria = 0.98
	// capsuleEdgeFeatureExpansionFactor is the fraction of the half
	// length by which a selected wall is extended past the foci so
	// that clipping near parallel walls still produces two points.
	capsuleEdgeFeatureExpansionFactor = 0.1
)

// Capsule is a rectangle capped by two half circles, described by the
// bounding width and height of the full shape.
type Capsule struct {
	AbstractShape
	length     float64
	capRadius  float64
	foci       [2]Vector2
	localXAxis Vector2
}

// NewCapsule creates a capsule from the width and height of its
// bounding box, centered at the local origin. The larger extent is the
// major axis. Equal extents are rejected, use a Circle instead.
func NewCapsule(width, height float64) (*Capsule, error) {
	if width <= 0.0 {
		return nil, valueOutOfRange("width", width, "greater than zero")
	}
	if height <= 0.0 {
		return nil, valueOutOfRange("height", height, "greater than zero")
	}
	if width == height {
		return nil, fmt.Errorf("%w: capsule extents must differ, use a circle for equal extents", ErrInvalidGeometry)
	}
	c := &Capsule{}
	major := width
	minor := height
	vertical := false
	if width < height {
		major = height
		minor = width
		vertical = true
	}
	c.length = major
	c.capRadius = minor * 0.5
	f := major*0.5 - c.capRadius
	if vertical {
		c.foci[0] = Vector2{Y: -f}
		c.foci[1] = Vector2{Y: f}
		c.localXAxis = Vector2{Y: 1.0}
	} else {
		c.foci[0] = Vector2{X: -f}
		c.foci[1] = Vector2{X: f}
		c.localXAxis = Vector2{X: 1.0}
	}
	c.Radius = major * 0.5
	return c, nil
}

// GetType returns ShapeTypeCapsule.
func (c *Capsule) GetType() ShapeType {
	return ShapeTypeCapsule
}

// GetCapRadius returns the radius of the end caps.
func (c *Capsule) GetCapRadius() float64 {
	return c.capRadius
}

// GetLength returns the full length along the major axis.
func (c *Capsule) GetLength() float64 {
	return c.length
}

// GetRotationRadius returns the enclosing disc radius about the given
// local point.
func (c *Capsule) GetRotationRadius(center *Vector2) float64 {
	return c.capRadius + math.Max(center.Distance(&c.foci[0]), center.Distance(&c.foci[1]))
}

// Translate moves the capsule in its local frame.
func (c *Capsule) Translate(x, y float64) {
	c.foci[0].X += x
	c.foci[0].Y += y
	c.foci[1].X += x
	c.foci[1].Y += y
	c.Center.X += x
	c.Center.Y += y
}

// Rotate rotates the capsule about the local origin.
func (c *Capsule) Rotate(theta float64) {
	c.RotateAboutPoint(theta, 0.0, 0.0)
}

// RotateAboutPoint rotates the capsule about the given local point.
func (c *Capsule) RotateAboutPoint(theta, x, y float64) {
	c.foci[0].RotateAbout(theta, x, y)
	c.foci[1].RotateAbout(theta, x, y)
	c.Center.RotateAbout(theta, x, y)
	c.localXAxis.Rotate(theta)
}

// Project projects the capsule onto the given unit world axis.
func (c *Capsule) Project(axis *Vector2, transform *Transform) *Interval {
	d1 := transform.GetTransformed(&c.foci[0]).Dot(axis)
	d2 := transform.GetTransformed(&c.foci[1]).Dot(axis)
	return &Interval{
		Min: math.Min(d1, d2) - c.capRadius,
		Max: math.Max(d1, d2) + c.capRadius,
	}
}

// Contains returns true if the given world point lies in the capsule.
func (c *Capsule) Contains(point *Vector2, transform *Transform) bool {
	p1 := transform.GetTransformed(&c.foci[0])
	p2 := transform.GetTransformed(&c.foci[1])
	closest := GetPointOnSegmentClosestToPoint(point, p1, p2)
	return closest.DistanceSquared(point) <= c.capRadius*c.capRadius
}

// CreateAABB returns the world bounds of the capsule.
func (c *Capsule) CreateAABB(transform *Transform) *AABB {
	p1 := transform.GetTransformed(&c.foci[0])
	p2 := transform.GetTransformed(&c.foci[1])
	return &AABB{
		MinX: math.Min(p1.X, p2.X) - c.capRadius,
		MinY: math.Min(p1.Y, p2.Y) - c.capRadius,
		MaxX: math.Max(p1.X, p2.X) + c.capRadius,
		MaxY: math.Max(p1.Y, p2.Y) + c.capRadius,
	}
}

// CreateMass computes the mass of the capsule at the given density as
// the middle rectangle plus the two end caps.
func (c *Capsule) CreateMass(density float64) *Mass {
	h := c.capRadius * 2.0
	w := c.length - h
	r2 := c.capRadius * c.capRadius

	// the middle rectangle
	ra := w * h
	rm := density * ra
	ri := rm * (h*h + w*w) / 12.0

	// the two caps taken together as one circle offset by w/2
	ca := r2 * math.Pi
	cm := density * ca
	d := w * 0.5
	ci := 0.5*cm*r2 + cm*d*d

	m, _ := NewMass(&c.Center, rm+cm, ri+ci)
	return m
}

// GetAxes returns the major axis, its orthogonal, and one axis per
// given focal point.
func (c *Capsule) GetAxes(foci []*Vector2, transform *Transform) ([]*Vector2, error) {
	axes := make([]*Vector2, 0, 2+len(foci))
	axes = append(axes, transform.GetTransformedR(&c.localXAxis))
	axes = append(axes, transform.GetTransformedR(c.localXAxis.GetRightHandOrthogonalVector()))
	f1 := transform.GetTransformed(&c.foci[0])
	f2 := transform.GetTransformed(&c.foci[1])
	for _, f := range foci {
		closest := f1
		if f2.DistanceSquared(f) < f1.DistanceSquared(f) {
			closest = f2
		}
		axis := f.To(closest)
		axis.Normalize()
		axes = append(axes, axis)
	}
	return axes, nil
}

// GetFoci returns the world positions of the two cap centers.
func (c *Capsule) GetFoci(transform *Transform) ([]*Vector2, error) {
	return []*Vector2{
		transform.GetTransformed(&c.foci[0]),
		transform.GetTransformed(&c.foci[1]),
	}, nil
}

// GetFarthestPoint returns the boundary point farthest in the given
// world direction.
func (c *Capsule) GetFarthestPoint(vector *Vector2, transform *Transform) *Vector2 {
	localAxis := transform.GetInverseTransformedR(vector)
	localAxis.Normalize()
	focus := &c.foci[0]
	if localAxis.Dot(&c.foci[1]) > localAxis.Dot(&c.foci[0]) {
		focus = &c.foci[1]
	}
	p := &Vector2{
		X: focus.X + localAxis.X*c.capRadius,
		Y: focus.Y + localAxis.Y*c.capRadius,
	}
	return transform.GetTransformed(p)
}

// GetFarthestFeature returns a side wall when the direction is nearly
// parallel to the wall normal, otherwise the farthest cap point. The
// wall is expanded slightly past the foci so that clipping two nearly
// parallel walls still yields a full manifold.
func (c *Capsule) GetFarthestFeature(vector *Vector2, transform *Transform) Feature {
	localAxis := transform.GetInverseTransformedR(vector)
	n1 := c.localXAxis.GetLeftHandOrthogonalVector()
	d := localAxis.Dot(localAxis) * capsuleEdgeFeatureSelectionCriteria
	d1 := localAxis.Dot(n1)
	if d1*d1 > d {
		// one of the two walls; orient the wall normal along the query
		if d1 < 0.0 {
			n1.Negate()
		}
		e := c.length * 0.5 * capsuleEdgeFeatureExpansionFactor
		p1 := &Vector2{
			X: c.foci[0].X - c.localXAxis.X*e + n1.X*c.capRadius,
			Y: c.foci[0].Y - c.localXAxis.Y*e + n1.Y*c.capRadius,
		}
		p2 := &Vector2{
			X: c.foci[1].X + c.localXAxis.X*e + n1.X*c.capRadius,
			Y: c.foci[1].Y + c.localXAxis.Y*e + n1.Y*c.capRadius,
		}
		return farthestSegmentFeature(p1, p2, vector, transform)
	}
	return NewPointFeature(c.GetFarthestPoint(vector, transform), FeatureNotIndexed)
}

package dyn4go

import (
	"math"
)

// Circle is a disc centered at a local point.
type Circle struct {
	AbstractShape
}

// NewCircle creates a circle of the given radius centered at the local
// origin.
func NewCircle(radius float64) (*Circle, error) {
	if radius <= 0.0 {
		return nil, valueOutOfRange("radius", radius, "greater than zero")
	}
	return &Circle{AbstractShape{Radius: radius}}, nil
}

// GetType returns ShapeTypeCircle.
func (c *Circle) GetType() ShapeType {
	return ShapeTypeCircle
}

// GetRotationRadius returns the enclosing disc radius about the given
// local point.
func (c *Circle) GetRotationRadius(center *Vector2) float64 {
	return center.Distance(&c.Center) + c.Radius
}

// Translate moves the circle in its local frame.
func (c *Circle) Translate(x, y float64) {
	c.Center.X += x
	c.Center.Y += y
}

// Rotate rotates the circle about the local origin.
func (c *Circle) Rotate(theta float64) {
	c.RotateAboutPoint(theta, 0.0, 0.0)
}

// RotateAboutPoint rotates the circle about the given local point.
func (c *Circle) RotateAboutPoint(theta, x, y float64) {
	c.Center.RotateAbout(theta, x, y)
}

// Project projects the circle onto the given unit world axis.
func (c *Circle) Project(axis *Vector2, transform *Transform) *Interval {
	center := transform.GetTransformed(&c.Center)
	d := center.Dot(axis)
	return &Interval{Min: d - c.Radius, Max: d + c.Radius}
}

// Contains returns true if the given world point lies in the circle.
func (c *Circle) Contains(point *Vector2, transform *Transform) bool {
	center := transform.GetTransformed(&c.Center)
	return center.DistanceSquared(point) <= c.Radius*c.Radius
}

// CreateAABB returns the world bounds of the circle.
func (c *Circle) CreateAABB(transform *Transform) *AABB {
	center := transform.GetTransformed(&c.Center)
	return &AABB{
		MinX: center.X - c.Radius,
		MinY: center.Y - c.Radius,
		MaxX: center.X + c.Radius,
		MaxY: center.Y + c.Radius,
	}
}

// CreateMass computes the mass of the circle at the given density,
// with inertia m r^2 / 2 about the center.
func (c *Circle) CreateMass(density float64) *Mass {
	r2 := c.Radius * c.Radius
	mass := density * math.Pi * r2
	inertia := mass * r2 * 0.5
	m, _ := NewMass(&c.Center, mass, inertia)
	return m
}

// GetAxes returns no axes; circle separation is fully captured by its
// focal point.
func (c *Circle) GetAxes(foci []*Vector2, transform *Transform) ([]*Vector2, error) {
	return nil, nil
}

// GetFoci returns the world center of the circle.
func (c *Circle) GetFoci(transform *Transform) ([]*Vector2, error) {
	return []*Vector2{transform.GetTransformed(&c.Center)}, nil
}

// GetFarthestPoint returns the boundary point farthest in the given
// world direction.
func (c *Circle) GetFarthestPoint(vector *Vector2, transform *Transform) *Vector2 {
	n := vector.GetNormalized()
	center := transform.GetTransformed(&c.Center)
	center.X += c.Radius * n.X
	center.Y += c.Radius * n.Y
	return center
}

// GetFarthestFeature returns the farthest boundary point; a circle has
// no edges.
func (c *Circle) GetFarthestFeature(vector *Vector2, transform *Transform) Feature {
	return NewPointFeature(c.GetFarthestPoint(vector, transform), FeatureNotIndexed)
}

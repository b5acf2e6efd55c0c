package dyn4go

import (
	"fmt"
)

// Penetration carries the result of an overlapping detect call. The
// normal points from the first convex toward the second and translating
// the second convex along the normal by the depth separates the pair.
type Penetration struct {
	Normal Vector2
	Depth  float64
}

// Clear resets this penetration for reuse.
func (p *Penetration) Clear() {
	p.Normal.Zero()
	p.Depth = 0.0
}

// Separation carries the result of a non overlapping distance call. The
// normal points from the first convex toward the second, Point1 and
// Point2 are the closest points on the respective convexes.
type Separation struct {
	Normal   Vector2
	Distance float64
	Point1   Vector2
	Point2   Vector2
}

// Clear resets this separation for reuse.
func (s *Separation) Clear() {
	s.Normal.Zero()
	s.Distance = 0.0
	s.Point1.Zero()
	s.Point2.Zero()
}

// NarrowphaseDetector determines whether two convex shapes overlap.
type NarrowphaseDetector interface {
	// Detect returns true if the given convex shapes overlap. When
	// penetration is non nil and the shapes overlap it is filled with
	// the separation normal and depth.
	Detect(convex1 Convex, transform1 *Transform, convex2 Convex, transform2 *Transform, penetration *Penetration) (bool, error)
}

// DistanceDetector determines the closest points between two separated
// convex shapes.
type DistanceDetector interface {
	// Distance returns true if the given convex shapes are separated
	// and fills the separation with the closest points, the normal,
	// and the distance between them. Overlapping shapes return false.
	Distance(convex1 Convex, transform1 *Transform, convex2 Convex, transform2 *Transform, separation *Separation) (bool, error)
}

// Ray is a world space ray used by the raycast detectors.
type Ray struct {
	Start     Vector2
	Direction Vector2
}

// NewRay creates a ray from the given start point along the given
// direction. The direction is normalized and may not be the zero
// vector.
func NewRay(start, direction *Vector2) (*Ray, error) {
	if start == nil || direction == nil {
		return nil, fmt.Errorf("%w: ray start and direction", ErrNilArgument)
	}
	d := direction.GetNormalized()
	if d.IsZero() {
		return nil, fmt.Errorf("%w: ray direction must not be the zero vector", ErrInvalidGeometry)
	}
	return &Ray{Start: *start, Direction: *d}, nil
}

// Raycast carries the result of a raycast, the hit point on the shape
// boundary, the outward surface normal there, and the distance from
// the ray start.
type Raycast struct {
	Point    Vector2
	Normal   Vector2
	Distance float64
}

// Clear resets this raycast for reuse.
func (r *Raycast) Clear() {
	r.Point.Zero()
	r.Normal.Zero()
	r.Distance = 0.0
}

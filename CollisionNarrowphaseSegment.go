package dyn4go

import (
	"math"
)

// RaycastSegment casts the given ray against the given segment. A ray
// starting on the segment misses. A maxLength of zero or less means
// unbounded length.
func RaycastSegment(ray *Ray, maxLength float64, segment *Segment, transform *Transform, raycast *Raycast) bool {
	p0 := &ray.Start
	d0 := &ray.Direction
	p1 := transform.GetTransformed(&segment.Vertices[0])
	p2 := transform.GetTransformed(&segment.Vertices[1])
	d1 := p1.To(p2)

	isVertical := math.Abs(d1.X) <= Epsilon
	isHorizontal := math.Abs(d1.Y) <= Epsilon
	if isVertical && isHorizontal {
		// degenerate segment
		return false
	}

	if segment.Contains(p0, transform) {
		return false
	}

	// solving P = tD0 + P0 against P = sD1 + P1 for t gives
	// t = D1.cross(P1 - P0) / D1.cross(D0)
	num := d1.Cross(p1.Difference(p0))
	den := d1.Cross(d0)

	if math.Abs(den) <= Epsilon {
		// parallel, possibly collinear
		n := d0.GetRightHandOrthogonalVector()
		if math.Abs(n.Dot(p0)-n.Dot(p1)) < Epsilon {
			// collinear, the hit is the nearer endpoint along the ray
			d0DotP0 := d0.Dot(p0)
			t1 := d0.Dot(p1) - d0DotP0
			t2 := d0.Dot(p2) - d0DotP0
			if t1 < 0.0 || t2 < 0.0 {
				return false
			}
			t := t1
			p := p1
			if t2 < t1 {
				t = t2
				p = p2
			}
			if maxLength > 0.0 && t > maxLength {
				return false
			}
			raycast.Point.SetVector2(p)
			raycast.Normal.Set(-d0.X, -d0.Y)
			raycast.Distance = t
			return true
		}
		return false
	}

	t := num / den
	if t < 0.0 {
		return false
	}
	if maxLength > 0.0 && t > maxLength {
		return false
	}

	var s float64
	if isVertical {
		s = (t*d0.Y + p0.Y - p1.Y) / d1.Y
	} else {
		s = (t*d0.X + p0.X - p1.X) / d1.X
	}
	if s < 0.0 || s > 1.0 {
		return false
	}

	p := d0.Product(t).Add(p0)
	// surface normal facing the ray origin
	n := p1.To(p2)
	n.Normalize()
	n.Right()
	if n.Dot(d0) > 0.0 {
		n.Negate()
	}

	raycast.Point.SetVector2(p)
	raycast.Normal.SetVector2(n)
	raycast.Distance = t
	return true
}

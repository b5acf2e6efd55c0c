package dyn4go

import (
	"math"
)

// DetectCircles is the closed form overlap test for a pair of circles.
// SAT and GJK both shortcut to it. Touching circles do not overlap.
// When penetration is non nil and the circles overlap it receives the
// normal from circle1 toward circle2 and the overlap depth.
func DetectCircles(circle1 *Circle, transform1 *Transform, circle2 *Circle, transform2 *Transform, penetration *Penetration) bool {
	ce1 := transform1.GetTransformed(&circle1.Center)
	ce2 := transform2.GetTransformed(&circle2.Center)
	v := ce1.To(ce2)
	radii := circle1.Radius + circle2.Radius
	if v.GetMagnitudeSquared() >= radii*radii {
		return false
	}
	if penetration != nil {
		// coincident centers leave the normal zero
		m := v.Normalize()
		penetration.Normal.SetVector2(v)
		penetration.Depth = radii - m
	}
	return true
}

// DistanceCircles is the closed form closest point query for a pair of
// separated circles. Overlapping circles return false. Touching
// circles are separated at distance zero.
func DistanceCircles(circle1 *Circle, transform1 *Transform, circle2 *Circle, transform2 *Transform, separation *Separation) bool {
	ce1 := transform1.GetTransformed(&circle1.Center)
	ce2 := transform2.GetTransformed(&circle2.Center)
	r1 := circle1.Radius
	r2 := circle2.Radius
	v := ce1.To(ce2)
	radii := r1 + r2
	if v.GetMagnitudeSquared() < radii*radii {
		return false
	}
	m := v.Normalize()
	separation.Normal.SetVector2(v)
	separation.Distance = m - radii
	separation.Point1.Set(ce1.X+v.X*r1, ce1.Y+v.Y*r1)
	separation.Point2.Set(ce2.X-v.X*r2, ce2.Y-v.Y*r2)
	return true
}

// RaycastCircle casts the given ray against the given circle. A ray
// starting inside the circle misses. A maxLength of zero or less means
// unbounded length.
func RaycastCircle(ray *Ray, maxLength float64, circle *Circle, transform *Transform, raycast *Raycast) bool {
	s := &ray.Start
	d := &ray.Direction
	ce := transform.GetTransformed(&circle.Center)
	r := circle.Radius

	if circle.Contains(s, transform) {
		return false
	}

	// substitute P = tD + S into the circle equation and solve the
	// quadratic for t
	sMinusC := s.Difference(ce)
	a := d.Dot(d)
	b := 2.0 * d.Dot(sMinusC)
	c := sMinusC.Dot(sMinusC) - r*r

	inv2a := 1.0 / (2.0 * a)
	disc := b*b - 4.0*a*c
	if disc < 0.0 {
		return false
	}
	sqrt := math.Sqrt(disc)
	t := (-b - sqrt) * inv2a
	if t < 0.0 {
		t = (-b + sqrt) * inv2a
		if t < 0.0 {
			return false
		}
	}
	if maxLength > 0.0 && t > maxLength {
		return false
	}

	p := d.Product(t).Add(s)
	n := ce.To(p)
	n.Normalize()

	raycast.Point.SetVector2(p)
	raycast.Normal.SetVector2(n)
	raycast.Distance = t
	return true
}

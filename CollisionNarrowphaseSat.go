package dyn4go

import (
	"fmt"
	"math"
)

// Sat is a separating axis implementation of NarrowphaseDetector. It
// tests the face normals and focal axes of both shapes and keeps the
// axis of minimum overlap. Shape types with infinitely many candidate
// axes (the ellipse family) are rejected with ErrSatNotSupported, the
// fallback dispatch routes those pairs to a distance based detector.
type Sat struct{}

// NewSat creates a new separating axis detector.
func NewSat() *Sat {
	return &Sat{}
}

// Detect returns true if the given convex shapes overlap. Overlap of
// measure zero, shapes merely sharing a boundary point, counts as
// separated.
func (sat *Sat) Detect(convex1 Convex, transform1 *Transform, convex2 Convex, transform2 *Transform, penetration *Penetration) (bool, error) {
	// circle pairs have a closed form solution
	if c1, ok := convex1.(*Circle); ok {
		if c2, ok := convex2.(*Circle); ok {
			return DetectCircles(c1, transform1, c2, transform2, penetration), nil
		}
	}

	foci1, err := convex1.GetFoci(transform1)
	if err != nil {
		return false, fmt.Errorf("sat: %v foci: %w", convex1.GetType(), err)
	}
	foci2, err := convex2.GetFoci(transform2)
	if err != nil {
		return false, fmt.Errorf("sat: %v foci: %w", convex2.GetType(), err)
	}
	axes1, err := convex1.GetAxes(foci2, transform1)
	if err != nil {
		return false, fmt.Errorf("sat: %v axes: %w", convex1.GetType(), err)
	}
	axes2, err := convex2.GetAxes(foci1, transform2)
	if err != nil {
		return false, fmt.Errorf("sat: %v axes: %w", convex2.GetType(), err)
	}

	overlap := math.MaxFloat64
	var n *Vector2

	for _, axes := range [2][]*Vector2{axes1, axes2} {
		for _, axis := range axes {
			if axis.IsZero() {
				continue
			}
			i1 := convex1.Project(axis, transform1)
			i2 := convex2.Project(axis, transform2)
			if !i1.Overlaps(i2) {
				return false, nil
			}
			o := i1.GetOverlap(i2)
			contained := i1.Contains(i2) || i2.Contains(i1)
			if !contained && o <= Epsilon {
				// touching along this axis, not penetrating
				return false, nil
			}
			if contained {
				// one projection is inside the other, the exit
				// distance is the overlap plus the nearer end gap
				max := math.Abs(i1.Max - i2.Max)
				min := math.Abs(i1.Min - i2.Min)
				if max > min {
					o += min
				} else {
					o += max
				}
			}
			if o < overlap {
				overlap = o
				n = axis
			}
		}
	}

	if n == nil {
		return false, nil
	}

	if penetration != nil {
		// orient the normal from shape1 toward shape2
		c1 := transform1.GetTransformed(convex1.GetCenter())
		c2 := transform2.GetTransformed(convex2.GetCenter())
		if c1.To(c2).Dot(n) < 0.0 {
			n.Negate()
		}
		penetration.Normal.SetVector2(n)
		penetration.Depth = overlap
	}
	return true, nil
}

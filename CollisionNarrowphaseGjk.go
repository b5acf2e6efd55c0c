package dyn4go

import (
	"math"

	"go.uber.org/zap"
)

const (
	// DefaultGjkMaximumIterations bounds both the detect and the
	// distance loops.
	DefaultGjkMaximumIterations = 30
	// minimum allowed iteration bound
	minGjkIterations = 5
)

// DefaultGjkDistanceEpsilon is the convergence tolerance of the
// distance loop.
var DefaultGjkDistanceEpsilon = math.Sqrt(Epsilon)

// MinkowskiSum is the difference body of two convex shapes. The origin
// is contained in it exactly when the shapes overlap.
type MinkowskiSum struct {
	Convex1    Convex
	Transform1 *Transform
	Convex2    Convex
	Transform2 *Transform
}

// MinkowskiSumPoint is a support point of the difference body together
// with the points on the source shapes it was built from.
type MinkowskiSumPoint struct {
	SupportPoint1 *Vector2
	SupportPoint2 *Vector2
	Point         *Vector2
}

// GetSupportPoint returns the farthest point of the difference body in
// the given direction.
func (ms *MinkowskiSum) GetSupportPoint(direction *Vector2) *Vector2 {
	p1 := ms.Convex1.GetFarthestPoint(direction, ms.Transform1)
	direction.Negate()
	p2 := ms.Convex2.GetFarthestPoint(direction, ms.Transform2)
	direction.Negate()
	return p1.Subtract(p2)
}

// GetSupportPoints returns the farthest point of the difference body in
// the given direction and keeps the source shape points.
func (ms *MinkowskiSum) GetSupportPoints(direction *Vector2) *MinkowskiSumPoint {
	p1 := ms.Convex1.GetFarthestPoint(direction, ms.Transform1)
	direction.Negate()
	p2 := ms.Convex2.GetFarthestPoint(direction, ms.Transform2)
	direction.Negate()
	return &MinkowskiSumPoint{
		SupportPoint1: p1,
		SupportPoint2: p2,
		Point:         p1.Difference(p2),
	}
}

// MinkowskiPenetrationSolver turns the final overlapping simplex of a
// detect call into a penetration normal and depth.
type MinkowskiPenetrationSolver interface {
	GetPenetration(simplex []*Vector2, ms *MinkowskiSum, penetration *Penetration)
}

// Gjk is an iterative NarrowphaseDetector and DistanceDetector working
// on the Minkowski difference of the shapes. It supports every Convex
// through the farthest point query alone, so it also handles the shape
// types SAT rejects. Penetration normal and depth for overlapping pairs
// come from the configured MinkowskiPenetrationSolver.
type Gjk struct {
	penetrationSolver     MinkowskiPenetrationSolver
	maxDetectIterations   int
	maxDistanceIterations int
	distanceEpsilon       float64
	log                   *zap.Logger
}

// NewGjk creates a detector with the default iteration bounds and an
// Epa penetration solver.
func NewGjk() *Gjk {
	return &Gjk{
		penetrationSolver:     NewEpa(),
		maxDetectIterations:   DefaultGjkMaximumIterations,
		maxDistanceIterations: DefaultGjkMaximumIterations,
		distanceEpsilon:       DefaultGjkDistanceEpsilon,
		log:                   zap.NewNop(),
	}
}

// SetLogger replaces the diagnostic logger. A nil logger disables
// diagnostics.
func (gjk *Gjk) SetLogger(log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	gjk.log = log
}

// SetPenetrationSolver replaces the penetration solver used for
// overlapping pairs.
func (gjk *Gjk) SetPenetrationSolver(solver MinkowskiPenetrationSolver) error {
	if solver == nil {
		return ErrNilArgument
	}
	gjk.penetrationSolver = solver
	return nil
}

// SetMaximumDetectIterations sets the bound of the detect loop.
func (gjk *Gjk) SetMaximumDetectIterations(iterations int) error {
	if iterations < minGjkIterations {
		return valueOutOfRange("iterations", float64(iterations), "five or greater")
	}
	gjk.maxDetectIterations = iterations
	return nil
}

// SetMaximumDistanceIterations sets the bound of the distance loop.
func (gjk *Gjk) SetMaximumDistanceIterations(iterations int) error {
	if iterations < minGjkIterations {
		return valueOutOfRange("iterations", float64(iterations), "five or greater")
	}
	gjk.maxDistanceIterations = iterations
	return nil
}

// SetDistanceEpsilon sets the convergence tolerance of the distance
// loop.
func (gjk *Gjk) SetDistanceEpsilon(epsilon float64) error {
	if epsilon <= 0.0 {
		return valueOutOfRange("epsilon", epsilon, "greater than zero")
	}
	gjk.distanceEpsilon = epsilon
	return nil
}

// initialDirection returns the vector between the world centers of the
// shapes, or the x axis when they coincide.
func (gjk *Gjk) initialDirection(convex1 Convex, transform1 *Transform, convex2 Convex, transform2 *Transform) *Vector2 {
	c1 := transform1.GetTransformed(convex1.GetCenter())
	c2 := transform2.GetTransformed(convex2.GetCenter())
	d := c1.To(c2)
	if d.IsZero() {
		d.Set(1.0, 0.0)
	}
	return d
}

// Detect returns true if the given convex shapes overlap. Shapes whose
// boundaries merely touch do not overlap.
func (gjk *Gjk) Detect(convex1 Convex, transform1 *Transform, convex2 Convex, transform2 *Transform, penetration *Penetration) (bool, error) {
	// circle pairs have a closed form solution
	if c1, ok := convex1.(*Circle); ok {
		if c2, ok := convex2.(*Circle); ok {
			return DetectCircles(c1, transform1, c2, transform2, penetration), nil
		}
	}

	ms := &MinkowskiSum{Convex1: convex1, Transform1: transform1, Convex2: convex2, Transform2: transform2}
	d := gjk.initialDirection(convex1, transform1, convex2, transform2)

	simplex, overlap := gjk.detect(ms, d)
	if !overlap {
		return false, nil
	}
	if penetration != nil {
		gjk.penetrationSolver.GetPenetration(simplex, ms, penetration)
	}
	return true, nil
}

// detect runs the containment loop and returns the final simplex when
// the origin is enclosed.
func (gjk *Gjk) detect(ms *MinkowskiSum, d *Vector2) ([]*Vector2, bool) {
	if d.IsZero() {
		d.Set(1.0, 0.0)
	}
	simplex := make([]*Vector2, 0, 3)
	simplex = append(simplex, ms.GetSupportPoint(d))
	if simplex[0].Dot(d) <= 0.0 {
		return nil, false
	}
	d.Negate()
	for i := 0; i < gjk.maxDetectIterations; i++ {
		supportPoint := ms.GetSupportPoint(d)
		simplex = append(simplex, supportPoint)
		// the new point must pass the origin along d, an origin on
		// the boundary counts as no intersection
		if supportPoint.Dot(d) <= 0.0 {
			return nil, false
		}
		var contains bool
		simplex, contains = gjk.checkSimplex(simplex, d)
		if contains {
			return simplex, true
		}
	}
	gjk.log.Debug("gjk detect iteration bound reached",
		zap.Int("iterations", gjk.maxDetectIterations))
	return nil, false
}

// checkSimplex tests whether the current simplex encloses the origin.
// When it does not, the simplex is reduced to the feature closest to
// the origin and the search direction is pointed at the origin.
func (gjk *Gjk) checkSimplex(simplex []*Vector2, direction *Vector2) ([]*Vector2, bool) {
	a := simplex[len(simplex)-1]
	ao := a.GetNegative()
	if len(simplex) == 3 {
		b := simplex[1]
		c := simplex[0]
		ab := a.To(b)
		ac := a.To(c)
		abPerp := TripleProduct(ac, ab, ab)
		acPerp := TripleProduct(ab, ac, ac)
		if acPerp.Dot(ao) >= 0.0 {
			// origin beyond the a-c edge, drop b. The edge normal is
			// used instead of a triple product with ao so an origin
			// on the edge still yields a non zero direction.
			simplex[1] = simplex[2]
			simplex = simplex[:2]
			direction.SetVector2(acPerp)
		} else if abPerp.Dot(ao) < 0.0 {
			return simplex, true
		} else {
			// origin beyond the a-b edge, drop c
			simplex[0] = simplex[1]
			simplex[1] = simplex[2]
			simplex = simplex[:2]
			direction.SetVector2(abPerp)
		}
	} else {
		b := simplex[0]
		ab := a.To(b)
		perp := TripleProduct(ab, ao, ab)
		if perp.GetMagnitudeSquared() <= Epsilon {
			// origin on the segment, either normal works
			perp = ab.GetRightHandOrthogonalVector()
		}
		direction.SetVector2(perp)
	}
	return simplex, false
}

// Distance returns true when the given convex shapes are separated,
// filling the separation with the closest points between them.
func (gjk *Gjk) Distance(convex1 Convex, transform1 *Transform, convex2 Convex, transform2 *Transform, separation *Separation) (bool, error) {
	// circle pairs have a closed form solution
	if c1, ok := convex1.(*Circle); ok {
		if c2, ok := convex2.(*Circle); ok {
			return DistanceCircles(c1, transform1, c2, transform2, separation), nil
		}
	}

	ms := &MinkowskiSum{Convex1: convex1, Transform1: transform1, Convex2: convex2, Transform2: transform2}
	d := gjk.initialDirection(convex1, transform1, convex2, transform2)

	a := ms.GetSupportPoints(d)
	d.Negate()
	b := ms.GetSupportPoints(d)

	// the closest point to the origin on the current simplex drives
	// the next search direction
	d = GetPointOnSegmentClosestToPoint(&Vector2{}, b.Point, a.Point)
	var c *MinkowskiSumPoint
	for i := 0; i < gjk.maxDistanceIterations; i++ {
		d.Negate()
		if d.GetMagnitudeSquared() <= Epsilon {
			// the origin lies on the simplex, the shapes touch
			return false, nil
		}

		c = ms.GetSupportPoints(d)

		if containsOrigin(a.Point, b.Point, c.Point) {
			return false, nil
		}

		projection := c.Point.Dot(d)
		if projection-a.Point.Dot(d) < gjk.distanceEpsilon {
			d.Normalize()
			separation.Normal.SetVector2(d)
			separation.Distance = -c.Point.Dot(d)
			gjk.findClosestPoints(a, b, separation)
			return true, nil
		}

		p1 := GetPointOnSegmentClosestToPoint(&Vector2{}, a.Point, c.Point)
		p2 := GetPointOnSegmentClosestToPoint(&Vector2{}, c.Point, b.Point)
		if p1.GetMagnitudeSquared() < p2.GetMagnitudeSquared() {
			b = c
			d = p1
		} else {
			a = c
			d = p2
		}
	}
	gjk.log.Debug("gjk distance iteration bound reached",
		zap.Int("iterations", gjk.maxDistanceIterations))
	d.Normalize()
	separation.Normal.SetVector2(d)
	separation.Distance = -c.Point.Dot(d)
	gjk.findClosestPoints(a, b, separation)
	return true, nil
}

// findClosestPoints maps the closest point on the difference body back
// onto both source shapes by interpolating the support points.
func (gjk *Gjk) findClosestPoints(a, b *MinkowskiSumPoint, separation *Separation) {
	l := a.Point.To(b.Point)
	if l.IsZero() {
		separation.Point1.SetVector2(a.SupportPoint1)
		separation.Point2.SetVector2(a.SupportPoint2)
		return
	}
	l2 := -l.Dot(a.Point) / l.Dot(l)
	if l2 > 1.0 {
		separation.Point1.SetVector2(b.SupportPoint1)
		separation.Point2.SetVector2(b.SupportPoint2)
	} else if l2 < 0.0 {
		separation.Point1.SetVector2(a.SupportPoint1)
		separation.Point2.SetVector2(a.SupportPoint2)
	} else {
		separation.Point1.Set(
			a.SupportPoint1.X+l2*(b.SupportPoint1.X-a.SupportPoint1.X),
			a.SupportPoint1.Y+l2*(b.SupportPoint1.Y-a.SupportPoint1.Y))
		separation.Point2.Set(
			a.SupportPoint2.X+l2*(b.SupportPoint2.X-a.SupportPoint2.X),
			a.SupportPoint2.Y+l2*(b.SupportPoint2.Y-a.SupportPoint2.Y))
	}
}

// containsOrigin returns true if the origin lies inside the triangle
// a, b, c.
func containsOrigin(a, b, c *Vector2) bool {
	sa := a.Cross(b)
	sb := b.Cross(c)
	sc := c.Cross(a)
	return sa*sb > 0.0 && sa*sc > 0.0
}

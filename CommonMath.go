package dyn4go

import (
	"math"
)

// Epsilon approximates the smallest value E such that 1.0 + E == 1.0
// in double precision arithmetic. Used as the cutoff for degenerate
// normalization, singular matrices, and solver guards.
var Epsilon = computeEpsilon()

func computeEpsilon() float64 {
	e := 0.5
	for 1.0+e > 1.0 {
		e *= 0.5
	}
	return e
}

// Clamp returns value limited to the range [min, max].
func Clamp(value, min, max float64) float64 {
	if value <= min {
		return min
	}
	if value >= max {
		return max
	}
	return value
}

// Vector2 represents a point or direction in 2D space.
//
// The API comes in two flavors that must not be confused. Mutating
// methods (Add, Subtract, Multiply, Negate, Normalize, ...) modify the
// receiver in place and return it for chaining. Their pure counterparts
// (Sum, Difference, Product, GetNegative, GetNormalized, ...) leave the
// receiver untouched and allocate a new vector.
type Vector2 struct {
	X, Y float64
}

// NewVector2 creates a new Vector2 with the given components.
func NewVector2(x, y float64) *Vector2 {
	return &Vector2{X: x, Y: y}
}

// Copy returns a new vector with the same components.
func (v *Vector2) Copy() *Vector2 {
	return &Vector2{X: v.X, Y: v.Y}
}

// Set sets the components of this vector and returns it.
func (v *Vector2) Set(x, y float64) *Vector2 {
	v.X = x
	v.Y = y
	return v
}

// SetVector2 copies the components of the given vector into this one.
func (v *Vector2) SetVector2(o *Vector2) *Vector2 {
	v.X = o.X
	v.Y = o.Y
	return v
}

// Zero sets both components to zero and returns this vector.
func (v *Vector2) Zero() *Vector2 {
	v.X = 0.0
	v.Y = 0.0
	return v
}

// IsZero returns true if both components are exactly zero.
func (v *Vector2) IsZero() bool {
	return v.X == 0.0 && v.Y == 0.0
}

// Add adds the given vector to this vector.
func (v *Vector2) Add(o *Vector2) *Vector2 {
	v.X += o.X
	v.Y += o.Y
	return v
}

// Sum returns a new vector containing the sum of this vector and the
// given vector.
func (v *Vector2) Sum(o *Vector2) *Vector2 {
	return &Vector2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Subtract subtracts the given vector from this vector.
func (v *Vector2) Subtract(o *Vector2) *Vector2 {
	v.X -= o.X
	v.Y -= o.Y
	return v
}

// Difference returns a new vector containing this vector minus the
// given vector.
func (v *Vector2) Difference(o *Vector2) *Vector2 {
	return &Vector2{X: v.X - o.X, Y: v.Y - o.Y}
}

// To returns a new vector from this point to the given point.
func (v *Vector2) To(o *Vector2) *Vector2 {
	return &Vector2{X: o.X - v.X, Y: o.Y - v.Y}
}

// Multiply scales this vector by the given scalar.
func (v *Vector2) Multiply(scalar float64) *Vector2 {
	v.X *= scalar
	v.Y *= scalar
	return v
}

// Product returns a new vector containing this vector scaled by the
// given scalar.
func (v *Vector2) Product(scalar float64) *Vector2 {
	return &Vector2{X: v.X * scalar, Y: v.Y * scalar}
}

// Negate flips the sign of both components of this vector.
func (v *Vector2) Negate() *Vector2 {
	v.X = -v.X
	v.Y = -v.Y
	return v
}

// GetNegative returns a new vector that is the negative of this vector.
func (v *Vector2) GetNegative() *Vector2 {
	return &Vector2{X: -v.X, Y: -v.Y}
}

// Dot returns the dot product of this vector and the given vector.
func (v *Vector2) Dot(o *Vector2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Cross returns the z component of the cross product of this vector
// and the given vector.
func (v *Vector2) Cross(o *Vector2) float64 {
	return v.X*o.Y - v.Y*o.X
}

// CrossZ returns a new vector containing the cross product of this
// vector and the given z value.
func (v *Vector2) CrossZ(z float64) *Vector2 {
	return &Vector2{X: -v.Y * z, Y: v.X * z}
}

// GetMagnitude returns the length of this vector.
func (v *Vector2) GetMagnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// GetMagnitudeSquared returns the squared length of this vector.
func (v *Vector2) GetMagnitudeSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Distance returns the distance between this point and the given point.
func (v *Vector2) Distance(o *Vector2) float64 {
	dx := v.X - o.X
	dy := v.Y - o.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// DistanceSquared returns the squared distance between this point and
// the given point.
func (v *Vector2) DistanceSquared(o *Vector2) float64 {
	dx := v.X - o.X
	dy := v.Y - o.Y
	return dx*dx + dy*dy
}

// Normalize converts this vector into a unit vector and returns the
// magnitude it had before normalization. A vector with magnitude at or
// below Epsilon is left unchanged and zero is returned.
func (v *Vector2) Normalize() float64 {
	magnitude := math.Sqrt(v.X*v.X + v.Y*v.Y)
	if magnitude <= Epsilon {
		return 0.0
	}
	m := 1.0 / magnitude
	v.X *= m
	v.Y *= m
	return magnitude
}

// GetNormalized returns a new unit vector in the direction of this
// vector, or the zero vector if this vector is degenerate.
func (v *Vector2) GetNormalized() *Vector2 {
	magnitude := math.Sqrt(v.X*v.X + v.Y*v.Y)
	if magnitude <= Epsilon {
		return &Vector2{}
	}
	m := 1.0 / magnitude
	return &Vector2{X: v.X * m, Y: v.Y * m}
}

// Left rotates this vector 90 degrees clockwise, yielding (y, -x).
func (v *Vector2) Left() *Vector2 {
	v.X, v.Y = v.Y, -v.X
	return v
}

// GetLeftHandOrthogonalVector returns a new vector that is this vector
// rotated 90 degrees clockwise.
func (v *Vector2) GetLeftHandOrthogonalVector() *Vector2 {
	return &Vector2{X: v.Y, Y: -v.X}
}

// Right rotates this vector 90 degrees counterclockwise, yielding (-y, x).
func (v *Vector2) Right() *Vector2 {
	v.X, v.Y = -v.Y, v.X
	return v
}

// GetRightHandOrthogonalVector returns a new vector that is this vector
// rotated 90 degrees counterclockwise.
func (v *Vector2) GetRightHandOrthogonalVector() *Vector2 {
	return &Vector2{X: -v.Y, Y: v.X}
}

// Rotate rotates this vector about the origin by the given angle in
// radians.
func (v *Vector2) Rotate(theta float64) *Vector2 {
	cos := math.Cos(theta)
	sin := math.Sin(theta)
	x := v.X
	y := v.Y
	v.X = x*cos - y*sin
	v.Y = x*sin + y*cos
	return v
}

// RotateAbout rotates this vector about the given point by the given
// angle in radians.
func (v *Vector2) RotateAbout(theta, x, y float64) *Vector2 {
	v.X -= x
	v.Y -= y
	v.Rotate(theta)
	v.X += x
	v.Y += y
	return v
}

// TripleProduct returns the vector triple product b(a . c) - a(b . c)
// of the three given vectors.
func TripleProduct(a, b, c *Vector2) *Vector2 {
	ac := a.X*c.X + a.Y*c.Y
	bc := b.X*c.X + b.Y*c.Y
	return &Vector2{
		X: b.X*ac - a.X*bc,
		Y: b.Y*ac - a.Y*bc,
	}
}

// Interval represents a closed range [Min, Max] on the real number
// line. Callers are expected to maintain Min <= Max.
type Interval struct {
	Min, Max float64
}

// NewInterval creates a new Interval over [min, max].
func NewInterval(min, max float64) *Interval {
	return &Interval{Min: min, Max: max}
}

// Overlaps returns true if this interval and the given interval share
// at least one value, including a single touching endpoint.
func (i *Interval) Overlaps(o *Interval) bool {
	return !(i.Min > o.Max || o.Min > i.Max)
}

// GetOverlap returns the amount of overlap between this interval and
// the given interval, or zero if they do not overlap.
func (i *Interval) GetOverlap(o *Interval) float64 {
	if !i.Overlaps(o) {
		return 0.0
	}
	return math.Min(i.Max, o.Max) - math.Max(i.Min, o.Min)
}

// Contains returns true if the given interval lies entirely inside
// this interval, endpoints included.
func (i *Interval) Contains(o *Interval) bool {
	return o.Min >= i.Min && o.Max <= i.Max
}

// Matrix22 is a 2x2 matrix in row major order.
type Matrix22 struct {
	M00, M01 float64
	M10, M11 float64
}

// NewMatrix22 creates a new zero Matrix22.
func NewMatrix22() *Matrix22 {
	return &Matrix22{}
}

// Determinant returns the determinant of this matrix.
func (m *Matrix22) Determinant() float64 {
	return m.M00*m.M11 - m.M01*m.M10
}

// Solve solves the system Ax = b for x, where A is this matrix, and
// returns x as a new vector. A singular matrix yields the zero vector.
func (m *Matrix22) Solve(b *Vector2) *Vector2 {
	det := m.M00*m.M11 - m.M01*m.M10
	invDet := 0.0
	if math.Abs(det) > Epsilon {
		invDet = 1.0 / det
	}
	return &Vector2{
		X: invDet * (m.M11*b.X - m.M01*b.Y),
		Y: invDet * (m.M00*b.Y - m.M10*b.X),
	}
}

// Invert inverts this matrix in place. A singular matrix becomes the
// zero matrix.
func (m *Matrix22) Invert() *Matrix22 {
	det := m.M00*m.M11 - m.M01*m.M10
	invDet := 0.0
	if math.Abs(det) > Epsilon {
		invDet = 1.0 / det
	}
	m00 := m.M00
	m.M00 = invDet * m.M11
	m.M01 = -invDet * m.M01
	m.M10 = -invDet * m.M10
	m.M11 = invDet * m00
	return m
}

// GetInverse returns a new matrix containing the inverse of this
// matrix, or the zero matrix if this matrix is singular.
func (m *Matrix22) GetInverse() *Matrix22 {
	c := &Matrix22{M00: m.M00, M01: m.M01, M10: m.M10, M11: m.M11}
	return c.Invert()
}

// Multiply multiplies the given vector by this matrix in place and
// returns it.
func (m *Matrix22) Multiply(v *Vector2) *Vector2 {
	x := v.X
	y := v.Y
	v.X = m.M00*x + m.M01*y
	v.Y = m.M10*x + m.M11*y
	return v
}

// Product returns a new vector containing the given vector multiplied
// by this matrix.
func (m *Matrix22) Product(v *Vector2) *Vector2 {
	return &Vector2{
		X: m.M00*v.X + m.M01*v.Y,
		Y: m.M10*v.X + m.M11*v.Y,
	}
}

// Transform represents a rotation followed by a translation, used to
// place collision geometry in world space.
type Transform struct {
	// Cost and Sint cache the cosine and sine of the rotation angle.
	Cost, Sint float64
	// X and Y hold the translation.
	X, Y float64
}

// NewTransform creates a new identity Transform.
func NewTransform() *Transform {
	return &Transform{Cost: 1.0}
}

// Identity resets this transform to the identity transform.
func (t *Transform) Identity() *Transform {
	t.Cost = 1.0
	t.Sint = 0.0
	t.X = 0.0
	t.Y = 0.0
	return t
}

// Copy returns a new transform with the same rotation and translation.
func (t *Transform) Copy() *Transform {
	return &Transform{Cost: t.Cost, Sint: t.Sint, X: t.X, Y: t.Y}
}

// Translate adds the given amounts to this transform's translation.
func (t *Transform) Translate(x, y float64) {
	t.X += x
	t.Y += y
}

// SetTranslation sets this transform's translation.
func (t *Transform) SetTranslation(x, y float64) {
	t.X = x
	t.Y = y
}

// GetTranslation returns this transform's translation as a new vector.
func (t *Transform) GetTranslation() *Vector2 {
	return &Vector2{X: t.X, Y: t.Y}
}

// SetRotation sets this transform's rotation to the given angle in
// radians, leaving the translation untouched.
func (t *Transform) SetRotation(theta float64) {
	t.Cost = math.Cos(theta)
	t.Sint = math.Sin(theta)
}

// GetRotationAngle returns this transform's rotation angle in radians.
func (t *Transform) GetRotationAngle() float64 {
	return math.Atan2(t.Sint, t.Cost)
}

// Rotate rotates this transform about the origin by the given angle,
// rotating both the orientation and the translation.
func (t *Transform) Rotate(theta float64) {
	cos := math.Cos(theta)
	sin := math.Sin(theta)
	cost := t.Cost
	sint := t.Sint
	t.Cost = cos*cost - sin*sint
	t.Sint = sin*cost + cos*sint
	x := t.X
	y := t.Y
	t.X = cos*x - sin*y
	t.Y = sin*x + cos*y
}

// RotateAbout rotates this transform about the given point by the
// given angle.
func (t *Transform) RotateAbout(theta, x, y float64) {
	cos := math.Cos(theta)
	sin := math.Sin(theta)
	cost := t.Cost
	sint := t.Sint
	t.Cost = cos*cost - sin*sint
	t.Sint = sin*cost + cos*sint
	dx := t.X - x
	dy := t.Y - y
	t.X = cos*dx - sin*dy + x
	t.Y = sin*dx + cos*dy + y
}

// GetTransformed returns the given local space point in world space.
func (t *Transform) GetTransformed(v *Vector2) *Vector2 {
	return &Vector2{
		X: t.Cost*v.X - t.Sint*v.Y + t.X,
		Y: t.Sint*v.X + t.Cost*v.Y + t.Y,
	}
}

// GetInverseTransformed returns the given world space point in local
// space.
func (t *Transform) GetInverseTransformed(v *Vector2) *Vector2 {
	dx := v.X - t.X
	dy := v.Y - t.Y
	return &Vector2{
		X: t.Cost*dx + t.Sint*dy,
		Y: -t.Sint*dx + t.Cost*dy,
	}
}

// GetTransformedR rotates the given vector into world space without
// applying the translation.
func (t *Transform) GetTransformedR(v *Vector2) *Vector2 {
	return &Vector2{
		X: t.Cost*v.X - t.Sint*v.Y,
		Y: t.Sint*v.X + t.Cost*v.Y,
	}
}

// GetInverseTransformedR rotates the given vector into local space
// without applying the translation.
func (t *Transform) GetInverseTransformedR(v *Vector2) *Vector2 {
	return &Vector2{
		X: t.Cost*v.X + t.Sint*v.Y,
		Y: -t.Sint*v.X + t.Cost*v.Y,
	}
}

package dyn4go

import (
	"math"
)

// Ellipse is an axis aligned ellipse optionally rotated in its local
// frame. Ellipses have no usable separating axes so they are only
// supported by the distance based detectors.
type Ellipse struct {
	AbstractShape
	halfWidth  float64
	halfHeight float64
	// cost and sint cache the local rotation applied through Rotate.
	cost, sint float64
}

// NewEllipse creates an ellipse from the full width and height of its
// bounding box, centered at the local origin.
func NewEllipse(width, height float64) (*Ellipse, error) {
	if width <= 0.0 {
		return nil, valueOutOfRange("width", width, "greater than zero")
	}
	if height <= 0.0 {
		return nil, valueOutOfRange("height", height, "greater than zero")
	}
	e := &Ellipse{
		halfWidth:  width * 0.5,
		halfHeight: height * 0.5,
		cost:       1.0,
	}
	e.Radius = math.Max(e.halfWidth, e.halfHeight)
	return e, nil
}

// GetType returns ShapeTypeEllipse.
func (e *Ellipse) GetType() ShapeType {
	return ShapeTypeEllipse
}

// GetHalfWidth returns the semi axis along the local x axis.
func (e *Ellipse) GetHalfWidth() float64 {
	return e.halfWidth
}

// GetHalfHeight returns the semi axis along the local y axis.
func (e *Ellipse) GetHalfHeight() float64 {
	return e.halfHeight
}

// GetRotationRadius returns the enclosing disc radius about the given
// local point.
func (e *Ellipse) GetRotationRadius(center *Vector2) float64 {
	return center.Distance(&e.Center) + math.Max(e.halfWidth, e.halfHeight)
}

// Translate moves the ellipse in its local frame.
func (e *Ellipse) Translate(x, y float64) {
	e.Center.X += x
	e.Center.Y += y
}

// Rotate rotates the ellipse about the local origin.
func (e *Ellipse) Rotate(theta float64) {
	e.RotateAboutPoint(theta, 0.0, 0.0)
}

// RotateAboutPoint rotates the ellipse about the given local point.
func (e *Ellipse) RotateAboutPoint(theta, x, y float64) {
	e.Center.RotateAbout(theta, x, y)
	cos := math.Cos(theta)
	sin := math.Sin(theta)
	cost := e.cost
	sint := e.sint
	e.cost = cos*cost - sin*sint
	e.sint = sin*cost + cos*sint
}

// getLocalFarthestPoint returns the local space boundary point farthest
// in the given local space direction.
func (e *Ellipse) getLocalFarthestPoint(localAxis *Vector2) *Vector2 {
	// align the direction with the unrotated ellipse frame and stretch
	// it by the semi axes, the renormalized result is the support
	// parameter of the boundary point
	x := (e.cost*localAxis.X + e.sint*localAxis.Y) * e.halfWidth
	y := (-e.sint*localAxis.X + e.cost*localAxis.Y) * e.halfHeight
	m := math.Sqrt(x*x + y*y)
	if m <= Epsilon {
		return e.Center.Copy()
	}
	x = x / m * e.halfWidth
	y = y / m * e.halfHeight
	return &Vector2{
		X: e.cost*x - e.sint*y + e.Center.X,
		Y: e.sint*x + e.cost*y + e.Center.Y,
	}
}

// GetFarthestPoint returns the boundary point farthest in the given
// world direction.
func (e *Ellipse) GetFarthestPoint(vector *Vector2, transform *Transform) *Vector2 {
	localAxis := transform.GetInverseTransformedR(vector)
	return transform.GetTransformed(e.getLocalFarthestPoint(localAxis))
}

// GetFarthestFeature returns the single farthest point. An ellipse has
// no flat edges.
func (e *Ellipse) GetFarthestFeature(vector *Vector2, transform *Transform) Feature {
	return NewPointFeature(e.GetFarthestPoint(vector, transform), FeatureNotIndexed)
}

// GetAxes returns ErrSatNotSupported. An ellipse has infinitely many
// candidate separating axes.
func (e *Ellipse) GetAxes(foci []*Vector2, transform *Transform) ([]*Vector2, error) {
	return nil, ErrSatNotSupported
}

// GetFoci returns ErrSatNotSupported.
func (e *Ellipse) GetFoci(transform *Transform) ([]*Vector2, error) {
	return nil, ErrSatNotSupported
}

// Project projects the ellipse onto the given unit world axis using the
// symmetry of the shape about its center.
func (e *Ellipse) Project(axis *Vector2, transform *Transform) *Interval {
	p := e.GetFarthestPoint(axis, transform)
	c := transform.GetTransformed(&e.Center).Dot(axis)
	d := p.Dot(axis)
	return &Interval{Min: 2.0*c - d, Max: d}
}

// Contains returns true if the given world point lies in the ellipse.
func (e *Ellipse) Contains(point *Vector2, transform *Transform) bool {
	local := transform.GetInverseTransformed(point)
	dx := local.X - e.Center.X
	dy := local.Y - e.Center.Y
	x := e.cost*dx + e.sint*dy
	y := -e.sint*dx + e.cost*dy
	a2 := e.halfWidth * e.halfWidth
	b2 := e.halfHeight * e.halfHeight
	return x*x/a2+y*y/b2 <= 1.0
}

// CreateAABB returns the world bounds of the ellipse.
func (e *Ellipse) CreateAABB(transform *Transform) *AABB {
	return createUnitAABB(e, transform)
}

// CreateMass computes the mass of the ellipse at the given density.
func (e *Ellipse) CreateMass(density float64) *Mass {
	area := math.Pi * e.halfWidth * e.halfHeight
	m := density * area
	i := m * (e.halfWidth*e.halfWidth + e.halfHeight*e.halfHeight) * 0.25
	mass, _ := NewMass(&e.Center, m, i)
	return mass
}

// HalfEllipse is the upper half of an ellipse closed by the flat edge
// between its base vertices. Like Ellipse it is only supported by the
// distance based detectors.
type HalfEllipse struct {
	AbstractShape
	halfWidth float64
	height    float64
	// cost and sint cache the local rotation applied through Rotate.
	cost, sint float64
	// ellipseCenter is the midpoint of the flat edge. The centroid
	// stored in Center sits above it inside the dome.
	ellipseCenter Vector2
	vertexLeft    Vector2
	vertexRight   Vector2
}

// NewHalfEllipse creates a half ellipse from the full width of the flat
// edge and the height of the dome, with the flat edge centered at the
// local origin.
func NewHalfEllipse(width, height float64) (*HalfEllipse, error) {
	if width <= 0.0 {
		return nil, valueOutOfRange("width", width, "greater than zero")
	}
	if height <= 0.0 {
		return nil, valueOutOfRange("height", height, "greater than zero")
	}
	h := &HalfEllipse{
		halfWidth: width * 0.5,
		height:    height,
		cost:      1.0,
	}
	// centroid of a half ellipse relative to the flat edge midpoint
	h.Center = Vector2{Y: (4.0 * height) / (3.0 * math.Pi)}
	h.vertexLeft = Vector2{X: -h.halfWidth}
	h.vertexRight = Vector2{X: h.halfWidth}
	h.Radius = h.GetRotationRadius(&h.Center)
	return h, nil
}

// GetType returns ShapeTypeHalfEllipse.
func (h *HalfEllipse) GetType() ShapeType {
	return ShapeTypeHalfEllipse
}

// GetHalfWidth returns half the length of the flat edge.
func (h *HalfEllipse) GetHalfWidth() float64 {
	return h.halfWidth
}

// GetHeight returns the height of the dome above the flat edge.
func (h *HalfEllipse) GetHeight() float64 {
	return h.height
}

// GetEllipseCenter returns the local midpoint of the flat edge.
func (h *HalfEllipse) GetEllipseCenter() *Vector2 {
	return &h.ellipseCenter
}

// GetRotationRadius returns the enclosing disc radius about the given
// local point.
func (h *HalfEllipse) GetRotationRadius(center *Vector2) float64 {
	return center.Distance(&h.ellipseCenter) + math.Max(h.halfWidth, h.height)
}

// Translate moves the half ellipse in its local frame.
func (h *HalfEllipse) Translate(x, y float64) {
	h.Center.X += x
	h.Center.Y += y
	h.ellipseCenter.X += x
	h.ellipseCenter.Y += y
	h.vertexLeft.X += x
	h.vertexLeft.Y += y
	h.vertexRight.X += x
	h.vertexRight.Y += y
}

// Rotate rotates the half ellipse about the local origin.
func (h *HalfEllipse) Rotate(theta float64) {
	h.RotateAboutPoint(theta, 0.0, 0.0)
}

// RotateAboutPoint rotates the half ellipse about the given local
// point.
func (h *HalfEllipse) RotateAboutPoint(theta, x, y float64) {
	h.Center.RotateAbout(theta, x, y)
	h.ellipseCenter.RotateAbout(theta, x, y)
	h.vertexLeft.RotateAbout(theta, x, y)
	h.vertexRight.RotateAbout(theta, x, y)
	cos := math.Cos(theta)
	sin := math.Sin(theta)
	cost := h.cost
	sint := h.sint
	h.cost = cos*cost - sin*sint
	h.sint = sin*cost + cos*sint
}

// getLocalFarthestPoint returns the local space boundary point farthest
// in the given local space direction.
func (h *HalfEllipse) getLocalFarthestPoint(localAxis *Vector2) *Vector2 {
	// align the direction with the unrotated ellipse frame
	ax := h.cost*localAxis.X + h.sint*localAxis.Y
	ay := -h.sint*localAxis.X + h.cost*localAxis.Y
	// at or below the flat edge the farthest point is a base vertex
	if ay <= 0.0 {
		if ax >= 0.0 {
			return h.vertexRight.Copy()
		}
		return h.vertexLeft.Copy()
	}
	// dome point by the stretch and renormalize support construction
	x := ax * h.halfWidth
	y := ay * h.height
	m := math.Sqrt(x*x + y*y)
	if m <= Epsilon {
		return h.ellipseCenter.Copy()
	}
	x = x / m * h.halfWidth
	y = y / m * h.height
	return &Vector2{
		X: h.cost*x - h.sint*y + h.ellipseCenter.X,
		Y: h.sint*x + h.cost*y + h.ellipseCenter.Y,
	}
}

// GetFarthestPoint returns the boundary point farthest in the given
// world direction.
func (h *HalfEllipse) GetFarthestPoint(vector *Vector2, transform *Transform) *Vector2 {
	localAxis := transform.GetInverseTransformedR(vector)
	return transform.GetTransformed(h.getLocalFarthestPoint(localAxis))
}

// GetFarthestFeature returns the flat edge when the direction points
// below it, otherwise the farthest dome point.
func (h *HalfEllipse) GetFarthestFeature(vector *Vector2, transform *Transform) Feature {
	localAxis := transform.GetInverseTransformedR(vector)
	ay := -h.sint*localAxis.X + h.cost*localAxis.Y
	if ay < 0.0 {
		return farthestSegmentFeature(&h.vertexLeft, &h.vertexRight, vector, transform)
	}
	return NewPointFeature(h.GetFarthestPoint(vector, transform), FeatureNotIndexed)
}

// GetAxes returns ErrSatNotSupported. The dome has infinitely many
// candidate separating axes.
func (h *HalfEllipse) GetAxes(foci []*Vector2, transform *Transform) ([]*Vector2, error) {
	return nil, ErrSatNotSupported
}

// GetFoci returns ErrSatNotSupported.
func (h *HalfEllipse) GetFoci(transform *Transform) ([]*Vector2, error) {
	return nil, ErrSatNotSupported
}

// Project projects the half ellipse onto the given unit world axis.
func (h *HalfEllipse) Project(axis *Vector2, transform *Transform) *Interval {
	p1 := h.GetFarthestPoint(axis, transform)
	p2 := h.GetFarthestPoint(axis.GetNegative(), transform)
	return &Interval{Min: p2.Dot(axis), Max: p1.Dot(axis)}
}

// Contains returns true if the given world point lies in the half
// ellipse.
func (h *HalfEllipse) Contains(point *Vector2, transform *Transform) bool {
	local := transform.GetInverseTransformed(point)
	dx := local.X - h.ellipseCenter.X
	dy := local.Y - h.ellipseCenter.Y
	x := h.cost*dx + h.sint*dy
	y := -h.sint*dx + h.cost*dy
	if y < 0.0 {
		return false
	}
	a2 := h.halfWidth * h.halfWidth
	b2 := h.height * h.height
	return x*x/a2+y*y/b2 <= 1.0
}

// CreateAABB returns the world bounds of the half ellipse.
func (h *HalfEllipse) CreateAABB(transform *Transform) *AABB {
	return createUnitAABB(h, transform)
}

// CreateMass computes the mass of the half ellipse at the given
// density. The inertia about the flat edge midpoint is shifted to the
// centroid.
func (h *HalfEllipse) CreateMass(density float64) *Mass {
	area := math.Pi * 0.5 * h.halfWidth * h.height
	m := density * area
	i := m * (h.halfWidth*h.halfWidth + h.height*h.height) * 0.25
	i -= m * h.Center.DistanceSquared(&h.ellipseCenter)
	mass, _ := NewMass(&h.Center, m, i)
	return mass
}

package dyn4go

import (
	"fmt"
	"math"
)

// Polygon is a convex polygon with counter-clockwise winding.
type Polygon struct {
	AbstractShape
	// Vertices holds the local vertices in counter-clockwise order.
	Vertices []Vector2
	// Normals holds the outward unit normal of each edge, where edge i
	// runs from vertex i to vertex i+1.
	Normals []Vector2
}

// NewPolygon creates a convex polygon from the given local vertices.
// The vertices must be in counter-clockwise order, non-coincident, and
// form a convex hull.
func NewPolygon(vertices ...*Vector2) (*Polygon, error) {
	size := len(vertices)
	if size < 3 {
		return nil, fmt.Errorf("%w: polygon requires at least 3 vertices", ErrInvalidGeometry)
	}
	for _, v := range vertices {
		if v == nil {
			return nil, ErrNilArgument
		}
	}
	area := 0.0
	for i := 0; i < size; i++ {
		p1 := vertices[i]
		p2 := vertices[(i+1)%size]
		if p1.DistanceSquared(p2) <= Epsilon {
			return nil, fmt.Errorf("%w: polygon has coincident vertices", ErrInvalidGeometry)
		}
		area += p1.Cross(p2)
	}
	if area <= 0.0 {
		return nil, fmt.Errorf("%w: polygon winding must be counter-clockwise", ErrInvalidGeometry)
	}
	for i := 0; i < size; i++ {
		p0 := vertices[i]
		p1 := vertices[(i+1)%size]
		p2 := vertices[(i+2)%size]
		if p0.To(p1).Cross(p1.To(p2)) < 0.0 {
			return nil, fmt.Errorf("%w: polygon must be convex", ErrInvalidGeometry)
		}
	}

	p := &Polygon{
		Vertices: make([]Vector2, size),
		Normals:  make([]Vector2, size),
	}
	for i := 0; i < size; i++ {
		p.Vertices[i] = *vertices[i]
		n := vertices[i].To(vertices[(i+1)%size]).Left()
		n.Normalize()
		p.Normals[i] = *n
	}
	p.Center = *polygonAreaCentroid(p.Vertices)
	r2 := 0.0
	for i := range p.Vertices {
		r2 = math.Max(r2, p.Center.DistanceSquared(&p.Vertices[i]))
	}
	p.Radius = math.Sqrt(r2)
	return p, nil
}

// Rectangle is an axis aligned rectangle. It shares the polygon query
// implementation but carries its own type tag, a rectangle is a member
// of the polygon tag family.
type Rectangle struct {
	Polygon
	width  float64
	height float64
}

// NewRectangle creates a rectangle of the given width and height
// centered at the local origin.
func NewRectangle(width, height float64) (*Rectangle, error) {
	if width <= 0.0 {
		return nil, valueOutOfRange("width", width, "greater than zero")
	}
	if height <= 0.0 {
		return nil, valueOutOfRange("height", height, "greater than zero")
	}
	hw := width * 0.5
	hh := height * 0.5
	p, err := NewPolygon(
		&Vector2{X: -hw, Y: -hh},
		&Vector2{X: hw, Y: -hh},
		&Vector2{X: hw, Y: hh},
		&Vector2{X: -hw, Y: hh},
	)
	if err != nil {
		return nil, err
	}
	return &Rectangle{Polygon: *p, width: width, height: height}, nil
}

// GetType returns ShapeTypeRectangle.
func (r *Rectangle) GetType() ShapeType {
	return ShapeTypeRectangle
}

// GetWidth returns the width.
func (r *Rectangle) GetWidth() float64 {
	return r.width
}

// GetHeight returns the height.
func (r *Rectangle) GetHeight() float64 {
	return r.height
}

// polygonAreaCentroid returns the area weighted centroid of the given
// counter-clockwise vertex list.
func polygonAreaCentroid(vertices []Vector2) *Vector2 {
	size := len(vertices)
	center := &Vector2{}
	area := 0.0
	const inv3 = 1.0 / 3.0
	for i := 0; i < size; i++ {
		p1 := &vertices[i]
		p2 := &vertices[(i+1)%size]
		triangle := p1.Cross(p2) * 0.5
		area += triangle
		center.Add(p1.Sum(p2).Multiply(inv3 * triangle))
	}
	if math.Abs(area) <= Epsilon {
		return &Vector2{}
	}
	return center.Multiply(1.0 / area)
}

// GetType returns ShapeTypePolygon.
func (p *Polygon) GetType() ShapeType {
	return ShapeTypePolygon
}

// GetRotationRadius returns the enclosing disc radius about the given
// local point.
func (p *Polygon) GetRotationRadius(center *Vector2) float64 {
	r2 := 0.0
	for i := range p.Vertices {
		r2 = math.Max(r2, center.DistanceSquared(&p.Vertices[i]))
	}
	return math.Sqrt(r2)
}

// Translate moves the polygon in its local frame.
func (p *Polygon) Translate(x, y float64) {
	for i := range p.Vertices {
		p.Vertices[i].X += x
		p.Vertices[i].Y += y
	}
	p.Center.X += x
	p.Center.Y += y
}

// Rotate rotates the polygon about the local origin.
func (p *Polygon) Rotate(theta float64) {
	p.RotateAboutPoint(theta, 0.0, 0.0)
}

// RotateAboutPoint rotates the polygon about the given local point.
func (p *Polygon) RotateAboutPoint(theta, x, y float64) {
	for i := range p.Vertices {
		p.Vertices[i].RotateAbout(theta, x, y)
	}
	for i := range p.Normals {
		p.Normals[i].Rotate(theta)
	}
	p.Center.RotateAbout(theta, x, y)
}

// Project projects the polygon onto the given unit world axis.
func (p *Polygon) Project(axis *Vector2, transform *Transform) *Interval {
	v := transform.GetTransformed(&p.Vertices[0])
	min := v.Dot(axis)
	max := min
	for i := 1; i < len(p.Vertices); i++ {
		d := transform.GetTransformed(&p.Vertices[i]).Dot(axis)
		if d < min {
			min = d
		} else if d > max {
			max = d
		}
	}
	return &Interval{Min: min, Max: max}
}

// Contains returns true if the given world point lies inside or on the
// boundary of the polygon.
func (p *Polygon) Contains(point *Vector2, transform *Transform) bool {
	local := transform.GetInverseTransformed(point)
	size := len(p.Vertices)
	for i := 0; i < size; i++ {
		p1 := &p.Vertices[i]
		p2 := &p.Vertices[(i+1)%size]
		if p1.To(p2).Cross(p1.To(local)) < 0.0 {
			return false
		}
	}
	return true
}

// CreateAABB returns the world bounds of the polygon.
func (p *Polygon) CreateAABB(transform *Transform) *AABB {
	v := transform.GetTransformed(&p.Vertices[0])
	aabb := &AABB{MinX: v.X, MinY: v.Y, MaxX: v.X, MaxY: v.Y}
	for i := 1; i < len(p.Vertices); i++ {
		w := transform.GetTransformed(&p.Vertices[i])
		aabb.MinX = math.Min(aabb.MinX, w.X)
		aabb.MinY = math.Min(aabb.MinY, w.Y)
		aabb.MaxX = math.Max(aabb.MaxX, w.X)
		aabb.MaxY = math.Max(aabb.MaxY, w.Y)
	}
	return aabb
}

// CreateMass computes the mass of the polygon at the given density by
// decomposing it into triangles about the origin.
func (p *Polygon) CreateMass(density float64) *Mass {
	size := len(p.Vertices)
	center := &Vector2{}
	area := 0.0
	inertia := 0.0
	const inv3 = 1.0 / 3.0
	for i := 0; i < size; i++ {
		p1 := &p.Vertices[i]
		p2 := &p.Vertices[(i+1)%size]
		d := p1.Cross(p2)
		triangle := d * 0.5
		area += triangle
		center.Add(p1.Sum(p2).Multiply(inv3 * triangle))
		// inertia of the triangle about the origin
		inertia += triangle * (p1.Dot(p1) + p1.Dot(p2) + p2.Dot(p2)) / 6.0
	}
	center.Multiply(1.0 / area)
	mass := density * area
	inertia *= density
	// shift the inertia to the centroid
	inertia -= mass * center.GetMagnitudeSquared()
	m, _ := NewMass(center, mass, inertia)
	return m
}

// GetAxes returns the edge normals of the polygon and one axis per
// given focal point.
func (p *Polygon) GetAxes(foci []*Vector2, transform *Transform) ([]*Vector2, error) {
	axes := make([]*Vector2, 0, len(p.Normals)+len(foci))
	for i := range p.Normals {
		axes = append(axes, transform.GetTransformedR(&p.Normals[i]))
	}
	for _, f := range foci {
		closest := transform.GetTransformed(&p.Vertices[0])
		d := f.DistanceSquared(closest)
		for i := 1; i < len(p.Vertices); i++ {
			v := transform.GetTransformed(&p.Vertices[i])
			if dt := f.DistanceSquared(v); dt < d {
				closest = v
				d = dt
			}
		}
		axis := f.To(closest)
		axis.Normalize()
		axes = append(axes, axis)
	}
	return axes, nil
}

// GetFoci returns nil; polygons have no focal points.
func (p *Polygon) GetFoci(transform *Transform) ([]*Vector2, error) {
	return nil, nil
}

// getFarthestVertexIndex returns the index of the vertex farthest in
// the given local direction.
func (p *Polygon) getFarthestVertexIndex(localn *Vector2) int {
	index := 0
	max := localn.Dot(&p.Vertices[0])
	for i := 1; i < len(p.Vertices); i++ {
		if d := localn.Dot(&p.Vertices[i]); d > max {
			max = d
			index = i
		}
	}
	return index
}

// GetFarthestPoint returns the vertex farthest in the given world
// direction.
func (p *Polygon) GetFarthestPoint(vector *Vector2, transform *Transform) *Vector2 {
	localn := transform.GetInverseTransformedR(vector)
	return transform.GetTransformed(&p.Vertices[p.getFarthestVertexIndex(localn)])
}

// GetFarthestFeature returns the edge of the polygon most
// perpendicular to the given world direction, choosing between the two
// edges adjacent to the farthest vertex.
func (p *Polygon) GetFarthestFeature(vector *Vector2, transform *Transform) Feature {
	localn := transform.GetInverseTransformedR(vector)
	size := len(p.Vertices)
	index := p.getFarthestVertexIndex(localn)
	prev := index - 1
	if prev < 0 {
		prev = size - 1
	}
	leftN := &p.Normals[prev]
	rightN := &p.Normals[index]

	max := NewPointFeature(transform.GetTransformed(&p.Vertices[index]), index)
	if leftN.Dot(localn) < rightN.Dot(localn) {
		// the edge from the farthest vertex to the next vertex
		next := (index + 1) % size
		vertex2 := NewPointFeature(transform.GetTransformed(&p.Vertices[next]), next)
		return NewEdgeFeature(max, vertex2, max, max.Point.To(vertex2.Point), index)
	}
	// the edge from the previous vertex to the farthest vertex
	vertex1 := NewPointFeature(transform.GetTransformed(&p.Vertices[prev]), prev)
	return NewEdgeFeature(vertex1, max, max, vertex1.Point.To(max.Point), prev)
}

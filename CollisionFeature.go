package dyn4go

// FeatureNotIndexed marks a feature that has no stable index, such as
// the farthest point of a curved shape.
const FeatureNotIndexed = -1

// Feature identifies the vertex or edge of a Convex shape farthest in
// a given direction. The concrete types are PointFeature and
// EdgeFeature; the set is closed.
type Feature interface {
	feature()
}

// PointFeature is a single vertex of a shape in world space.
type PointFeature struct {
	// Point is the vertex in world space.
	Point *Vector2
	// Index is the index of the vertex in the source shape, or
	// FeatureNotIndexed for curved boundaries.
	Index int
}

// NewPointFeature creates a new indexed PointFeature.
func NewPointFeature(point *Vector2, index int) *PointFeature {
	return &PointFeature{Point: point, Index: index}
}

func (f *PointFeature) feature() {}

// EdgeFeature is an edge of a shape in world space. Vertex1 and
// Vertex2 are ordered so that the edge vector Vertex1 to Vertex2 keeps
// the convention required by the clipping manifold solver; Max is
// whichever of the two vertices is farthest in the query direction.
type EdgeFeature struct {
	Vertex1 *PointFeature
	Vertex2 *PointFeature
	Max     *PointFeature
	// Edge is the vector from Vertex1 to Vertex2, not normalized.
	Edge *Vector2
	// Index is the index of the edge in the source shape.
	Index int
}

// NewEdgeFeature creates a new EdgeFeature.
func NewEdgeFeature(vertex1, vertex2, max *PointFeature, edge *Vector2, index int) *EdgeFeature {
	return &EdgeFeature{Vertex1: vertex1, Vertex2: vertex2, Max: max, Edge: edge, Index: index}
}

func (f *EdgeFeature) feature() {}

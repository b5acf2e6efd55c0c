package dyn4go

// ManifoldPointID identifies a manifold point by the feature pair that
// produced it. Ids are comparable, warm starting matches points across
// steps by id equality.
type ManifoldPointID struct {
	// ReferenceEdge is the feature index of the reference edge.
	ReferenceEdge int
	// IncidentEdge is the feature index of the incident edge.
	IncidentEdge int
	// IncidentVertex is the vertex index of the clipped incident
	// point.
	IncidentVertex int
	// Flipped is true when the reference edge came from the second
	// convex.
	Flipped bool
	// Distance marks the shared id of single point manifolds.
	Distance bool
}

// ManifoldPointIDDistance is the id given to single point manifolds
// produced from point features. Successive single point manifolds
// correlate across steps through it.
var ManifoldPointIDDistance = ManifoldPointID{Distance: true}

// ManifoldPoint is a single contact point of a manifold.
type ManifoldPoint struct {
	ID    ManifoldPointID
	Point Vector2
	Depth float64
}

// Manifold is the contact area of an overlapping convex pair reduced
// to at most two points sharing one normal. The normal points from the
// first convex toward the second.
type Manifold struct {
	Points []*ManifoldPoint
	Normal Vector2
}

// NewManifold creates an empty manifold.
func NewManifold() *Manifold {
	return &Manifold{Points: make([]*ManifoldPoint, 0, 2)}
}

// Clear resets this manifold for reuse.
func (m *Manifold) Clear() {
	m.Points = m.Points[:0]
	m.Normal.Zero()
}

// ManifoldSolver generates a contact manifold for an overlapping
// convex pair from its penetration.
type ManifoldSolver interface {
	// GetManifold fills the given manifold and returns true on
	// success. A false return means no usable contact area was found
	// and the pair should be skipped this step.
	GetManifold(penetration *Penetration, convex1 Convex, transform1 *Transform, convex2 Convex, transform2 *Transform, manifold *Manifold) bool
}

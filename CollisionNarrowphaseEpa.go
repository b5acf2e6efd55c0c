package dyn4go

import (
	"container/heap"
	"math"

	"go.uber.org/zap"
)

// DefaultEpaMaximumIterations bounds the expansion loop.
const DefaultEpaMaximumIterations = 100

// expandingSimplexEdge is one edge of the expanding polytope with its
// outward normal and distance from the origin.
type expandingSimplexEdge struct {
	point1   *Vector2
	point2   *Vector2
	normal   *Vector2
	distance float64
}

func newExpandingSimplexEdge(point1, point2 *Vector2, winding int) *expandingSimplexEdge {
	// a triple product with the origin would fail when the origin lies
	// on the edge, the simplex winding fixes the outward direction
	// instead
	normal := &Vector2{X: point2.X - point1.X, Y: point2.Y - point1.Y}
	if winding < 0 {
		normal.Right()
	} else {
		normal.Left()
	}
	normal.Normalize()
	return &expandingSimplexEdge{
		point1:   point1,
		point2:   point2,
		normal:   normal,
		distance: math.Abs(point1.X*normal.X + point1.Y*normal.Y),
	}
}

// edgeHeap orders polytope edges by distance from the origin.
type edgeHeap []*expandingSimplexEdge

func (h edgeHeap) Len() int            { return len(h) }
func (h edgeHeap) Less(i, j int) bool  { return h[i].distance < h[j].distance }
func (h edgeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *edgeHeap) Push(x interface{}) { *h = append(*h, x.(*expandingSimplexEdge)) }
func (h *edgeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// expandingSimplex is the edge polytope grown by Epa, seeded with the
// final simplex of a detect call.
type expandingSimplex struct {
	winding int
	edges   edgeHeap
}

func newExpandingSimplex(simplex []*Vector2) *expandingSimplex {
	s := &expandingSimplex{winding: simplexWinding(simplex)}
	size := len(simplex)
	s.edges = make(edgeHeap, 0, size)
	for i := 0; i < size; i++ {
		j := i + 1
		if j == size {
			j = 0
		}
		s.edges = append(s.edges, newExpandingSimplexEdge(simplex[i], simplex[j], s.winding))
	}
	heap.Init(&s.edges)
	return s
}

// simplexWinding returns 1 for counter clockwise winding, -1 for
// clockwise, and 0 for a degenerate simplex.
func simplexWinding(simplex []*Vector2) int {
	size := len(simplex)
	for i := 0; i < size; i++ {
		j := i + 1
		if j == size {
			j = 0
		}
		cross := simplex[i].Cross(simplex[j])
		if cross > 0.0 {
			return 1
		} else if cross < 0.0 {
			return -1
		}
	}
	return 0
}

func (s *expandingSimplex) getClosestEdge() *expandingSimplexEdge {
	return s.edges[0]
}

// expand splits the closest edge at the given point.
func (s *expandingSimplex) expand(point *Vector2) {
	edge := heap.Pop(&s.edges).(*expandingSimplexEdge)
	heap.Push(&s.edges, newExpandingSimplexEdge(edge.point1, point, s.winding))
	heap.Push(&s.edges, newExpandingSimplexEdge(point, edge.point2, s.winding))
}

// Epa resolves the penetration of an overlapping pair by expanding the
// final simplex of the detect call until the closest polytope edge to
// the origin stops moving. That edge is the penetration vector.
type Epa struct {
	maxIterations   int
	distanceEpsilon float64
	log             *zap.Logger
}

// NewEpa creates a penetration solver with the default iteration bound
// and convergence tolerance.
func NewEpa() *Epa {
	return &Epa{
		maxIterations:   DefaultEpaMaximumIterations,
		distanceEpsilon: math.Sqrt(Epsilon),
		log:             zap.NewNop(),
	}
}

// SetLogger replaces the diagnostic logger. A nil logger disables
// diagnostics.
func (epa *Epa) SetLogger(log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	epa.log = log
}

// SetMaximumIterations sets the bound of the expansion loop.
func (epa *Epa) SetMaximumIterations(iterations int) error {
	if iterations < minGjkIterations {
		return valueOutOfRange("iterations", float64(iterations), "five or greater")
	}
	epa.maxIterations = iterations
	return nil
}

// SetDistanceEpsilon sets the convergence tolerance of the expansion
// loop.
func (epa *Epa) SetDistanceEpsilon(epsilon float64) error {
	if epsilon <= 0.0 {
		return valueOutOfRange("epsilon", epsilon, "greater than zero")
	}
	epa.distanceEpsilon = epsilon
	return nil
}

// GetPenetration fills the given penetration from the overlapping
// simplex. Failure to converge within the iteration bound yields the
// best edge found, never an error.
func (epa *Epa) GetPenetration(simplex []*Vector2, ms *MinkowskiSum, penetration *Penetration) {
	smplx := newExpandingSimplex(simplex)
	if smplx.winding == 0 {
		epa.log.Debug("epa simplex winding degenerate",
			zap.Int("points", len(simplex)))
	}
	var edge *expandingSimplexEdge
	var point *Vector2
	for i := 0; i < epa.maxIterations; i++ {
		edge = smplx.getClosestEdge()
		point = ms.GetSupportPoint(edge.normal)

		projection := point.Dot(edge.normal)
		if projection-edge.distance < epa.distanceEpsilon {
			penetration.Normal.SetVector2(edge.normal)
			penetration.Depth = projection
			return
		}
		smplx.expand(point)
	}
	epa.log.Debug("epa iteration bound reached",
		zap.Int("iterations", epa.maxIterations))
	penetration.Normal.SetVector2(edge.normal)
	penetration.Depth = point.Dot(edge.normal)
}

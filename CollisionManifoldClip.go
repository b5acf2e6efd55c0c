package dyn4go

import "math"

// ClippingManifoldSolver builds manifolds by clipping the incident
// feature of a convex pair against the side planes of the reference
// feature. The reference feature is the one more perpendicular to the
// penetration normal.
type ClippingManifoldSolver struct{}

// NewClippingManifoldSolver creates a clipping manifold solver.
func NewClippingManifoldSolver() *ClippingManifoldSolver {
	return &ClippingManifoldSolver{}
}

// GetManifold fills the given manifold from the penetration of the
// convex pair. Point features short circuit to a single point
// manifold. Returns false when clipping eliminates every point.
func (cms *ClippingManifoldSolver) GetManifold(penetration *Penetration, convex1 Convex, transform1 *Transform, convex2 Convex, transform2 *Transform, manifold *Manifold) bool {
	manifold.Clear()

	n := &penetration.Normal

	feature1 := convex1.GetFarthestFeature(n, transform1)
	if vertex, ok := feature1.(*PointFeature); ok {
		mp := &ManifoldPoint{ID: ManifoldPointIDDistance, Point: *vertex.Point, Depth: penetration.Depth}
		manifold.Points = append(manifold.Points, mp)
		manifold.Normal.SetVector2(n)
		return true
	}

	ne := n.GetNegative()
	feature2 := convex2.GetFarthestFeature(ne, transform2)
	if vertex, ok := feature2.(*PointFeature); ok {
		mp := &ManifoldPoint{ID: ManifoldPointIDDistance, Point: *vertex.Point, Depth: penetration.Depth}
		manifold.Points = append(manifold.Points, mp)
		manifold.Normal.SetVector2(n)
		return true
	}

	edge1 := feature1.(*EdgeFeature)
	edge2 := feature2.(*EdgeFeature)

	// the edge more perpendicular to the normal is the reference edge
	d1 := math.Abs(edge1.Edge.Dot(n))
	d2 := math.Abs(edge2.Edge.Dot(n))
	reference, incident := edge1, edge2
	flipped := false
	if !(d1 < d2 || (d1 == d2 && edge1.Edge.GetMagnitudeSquared() <= edge2.Edge.GetMagnitudeSquared())) {
		reference, incident = edge2, edge1
		flipped = true
	}

	refev := reference.Edge.GetNormalized()

	// clip the incident edge by the first side plane of the reference
	// edge
	offset1 := -refev.Dot(reference.Vertex1.Point)
	clip1 := clipSegmentFeatures(incident.Vertex1, incident.Vertex2, refev.GetNegative(), offset1)
	if len(clip1) < 2 {
		return false
	}

	// clip what remains by the second side plane
	offset2 := refev.Dot(reference.Vertex2.Point)
	clip2 := clipSegmentFeatures(clip1[0], clip1[1], refev, offset2)
	if len(clip2) < 2 {
		return false
	}

	// the manifold normal is the reference edge normal oriented from
	// the first convex toward the second
	frontNormal := refev.GetRightHandOrthogonalVector()
	frontOffset := frontNormal.Dot(reference.Max.Point)
	if flipped {
		manifold.Normal.SetVector2(frontNormal)
	} else {
		manifold.Normal.SetVector2(frontNormal.GetNegative())
	}

	// keep the clipped points behind the reference edge
	for _, vertex := range clip2 {
		depth := frontNormal.Dot(vertex.Point) - frontOffset
		if depth >= 0.0 {
			id := ManifoldPointID{
				ReferenceEdge:  reference.Index,
				IncidentEdge:   incident.Index,
				IncidentVertex: vertex.Index,
				Flipped:        flipped,
			}
			manifold.Points = append(manifold.Points, &ManifoldPoint{ID: id, Point: *vertex.Point, Depth: depth})
		}
	}
	return len(manifold.Points) > 0
}

// clipSegmentFeatures clips the segment from v1 to v2 against the
// plane given by the normal and offset, keeping the side opposite the
// normal. A point created at the crossing inherits the index of the
// clipped endpoint.
func clipSegmentFeatures(v1, v2 *PointFeature, n *Vector2, offset float64) []*PointFeature {
	points := make([]*PointFeature, 0, 2)
	d1 := n.Dot(v1.Point) - offset
	d2 := n.Dot(v2.Point) - offset
	if d1 <= 0.0 {
		points = append(points, v1)
	}
	if d2 <= 0.0 {
		points = append(points, v2)
	}
	if d1*d2 < 0.0 {
		e := v1.Point.To(v2.Point)
		u := d1 / (d1 - d2)
		e.Multiply(u)
		e.Add(v1.Point)
		index := v2.Index
		if d1 > 0.0 {
			index = v1.Index
		}
		points = append(points, NewPointFeature(e, index))
	}
	return points
}

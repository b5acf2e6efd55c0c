package dyn4go

import "sort"

// DefaultAABBExpansion is the default padding applied to fixture AABBs
// before the broadphase overlap test. Padding makes pairs show up a
// little before they touch so contacts can warm start the moment they
// begin.
const DefaultAABBExpansion = 0.2

// BroadphasePair is a candidate fixture pair produced by a broadphase
// detector. Candidates still need narrowphase confirmation.
type BroadphasePair struct {
	Body1    *Body
	Fixture1 *Fixture
	Body2    *Body
	Fixture2 *Fixture
}

// BroadphaseItem is a single fixture returned by a broadphase query.
type BroadphaseItem struct {
	Body    *Body
	Fixture *Fixture
}

// BroadphaseDetector finds candidate fixture pairs whose expanded
// AABBs overlap.
type BroadphaseDetector interface {
	Detect(bodies []*Body) []*BroadphasePair
	DetectAABB(aabb *AABB, bodies []*Body) []*BroadphaseItem
}

type sapProxy struct {
	body    *Body
	fixture *Fixture
	aabb    *AABB
}

// Sap is a sweep and prune broadphase. Each detect pass sorts the
// fixture AABBs along the x axis and sweeps them, so no state is kept
// between passes.
type Sap struct {
	expansion float64
}

// NewSap creates a sweep and prune broadphase with the default AABB
// expansion.
func NewSap() *Sap {
	return &Sap{expansion: DefaultAABBExpansion}
}

// GetAABBExpansion returns the AABB padding.
func (s *Sap) GetAABBExpansion() float64 {
	return s.expansion
}

// SetAABBExpansion sets the AABB padding. The expansion must be zero
// or greater.
func (s *Sap) SetAABBExpansion(expansion float64) error {
	if expansion < 0.0 {
		return valueOutOfRange("expansion", expansion, "must be zero or greater")
	}
	s.expansion = expansion
	return nil
}

// Detect returns the candidate pairs among the fixtures of the given
// bodies. Fixtures of the same body never pair with each other.
func (s *Sap) Detect(bodies []*Body) []*BroadphasePair {
	n := 0
	for _, body := range bodies {
		n += body.GetFixtureCount()
	}
	proxies := make([]sapProxy, 0, n)
	for _, body := range bodies {
		transform := body.GetTransform()
		for _, fixture := range body.GetFixtures() {
			aabb := fixture.GetShape().CreateAABB(transform)
			aabb.Expand(s.expansion)
			proxies = append(proxies, sapProxy{body: body, fixture: fixture, aabb: aabb})
		}
	}
	sort.Slice(proxies, func(i, j int) bool {
		return proxies[i].aabb.MinX < proxies[j].aabb.MinX
	})

	var pairs []*BroadphasePair
	for i := 0; i < len(proxies); i++ {
		p := &proxies[i]
		for j := i + 1; j < len(proxies); j++ {
			q := &proxies[j]
			// the sweep is sorted, nothing past this point can
			// overlap p on x
			if q.aabb.MinX > p.aabb.MaxX {
				break
			}
			if p.body == q.body {
				continue
			}
			if p.aabb.MinY <= q.aabb.MaxY && p.aabb.MaxY >= q.aabb.MinY {
				pairs = append(pairs, &BroadphasePair{
					Body1:    p.body,
					Fixture1: p.fixture,
					Body2:    q.body,
					Fixture2: q.fixture,
				})
			}
		}
	}
	return pairs
}

// DetectAABB returns the fixtures whose unexpanded AABBs overlap the
// given AABB.
func (s *Sap) DetectAABB(aabb *AABB, bodies []*Body) []*BroadphaseItem {
	var items []*BroadphaseItem
	for _, body := range bodies {
		transform := body.GetTransform()
		for _, fixture := range body.GetFixtures() {
			fa := fixture.GetShape().CreateAABB(transform)
			if fa.Overlaps(aabb) {
				items = append(items, &BroadphaseItem{Body: body, Fixture: fixture})
			}
		}
	}
	return items
}

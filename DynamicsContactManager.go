package dyn4go

import (
	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
)

// ContactListener receives contact constraint lifecycle events during
// collision detection. Begin fires on the step a fixture pair first
// produces a manifold, Persist on every later step it still does, and
// End when the pair stops colliding.
type ContactListener interface {
	Begin(contactConstraint *ContactConstraint)
	Persist(contactConstraint *ContactConstraint)
	End(contactConstraint *ContactConstraint)
}

// ContactManager runs the narrowphase over the broadphase pairs of a
// step and keeps the persistent contact constraints of the overlapping
// ones up to date.
type ContactManager struct {
	detector       NarrowphaseDetector
	manifoldSolver ManifoldSolver
	constraints    map[uint64]*ContactConstraint
	// ordered lists the live constraints in this pass's pair order so
	// the solver visits them deterministically
	ordered  []*ContactConstraint
	listener ContactListener
	log      *zap.Logger

	// scratch space reused across pairs
	penetration Penetration
	manifold    *Manifold
}

// NewContactManager creates a contact manager with the default
// detection pipeline: SAT with a GJK fallback for the ellipse shapes
// and the clipping manifold solver.
func NewContactManager() *ContactManager {
	detector, _ := NewFallbackNarrowphaseDetector(NewSat(), NewGjk())
	detector.AddCondition(NewSingleTypedFallbackCondition(ShapeTypeEllipse, true, 0))
	detector.AddCondition(NewSingleTypedFallbackCondition(ShapeTypeHalfEllipse, true, 0))
	return &ContactManager{
		detector:       detector,
		manifoldSolver: NewClippingManifoldSolver(),
		constraints:    make(map[uint64]*ContactConstraint),
		manifold:       NewManifold(),
		log:            zap.NewNop(),
	}
}

// SetLogger sets the logger used to report skipped pairs and
// propagates it to the detectors that accept one. A nil logger
// disables logging.
func (cm *ContactManager) SetLogger(log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	cm.log = log
	if l, ok := cm.detector.(interface{ SetLogger(*zap.Logger) }); ok {
		l.SetLogger(log)
	}
}

// GetNarrowphaseDetector returns the narrowphase detector.
func (cm *ContactManager) GetNarrowphaseDetector() NarrowphaseDetector {
	return cm.detector
}

// SetNarrowphaseDetector sets the narrowphase detector.
func (cm *ContactManager) SetNarrowphaseDetector(detector NarrowphaseDetector) error {
	if detector == nil {
		return ErrNilArgument
	}
	cm.detector = detector
	return nil
}

// GetManifoldSolver returns the manifold solver.
func (cm *ContactManager) GetManifoldSolver() ManifoldSolver {
	return cm.manifoldSolver
}

// SetManifoldSolver sets the manifold solver.
func (cm *ContactManager) SetManifoldSolver(solver ManifoldSolver) error {
	if solver == nil {
		return ErrNilArgument
	}
	cm.manifoldSolver = solver
	return nil
}

// GetListener returns the contact listener, nil if none is set.
func (cm *ContactManager) GetListener() ContactListener {
	return cm.listener
}

// SetListener sets the contact listener. A nil listener disables
// contact events.
func (cm *ContactManager) SetListener(listener ContactListener) {
	cm.listener = listener
}

// GetContactConstraints returns the live contact constraints in the
// order the last detection pass produced them.
func (cm *ContactManager) GetContactConstraints() []*ContactConstraint {
	return cm.ordered
}

// orientPair returns the pair's bodies and fixtures in fixture
// creation order, so a constraint keeps the same orientation across
// steps and across runs even when the broadphase reports the pair in
// the opposite order. The solve is orientation sensitive, ordering by
// the random fixture ids would make identical simulations diverge
// between runs.
func orientPair(pair *BroadphasePair) (*Body, *Fixture, *Body, *Fixture) {
	if pair.Fixture1.sequence <= pair.Fixture2.sequence {
		return pair.Body1, pair.Fixture1, pair.Body2, pair.Fixture2
	}
	return pair.Body2, pair.Fixture2, pair.Body1, pair.Fixture1
}

// pairKey hashes the fixture ids of a pair into an order independent
// map key.
func pairKey(fixture1, fixture2 *Fixture) uint64 {
	if fixture1.sequence > fixture2.sequence {
		fixture1, fixture2 = fixture2, fixture1
	}
	id1 := fixture1.GetID()
	id2 := fixture2.GetID()
	var buf [32]byte
	copy(buf[:16], id1[:])
	copy(buf[16:], id2[:])
	return xxhash.Sum64(buf[:])
}

// UpdateContacts runs the narrowphase over the given pairs and brings
// the constraint set up to date, firing listener events for contacts
// that began, persisted or ended.
func (cm *ContactManager) UpdateContacts(pairs []*BroadphasePair, settings *Settings) {
	cm.ordered = cm.ordered[:0]
	seen := make(map[uint64]struct{}, len(pairs))
	for _, pair := range pairs {
		body1, fixture1, body2, fixture2 := orientPair(pair)
		key := pairKey(fixture1, fixture2)
		if _, dup := seen[key]; dup {
			continue
		}

		convex1 := fixture1.GetShape()
		convex2 := fixture2.GetShape()
		transform1 := body1.GetTransform()
		transform2 := body2.GetTransform()

		cm.penetration.Clear()
		detected, err := cm.detector.Detect(convex1, transform1, convex2, transform2, &cm.penetration)
		if err != nil {
			cm.log.Debug("skipping pair, narrowphase detection failed",
				zap.Stringer("shape1", convex1.GetType()),
				zap.Stringer("shape2", convex2.GetType()),
				zap.Error(err))
			continue
		}
		if !detected {
			continue
		}

		cm.manifold.Clear()
		if !cm.manifoldSolver.GetManifold(&cm.penetration, convex1, transform1, convex2, transform2, cm.manifold) {
			continue
		}

		constraint, persisted := cm.constraints[key]
		if !persisted {
			constraint, _ = NewContactConstraint(body1, fixture1, body2, fixture2)
			cm.constraints[key] = constraint
		}
		constraint.Update(cm.manifold, settings)
		seen[key] = struct{}{}
		cm.ordered = append(cm.ordered, constraint)

		if cm.listener != nil {
			if persisted {
				cm.listener.Persist(constraint)
			} else {
				cm.listener.Begin(constraint)
			}
		}
	}

	// pairs that stopped producing a manifold this pass have ended
	for key, constraint := range cm.constraints {
		if _, ok := seen[key]; ok {
			continue
		}
		delete(cm.constraints, key)
		if cm.listener != nil {
			cm.listener.End(constraint)
		}
	}
}

// RemoveContacts removes every constraint involving the given body,
// firing End events for them. A body losing a contact this way is
// woken, it may have been resting on the removed one.
func (cm *ContactManager) RemoveContacts(body *Body) {
	for key, constraint := range cm.constraints {
		if constraint.body1 != body && constraint.body2 != body {
			continue
		}
		delete(cm.constraints, key)
		other := constraint.body1
		if other == body {
			other = constraint.body2
		}
		if !other.IsStatic() {
			other.SetAtRest(false)
		}
		if cm.listener != nil {
			cm.listener.End(constraint)
		}
	}
	live := cm.ordered[:0]
	for _, constraint := range cm.ordered {
		if constraint.body1 != body && constraint.body2 != body {
			live = append(live, constraint)
		}
	}
	cm.ordered = live
}

// Clear removes all constraints without firing events.
func (cm *ContactManager) Clear() {
	cm.constraints = make(map[uint64]*ContactConstraint)
	cm.ordered = cm.ordered[:0]
}

package dyn4go_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dyn4go/dyn4go"
)

// recordingContactListener collects the order of contact events.
type recordingContactListener struct {
	events []string
}

func (r *recordingContactListener) Begin(cc *dyn4go.ContactConstraint) {
	r.events = append(r.events, "begin")
}

func (r *recordingContactListener) Persist(cc *dyn4go.ContactConstraint) {
	r.events = append(r.events, "persist")
}

func (r *recordingContactListener) End(cc *dyn4go.ContactConstraint) {
	r.events = append(r.events, "end")
}

// newTouchingBoxPair builds two unit boxes meeting at x = 0.5 with a
// hand made single point manifold between them.
func newTouchingBoxPair(t *testing.T) (*dyn4go.Body, *dyn4go.Body, *dyn4go.ContactConstraint) {
	t.Helper()
	b1 := newBoxBody(t, 1.0, 1.0, 0.0, 0.0)
	b2 := newBoxBody(t, 1.0, 1.0, 1.0, 0.0)
	cc, err := dyn4go.NewContactConstraint(b1, b1.GetFixtures()[0], b2, b2.GetFixtures()[0])
	require.NoError(t, err)
	return b1, b2, cc
}

func headOnManifold(id dyn4go.ManifoldPointID) *dyn4go.Manifold {
	manifold := dyn4go.NewManifold()
	manifold.Normal = dyn4go.Vector2{X: 1.0}
	manifold.Points = append(manifold.Points, &dyn4go.ManifoldPoint{
		ID:    id,
		Point: dyn4go.Vector2{X: 0.5},
	})
	return manifold
}

func TestNewContactConstraint(t *testing.T) {
	b1 := newBoxBody(t, 1.0, 1.0, 0.0, 0.0)
	b2 := newBoxBody(t, 1.0, 1.0, 1.0, 0.0)
	f1 := b1.GetFixtures()[0]
	f2 := b2.GetFixtures()[0]

	_, err := dyn4go.NewContactConstraint(nil, f1, b2, f2)
	require.ErrorIs(t, err, dyn4go.ErrNilArgument)
	_, err = dyn4go.NewContactConstraint(b1, nil, b2, f2)
	require.ErrorIs(t, err, dyn4go.ErrNilArgument)
	_, err = dyn4go.NewContactConstraint(b1, f1, nil, f2)
	require.ErrorIs(t, err, dyn4go.ErrNilArgument)
	_, err = dyn4go.NewContactConstraint(b1, f1, b2, nil)
	require.ErrorIs(t, err, dyn4go.ErrNilArgument)

	cc, err := dyn4go.NewContactConstraint(b1, f1, b2, f2)
	require.NoError(t, err)
	require.Same(t, b1, cc.GetBody1())
	require.Same(t, f1, cc.GetFixture1())
	require.Same(t, b2, cc.GetBody2())
	require.Same(t, f2, cc.GetFixture2())
	require.Empty(t, cc.GetContacts())
}

func TestContactConstraintUpdate(t *testing.T) {
	t.Run("MixesMaterialValues", func(t *testing.T) {
		b1, b2, cc := newTouchingBoxPair(t)
		f1 := b1.GetFixtures()[0]
		f2 := b2.GetFixtures()[0]
		require.NoError(t, f1.SetFriction(0.5))
		require.NoError(t, f2.SetFriction(0.2))
		require.NoError(t, f1.SetRestitution(0.3))
		require.NoError(t, f2.SetRestitution(0.7))
		f2.SetSensor(true)

		settings := dyn4go.DefaultSettings()
		cc.Update(headOnManifold(dyn4go.ManifoldPointID{}), settings)

		// friction mixes geometrically, restitution takes the maximum
		require.InDelta(t, 0.31622776601683794, cc.GetFriction(), 1.0e-9)
		require.InDelta(t, 0.7, cc.GetRestitution(), 1.0e-9)
		require.True(t, cc.IsSensor())

		require.InDelta(t, 1.0, cc.GetNormal().X, 1.0e-9)
		require.InDelta(t, 0.0, cc.GetNormal().Y, 1.0e-9)
		require.InDelta(t, 0.0, cc.GetTangent().X, 1.0e-9)
		require.InDelta(t, -1.0, cc.GetTangent().Y, 1.0e-9)

		require.Len(t, cc.GetContacts(), 1)
		contact := cc.GetContacts()[0]
		require.InDelta(t, 0.5, contact.GetPoint().X, 1.0e-9)
		require.Equal(t, 0.0, contact.GetDepth())
		require.Equal(t, 0.0, contact.GetNormalImpulse())
		require.Equal(t, 0.0, contact.GetTangentImpulse())
	})

	t.Run("SensorRequiresOnlyOneFixture", func(t *testing.T) {
		b1, _, cc := newTouchingBoxPair(t)
		b1.GetFixtures()[0].SetSensor(true)
		cc.Update(headOnManifold(dyn4go.ManifoldPointID{}), dyn4go.DefaultSettings())
		require.True(t, cc.IsSensor())
	})
}

func TestContactSolverHeadOn(t *testing.T) {
	id := dyn4go.ManifoldPointID{ReferenceEdge: 1, IncidentEdge: 3, IncidentVertex: 3}

	solve := func(t *testing.T, cc *dyn4go.ContactConstraint, settings *dyn4go.Settings, iterations int) {
		t.Helper()
		step, err := dyn4go.NewTimeStep(1.0 / 60.0)
		require.NoError(t, err)
		solver := dyn4go.NewContactConstraintSolver()
		constraints := []*dyn4go.ContactConstraint{cc}
		solver.Initialize(constraints, step, settings)
		solver.WarmStart(constraints, step, settings)
		for i := 0; i < iterations; i++ {
			solver.SolveVelocityConstraints(constraints, step, settings)
		}
	}

	t.Run("InelasticImpactStopsApproach", func(t *testing.T) {
		b1, b2, cc := newTouchingBoxPair(t)
		b1.SetVelocity(&dyn4go.Vector2{X: 3.0})
		settings := dyn4go.DefaultSettings()
		cc.Update(headOnManifold(id), settings)

		solve(t, cc, settings, 1)

		require.InDelta(t, 1.5, b1.GetVelocity().X, 1.0e-9)
		require.InDelta(t, 1.5, b2.GetVelocity().X, 1.0e-9)
		require.InDelta(t, 1.5, cc.GetContacts()[0].GetNormalImpulse(), 1.0e-9)
	})

	t.Run("RestitutionBouncesBodiesApart", func(t *testing.T) {
		b1, b2, cc := newTouchingBoxPair(t)
		require.NoError(t, b2.GetFixtures()[0].SetRestitution(1.0))
		b1.SetVelocity(&dyn4go.Vector2{X: 3.0})
		settings := dyn4go.DefaultSettings()
		cc.Update(headOnManifold(id), settings)

		solve(t, cc, settings, 2)

		// a perfectly elastic head on impact between equal masses
		// exchanges the velocities
		require.InDelta(t, 0.0, b1.GetVelocity().X, 1.0e-9)
		require.InDelta(t, 3.0, b2.GetVelocity().X, 1.0e-9)
	})

	t.Run("SlowApproachHasNoRestitution", func(t *testing.T) {
		b1, b2, cc := newTouchingBoxPair(t)
		require.NoError(t, b2.GetFixtures()[0].SetRestitution(1.0))
		// approach below the restitution velocity threshold
		b1.SetVelocity(&dyn4go.Vector2{X: 0.5})
		settings := dyn4go.DefaultSettings()
		cc.Update(headOnManifold(id), settings)

		solve(t, cc, settings, 2)

		require.InDelta(t, 0.25, b1.GetVelocity().X, 1.0e-9)
		require.InDelta(t, 0.25, b2.GetVelocity().X, 1.0e-9)
	})

	t.Run("FrictionClampsToTheCone", func(t *testing.T) {
		b1, b2, cc := newTouchingBoxPair(t)
		b1.SetVelocity(&dyn4go.Vector2{X: 3.0, Y: 2.0})
		settings := dyn4go.DefaultSettings()
		cc.Update(headOnManifold(id), settings)

		solve(t, cc, settings, 2)

		contact := cc.GetContacts()[0]
		require.InDelta(t, 1.5, contact.GetNormalImpulse(), 1.0e-9)
		require.InDelta(t, -cc.GetFriction()*1.5, contact.GetTangentImpulse(), 1.0e-9)

		require.InDelta(t, 1.5, b1.GetVelocity().X, 1.0e-9)
		require.InDelta(t, 1.7, b1.GetVelocity().Y, 1.0e-9)
		require.InDelta(t, -0.9, b1.GetAngularVelocity(), 1.0e-9)
		require.InDelta(t, 1.5, b2.GetVelocity().X, 1.0e-9)
		require.InDelta(t, 0.3, b2.GetVelocity().Y, 1.0e-9)
		require.InDelta(t, -0.9, b2.GetAngularVelocity(), 1.0e-9)
	})

	t.Run("ImpulsesCarryAcrossMatchingPointIDs", func(t *testing.T) {
		b1, b2, cc := newTouchingBoxPair(t)
		b1.SetVelocity(&dyn4go.Vector2{X: 3.0})
		settings := dyn4go.DefaultSettings()
		cc.Update(headOnManifold(id), settings)
		solve(t, cc, settings, 1)
		require.InDelta(t, 1.5, cc.GetContacts()[0].GetNormalImpulse(), 1.0e-9)

		// the next detection pass produces the same point id
		cc.Update(headOnManifold(id), settings)
		require.InDelta(t, 1.5, cc.GetContacts()[0].GetNormalImpulse(), 1.0e-9)

		// warm starting applies the carried impulse ahead of the solve
		solve(t, cc, settings, 0)
		require.InDelta(t, 0.0, b1.GetVelocity().X, 1.0e-9)
		require.InDelta(t, 3.0, b2.GetVelocity().X, 1.0e-9)
	})

	t.Run("ImpulsesResetWhenThePointChanges", func(t *testing.T) {
		b1, _, cc := newTouchingBoxPair(t)
		b1.SetVelocity(&dyn4go.Vector2{X: 3.0})
		settings := dyn4go.DefaultSettings()
		cc.Update(headOnManifold(id), settings)
		solve(t, cc, settings, 1)

		other := id
		other.IncidentVertex = 0
		cc.Update(headOnManifold(other), settings)
		require.Equal(t, 0.0, cc.GetContacts()[0].GetNormalImpulse())
	})

	t.Run("WarmStartingDisabledDropsImpulses", func(t *testing.T) {
		b1, _, cc := newTouchingBoxPair(t)
		b1.SetVelocity(&dyn4go.Vector2{X: 3.0})
		settings := dyn4go.DefaultSettings()
		cc.Update(headOnManifold(id), settings)
		solve(t, cc, settings, 1)

		settings.WarmStartingEnabled = false
		cc.Update(headOnManifold(id), settings)
		require.Equal(t, 0.0, cc.GetContacts()[0].GetNormalImpulse())
	})
}

func TestContactSolverRestingBox(t *testing.T) {
	floor := newBoxBody(t, 10.0, 1.0, 0.0, 0.0)
	floor.SetMass(dyn4go.MassTypeInfinite)
	box := newBoxBody(t, 1.0, 1.0, 0.0, 0.9)
	box.SetVelocity(&dyn4go.Vector2{Y: -3.0})

	settings := dyn4go.DefaultSettings()
	step, err := dyn4go.NewTimeStep(1.0 / 60.0)
	require.NoError(t, err)

	var penetration dyn4go.Penetration
	sat := dyn4go.NewSat()
	detected, err := sat.Detect(
		floor.GetFixtures()[0].GetShape(), floor.GetTransform(),
		box.GetFixtures()[0].GetShape(), box.GetTransform(),
		&penetration)
	require.NoError(t, err)
	require.True(t, detected)
	require.InDelta(t, 0.1, penetration.Depth, 1.0e-9)
	require.InDelta(t, 0.0, penetration.Normal.X, 1.0e-9)
	require.InDelta(t, 1.0, penetration.Normal.Y, 1.0e-9)

	manifold := dyn4go.NewManifold()
	require.True(t, dyn4go.NewClippingManifoldSolver().GetManifold(
		&penetration,
		floor.GetFixtures()[0].GetShape(), floor.GetTransform(),
		box.GetFixtures()[0].GetShape(), box.GetTransform(),
		manifold))
	require.Len(t, manifold.Points, 2)

	cc, err := dyn4go.NewContactConstraint(floor, floor.GetFixtures()[0], box, box.GetFixtures()[0])
	require.NoError(t, err)
	cc.Update(manifold, settings)

	solver := dyn4go.NewContactConstraintSolver()
	constraints := []*dyn4go.ContactConstraint{cc}
	solver.Initialize(constraints, step, settings)
	solver.WarmStart(constraints, step, settings)
	solver.SolveVelocityConstraints(constraints, step, settings)

	// the two point block solve stops the fall in a single iteration,
	// splitting the impulse evenly between the symmetric points
	require.InDelta(t, 0.0, box.GetVelocity().Y, 1.0e-9)
	require.InDelta(t, 0.0, box.GetAngularVelocity(), 1.0e-9)
	require.True(t, floor.GetVelocity().IsZero())
	require.Equal(t, 0.0, floor.GetAngularVelocity())
	for _, contact := range cc.GetContacts() {
		require.InDelta(t, 1.5, contact.GetNormalImpulse(), 1.0e-9)
	}

	// position solving pushes the box out of the floor over a few passes
	require.False(t, solver.SolvePositionConstraints(constraints, step, settings))
	solved := false
	for i := 0; i < 50 && !solved; i++ {
		solved = solver.SolvePositionConstraints(constraints, step, settings)
	}
	require.True(t, solved)
	require.Greater(t, box.GetWorldCenter().Y, 0.985-1.0e-9)
	require.InDelta(t, 0.0, floor.GetWorldCenter().Y, 1.0e-9)
}

func TestContactManager(t *testing.T) {
	newOverlappingPair := func(t *testing.T) (*dyn4go.Body, *dyn4go.Body, *dyn4go.BroadphasePair) {
		t.Helper()
		b1 := newBoxBody(t, 1.0, 1.0, 0.0, 0.0)
		b2 := newBoxBody(t, 1.0, 1.0, 0.75, 0.0)
		pair := &dyn4go.BroadphasePair{
			Body1: b1, Fixture1: b1.GetFixtures()[0],
			Body2: b2, Fixture2: b2.GetFixtures()[0],
		}
		return b1, b2, pair
	}
	flip := func(pair *dyn4go.BroadphasePair) *dyn4go.BroadphasePair {
		return &dyn4go.BroadphasePair{
			Body1: pair.Body2, Fixture1: pair.Fixture2,
			Body2: pair.Body1, Fixture2: pair.Fixture1,
		}
	}
	settings := dyn4go.DefaultSettings()

	t.Run("DefaultWiring", func(t *testing.T) {
		cm := dyn4go.NewContactManager()
		require.NotNil(t, cm.GetNarrowphaseDetector())
		require.NotNil(t, cm.GetManifoldSolver())
		require.ErrorIs(t, cm.SetNarrowphaseDetector(nil), dyn4go.ErrNilArgument)
		require.ErrorIs(t, cm.SetManifoldSolver(nil), dyn4go.ErrNilArgument)
		require.Nil(t, cm.GetListener())
		require.Empty(t, cm.GetContactConstraints())
		cm.SetLogger(nil)
	})

	t.Run("BeginPersistEnd", func(t *testing.T) {
		_, _, pair := newOverlappingPair(t)
		cm := dyn4go.NewContactManager()
		listener := &recordingContactListener{}
		cm.SetListener(listener)
		require.Same(t, listener, cm.GetListener().(*recordingContactListener))

		cm.UpdateContacts([]*dyn4go.BroadphasePair{pair}, settings)
		require.Equal(t, []string{"begin"}, listener.events)
		require.Len(t, cm.GetContactConstraints(), 1)

		constraint := cm.GetContactConstraints()[0]
		require.Len(t, constraint.GetContacts(), 2)
		for _, contact := range constraint.GetContacts() {
			require.InDelta(t, 0.25, contact.GetDepth(), 1.0e-9)
		}
		require.InDelta(t, 1.0, constraint.GetNormal().GetMagnitude(), 1.0e-9)
		require.InDelta(t, 0.0, constraint.GetNormal().Y, 1.0e-9)

		cm.UpdateContacts([]*dyn4go.BroadphasePair{pair}, settings)
		require.Equal(t, []string{"begin", "persist"}, listener.events)

		cm.UpdateContacts(nil, settings)
		require.Equal(t, []string{"begin", "persist", "end"}, listener.events)
		require.Empty(t, cm.GetContactConstraints())
	})

	t.Run("PairOrderDoesNotMatter", func(t *testing.T) {
		_, _, pair := newOverlappingPair(t)
		cm := dyn4go.NewContactManager()
		listener := &recordingContactListener{}
		cm.SetListener(listener)

		cm.UpdateContacts([]*dyn4go.BroadphasePair{pair}, settings)
		first := cm.GetContactConstraints()[0]

		// the same pair reported in the opposite order persists the
		// existing constraint with its original orientation
		cm.UpdateContacts([]*dyn4go.BroadphasePair{flip(pair)}, settings)
		require.Equal(t, []string{"begin", "persist"}, listener.events)
		second := cm.GetContactConstraints()[0]
		require.Same(t, first, second)
		require.Same(t, first.GetBody1(), second.GetBody1())
	})

	t.Run("OrientationFollowsCreationOrder", func(t *testing.T) {
		b1, b2, pair := newOverlappingPair(t)

		// whichever way the broadphase reports the pair, the earlier
		// created fixture plays fixture1. The solve is orientation
		// sensitive, so this keeps repeated runs of the same program
		// on the same trajectory.
		for _, pairs := range [][]*dyn4go.BroadphasePair{{pair}, {flip(pair)}} {
			cm := dyn4go.NewContactManager()
			cm.UpdateContacts(pairs, settings)
			require.Len(t, cm.GetContactConstraints(), 1)
			constraint := cm.GetContactConstraints()[0]
			require.Same(t, b1, constraint.GetBody1())
			require.Same(t, b2, constraint.GetBody2())
		}
	})

	t.Run("DuplicatePairsCollapse", func(t *testing.T) {
		_, _, pair := newOverlappingPair(t)
		cm := dyn4go.NewContactManager()
		listener := &recordingContactListener{}
		cm.SetListener(listener)

		cm.UpdateContacts([]*dyn4go.BroadphasePair{pair, flip(pair)}, settings)
		require.Equal(t, []string{"begin"}, listener.events)
		require.Len(t, cm.GetContactConstraints(), 1)
	})

	t.Run("SeparatedPairProducesNothing", func(t *testing.T) {
		b1 := newBoxBody(t, 1.0, 1.0, 0.0, 0.0)
		b2 := newBoxBody(t, 1.0, 1.0, 5.0, 0.0)
		pair := &dyn4go.BroadphasePair{
			Body1: b1, Fixture1: b1.GetFixtures()[0],
			Body2: b2, Fixture2: b2.GetFixtures()[0],
		}
		cm := dyn4go.NewContactManager()
		listener := &recordingContactListener{}
		cm.SetListener(listener)

		cm.UpdateContacts([]*dyn4go.BroadphasePair{pair}, settings)
		require.Empty(t, listener.events)
		require.Empty(t, cm.GetContactConstraints())
	})

	t.Run("SensorPairsAreTracked", func(t *testing.T) {
		_, b2, pair := newOverlappingPair(t)
		b2.GetFixtures()[0].SetSensor(true)
		cm := dyn4go.NewContactManager()

		cm.UpdateContacts([]*dyn4go.BroadphasePair{pair}, settings)
		require.Len(t, cm.GetContactConstraints(), 1)
		require.True(t, cm.GetContactConstraints()[0].IsSensor())
	})

	t.Run("RemoveContactsWakesTheOtherBody", func(t *testing.T) {
		b1, b2, pair := newOverlappingPair(t)
		cm := dyn4go.NewContactManager()
		listener := &recordingContactListener{}
		cm.SetListener(listener)

		cm.UpdateContacts([]*dyn4go.BroadphasePair{pair}, settings)
		b2.SetAtRest(true)
		cm.RemoveContacts(b1)

		require.Equal(t, []string{"begin", "end"}, listener.events)
		require.Empty(t, cm.GetContactConstraints())
		require.False(t, b2.IsAtRest())
	})

	t.Run("ClearFiresNoEvents", func(t *testing.T) {
		_, _, pair := newOverlappingPair(t)
		cm := dyn4go.NewContactManager()
		listener := &recordingContactListener{}
		cm.SetListener(listener)

		cm.UpdateContacts([]*dyn4go.BroadphasePair{pair}, settings)
		cm.Clear()
		require.Equal(t, []string{"begin"}, listener.events)
		require.Empty(t, cm.GetContactConstraints())
	})
}

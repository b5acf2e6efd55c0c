package dyn4go_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dyn4go/dyn4go"
)

func requireManifoldPoint(t *testing.T, mp *dyn4go.ManifoldPoint, x, y, depth float64) {
	t.Helper()
	require.InDelta(t, x, mp.Point.X, fixtureTolerance)
	require.InDelta(t, y, mp.Point.Y, fixtureTolerance)
	require.InDelta(t, depth, mp.Depth, fixtureTolerance)
}

func TestClippingManifoldRectangleSegment(t *testing.T) {
	rect, t1, segment, t2 := newRectangleSegmentPair(t)
	t1.Translate(-0.5, 0.0)
	solver := dyn4go.NewClippingManifoldSolver()

	detectors := []struct {
		name     string
		detector dyn4go.NarrowphaseDetector
	}{
		{"Sat", dyn4go.NewSat()},
		{"Gjk", dyn4go.NewGjk()},
	}

	for _, tc := range detectors {
		t.Run(tc.name, func(t *testing.T) {
			p := &dyn4go.Penetration{}
			detected, err := tc.detector.Detect(rect, t1, segment, t2, p)
			require.NoError(t, err)
			require.True(t, detected)

			m := dyn4go.NewManifold()
			require.True(t, solver.GetManifold(p, rect, t1, segment, t2, m))
			require.Len(t, m.Points, 2)
			requireManifoldPoint(t, m.Points[0], 0.000, 0.500, 0.650)
			requireManifoldPoint(t, m.Points[1], -0.633, 0.500, 0.343)
		})

		t.Run(tc.name+"Reversed", func(t *testing.T) {
			p := &dyn4go.Penetration{}
			detected, err := tc.detector.Detect(segment, t2, rect, t1, p)
			require.NoError(t, err)
			require.True(t, detected)

			m := dyn4go.NewManifold()
			require.True(t, solver.GetManifold(p, segment, t2, rect, t1, m))
			require.Len(t, m.Points, 2)
			requireManifoldPoint(t, m.Points[0], 0.000, 0.500, 0.650)
			requireManifoldPoint(t, m.Points[1], -0.633, 0.500, 0.343)
		})
	}
}

func TestClippingManifoldHalfEllipseCapsule(t *testing.T) {
	half, t1, capsule, t2 := newHalfEllipseCapsulePair(t)
	t1.Translate(-0.5, 0.0)
	gjk := dyn4go.NewGjk()
	solver := dyn4go.NewClippingManifoldSolver()

	p := &dyn4go.Penetration{}
	detected, err := gjk.Detect(half, t1, capsule, t2, p)
	require.NoError(t, err)
	require.True(t, detected)

	m := dyn4go.NewManifold()
	require.True(t, solver.GetManifold(p, half, t1, capsule, t2, m))
	require.Len(t, m.Points, 2)
	requireManifoldPoint(t, m.Points[0], 0.300, 0.000, 0.250)
	requireManifoldPoint(t, m.Points[1], -0.300, 0.000, 0.250)

	p.Clear()
	detected, err = gjk.Detect(capsule, t2, half, t1, p)
	require.NoError(t, err)
	require.True(t, detected)

	m.Clear()
	require.True(t, solver.GetManifold(p, capsule, t2, half, t1, m))
	require.Len(t, m.Points, 2)
	requireManifoldPoint(t, m.Points[0], 0.300, 0.000, 0.250)
	requireManifoldPoint(t, m.Points[1], -0.300, 0.000, 0.250)
}

func TestManifoldCircleCircle(t *testing.T) {
	c1, err := dyn4go.NewCircle(0.5)
	require.NoError(t, err)
	c2, err := dyn4go.NewCircle(0.5)
	require.NoError(t, err)
	t1 := dyn4go.NewTransform()
	t2 := dyn4go.NewTransform()
	t2.Translate(0.75, 0.0)

	p := &dyn4go.Penetration{}
	require.True(t, dyn4go.DetectCircles(c1, t1, c2, t2, p))

	m := dyn4go.NewManifold()
	require.True(t, dyn4go.NewClippingManifoldSolver().GetManifold(p, c1, t1, c2, t2, m))

	// point features collapse to a single shared id point
	require.Len(t, m.Points, 1)
	require.Equal(t, dyn4go.ManifoldPointIDDistance, m.Points[0].ID)
	require.True(t, m.Points[0].ID.Distance)
	require.InDelta(t, 0.5, m.Points[0].Point.X, 1.0e-9)
	require.InDelta(t, 0.0, m.Points[0].Point.Y, 1.0e-9)
	require.InDelta(t, 0.25, m.Points[0].Depth, 1.0e-9)
	require.InDelta(t, 1.0, m.Normal.X, 1.0e-9)
}

func TestManifoldPointIDsAreStableAcrossPasses(t *testing.T) {
	rect, t1, segment, t2 := newRectangleSegmentPair(t)
	t1.Translate(-0.5, 0.0)
	gjk := dyn4go.NewGjk()
	solver := dyn4go.NewClippingManifoldSolver()

	run := func() []dyn4go.ManifoldPointID {
		p := &dyn4go.Penetration{}
		detected, err := gjk.Detect(rect, t1, segment, t2, p)
		require.NoError(t, err)
		require.True(t, detected)
		m := dyn4go.NewManifold()
		require.True(t, solver.GetManifold(p, rect, t1, segment, t2, m))
		ids := make([]dyn4go.ManifoldPointID, 0, len(m.Points))
		for _, mp := range m.Points {
			ids = append(ids, mp.ID)
		}
		return ids
	}

	first := run()
	t1.Translate(0.0, 0.01)
	second := run()
	require.Equal(t, first, second)
}

func TestManifoldClear(t *testing.T) {
	m := dyn4go.NewManifold()
	m.Points = append(m.Points, &dyn4go.ManifoldPoint{Depth: 1.0})
	m.Normal.Set(1.0, 0.0)

	m.Clear()
	require.Empty(t, m.Points)
	require.True(t, m.Normal.IsZero())

	m.Clear()
	require.Empty(t, m.Points)
}

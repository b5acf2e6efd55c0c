package dyn4go_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dyn4go/dyn4go"
)

// newBoxBody builds a dynamic body with a single rectangle fixture
// translated to the given world position.
func newBoxBody(t *testing.T, width, height, x, y float64) *dyn4go.Body {
	t.Helper()
	shape, err := dyn4go.NewRectangle(width, height)
	require.NoError(t, err)
	fixture, err := dyn4go.NewFixture(shape)
	require.NoError(t, err)
	body := dyn4go.NewBody()
	require.NoError(t, body.AddFixture(fixture))
	body.SetMass(dyn4go.MassTypeNormal)
	body.Translate(x, y)
	return body
}

func TestSapDetect(t *testing.T) {
	t.Run("OverlappingPair", func(t *testing.T) {
		a := newBoxBody(t, 1.0, 1.0, 0.0, 0.0)
		b := newBoxBody(t, 1.0, 1.0, 0.5, 0.0)
		pairs := dyn4go.NewSap().Detect([]*dyn4go.Body{a, b})
		require.Len(t, pairs, 1)
		require.Same(t, a, pairs[0].Body1)
		require.Same(t, b, pairs[0].Body2)
		require.Same(t, a.GetFixtures()[0], pairs[0].Fixture1)
		require.Same(t, b.GetFixtures()[0], pairs[0].Fixture2)
	})

	t.Run("SeparatedPair", func(t *testing.T) {
		a := newBoxBody(t, 1.0, 1.0, 0.0, 0.0)
		b := newBoxBody(t, 1.0, 1.0, 2.0, 0.0)
		require.Empty(t, dyn4go.NewSap().Detect([]*dyn4go.Body{a, b}))
	})

	t.Run("ExpansionBridgesSmallGaps", func(t *testing.T) {
		// a gap smaller than the combined expansion still pairs
		a := newBoxBody(t, 1.0, 1.0, 0.0, 0.0)
		b := newBoxBody(t, 1.0, 1.0, 1.3, 0.0)
		sap := dyn4go.NewSap()
		require.Len(t, sap.Detect([]*dyn4go.Body{a, b}), 1)

		require.NoError(t, sap.SetAABBExpansion(0.0))
		require.Empty(t, sap.Detect([]*dyn4go.Body{a, b}))
	})

	t.Run("SeparatedOnY", func(t *testing.T) {
		a := newBoxBody(t, 1.0, 1.0, 0.0, 0.0)
		b := newBoxBody(t, 1.0, 1.0, 0.0, 5.0)
		require.Empty(t, dyn4go.NewSap().Detect([]*dyn4go.Body{a, b}))
	})

	t.Run("SameBodyFixturesNeverPair", func(t *testing.T) {
		shape1, err := dyn4go.NewRectangle(1.0, 1.0)
		require.NoError(t, err)
		shape2, err := dyn4go.NewRectangle(1.0, 1.0)
		require.NoError(t, err)
		f1, err := dyn4go.NewFixture(shape1)
		require.NoError(t, err)
		f2, err := dyn4go.NewFixture(shape2)
		require.NoError(t, err)
		body := dyn4go.NewBody()
		require.NoError(t, body.AddFixture(f1))
		require.NoError(t, body.AddFixture(f2))
		require.Empty(t, dyn4go.NewSap().Detect([]*dyn4go.Body{body}))
	})

	t.Run("Chain", func(t *testing.T) {
		a := newBoxBody(t, 1.0, 1.0, 0.0, 0.0)
		b := newBoxBody(t, 1.0, 1.0, 0.8, 0.0)
		c := newBoxBody(t, 1.0, 1.0, 1.6, 0.0)
		// neighbors pair, the ends do not reach each other
		pairs := dyn4go.NewSap().Detect([]*dyn4go.Body{a, b, c})
		require.Len(t, pairs, 2)
	})
}

func TestSapExpansion(t *testing.T) {
	sap := dyn4go.NewSap()
	require.Equal(t, dyn4go.DefaultAABBExpansion, sap.GetAABBExpansion())

	err := sap.SetAABBExpansion(-0.1)
	require.ErrorIs(t, err, dyn4go.ErrValueOutOfRange)
	require.Equal(t, dyn4go.DefaultAABBExpansion, sap.GetAABBExpansion())

	require.NoError(t, sap.SetAABBExpansion(0.5))
	require.Equal(t, 0.5, sap.GetAABBExpansion())
}

func TestSapDetectAABB(t *testing.T) {
	a := newBoxBody(t, 1.0, 1.0, 0.0, 0.0)
	b := newBoxBody(t, 1.0, 1.0, 3.0, 0.0)
	bodies := []*dyn4go.Body{a, b}
	sap := dyn4go.NewSap()

	items := sap.DetectAABB(dyn4go.NewAABB(2.4, -0.25, 2.6, 0.25), bodies)
	require.Len(t, items, 1)
	require.Same(t, b, items[0].Body)
	require.Same(t, b.GetFixtures()[0], items[0].Fixture)

	// the query uses unexpanded fixture bounds
	require.Empty(t, sap.DetectAABB(dyn4go.NewAABB(0.6, 0.0, 2.4, 0.1), bodies))

	items = sap.DetectAABB(dyn4go.NewAABB(-10.0, -10.0, 10.0, 10.0), bodies)
	require.Len(t, items, 2)
}

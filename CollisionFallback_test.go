package dyn4go_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dyn4go/dyn4go"
)

func TestSingleTypedFallbackCondition(t *testing.T) {
	circle, err := dyn4go.NewCircle(0.5)
	require.NoError(t, err)
	rect, err := dyn4go.NewRectangle(1.0, 1.0)
	require.NoError(t, err)
	triangle, err := dyn4go.NewPolygon(&dyn4go.Vector2{}, &dyn4go.Vector2{X: 1.0}, &dyn4go.Vector2{Y: 1.0})
	require.NoError(t, err)

	t.Run("FamilyMatching", func(t *testing.T) {
		cond := dyn4go.NewSingleTypedFallbackCondition(dyn4go.ShapeTypePolygon, false, 0)
		// a rectangle is a member of the polygon family
		require.True(t, cond.IsMatch(rect, circle))
		require.True(t, cond.IsMatch(circle, rect))
		require.True(t, cond.IsMatch(triangle, circle))
		require.False(t, cond.IsMatch(circle, circle))
	})

	t.Run("StrictMatching", func(t *testing.T) {
		cond := dyn4go.NewSingleTypedFallbackCondition(dyn4go.ShapeTypePolygon, true, 0)
		require.False(t, cond.IsMatch(rect, circle))
		require.True(t, cond.IsMatch(triangle, circle))
	})
}

func TestPairwiseTypedFallbackCondition(t *testing.T) {
	circle, err := dyn4go.NewCircle(0.5)
	require.NoError(t, err)
	rect, err := dyn4go.NewRectangle(1.0, 1.0)
	require.NoError(t, err)
	segment, err := dyn4go.NewSegment(&dyn4go.Vector2{}, &dyn4go.Vector2{X: 1.0})
	require.NoError(t, err)

	cond := dyn4go.NewPairwiseTypedFallbackCondition(
		dyn4go.ShapeTypeCircle, true,
		dyn4go.ShapeTypeSegment, true,
		0,
	)
	require.True(t, cond.IsMatch(circle, segment))
	require.True(t, cond.IsMatch(segment, circle))
	require.False(t, cond.IsMatch(circle, circle))
	require.False(t, cond.IsMatch(circle, rect))

	family := dyn4go.NewPairwiseTypedFallbackCondition(
		dyn4go.ShapeTypePolygon, false,
		dyn4go.ShapeTypeCircle, true,
		0,
	)
	require.True(t, family.IsMatch(rect, circle))
	require.True(t, family.IsMatch(circle, rect))
}

func TestFallbackNarrowphaseDetectorValidation(t *testing.T) {
	_, err := dyn4go.NewFallbackNarrowphaseDetector(nil, dyn4go.NewGjk())
	require.ErrorIs(t, err, dyn4go.ErrNilArgument)
	_, err = dyn4go.NewFallbackNarrowphaseDetector(dyn4go.NewSat(), nil)
	require.ErrorIs(t, err, dyn4go.ErrNilArgument)

	d, err := dyn4go.NewFallbackNarrowphaseDetector(dyn4go.NewSat(), dyn4go.NewGjk())
	require.NoError(t, err)
	require.ErrorIs(t, d.AddCondition(nil), dyn4go.ErrNilArgument)
	require.Equal(t, 0, d.GetConditionCount())
}

func TestFallbackNarrowphaseDetectorRouting(t *testing.T) {
	ellipse, err := dyn4go.NewEllipse(1.0, 0.5)
	require.NoError(t, err)
	rect, err := dyn4go.NewRectangle(1.0, 1.0)
	require.NoError(t, err)
	identity := dyn4go.NewTransform()

	detector, err := dyn4go.NewFallbackNarrowphaseDetector(dyn4go.NewSat(), dyn4go.NewGjk())
	require.NoError(t, err)

	// without a condition the pair goes to the primary detector, which
	// cannot handle the ellipse
	_, err = detector.Detect(ellipse, identity, rect, identity, &dyn4go.Penetration{})
	require.ErrorIs(t, err, dyn4go.ErrSatNotSupported)

	require.NoError(t, detector.AddCondition(dyn4go.NewSingleTypedFallbackCondition(dyn4go.ShapeTypeEllipse, true, 0)))
	require.Equal(t, 1, detector.GetConditionCount())
	require.True(t, detector.IsFallbackRequired(ellipse, rect))
	require.True(t, detector.IsFallbackRequired(rect, ellipse))
	require.False(t, detector.IsFallbackRequired(rect, rect))

	p := &dyn4go.Penetration{}
	detected, err := detector.Detect(ellipse, identity, rect, identity, p)
	require.NoError(t, err)
	require.True(t, detected)
	require.Greater(t, p.Depth, 0.0)
}

func TestFallbackNarrowphaseDetectorStockWiring(t *testing.T) {
	detector, err := dyn4go.NewFallbackNarrowphaseDetector(dyn4go.NewSat(), dyn4go.NewGjk())
	require.NoError(t, err)
	require.NoError(t, detector.AddCondition(dyn4go.NewSingleTypedFallbackCondition(dyn4go.ShapeTypeEllipse, true, 0)))
	require.NoError(t, detector.AddCondition(dyn4go.NewSingleTypedFallbackCondition(dyn4go.ShapeTypeHalfEllipse, true, 0)))

	half, t1, capsule, t2 := newHalfEllipseCapsulePair(t)
	p := &dyn4go.Penetration{}
	detected, err := detector.Detect(half, t1, capsule, t2, p)
	require.NoError(t, err)
	require.True(t, detected)
	requirePenetration(t, p, 0.0, -1.0, 0.250)
}

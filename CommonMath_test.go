package dyn4go_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dyn4go/dyn4go"
)

func TestClamp(t *testing.T) {
	require.Equal(t, 1.0, dyn4go.Clamp(1.0, 0.0, 2.0))
	require.Equal(t, 0.0, dyn4go.Clamp(-1.0, 0.0, 2.0))
	require.Equal(t, 2.0, dyn4go.Clamp(3.0, 0.0, 2.0))
	require.Equal(t, 2.0, dyn4go.Clamp(2.0, 0.0, 2.0))
}

func TestVector2Arithmetic(t *testing.T) {
	t.Run("AddMutatesSumDoesNot", func(t *testing.T) {
		v := dyn4go.NewVector2(1.0, 2.0)
		o := dyn4go.NewVector2(3.0, 4.0)

		sum := v.Sum(o)
		require.Equal(t, 4.0, sum.X)
		require.Equal(t, 6.0, sum.Y)
		require.Equal(t, 1.0, v.X)

		got := v.Add(o)
		require.Same(t, v, got)
		require.Equal(t, 4.0, v.X)
		require.Equal(t, 6.0, v.Y)
	})

	t.Run("SubtractMutatesDifferenceDoesNot", func(t *testing.T) {
		v := dyn4go.NewVector2(5.0, 5.0)
		o := dyn4go.NewVector2(2.0, 3.0)

		diff := v.Difference(o)
		require.Equal(t, 3.0, diff.X)
		require.Equal(t, 2.0, diff.Y)
		require.Equal(t, 5.0, v.X)

		v.Subtract(o)
		require.Equal(t, 3.0, v.X)
		require.Equal(t, 2.0, v.Y)
	})

	t.Run("To", func(t *testing.T) {
		v := dyn4go.NewVector2(1.0, 1.0)
		o := dyn4go.NewVector2(4.0, 5.0)
		to := v.To(o)
		require.Equal(t, 3.0, to.X)
		require.Equal(t, 4.0, to.Y)
		// neither operand changes
		require.Equal(t, 1.0, v.X)
		require.Equal(t, 4.0, o.X)
	})

	t.Run("MultiplyAndProduct", func(t *testing.T) {
		v := dyn4go.NewVector2(1.0, -2.0)
		p := v.Product(3.0)
		require.Equal(t, 3.0, p.X)
		require.Equal(t, -6.0, p.Y)
		require.Equal(t, 1.0, v.X)

		v.Multiply(3.0)
		require.Equal(t, 3.0, v.X)
		require.Equal(t, -6.0, v.Y)
	})

	t.Run("NegateAndGetNegative", func(t *testing.T) {
		v := dyn4go.NewVector2(1.0, -2.0)
		n := v.GetNegative()
		require.Equal(t, -1.0, n.X)
		require.Equal(t, 2.0, n.Y)
		require.Equal(t, 1.0, v.X)

		v.Negate()
		require.Equal(t, -1.0, v.X)
		require.Equal(t, 2.0, v.Y)
	})

	t.Run("ZeroAndIsZero", func(t *testing.T) {
		v := dyn4go.NewVector2(1.0, 2.0)
		require.False(t, v.IsZero())
		v.Zero()
		require.True(t, v.IsZero())
	})
}

func TestVector2Products(t *testing.T) {
	a := dyn4go.NewVector2(1.0, 2.0)
	b := dyn4go.NewVector2(3.0, 4.0)

	require.Equal(t, 11.0, a.Dot(b))
	require.Equal(t, -2.0, a.Cross(b))
	require.Equal(t, 2.0, b.Cross(a))

	cz := a.CrossZ(3.0)
	require.Equal(t, -6.0, cz.X)
	require.Equal(t, 3.0, cz.Y)

	triple := dyn4go.TripleProduct(
		dyn4go.NewVector2(1.0, 0.0),
		dyn4go.NewVector2(0.0, 1.0),
		dyn4go.NewVector2(1.0, 1.0))
	require.InDelta(t, -1.0, triple.X, 1.0e-12)
	require.InDelta(t, 1.0, triple.Y, 1.0e-12)
}

func TestVector2Magnitude(t *testing.T) {
	v := dyn4go.NewVector2(3.0, 4.0)
	require.Equal(t, 5.0, v.GetMagnitude())
	require.Equal(t, 25.0, v.GetMagnitudeSquared())

	o := dyn4go.NewVector2(0.0, 0.0)
	require.Equal(t, 5.0, v.Distance(o))
	require.Equal(t, 25.0, v.DistanceSquared(o))
}

func TestVector2Normalize(t *testing.T) {
	t.Run("ReturnsPriorMagnitude", func(t *testing.T) {
		v := dyn4go.NewVector2(3.0, 4.0)
		m := v.Normalize()
		require.Equal(t, 5.0, m)
		require.InDelta(t, 0.6, v.X, 1.0e-12)
		require.InDelta(t, 0.8, v.Y, 1.0e-12)
	})

	t.Run("DegenerateIsLeftUnchanged", func(t *testing.T) {
		v := dyn4go.NewVector2(0.0, 0.0)
		require.Equal(t, 0.0, v.Normalize())
		require.True(t, v.IsZero())
		require.True(t, v.GetNormalized().IsZero())
	})

	t.Run("GetNormalizedDoesNotMutate", func(t *testing.T) {
		v := dyn4go.NewVector2(0.0, 2.0)
		n := v.GetNormalized()
		require.Equal(t, 0.0, n.X)
		require.Equal(t, 1.0, n.Y)
		require.Equal(t, 2.0, v.Y)
	})
}

func TestVector2Orthogonals(t *testing.T) {
	v := dyn4go.NewVector2(1.0, 2.0)

	left := v.GetLeftHandOrthogonalVector()
	require.Equal(t, 2.0, left.X)
	require.Equal(t, -1.0, left.Y)

	right := v.GetRightHandOrthogonalVector()
	require.Equal(t, -2.0, right.X)
	require.Equal(t, 1.0, right.Y)

	// both orthogonals are perpendicular, the source is untouched
	require.Equal(t, 0.0, v.Dot(left))
	require.Equal(t, 0.0, v.Dot(right))
	require.Equal(t, 1.0, v.X)

	v.Left()
	require.Equal(t, 2.0, v.X)
	require.Equal(t, -1.0, v.Y)
	v.Right()
	require.Equal(t, 1.0, v.X)
	require.Equal(t, 2.0, v.Y)
}

func TestVector2Rotate(t *testing.T) {
	v := dyn4go.NewVector2(1.0, 0.0)
	v.Rotate(math.Pi / 2.0)
	require.InDelta(t, 0.0, v.X, 1.0e-12)
	require.InDelta(t, 1.0, v.Y, 1.0e-12)

	o := dyn4go.NewVector2(2.0, 0.0)
	o.RotateAbout(math.Pi, 1.0, 0.0)
	require.InDelta(t, 0.0, o.X, 1.0e-12)
	require.InDelta(t, 0.0, o.Y, 1.0e-12)
}

func TestInterval(t *testing.T) {
	i := dyn4go.NewInterval(0.0, 2.0)

	require.True(t, i.Overlaps(dyn4go.NewInterval(1.0, 3.0)))
	require.True(t, i.Overlaps(dyn4go.NewInterval(2.0, 3.0)))
	require.False(t, i.Overlaps(dyn4go.NewInterval(2.5, 3.0)))

	require.Equal(t, 1.0, i.GetOverlap(dyn4go.NewInterval(1.0, 3.0)))
	require.Equal(t, 0.0, i.GetOverlap(dyn4go.NewInterval(3.0, 4.0)))

	require.True(t, i.Contains(dyn4go.NewInterval(0.5, 1.5)))
	require.True(t, i.Contains(dyn4go.NewInterval(0.0, 2.0)))
	require.False(t, i.Contains(dyn4go.NewInterval(-0.5, 1.0)))
}

func TestMatrix22(t *testing.T) {
	t.Run("Solve", func(t *testing.T) {
		m := &dyn4go.Matrix22{M00: 2.0, M01: 1.0, M10: 1.0, M11: 3.0}
		require.Equal(t, 5.0, m.Determinant())

		x := m.Solve(dyn4go.NewVector2(5.0, 10.0))
		require.InDelta(t, 1.0, x.X, 1.0e-12)
		require.InDelta(t, 3.0, x.Y, 1.0e-12)
	})

	t.Run("SolveSingular", func(t *testing.T) {
		m := &dyn4go.Matrix22{M00: 1.0, M01: 2.0, M10: 2.0, M11: 4.0}
		x := m.Solve(dyn4go.NewVector2(1.0, 1.0))
		require.True(t, x.IsZero())
	})

	t.Run("Inverse", func(t *testing.T) {
		m := &dyn4go.Matrix22{M00: 2.0, M01: 1.0, M10: 1.0, M11: 3.0}
		inv := m.GetInverse()
		// the inverse applied to b matches Solve
		x := inv.Product(dyn4go.NewVector2(5.0, 10.0))
		require.InDelta(t, 1.0, x.X, 1.0e-12)
		require.InDelta(t, 3.0, x.Y, 1.0e-12)
		// the source is untouched
		require.Equal(t, 2.0, m.M00)
	})

	t.Run("MultiplyMutatesProductDoesNot", func(t *testing.T) {
		m := &dyn4go.Matrix22{M00: 1.0, M01: 2.0, M10: 3.0, M11: 4.0}
		v := dyn4go.NewVector2(1.0, 1.0)

		p := m.Product(v)
		require.Equal(t, 3.0, p.X)
		require.Equal(t, 7.0, p.Y)
		require.Equal(t, 1.0, v.X)

		m.Multiply(v)
		require.Equal(t, 3.0, v.X)
		require.Equal(t, 7.0, v.Y)
	})
}

func TestTransform(t *testing.T) {
	t.Run("IdentityByDefault", func(t *testing.T) {
		tf := dyn4go.NewTransform()
		p := tf.GetTransformed(dyn4go.NewVector2(1.0, 2.0))
		require.Equal(t, 1.0, p.X)
		require.Equal(t, 2.0, p.Y)
	})

	t.Run("TranslateAccumulates", func(t *testing.T) {
		tf := dyn4go.NewTransform()
		tf.Translate(1.0, 2.0)
		tf.Translate(0.5, -1.0)
		tr := tf.GetTranslation()
		require.Equal(t, 1.5, tr.X)
		require.Equal(t, 1.0, tr.Y)
	})

	t.Run("RotateMovesTranslation", func(t *testing.T) {
		tf := dyn4go.NewTransform()
		tf.Translate(1.0, 0.0)
		tf.Rotate(math.Pi / 2.0)

		tr := tf.GetTranslation()
		require.InDelta(t, 0.0, tr.X, 1.0e-12)
		require.InDelta(t, 1.0, tr.Y, 1.0e-12)

		p := tf.GetTransformed(dyn4go.NewVector2(1.0, 0.0))
		require.InDelta(t, 0.0, p.X, 1.0e-12)
		require.InDelta(t, 2.0, p.Y, 1.0e-12)
	})

	t.Run("RotateAboutPivot", func(t *testing.T) {
		tf := dyn4go.NewTransform()
		tf.Translate(2.0, 0.0)
		tf.RotateAbout(math.Pi, 1.0, 0.0)

		tr := tf.GetTranslation()
		require.InDelta(t, 0.0, tr.X, 1.0e-12)
		require.InDelta(t, 0.0, tr.Y, 1.0e-12)
		require.InDelta(t, math.Pi, tf.GetRotationAngle(), 1.0e-12)
	})

	t.Run("InverseRoundTrip", func(t *testing.T) {
		tf := dyn4go.NewTransform()
		tf.Translate(0.3, -0.7)
		tf.Rotate(0.4)

		p := dyn4go.NewVector2(1.2, 3.4)
		back := tf.GetInverseTransformed(tf.GetTransformed(p))
		require.InDelta(t, p.X, back.X, 1.0e-12)
		require.InDelta(t, p.Y, back.Y, 1.0e-12)

		r := tf.GetInverseTransformedR(tf.GetTransformedR(p))
		require.InDelta(t, p.X, r.X, 1.0e-12)
		require.InDelta(t, p.Y, r.Y, 1.0e-12)
	})
}

package dyn4go_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dyn4go/dyn4go"
)

func TestDefaultSettings(t *testing.T) {
	s := dyn4go.DefaultSettings()
	require.NoError(t, s.Validate())

	require.Equal(t, 1.0/60.0, s.StepFrequency)
	require.Equal(t, 2.0, s.MaximumTranslation)
	require.Equal(t, 10, s.VelocityConstraintSolverIterations)
	require.Equal(t, 10, s.PositionConstraintSolverIterations)
	require.True(t, s.WarmStartingEnabled)
	require.True(t, s.AtRestDetectionEnabled)
	require.False(t, s.ParallelIslandSolving)
	require.Equal(t, 0.005, s.LinearTolerance)
	require.Equal(t, 0.2, s.Baumgarte)
}

func TestSettingsValidate(t *testing.T) {
	t.Run("StepFrequency", func(t *testing.T) {
		s := dyn4go.DefaultSettings()
		s.StepFrequency = 0.0
		err := s.Validate()
		require.ErrorIs(t, err, dyn4go.ErrValueOutOfRange)

		var oor *dyn4go.ValueOutOfRangeError
		require.ErrorAs(t, err, &oor)
		require.Equal(t, "step_frequency", oor.Argument)
	})

	t.Run("Iterations", func(t *testing.T) {
		s := dyn4go.DefaultSettings()
		s.VelocityConstraintSolverIterations = 0
		require.ErrorIs(t, s.Validate(), dyn4go.ErrValueOutOfRange)

		s = dyn4go.DefaultSettings()
		s.PositionConstraintSolverIterations = -1
		require.ErrorIs(t, s.Validate(), dyn4go.ErrValueOutOfRange)
	})

	t.Run("Baumgarte", func(t *testing.T) {
		s := dyn4go.DefaultSettings()
		s.Baumgarte = 0.0
		require.ErrorIs(t, s.Validate(), dyn4go.ErrValueOutOfRange)
		s.Baumgarte = 1.5
		require.ErrorIs(t, s.Validate(), dyn4go.ErrValueOutOfRange)
		s.Baumgarte = 1.0
		require.NoError(t, s.Validate())
	})

	t.Run("NegativeTolerance", func(t *testing.T) {
		s := dyn4go.DefaultSettings()
		s.LinearTolerance = -0.001
		require.ErrorIs(t, s.Validate(), dyn4go.ErrValueOutOfRange)
	})
}

func TestLoadSettings(t *testing.T) {
	t.Run("YAMLOverridesDefaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.yaml")
		data := "step_frequency: 0.008333333333333333\nvelocity_constraint_solver_iterations: 8\nparallel_island_solving: true\n"
		require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

		s, err := dyn4go.LoadSettings(path)
		require.NoError(t, err)
		require.InDelta(t, 1.0/120.0, s.StepFrequency, 1.0e-12)
		require.Equal(t, 8, s.VelocityConstraintSolverIterations)
		require.True(t, s.ParallelIslandSolving)
		// keys not present keep their defaults
		require.Equal(t, 0.005, s.LinearTolerance)
		require.True(t, s.WarmStartingEnabled)
	})

	t.Run("JSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.json")
		data := `{"baumgarte": 0.1, "restitution_velocity": 0.5}`
		require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

		s, err := dyn4go.LoadSettings(path)
		require.NoError(t, err)
		require.Equal(t, 0.1, s.Baumgarte)
		require.Equal(t, 0.5, s.RestitutionVelocity)
	})

	t.Run("UnknownKeyFails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.yaml")
		require.NoError(t, os.WriteFile(path, []byte("no_such_key: 1\n"), 0o644))

		_, err := dyn4go.LoadSettings(path)
		require.Error(t, err)
	})

	t.Run("InvalidValuesFailValidation", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.yaml")
		require.NoError(t, os.WriteFile(path, []byte("baumgarte: 2.0\n"), 0o644))

		_, err := dyn4go.LoadSettings(path)
		require.ErrorIs(t, err, dyn4go.ErrValueOutOfRange)
	})

	t.Run("UnsupportedExtension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.toml")
		require.NoError(t, os.WriteFile(path, []byte(""), 0o644))

		_, err := dyn4go.LoadSettings(path)
		require.Error(t, err)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := dyn4go.LoadSettings(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
		require.True(t, errors.Is(err, os.ErrNotExist))
	})
}

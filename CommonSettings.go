package dyn4go

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default tuning values. These mirror the values the solvers were
// calibrated against; change them only with care.
const (
	DefaultStepFrequency                      = 1.0 / 60.0
	DefaultMaximumTranslation                 = 2.0
	DefaultMaximumRotation                    = 0.5 * math.Pi
	DefaultMaximumAtRestLinearVelocity        = 0.01
	DefaultMaximumAtRestAngularVelocity       = math.Pi / 180.0 * 2.0
	DefaultMinimumAtRestTime                  = 0.5
	DefaultVelocityConstraintSolverIterations = 10
	DefaultPositionConstraintSolverIterations = 10
	DefaultRestitutionVelocity                = 1.0
	DefaultLinearTolerance                    = 0.005
	DefaultAngularTolerance                   = math.Pi / 180.0 * 2.0
	DefaultMaximumLinearCorrection            = 0.2
	DefaultMaximumAngularCorrection           = math.Pi / 180.0 * 8.0
	DefaultBaumgarte                          = 0.2
)

// Settings holds the tuning parameters of a World. A zero Settings is
// not usable, start from DefaultSettings or LoadSettings.
type Settings struct {
	// StepFrequency is the fixed simulation step in seconds used by
	// World.Update when accumulating wall clock time.
	StepFrequency float64 `yaml:"step_frequency" json:"step_frequency"`

	// MaximumTranslation limits how far a body may travel in a single
	// step, in meters.
	MaximumTranslation float64 `yaml:"maximum_translation" json:"maximum_translation"`

	// MaximumRotation limits how far a body may rotate in a single
	// step, in radians.
	MaximumRotation float64 `yaml:"maximum_rotation" json:"maximum_rotation"`

	// AtRestDetectionEnabled turns automatic sleeping of slow islands
	// on or off.
	AtRestDetectionEnabled bool `yaml:"at_rest_detection_enabled" json:"at_rest_detection_enabled"`

	// MaximumAtRestLinearVelocity is the linear speed below which a
	// body is considered a candidate for rest.
	MaximumAtRestLinearVelocity float64 `yaml:"maximum_at_rest_linear_velocity" json:"maximum_at_rest_linear_velocity"`

	// MaximumAtRestAngularVelocity is the angular speed below which a
	// body is considered a candidate for rest.
	MaximumAtRestAngularVelocity float64 `yaml:"maximum_at_rest_angular_velocity" json:"maximum_at_rest_angular_velocity"`

	// MinimumAtRestTime is how long an island must stay slow before it
	// is put to rest.
	MinimumAtRestTime float64 `yaml:"minimum_at_rest_time" json:"minimum_at_rest_time"`

	// VelocityConstraintSolverIterations is the number of velocity
	// iterations per step.
	VelocityConstraintSolverIterations int `yaml:"velocity_constraint_solver_iterations" json:"velocity_constraint_solver_iterations"`

	// PositionConstraintSolverIterations is the number of position
	// iterations per step.
	PositionConstraintSolverIterations int `yaml:"position_constraint_solver_iterations" json:"position_constraint_solver_iterations"`

	// WarmStartingEnabled carries accumulated impulses across steps.
	WarmStartingEnabled bool `yaml:"warm_starting_enabled" json:"warm_starting_enabled"`

	// RestitutionVelocity is the relative normal speed above which
	// restitution is applied.
	RestitutionVelocity float64 `yaml:"restitution_velocity" json:"restitution_velocity"`

	// LinearTolerance is the allowed residual penetration, in meters.
	LinearTolerance float64 `yaml:"linear_tolerance" json:"linear_tolerance"`

	// AngularTolerance is the allowed residual angular error for
	// position solved joints, in radians.
	AngularTolerance float64 `yaml:"angular_tolerance" json:"angular_tolerance"`

	// MaximumLinearCorrection limits the positional correction applied
	// in one iteration, in meters.
	MaximumLinearCorrection float64 `yaml:"maximum_linear_correction" json:"maximum_linear_correction"`

	// MaximumAngularCorrection limits the angular correction applied
	// in one iteration, in radians.
	MaximumAngularCorrection float64 `yaml:"maximum_angular_correction" json:"maximum_angular_correction"`

	// Baumgarte is the position stabilization factor in (0, 1].
	Baumgarte float64 `yaml:"baumgarte" json:"baumgarte"`

	// ParallelIslandSolving solves disjoint islands on separate
	// goroutines. Results are identical to the sequential path since
	// islands never share bodies.
	ParallelIslandSolving bool `yaml:"parallel_island_solving" json:"parallel_island_solving"`
}

// DefaultSettings returns a Settings populated with the default tuning
// values.
func DefaultSettings() *Settings {
	return &Settings{
		StepFrequency:                      DefaultStepFrequency,
		MaximumTranslation:                 DefaultMaximumTranslation,
		MaximumRotation:                    DefaultMaximumRotation,
		AtRestDetectionEnabled:             true,
		MaximumAtRestLinearVelocity:        DefaultMaximumAtRestLinearVelocity,
		MaximumAtRestAngularVelocity:       DefaultMaximumAtRestAngularVelocity,
		MinimumAtRestTime:                  DefaultMinimumAtRestTime,
		VelocityConstraintSolverIterations: DefaultVelocityConstraintSolverIterations,
		PositionConstraintSolverIterations: DefaultPositionConstraintSolverIterations,
		WarmStartingEnabled:                true,
		RestitutionVelocity:                DefaultRestitutionVelocity,
		LinearTolerance:                    DefaultLinearTolerance,
		AngularTolerance:                   DefaultAngularTolerance,
		MaximumLinearCorrection:            DefaultMaximumLinearCorrection,
		MaximumAngularCorrection:           DefaultMaximumAngularCorrection,
		Baumgarte:                          DefaultBaumgarte,
	}
}

// Validate checks every field against its documented range and returns
// the first violation found.
func (s *Settings) Validate() error {
	if s.StepFrequency <= 0.0 {
		return valueOutOfRange("step_frequency", s.StepFrequency, "greater than zero")
	}
	if s.MaximumTranslation < 0.0 {
		return valueOutOfRange("maximum_translation", s.MaximumTranslation, "zero or greater")
	}
	if s.MaximumRotation < 0.0 {
		return valueOutOfRange("maximum_rotation", s.MaximumRotation, "zero or greater")
	}
	if s.MaximumAtRestLinearVelocity < 0.0 {
		return valueOutOfRange("maximum_at_rest_linear_velocity", s.MaximumAtRestLinearVelocity, "zero or greater")
	}
	if s.MaximumAtRestAngularVelocity < 0.0 {
		return valueOutOfRange("maximum_at_rest_angular_velocity", s.MaximumAtRestAngularVelocity, "zero or greater")
	}
	if s.MinimumAtRestTime < 0.0 {
		return valueOutOfRange("minimum_at_rest_time", s.MinimumAtRestTime, "zero or greater")
	}
	if s.VelocityConstraintSolverIterations < 1 {
		return valueOutOfRange("velocity_constraint_solver_iterations", float64(s.VelocityConstraintSolverIterations), "one or greater")
	}
	if s.PositionConstraintSolverIterations < 1 {
		return valueOutOfRange("position_constraint_solver_iterations", float64(s.PositionConstraintSolverIterations), "one or greater")
	}
	if s.RestitutionVelocity < 0.0 {
		return valueOutOfRange("restitution_velocity", s.RestitutionVelocity, "zero or greater")
	}
	if s.LinearTolerance < 0.0 {
		return valueOutOfRange("linear_tolerance", s.LinearTolerance, "zero or greater")
	}
	if s.AngularTolerance < 0.0 {
		return valueOutOfRange("angular_tolerance", s.AngularTolerance, "zero or greater")
	}
	if s.MaximumLinearCorrection < 0.0 {
		return valueOutOfRange("maximum_linear_correction", s.MaximumLinearCorrection, "zero or greater")
	}
	if s.MaximumAngularCorrection < 0.0 {
		return valueOutOfRange("maximum_angular_correction", s.MaximumAngularCorrection, "zero or greater")
	}
	if s.Baumgarte <= 0.0 || s.Baumgarte > 1.0 {
		return valueOutOfRange("baumgarte", s.Baumgarte, "in (0, 1]")
	}
	return nil
}

// LoadSettings reads a Settings from the YAML or JSON file at the given
// path, chosen by extension. Missing keys keep their default values.
func LoadSettings(path string) (*Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open settings: %w", err)
	}
	defer f.Close()

	s := DefaultSettings()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		dec := json.NewDecoder(f)
		dec.DisallowUnknownFields()
		if err := dec.Decode(s); err != nil {
			return nil, fmt.Errorf("decode settings %q: %w", path, err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(s); err != nil {
			return nil, fmt.Errorf("decode settings %q: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("settings %q: unsupported extension", path)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

package dyn4go

import "math"

// Island is a connected set of bodies coupled by contact constraints
// and joints, solved as one unit. Bodies in different islands cannot
// exchange impulses, so islands can be solved independently.
type Island struct {
	solver      *ContactConstraintSolver
	bodies      []*Body
	constraints []*ContactConstraint
	joints      []Joint
}

// NewIsland creates an empty island sharing the given contact solver.
func NewIsland(solver *ContactConstraintSolver) *Island {
	return &Island{
		solver: solver,
	}
}

// Clear empties the island for reuse.
func (is *Island) Clear() {
	is.bodies = is.bodies[:0]
	is.constraints = is.constraints[:0]
	is.joints = is.joints[:0]
}

// AddBody adds a body to the island.
func (is *Island) AddBody(body *Body) {
	is.bodies = append(is.bodies, body)
}

// AddContactConstraint adds a contact constraint to the island.
func (is *Island) AddContactConstraint(constraint *ContactConstraint) {
	is.constraints = append(is.constraints, constraint)
}

// AddJoint adds a joint to the island.
func (is *Island) AddJoint(joint Joint) {
	is.joints = append(is.joints, joint)
}

// Solve integrates the island's bodies and solves its constraints for
// one step, then updates the at rest state of the bodies. An island
// only falls asleep as a whole.
func (is *Island) Solve(gravity *Vector2, step *TimeStep, settings *Settings) {
	for _, body := range is.bodies {
		body.IntegrateVelocity(gravity, step, settings)
	}

	is.solver.Initialize(is.constraints, step, settings)
	is.solver.WarmStart(is.constraints, step, settings)
	for _, joint := range is.joints {
		joint.InitializeConstraints(step, settings)
	}

	for i := 0; i < settings.VelocityConstraintSolverIterations; i++ {
		for _, joint := range is.joints {
			joint.SolveVelocityConstraints(step, settings)
		}
		is.solver.SolveVelocityConstraints(is.constraints, step, settings)
	}

	for _, body := range is.bodies {
		body.IntegratePosition(step, settings)
	}

	for i := 0; i < settings.PositionConstraintSolverIterations; i++ {
		contactsSolved := is.solver.SolvePositionConstraints(is.constraints, step, settings)
		jointsSolved := true
		for _, joint := range is.joints {
			if !joint.SolvePositionConstraints(step, settings) {
				jointsSolved = false
			}
		}
		if contactsSolved && jointsSolved {
			break
		}
	}

	if !settings.AtRestDetectionEnabled {
		return
	}
	// the island sleeps only when its slowest body has been slow for
	// long enough; static bodies neither sleep nor hold an island awake
	minTime := math.MaxFloat64
	for _, body := range is.bodies {
		t := body.UpdateAtRestTime(step, settings)
		if t < 0 {
			continue
		}
		minTime = math.Min(minTime, t)
	}
	if minTime >= settings.MinimumAtRestTime {
		for _, body := range is.bodies {
			if !body.IsStatic() {
				body.SetAtRest(true)
			}
		}
	}
}

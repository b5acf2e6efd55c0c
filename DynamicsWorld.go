package dyn4go

import (
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// EarthGravity is the default world gravity in meters per second
// squared.
var EarthGravity = Vector2{X: 0.0, Y: -9.8}

// ZeroGravity is a zero gravity vector.
var ZeroGravity = Vector2{}

// World simulates bodies coupled by contact constraints and joints. A
// world owns the full pipeline: broadphase, narrowphase, manifold
// generation, island construction and constraint solving.
type World struct {
	settings *Settings
	gravity  Vector2

	bodies []*Body
	joints []Joint

	broadphase     BroadphaseDetector
	contactManager *ContactManager
	solver         *ContactConstraintSolver

	timeStep *TimeStep
	// accumulator carries the unsimulated remainder of elapsed time
	// between Update calls
	accumulator float64

	log *zap.Logger
}

// NewWorld creates an empty world with earth gravity and default
// settings.
func NewWorld() *World {
	settings := DefaultSettings()
	timeStep, _ := NewTimeStep(settings.StepFrequency)
	return &World{
		settings:       settings,
		gravity:        EarthGravity,
		broadphase:     NewSap(),
		contactManager: NewContactManager(),
		solver:         NewContactConstraintSolver(),
		timeStep:       timeStep,
		log:            zap.NewNop(),
	}
}

// SetLogger sets the logger used by the world and its pipeline. A nil
// logger disables logging.
func (w *World) SetLogger(log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	w.log = log
	w.contactManager.SetLogger(log)
	w.solver.SetLogger(log)
}

// GetSettings returns the world settings. The returned settings are
// live, changes apply from the next step on.
func (w *World) GetSettings() *Settings {
	return w.settings
}

// SetSettings replaces the world settings.
func (w *World) SetSettings(settings *Settings) error {
	if settings == nil {
		return ErrNilArgument
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	w.settings = settings
	return nil
}

// GetGravity returns the world gravity.
func (w *World) GetGravity() *Vector2 {
	return &Vector2{X: w.gravity.X, Y: w.gravity.Y}
}

// SetGravity sets the world gravity.
func (w *World) SetGravity(gravity *Vector2) error {
	if gravity == nil {
		return ErrNilArgument
	}
	w.gravity.SetVector2(gravity)
	return nil
}

// GetBroadphaseDetector returns the broadphase detector.
func (w *World) GetBroadphaseDetector() BroadphaseDetector {
	return w.broadphase
}

// SetBroadphaseDetector sets the broadphase detector.
func (w *World) SetBroadphaseDetector(detector BroadphaseDetector) error {
	if detector == nil {
		return ErrNilArgument
	}
	w.broadphase = detector
	return nil
}

// GetContactManager returns the contact manager.
func (w *World) GetContactManager() *ContactManager {
	return w.contactManager
}

// SetContactListener sets the listener receiving contact begin,
// persist and end events.
func (w *World) SetContactListener(listener ContactListener) {
	w.contactManager.SetListener(listener)
}

// AddBody adds the given body to the world.
func (w *World) AddBody(body *Body) error {
	if body == nil {
		return ErrNilArgument
	}
	for _, b := range w.bodies {
		if b == body {
			return errors.New("dyn4go: body already added to this world")
		}
	}
	w.bodies = append(w.bodies, body)
	return nil
}

// RemoveBody removes the given body, its contacts and any joints
// attached to it. Bodies it was touching are woken. Returns false if
// the body is not in this world.
func (w *World) RemoveBody(body *Body) bool {
	for i, b := range w.bodies {
		if b != body {
			continue
		}
		w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
		w.contactManager.RemoveContacts(body)
		joints := w.joints[:0]
		for _, joint := range w.joints {
			if jointHasBody(joint, body) {
				wakeJointBodies(joint)
				continue
			}
			joints = append(joints, joint)
		}
		w.joints = joints
		return true
	}
	return false
}

// RemoveAllBodies removes every body and joint without firing contact
// events.
func (w *World) RemoveAllBodies() {
	w.bodies = nil
	w.joints = nil
	w.contactManager.Clear()
}

// GetBodyCount returns the number of bodies in the world.
func (w *World) GetBodyCount() int {
	return len(w.bodies)
}

// GetBody returns the body at the given index, nil if out of range.
func (w *World) GetBody(index int) *Body {
	if index < 0 || index >= len(w.bodies) {
		return nil
	}
	return w.bodies[index]
}

// GetBodies returns the bodies of this world. The returned slice is
// live.
func (w *World) GetBodies() []*Body {
	return w.bodies
}

// AddJoint adds the given joint to the world. Every body of the joint
// must already be in the world. The joined bodies are woken.
func (w *World) AddJoint(joint Joint) error {
	if joint == nil {
		return ErrNilArgument
	}
	for _, j := range w.joints {
		if j == joint {
			return errors.New("dyn4go: joint already added to this world")
		}
	}
	for i := 0; i < joint.GetBodyCount(); i++ {
		if !w.containsBody(joint.GetBody(i)) {
			return errors.New("dyn4go: joint refers to a body not in this world")
		}
	}
	w.joints = append(w.joints, joint)
	wakeJointBodies(joint)
	return nil
}

// RemoveJoint removes the given joint, waking its bodies. Returns
// false if the joint is not in this world.
func (w *World) RemoveJoint(joint Joint) bool {
	for i, j := range w.joints {
		if j != joint {
			continue
		}
		w.joints = append(w.joints[:i], w.joints[i+1:]...)
		wakeJointBodies(joint)
		return true
	}
	return false
}

// GetJointCount returns the number of joints in the world.
func (w *World) GetJointCount() int {
	return len(w.joints)
}

// GetJoint returns the joint at the given index, nil if out of range.
func (w *World) GetJoint(index int) Joint {
	if index < 0 || index >= len(w.joints) {
		return nil
	}
	return w.joints[index]
}

// GetJoints returns the joints of this world. The returned slice is
// live.
func (w *World) GetJoints() []Joint {
	return w.joints
}

func (w *World) containsBody(body *Body) bool {
	for _, b := range w.bodies {
		if b == body {
			return true
		}
	}
	return false
}

func jointHasBody(joint Joint, body *Body) bool {
	for i := 0; i < joint.GetBodyCount(); i++ {
		if joint.GetBody(i) == body {
			return true
		}
	}
	return false
}

func wakeJointBodies(joint Joint) {
	for i := 0; i < joint.GetBodyCount(); i++ {
		body := joint.GetBody(i)
		if !body.IsStatic() {
			body.SetAtRest(false)
		}
	}
}

// DetectAABB returns the bodies and fixtures whose AABBs overlap the
// given one.
func (w *World) DetectAABB(aabb *AABB) []*BroadphaseItem {
	return w.broadphase.DetectAABB(aabb, w.bodies)
}

// Step advances the simulation by the given time in seconds.
func (w *World) Step(dt float64) error {
	if dt <= 0.0 {
		return valueOutOfRange("dt", dt, "greater than zero")
	}
	w.timeStep.Update(dt)
	w.step()
	return nil
}

// Update advances the simulation by the given elapsed wall clock time,
// stepping at the settings step frequency. Elapsed time not covered by
// a whole step carries over to the next call. Returns the number of
// steps taken.
func (w *World) Update(elapsed float64) int {
	if elapsed > 0.0 {
		w.accumulator += elapsed
	}
	dt := w.settings.StepFrequency
	steps := 0
	for w.accumulator >= dt {
		w.timeStep.Update(dt)
		w.step()
		w.accumulator -= dt
		steps++
	}
	return steps
}

// step runs one full detect and solve pass.
func (w *World) step() {
	pairs := w.broadphase.Detect(w.bodies)
	filtered := pairs[:0]
	for _, pair := range pairs {
		if pair.Body1.IsStatic() && pair.Body2.IsStatic() {
			continue
		}
		if !w.isCollisionAllowed(pair.Body1, pair.Body2) {
			continue
		}
		filtered = append(filtered, pair)
	}
	w.contactManager.UpdateContacts(filtered, w.settings)

	w.solveIslands(w.buildIslands())

	// applied forces and torques only act across a single step
	for _, body := range w.bodies {
		body.ClearForce()
		body.ClearTorque()
	}
}

// isCollisionAllowed returns false when a joint between the two bodies
// disallows collision.
func (w *World) isCollisionAllowed(body1, body2 *Body) bool {
	for _, joint := range w.joints {
		if jointConnects(joint, body1, body2) && !joint.IsCollisionAllowed() {
			return false
		}
	}
	return true
}

func jointConnects(joint Joint, body1, body2 *Body) bool {
	has1 := false
	has2 := false
	for i := 0; i < joint.GetBodyCount(); i++ {
		b := joint.GetBody(i)
		if b == body1 {
			has1 = true
		}
		if b == body2 {
			has2 = true
		}
	}
	return has1 && has2
}

// buildIslands partitions the awake bodies into islands of bodies
// coupled by contact constraints or joints. Static bodies join every
// island they touch without merging them.
func (w *World) buildIslands() []*Island {
	constraints := w.contactManager.GetContactConstraints()

	contactsByBody := make(map[*Body][]*ContactConstraint)
	for _, cc := range constraints {
		// sensors report events but never couple bodies
		if cc.sensor {
			continue
		}
		contactsByBody[cc.body1] = append(contactsByBody[cc.body1], cc)
		contactsByBody[cc.body2] = append(contactsByBody[cc.body2], cc)
	}
	jointsByBody := make(map[*Body][]Joint)
	for _, joint := range w.joints {
		for i := 0; i < joint.GetBodyCount(); i++ {
			body := joint.GetBody(i)
			jointsByBody[body] = append(jointsByBody[body], joint)
		}
	}

	var islands []*Island
	inIsland := make(map[*Body]struct{}, len(w.bodies))
	usedContacts := make(map[*ContactConstraint]struct{}, len(constraints))
	usedJoints := make(map[Joint]struct{}, len(w.joints))
	stack := make([]*Body, 0, len(w.bodies))

	for _, seed := range w.bodies {
		if seed.IsStatic() || seed.IsAtRest() {
			continue
		}
		if _, ok := inIsland[seed]; ok {
			continue
		}

		island := NewIsland(w.solver)
		stack = append(stack[:0], seed)
		inIsland[seed] = struct{}{}
		for len(stack) > 0 {
			body := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			island.AddBody(body)
			// islands do not merge across static bodies
			if body.IsStatic() {
				continue
			}
			// a sleeping body pulled into an awake island wakes up
			if body.IsAtRest() {
				body.SetAtRest(false)
			}
			for _, cc := range contactsByBody[body] {
				if _, ok := usedContacts[cc]; ok {
					continue
				}
				usedContacts[cc] = struct{}{}
				island.AddContactConstraint(cc)
				other := cc.body1
				if other == body {
					other = cc.body2
				}
				if _, ok := inIsland[other]; ok {
					continue
				}
				inIsland[other] = struct{}{}
				stack = append(stack, other)
			}
			for _, joint := range jointsByBody[body] {
				if _, ok := usedJoints[joint]; ok {
					continue
				}
				usedJoints[joint] = struct{}{}
				island.AddJoint(joint)
				for i := 0; i < joint.GetBodyCount(); i++ {
					other := joint.GetBody(i)
					if other == body {
						continue
					}
					if _, ok := inIsland[other]; ok {
						continue
					}
					inIsland[other] = struct{}{}
					stack = append(stack, other)
				}
			}
		}
		// a static body can anchor any number of islands
		for _, body := range island.bodies {
			if body.IsStatic() {
				delete(inIsland, body)
			}
		}
		islands = append(islands, island)
	}
	return islands
}

// solveIslands solves each island, concurrently when enabled. Islands
// share no writable state, static bodies are only read while solving.
func (w *World) solveIslands(islands []*Island) {
	if w.settings.ParallelIslandSolving && len(islands) > 1 {
		var group errgroup.Group
		for _, island := range islands {
			island := island
			group.Go(func() error {
				island.Solve(&w.gravity, w.timeStep, w.settings)
				return nil
			})
		}
		_ = group.Wait()
		return
	}
	for _, island := range islands {
		island.Solve(&w.gravity, w.timeStep, w.settings)
	}
}

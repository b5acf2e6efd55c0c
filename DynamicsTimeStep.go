package dyn4go

// TimeStep carries the timing values of a single simulation step. The
// world owns one and updates it every step.
type TimeStep struct {
	// DeltaTime is the elapsed time of the current step in seconds.
	DeltaTime float64
	// InverseDeltaTime is 1 / DeltaTime.
	InverseDeltaTime float64
	// PreviousDeltaTime is the elapsed time of the previous step.
	PreviousDeltaTime float64
	// InversePreviousDeltaTime is 1 / PreviousDeltaTime.
	InversePreviousDeltaTime float64
	// DeltaTimeRatio is DeltaTime / PreviousDeltaTime. Warm started
	// impulses are scaled by it so a changing step size carries them
	// over consistently.
	DeltaTimeRatio float64
}

// NewTimeStep creates a time step seeded with the given elapsed time.
// The elapsed time must be greater than zero.
func NewTimeStep(dt float64) (*TimeStep, error) {
	if dt <= 0.0 {
		return nil, valueOutOfRange("dt", dt, "must be greater than zero")
	}
	invdt := 1.0 / dt
	return &TimeStep{
		DeltaTime:                dt,
		InverseDeltaTime:         invdt,
		PreviousDeltaTime:        dt,
		InversePreviousDeltaTime: invdt,
		DeltaTimeRatio:           1.0,
	}, nil
}

// Update rolls the current values into the previous ones and takes the
// given elapsed time as the current step. The caller guarantees dt is
// greater than zero.
func (ts *TimeStep) Update(dt float64) {
	ts.PreviousDeltaTime = ts.DeltaTime
	ts.InversePreviousDeltaTime = ts.InverseDeltaTime
	ts.DeltaTime = dt
	ts.InverseDeltaTime = 1.0 / dt
	ts.DeltaTimeRatio = ts.DeltaTime * ts.InversePreviousDeltaTime
}

package app

// Tick is the input of one host-loop iteration.
type Tick struct {
	Recording  bool
	StillFrame bool
	// StepDue is set when the step interval has elapsed.
	StepDue    bool
	Paused     bool
	SingleStep bool
	// TargetReached is set once the recording holds its configured length.
	TargetReached bool
	// Initial is set until the first frame of a recording has been emitted.
	Initial bool
}

// Action is what the host loop should do for a Tick, in field order: step the
// board, then emit a frame of the result, then finish the recording.
type Action struct {
	Step   bool
	Emit   bool
	Finish bool
}

// Decide resolves a Tick into an Action.
//
//	recording  still-frame  step due | step  emit
//	no         -            no       | no    no
//	no         -            yes      | yes   no
//	yes        no           no       | no    yes
//	yes        no           yes      | yes   yes
//	yes        yes          no       | no    no
//	yes        yes          yes      | yes   yes
//
// Pausing clears "step due" and a single step sets it. In still-frame mode the
// initial board is emitted once so the video opens on generation 0. Once the
// target is reached nothing more is emitted and the recording is finished.
func Decide(t Tick) Action {
	var a Action
	a.Step = (t.StepDue && !t.Paused) || t.SingleStep
	if !t.Recording {
		return a
	}
	if t.TargetReached {
		a.Finish = true
		return a
	}
	a.Emit = !t.StillFrame || a.Step || t.Initial
	return a
}

package workflow

import "context"

// maxSteps bounds the supervisor loop; a healthy run needs at most three
// supervisor visits.
const maxSteps = 8

// StepFunc executes one workflow stage. Steps degrade internally instead of
// returning errors: any failure is recorded on the state and control returns
// to the supervisor.
type StepFunc func(ctx context.Context, s *State)

// Machine is the per-asset finite-state machine. The supervisor transition
// runs between every stage; routing ends the run.
type Machine struct {
	steps map[Stage]StepFunc
}

// NewMachine builds a machine from stage handlers.
func NewMachine(steps map[Stage]StepFunc) *Machine {
	return &Machine{steps: steps}
}

// Run drives the state machine to completion: supervisor decides, the chosen
// stage executes, and control loops back until end (or routing, which is
// terminal).
func (m *Machine) Run(ctx context.Context, s *State) {
	for i := 0; i < maxSteps; i++ {
		s.Current = StageSupervisor
		next := NextStage(s)
		s.Next = next
		s.trace("supervisor: next=%s", next)

		if next == StageEnd {
			s.Current = StageEnd
			return
		}

		step, ok := m.steps[next]
		if !ok {
			s.trace("no handler for stage %s, ending", next)
			s.Current = StageEnd
			return
		}

		s.Current = next
		step(ctx, s)

		if next == StageRouting {
			s.Current = StageEnd
			return
		}
	}
	s.trace("workflow stopped after %d supervisor visits", maxSteps)
	s.Current = StageEnd
}

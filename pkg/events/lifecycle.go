package events

import "github.com/vango-dev/navstate/internal/fsm"

// Lifecycle states the router moves through, end to end.
const (
	Idle          fsm.State = "idle"
	Starting      fsm.State = "starting"
	Ready         fsm.State = "ready"
	Transitioning fsm.State = "transitioning"
	Disposed      fsm.State = "disposed"
)

// Lifecycle events drive the state machine transitions above.
const (
	evStart    fsm.Event = "start"
	evSettled  fsm.Event = "settled"
	evNavigate fsm.Event = "navigate"
	evStop     fsm.Event = "stop"
	evDispose  fsm.Event = "dispose"
)

func lifecycleTable() []fsm.Transition {
	return []fsm.Transition{
		{From: Idle, On: evStart, To: Starting},
		{From: Starting, On: evSettled, To: Ready},
		{From: Ready, On: evNavigate, To: Transitioning},
		{From: Transitioning, On: evSettled, To: Ready},
		{From: Ready, On: evStop, To: Idle},
		{From: Transitioning, On: evStop, To: Idle},
		{From: Idle, On: evDispose, To: Disposed},
		{From: Starting, On: evDispose, To: Disposed},
		{From: Ready, On: evDispose, To: Disposed},
		{From: Transitioning, On: evDispose, To: Disposed},
	}
}

// newLifecycle builds the lifecycle machine in its initial Idle state.
func newLifecycle() *fsm.Machine {
	return fsm.New(Idle, lifecycleTable())
}

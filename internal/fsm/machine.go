package fsm

import (
	"fmt"
	"sync"
)

// State is a named state in the machine.
type State string

// Event is a named trigger accepted by the machine.
type Event string

// Transition declares that, while in From, sending On moves the machine
// to To.
type Transition struct {
	From State
	On   Event
	To   State
}

// key flattens (state, event) into a single map key for O(1) lookup.
type key struct {
	state State
	event Event
}

// Machine is a thread-safe finite-state machine over a fixed transition
// table. It does not run actions itself; callers inspect the (from, to)
// pair returned by Send and react accordingly.
type Machine struct {
	mu      sync.Mutex
	current State
	table   map[key]State
}

// New builds a Machine starting in initial, accepting the given
// transitions. The table is built once and is read-only thereafter, so
// CanSend/Send never allocate.
func New(initial State, transitions []Transition) *Machine {
	table := make(map[key]State, len(transitions))
	for _, t := range transitions {
		table[key{t.From, t.On}] = t.To
	}
	return &Machine{current: initial, table: table}
}

// Current returns the machine's current state.
func (m *Machine) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// CanSend reports whether event is accepted in the current state,
// without performing the transition.
func (m *Machine) CanSend(event Event) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.table[key{m.current, event}]
	return ok
}

// Send attempts to fire event. On success it returns the state the
// machine transitioned from and the state it transitioned to, and
// updates Current() accordingly. On failure the machine is left
// unchanged and an error describing the rejected transition is
// returned.
func (m *Machine) Send(event Event) (from, to State, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next, ok := m.table[key{m.current, event}]
	if !ok {
		return m.current, m.current, fmt.Errorf("fsm: event %q not accepted in state %q", event, m.current)
	}
	from = m.current
	m.current = next
	return from, next, nil
}

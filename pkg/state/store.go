package state

import (
	"sync"
	"sync/atomic"

	"github.com/vango-dev/navstate/pkg/params"
)

// UnknownRoute is the reserved route name used when allowNotFound is
// enabled and a URL matches nothing in the tree.
const UnknownRoute = "@@router/UNKNOWN_ROUTE"

// Store holds the current and previous published states plus the
// monotonic counter used to stamp State.Meta.ID.
type Store struct {
	mu       sync.RWMutex
	current  *State
	previous *State
	counter  atomic.Uint64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Get returns the current state, or nil if none has been published.
func (s *Store) Get() *State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// GetPrevious returns the state that was current before the last Set
// call, or nil.
func (s *Store) GetPrevious() *State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.previous
}

// Set rotates current into previous and publishes st as current. st's
// Params and nested containers are deep-frozen first so no external
// reference can mutate published state afterward.
func (s *Store) Set(st *State) {
	frozen := freeze(st)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.previous = s.current
	s.current = frozen
}

// Clear empties both current and previous, used by stop().
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	s.previous = nil
}

// NextID returns the next value of the monotonic state-id counter.
func (s *Store) NextID() uint64 {
	return s.counter.Add(1)
}

// MakeState builds a new State with a fresh monotonic id (or forceID,
// if non-zero, for tests that need deterministic ids). The returned
// state is not yet published; call Set to do that.
func (s *Store) MakeState(name string, p params.Params, path string, opts NavigationOptions, forceID uint64) *State {
	id := forceID
	if id == 0 {
		id = s.NextID()
	}
	return &State{
		Name:   name,
		Params: p,
		Path:   path,
		Meta: Meta{
			ID:      id,
			Options: opts,
			Params:  p,
		},
	}
}

// MakeNotFoundState builds the reserved UNKNOWN_ROUTE state for a path
// that matched nothing.
func (s *Store) MakeNotFoundState(path string, opts NavigationOptions) *State {
	p := params.Params{"path": path}
	return s.MakeState(UnknownRoute, p, path, opts, 0)
}

// freeze deep-copies st's mutable fields. Params and Meta.Params are
// frozen by separate params.Freeze calls, so a map shared between them
// (the common case: the same map instance) is copied once for each.
func freeze(st *State) *State {
	if st == nil {
		return nil
	}
	out := *st
	out.Params = params.Freeze(st.Params)
	out.Meta.Params = params.Freeze(st.Meta.Params)
	if st.Transition != nil {
		td := *st.Transition
		td.Segments.Deactivated = append([]string(nil), st.Transition.Segments.Deactivated...)
		td.Segments.Activated = append([]string(nil), st.Transition.Segments.Activated...)
		out.Transition = &td
	}
	return &out
}

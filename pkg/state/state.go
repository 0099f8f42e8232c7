package state

import (
	"context"

	"github.com/vango-dev/navstate/pkg/params"
)

// NavigationOptions is the closed set of navigation switches that can
// accompany a navigate() call. Every field has a single, well-defined
// effect on the transition pipeline; there is no open-ended options bag.
type NavigationOptions struct {
	// Replace asks the history adapter to overwrite the current entry
	// instead of pushing a new one. The engine itself does not act on
	// this; it is surfaced for the (external) history adapter to read
	// off the published state's Meta.
	Replace bool

	// Reload re-runs the pipeline for the same destination even if the
	// resulting state would be equal to the current one.
	Reload bool

	// Force is an alias with the same effect as Reload, kept distinct
	// because callers reach for either name.
	Force bool

	// SkipTransition returns the would-be state synchronously without
	// running guards or publishing.
	SkipTransition bool

	// ForceDeactivate bypasses deactivation guards entirely.
	ForceDeactivate bool

	// Redirected marks this navigation as the result of another
	// navigation's redirect, rather than a caller-initiated one.
	Redirected bool

	// Signal is an external cancellation source the caller supplied.
	// It is forwarded into the transition's own cancellation source; it
	// is not itself read after navigate() returns.
	Signal context.Context
}

// Segments describes which route segments deactivate, which activate,
// and the longest common ancestor segment between two states.
type Segments struct {
	Intersection string
	Deactivated  []string
	Activated    []string
}

// TransitionDescriptor is attached to a successfully published state,
// describing how it was reached.
type TransitionDescriptor struct {
	Phase    string // always "activating" for a published descriptor
	From     string // full name of the previous state; empty if none
	Reason   string // "success" for every published descriptor
	Segments Segments
}

// Meta carries bookkeeping that accompanies a published State but is
// not itself routing data: a monotonically increasing id, the options
// that produced the state, and the params the state was built from
// (the same merged params as State.Params).
type Meta struct {
	ID      uint64
	Options NavigationOptions
	Params  params.Params
}

// State is a frozen record of "where the router is". Once published it
// is never mutated; a new State replaces it atomically. Params and any
// nested containers are deep-copied on the way in (see params.Freeze)
// so a caller's later mutation of a map they passed in cannot corrupt
// published state.
type State struct {
	Name       string
	Params     params.Params
	Path       string
	Meta       Meta
	Transition *TransitionDescriptor
}

// Clone returns a deep copy of s suitable for handing to a caller: the
// caller can do whatever they like with the result without risk of
// corrupting engine-internal state.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	out := *s
	out.Params = params.Clone(s.Params)
	out.Meta.Params = params.Clone(s.Meta.Params)
	if s.Transition != nil {
		td := *s.Transition
		td.Segments.Deactivated = append([]string(nil), s.Transition.Segments.Deactivated...)
		td.Segments.Activated = append([]string(nil), s.Transition.Segments.Activated...)
		out.Transition = &td
	}
	return &out
}

// Equal reports whether two states are equivalent for navigation
// purposes: same name and deeply-equal params. Meta and the attached
// transition descriptor are ignored, per the "same state" rule in the
// transition pipeline.
func Equal(a, b *State, ignoreQuery bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Name != b.Name {
		return false
	}
	ap, bp := a.Params, b.Params
	if ignoreQuery {
		ap = withoutQueryKeys(ap)
		bp = withoutQueryKeys(bp)
	}
	return params.Equal(ap, bp)
}

// withoutQueryKeys is a placeholder hook for callers that track which
// param keys originated from the query string; the tree package
// supplies the declared-query-key set used by isActiveRoute(ignoreQuery).
// State itself has no notion of which keys are "query" keys, so by
// default this is a no-op and ignoreQuery has no effect unless the
// caller pre-filters params before calling Equal.
func withoutQueryKeys(p params.Params) params.Params {
	return p
}

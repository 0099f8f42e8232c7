package transition

import (
	"context"
	"sync"

	"github.com/vango-dev/navstate/internal/rerr"
	"github.com/vango-dev/navstate/pkg/events"
	"github.com/vango-dev/navstate/pkg/guard"
	"github.com/vango-dev/navstate/pkg/lifecycle"
	"github.com/vango-dev/navstate/pkg/params"
	"github.com/vango-dev/navstate/pkg/state"
	"github.com/vango-dev/navstate/pkg/tree"
)

// Forwarder resolves a forwardTo chain for a matched or requested route.
// The facade wires this to the plugin registry's ResolveForward, which
// itself defaults to the tree's own resolver.
type Forwarder interface {
	ResolveForward(name string, p params.Params, deps guard.Deps) (string, params.Params, error)
}

// Engine drives navigate() calls against a compiled tree, a lifecycle
// registry of guards, a state store, and an event bus. Exactly one
// transition is ever in flight; a new navigate() cancels whatever
// transition preceded it.
type Engine struct {
	tree      *tree.Tree
	lifecycle *lifecycle.Registry
	store     *state.Store
	bus       *events.Bus
	forwarder Forwarder

	mu      sync.Mutex
	inFlight *inflight
}

type inflight struct {
	id     uint64
	cancel context.CancelFunc
}

// New builds an Engine over the given components. All of them are
// expected to already be wired to each other by the facade (tree
// compiled, lifecycle reloaded from the tree, forwarder pointed at the
// plugin registry).
func New(t *tree.Tree, lc *lifecycle.Registry, store *state.Store, bus *events.Bus, fwd Forwarder) *Engine {
	return &Engine{tree: t, lifecycle: lc, store: store, bus: bus, forwarder: fwd}
}

// Navigate runs the full transition pipeline for a target route name
// and params, publishing the resulting state on success. deps is
// forwarded to every guard and to forwarding resolution.
func (e *Engine) Navigate(ctx context.Context, deps guard.Deps, name string, p params.Params, opts state.NavigationOptions) (*state.State, error) {
	return e.navigate(ctx, deps, name, p, opts, nil)
}

// NavigateWithPrePublish behaves exactly like Navigate, except that once
// every guard has passed — but before the resulting state is published
// and TRANSITION_SUCCESS is emitted — it calls prePublish with the state
// about to be published. The facade's Start uses this to emit
// ROUTER_START strictly between TRANSITION_START and TRANSITION_SUCCESS,
// without adding an open-ended callback field to NavigationOptions.
func (e *Engine) NavigateWithPrePublish(ctx context.Context, deps guard.Deps, name string, p params.Params, opts state.NavigationOptions, prePublish func(to *state.State)) (*state.State, error) {
	return e.navigate(ctx, deps, name, p, opts, prePublish)
}

func (e *Engine) navigate(ctx context.Context, deps guard.Deps, name string, p params.Params, opts state.NavigationOptions, prePublish func(to *state.State)) (*state.State, error) {
	if e.bus.Current() == events.Disposed {
		return nil, rerr.New(rerr.RouterDisposed)
	}
	if e.bus.Current() == events.Idle {
		return nil, rerr.New(rerr.RouterNotStarted)
	}

	if err := params.Validate(p); err != nil {
		return nil, rerr.Newf(rerr.InvalidParams, "%v", err).WithName(name)
	}

	var target *state.State
	if name == state.UnknownRoute {
		// The reserved not-found state has no tree node to forward from or
		// build a path for; its "path" param carries the unmatched URL.
		path, _ := p["path"].(string)
		target = e.store.MakeNotFoundState(path, opts)
	} else {
		finalName, finalParams, err := e.forwarder.ResolveForward(name, p, deps)
		if err != nil {
			return nil, err
		}
		builtPath, err := e.tree.BuildPath(finalName, finalParams)
		if err != nil {
			return nil, err
		}
		target = e.store.MakeState(finalName, finalParams, builtPath, opts, 0)
	}

	from := e.store.Get()

	// A navigation that supersedes an in-flight one is never a no-op,
	// even when it targets the currently published state.
	e.mu.Lock()
	busy := e.inFlight != nil
	e.mu.Unlock()
	if from != nil && !busy && state.Equal(from, target, false) && !opts.Reload && !opts.Force {
		return nil, rerr.New(rerr.SameStates).WithName(target.Name)
	}

	if opts.SkipTransition {
		return target, nil
	}

	return e.runTransition(ctx, deps, from, target, opts, prePublish)
}

// runTransition executes steps 5-12 of the pipeline: superseding any
// in-flight transition, wiring cancellation, running guards in the
// required order, and publishing or reporting failure.
func (e *Engine) runTransition(parent context.Context, deps guard.Deps, from, to *state.State, opts state.NavigationOptions, prePublish func(to *state.State)) (*state.State, error) {
	e.mu.Lock()
	if e.inFlight != nil {
		// A transition is already in flight: cancel it rather than queue
		// behind it. Its own goroutine notices ctx.Err() at the next guard
		// checkpoint and unwinds through cancelled(), which settles the
		// bus on our behalf; we don't wait for that here, since e.inFlight
		// (not the bus's lifecycle state) is this engine's authoritative
		// single-flight marker.
		e.inFlight.cancel()
	}
	// BeginTransition may legitimately fail here if the superseded
	// transition hasn't reached its next cancellation checkpoint and
	// settled the bus yet; the bus's Ready/Transitioning state is an
	// observability signal, not the gate e.inFlight already provides, so
	// a failure here is not itself an error for this navigation.
	_ = e.bus.BeginTransition()

	signal := opts.Signal
	if signal == nil {
		signal = parent
	}
	ctx, cancel := context.WithCancel(signal)
	e.inFlight = &inflight{id: to.Meta.ID, cancel: cancel}
	self := e.inFlight
	e.mu.Unlock()

	fromName := ""
	if from != nil {
		fromName = from.Name
	}
	e.bus.Emit(events.TransitionStart, &events.Payload{FromName: fromName, ToName: to.Name})

	defer func() {
		e.mu.Lock()
		if e.inFlight == self {
			e.inFlight = nil
		}
		e.mu.Unlock()
		_ = e.bus.Settled()
	}()

	segs := e.tree.SegmentPath(fromName, to.Name)

	if !opts.ForceDeactivate {
		for _, route := range segs.Deactivated {
			if ctx.Err() != nil {
				return e.cancelled(ctx, fromName, to.Name)
			}
			ok, err := e.runGuards(ctx, route, lifecycle.Deactivate, deps, to, from)
			if err != nil {
				if ctx.Err() != nil {
					return e.cancelled(ctx, fromName, to.Name)
				}
				return e.fail(fromName, to.Name, err)
			}
			if !ok {
				return e.fail(fromName, to.Name, rerr.New(rerr.CannotDeactivate).WithSegment(route).WithName(to.Name))
			}
		}
	}

	// Activation guards never run for the reserved not-found destination:
	// there is no real route definition behind it to own a guard, and the
	// pipeline still needs to reach a published state for it.
	if to.Name != state.UnknownRoute {
		for _, route := range segs.Activated {
			if ctx.Err() != nil {
				return e.cancelled(ctx, fromName, to.Name)
			}
			ok, err := e.runGuards(ctx, route, lifecycle.Activate, deps, to, from)
			if err != nil {
				if ctx.Err() != nil {
					return e.cancelled(ctx, fromName, to.Name)
				}
				return e.fail(fromName, to.Name, err)
			}
			if !ok {
				return e.fail(fromName, to.Name, rerr.New(rerr.CannotActivate).WithSegment(route).WithName(to.Name))
			}
		}
	}

	if ctx.Err() != nil {
		return e.cancelled(ctx, fromName, to.Name)
	}

	to.Transition = &state.TransitionDescriptor{
		Phase:    "activating",
		From:     fromName,
		Reason:   "success",
		Segments: segs,
	}
	if prePublish != nil {
		prePublish(to)
	}
	e.store.Set(to)
	e.bus.Emit(events.TransitionSuccess, &events.Payload{FromName: fromName, ToName: to.Name})
	return e.store.Get(), nil
}

// runGuards evaluates every guard factory registered for route and kind,
// short-circuiting on the first rejection or error. Guards run
// cooperatively, one at a time, never concurrently with each other.
func (e *Engine) runGuards(ctx context.Context, route string, kind lifecycle.Kind, deps guard.Deps, to, from *state.State) (bool, error) {
	for _, factory := range e.lifecycle.Factories(route, kind) {
		fn := factory(deps)
		ok, err := fn(ctx, to, from)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func (e *Engine) fail(fromName, toName string, err error) (*state.State, error) {
	e.bus.Emit(events.TransitionError, &events.Payload{FromName: fromName, ToName: toName, Err: err})
	return nil, err
}

func (e *Engine) cancelled(ctx context.Context, fromName, toName string) (*state.State, error) {
	e.bus.Emit(events.TransitionCancel, &events.Payload{FromName: fromName, ToName: toName})
	return nil, rerr.New(rerr.TransitionCancelled).WithName(toName)
}

// ShouldUpdateNode reports whether a UI node rendering forName needs to
// re-render for a transition from "from" (nil if nothing was published
// yet, as at start()) to "to". Implements the truth table in order: a
// reload- or force-driven transition always updates every node; absent
// a prior state, only the root ("") or the destination itself updates;
// otherwise a node updates when it lies on the changed segment path (it
// deactivates, activates, or is the shared intersection whose params
// may have changed).
func (e *Engine) ShouldUpdateNode(forName string, from, to *state.State) bool {
	if to != nil && (to.Meta.Options.Reload || to.Meta.Options.Force) {
		return true
	}

	toName := ""
	if to != nil {
		toName = to.Name
	}

	if from == nil {
		return forName == "" || forName == toName
	}

	if forName == from.Name || forName == toName {
		return true
	}
	segs := e.tree.SegmentPath(from.Name, toName)
	for _, s := range segs.Deactivated {
		if s == forName {
			return true
		}
	}
	for _, s := range segs.Activated {
		if s == forName {
			return true
		}
	}
	return forName == segs.Intersection
}

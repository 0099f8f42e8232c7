// Package navstate is a framework-independent client-side routing
// engine: a compiled route tree, a cancellable transition pipeline with
// ordered activation/deactivation guards, a typed event bus, and a small
// plugin substrate, all owned by a single Router facade.
//
// A Router is built once from a route forest and a set of Options, then
// driven through start()/navigate()/stop()/dispose(). After dispose(),
// Start, Stop, Navigate, NavigateToDefault, UsePlugin and route-tree
// replacement fail with rerr.RouterDisposed; the lifecycle, dependency,
// subscription and plugin-API setters do not check for disposal.
package navstate

import (
	"context"
	"sync"

	"github.com/vango-dev/navstate/internal/rerr"
	"github.com/vango-dev/navstate/pkg/events"
	"github.com/vango-dev/navstate/pkg/lifecycle"
	"github.com/vango-dev/navstate/pkg/params"
	"github.com/vango-dev/navstate/pkg/plugin"
	"github.com/vango-dev/navstate/pkg/state"
	"github.com/vango-dev/navstate/pkg/transition"
	"github.com/vango-dev/navstate/pkg/tree"
)

// Router is the facade over the eight owned components: OptionsStore,
// RouteTree, LifecycleRegistry, StateStore, EventBus, PluginRegistry,
// TransitionEngine, and the router's own start/stop/dispose state.
//
// All of Router's methods are safe for concurrent use: unlike the
// single-threaded host this design was distilled from, Go callers may
// legitimately call facade methods from multiple goroutines even though
// the engine still enforces at-most-one active transition.
type Router struct {
	options *OptionsStore
	tree    *tree.Tree
	life    *lifecycle.Registry
	store   *state.Store
	bus     *events.Bus
	plugins *plugin.Registry
	engine  *transition.Engine
	deps    *DepsStore

	mu       sync.Mutex
	routes   []tree.RouteDef
	disposed bool
	rootPath string
}

// New compiles routes and wires a fresh Router. The router starts
// disposed-of no component concerns: it is in the Idle lifecycle state
// until start() is called.
func New(routes []tree.RouteDef, opts Options) (*Router, error) {
	store := newOptionsStore(opts)
	lim := store.GetLimits()

	t, err := tree.Compile(routes, store.treeOptions())
	if err != nil {
		return nil, err
	}

	life := lifecycle.New(lim.MaxLifecycleHandlers)
	reloadLifecycleFromTree(life, t)

	stateStore := state.NewStore()
	bus := events.New(nil, events.Limits{
		WarnListeners: lim.WarnListeners,
		MaxListeners:  lim.MaxListeners,
		MaxEventDepth: lim.MaxEventDepth,
	})
	deps := newDepsStore(lim.MaxDependencies)
	plugins := plugin.New(t.ResolveForward, lim.MaxPlugins)
	engine := transition.New(t, life, stateStore, bus, plugins)

	return &Router{
		options: store,
		tree:    t,
		life:    life,
		store:   stateStore,
		bus:     bus,
		plugins: plugins,
		engine:  engine,
		deps:    deps,
		routes:  routes,
	}, nil
}

// reloadLifecycleFromTree resyncs the lifecycle registry's
// Definition-origin guards from the tree's current route set, preserving
// whatever External-origin guards were registered through the lifecycle
// API. Used at construction and after every routes.Replace.
func reloadLifecycleFromTree(life *lifecycle.Registry, t *tree.Tree) {
	life.ReloadDefinitions(t.Names(), func(name string) (lifecycle.RouteGuards, bool) {
		def, ok := t.Get(name)
		if !ok {
			return lifecycle.RouteGuards{}, false
		}
		return lifecycle.RouteGuards{CanActivate: def.CanActivate, CanDeactivate: def.CanDeactivate}, true
	})
}

// requireNotDisposed is the disposal check that Start, Stop, Navigate,
// UsePlugin and route-tree replacement run first, in place of swapping
// those methods' function pointers for ones that fail.
func (r *Router) requireNotDisposed() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.disposed {
		return rerr.New(rerr.RouterDisposed)
	}
	return nil
}

// IsActive reports whether the router is running: started and not yet
// stopped or disposed.
func (r *Router) IsActive() bool {
	return r.bus.Current() == events.Ready || r.bus.Current() == events.Transitioning
}

// Start computes and publishes the initial state, moving the router
// from Idle to Ready. input is a URL path to match; if empty, the
// configured DefaultRoute/DefaultParams are used. Fails with
// RouterAlreadyStarted on a second call, or NoStartPathOrState if
// neither an input nor a default route is available.
func (r *Router) Start(ctx context.Context, input string) (*state.State, error) {
	if err := r.requireNotDisposed(); err != nil {
		return nil, err
	}
	if r.bus.Current() != events.Idle {
		return nil, rerr.New(rerr.RouterAlreadyStarted)
	}

	name, p, err := r.resolveStartTarget(input)
	if err != nil {
		return nil, err
	}

	if err := r.bus.Start(); err != nil {
		return nil, err
	}

	st, err := r.engine.NavigateWithPrePublish(ctx, r.deps, name, p, state.NavigationOptions{}, func(to *state.State) {
		r.bus.Emit(events.RouterStart, &events.Payload{ToName: to.Name})
	})
	if err != nil {
		_ = r.bus.Dispose()
		return nil, err
	}
	return st, nil
}

// resolveStartTarget turns Start's input into a route name and params,
// either by matching input as a URL or falling back to the configured
// default route.
func (r *Router) resolveStartTarget(input string) (string, params.Params, error) {
	if input != "" {
		match, err := r.tree.MatchPath(input, r.deps)
		if err != nil {
			return "", nil, err
		}
		return match.Name, match.Params, nil
	}

	opts := r.options.Get()
	if opts.DefaultRoute == "" {
		return "", nil, rerr.New(rerr.NoStartPathOrState)
	}
	return opts.DefaultRoute, params.Params(opts.DefaultParams), nil
}

// Stop cancels any in-flight transition and returns the router to Idle,
// clearing the published state. A no-op if the router is not running.
func (r *Router) Stop() error {
	if err := r.requireNotDisposed(); err != nil {
		return err
	}
	if r.bus.Current() == events.Idle {
		return nil
	}
	if r.bus.Current() == events.Transitioning {
		_ = r.bus.Settled()
	}
	if err := r.bus.Stop(); err != nil {
		return err
	}
	r.store.Clear()
	r.bus.Emit(events.RouterStop, &events.Payload{})
	return nil
}

// Dispose permanently tears the router down: cancels any in-flight
// transition, stops if running, disposes the event bus, closes every
// installed plugin, and clears routes, guards, and dependencies. Safe to
// call more than once.
func (r *Router) Dispose() error {
	r.mu.Lock()
	if r.disposed {
		r.mu.Unlock()
		return nil
	}
	r.disposed = true
	r.mu.Unlock()

	if cur := r.bus.Current(); cur == events.Ready || cur == events.Transitioning {
		if cur == events.Transitioning {
			_ = r.bus.Settled()
		}
		if r.bus.Stop() == nil {
			r.bus.Emit(events.RouterStop, &events.Payload{})
		}
	}
	_ = r.bus.Dispose()

	pluginErr := r.plugins.CloseAll()
	r.life.ClearAll()
	r.store.Clear()
	_ = r.tree.Replace(nil)
	r.deps.mu.Lock()
	r.deps.items = make(map[string]any)
	r.deps.mu.Unlock()
	r.mu.Lock()
	r.routes = nil
	r.mu.Unlock()

	return pluginErr
}

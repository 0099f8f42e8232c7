package plugin

import (
	"sync"

	"github.com/vango-dev/navstate/internal/rerr"
	"github.com/vango-dev/navstate/pkg/events"
	"github.com/vango-dev/navstate/pkg/guard"
	"github.com/vango-dev/navstate/pkg/params"
)

// ForwardResolver resolves a forwardTo chain for name, the same
// signature tree.Tree.ResolveForward exposes. The registry's forwarding
// hook defaults to the tree's own resolver; a plugin may wrap it to
// observe or override forwarding decisions.
type ForwardResolver func(name string, p params.Params, deps guard.Deps) (string, params.Params, error)

// Instance is a running plugin: whatever teardown it needs happens in
// Close. Close must be safe to call even if Factory partially failed to
// set up (it may be called with a nil error from that case's teardown
// path), and must be idempotent.
type Instance interface {
	Close() error
}

// Factory builds a plugin Instance against the bus it will observe and
// the dependency lookup available at install time.
type Factory func(bus *events.Bus, deps guard.Deps) (Instance, error)

// DefaultMaxPlugins bounds how many plugins a single Registry will hold
// concurrently when the caller doesn't configure a different limit,
// guarding against a caller accidentally installing the same plugin
// repeatedly (e.g. once per navigation instead of once at setup).
const DefaultMaxPlugins = 50

type installed struct {
	name     string
	instance Instance
}

// Registry tracks installed plugins and the forwarding-resolution hook
// they may wrap.
type Registry struct {
	mu         sync.Mutex
	plugins    []installed
	maxPlugins int

	forwardMu sync.RWMutex
	forward   ForwardResolver
}

// New returns an empty Registry. base is the tree's own forwarding
// resolver, used until a plugin wraps it. maxPlugins bounds how many
// plugins may be installed at once; a value <= 0 falls back to
// DefaultMaxPlugins.
func New(base ForwardResolver, maxPlugins int) *Registry {
	if maxPlugins <= 0 {
		maxPlugins = DefaultMaxPlugins
	}
	return &Registry{forward: base, maxPlugins: maxPlugins}
}

// Use installs a plugin under name by calling factory, and returns an
// unsubscribe function that tears it down. Installing two plugins under
// the same name is allowed (names are metadata, not a uniqueness key);
// callers that want single-instance semantics enforce it themselves.
func (r *Registry) Use(name string, factory Factory, bus *events.Bus, deps guard.Deps) (func() error, error) {
	r.mu.Lock()
	if len(r.plugins) >= r.maxPlugins {
		r.mu.Unlock()
		return nil, rerr.Newf(rerr.LimitExceeded, "plugin registry exceeded %d installed plugins", r.maxPlugins)
	}
	r.mu.Unlock()

	inst, err := factory(bus, deps)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.plugins = append(r.plugins, installed{name: name, instance: inst})
	r.mu.Unlock()

	return func() error {
		return r.remove(inst)
	}, nil
}

func (r *Registry) remove(target Instance) error {
	r.mu.Lock()
	idx := -1
	for i, p := range r.plugins {
		if p.instance == target {
			idx = i
			break
		}
	}
	if idx == -1 {
		r.mu.Unlock()
		return nil
	}
	r.plugins = append(r.plugins[:idx], r.plugins[idx+1:]...)
	r.mu.Unlock()
	return target.Close()
}

// CloseAll tears down every installed plugin, collecting (not stopping
// on) individual close errors; it returns the first one encountered, if
// any, after attempting every teardown.
func (r *Registry) CloseAll() error {
	r.mu.Lock()
	plugins := r.plugins
	r.plugins = nil
	r.mu.Unlock()

	var first error
	for _, p := range plugins {
		if err := p.instance.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Len reports how many plugins are currently installed.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.plugins)
}

// WrapForward installs wrap around the current forwarding resolver: wrap
// receives the previous resolver and returns the one to use from now
// on, the same decorator shape ComposeMiddleware uses for request
// handling chains elsewhere in this codebase.
func (r *Registry) WrapForward(wrap func(next ForwardResolver) ForwardResolver) {
	r.forwardMu.Lock()
	defer r.forwardMu.Unlock()
	r.forward = wrap(r.forward)
}

// ResolveForward calls the current (possibly plugin-wrapped) forwarding
// resolver.
func (r *Registry) ResolveForward(name string, p params.Params, deps guard.Deps) (string, params.Params, error) {
	r.forwardMu.RLock()
	resolve := r.forward
	r.forwardMu.RUnlock()
	return resolve(name, p, deps)
}

package navstate

import (
	"github.com/vango-dev/navstate/pkg/events"
	"github.com/vango-dev/navstate/pkg/params"
	"github.com/vango-dev/navstate/pkg/plugin"
	"github.com/vango-dev/navstate/pkg/state"
	"github.com/vango-dev/navstate/pkg/tree"
)

// UsePlugin installs factory against the router's event bus and
// dependency table, returning an unsubscribe function that tears the
// plugin down. Bounded by Options.Limits.MaxPlugins.
func (r *Router) UsePlugin(name string, factory plugin.Factory) (func() error, error) {
	if err := r.requireNotDisposed(); err != nil {
		return nil, err
	}
	return r.plugins.Use(name, factory, r.bus, r.deps)
}

// Plugin exposes the narrower surface a plugin factory itself needs
// once installed: building states, matching paths, intercepting
// forwarding, and reading configuration — the "plugin API" side-table
// distinct from the application-facing Router methods above.
type Plugin struct {
	r *Router
}

// PluginAPI returns the plugin-facing API bound to r, for use inside a
// plugin.Factory closure.
func (r *Router) PluginAPI() *Plugin {
	return &Plugin{r: r}
}

// MakeState builds a State for name/params/path without publishing it,
// for plugins that need to construct a hypothetical state (e.g. to
// compare against the current one).
func (p *Plugin) MakeState(name string, params params.Params, path string) *state.State {
	return p.r.store.MakeState(name, params, path, state.NavigationOptions{}, 0)
}

// MatchPath is the same no-side-effect match the Router facade exposes,
// surfaced here so a plugin closure doesn't need to hold its own
// reference to the Router.
func (p *Plugin) MatchPath(path string) (*tree.MatchResult, error) {
	return p.r.MatchPath(path)
}

// SetForwardState installs wrap as the outermost layer of the
// forwarding-resolution chain, ahead of whatever the tree or earlier
// plugins already contribute. See plugin.Registry.WrapForward.
func (p *Plugin) SetForwardState(wrap func(next plugin.ForwardResolver) plugin.ForwardResolver) {
	p.r.plugins.WrapForward(wrap)
}

// GetOptions returns the router's configuration snapshot.
func (p *Plugin) GetOptions() Options {
	return p.r.options.Get()
}

// SetRootPath configures a URL prefix stripped from every path before
// matching (and, symmetrically, that BuildPath's caller is expected to
// prepend back for browser history). An empty or "/" prefix disables
// stripping.
func (p *Plugin) SetRootPath(prefix string) {
	p.r.mu.Lock()
	p.r.rootPath = prefix
	p.r.mu.Unlock()
}

// Bus exposes the raw event bus for plugins that need to subscribe to
// topics beyond the six bridge events (a custom plugin-defined Topic,
// for instance).
func (p *Plugin) Bus() *events.Bus {
	return p.r.bus
}

package navstate

import (
	"context"

	"github.com/vango-dev/navstate/internal/rerr"
	"github.com/vango-dev/navstate/pkg/events"
	"github.com/vango-dev/navstate/pkg/params"
	"github.com/vango-dev/navstate/pkg/state"
	"github.com/vango-dev/navstate/pkg/tree"
)

// MatchPath matches a URL against the compiled tree with no side
// effects: it does not touch the state store or emit any event. Any
// configured root path prefix (see plugin API's SetRootPath) is
// stripped before matching.
func (r *Router) MatchPath(path string) (*tree.MatchResult, error) {
	return r.tree.MatchPath(r.stripRootPath(path), r.deps)
}

func (r *Router) stripRootPath(path string) string {
	r.mu.Lock()
	prefix := r.rootPath
	r.mu.Unlock()
	if prefix == "" || prefix == "/" {
		return path
	}
	if len(path) >= len(prefix) && path[:len(prefix)] == prefix {
		rest := path[len(prefix):]
		if rest == "" {
			return "/"
		}
		return rest
	}
	return path
}

// BuildPath builds the URL for name and params without navigating.
func (r *Router) BuildPath(name string, p params.Params) (string, error) {
	return r.tree.BuildPath(name, p)
}

// Navigate runs the full transition pipeline to name/params.
func (r *Router) Navigate(ctx context.Context, name string, p params.Params, opts state.NavigationOptions) (*state.State, error) {
	if err := r.requireNotDisposed(); err != nil {
		return nil, err
	}
	st, err := r.engine.Navigate(ctx, r.deps, name, p, opts)
	return st, err
}

// NavigateToDefault navigates to the configured DefaultRoute/DefaultParams.
func (r *Router) NavigateToDefault(ctx context.Context, opts state.NavigationOptions) (*state.State, error) {
	def := r.options.Get()
	if def.DefaultRoute == "" {
		return nil, rerr.New(rerr.NoStartPathOrState)
	}
	return r.Navigate(ctx, def.DefaultRoute, params.Params(def.DefaultParams), opts)
}

// CanNavigateTo reports whether navigate(name, p) would be expected to
// succeed: the name resolves (directly or through forwarding) to a
// known route and p validates, without actually running guards or
// publishing. Guard outcomes are not predicted — only reachability and
// params validity are.
func (r *Router) CanNavigateTo(name string, p params.Params) bool {
	if err := params.Validate(p); err != nil {
		return false
	}
	finalName, _, err := r.plugins.ResolveForward(name, p, r.deps)
	if err != nil {
		return false
	}
	return r.tree.Has(finalName)
}

// IsActiveRoute reports whether name (optionally with params) describes
// the current state. strict requires an exact name and param match;
// non-strict also matches when the current state is name or a
// descendant of it (ancestor-prefix match on the dotted name), with
// params checked as a subset.
func (r *Router) IsActiveRoute(name string, p params.Params, strict, ignoreQuery bool) bool {
	cur := r.store.Get()
	if cur == nil {
		return false
	}
	if strict {
		if cur.Name != name {
			return false
		}
		if p == nil {
			p = params.Params{}
		}
		return params.Equal(p, cur.Params)
	}
	if cur.Name != name && !isDescendant(cur.Name, name) {
		return false
	}
	return paramsSubset(p, cur.Params, ignoreQuery)
}

// isDescendant reports whether name is a strict ancestor of child in
// dotted-name terms (child starts with name + "."); child == name
// reports false. An empty name is the ancestor of every route.
func isDescendant(child, name string) bool {
	if name == "" {
		return true
	}
	if len(child) <= len(name) {
		return false
	}
	return child[:len(name)] == name && child[len(name)] == '.'
}

// paramsSubset reports whether every key in want is present in have with
// an equal value. A nil/empty want always matches.
func paramsSubset(want, have params.Params, ignoreQuery bool) bool {
	for k, wv := range want {
		hv, ok := have[k]
		if !ok || !params.Equal(params.Params{"v": wv}, params.Params{"v": hv}) {
			return false
		}
	}
	_ = ignoreQuery // query keys are not distinguished in published Params; see state.Equal's note.
	return true
}

// ShouldUpdateNode returns a predicate that, given the transition's
// destination and origin states (origin nil at start()), reports
// whether a view bound to forName needs to re-render. A reload- or
// force-driven transition always reports true, regardless of forName.
func (r *Router) ShouldUpdateNode(forName string) func(to, from *state.State) bool {
	return func(to, from *state.State) bool {
		return r.engine.ShouldUpdateNode(forName, from, to)
	}
}

// GetState returns the currently published state, or nil before start().
func (r *Router) GetState() *state.State {
	return r.store.Get()
}

// GetPreviousState returns the state that was current immediately before
// the last published one, or nil.
func (r *Router) GetPreviousState() *state.State {
	return r.store.GetPrevious()
}

// AreStatesEqual reports whether a and b are equivalent for navigation
// purposes, per state.Equal.
func (r *Router) AreStatesEqual(a, b *state.State, ignoreQuery bool) bool {
	return state.Equal(a, b, ignoreQuery)
}

// Subscribe registers fn to run on every successfully published state,
// returning an unsubscribe function. fn receives the new state.
func (r *Router) Subscribe(fn func(*state.State)) (func(), error) {
	return r.bus.On(events.TransitionSuccess, func(payload any) {
		if st := r.store.Get(); st != nil {
			fn(st)
		}
	})
}

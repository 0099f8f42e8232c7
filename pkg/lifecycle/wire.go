package lifecycle

import "github.com/vango-dev/navstate/pkg/guard"

// RouteGuards is the two guard factories a route definition may carry,
// as reported by whatever tree implementation ReloadDefinitions is
// wired against. Passed by value rather than via a shared struct type
// so this package stays a leaf dependency of tree, not the reverse.
type RouteGuards struct {
	CanActivate   guard.Factory
	CanDeactivate guard.Factory
}

// ReloadDefinitions clears every Definition-origin guard and
// re-installs one from each (name, guards) pair lookup returns.
// Call this after compiling or replacing the route tree so lifecycle
// guards stay in sync with route definitions while leaving
// External-origin guards (registered directly through the lifecycle
// API) untouched.
func (r *Registry) ReloadDefinitions(names []string, lookup func(name string) (RouteGuards, bool)) {
	r.ClearDefinitions()
	for _, name := range names {
		rg, ok := lookup(name)
		if !ok {
			continue
		}
		if rg.CanActivate != nil {
			_ = r.Set(name, Activate, guard.Definition, rg.CanActivate)
		}
		if rg.CanDeactivate != nil {
			_ = r.Set(name, Deactivate, guard.Definition, rg.CanDeactivate)
		}
	}
}

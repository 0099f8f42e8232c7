package navstate

import (
	"github.com/vango-dev/navstate/pkg/guard"
	"github.com/vango-dev/navstate/pkg/lifecycle"
)

// Lifecycle exposes the free-standing lifecycle API: registering and
// removing activation/deactivation guards out-of-band from a route's
// own definition. Every guard registered here carries guard.External
// origin, so it survives a routes.Replace that would otherwise drop
// route-authored (Definition-origin) guards.
type Lifecycle struct {
	r *Router
}

// Lifecycle returns the lifecycle API bound to r.
func (r *Router) Lifecycle() *Lifecycle {
	return &Lifecycle{r: r}
}

// AddCanActivate registers an external activation guard for route,
// replacing any external activation guard previously set for it.
func (a *Lifecycle) AddCanActivate(route string, factory guard.Factory) error {
	return a.r.life.Set(route, lifecycle.Activate, guard.External, factory)
}

// AddCanDeactivate registers an external deactivation guard for route,
// replacing any external deactivation guard previously set for it.
func (a *Lifecycle) AddCanDeactivate(route string, factory guard.Factory) error {
	return a.r.life.Set(route, lifecycle.Deactivate, guard.External, factory)
}

// RemoveCanActivate removes the external activation guard for route, if any.
func (a *Lifecycle) RemoveCanActivate(route string) {
	a.r.life.Remove(route, lifecycle.Activate, guard.External)
}

// RemoveCanDeactivate removes the external deactivation guard for route, if any.
func (a *Lifecycle) RemoveCanDeactivate(route string) {
	a.r.life.Remove(route, lifecycle.Deactivate, guard.External)
}

package navstate

import (
	"fmt"

	"github.com/vango-dev/navstate/pkg/tree"
)

// Routes exposes the free-standing routes API: add/remove/update/
// replace/clear/has/get/getConfig, all operating on the router's live
// route tree. Every mutating call recompiles the whole tree (RouteTree
// has no incremental mutation) and resyncs the lifecycle registry's
// Definition-origin guards, preserving any External-origin guards
// registered through the lifecycle API.
type Routes struct {
	r *Router
}

// Routes returns the routes API bound to r.
func (r *Router) Routes() *Routes {
	return &Routes{r: r}
}

// Has reports whether name is a known route.
func (a *Routes) Has(name string) bool {
	return a.r.tree.Has(name)
}

// Get returns the stored definition fields for name.
func (a *Routes) Get(name string) (tree.RouteDef, bool) {
	return a.r.tree.Get(name)
}

// GetConfig returns the router's configured route forest as last
// supplied to New or Replace.
func (a *Routes) GetConfig() []tree.RouteDef {
	a.r.mu.Lock()
	defer a.r.mu.Unlock()
	out := make([]tree.RouteDef, len(a.r.routes))
	copy(out, a.r.routes)
	return out
}

// Add appends a new top-level route to the forest and recompiles.
func (a *Routes) Add(def tree.RouteDef) error {
	a.r.mu.Lock()
	routes := append(append([]tree.RouteDef(nil), a.r.routes...), def)
	a.r.mu.Unlock()
	return a.Replace(routes)
}

// Remove deletes the top-level route named name (by its own Name field,
// not its full dotted name) and recompiles. Reports an error if name is
// not a top-level route.
func (a *Routes) Remove(name string) error {
	a.r.mu.Lock()
	routes := make([]tree.RouteDef, 0, len(a.r.routes))
	found := false
	for _, def := range a.r.routes {
		if def.Name == name {
			found = true
			continue
		}
		routes = append(routes, def)
	}
	a.r.mu.Unlock()
	if !found {
		return fmt.Errorf("route %q is not a top-level route", name)
	}
	return a.Replace(routes)
}

// Update replaces the top-level route named name with def and recompiles.
func (a *Routes) Update(name string, def tree.RouteDef) error {
	a.r.mu.Lock()
	routes := make([]tree.RouteDef, len(a.r.routes))
	copy(routes, a.r.routes)
	idx := -1
	for i, d := range routes {
		if d.Name == name {
			idx = i
			break
		}
	}
	a.r.mu.Unlock()
	if idx < 0 {
		return fmt.Errorf("route %q is not a top-level route", name)
	}
	routes[idx] = def
	return a.Replace(routes)
}

// Replace recompiles the tree from a whole new route forest, then
// resyncs lifecycle Definition guards from it.
func (a *Routes) Replace(routes []tree.RouteDef) error {
	if err := a.r.requireNotDisposed(); err != nil {
		return err
	}
	if err := a.r.tree.Replace(routes); err != nil {
		return err
	}
	a.r.mu.Lock()
	a.r.routes = routes
	a.r.mu.Unlock()
	reloadLifecycleFromTree(a.r.life, a.r.tree)
	return nil
}

// Clear replaces the forest with an empty one.
func (a *Routes) Clear() error {
	return a.Replace(nil)
}

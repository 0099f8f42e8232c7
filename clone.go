package navstate

import "github.com/vango-dev/navstate/pkg/tree"

// CloneRouter builds a fresh, independent Router from src's current
// route forest and options, optionally overriding the dependency table.
// The clone re-runs nothing from src's plugin instances or external
// guards automatically: callers that installed plugins or external
// guards on src are expected to re-install them on the clone via
// UsePlugin/Lifecycle(), since a plugin factory closes over the Router
// it was given and cannot simply be copied onto a new one. depsOverride,
// when non-nil, seeds the clone's dependency table instead of copying
// src's.
func CloneRouter(src *Router, depsOverride map[string]any) (*Router, error) {
	src.mu.Lock()
	routes := make([]tree.RouteDef, len(src.routes))
	copy(routes, src.routes)
	opts := src.options.Get()
	src.mu.Unlock()

	clone, err := New(routes, opts)
	if err != nil {
		return nil, err
	}

	seed := depsOverride
	if seed == nil {
		seed = src.deps.snapshot()
	}
	for k, v := range seed {
		if err := clone.deps.Set(k, v); err != nil {
			return nil, err
		}
	}

	return clone, nil
}

package tree

import (
	"github.com/vango-dev/navstate/pkg/guard"
	"github.com/vango-dev/navstate/pkg/params"
	"github.com/vango-dev/navstate/internal/rerr"
)

// ResolveForward follows name's forwardTo chain, if any, to the final
// non-forwarding destination route. Guards of the routes that only
// forward are never consulted; only the destination route's guards run
// when the transition engine later processes activation.
//
// forwardTo may be a literal route name (validated for cycles at
// Compile time) or a ForwardFunc evaluated here against deps and the
// params in hand, so callback cycles are only caught at resolution
// time, bounded by maxForwardDepth.
func (t *Tree) ResolveForward(name string, p params.Params, deps guard.Deps) (string, params.Params, error) {
	n, ok := t.byName[name]
	if !ok {
		return "", nil, rerr.New(rerr.RouteNotFound).WithName(name)
	}

	visited := map[string]bool{name: true}
	depth := 0
	for n.forwardTo != nil {
		depth++
		if depth > t.maxForwardDepth() {
			return "", nil, rerr.Newf(rerr.InvalidRouteName, "forwardTo cycle detected resolving %q", name).WithName(name)
		}

		var targetName string
		switch f := n.forwardTo.(type) {
		case string:
			targetName = f
		case ForwardFunc:
			targetName, p = f(deps, p)
		default:
			return "", nil, rerr.Newf(rerr.InvalidRouteName, "route %q: unsupported forwardTo type", name)
		}

		if visited[targetName] {
			return "", nil, rerr.Newf(rerr.InvalidRouteName, "forwardTo cycle detected at %q", targetName).WithName(targetName)
		}
		visited[targetName] = true

		next, ok := t.byName[targetName]
		if !ok {
			return "", nil, rerr.New(rerr.RouteNotFound).WithName(targetName)
		}
		n = next
	}

	return n.fullName, params.Merge(n.defaultParams, p), nil
}

package guard

import (
	"context"

	"github.com/vango-dev/navstate/pkg/state"
)

// Deps is a bounded, read-only lookup of opaque dependencies handed to
// guard and plugin factories. It is a per-process side table, never
// part of published State.
type Deps interface {
	Get(key string) (any, bool)
}

// Func is a single activation or deactivation guard. It receives the
// proposed and current state plus a context carrying the transition's
// cancellation signal, and returns whether the transition may proceed.
// A guard may suspend by blocking on ctx.Done() or on its own I/O; the
// engine awaits exactly one guard at a time, so guards never run
// concurrently with each other within a single transition.
type Func func(ctx context.Context, to, from *state.State) (bool, error)

// Factory builds a Func against the router's dependency lookup. The
// engine calls the factory each time it evaluates the guard, so the
// built Func is not cached between transitions. Route definitions and
// the external lifecycle API both register factories, never bare Funcs.
type Factory func(deps Deps) Func

// Origin records where a guard came from, so that replacing the route
// tree can drop route-authored guards while preserving guards
// registered through the external API.
type Origin int

const (
	// Definition marks a guard that came from a route's canActivate/
	// canDeactivate field.
	Definition Origin = iota
	// External marks a guard registered via the lifecycle API.
	External
)

func (o Origin) String() string {
	if o == External {
		return "external"
	}
	return "definition"
}

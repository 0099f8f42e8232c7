// Package rerr provides the structured error taxonomy shared by every
// component of the routing engine.
//
// Every error the engine returns is a *RouterError carrying a Kind that
// callers can switch on with errors.As, plus whatever route name, path,
// or segment was involved and the underlying cause (if any). Two kinds —
// SameStates and TransitionCancelled — are "expected" outcomes of normal
// use and are marked as such so that default logging does not treat them
// as failures.
package rerr

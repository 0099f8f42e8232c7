// Package transition implements the engine that turns a navigate()
// call into a published state: resolving the target, short-circuiting
// no-op navigations, running deactivation guards innermost-first and
// activation guards outermost-first, honoring cancellation at every
// guard boundary, and publishing exactly one state change per
// successful transition.
//
// Only one transition runs at a time. A second navigate() call while
// one is in flight cancels the first (via its own cancellation context)
// rather than queuing behind it — the last call to navigate() wins,
// matching the "most recent intent" semantics a router's consumers
// expect from back-to-back clicks.
package transition

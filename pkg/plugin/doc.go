// Package plugin defines the router's extension contract: a Factory
// that builds an Instance given the event bus and a guard.Deps lookup,
// and the bookkeeping the facade uses to install, tear down, and bound
// the number of concurrently installed plugins.
//
// A plugin observes the engine exclusively through the events.Bus
// topics (transitionStart, transitionSuccess, ...); it has no access to
// engine internals beyond that and the forwarding hook below. This
// keeps every built-in plugin (metrics, tracing, devtools) swappable
// for a user's own implementation of the same contract.
package plugin

// Package events is the router's internal nervous system: a small
// lifecycle state machine (idle, starting, ready, transitioning,
// disposed) built on internal/fsm, paired with a typed event emitter
// that the transition engine and plugins use to observe what the
// machine is doing.
//
// Emit takes a snapshot of a topic's listeners before calling any of
// them (the same copy-before-notify discipline used elsewhere in this
// codebase's signal propagation), so a listener that subscribes or
// unsubscribes mid-emit never corrupts the in-flight notification and
// never observes a partially-updated listener set.
package events

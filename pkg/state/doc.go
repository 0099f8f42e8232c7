// Package state holds the frozen route-state record the engine
// publishes and the store that tracks the current and previous state
// plus a strictly monotonic state id.
package state

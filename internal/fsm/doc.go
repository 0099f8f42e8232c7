// Package fsm implements a small, table-driven finite-state machine.
//
// It is intentionally narrow: states and events are strings, the
// transition table is built once at construction and never mutated
// afterward, and Send is O(1) via a flattened lookup map. This is the
// shape the event bus needs for its IDLE/STARTING/READY/TRANSITIONING/
// DISPOSED lifecycle — nothing more general is required, so nothing
// more general is built.
package fsm

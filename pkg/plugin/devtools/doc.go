// Package devtools is a built-in navstate plugin that broadcasts every
// transition event to connected WebSocket clients, grounded on this
// codebase's dev-reload broadcaster: an upgrader, a connection set
// guarded by a mutex, and a broadcast helper that snapshots the
// connection set before writing so a slow or dropped client can't stall
// or corrupt delivery to the others.
package devtools

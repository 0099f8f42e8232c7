// Package params defines the shape of route parameters shared by every
// layer of the routing engine — a plain, recursive, JSON-like value —
// along with the validity predicate and the deep-freeze helper applied
// to published state.
//
// Params deliberately excludes functions, channels, class-like values,
// cyclic structures, and non-finite numbers: the engine must be able to
// freeze a Params value, compare it structurally for the "same state"
// check, and serialize it for a devtools bridge without special-casing
// any of those.
package params

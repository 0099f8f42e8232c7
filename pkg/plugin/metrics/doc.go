// Package metrics is a built-in navstate plugin that records transition
// counts, durations, and errors as Prometheus metrics, following the
// same promauto-factory, labeled-vector shape this codebase's other
// Prometheus integration uses.
package metrics

// Package oteltrace is a built-in navstate plugin that opens one
// OpenTelemetry span per transition, following the span-per-event shape
// this codebase's other OpenTelemetry integration uses: a span named
// "navstate.transition", tagged with from/to route attributes, with
// errors and cancellation recorded on the span before it ends.
package oteltrace

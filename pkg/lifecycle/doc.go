// Package lifecycle stores, per route, the activation and deactivation
// guard factories that gate a transition through that route's segment.
//
// Guards arrive from two origins: a route's own canActivate/
// canDeactivate fields (Definition origin), installed whenever the
// route tree is compiled or replaced, and guards registered directly
// through the router's lifecycle API (External origin), which survive
// a tree replace so that a plugin's guard is not silently dropped the
// next time routes are reloaded.
//
// Registering a guard for a route and kind replaces whatever was
// previously registered for that exact (route, kind, origin) triple —
// guards do not accumulate into a list per call, though Definition and
// External guards for the same route and kind both run, in that order.
package lifecycle

// Package inspecthttp mounts a small chi-routed debug surface over an
// already-built navstate.Router: matchPath/buildPath introspection for
// local tooling. It never serves application traffic and performs no
// navigation of its own — it only calls the router's no-side-effect
// MatchPath/BuildPath methods.
package inspecthttp

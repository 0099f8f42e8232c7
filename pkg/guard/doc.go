// Package guard defines the types shared between the route tree, the
// lifecycle registry, and the transition engine for activation and
// deactivation guards: the dependency lookup guards and plugin factories
// receive, the guard function signature itself, and the Origin that
// tells the lifecycle registry whether a guard came from a route
// definition or from the external API (and therefore whether a
// routes-replace operation should drop it).
package guard

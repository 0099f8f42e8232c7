// Package tree compiles a hierarchical route namespace into a matcher
// that turns a URL into a structured route name plus params and back,
// resolves forwarding (route aliases), and answers the segment-delta
// questions ("which ancestors does this transition deactivate/
// activate") the transition engine needs on every navigation.
//
// A route's full name is the dot-join of its ancestors' names, e.g.
// "users.view" for a "view" route nested under "users". Dots are
// reserved for that join; a route name containing one is rejected at
// compile time.
package tree

package tree

import (
	"github.com/vango-dev/navstate/pkg/guard"
	"github.com/vango-dev/navstate/pkg/params"
)

// TrailingSlashMode controls whether BuildPath emits a trailing slash:
// Always appends one, Never strips one, Default leaves the built path
// as is. Matching trims trailing slashes in every mode.
type TrailingSlashMode string

const (
	TrailingSlashDefault TrailingSlashMode = "default"
	TrailingSlashNever   TrailingSlashMode = "never"
	TrailingSlashAlways  TrailingSlashMode = "always"
)

// QueryParamsMode controls how undeclared query keys are treated.
type QueryParamsMode string

const (
	QueryParamsDefault QueryParamsMode = "default"
	QueryParamsLoose    QueryParamsMode = "loose"
	QueryParamsStrict   QueryParamsMode = "strict"
)

// URLParamsEncoding controls how path-param values are encoded when
// building a URL.
type URLParamsEncoding string

const (
	EncodingDefault      URLParamsEncoding = "default"
	EncodingURIComponent URLParamsEncoding = "uriComponent"
	EncodingNone         URLParamsEncoding = "none"
)

// Options configures matching and building behavior. It is supplied by
// the facade's OptionsStore at compile time and never changes for the
// lifetime of a Tree.
type Options struct {
	CaseSensitive     bool
	TrailingSlash     TrailingSlashMode
	QueryParamsMode    QueryParamsMode
	URLParamsEncoding  URLParamsEncoding
	AllowNotFound      bool
	// MatchCacheSize bounds the compiled-match memo the Tree keeps for
	// repeated lookups of the same raw URL.
	MatchCacheSize int
}

// DefaultOptions returns the zero-value-safe defaults used when an
// OptionsStore field is left unset.
func DefaultOptions() Options {
	return Options{
		TrailingSlash:     TrailingSlashDefault,
		QueryParamsMode:    QueryParamsDefault,
		URLParamsEncoding:  EncodingDefault,
		MatchCacheSize:     500,
	}
}

// ForwardFunc resolves a forwardTo callback: given a dependency lookup
// and the incoming params, it returns the target route name and the
// params to carry over.
type ForwardFunc func(deps guard.Deps, incoming params.Params) (name string, p params.Params)

// RouteDef is a route as supplied by a caller: a node in the tree plus
// its children, forwarding, guard factories, and param transforms.
// Unrecognized fields a caller wants to carry alongside a route
// (breadcrumbs, titles, feature flags, ...) go in Meta, preserved
// verbatim and never interpreted by the tree.
type RouteDef struct {
	Name     string
	Path     string
	Children []RouteDef

	// ForwardTo is either a string (target route name) or a ForwardFunc.
	ForwardTo any

	CanActivate   guard.Factory
	CanDeactivate guard.Factory

	DefaultParams params.Params
	EncodeParams  func(params.Params) params.Params
	DecodeParams  func(params.Params) params.Params

	Meta map[string]any
}

// MatchResult is the outcome of matching a URL: the route name it
// resolved to (after forwarding), that route's params, and the path.
type MatchResult struct {
	Name   string
	Params params.Params
	Path   string
}

package navstate

import (
	"github.com/vango-dev/navstate/pkg/tree"
)

// Limits bounds every registration surface the facade exposes, mirroring
// the teacher's SessionLimits: defaults generous enough for real
// applications, configurable down for tests that want to exercise the
// overflow paths without registering thousands of listeners.
type Limits struct {
	MaxDependencies int
	MaxPlugins      int
	MaxListeners    int
	WarnListeners   int
	MaxEventDepth   int

	// MaxLifecycleHandlers bounds the lifecycle registry's guard slots
	// (New passes it to lifecycle.New). The registry counts slots across
	// every route, kind and origin together; it is not a per-route bound.
	MaxLifecycleHandlers int
}

// DefaultLimits returns the limits table's defaults.
func DefaultLimits() Limits {
	return Limits{
		MaxDependencies:      100,
		MaxPlugins:           50,
		MaxListeners:         10_000,
		WarnListeners:        1_000,
		MaxEventDepth:        5,
		MaxLifecycleHandlers: 200,
	}
}

// Options is the facade's immutable configuration snapshot. It embeds
// the RouteTree's own Options (case sensitivity, trailing slash mode,
// query handling, URL encoding) plus the facade-level concerns: the
// default route used by start()/navigateToDefault(), and the limits
// table. There is no mutation after construction, and CloneRouter
// (clone.go) copies the source's options unchanged, so a router with
// different options is built fresh with New.
type Options struct {
	tree.Options

	DefaultRoute  string
	DefaultParams map[string]any

	AutoCleanUp bool
	NoValidate  bool

	Limits Limits
}

// DefaultOptions returns the facade defaults: the tree's own defaults
// plus an empty default route and the standard limits table.
func DefaultOptions() Options {
	return Options{
		Options: tree.DefaultOptions(),
		Limits:  DefaultLimits(),
	}
}

// OptionsStore holds a single, frozen Options snapshot for the lifetime
// of a Router. There is no Set: a Router that needs different options is
// built fresh with New rather than reconfigured in place; CloneRouter
// (clone.go) reuses the source's options as they are.
type OptionsStore struct {
	opts Options
}

// newOptionsStore normalizes zero-valued fields to their defaults and
// freezes the result.
func newOptionsStore(opts Options) *OptionsStore {
	defaults := DefaultOptions()
	if opts.TrailingSlash == "" {
		opts.TrailingSlash = defaults.TrailingSlash
	}
	if opts.QueryParamsMode == "" {
		opts.QueryParamsMode = defaults.QueryParamsMode
	}
	if opts.URLParamsEncoding == "" {
		opts.URLParamsEncoding = defaults.URLParamsEncoding
	}
	if opts.MatchCacheSize == 0 {
		opts.MatchCacheSize = defaults.MatchCacheSize
	}
	if opts.Limits == (Limits{}) {
		opts.Limits = defaults.Limits
	}
	return &OptionsStore{opts: opts}
}

// Get returns the frozen options snapshot.
func (s *OptionsStore) Get() Options {
	return s.opts
}

// GetLimits returns the limits table alone, for components that only
// need bounds-checking and not the rest of the configuration.
func (s *OptionsStore) GetLimits() Limits {
	return s.opts.Limits
}

// treeOptions projects the facade Options down to the subset pkg/tree
// understands.
func (s *OptionsStore) treeOptions() tree.Options {
	return s.opts.Options
}

package lifecycle

import (
	"sync"

	"github.com/vango-dev/navstate/internal/rerr"
	"github.com/vango-dev/navstate/pkg/guard"
)

// Kind distinguishes the two guard slots a route can carry.
type Kind int

const (
	Activate Kind = iota
	Deactivate
)

// DefaultMaxLifecycleHandlers bounds the total number of guard slots a
// Registry will hold, across both kinds and origins, when the caller
// doesn't configure a different limit. It exists to catch runaway
// registration (e.g. a loop that re-registers a guard per navigation
// instead of once at setup) rather than to limit any realistic route
// tree.
const DefaultMaxLifecycleHandlers = 200

type slotKey struct {
	route string
	kind  Kind
}

// Registry is the facade's lifecycle guard store.
type Registry struct {
	mu          sync.RWMutex
	slots       map[slotKey]map[guard.Origin]guard.Factory
	count       int
	maxHandlers int
}

// New returns an empty Registry. maxHandlers bounds the total number of
// guard slots it will hold; a value <= 0 falls back to
// DefaultMaxLifecycleHandlers.
func New(maxHandlers int) *Registry {
	if maxHandlers <= 0 {
		maxHandlers = DefaultMaxLifecycleHandlers
	}
	return &Registry{slots: make(map[slotKey]map[guard.Origin]guard.Factory), maxHandlers: maxHandlers}
}

// Set installs factory for route's kind under origin, replacing
// whatever that exact (route, kind, origin) triple held before. Passing
// a nil factory removes the slot.
func (r *Registry) Set(route string, kind Kind, origin guard.Origin, factory guard.Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := slotKey{route: route, kind: kind}
	byOrigin := r.slots[key]

	if factory == nil {
		if byOrigin != nil {
			if _, existed := byOrigin[origin]; existed {
				delete(byOrigin, origin)
				r.count--
				if len(byOrigin) == 0 {
					delete(r.slots, key)
				}
			}
		}
		return nil
	}

	if byOrigin == nil {
		byOrigin = make(map[guard.Origin]guard.Factory, 2)
		r.slots[key] = byOrigin
	}
	if _, existed := byOrigin[origin]; !existed {
		if r.count >= r.maxHandlers {
			return rerr.Newf(rerr.LimitExceeded, "lifecycle registry exceeded %d guard slots", r.maxHandlers).WithName(route)
		}
		r.count++
	}
	byOrigin[origin] = factory
	return nil
}

// Remove deletes the guard registered for route's kind under origin, if
// any. It is a no-op if nothing was registered there.
func (r *Registry) Remove(route string, kind Kind, origin guard.Origin) {
	_ = r.Set(route, kind, origin, nil)
}

// Factories returns the guard factories registered for route's kind,
// Definition origin first, External second, skipping any that were
// never set. Callers treat the result as an ordered AND chain: every
// returned guard must approve for the kind to pass.
func (r *Registry) Factories(route string, kind Kind) []guard.Factory {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byOrigin := r.slots[slotKey{route: route, kind: kind}]
	if len(byOrigin) == 0 {
		return nil
	}
	out := make([]guard.Factory, 0, 2)
	if f, ok := byOrigin[guard.Definition]; ok {
		out = append(out, f)
	}
	if f, ok := byOrigin[guard.External]; ok {
		out = append(out, f)
	}
	return out
}

// ClearDefinitions drops every Definition-origin guard, across all
// routes and kinds, leaving External-origin guards untouched. Called
// before re-installing guards from a freshly compiled route tree.
func (r *Registry) ClearDefinitions() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, byOrigin := range r.slots {
		if _, ok := byOrigin[guard.Definition]; ok {
			delete(byOrigin, guard.Definition)
			r.count--
		}
		if len(byOrigin) == 0 {
			delete(r.slots, key)
		}
	}
}

// ClearAll drops every guard, regardless of origin. Used when disposing
// the router.
func (r *Registry) ClearAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots = make(map[slotKey]map[guard.Origin]guard.Factory)
	r.count = 0
}

// Has reports whether route has any guard registered for kind.
func (r *Registry) Has(route string, kind Kind) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.slots[slotKey{route: route, kind: kind}]) > 0
}

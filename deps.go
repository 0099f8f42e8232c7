package navstate

import (
	"sync"

	"github.com/vango-dev/navstate/internal/rerr"
)

// DepsStore is a bounded, mutex-guarded dependency side-table. It
// implements guard.Deps so it can be handed directly to guards, plugin
// factories, and forwarding callbacks. Unlike the published State, the
// dependency table is never frozen: callers are expected to register
// dependencies once at startup (a database handle, a logger, a feature
// flag source) and read them many times, not to publish them as routing
// data.
type DepsStore struct {
	mu    sync.RWMutex
	items map[string]any
	limit int
}

func newDepsStore(limit int) *DepsStore {
	if limit <= 0 {
		limit = DefaultLimits().MaxDependencies
	}
	return &DepsStore{items: make(map[string]any), limit: limit}
}

// Get implements guard.Deps.
func (d *DepsStore) Get(key string) (any, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.items[key]
	return v, ok
}

// Set registers or overwrites key's value. Overwriting an existing key
// never counts against the limit; only growth of the set does.
func (d *DepsStore) Set(key string, value any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.items[key]; !exists && len(d.items) >= d.limit {
		return rerr.Newf(rerr.LimitExceeded, "dependency table has reached its %d entry limit", d.limit)
	}
	d.items[key] = value
	return nil
}

// Remove deletes key, if present.
func (d *DepsStore) Remove(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.items, key)
}

// Keys returns every registered dependency key, in no particular order.
func (d *DepsStore) Keys() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	keys := make([]string, 0, len(d.items))
	for k := range d.items {
		keys = append(keys, k)
	}
	return keys
}

// snapshot returns a defensive copy of the table's contents as a plain
// map, used by CloneRouter to seed a new DepsStore without sharing the
// original's lock.
func (d *DepsStore) snapshot() map[string]any {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[string]any, len(d.items))
	for k, v := range d.items {
		out[k] = v
	}
	return out
}

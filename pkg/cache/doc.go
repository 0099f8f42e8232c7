// Package cache provides the two small caches the routing engine needs:
// a single-entry reference-equality cache for the hot transition-path
// calculation, and a bounded LRU used by the matcher's match-result
// cache.
package cache

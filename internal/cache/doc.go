// Package cache provides a byte-budgeted LRU for fetched asset responses.
//
// Entries are immutable once stored. Size accounting uses the length of the
// cached body; headers are small and ignored. An optional resource.Controller
// enforces a global memory limit shared with other caches.
package cache

package selection

import (
	"sync/atomic"

	"github.com/hupe1980/fragsync/model"
)

type indexMap = map[model.GlobalID]model.RowSelectionID

// Index maps GlobalIDs to host row tokens.
//
// Readers never observe a partially rebuilt index: Rebuild builds a fresh
// map and publishes it with a single atomic store.
type Index struct {
	m atomic.Pointer[indexMap]
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	ix := &Index{}
	empty := make(indexMap)
	ix.m.Store(&empty)
	return ix
}

// Rebuild replaces the whole index with rows. When a GlobalID occurs more
// than once, the first row wins. Returns the number of entries.
func (ix *Index) Rebuild(rows []model.Row) int {
	next := make(indexMap, len(rows))
	for _, r := range rows {
		if _, dup := next[r.GlobalID]; dup {
			continue
		}
		next[r.GlobalID] = r.SelectionID
	}
	ix.m.Store(&next)
	return len(next)
}

// Lookup returns the token bound to id.
func (ix *Index) Lookup(id model.GlobalID) (model.RowSelectionID, bool) {
	tok, ok := (*ix.m.Load())[id]
	return tok, ok
}

// Len returns the number of entries.
func (ix *Index) Len() int {
	return len(*ix.m.Load())
}

// Prune drops every entry whose GlobalID fails keep and returns the number
// of dropped entries.
//
// Prune never overwrites a concurrent Rebuild: the filtered map is published
// with CompareAndSwap, and a lost race filters the newer map instead. keep
// may therefore be called more than once per GlobalID.
func (ix *Index) Prune(keep func(model.GlobalID) bool) int {
	for {
		cur := ix.m.Load()
		next := make(indexMap, len(*cur))
		for id, tok := range *cur {
			if keep(id) {
				next[id] = tok
			}
		}
		if ix.m.CompareAndSwap(cur, &next) {
			return len(*cur) - len(next)
		}
	}
}

// Snapshot returns a copy of the current entries.
func (ix *Index) Snapshot() map[model.GlobalID]model.RowSelectionID {
	cur := *ix.m.Load()
	out := make(map[model.GlobalID]model.RowSelectionID, len(cur))
	for id, tok := range cur {
		out[id] = tok
	}
	return out
}

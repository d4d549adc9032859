package model

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
)

// FragmentIDMap maps a fragment id to the set of engine item ids it contains.
// One GlobalID may span several fragments and one fragment entry may resolve
// to several GlobalIDs.
type FragmentIDMap map[string]*roaring.Bitmap

// NewFragmentIDMap returns an empty map.
func NewFragmentIDMap() FragmentIDMap {
	return make(FragmentIDMap)
}

// Add records item ids under fragment.
func (m FragmentIDMap) Add(fragment string, items ...uint32) {
	bm, ok := m[fragment]
	if !ok {
		bm = roaring.New()
		m[fragment] = bm
	}
	bm.AddMany(items)
}

// Merge adds every entry of other into m.
func (m FragmentIDMap) Merge(other FragmentIDMap) {
	for frag, items := range other {
		if items == nil || items.IsEmpty() {
			continue
		}
		if bm, ok := m[frag]; ok {
			bm.Or(items)
			continue
		}
		m[frag] = items.Clone()
	}
}

// Contains reports whether item is part of fragment.
func (m FragmentIDMap) Contains(fragment string, item uint32) bool {
	bm, ok := m[fragment]
	return ok && bm.Contains(item)
}

// Len returns the total number of item entries across all fragments.
func (m FragmentIDMap) Len() int {
	var n uint64
	for _, bm := range m {
		if bm != nil {
			n += bm.GetCardinality()
		}
	}
	return int(n)
}

// IsEmpty reports whether the map has no item entries.
func (m FragmentIDMap) IsEmpty() bool {
	for _, bm := range m {
		if bm != nil && !bm.IsEmpty() {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (m FragmentIDMap) Clone() FragmentIDMap {
	out := make(FragmentIDMap, len(m))
	for frag, bm := range m {
		if bm == nil {
			continue
		}
		out[frag] = bm.Clone()
	}
	return out
}

// Fragments returns the fragment ids in sorted order.
func (m FragmentIDMap) Fragments() []string {
	out := make([]string, 0, len(m))
	for frag := range m {
		out = append(out, frag)
	}
	sort.Strings(out)
	return out
}

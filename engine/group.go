package engine

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/fragsync/model"
)

// Group is the RenderGroup built by Engine.
// It is immutable after construction and safe for concurrent use.
type Group struct {
	id string

	// forward: GlobalID -> fragments holding its items.
	forward map[model.GlobalID]model.FragmentIDMap
	// reverse: fragment -> item -> GlobalID.
	reverse map[string]map[uint32]model.GlobalID
	all     model.FragmentIDMap
}

func newGroup(id string, f *File) *Group {
	g := &Group{
		id:      id,
		forward: make(map[model.GlobalID]model.FragmentIDMap),
		reverse: make(map[string]map[uint32]model.GlobalID, len(f.Fragments)),
		all:     model.NewFragmentIDMap(),
	}

	for _, frag := range f.Fragments {
		items := make(map[uint32]model.GlobalID, len(frag.Items))
		bm := roaring.New()
		for _, it := range frag.Items {
			items[it.ID] = it.GlobalID
			bm.Add(it.ID)

			fm, ok := g.forward[it.GlobalID]
			if !ok {
				fm = model.NewFragmentIDMap()
				g.forward[it.GlobalID] = fm
			}
			fm.Add(frag.ID, it.ID)
		}
		g.reverse[frag.ID] = items
		g.all[frag.ID] = bm
	}
	return g
}

// ID implements RenderGroup.
func (g *Group) ID() string { return g.id }

// Fragments implements RenderGroup. The returned map is a copy.
func (g *Group) Fragments() model.FragmentIDMap { return g.all.Clone() }

// GlobalIDs returns every GlobalID of the group in sorted order.
func (g *Group) GlobalIDs() []model.GlobalID {
	ids := make([]model.GlobalID, 0, len(g.forward))
	for id := range g.forward {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// GUIDToFragmentIDMap returns the fragments of ids. Unknown ids are skipped;
// ok is false when none of them is known.
func (g *Group) GUIDToFragmentIDMap(ids []model.GlobalID) (model.FragmentIDMap, bool) {
	out := model.NewFragmentIDMap()
	for _, id := range ids {
		if fm, ok := g.forward[id]; ok {
			out.Merge(fm)
		}
	}
	return out, !out.IsEmpty()
}

// FragmentIDMapToGUIDs returns the distinct GlobalIDs of the given items in
// sorted order. Unknown fragments and items are skipped; ok is false when
// nothing resolves.
func (g *Group) FragmentIDMapToGUIDs(fragments model.FragmentIDMap) ([]model.GlobalID, bool) {
	seen := make(map[model.GlobalID]struct{})
	for frag, bm := range fragments {
		items, ok := g.reverse[frag]
		if !ok || bm == nil {
			continue
		}
		it := bm.Iterator()
		for it.HasNext() {
			if id, ok := items[it.Next()]; ok {
				seen[id] = struct{}{}
			}
		}
	}

	ids := make([]model.GlobalID, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, len(ids) > 0
}

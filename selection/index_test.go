package selection

import (
	"sync"
	"testing"

	"github.com/hupe1980/fragsync/model"
	"github.com/stretchr/testify/assert"
)

func TestIndex_FirstOccurrenceWins(t *testing.T) {
	ix := NewIndex()
	n := ix.Rebuild([]model.Row{
		{GlobalID: "A", SelectionID: "tok1"},
		{GlobalID: "A", SelectionID: "tok2"},
		{GlobalID: "B", SelectionID: "tok3"},
	})

	assert.Equal(t, 2, n)
	assert.Equal(t, 2, ix.Len())

	tok, ok := ix.Lookup("A")
	assert.True(t, ok)
	assert.Equal(t, model.RowSelectionID("tok1"), tok)
}

func TestIndex_RebuildIsIdempotent(t *testing.T) {
	rows := []model.Row{
		{GlobalID: "A", SelectionID: "tok1"},
		{GlobalID: "B", SelectionID: "tok2"},
	}

	ix := NewIndex()
	ix.Rebuild(rows)
	first := ix.Snapshot()
	ix.Rebuild(rows)

	assert.Equal(t, first, ix.Snapshot())
}

func TestIndex_RebuildReplaces(t *testing.T) {
	ix := NewIndex()
	ix.Rebuild([]model.Row{{GlobalID: "A", SelectionID: "tok1"}})
	ix.Rebuild([]model.Row{{GlobalID: "B", SelectionID: "tok2"}})

	_, ok := ix.Lookup("A")
	assert.False(t, ok)
	assert.Equal(t, 1, ix.Len())
}

func TestIndex_Prune(t *testing.T) {
	ix := NewIndex()
	ix.Rebuild([]model.Row{
		{GlobalID: "A", SelectionID: "tok1"},
		{GlobalID: "B", SelectionID: "tok2"},
		{GlobalID: "C", SelectionID: "tok3"},
	})

	dropped := ix.Prune(func(id model.GlobalID) bool { return id != "B" })

	assert.Equal(t, 1, dropped)
	assert.Equal(t, map[model.GlobalID]model.RowSelectionID{"A": "tok1", "C": "tok3"}, ix.Snapshot())
}

func TestIndex_PruneKeepsConcurrentRebuild(t *testing.T) {
	ix := NewIndex()
	ix.Rebuild([]model.Row{{GlobalID: "A", SelectionID: "old"}})

	var once sync.Once
	dropped := ix.Prune(func(id model.GlobalID) bool {
		once.Do(func() {
			ix.Rebuild([]model.Row{
				{GlobalID: "A", SelectionID: "new"},
				{GlobalID: "B", SelectionID: "tokB"},
				{GlobalID: "Z", SelectionID: "tokZ"},
			})
		})
		return id != "Z"
	})

	assert.Equal(t, 1, dropped)
	assert.Equal(t, map[model.GlobalID]model.RowSelectionID{"A": "new", "B": "tokB"}, ix.Snapshot())
}

func TestIndex_ConcurrentReadersSeeWholeIndex(t *testing.T) {
	ix := NewIndex()
	small := []model.Row{{GlobalID: "A", SelectionID: "a"}}
	large := []model.Row{
		{GlobalID: "A", SelectionID: "a"},
		{GlobalID: "B", SelectionID: "b"},
		{GlobalID: "C", SelectionID: "c"},
	}
	ix.Rebuild(small)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := range 1000 {
			if i%2 == 0 {
				ix.Rebuild(large)
			} else {
				ix.Rebuild(small)
			}
		}
	}()
	go func() {
		defer wg.Done()
		for range 1000 {
			n := len(ix.Snapshot())
			assert.Contains(t, []int{1, 3}, n)
		}
	}()
	wg.Wait()
}

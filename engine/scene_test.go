package engine

import (
	"testing"

	"github.com/hupe1980/fragsync/model"
	"github.com/hupe1980/fragsync/selection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadlessScene_AttachDetach(t *testing.T) {
	g1 := loadSample(t)
	s := NewHeadlessScene()

	s.Attach(g1)
	assert.Equal(t, g1, s.Attached())
	assert.Equal(t, 5, s.Visible().Len())

	s.Detach(g1)
	assert.Nil(t, s.Attached())
	assert.True(t, s.Visible().IsEmpty())

	s.Detach(g1)
	assert.Equal(t, []string{"attach:group-1", "detach:group-1"}, s.History())
}

func TestHeadlessScene_DetachOtherGroupIsNoop(t *testing.T) {
	g1 := loadSample(t)
	other := &Group{id: "other"}

	s := NewHeadlessScene()
	s.Attach(g1)
	s.Detach(other)
	assert.Equal(t, g1, s.Attached())
}

func TestHeadlessScene_IsolateAndVisibility(t *testing.T) {
	g := loadSample(t)
	s := NewHeadlessScene()
	s.Attach(g)

	frags, _ := g.GUIDToFragmentIDMap([]model.GlobalID{"D1"})
	s.Isolate(frags)

	iso, ok := s.Isolated()
	require.True(t, ok)
	assert.Equal(t, 1, iso.Len())
	assert.Equal(t, 1, s.Visible().Len())

	s.Isolate(model.NewFragmentIDMap())
	assert.True(t, s.Visible().IsEmpty())

	s.SetVisible(true)
	_, ok = s.Isolated()
	assert.False(t, ok)
	assert.Equal(t, 5, s.Visible().Len())

	s.SetVisible(false)
	assert.True(t, s.Visible().IsEmpty())
}

func TestHeadlessScene_Gestures(t *testing.T) {
	g := loadSample(t)
	s := NewHeadlessScene()
	s.Attach(g)

	var got []selection.Gesture
	s.SetGestureHandler(func(g selection.Gesture) { got = append(got, g) })
	// Registering again replaces the handler rather than adding a second one.
	s.SetGestureHandler(func(g selection.Gesture) { got = append(got, g) })

	s.Pick("W1")
	s.Pick("missing")
	s.Emit(selection.Cleared{})

	require.Len(t, got, 3)
	sel, ok := got[0].(selection.Selected)
	require.True(t, ok)
	assert.True(t, sel.Fragments.Contains("walls", 1))
	assert.IsType(t, selection.Cleared{}, got[1])
	assert.IsType(t, selection.Cleared{}, got[2])

	s.SetGestureHandler(nil)
	s.Emit(selection.Cleared{})
	assert.Len(t, got, 3)
}

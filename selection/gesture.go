package selection

import "github.com/hupe1980/fragsync/model"

// Gesture is a selection gesture emitted by the render surface.
// It is either Selected or Cleared.
type Gesture interface {
	isGesture()
}

// Selected carries the fragments the user picked.
type Selected struct {
	Fragments model.FragmentIDMap
}

// Cleared means the user cleared the selection.
type Cleared struct{}

func (Selected) isGesture() {}
func (Cleared) isGesture()  {}

// GestureHandler receives gestures. Registering a handler replaces the previous one.
type GestureHandler func(Gesture)

package engine

import (
	"sync"

	"github.com/hupe1980/fragsync/model"
	"github.com/hupe1980/fragsync/selection"
)

// HeadlessScene is an in-memory Scene. It tracks the attached group, the
// isolated fragment set and global visibility instead of drawing anything.
type HeadlessScene struct {
	mu       sync.Mutex
	attached RenderGroup
	isolated model.FragmentIDMap // nil means no isolation
	visible  bool
	handler  selection.GestureHandler
	history  []string
}

var _ Scene = (*HeadlessScene)(nil)

// NewHeadlessScene returns an empty, visible scene.
func NewHeadlessScene() *HeadlessScene {
	return &HeadlessScene{visible: true}
}

// Attach adds g to the scene. A group already attached is replaced.
func (s *HeadlessScene) Attach(g RenderGroup) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attached = g
	s.isolated = nil
	s.visible = true
	s.history = append(s.history, "attach:"+g.ID())
}

// Detach removes g if it is the attached group.
func (s *HeadlessScene) Detach(g RenderGroup) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attached == nil || g == nil || s.attached.ID() != g.ID() {
		return
	}
	s.attached = nil
	s.isolated = nil
	s.history = append(s.history, "detach:"+g.ID())
}

// Isolate shows only fragments. An empty map hides everything.
func (s *HeadlessScene) Isolate(fragments model.FragmentIDMap) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fragments == nil {
		fragments = model.NewFragmentIDMap()
	}
	s.isolated = fragments.Clone()
	s.visible = true
}

// SetVisible shows or hides every fragment and drops the isolation.
func (s *HeadlessScene) SetVisible(all bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isolated = nil
	s.visible = all
}

// SetGestureHandler implements Scene.
func (s *HeadlessScene) SetGestureHandler(h selection.GestureHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = h
}

// Attached returns the attached group, or nil.
func (s *HeadlessScene) Attached() RenderGroup {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attached
}

// Isolated returns a copy of the isolated set; ok is false when nothing is isolated.
func (s *HeadlessScene) Isolated() (model.FragmentIDMap, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isolated == nil {
		return nil, false
	}
	return s.isolated.Clone(), true
}

// Visible returns the fragments currently shown.
func (s *HeadlessScene) Visible() model.FragmentIDMap {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.attached == nil || !s.visible:
		return model.NewFragmentIDMap()
	case s.isolated != nil:
		return s.isolated.Clone()
	default:
		return s.attached.Fragments()
	}
}

// History returns the attach/detach sequence seen so far.
func (s *HeadlessScene) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.history...)
}

// Emit delivers g to the registered handler, if any.
// The handler runs on the caller's goroutine without the scene lock held.
func (s *HeadlessScene) Emit(g selection.Gesture) {
	s.mu.Lock()
	h := s.handler
	s.mu.Unlock()
	if h != nil {
		h(g)
	}
}

// Pick emits a Selected gesture for the fragments of ids in the attached
// group, or Cleared when none of them resolves.
func (s *HeadlessScene) Pick(ids ...model.GlobalID) {
	s.mu.Lock()
	g := s.attached
	s.mu.Unlock()

	if g == nil {
		s.Emit(selection.Cleared{})
		return
	}
	frags, ok := g.GUIDToFragmentIDMap(ids)
	if !ok {
		s.Emit(selection.Cleared{})
		return
	}
	s.Emit(selection.Selected{Fragments: frags})
}

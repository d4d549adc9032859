package engine

import (
	"context"

	"github.com/hupe1980/fragsync/model"
	"github.com/hupe1980/fragsync/selection"
)

// RenderGroup is the scene-graph node built from one payload.
// Its lookups resolve against exactly the model it was built from.
type RenderGroup interface {
	selection.Resolver

	// ID identifies the group within its engine.
	ID() string
	// Fragments returns every fragment of the group with all of its items.
	Fragments() model.FragmentIDMap
}

// GeometryEngine builds render groups from decompressed payloads.
type GeometryEngine interface {
	Load(ctx context.Context, payload []byte) (RenderGroup, error)
}

// Scene is the render surface a group is attached to.
type Scene interface {
	selection.Surface

	Attach(g RenderGroup)
	Detach(g RenderGroup)
	// SetGestureHandler registers the gesture callback, replacing any previous one.
	// A nil handler stops delivery.
	SetGestureHandler(h selection.GestureHandler)
}

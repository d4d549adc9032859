package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/hupe1980/fragsync/codec"
)

// Options configures an Engine.
type Options struct {
	// Codec decodes fragment files. Defaults to codec.Default.
	Codec  codec.Codec
	Logger *slog.Logger
}

// Engine is the headless reference GeometryEngine.
type Engine struct {
	opts Options
	seq  atomic.Uint64
}

var _ GeometryEngine = (*Engine)(nil)

// New creates an Engine.
func New(optFns ...func(o *Options)) *Engine {
	opts := Options{
		Codec: codec.Default,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Codec == nil {
		opts.Codec = codec.Default
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Engine{opts: opts}
}

// Load decodes payload as a fragment file and builds its render group.
// The engine does not retain payload.
func (e *Engine) Load(ctx context.Context, payload []byte) (RenderGroup, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := Decode(e.opts.Codec, payload)
	if err != nil {
		return nil, err
	}

	g := newGroup(fmt.Sprintf("group-%d", e.seq.Add(1)), f)
	e.opts.Logger.DebugContext(ctx, "render group built",
		"group", g.ID(),
		"fragments", len(f.Fragments),
		"global_ids", len(g.forward),
	)
	return g, nil
}

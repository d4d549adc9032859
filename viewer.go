package fragsync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hupe1980/fragsync/blobstore"
	"github.com/hupe1980/fragsync/engine"
	"github.com/hupe1980/fragsync/loader"
	"github.com/hupe1980/fragsync/model"
	"github.com/hupe1980/fragsync/selection"
)

// Viewer composes a render scene, a geometry engine, a loader and a
// selection synchronizer.
//
// Viewer is safe for concurrent use. Gestures may arrive on the render
// goroutine while the host goroutine calls RebuildIndex or Highlight.
type Viewer struct {
	mu     sync.Mutex
	gen    atomic.Uint64
	group  engine.RenderGroup
	ref    model.AssetReference
	meta   model.AssetMetadata
	status string

	engine   engine.GeometryEngine
	scene    engine.Scene
	loader   *loader.Loader
	selector *selection.Synchronizer
	metrics  MetricsCollector
	logger   *Logger
	prune    bool
}

// New creates a Viewer that fetches assets through fetcher, builds them
// with eng and attaches them to scene. host receives the selection derived
// from gestures in scene; it may be nil and set later with SetHost.
//
// New registers the Viewer as the scene's gesture handler.
func New(fetcher blobstore.Fetcher, eng engine.GeometryEngine, scene engine.Scene, host selection.Host, optFns ...Option) *Viewer {
	opts := applyOptions(optFns)

	loaderOpts := append([]func(*loader.Options){
		func(o *loader.Options) {
			o.Logger = opts.logger.Logger
			o.Observer = attemptObserver{mc: opts.metricsCollector}
		},
	}, opts.loaderOptions...)

	v := &Viewer{
		engine:  eng,
		scene:   scene,
		loader:  loader.New(fetcher, loaderOpts...),
		metrics: opts.metricsCollector,
		logger:  opts.logger,
		prune:   opts.pruneOnSwap,
	}
	v.selector = selection.NewSynchronizer(scene, &gestureHost{v: v, host: host}, func(o *selection.Options) {
		o.Logger = opts.logger.Logger
	})

	scene.SetGestureHandler(v.HandleGesture)
	return v
}

// SetHost replaces the host selection API gestures are forwarded to.
func (v *Viewer) SetHost(host selection.Host) {
	v.selector.SetHost(&gestureHost{v: v, host: host})
}

// LoadModel fetches ref, builds its render group and swaps it into the scene.
//
// On failure the scene is left untouched and Status reports the error.
// When a newer LoadModel or UnloadModel started while this call was in
// flight, the result is discarded and ErrSuperseded is returned.
func (v *Viewer) LoadModel(ctx context.Context, ref model.AssetReference) error {
	token := v.gen.Add(1)
	start := time.Now()

	v.mu.Lock()
	v.status = fmt.Sprintf("Loading %s ...", ref.ID)
	v.mu.Unlock()

	res, err := v.loader.Load(ctx, ref)
	if err != nil {
		return v.loadFailed(ctx, token, ref, 0, start, err)
	}

	group, err := v.engine.Load(ctx, res.Payload)
	if err != nil {
		return v.loadFailed(ctx, token, ref, res.Attempts, start, err)
	}

	v.mu.Lock()
	if token != v.gen.Load() {
		v.mu.Unlock()
		v.logger.DebugContext(ctx, "stale load discarded", "asset", ref.String(), "group", group.ID())
		return ErrSuperseded
	}

	if v.group != nil {
		v.scene.Detach(v.group)
	}
	v.scene.Attach(group)
	v.group = group
	v.ref = ref
	v.meta = res.Metadata
	v.status = ""
	v.selector.SetLoaded(group)
	v.mu.Unlock()

	if v.prune {
		v.selector.PruneIndex(ctx)
	}

	v.metrics.RecordLoad(res.Attempts, time.Since(start), nil)
	v.logger.LogLoad(ctx, ref, res.Attempts, nil)
	return nil
}

func (v *Viewer) loadFailed(ctx context.Context, token uint64, ref model.AssetReference, attempts int, start time.Time, err error) error {
	var re *loader.RetryExhaustedError
	if attempts == 0 && errors.As(err, &re) {
		attempts = re.Attempts
	}

	v.metrics.RecordLoad(attempts, time.Since(start), err)
	v.logger.LogLoad(ctx, ref, attempts, err)

	v.mu.Lock()
	defer v.mu.Unlock()
	if token != v.gen.Load() {
		return ErrSuperseded
	}
	v.status = fmt.Sprintf("Failed to load %s: %v", ref.ID, err)
	return translateError(err)
}

// UnloadModel detaches the current group. Selection operations become
// no-ops until the next successful LoadModel. Loads in flight are superseded.
func (v *Viewer) UnloadModel() {
	v.gen.Add(1)

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.group != nil {
		v.scene.Detach(v.group)
	}
	v.group = nil
	v.ref = model.AssetReference{}
	v.meta = model.AssetMetadata{}
	v.status = ""
	v.selector.SetLoaded(nil)
}

// Highlight isolates the fragments of ids. Ids not present in the model are
// ignored; if none is present, nothing stays visible.
func (v *Viewer) Highlight(ids []model.GlobalID) {
	isolated := v.selector.ApplyHostSelection(ids)
	if isolated == nil {
		return
	}
	matched := isolated.Len()
	v.metrics.RecordHighlight(len(ids), matched)
	v.logger.LogHighlight(context.Background(), len(ids), matched)
}

// Reset clears any isolation so the whole model is visible.
func (v *Viewer) Reset() {
	v.selector.Reset()
}

// RebuildIndex replaces the GlobalID to host-row index.
func (v *Viewer) RebuildIndex(rows []model.Row) {
	v.selector.RebuildIndex(rows)
}

// HandleGesture forwards a scene gesture to the host.
func (v *Viewer) HandleGesture(g selection.Gesture) {
	v.selector.HandleGesture(g)
}

// ModelLoaded reports whether a model is attached.
func (v *Viewer) ModelLoaded() bool {
	return v.selector.Loaded()
}

// Reference returns the reference of the attached model.
func (v *Viewer) Reference() model.AssetReference {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.ref
}

// Metadata returns the metadata delivered with the attached model.
func (v *Viewer) Metadata() model.AssetMetadata {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.meta
}

// Status returns the overlay message: progress while loading, the error of
// the last failed load, or "" when there is nothing to report.
func (v *Viewer) Status() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status
}

// SetStatus overrides the overlay message, e.g. for configuration errors
// detected by the host-facing layer.
func (v *Viewer) SetStatus(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.status = msg
}

// LastLoadError returns the message of the loader's most recent failure, or "".
func (v *Viewer) LastLoadError() string {
	return v.loader.LastError()
}

// gestureHost records gesture metrics on the way to the host.
type gestureHost struct {
	v    *Viewer
	host selection.Host
}

func (h *gestureHost) Select(ids []model.RowSelectionID) {
	h.v.metrics.RecordGesture(true)
	h.v.logger.LogGesture(context.Background(), "select")
	if h.host != nil {
		h.host.Select(ids)
	}
}

func (h *gestureHost) Clear() {
	h.v.metrics.RecordGesture(false)
	h.v.logger.LogGesture(context.Background(), "clear")
	if h.host != nil {
		h.host.Clear()
	}
}

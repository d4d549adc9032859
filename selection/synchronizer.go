package selection

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/hupe1980/fragsync/model"
)

var (
	// ErrLookupMiss is logged when an id has no counterpart in the engine or the index.
	ErrLookupMiss = errors.New("selection: lookup miss")
	// ErrNotLoaded is logged when an operation arrives while no model is loaded.
	ErrNotLoaded = errors.New("selection: no model loaded")
)

// Resolver translates between GlobalIDs and fragments for the loaded model.
// A false result means the engine could not resolve anything.
type Resolver interface {
	GUIDToFragmentIDMap(ids []model.GlobalID) (model.FragmentIDMap, bool)
	FragmentIDMapToGUIDs(fragments model.FragmentIDMap) ([]model.GlobalID, bool)
}

// Surface is the visibility control of the render surface.
type Surface interface {
	// Isolate shows only fragments, replacing any prior isolation.
	Isolate(fragments model.FragmentIDMap)
	// SetVisible shows or hides everything and drops any isolation.
	SetVisible(all bool)
}

// Host is the host application's selection API.
type Host interface {
	Select(ids []model.RowSelectionID)
	Clear()
}

// Options configures a Synchronizer.
type Options struct {
	Logger *slog.Logger
}

// Synchronizer mediates selection between the host and the render surface.
// It is safe for concurrent use; operations are serialized in call order.
type Synchronizer struct {
	mu       sync.Mutex
	index    *Index
	resolver Resolver
	surface  Surface
	host     Host
	loaded   bool
	logger   *slog.Logger
}

// NewSynchronizer creates a Synchronizer. resolver may be nil until a model is loaded.
func NewSynchronizer(surface Surface, host Host, optFns ...func(o *Options)) *Synchronizer {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Synchronizer{
		index:   NewIndex(),
		surface: surface,
		host:    host,
		logger:  opts.Logger,
	}
}

// Index returns the live index.
func (s *Synchronizer) Index() *Index { return s.index }

// SetHost replaces the host selection API.
func (s *Synchronizer) SetHost(h Host) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.host = h
}

// SetLoaded records whether a model is loaded and which resolver serves it.
// Passing a nil resolver marks the synchronizer as unloaded.
func (s *Synchronizer) SetLoaded(r Resolver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolver = r
	s.loaded = r != nil
}

// Loaded reports whether selection operations currently have an effect.
func (s *Synchronizer) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// RebuildIndex replaces the index with rows; the first occurrence of a GlobalID wins.
func (s *Synchronizer) RebuildIndex(rows []model.Row) int {
	n := s.index.Rebuild(rows)
	s.logger.Debug("selection index rebuilt", "rows", len(rows), "entries", n)
	return n
}

// ApplyHostSelection isolates the fragments of ids on the render surface.
// Ids the engine cannot resolve are dropped. If nothing resolves, an empty
// set is isolated, which hides everything. Returns the isolated fragments,
// or nil when no model is loaded.
func (s *Synchronizer) ApplyHostSelection(ids []model.GlobalID) model.FragmentIDMap {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		s.logger.Debug("host selection ignored", "error", ErrNotLoaded, "ids", len(ids))
		return nil
	}

	isolated := model.NewFragmentIDMap()
	for _, id := range ids {
		frags, ok := s.resolver.GUIDToFragmentIDMap([]model.GlobalID{id})
		if !ok || frags.IsEmpty() {
			s.logger.Debug("host id dropped", "error", ErrLookupMiss, "global_id", id)
			continue
		}
		isolated.Merge(frags)
	}

	s.surface.Isolate(isolated)
	return isolated
}

// Reset makes every fragment visible again.
func (s *Synchronizer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		s.logger.Debug("reset ignored", "error", ErrNotLoaded)
		return
	}
	s.surface.SetVisible(true)
}

// HandleGesture forwards a render-surface gesture to the host. A Selected
// gesture whose GlobalIDs match at least one indexed row becomes one
// Host.Select call with the matching tokens; every other gesture becomes
// one Host.Clear call.
func (s *Synchronizer) HandleGesture(g Gesture) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		s.logger.Debug("gesture ignored", "error", ErrNotLoaded)
		return
	}
	if s.host == nil {
		return
	}

	sel, ok := g.(Selected)
	if !ok {
		s.host.Clear()
		return
	}

	tokens := s.tokensFor(sel.Fragments)
	if len(tokens) == 0 {
		s.host.Clear()
		return
	}
	s.host.Select(tokens)
}

func (s *Synchronizer) tokensFor(fragments model.FragmentIDMap) []model.RowSelectionID {
	if fragments.IsEmpty() {
		return nil
	}

	ids, ok := s.resolver.FragmentIDMapToGUIDs(fragments)
	if !ok {
		s.logger.Debug("gesture fragments unresolved", "error", ErrLookupMiss)
		return nil
	}

	var (
		tokens = make([]model.RowSelectionID, 0, len(ids))
		seen   = make(map[model.RowSelectionID]struct{}, len(ids))
	)
	for _, id := range ids {
		tok, ok := s.index.Lookup(id)
		if !ok {
			s.logger.Debug("gesture id not in index", "error", ErrLookupMiss, "global_id", id)
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}
	return tokens
}

// PruneIndex drops index entries whose GlobalID the loaded model does not
// contain. It returns the number of dropped entries.
func (s *Synchronizer) PruneIndex(ctx context.Context) int {
	s.mu.Lock()
	r := s.resolver
	s.mu.Unlock()

	if r == nil {
		return 0
	}
	dropped := s.index.Prune(func(id model.GlobalID) bool {
		frags, ok := r.GUIDToFragmentIDMap([]model.GlobalID{id})
		return ok && !frags.IsEmpty()
	})
	if dropped > 0 {
		s.logger.DebugContext(ctx, "stale selection tokens pruned", "dropped", dropped)
	}
	return dropped
}

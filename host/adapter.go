package host

import (
	"context"
	"log/slog"
	"sync"

	"github.com/hupe1980/fragsync/model"
)

// Viewer is the part of fragsync.Viewer the Adapter drives.
type Viewer interface {
	LoadModel(ctx context.Context, ref model.AssetReference) error
	Reference() model.AssetReference
	RebuildIndex(rows []model.Row)
	Highlight(ids []model.GlobalID)
	Reset()
	SetStatus(msg string)
}

// SelectionManager is the host's selection API.
type SelectionManager interface {
	// Select replaces the host selection with ids.
	Select(ids []model.RowSelectionID) error
	// Clear empties the host selection.
	Clear() error
}

// Options configures an Adapter.
type Options struct {
	Tokens TokenBuilder
	// Defaults fills APIKey and Endpoint when the view has no such column
	// or the cell is empty.
	Defaults model.AssetReference
	Logger   *slog.Logger
}

// Adapter applies host data views to a Viewer and forwards scene selections
// to the host's SelectionManager. Update calls must not overlap; the
// Adapter serializes them.
type Adapter struct {
	viewer Viewer
	sm     SelectionManager
	opts   Options

	mu sync.Mutex
}

// NewAdapter creates an Adapter.
func NewAdapter(viewer Viewer, sm SelectionManager, optFns ...func(o *Options)) *Adapter {
	opts := Options{Tokens: IndexTokens}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Tokens == nil {
		opts.Tokens = IndexTokens
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Adapter{viewer: viewer, sm: sm, opts: opts}
}

// Update applies one host refresh.
//
// The index is rebuilt before any selection is applied, so tokens always
// belong to the rows of view. A missing role column is reported through the
// viewer status and returned; nothing is loaded in that case.
func (a *Adapter) Update(ctx context.Context, view DataView) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	cols, err := resolveColumns(view.Columns)
	if err != nil {
		a.viewer.SetStatus("Configuration error: " + err.Error())
		a.opts.Logger.WarnContext(ctx, "data view rejected", "error", err)
		return err
	}

	rows, ids := a.rows(view, cols)
	a.viewer.RebuildIndex(rows)

	ref := a.reference(view, cols)
	if ref.IsZero() {
		a.viewer.SetStatus("No model selected")
		return nil
	}

	if ref != a.viewer.Reference() {
		if err := a.viewer.LoadModel(ctx, ref); err != nil {
			return err
		}
	}

	if view.Filtered() {
		a.viewer.Highlight(ids)
	} else {
		a.viewer.Reset()
	}
	return nil
}

func (a *Adapter) rows(view DataView, cols columns) ([]model.Row, []model.GlobalID) {
	rows := make([]model.Row, 0, len(view.Rows))
	ids := make([]model.GlobalID, 0, len(view.Rows))
	seen := make(map[model.GlobalID]struct{}, len(view.Rows))

	for i, r := range view.Rows {
		id := model.GlobalID(cell(r, cols.rowID))
		if id == "" {
			continue
		}
		rows = append(rows, model.Row{GlobalID: id, SelectionID: a.opts.Tokens.Token(i, r)})
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return rows, ids
}

// reference reads the asset from the first row that names one.
func (a *Adapter) reference(view DataView, cols columns) model.AssetReference {
	ref := a.opts.Defaults
	ref.ID = ""
	for _, r := range view.Rows {
		id := cell(r, cols.modelID)
		if id == "" {
			continue
		}
		ref.ID = id
		if key := cell(r, cols.apiKey); key != "" {
			ref.APIKey = key
		}
		if ep := cell(r, cols.endpoint); ep != "" {
			ref.Endpoint = ep
		}
		break
	}
	return ref
}

// Select implements selection.Host.
func (a *Adapter) Select(ids []model.RowSelectionID) {
	if err := a.sm.Select(ids); err != nil {
		a.opts.Logger.Warn("host select failed", "rows", len(ids), "error", err)
	}
}

// Clear implements selection.Host.
func (a *Adapter) Clear() {
	if err := a.sm.Clear(); err != nil {
		a.opts.Logger.Warn("host clear failed", "error", err)
	}
}

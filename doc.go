// Package fragsync loads compressed 3D geometry from an asset server and
// keeps the rendered selection in step with a host application's rows.
//
// A Viewer composes four pieces:
//
//   - a loader.Loader that fetches and decompresses assets with bounded retry
//   - an engine.GeometryEngine that turns the payload into a render group
//   - an engine.Scene the group is attached to
//   - a selection.Synchronizer that maps host rows to fragments and back
//
// # Quick Start
//
//	store := blobstore.NewHTTPStore(blobstore.WithAPIKey(key))
//	scene := engine.NewHeadlessScene()
//	v := fragsync.New(store, engine.New(), scene, hostSelection,
//	    fragsync.WithLogger(fragsync.NewTextLogger(slog.LevelInfo)),
//	)
//
//	if err := v.LoadModel(ctx, model.AssetReference{ID: "proj1/file1", Endpoint: url}); err != nil {
//	    fmt.Println(v.Status())
//	}
//
//	v.RebuildIndex(rows)                 // on every host data refresh
//	v.Highlight([]model.GlobalID{"2O2Fr$t4X7Zf8NOew3FLOH"})
//
// Clicks in the scene reach the host through the gesture handler the Viewer
// registers on the scene: a pick selects the matching host rows, an empty
// pick clears the host selection.
//
// # Concurrent loads
//
// Each LoadModel call takes a generation token. Only the most recent call
// may attach its group; results of superseded calls are discarded and
// reported as ErrSuperseded.
package fragsync

// Package selection keeps a geometry engine's selection state in step with
// a host application's row selection.
//
// The Index maps a model's GlobalIDs to the host's row tokens and is rebuilt
// in full on each host data refresh. The Synchronizer uses it in both
// directions:
//
//   - host to render: ApplyHostSelection resolves GlobalIDs to fragments and
//     isolates them on the render surface.
//   - render to host: HandleGesture turns a Selected or Cleared gesture into
//     exactly one Host.Select or Host.Clear call, in arrival order.
//
// Lookup misses and calls made while no model is loaded are absorbed and
// logged at debug level; they are never returned as errors.
package selection

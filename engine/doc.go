// Package engine defines the render-surface contract the viewer consumes and
// ships a headless reference implementation of it.
//
// A GeometryEngine turns a decompressed payload into a RenderGroup. The group
// knows the many-to-many relation between the model's GlobalIDs and its
// fragments. A Scene holds at most one attached group, applies isolation and
// visibility, and emits selection gestures.
//
// The reference engine reads fragment files: a JSON document listing each
// fragment with its items and the GlobalID of every item. It exists so the
// CLI and tests can exercise the full load and selection path without a GPU.
package engine

// Package model defines core types used throughout fragsync.
//
// # Identity Types
//
//   - GlobalID: Stable per-model-version element identifier (string)
//   - RowSelectionID: Opaque host-issued token for one table row
//   - FragmentIDMap: Fragment id -> item id set, many-to-many with GlobalID
//
// # Asset Types
//
//   - AssetReference: Identifies a remote compressed asset
//   - AssetMetadata: Optional response metadata (file, project, timestamp)
//
// # Fragment Maps
//
// A FragmentIDMap groups engine item ids by fragment:
//
//	m := model.NewFragmentIDMap()
//	m.Add("f1", 12, 13)
//	m.Add("f2", 40)
//	m.Len() // 3
package model

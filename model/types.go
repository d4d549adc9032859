package model

import "fmt"

// GlobalID is the stable identifier of one model element.
// It is invariant across reloads of the same model version but not across files.
type GlobalID string

// RowSelectionID is an opaque token bound to one host table row at one point in time.
// Tokens are not stable across host data refreshes.
type RowSelectionID string

// AssetReference identifies a remote compressed asset.
// It is passed by value so it cannot change once a load begins.
type AssetReference struct {
	// ID is the asset id or name, e.g. "proj1/file1".
	ID string
	// APIKey is sent as X-API-Key when non-empty.
	APIKey string
	// Endpoint is the base URL of the asset server. Empty selects the fetcher default.
	Endpoint string
}

// IsZero reports whether the reference carries no asset id.
func (r AssetReference) IsZero() bool { return r.ID == "" }

// String returns the reference without its credentials.
func (r AssetReference) String() string {
	if r.Endpoint == "" {
		return r.ID
	}
	return fmt.Sprintf("%s@%s", r.ID, r.Endpoint)
}

// AssetMetadata is the metadata record delivered alongside an asset.
// Any field may be empty; older servers send no metadata at all.
type AssetMetadata struct {
	SourceFileName string
	ProjectName    string
	Timestamp      string
	// Extra holds prefixed fields with no dedicated struct field.
	Extra map[string]string
}

// IsZero reports whether no metadata field is set.
func (m AssetMetadata) IsZero() bool {
	return m.SourceFileName == "" && m.ProjectName == "" && m.Timestamp == "" && len(m.Extra) == 0
}

// Row is one host row reduced to the two identifiers the selection index needs.
type Row struct {
	GlobalID    GlobalID
	SelectionID RowSelectionID
}

// Package host connects a tabular host application to a fragsync.Viewer.
//
// The host hands the Adapter a DataView on every refresh. The view carries
// role columns: rowId holds the element GlobalID and modelId the asset id
// (both required); apiKey and endpoint are optional. The Adapter rebuilds
// the selection index, loads the model when the asset changed and mirrors
// the host's filter as an isolation in the scene.
package host

package loader

import (
	"net/http"
	"strings"

	"github.com/hupe1980/fragsync/blobstore"
	"github.com/hupe1980/fragsync/model"
)

// ParseMetadata builds an AssetMetadata from headers carrying the
// x-metadata- prefix. Unprefixed headers are ignored and absent fields stay empty.
func ParseMetadata(h http.Header) model.AssetMetadata {
	var md model.AssetMetadata
	for name, values := range h {
		lower := strings.ToLower(name)
		if !strings.HasPrefix(lower, blobstore.MetadataHeaderPrefix) || len(values) == 0 {
			continue
		}

		field := strings.TrimPrefix(lower, blobstore.MetadataHeaderPrefix)
		value := values[0]
		switch field {
		case "filename":
			md.SourceFileName = value
		case "projectname":
			md.ProjectName = value
		case "timestamp":
			md.Timestamp = value
		case "":
		default:
			if md.Extra == nil {
				md.Extra = make(map[string]string)
			}
			md.Extra[field] = value
		}
	}
	return md
}

package blobstore

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/hupe1980/fragsync/model"
)

// ErrNotFound is returned when an asset does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// MetadataHeaderPrefix marks response headers that carry asset metadata.
// Matching is case-insensitive.
const MetadataHeaderPrefix = "x-metadata-"

// Fetcher retrieves a compressed asset.
//
// Implementations must be safe for concurrent use and must not retry.
// Concurrent calls for the same reference perform independent round trips.
type Fetcher interface {
	Fetch(ctx context.Context, ref model.AssetReference) (*Object, error)
}

// Invalidator is implemented by fetchers that retain responses. Callers
// invalidate a reference whose body turned out to be unusable so the next
// Fetch goes back to the source.
type Invalidator interface {
	Invalidate(ref model.AssetReference)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, ref model.AssetReference) (*Object, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, ref model.AssetReference) (*Object, error) {
	return f(ctx, ref)
}

// Object is a fetched asset.
type Object struct {
	// Name is the backend-specific location the asset was read from.
	Name string
	// Data holds the compressed bytes.
	Data []byte
	// Header holds the response headers, including x-metadata-* fields.
	Header http.Header
}

// TransportError indicates a non-2xx response from a remote asset server.
type TransportError struct {
	StatusCode int
	Status     string
	Body       string
	URL        string
}

func (e *TransportError) Error() string {
	body := e.Body
	if len(body) > 256 {
		body = body[:256] + "..."
	}
	if body == "" {
		return fmt.Sprintf("fetch %s: %s", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %s: %s", e.URL, e.Status, body)
}

// Is maps 404 responses onto ErrNotFound.
func (e *TransportError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// MetadataHeader builds response headers from plain metadata fields.
// Keys are lowercased and prefixed with MetadataHeaderPrefix.
func MetadataHeader(fields map[string]string) http.Header {
	h := make(http.Header, len(fields))
	for k, v := range fields {
		if v == "" {
			continue
		}
		h.Set(MetadataHeaderPrefix+strings.ToLower(k), v)
	}
	return h
}

package blobstore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/hupe1980/fragsync/model"
	"github.com/hupe1980/fragsync/resource"
)

// DefaultEndpoint is used when neither the reference nor the store names one.
const DefaultEndpoint = "http://localhost:3000"

// APIKeyHeader carries the deployment API key.
const APIKeyHeader = "X-API-Key"

// maxErrorBody bounds how much of a failed response body is kept for diagnostics.
const maxErrorBody = 4096

// HTTPStore fetches assets from an asset server with an authenticated GET.
//
// Request shape: GET <endpoint>?id=<assetId> with X-API-Key when a key is known.
// With WithLegacyDownloadPath the older GET <endpoint>/download/<name>frag.gz
// layout is used instead.
type HTTPStore struct {
	client     *http.Client
	endpoint   string
	apiKey     string
	legacyPath bool
	rc         *resource.Controller
}

// HTTPOption configures an HTTPStore.
type HTTPOption func(*HTTPStore)

// WithHTTPClient sets the client used for requests. Defaults to http.DefaultClient.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPStore) {
		if c != nil {
			s.client = c
		}
	}
}

// WithDefaultEndpoint sets the endpoint used for references without one.
func WithDefaultEndpoint(endpoint string) HTTPOption {
	return func(s *HTTPStore) {
		if endpoint != "" {
			s.endpoint = endpoint
		}
	}
}

// WithAPIKey sets the key sent for references that carry none.
func WithAPIKey(key string) HTTPOption {
	return func(s *HTTPStore) {
		s.apiKey = key
	}
}

// WithLegacyDownloadPath switches to the /download/<name>frag.gz layout.
func WithLegacyDownloadPath() HTTPOption {
	return func(s *HTTPStore) {
		s.legacyPath = true
	}
}

// WithResourceController throttles requests through rc.
func WithResourceController(rc *resource.Controller) HTTPOption {
	return func(s *HTTPStore) {
		s.rc = rc
	}
}

// NewHTTPStore creates a new HTTP fetcher.
func NewHTTPStore(optFns ...HTTPOption) *HTTPStore {
	s := &HTTPStore{
		client:   http.DefaultClient,
		endpoint: DefaultEndpoint,
	}
	for _, fn := range optFns {
		fn(s)
	}
	return s
}

// URL returns the request URL for ref.
func (s *HTTPStore) URL(ref model.AssetReference) (string, error) {
	endpoint := ref.Endpoint
	if endpoint == "" {
		endpoint = s.endpoint
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}

	if s.legacyPath {
		u.Path = path.Join("/", u.Path, "download", ref.ID+"frag.gz")
		return u.String(), nil
	}

	q := u.Query()
	q.Set("id", ref.ID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Fetch implements Fetcher.
func (s *HTTPStore) Fetch(ctx context.Context, ref model.AssetReference) (*Object, error) {
	target, err := s.URL(ref)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}

	if key := s.keyFor(ref); key != "" {
		req.Header.Set(APIKeyHeader, key)
	}
	// Setting Accept-Encoding ourselves keeps net/http from transparently
	// inflating gzip bodies; the loader owns decompression.
	req.Header.Set("Accept-Encoding", "gzip")

	if err := s.rc.AcquireFetch(ctx); err != nil {
		return nil, err
	}
	defer s.rc.ReleaseFetch()

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &TransportError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(body)),
			URL:        target,
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", target, err)
	}

	return &Object{
		Name:   target,
		Data:   data,
		Header: resp.Header.Clone(),
	}, nil
}

func (s *HTTPStore) keyFor(ref model.AssetReference) string {
	if ref.APIKey != "" {
		return ref.APIKey
	}
	return s.apiKey
}

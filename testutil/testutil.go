package testutil

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hupe1980/fragsync/model"
	"github.com/klauspost/compress/gzip"
)

// GzipBytes compresses b with gzip.
func GzipBytes(tb testing.TB, b []byte) []byte {
	tb.Helper()

	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(b); err != nil {
		tb.Fatalf("gzip write: %v", err)
	}
	if err := w.Close(); err != nil {
		tb.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

// SleepRecorder records backoff waits without sleeping.
type SleepRecorder struct {
	mu     sync.Mutex
	sleeps []time.Duration
}

// Sleep records d and returns immediately unless ctx is already done.
func (r *SleepRecorder) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sleeps = append(r.sleeps, d)
	return nil
}

// Count returns the number of recorded waits.
func (r *SleepRecorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sleeps)
}

// Total returns the cumulative recorded delay.
func (r *SleepRecorder) Total() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total time.Duration
	for _, d := range r.sleeps {
		total += d
	}
	return total
}

// RecordingHost records the host selection calls it receives, in order.
type RecordingHost struct {
	mu    sync.Mutex
	calls []string
	last  []model.RowSelectionID
}

// Select records a select call.
func (h *RecordingHost) Select(ids []model.RowSelectionID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	h.calls = append(h.calls, "select:"+strings.Join(parts, ","))
	h.last = append([]model.RowSelectionID(nil), ids...)
}

// Clear records a clear call.
func (h *RecordingHost) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, "clear")
	h.last = nil
}

// Calls returns the recorded calls.
func (h *RecordingHost) Calls() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.calls...)
}

// LastSelection returns the tokens passed to the most recent Select, or nil after a Clear.
func (h *RecordingHost) LastSelection() []model.RowSelectionID {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]model.RowSelectionID(nil), h.last...)
}

// AssetServer is an http.Handler that serves one gzip payload and fails the
// first FailFirst requests with the given status.
type AssetServer struct {
	Body      []byte
	Metadata  map[string]string
	FailFirst int
	Status    int

	requests atomic.Int32
}

// ServeHTTP implements http.Handler.
func (s *AssetServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n := int(s.requests.Add(1))
	if n <= s.FailFirst {
		status := s.Status
		if status == 0 {
			status = http.StatusServiceUnavailable
		}
		http.Error(w, http.StatusText(status), status)
		return
	}

	for k, v := range s.Metadata {
		w.Header().Set("x-metadata-"+k, v)
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(s.Body)
}

// Requests returns the number of requests served so far.
func (s *AssetServer) Requests() int {
	return int(s.requests.Load())
}

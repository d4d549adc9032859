package fragsync

import (
	"errors"
	"fmt"

	"github.com/hupe1980/fragsync/blobstore"
	"github.com/hupe1980/fragsync/engine"
	"github.com/hupe1980/fragsync/loader"
)

var (
	// ErrNotFound is returned when the asset does not exist on the server.
	ErrNotFound = errors.New("asset not found")

	// ErrLoadFailed is returned when an asset could not be fetched, decompressed or built.
	ErrLoadFailed = errors.New("model load failed")

	// ErrInvalidReference is returned for an asset reference without id.
	ErrInvalidReference = errors.New("invalid asset reference")

	// ErrSuperseded is returned by a LoadModel call whose result was discarded
	// because a newer load or an unload started after it.
	ErrSuperseded = errors.New("load superseded by a newer request")
)

// ErrTransport exposes the HTTP status of a failed load.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrTransport struct {
	StatusCode int
	cause      error
}

func (e *ErrTransport) Error() string {
	return fmt.Sprintf("asset server responded with status %d", e.StatusCode)
}

func (e *ErrTransport) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, loader.ErrEmptyReference) {
		return fmt.Errorf("%w: %w", ErrInvalidReference, err)
	}

	// Not found unification.
	if errors.Is(err, blobstore.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	var te *blobstore.TransportError
	if errors.As(err, &te) {
		return fmt.Errorf("%w: %w", ErrLoadFailed, &ErrTransport{StatusCode: te.StatusCode, cause: err})
	}

	var re *loader.RetryExhaustedError
	if errors.As(err, &re) {
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	var fe *engine.FormatError
	if errors.As(err, &fe) || errors.Is(err, engine.ErrEmptyPayload) || errors.Is(err, engine.ErrUnsupportedVersion) {
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	return err
}

package loader

import (
	"errors"
	"fmt"
)

// ErrEmptyReference is returned when a load is requested without an asset id.
var ErrEmptyReference = errors.New("asset reference has no id")

// RetryExhaustedError indicates that every attempt of a load failed.
//
// The last attempt's error can be accessed via errors.Unwrap, so
// errors.As(err, **blobstore.TransportError) and
// errors.As(err, **codec.DecompressionError) work on it.
type RetryExhaustedError struct {
	Asset    string
	Attempts int
	cause    error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("load %s failed after %d attempt(s): %v", e.Asset, e.Attempts, e.cause)
}

func (e *RetryExhaustedError) Unwrap() error { return e.cause }

package loader

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/hupe1980/fragsync/blobstore"
	"github.com/hupe1980/fragsync/codec"
	"github.com/hupe1980/fragsync/model"
)

const (
	// DefaultMaxRetries is the default number of attempts per load.
	DefaultMaxRetries = 3
	// DefaultBackoff is the fixed delay between attempts.
	DefaultBackoff = time.Second
)

// Result is a successfully loaded asset.
type Result struct {
	Metadata model.AssetMetadata
	// Payload is the decompressed geometry buffer. Ownership passes to the caller.
	Payload []byte
	// Attempts is the number of fetch attempts it took, starting at 1.
	Attempts int
}

// Observer receives one callback per attempt.
type Observer interface {
	RecordAttempt(attempt int, duration time.Duration, err error)
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Options configures a Loader.
type Options struct {
	// MaxRetries is the total number of attempts. Values < 1 select DefaultMaxRetries.
	MaxRetries int
	// Backoff is the delay between attempts. Values <= 0 select DefaultBackoff.
	Backoff time.Duration
	// Decompressor is applied to every fetched body. Defaults to codec.Gzip.
	Decompressor codec.Decompressor
	// Logger receives per-attempt diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
	// Observer receives attempt metrics. Optional.
	Observer Observer
	// Sleep replaces the backoff wait, mainly for tests.
	Sleep SleepFunc
}

// Loader fetches and decompresses assets with bounded retry.
// It is safe for concurrent use.
type Loader struct {
	fetcher blobstore.Fetcher
	opts    Options

	mu      sync.Mutex
	lastErr string
}

// New creates a Loader around fetcher.
func New(fetcher blobstore.Fetcher, optFns ...func(o *Options)) *Loader {
	opts := Options{
		MaxRetries:   DefaultMaxRetries,
		Backoff:      DefaultBackoff,
		Decompressor: codec.Gzip{},
		Sleep:        sleepContext,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.MaxRetries < 1 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.Backoff <= 0 {
		opts.Backoff = DefaultBackoff
	}
	if opts.Decompressor == nil {
		opts.Decompressor = codec.Gzip{}
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepContext
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Loader{
		fetcher: fetcher,
		opts:    opts,
	}
}

// MaxRetries returns the configured attempt budget.
func (l *Loader) MaxRetries() int { return l.opts.MaxRetries }

// LastError returns the message of the most recent failed load,
// or "" if the most recent load succeeded.
func (l *Loader) LastError() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}

func (l *Loader) setLastError(msg string) {
	l.mu.Lock()
	l.lastErr = msg
	l.mu.Unlock()
}

// Load fetches and decompresses ref, retrying failed attempts.
//
// It performs at most MaxRetries attempts and MaxRetries-1 waits. A canceled
// ctx stops further attempts. Every failure is returned as a
// *RetryExhaustedError; Load never panics on transport or payload errors.
func (l *Loader) Load(ctx context.Context, ref model.AssetReference) (*Result, error) {
	if ref.IsZero() {
		l.setLastError(ErrEmptyReference.Error())
		return nil, ErrEmptyReference
	}

	logger := l.opts.Logger.With("asset", ref.String())

	var (
		lastErr  error
		attempts int
	)
	for attempt := 1; attempt <= l.opts.MaxRetries; attempt++ {
		if attempt > 1 {
			if err := l.opts.Sleep(ctx, l.opts.Backoff); err != nil {
				lastErr = err
				break
			}
		}

		attempts = attempt
		start := time.Now()
		res, err := l.attempt(ctx, ref)
		if l.opts.Observer != nil {
			l.opts.Observer.RecordAttempt(attempt, time.Since(start), err)
		}

		if err == nil {
			res.Attempts = attempt
			l.setLastError("")
			logger.DebugContext(ctx, "asset loaded",
				"attempt", attempt,
				"bytes", len(res.Payload),
			)
			return res, nil
		}

		lastErr = err
		logger.WarnContext(ctx, "load attempt failed",
			"attempt", attempt,
			"max_retries", l.opts.MaxRetries,
			"error", err,
		)

		if ctx.Err() != nil {
			break
		}
	}

	exhausted := &RetryExhaustedError{Asset: ref.String(), Attempts: attempts, cause: lastErr}
	l.setLastError(exhausted.Error())
	logger.ErrorContext(ctx, "load failed", "attempts", attempts, "error", lastErr)
	return nil, exhausted
}

// attempt performs one fetch+decompress round. Nothing from a failed
// attempt survives into the next one: a corrupt body is evicted from a
// caching fetcher before the attempt returns.
func (l *Loader) attempt(ctx context.Context, ref model.AssetReference) (*Result, error) {
	obj, err := l.fetcher.Fetch(ctx, ref)
	if err != nil {
		return nil, err
	}

	payload, err := l.opts.Decompressor.Decompress(obj.Data)
	if err != nil {
		var de *codec.DecompressionError
		if inv, ok := l.fetcher.(blobstore.Invalidator); ok && errors.As(err, &de) {
			inv.Invalidate(ref)
		}
		return nil, err
	}

	return &Result{
		Metadata: ParseMetadata(obj.Header),
		Payload:  payload,
	}, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

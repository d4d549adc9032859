// Package loader turns a remote compressed asset into an in-memory geometry buffer.
//
// A Loader wraps a blobstore.Fetcher with a bounded retry policy: up to
// MaxRetries attempts (default 3) separated by a fixed backoff (default 1s).
// Transport failures and decompression failures count against the same
// budget. Exhaustion yields a *RetryExhaustedError wrapping the last failure,
// and the message stays available through LastError.
//
//	l := loader.New(blobstore.NewHTTPStore())
//	res, err := l.Load(ctx, model.AssetReference{ID: "proj1/file1", Endpoint: url})
//	if err != nil {
//	    fmt.Println(l.LastError())
//	}
//
// Loads are not de-duplicated. Callers that need single-flight behavior
// serialize calls themselves.
package loader

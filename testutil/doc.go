// Package testutil provides testing utilities for fragsync.
//
// This package is intended for use in tests only.
//
// # Payload Fixtures
//
//	gz := testutil.GzipBytes(t, raw)
//
// # Recorders
//
//	sleeps := &testutil.SleepRecorder{}
//	l := loader.New(fetcher, func(o *loader.Options) { o.Sleep = sleeps.Sleep })
//	sleeps.Total() // cumulative backoff
//
//	host := &testutil.RecordingHost{}
//	host.Calls() // ["clear", "select:tok1"]
package testutil

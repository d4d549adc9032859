// Command fragview loads a compressed fragment asset through a configured
// backend, prints its metadata and applies a highlight in a headless scene.
//
// Usage:
//
//	fragview --asset proj1/file1 --highlight 2O2Fr$t4X7Zf8NOew3FLOH,1hOSvn6df7F8_7GcBWlR72
//
// Configuration is read from ./fragview.yaml (or --config) and FRAGVIEW_*
// environment variables, e.g. FRAGVIEW_HTTP_APIKEY.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/hupe1980/fragsync"
	"github.com/hupe1980/fragsync/codec"
	"github.com/hupe1980/fragsync/engine"
	"github.com/hupe1980/fragsync/model"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "fragview:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("fragview", pflag.ContinueOnError)
	configPath := flags.String("config", "", "path to a config file")
	asset := flags.String("asset", "", "asset id to load")
	highlight := flags.StringSlice("highlight", nil, "GlobalIDs to isolate after loading")
	prefetch := flags.StringSlice("prefetch", nil, "additional asset ids to warm the cache with")
	flags.String("backend", "", "asset backend: http, local, s3 or minio")
	flags.String("endpoint", "", "asset server endpoint (http backend)")
	flags.String("log-level", "", "debug, info, warn or error")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *asset == "" {
		return fmt.Errorf("--asset is required")
	}

	v := viper.New()
	for key, flag := range map[string]string{
		"backend":       "backend",
		"http.endpoint": "endpoint",
		"logLevel":      "log-level",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return err
		}
	}

	cfg, err := LoadConfig(v, *configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := fragsync.NewTextLogger(parseLevel(cfg.LogLevel))

	store, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	if len(*prefetch) > 0 && store.cache != nil {
		refs := make([]model.AssetReference, 0, len(*prefetch))
		for _, id := range *prefetch {
			refs = append(refs, model.AssetReference{ID: id})
		}
		if err := store.cache.Prefetch(ctx, refs...); err != nil {
			logger.WarnContext(ctx, "prefetch failed", "error", err)
		}
	}

	loaderOpts, err := loaderOptions(cfg.Loader)
	if err != nil {
		return err
	}

	metrics := &fragsync.BasicMetricsCollector{}
	scene := engine.NewHeadlessScene()
	eng := engine.New(func(o *engine.Options) {
		o.Codec = codec.GoJSON{Strict: cfg.Engine.StrictFormat}
	})
	viewer := fragsync.New(store.fetcher, eng, scene, nil,
		fragsync.WithLogger(logger),
		fragsync.WithMetricsCollector(metrics),
		fragsync.WithLoaderOptions(loaderOpts...),
	)

	if err := viewer.LoadModel(ctx, model.AssetReference{ID: *asset}); err != nil {
		return fmt.Errorf("%s: %w", viewer.Status(), err)
	}

	printMetadata(viewer.Metadata())
	fmt.Printf("fragments:   %d items visible\n", scene.Visible().Len())

	if len(*highlight) > 0 {
		ids := make([]model.GlobalID, 0, len(*highlight))
		for _, id := range *highlight {
			ids = append(ids, model.GlobalID(strings.TrimSpace(id)))
		}
		viewer.Highlight(ids)
		fmt.Printf("highlight:   %d of %d ids matched, %d items visible\n",
			matched(scene, ids), len(ids), scene.Visible().Len())
	}

	stats := metrics.GetStats()
	fmt.Printf("attempts:    %d (%d failed)\n", stats.AttemptCount, stats.AttemptErrors)
	return nil
}

func printMetadata(md model.AssetMetadata) {
	fmt.Printf("file:        %s\n", orDash(md.SourceFileName))
	fmt.Printf("project:     %s\n", orDash(md.ProjectName))
	fmt.Printf("timestamp:   %s\n", orDash(md.Timestamp))
	for k, v := range md.Extra {
		fmt.Printf("%-12s %s\n", k+":", v)
	}
}

func matched(scene *engine.HeadlessScene, ids []model.GlobalID) int {
	g := scene.Attached()
	if g == nil {
		return 0
	}
	n := 0
	for _, id := range ids {
		if _, ok := g.GUIDToFragmentIDMap([]model.GlobalID{id}); ok {
			n++
		}
	}
	return n
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

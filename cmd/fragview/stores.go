package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/hupe1980/fragsync/blobstore"
	fsminio "github.com/hupe1980/fragsync/blobstore/minio"
	fss3 "github.com/hupe1980/fragsync/blobstore/s3"
	"github.com/hupe1980/fragsync/codec"
	"github.com/hupe1980/fragsync/loader"
	"github.com/hupe1980/fragsync/resource"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type stores struct {
	fetcher blobstore.Fetcher
	cache   *blobstore.CachingStore
}

func newStore(ctx context.Context, cfg *Config) (*stores, error) {
	rc := resource.NewController(resource.Config{
		MemoryLimitBytes:     cfg.Cache.CapacityBytes,
		MaxConcurrentFetches: cfg.Throttle.MaxConcurrentFetches,
		RequestsPerSecond:    cfg.Throttle.RequestsPerSecond,
	})

	var (
		f   blobstore.Fetcher
		err error
	)
	switch cfg.Backend {
	case "http", "":
		opts := []blobstore.HTTPOption{
			blobstore.WithDefaultEndpoint(cfg.HTTP.Endpoint),
			blobstore.WithAPIKey(cfg.HTTP.APIKey),
			blobstore.WithResourceController(rc),
			blobstore.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.HTTP.TimeoutSecs) * time.Second}),
		}
		if cfg.HTTP.LegacyPath {
			opts = append(opts, blobstore.WithLegacyDownloadPath())
		}
		f = blobstore.NewHTTPStore(opts...)
	case "local":
		f = blobstore.NewLocalStore(cfg.Local.Root)
	case "s3":
		f, err = newS3Store(ctx, cfg.S3)
	case "minio":
		f, err = newMinIOStore(cfg.MinIO)
	default:
		err = fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	s := &stores{fetcher: f}
	if cfg.Cache.CapacityBytes > 0 {
		s.cache = blobstore.NewLRUCachingStore(f, cfg.Cache.CapacityBytes, rc)
		s.fetcher = s.cache
	}
	return s, nil
}

func newS3Store(ctx context.Context, cfg S3Config) (blobstore.Fetcher, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3.bucket is required")
	}

	opts := []fss3.Option{fss3.WithPrefix(cfg.Prefix)}
	if cfg.Region != "" {
		opts = append(opts, fss3.WithRegion(cfg.Region))
	}
	if cfg.CatalogTable != "" {
		var cfgOpts []func(*config.LoadOptions) error
		if cfg.Region != "" {
			cfgOpts = append(cfgOpts, config.WithRegion(cfg.Region))
		}
		awsCfg, err := config.LoadDefaultConfig(ctx, cfgOpts...)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		opts = append(opts, fss3.WithCatalog(fss3.NewDDBCatalog(dynamodb.NewFromConfig(awsCfg), cfg.CatalogTable)))
	}
	return fss3.New(ctx, cfg.Bucket, opts...)
}

func newMinIOStore(cfg MinIOConfig) (blobstore.Fetcher, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("minio.endpoint and minio.bucket are required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return fsminio.NewStore(client, cfg.Bucket, cfg.Prefix), nil
}

func loaderOptions(cfg LoaderConfig) ([]func(*loader.Options), error) {
	d, ok := codec.DecompressorByName(cfg.Decompressor)
	if !ok {
		return nil, fmt.Errorf("unknown decompressor %q", cfg.Decompressor)
	}
	return []func(*loader.Options){
		func(o *loader.Options) {
			o.MaxRetries = cfg.MaxRetries
			o.Backoff = cfg.Backoff
			o.Decompressor = d
		},
	}, nil
}

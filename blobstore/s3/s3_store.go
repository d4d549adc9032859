package s3

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/hupe1980/fragsync/blobstore"
	"github.com/hupe1980/fragsync/model"
)

// Client is the subset of the S3 API the store needs.
type Client interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	manager.DownloadAPIClient
}

// Store implements blobstore.Fetcher for S3.
type Store struct {
	client  Client
	bucket  string
	prefix  string
	catalog Catalog

	partSize    int64
	concurrency int
}

// Option configures a Store created with New.
type Option func(*options)

type options struct {
	prefix      string
	region      string
	catalog     Catalog
	partSize    int64
	concurrency int
}

// WithPrefix prepends rootPrefix to every object key.
func WithPrefix(rootPrefix string) Option {
	return func(o *options) { o.prefix = rootPrefix }
}

// WithRegion overrides the region from the default AWS config chain.
func WithRegion(region string) Option {
	return func(o *options) { o.region = region }
}

// WithCatalog resolves asset ids through c before reading objects.
func WithCatalog(c Catalog) Option {
	return func(o *options) { o.catalog = c }
}

// WithDownloadConcurrency configures ranged parallel downloads for large objects.
func WithDownloadConcurrency(partSize int64, concurrency int) Option {
	return func(o *options) {
		o.partSize = partSize
		o.concurrency = concurrency
	}
}

// New creates a Store using the default AWS config chain.
func New(ctx context.Context, bucket string, optFns ...Option) (*Store, error) {
	var o options
	for _, fn := range optFns {
		fn(&o)
	}

	var cfgOpts []func(*config.LoadOptions) error
	if o.region != "" {
		cfgOpts = append(cfgOpts, config.WithRegion(o.region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, cfgOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	store := NewStore(s3.NewFromConfig(cfg), bucket, o.prefix)
	store.catalog = o.catalog
	if o.partSize > 0 {
		store.partSize = o.partSize
	}
	if o.concurrency > 0 {
		store.concurrency = o.concurrency
	}
	return store, nil
}

// NewStore creates a new S3 fetcher.
// rootPrefix is prepended to all keys (e.g. "models/").
func NewStore(client Client, bucket, rootPrefix string) *Store {
	return &Store{
		client:      client,
		bucket:      bucket,
		prefix:      rootPrefix,
		partSize:    manager.DefaultDownloadPartSize,
		concurrency: manager.DefaultDownloadConcurrency,
	}
}

// SetCatalog attaches a catalog to a store built with NewStore.
func (s *Store) SetCatalog(c Catalog) {
	s.catalog = c
}

func (s *Store) key(name string) string {
	return path.Join(s.prefix, name)
}

// Fetch implements blobstore.Fetcher.
func (s *Store) Fetch(ctx context.Context, ref model.AssetReference) (*blobstore.Object, error) {
	name := ref.ID
	var catalogMeta map[string]string
	if s.catalog != nil {
		entry, err := s.catalog.Lookup(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		name = entry.Key
		catalogMeta = entry.Metadata
	}
	key := s.key(name)

	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, translateError(err, key)
	}

	size := aws.ToInt64(head.ContentLength)
	buf := manager.NewWriteAtBuffer(make([]byte, 0, size))

	downloader := manager.NewDownloader(s.client, func(d *manager.Downloader) {
		d.PartSize = s.partSize
		d.Concurrency = s.concurrency
	})

	if _, err := downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return nil, translateError(err, key)
	}

	// Object user metadata wins over the catalog.
	fields := make(map[string]string, len(catalogMeta)+len(head.Metadata))
	for k, v := range catalogMeta {
		fields[k] = v
	}
	for k, v := range head.Metadata {
		fields[k] = v
	}

	return &blobstore.Object{
		Name:   "s3://" + path.Join(s.bucket, key),
		Data:   buf.Bytes(),
		Header: blobstore.MetadataHeader(fields),
	}, nil
}

func translateError(err error, key string) error {
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return fmt.Errorf("object %q: %w", key, blobstore.ErrNotFound)
	}
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return fmt.Errorf("object %q: %w", key, blobstore.ErrNotFound)
	}
	return err
}

package blobstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/hupe1980/fragsync/model"
)

// LocalStore implements Fetcher using the local file system.
//
// An asset id "proj1/file1" resolves to <root>/proj1/file1, falling back to
// <root>/proj1/file1frag.gz. Metadata is derived from the path and mtime:
// the first path segment is the project, the base name is the file.
type LocalStore struct {
	root string
}

// NewLocalStore creates a new LocalStore rooted at the given directory.
func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

// Fetch implements Fetcher.
func (s *LocalStore) Fetch(ctx context.Context, ref model.AssetReference) (*Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rel := filepath.FromSlash(ref.ID)
	if !filepath.IsLocal(rel) {
		return nil, fmt.Errorf("asset id %q escapes store root", ref.ID)
	}

	for _, candidate := range []string{rel, rel + "frag.gz"} {
		p := filepath.Join(s.root, candidate)
		info, err := os.Stat(p)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			continue
		}

		data, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		return &Object{
			Name:   p,
			Data:   data,
			Header: MetadataHeader(localMetadata(ref.ID, info.ModTime())),
		}, nil
	}

	return nil, fmt.Errorf("asset %q: %w", ref.ID, ErrNotFound)
}

func localMetadata(id string, mod time.Time) map[string]string {
	fields := map[string]string{
		"filename":  strings.TrimSuffix(path.Base(id), "frag.gz"),
		"timestamp": mod.UTC().Format(time.RFC3339),
	}
	if dir, _, ok := strings.Cut(id, "/"); ok {
		fields["projectname"] = dir
	}
	return fields
}

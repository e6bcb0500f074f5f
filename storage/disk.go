package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// URLPrefix is the path the api serves disk-stored images under.
const URLPrefix = "/uploads/"

// DiskStore writes images under a local directory and returns URLs
// relative to the backend root.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating uploads dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

func (s *DiskStore) Dir() string {
	return s.dir
}

func (s *DiskStore) Save(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	key, err := objectKey(filename, contentType)
	if err != nil {
		return "", err
	}
	data, err := limitedRead(r)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(s.dir, key), data, 0o644); err != nil {
		return "", fmt.Errorf("writing image: %w", err)
	}
	log.Debug().Str("key", key).Int("bytes", len(data)).Msg("Stored image on disk")
	return URLPrefix + key, nil
}

// Delete removes an image previously returned by Save. URLs this store
// did not produce are ignored.
func (s *DiskStore) Delete(ctx context.Context, url string) error {
	if !strings.HasPrefix(url, URLPrefix) {
		return nil
	}
	key := path.Base(url)
	if key == "." || key == "/" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing image: %w", err)
	}
	return nil
}

package blob

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// compile-time check that *DiskStore implements Store
var _ Store = (*DiskStore)(nil)

// DiskStore keeps blobs as plain files under a content root directory.
// The default for single-server deployments — no extra infrastructure, and
// the content root can be backed up like any other directory.
type DiskStore struct {
	root string
}

// NewDiskStore creates the content root (mkdir -p) and returns the store.
func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("blob: creating content root %s: %w", root, err)
	}
	return &DiskStore{root: root}, nil
}

func (s *DiskStore) Save(_ context.Context, r io.Reader, originalName string) (string, error) {
	key := newKey(originalName)

	f, err := os.OpenFile(filepath.Join(s.root, key), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("blob: creating %s: %w", key, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		// Don't leave a truncated file behind a recorded key.
		os.Remove(f.Name())
		return "", fmt.Errorf("blob: writing %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("blob: closing %s: %w", key, err)
	}

	return key, nil
}

func (s *DiskStore) Open(_ context.Context, key string) (io.ReadCloser, string, error) {
	// Keys are generated by newKey and never contain separators, but the
	// key in a request URL is caller-controlled — re-sanitize before
	// touching the filesystem.
	key = filepath.Base(key)

	f, err := os.Open(filepath.Join(s.root, key))
	if err != nil {
		return nil, "", fmt.Errorf("blob: opening %s: %w", key, err)
	}

	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(key)))
	return f, contentType, nil
}

func (s *DiskStore) Remove(_ context.Context, key string) error {
	key = filepath.Base(key)
	if err := os.Remove(filepath.Join(s.root, key)); err != nil {
		return fmt.Errorf("blob: removing %s: %w", key, err)
	}
	return nil
}

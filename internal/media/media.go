// Package media stores uploaded item images and hands back public URLs.
package media

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/swapcloset/swapcloset-golang/internal/apperr"
)

// Store is the binary object collaborator. Upload returns an opaque
// handle; PublicURL resolves a handle to a browsable URL.
type Store interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
	PublicURL(handle string) string
}

// DiskStore saves objects under a local directory and serves them from
// BaseURL/uploads. Filenames are uuid-based so uploads never collide.
type DiskStore struct {
	Dir     string
	BaseURL string
}

// NewDiskStore builds a disk-backed store, creating the directory if needed.
func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &DiskStore{Dir: dir, BaseURL: baseURL}, nil
}

func (s *DiskStore) Upload(_ context.Context, path string, data []byte, _ string) (string, error) {
	// Keep only the extension from the caller's path; the stored name is
	// a fresh uuid so callers cannot overwrite each other's objects.
	ext := filepath.Ext(path)
	handle := uuid.New().String() + ext
	savePath := filepath.Join(s.Dir, handle)

	if err := os.WriteFile(savePath, data, 0644); err != nil {
		return "", &apperr.StorageError{Path: path, Err: err}
	}
	return handle, nil
}

func (s *DiskStore) PublicURL(handle string) string {
	return fmt.Sprintf("%s/uploads/%s", s.BaseURL, handle)
}

// Upload is one image of a multi-image submission.
type Upload struct {
	Path        string
	Data        []byte
	ContentType string
}

// UploadAll stores a batch of images. A failure on one image does not
// abort the rest: the returned URLs are whichever uploads succeeded, in
// order, and failures come back as StorageErrors for the caller to log.
func UploadAll(ctx context.Context, store Store, uploads []Upload) ([]string, []error) {
	var urls []string
	var failures []error
	for _, up := range uploads {
		handle, err := store.Upload(ctx, up.Path, up.Data, up.ContentType)
		if err != nil {
			log.Printf("WARNING: image upload failed for %s: %v", up.Path, err)
			failures = append(failures, err)
			continue
		}
		urls = append(urls, store.PublicURL(handle))
	}
	return urls, failures
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// DefaultURLPrefix is the route under which the server exposes the upload directory
const DefaultURLPrefix = "/uploads"

// LocalImageStore writes uploads into a directory on disk
type LocalImageStore struct {
	dir       string
	urlPrefix string
	now       func() time.Time
}

func NewLocalImageStore(dir string) *LocalImageStore {
	return &LocalImageStore{
		dir:       dir,
		urlPrefix: DefaultURLPrefix,
		now:       time.Now,
	}
}

// Dir returns the directory uploads are written to
func (s *LocalImageStore) Dir() string {
	return s.dir
}

// Accept copies r verbatim into a new file. A partially written file is removed before
// the error is returned.
func (s *LocalImageStore) Accept(ctx context.Context, r io.Reader, originalName string) (*UploadedImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpload, err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create upload dir: %w", ErrUpload, err)
	}

	filename := StoredName(s.now(), originalName)
	fullPath := filepath.Join(s.dir, filename)

	f, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("%w: create %s: %w", ErrUpload, filename, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		s.discard(fullPath)
		return nil, fmt.Errorf("%w: write %s: %w", ErrUpload, filename, err)
	}
	if err := f.Close(); err != nil {
		s.discard(fullPath)
		return nil, fmt.Errorf("%w: close %s: %w", ErrUpload, filename, err)
	}

	log.Printf("[ImageStore] stored upload %s", filename)
	return &UploadedImage{
		Filename: filename,
		Path:     path.Join(s.urlPrefix, filename),
	}, nil
}

// Remove deletes a previously accepted image. A missing file is not an error.
func (s *LocalImageStore) Remove(ctx context.Context, imagePath string) error {
	name := path.Base(strings.TrimPrefix(imagePath, s.urlPrefix+"/"))
	if name == "." || name == "/" {
		return fmt.Errorf("invalid image path %q", imagePath)
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *LocalImageStore) discard(fullPath string) {
	if err := os.Remove(fullPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[ImageStore] failed to remove partial upload %s: %v", fullPath, err)
	}
}

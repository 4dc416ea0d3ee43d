// Package storage accepts uploaded recipe photos and places them where the HTTP layer
// can serve them back.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// ErrUpload wraps every failure to persist an uploaded image
var ErrUpload = errors.New("image upload failed")

// UploadedImage describes a stored upload
type UploadedImage struct {
	Filename string
	// Path is the value stored on the recipe row and later requested by clients
	Path string
}

// ImageStore persists uploaded image bytes. Implementations must be safe for
// concurrent use.
type ImageStore interface {
	Accept(ctx context.Context, r io.Reader, originalName string) (*UploadedImage, error)
	Remove(ctx context.Context, path string) error
}

// StoredName builds the `<unix-millis>-<base name>` filename used by every backend.
// Directory components of originalName are discarded, with either separator.
func StoredName(now time.Time, originalName string) string {
	base := path.Base(strings.ReplaceAll(originalName, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "upload"
	}
	return fmt.Sprintf("%d-%s", now.UnixMilli(), base)
}

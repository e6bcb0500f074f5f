package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/rpupo63/portfolio/config"
	"github.com/rpupo63/portfolio/errs"
)

// MaxImageSize is the largest accepted project image.
const MaxImageSize = 10 << 20

var allowedImageTypes = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

// ImageStore persists uploaded project images and returns the URL the
// catalog stores in the project's imageUrl.
type ImageStore interface {
	Save(ctx context.Context, filename, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

// New builds the store named by IMAGE_STORE ("disk" or "s3").
func New(ctx context.Context, c map[string]string) (ImageStore, error) {
	switch kind := config.GetString(c, "IMAGE_STORE", "disk"); kind {
	case "disk":
		return NewDiskStore(config.GetString(c, "UPLOADS_DIR", "uploads"))
	case "s3":
		return NewS3Store(ctx, c)
	default:
		return nil, errs.NewInvalidFieldError("IMAGE_STORE", fmt.Sprintf("unknown image store %q", kind))
	}
}

// objectKey names a stored image: a fresh uuid plus an extension derived
// from the content type, falling back to the uploaded filename.
func objectKey(filename, contentType string) (string, error) {
	contentType = strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		types := make([]string, 0, len(allowedImageTypes))
		for t := range allowedImageTypes {
			types = append(types, t)
		}
		return "", errs.NewUnsupportedMediaTypeError(contentType, types)
	}
	if fromName := strings.ToLower(filepath.Ext(filename)); fromName == ".jpeg" || fromName == ext {
		ext = fromName
	}
	return uuid.NewString() + ext, nil
}

// limitedRead reads r fully, rejecting payloads over MaxImageSize.
func limitedRead(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	if len(data) > MaxImageSize {
		return nil, errs.NewMaxBodySizeExceededError(MaxImageSize)
	}
	return data, nil
}

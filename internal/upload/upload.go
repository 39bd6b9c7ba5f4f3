// Package upload stores admin-uploaded images with a hosting provider and
// hands back the public URL.
package upload

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"regexp"

	"github.com/google/uuid"

	"github.com/portfolio/backend/internal/models"
)

var (
	ErrImageNotFound   = errors.New("image not found")
	ErrUnsupportedType = errors.New("invalid image type. Allowed: JPEG, PNG, GIF, WebP")
	// ErrUpstream wraps failures of the hosting provider.
	ErrUpstream = errors.New("image provider unavailable")
)

// MaxFiles is the most images accepted by one multi-upload.
const MaxFiles = 10

// ImageStore hosts images. IDs returned by Upload are accepted by Delete.
type ImageStore interface {
	Upload(ctx context.Context, filename, contentType string, r io.Reader) (*models.ImageUploadResponse, error)
	Delete(ctx context.Context, id string) error
	Name() string
}

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

var idPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.(jpg|png|gif|webp)$`)

// Extension returns the stored file extension for an accepted content type.
func Extension(contentType string) (string, bool) {
	ext, ok := extensions[contentType]
	return ext, ok
}

// ValidID reports whether id has the shape Upload produces.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}

func newID(contentType string) (string, error) {
	ext, ok := Extension(contentType)
	if !ok {
		return "", ErrUnsupportedType
	}
	return uuid.New().String() + ext, nil
}

// Sniff detects the image type from the leading bytes of r. The returned
// reader replays those bytes. Client-declared types are not trusted.
func Sniff(r io.Reader) (string, io.Reader, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", nil, err
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	if _, ok := extensions[contentType]; !ok {
		return "", nil, ErrUnsupportedType
	}
	return contentType, io.MultiReader(bytes.NewReader(head), r), nil
}

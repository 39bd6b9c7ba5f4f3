package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/portfolio/backend/internal/models"
)

// LocalImageStore writes images into a directory served under URLPrefix.
type LocalImageStore struct {
	dir       string
	urlPrefix string
}

func NewLocalImageStore(dir, urlPrefix string) (*LocalImageStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalImageStore{dir: dir, urlPrefix: urlPrefix}, nil
}

func (s *LocalImageStore) Name() string {
	return "local:" + s.dir
}

func (s *LocalImageStore) Dir() string {
	return s.dir
}

func (s *LocalImageStore) Upload(ctx context.Context, filename, contentType string, r io.Reader) (*models.ImageUploadResponse, error) {
	id, err := newID(contentType)
	if err != nil {
		return nil, err
	}

	filePath := filepath.Join(s.dir, id)
	dst, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		os.Remove(filePath)
		return nil, fmt.Errorf("failed to save file: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(filePath)
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	return &models.ImageUploadResponse{
		ID:       id,
		URL:      s.urlPrefix + id,
		Filename: id,
	}, nil
}

func (s *LocalImageStore) Delete(ctx context.Context, id string) error {
	if !ValidID(id) {
		return ErrImageNotFound
	}
	if err := os.Remove(filepath.Join(s.dir, id)); err != nil {
		if os.IsNotExist(err) {
			return ErrImageNotFound
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

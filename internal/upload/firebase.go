package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/portfolio/backend/internal/models"
)

const objectPrefix = "portfolio/"

// FirebaseImageStore hosts images in a Firebase Storage bucket and returns
// token-based download URLs.
type FirebaseImageStore struct {
	bucketName string
	bucket     *gcs.BucketHandle
}

// NewFirebaseImageStore opens bucketName. credentialsJSON may be empty to use
// application default credentials.
func NewFirebaseImageStore(ctx context.Context, bucketName, credentialsJSON string) (*FirebaseImageStore, error) {
	var opts []option.ClientOption
	if strings.TrimSpace(credentialsJSON) != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{StorageBucket: bucketName}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase storage: %w", err)
	}
	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("firebase bucket: %w", err)
	}

	return &FirebaseImageStore{bucketName: bucketName, bucket: bucket}, nil
}

func (s *FirebaseImageStore) Name() string {
	return "firebase:" + s.bucketName
}

func (s *FirebaseImageStore) Upload(ctx context.Context, filename, contentType string, r io.Reader) (*models.ImageUploadResponse, error) {
	id, err := newID(contentType)
	if err != nil {
		return nil, err
	}
	token := uuid.New().String()

	w := s.bucket.Object(objectPrefix + id).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=31536000"
	w.Metadata = map[string]string{
		"firebaseStorageDownloadTokens": token,
		"originalName":                  filename,
	}

	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return nil, fmt.Errorf("%w: write %s: %v", ErrUpstream, id, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("%w: finalize %s: %v", ErrUpstream, id, err)
	}

	return &models.ImageUploadResponse{
		ID:       id,
		URL:      DownloadURL(s.bucketName, objectPrefix+id, token),
		Filename: id,
	}, nil
}

func (s *FirebaseImageStore) Delete(ctx context.Context, id string) error {
	if !ValidID(id) {
		return ErrImageNotFound
	}
	if err := s.bucket.Object(objectPrefix + id).Delete(ctx); err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return ErrImageNotFound
		}
		return fmt.Errorf("%w: delete %s: %v", ErrUpstream, id, err)
	}
	return nil
}

// DownloadURL builds the public Firebase Storage URL of an object.
func DownloadURL(bucket, objectName, token string) string {
	return fmt.Sprintf(
		"https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		bucket,
		url.PathEscape(objectName),
		url.QueryEscape(token),
	)
}

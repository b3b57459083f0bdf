package gcs

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
)

// uploadTimeout bounds a single avatar upload.
const uploadTimeout = 2 * time.Minute

// AvatarStore keeps profile pictures in a Google Cloud Storage bucket.
// It assumes Application Default Credentials are configured.
type AvatarStore struct {
	client    *storage.Client
	bucket    string
	endpoint  string
	projectID string
}

var _ portsrepo.AvatarStore = (*AvatarStore)(nil)

// NewAvatarStore opens a storage client for bucket. endpoint and projectID only shape view URLs.
func NewAvatarStore(ctx context.Context, bucket, endpoint, projectID string) (*AvatarStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return newAvatarStore(client, bucket, endpoint, projectID), nil
}

func newAvatarStore(client *storage.Client, bucket, endpoint, projectID string) *AvatarStore {
	return &AvatarStore{
		client:    client,
		bucket:    bucket,
		endpoint:  strings.TrimRight(endpoint, "/"),
		projectID: projectID,
	}
}

// Upload writes r to the object named fileID.
func (s *AvatarStore) Upload(ctx context.Context, fileID string, r io.Reader, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(fileID).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		// Closing after a failed copy aborts the upload.
		_ = w.Close()
		return "", fmt.Errorf("copy avatar to GCS writer: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize avatar upload: %w", err)
	}
	return fileID, nil
}

// URL returns the public view URL of a stored avatar.
func (s *AvatarStore) URL(fileID string) string {
	return fmt.Sprintf("%s/storage/buckets/%s/files/%s/view?project=%s",
		s.endpoint,
		url.PathEscape(s.bucket),
		url.PathEscape(fileID),
		url.QueryEscape(s.projectID))
}

// Close releases the storage client.
func (s *AvatarStore) Close() error {
	return s.client.Close()
}

package repositories

import (
	"context"
	"io"
)

// AvatarStore is the blob store holding profile pictures.
type AvatarStore interface {
	// Upload stores the file under fileID and returns the stored file ID.
	Upload(ctx context.Context, fileID string, r io.Reader, contentType string) (string, error)

	// URL builds the public view URL for a stored file.
	URL(fileID string) string
}

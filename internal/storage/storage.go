package storage

import "context"

// Transformations applied server-side by the image host.
const (
	// ProfileTransformation crops avatars to a face-centered square.
	ProfileTransformation = "w_300,h_300,c_fill,g_face/q_auto:good"
	// ListingTransformation normalizes listing photos for display.
	ListingTransformation = "w_800,h_600,c_fill/q_auto:good"
)

// UploadOptions directs where and how an image is stored.
type UploadOptions struct {
	Folder         string
	Transformation string
}

// ObjectStorage accepts an image payload and returns a durable URL.
type ObjectStorage interface {
	Upload(ctx context.Context, payload []byte, contentType string, opts UploadOptions) (string, error)
}

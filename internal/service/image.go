package service

import (
	"strings"

	apperrors "github.com/spec-kit/flat-service/pkg/util"
)

// ImageUpload carries an inbound image payload from the multipart boundary.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Validate enforces boundary constraints before any upload attempt: the
// content type must carry an image media-type prefix and the payload must
// fit within maxBytes.
func (img ImageUpload) Validate(maxBytes int64) error {
	if !strings.HasPrefix(img.ContentType, "image/") {
		return apperrors.NewUnsupportedMedia("only image files are allowed")
	}
	if len(img.Data) == 0 {
		return apperrors.NewValidationError("empty image payload", nil)
	}
	if int64(len(img.Data)) > maxBytes {
		return apperrors.NewPayloadTooLarge("file size too large, maximum 5MB allowed")
	}
	return nil
}

package validation

import (
	"fmt"
	"net/http"
	"slices"

	apperrors "go-image-stats/internal/errors"
)

// DefaultImageTypes are the accepted upload formats.
var DefaultImageTypes = []string{"image/jpeg", "image/png", "image/gif"}

// ImageValidator checks uploaded image bytes by content, not by name.
type ImageValidator struct {
	allowedTypes []string
	maxSize      int64
}

// NewImageValidator accepts jpeg, png and gif up to maxSize bytes.
// maxSize <= 0 disables the size check.
func NewImageValidator(maxSize int64) *ImageValidator {
	return &ImageValidator{
		allowedTypes: DefaultImageTypes,
		maxSize:      maxSize,
	}
}

// Validate returns the sniffed content type of data.
func (v *ImageValidator) Validate(data []byte) (string, error) {
	if len(data) == 0 {
		return "", apperrors.NewValidationError("Image is empty", nil)
	}
	if v.maxSize > 0 && int64(len(data)) > v.maxSize {
		return "", apperrors.NewValidationError("Image too large", nil).
			WithDetails(fmt.Sprintf("%d bytes, limit %d", len(data), v.maxSize))
	}

	contentType := http.DetectContentType(data)
	if !slices.Contains(v.allowedTypes, contentType) {
		return "", apperrors.NewValidationError("Unsupported image type", nil).
			WithDetails(fmt.Sprintf("%s; accepted: jpeg, png, gif", contentType))
	}
	return contentType, nil
}

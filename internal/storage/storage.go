// Package storage fetches images from remote locations: plain http(s) URLs
// and Azure Blob Storage.
package storage

import (
	"context"
	"errors"
	"net/url"
	"path"
	"strings"

	"go-image-stats/internal/ocr"
)

var (
	// ErrTooLarge is returned when the image exceeds the size limit.
	ErrTooLarge = errors.New("image too large")

	// ErrInvalidLocation is returned for a location the source cannot address.
	ErrInvalidLocation = errors.New("invalid image location")
)

const azureBlobHostSuffix = ".blob.core.windows.net"

// RoutingSource sends blob storage URLs to the blob source and everything
// else to the http source. Blob is optional.
type RoutingSource struct {
	HTTP ImageSource
	Blob ImageSource
}

func (r *RoutingSource) FetchImage(ctx context.Context, location string) (ocr.Image, error) {
	if r.Blob != nil && IsBlobURL(location) {
		return r.Blob.FetchImage(ctx, location)
	}
	return r.HTTP.FetchImage(ctx, location)
}

// IsBlobURL reports whether location points at Azure Blob Storage.
func IsBlobURL(location string) bool {
	u, err := url.Parse(location)
	if err != nil {
		return false
	}
	return strings.HasSuffix(strings.ToLower(u.Hostname()), azureBlobHostSuffix)
}

func fileName(p string) string {
	base := path.Base(p)
	if base == "." || base == "/" {
		return ""
	}
	return base
}

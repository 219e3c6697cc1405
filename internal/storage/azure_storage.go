package storage

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go-image-stats/internal/ocr"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// blobDownloader is the part of *azblob.Client used here.
type blobDownloader interface {
	DownloadStream(ctx context.Context, containerName string, blobName string, o *azblob.DownloadStreamOptions) (azblob.DownloadStreamResponse, error)
}

// AzureStorage reads images from one storage account.
type AzureStorage struct {
	client  blobDownloader
	maxSize int64
}

// NewAzureStorage authenticates with a shared key.
func NewAzureStorage(accountName string, accountKey string, maxSize int64) (*AzureStorage, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("azure credential: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s%s", accountName, azureBlobHostSuffix),
		credential,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("azure client: %w", err)
	}

	if maxSize <= 0 {
		maxSize = defaultMaxImageSize
	}
	return &AzureStorage{client: client, maxSize: maxSize}, nil
}

// FetchImage downloads https://<account>.blob.core.windows.net/<container>/<blob>.
func (s *AzureStorage) FetchImage(ctx context.Context, blobURL string) (ocr.Image, error) {
	container, blob, err := ParseBlobURL(blobURL)
	if err != nil {
		return ocr.Image{}, err
	}

	resp, err := s.client.DownloadStream(ctx, container, blob, nil)
	if err != nil {
		return ocr.Image{}, fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := readLimited(resp.Body, s.maxSize)
	if err != nil {
		return ocr.Image{}, err
	}

	return ocr.Image{
		Data:        data,
		ContentType: http.DetectContentType(data),
		Name:        fileName(blob),
	}, nil
}

// ParseBlobURL splits a blob URL into container and blob name. The legacy
// form /<container>?blob=<name> is also accepted.
func ParseBlobURL(blobURL string) (container, blob string, err error) {
	u, err := url.Parse(blobURL)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidLocation, err)
	}

	trimmed := strings.Trim(u.Path, "/")
	if q := u.Query().Get("blob"); q != "" {
		container, blob = trimmed, q
	} else if i := strings.IndexByte(trimmed, '/'); i > 0 {
		container, blob = trimmed[:i], trimmed[i+1:]
	}

	if container == "" || blob == "" || strings.Contains(container, "/") {
		return "", "", fmt.Errorf("%w: expected /<container>/<blob> in %q", ErrInvalidLocation, blobURL)
	}
	return container, blob, nil
}

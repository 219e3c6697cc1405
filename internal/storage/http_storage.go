package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go-image-stats/internal/logger"
	"go-image-stats/internal/ocr"

	"github.com/sirupsen/logrus"
)

// ImageSource loads an encoded image from a location such as a URL.
type ImageSource interface {
	FetchImage(ctx context.Context, location string) (ocr.Image, error)
}

const defaultMaxImageSize = 10 << 20

// HTTPImageFetcher downloads images over http(s) with retries.
type HTTPImageFetcher struct {
	client      *http.Client
	maxAttempts int
	maxSize     int64
	retryDelay  time.Duration
}

// HTTPFetcherOption customises an HTTPImageFetcher.
type HTTPFetcherOption func(*HTTPImageFetcher)

// WithMaxSize caps the number of bytes read from the response body.
func WithMaxSize(n int64) HTTPFetcherOption {
	return func(f *HTTPImageFetcher) {
		if n > 0 {
			f.maxSize = n
		}
	}
}

// WithTimeout sets the overall client timeout.
func WithTimeout(d time.Duration) HTTPFetcherOption {
	return func(f *HTTPImageFetcher) {
		if d > 0 {
			f.client.Timeout = d
		}
	}
}

// WithRetryDelay sets the base backoff; attempt n waits n times this.
func WithRetryDelay(d time.Duration) HTTPFetcherOption {
	return func(f *HTTPImageFetcher) {
		if d > 0 {
			f.retryDelay = d
		}
	}
}

// NewHTTPImageFetcher creates an HTTP image fetcher
func NewHTTPImageFetcher(opts ...HTTPFetcherOption) *HTTPImageFetcher {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		MaxResponseHeaderBytes: 4096,
	}

	f := &HTTPImageFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,

			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
		maxAttempts: 3,
		maxSize:     defaultMaxImageSize,
		retryDelay:  time.Second,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchImage downloads imageURL. Transport errors and 5xx answers are
// retried; 4xx answers stop immediately.
func (h *HTTPImageFetcher) FetchImage(ctx context.Context, imageURL string) (ocr.Image, error) {
	var lastErr error

	for attempt := 0; attempt < h.maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ocr.Image{}, ctx.Err()
			case <-time.After(time.Duration(attempt) * h.retryDelay):
			}
		}

		img, retry, err := h.fetchOnce(ctx, imageURL)
		if err == nil {
			return img, nil
		}
		lastErr = err
		if !retry || ctx.Err() != nil {
			break
		}

		logger.WithComponent("http_fetcher").WithFields(logrus.Fields{
			"url":     imageURL,
			"attempt": attempt + 1,
			"error":   err.Error(),
		}).Warn("Image fetch failed, retrying")
	}

	return ocr.Image{}, fmt.Errorf("failed to fetch image after %d attempts: %w", h.maxAttempts, lastErr)
}

func (h *HTTPImageFetcher) fetchOnce(ctx context.Context, imageURL string) (ocr.Image, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return ocr.Image{}, false, fmt.Errorf("invalid URL: %w", err)
	}
	req.Header.Set("Accept", "image/jpeg, image/png, image/gif, */*")
	req.Header.Set("User-Agent", "Go-Image-Stats/1.0")

	resp, err := h.client.Do(req)
	if err != nil {
		return ocr.Image{}, true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return ocr.Image{}, true, fmt.Errorf("server error: status code %d", resp.StatusCode)
	case resp.StatusCode >= 400:
		return ocr.Image{}, false, fmt.Errorf("client error: status code %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return ocr.Image{}, false, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	data, err := readLimited(resp.Body, h.maxSize)
	if err != nil {
		return ocr.Image{}, false, err
	}

	return ocr.Image{
		Data:        data,
		ContentType: http.DetectContentType(data),
		Name:        fileName(req.URL.Path),
	}, false, nil
}

// readLimited reads at most limit bytes and fails if the body is longer.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}
	return data, nil
}

package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"go-image-stats/internal/logger"

	"github.com/sirupsen/logrus"
)

// DefaultEndpoint is the OCR.space parse endpoint.
const DefaultEndpoint = "https://api.ocr.space/parse/image"

const maxResponseBytes = 4 << 20

// OCRSpaceOptions configures the OCR.space client.
type OCRSpaceOptions struct {
	APIKey       string
	Endpoint     string
	MaxAttempts  int
	Timeout      time.Duration
	MaxImageSize int64

	// RetryDelay is multiplied by the attempt number between retries.
	RetryDelay time.Duration

	// HTTPClient replaces the default client, mainly for tests.
	HTTPClient *http.Client
}

// OCRSpaceClient calls the OCR.space web API.
type OCRSpaceClient struct {
	apiKey       string
	endpoint     string
	maxAttempts  int
	maxImageSize int64
	retryDelay   time.Duration
	client       *http.Client
}

// NewOCRSpaceClient validates opts and builds a client.
func NewOCRSpaceClient(opts OCRSpaceOptions) (*OCRSpaceClient, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, newError("ocrspace.New", ErrMissingAPIKey, "")
	}
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = time.Second
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:          10,
				MaxIdleConnsPerHost:   2,
				IdleConnTimeout:       30 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
			Timeout: opts.Timeout,
		}
	}

	return &OCRSpaceClient{
		apiKey:       opts.APIKey,
		endpoint:     opts.Endpoint,
		maxAttempts:  opts.MaxAttempts,
		maxImageSize: opts.MaxImageSize,
		retryDelay:   opts.RetryDelay,
		client:       client,
	}, nil
}

func (c *OCRSpaceClient) Name() string {
	return "ocrspace"
}

type ocrSpaceResponse struct {
	ParsedResults []struct {
		ParsedText        string          `json:"ParsedText"`
		FileParseExitCode json.RawMessage `json:"FileParseExitCode"`
		ErrorMessage      string          `json:"ErrorMessage"`
	} `json:"ParsedResults"`
	OCRExitCode           json.RawMessage `json:"OCRExitCode"`
	IsErroredOnProcessing bool            `json:"IsErroredOnProcessing"`
	ErrorMessage          json.RawMessage `json:"ErrorMessage"`
	ErrorDetails          string          `json:"ErrorDetails"`
}

// ExtractText uploads img and returns ParsedResults[0].ParsedText.
// Connection failures and 5xx answers are retried; 4xx answers and
// processing errors reported in the payload are not.
func (c *OCRSpaceClient) ExtractText(ctx context.Context, img Image, language string) (string, error) {
	const op = "ocrspace.ExtractText"

	if len(img.Data) == 0 {
		return "", newError(op, ErrEmptyImage, "")
	}
	if c.maxImageSize > 0 && int64(len(img.Data)) > c.maxImageSize {
		return "", newError(op, ErrImageTooLarge, fmt.Sprintf("%d bytes, limit %d", len(img.Data), c.maxImageSize))
	}
	if language == "" {
		language = DefaultLanguage
	}

	body, contentType, err := c.buildForm(img, language)
	if err != nil {
		return "", newError(op, err, "building multipart form")
	}

	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			if err := sleepContext(ctx, time.Duration(attempt)*c.retryDelay); err != nil {
				return "", newError(op, err, "")
			}
		}

		payload, retry, err := c.post(ctx, body, contentType)
		if err == nil {
			return decodeParsedText(op, payload)
		}
		lastErr = err

		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", newError(op, ctxErr, "")
		}
		if !retry {
			break
		}

		logger.WithComponent("ocrspace").WithFields(logrus.Fields{
			"attempt": attempt + 1,
			"error":   err.Error(),
		}).Warn("OCR request failed, retrying")
	}

	return "", lastErr
}

func (c *OCRSpaceClient) buildForm(img Image, language string) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("apikey", c.apiKey); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("language", language); err != nil {
		return nil, "", err
	}
	if ft := fileType(img.ContentType); ft != "" {
		if err := w.WriteField("filetype", ft); err != nil {
			return nil, "", err
		}
	}

	name := img.Name
	if name == "" {
		name = "image" + extension(img.ContentType)
	}
	part, err := w.CreateFormFile("file", name)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(img.Data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// post sends one attempt. retry reports whether a failure is transient.
func (c *OCRSpaceClient) post(ctx context.Context, body []byte, contentType string) ([]byte, bool, error) {
	const op = "ocrspace.post"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, false, newError(op, ErrNetwork, err.Error())
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Go-Image-Stats/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, true, newError(op, ErrNetwork, err.Error())
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, true, newError(op, ErrNetwork, fmt.Sprintf("reading response: %v", err))
	}

	switch {
	case resp.StatusCode >= 500:
		return nil, true, newError(op, ErrService, fmt.Sprintf("server error: status code %d", resp.StatusCode))
	case resp.StatusCode >= 400:
		return nil, false, newError(op, ErrService, fmt.Sprintf("client error: status code %d: %s", resp.StatusCode, snippet(payload)))
	case resp.StatusCode != http.StatusOK:
		return nil, false, newError(op, ErrService, fmt.Sprintf("unexpected status code %d", resp.StatusCode))
	}
	return payload, false, nil
}

func decodeParsedText(op string, payload []byte) (string, error) {
	var res ocrSpaceResponse
	if err := json.Unmarshal(payload, &res); err != nil {
		// OCR.space answers some failures with a bare JSON string.
		var msg string
		if json.Unmarshal(payload, &msg) == nil {
			return "", newError(op, ErrService, msg)
		}
		return "", newError(op, ErrMalformedResponse, err.Error())
	}

	if res.IsErroredOnProcessing {
		details := errorMessage(res.ErrorMessage)
		if details == "" {
			details = res.ErrorDetails
		}
		return "", newError(op, ErrService, details)
	}
	if len(res.ParsedResults) == 0 {
		return "", newError(op, ErrMalformedResponse, "no ParsedResults")
	}
	return res.ParsedResults[0].ParsedText, nil
}

// errorMessage flattens ErrorMessage, which the service sends either as a
// string or as a list of strings.
func errorMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, "; ")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func fileType(contentType string) string {
	switch contentType {
	case "image/png":
		return "PNG"
	case "image/jpeg":
		return "JPG"
	case "image/gif":
		return "GIF"
	}
	return ""
}

func extension(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	}
	return ""
}

func snippet(b []byte) string {
	const limit = 200
	s := strings.TrimSpace(string(b))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// IsTimeout reports whether err came from a deadline rather than the service.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

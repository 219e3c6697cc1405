package ocr

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngImage = Image{Data: []byte("\x89PNG\r\n\x1a\nfake"), ContentType: "image/png"}

func newTestClient(t *testing.T, url string) *OCRSpaceClient {
	t.Helper()
	c, err := NewOCRSpaceClient(OCRSpaceOptions{
		APIKey:      "test-key",
		Endpoint:    url,
		MaxAttempts: 3,
		RetryDelay:  time.Millisecond,
	})
	require.NoError(t, err)
	return c
}

func TestOCRSpaceExtractText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		assert.Equal(t, "test-key", r.FormValue("apikey"))
		assert.Equal(t, "eng", r.FormValue("language"))
		assert.Equal(t, "PNG", r.FormValue("filetype"))

		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, pngImage.Data, data)
		assert.Equal(t, "image.png", hdr.Filename)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"ParsedResults":[{"ParsedText":"12 3.5\r\n7","FileParseExitCode":1,"ErrorMessage":""}],"OCRExitCode":1,"IsErroredOnProcessing":false}`)
	}))
	defer server.Close()

	text, err := newTestClient(t, server.URL).ExtractText(context.Background(), pngImage, "")
	require.NoError(t, err)
	assert.Equal(t, "12 3.5\r\n7", text)
}

func TestOCRSpaceFailures(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantErr   error
		wantCalls int32
	}{
		{
			name:      "processing error with message list",
			status:    http.StatusOK,
			body:      `{"OCRExitCode":3,"IsErroredOnProcessing":true,"ErrorMessage":["Unable to recognize the file type"]}`,
			wantErr:   ErrService,
			wantCalls: 1,
		},
		{
			name:      "bare string payload",
			status:    http.StatusOK,
			body:      `"The API key is invalid"`,
			wantErr:   ErrService,
			wantCalls: 1,
		},
		{
			name:      "missing parsed results",
			status:    http.StatusOK,
			body:      `{"ParsedResults":[],"IsErroredOnProcessing":false}`,
			wantErr:   ErrMalformedResponse,
			wantCalls: 1,
		},
		{
			name:      "not json",
			status:    http.StatusOK,
			body:      `<html>oops</html>`,
			wantErr:   ErrMalformedResponse,
			wantCalls: 1,
		},
		{
			name:      "client error is not retried",
			status:    http.StatusForbidden,
			body:      `forbidden`,
			wantErr:   ErrService,
			wantCalls: 1,
		},
		{
			name:      "server error retried until attempts run out",
			status:    http.StatusBadGateway,
			body:      `bad gateway`,
			wantErr:   ErrService,
			wantCalls: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			_, err := newTestClient(t, server.URL).ExtractText(context.Background(), pngImage, "eng")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(&calls))
		})
	}
}

func TestOCRSpaceRetriesThenSucceeds(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"ParsedResults":[{"ParsedText":"42"}]}`)
	}))
	defer server.Close()

	text, err := newTestClient(t, server.URL).ExtractText(context.Background(), pngImage, "eng")
	require.NoError(t, err)
	assert.Equal(t, "42", text)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestOCRSpaceUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestClient(t, url).ExtractText(context.Background(), pngImage, "eng")
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestOCRSpaceContextDeadline(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newTestClient(t, server.URL).ExtractText(ctx, pngImage, "eng")
	require.Error(t, err)
	assert.True(t, IsTimeout(err), "got %v", err)
}

func TestOCRSpaceRejectsBadImages(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	c, err := NewOCRSpaceClient(OCRSpaceOptions{APIKey: "k", Endpoint: server.URL, MaxImageSize: 4})
	require.NoError(t, err)

	_, err = c.ExtractText(context.Background(), Image{}, "eng")
	assert.ErrorIs(t, err, ErrEmptyImage)

	_, err = c.ExtractText(context.Background(), pngImage, "eng")
	assert.ErrorIs(t, err, ErrImageTooLarge)

	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestNewOCRSpaceClientRequiresKey(t *testing.T) {
	_, err := NewOCRSpaceClient(OCRSpaceOptions{APIKey: "  "})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "a; b", errorMessage([]byte(`["a","b"]`)))
	assert.Equal(t, "single", errorMessage([]byte(`"single"`)))
	assert.Equal(t, "", errorMessage(nil))
}

package config

import (
	"testing"
	"time"

	apperrors "go-image-stats/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	t.Setenv("OCR_API_KEY", "k")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.ServerAddress())
	assert.Equal(t, EngineOCRSpace, cfg.OCREngine)
	assert.Equal(t, "https://api.ocr.space/parse/image", cfg.OCREndpoint)
	assert.Equal(t, "eng", cfg.OCRLanguage)
	assert.Equal(t, 3, cfg.OCRMaxAttempts)
	assert.Equal(t, 45*time.Second, cfg.OCRTimeout)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxRequestBodySize)
	assert.Equal(t, 3.0, cfg.HistogramBinWidth)
	assert.Equal(t, SourceHTTP, cfg.ImageSource)
	assert.False(t, cfg.AzureEnabled())
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("HOST", " 127.0.0.1 ")
	t.Setenv("PORT", "9090")
	t.Setenv("OCR_ENGINE", "Tesseract")
	t.Setenv("OCR_TIMEOUT", "5s")
	t.Setenv("OCR_LANGUAGE", "deu")
	t.Setenv("CHART_HISTOGRAM_BIN_WIDTH", "2.5")
	t.Setenv("IMAGE_SOURCE", "azure")
	t.Setenv("AZURE_STORAGE_ACCOUNT", "acct")
	t.Setenv("AZURE_STORAGE_KEY", "c2VjcmV0")
	t.Setenv("REQUEST_TIMEOUT", "not-a-duration")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.ServerAddress())
	assert.Equal(t, EngineTesseract, cfg.OCREngine)
	assert.Equal(t, 5*time.Second, cfg.OCRTimeout)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "deu", cfg.OCRLanguage)
	assert.Equal(t, 2.5, cfg.HistogramBinWidth)
	assert.True(t, cfg.AzureEnabled())
}

func TestLoadFromEnvRejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing api key", map[string]string{}, "OCR_API_KEY"},
		{"bad port", map[string]string{"OCR_API_KEY": "k", "PORT": "70000"}, "invalid PORT"},
		{"zero body size", map[string]string{"OCR_API_KEY": "k", "MAX_REQUEST_BODY_SIZE": "0"}, "MAX_REQUEST_BODY_SIZE"},
		{"unknown engine", map[string]string{"OCR_ENGINE": "abbyy"}, "unsupported OCR_ENGINE"},
		{"azure without credentials", map[string]string{"OCR_API_KEY": "k", "IMAGE_SOURCE": "azure"}, "AZURE_STORAGE_ACCOUNT"},
		{"unknown source", map[string]string{"OCR_API_KEY": "k", "IMAGE_SOURCE": "ftp"}, "unsupported IMAGE_SOURCE"},
		{"negative bin width", map[string]string{"OCR_API_KEY": "k", "CHART_HISTOGRAM_BIN_WIDTH": "-1"}, "CHART_HISTOGRAM_BIN_WIDTH"},
		{"zero attempts", map[string]string{"OCR_API_KEY": "k", "OCR_MAX_ATTEMPTS": "0"}, "OCR_MAX_ATTEMPTS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("OCR_API_KEY", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := LoadFromEnv()
			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConfig))
		})
	}
}

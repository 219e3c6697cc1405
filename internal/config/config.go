package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "go-image-stats/internal/errors"
	"go-image-stats/internal/ocr"
)

// OCR engines and image sources selectable through the environment.
const (
	EngineOCRSpace  = "ocrspace"
	EngineTesseract = "tesseract"

	SourceHTTP  = "http"
	SourceAzure = "azure"
)

type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	OCRTimeout         time.Duration
	ImageFetchTimeout  time.Duration
	MaxRequestBodySize int64
	MaxImageSize       int64

	OCREngine      string
	OCRAPIKey      string
	OCREndpoint    string
	OCRLanguage    string
	OCRMaxAttempts int

	ImageSource         string
	AzureStorageAccount string
	AzureStorageKey     string

	HistogramBinWidth float64

	GinMode   string
	LogLevel  string
	LogFormat string
}

func (c *Config) ServerAddress() string {
	// Trim any whitespace from host and port
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// AzureEnabled reports whether blob URLs can be fetched.
func (c *Config) AzureEnabled() bool {
	return c.AzureStorageAccount != "" && c.AzureStorageKey != ""
}

func LoadFromEnv() (*Config, error) {
	// Set defaults
	cfg := &Config{
		Host:               getEnvOrDefault("HOST", "0.0.0.0"),
		Port:               getEnvOrDefault("PORT", "8080"),
		RequestTimeout:     parseDurationOrDefault("REQUEST_TIMEOUT", 60*time.Second),
		OCRTimeout:         parseDurationOrDefault("OCR_TIMEOUT", 45*time.Second),
		ImageFetchTimeout:  parseDurationOrDefault("IMAGE_FETCH_TIMEOUT", 15*time.Second),
		MaxRequestBodySize: parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 10*1024*1024), // 10MB
		MaxImageSize:       parseIntOrDefault("MAX_IMAGE_SIZE", 5*1024*1024),         // 5MB

		OCREngine:      strings.ToLower(getEnvOrDefault("OCR_ENGINE", EngineOCRSpace)),
		OCRAPIKey:      strings.TrimSpace(os.Getenv("OCR_API_KEY")),
		OCREndpoint:    getEnvOrDefault("OCR_ENDPOINT", ocr.DefaultEndpoint),
		OCRLanguage:    getEnvOrDefault("OCR_LANGUAGE", ocr.DefaultLanguage),
		OCRMaxAttempts: int(parseIntOrDefault("OCR_MAX_ATTEMPTS", 3)),

		ImageSource:         strings.ToLower(getEnvOrDefault("IMAGE_SOURCE", SourceHTTP)),
		AzureStorageAccount: strings.TrimSpace(os.Getenv("AZURE_STORAGE_ACCOUNT")),
		AzureStorageKey:     strings.TrimSpace(os.Getenv("AZURE_STORAGE_KEY")),

		HistogramBinWidth: parseFloatOrDefault("CHART_HISTOGRAM_BIN_WIDTH", 3),

		GinMode:   os.Getenv("GIN_MODE"),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first setting that would keep the service from
// working. A missing OCR.space key is caught here rather than on the first
// extraction.
func (c *Config) Validate() error {
	// Validate port is numeric and in range
	p, err := strconv.Atoi(strings.TrimSpace(c.Port))
	if err != nil || p < 1 || p > 65535 {
		return apperrors.NewConfigError(fmt.Sprintf("invalid PORT: %q", c.Port), err)
	}
	if c.MaxRequestBodySize <= 0 {
		return apperrors.NewConfigError(fmt.Sprintf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", c.MaxRequestBodySize), nil)
	}
	if c.MaxImageSize <= 0 {
		return apperrors.NewConfigError(fmt.Sprintf("MAX_IMAGE_SIZE must be > 0 (got %d)", c.MaxImageSize), nil)
	}
	if c.RequestTimeout <= 0 || c.OCRTimeout <= 0 || c.ImageFetchTimeout <= 0 {
		return apperrors.NewConfigError(fmt.Sprintf("timeouts must be > 0 (got request=%s, ocr=%s, fetch=%s)",
			c.RequestTimeout, c.OCRTimeout, c.ImageFetchTimeout), nil)
	}
	if c.OCRMaxAttempts < 1 {
		return apperrors.NewConfigError(fmt.Sprintf("OCR_MAX_ATTEMPTS must be >= 1 (got %d)", c.OCRMaxAttempts), nil)
	}
	if c.HistogramBinWidth <= 0 {
		return apperrors.NewConfigError(fmt.Sprintf("CHART_HISTOGRAM_BIN_WIDTH must be > 0 (got %v)", c.HistogramBinWidth), nil)
	}

	switch c.OCREngine {
	case EngineOCRSpace:
		if c.OCRAPIKey == "" {
			return apperrors.NewConfigError("OCR_API_KEY is required when OCR_ENGINE=ocrspace", nil)
		}
	case EngineTesseract:
	default:
		return apperrors.NewConfigError(fmt.Sprintf("unsupported OCR_ENGINE: %q", c.OCREngine), nil)
	}

	switch c.ImageSource {
	case SourceHTTP:
	case SourceAzure:
		if !c.AzureEnabled() {
			return apperrors.NewConfigError("AZURE_STORAGE_ACCOUNT and AZURE_STORAGE_KEY are required when IMAGE_SOURCE=azure", nil)
		}
	default:
		return apperrors.NewConfigError(fmt.Sprintf("unsupported IMAGE_SOURCE: %q", c.ImageSource), nil)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return f
		}
	}
	return defaultValue
}

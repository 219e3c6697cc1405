package factory

import (
	"fmt"

	"go-image-stats/internal/config"
	"go-image-stats/internal/ocr"
	"go-image-stats/internal/storage"
)

// EngineType selects an OCR engine implementation
type EngineType string

const (
	// OCRSpaceEngine calls the OCR.space web API
	OCRSpaceEngine EngineType = config.EngineOCRSpace
	// TesseractEngine runs a local tesseract (requires the tesseract build tag)
	TesseractEngine EngineType = config.EngineTesseract
)

// SourceType selects where images given by URL are fetched from
type SourceType string

const (
	// HTTPSource fetches over plain http(s)
	HTTPSource SourceType = config.SourceHTTP
	// AzureSource adds Azure Blob Storage for *.blob.core.windows.net URLs
	AzureSource SourceType = config.SourceAzure
)

// EngineFactory creates OCR engines
type EngineFactory interface {
	CreateEngine(engineType EngineType) (ocr.Engine, error)
}

// SourceFactory creates image sources
type SourceFactory interface {
	CreateSource(sourceType SourceType) (storage.ImageSource, error)
}

type engineFactory struct {
	cfg *config.Config
}

// NewEngineFactory creates an engine factory reading its settings from cfg
func NewEngineFactory(cfg *config.Config) EngineFactory {
	return &engineFactory{cfg: cfg}
}

// CreateEngine creates an engine based on the specified type
func (f *engineFactory) CreateEngine(engineType EngineType) (ocr.Engine, error) {
	switch engineType {
	case OCRSpaceEngine:
		client, err := ocr.NewOCRSpaceClient(ocr.OCRSpaceOptions{
			APIKey:       f.cfg.OCRAPIKey,
			Endpoint:     f.cfg.OCREndpoint,
			MaxAttempts:  f.cfg.OCRMaxAttempts,
			Timeout:      f.cfg.OCRTimeout,
			MaxImageSize: f.cfg.MaxImageSize,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	case TesseractEngine:
		engine, err := ocr.NewTesseractEngine()
		if err != nil {
			return nil, err
		}
		return engine, nil
	default:
		return nil, fmt.Errorf("unsupported OCR engine: %s", engineType)
	}
}

type sourceFactory struct {
	cfg *config.Config
}

// NewSourceFactory creates a source factory reading its settings from cfg
func NewSourceFactory(cfg *config.Config) SourceFactory {
	return &sourceFactory{cfg: cfg}
}

// CreateSource creates an image source based on the specified type. Blob
// URLs are routed to Azure whenever credentials are configured, even for
// the http source type.
func (f *sourceFactory) CreateSource(sourceType SourceType) (storage.ImageSource, error) {
	httpSource := storage.NewHTTPImageFetcher(
		storage.WithMaxSize(f.cfg.MaxImageSize),
		storage.WithTimeout(f.cfg.ImageFetchTimeout),
	)

	switch sourceType {
	case HTTPSource:
		if !f.cfg.AzureEnabled() {
			return httpSource, nil
		}
	case AzureSource:
		if !f.cfg.AzureEnabled() {
			return nil, fmt.Errorf("azure source needs AZURE_STORAGE_ACCOUNT and AZURE_STORAGE_KEY")
		}
	default:
		return nil, fmt.Errorf("unsupported image source: %s", sourceType)
	}

	blob, err := storage.NewAzureStorage(f.cfg.AzureStorageAccount, f.cfg.AzureStorageKey, f.cfg.MaxImageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create azure source: %w", err)
	}
	return &storage.RoutingSource{HTTP: httpSource, Blob: blob}, nil
}

// ComponentFactory combines all factories
type ComponentFactory struct {
	EngineFactory EngineFactory
	SourceFactory SourceFactory
}

// NewComponentFactory creates a new component factory
func NewComponentFactory(cfg *config.Config) *ComponentFactory {
	return &ComponentFactory{
		EngineFactory: NewEngineFactory(cfg),
		SourceFactory: NewSourceFactory(cfg),
	}
}

package container

import (
	"fmt"
	"net/http"

	"go-image-stats/internal/chart"
	"go-image-stats/internal/config"
	"go-image-stats/internal/factory"
	"go-image-stats/internal/logger"
	"go-image-stats/internal/observer"
	"go-image-stats/internal/ocr"
	"go-image-stats/internal/session"
	"go-image-stats/internal/storage"
	"go-image-stats/internal/transport"
	"go-image-stats/pkg/validation"
)

// Container holds all application dependencies
type Container struct {
	config     *config.Config
	engine     ocr.Engine
	source     storage.ImageSource
	publisher  *observer.EventPublisher
	metrics    *observer.MetricsObserver
	charts     *chart.Store
	controller *session.Controller
	handler    http.Handler
}

// NewContainer builds the dependency graph from cfg
func NewContainer(cfg *config.Config) (*Container, error) {
	components := factory.NewComponentFactory(cfg)

	engine, err := components.EngineFactory.CreateEngine(factory.EngineType(cfg.OCREngine))
	if err != nil {
		return nil, fmt.Errorf("failed to create OCR engine: %w", err)
	}

	source, err := components.SourceFactory.CreateSource(factory.SourceType(cfg.ImageSource))
	if err != nil {
		return nil, fmt.Errorf("failed to create image source: %w", err)
	}

	publisher := observer.NewEventPublisher()
	metrics := observer.NewMetricsObserver()
	charts := chart.NewStore()

	controller := session.New(engine, publisher, session.Options{
		Language:   cfg.OCRLanguage,
		OCRTimeout: cfg.OCRTimeout,
		Validator:  validation.NewImageValidator(cfg.MaxImageSize),
	})
	controller.Subscribe(observer.NewLoggingObserver(logger.Logger))
	controller.Subscribe(metrics)
	controller.Subscribe(observer.NewChartObserver(charts, cfg.HistogramBinWidth, logger.Logger))

	handler := transport.NewHandler(transport.Dependencies{
		Controller:   controller,
		Source:       source,
		URLValidator: validation.NewURLValidator(),
		Charts:       charts,
		Metrics:      metrics,
		EngineName:   engine.Name(),
		Config:       cfg,
	})

	logger.WithField("engine", engine.Name()).
		WithField("image_source", cfg.ImageSource).
		WithField("azure", cfg.AzureEnabled()).
		Info("Container initialised")

	return &Container{
		config:     cfg,
		engine:     engine,
		source:     source,
		publisher:  publisher,
		metrics:    metrics,
		charts:     charts,
		controller: controller,
		handler:    handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Controller returns the session controller
func (c *Container) Controller() *session.Controller {
	return c.controller
}

// Close cancels a running extraction and waits for observers to finish
func (c *Container) Close() {
	c.controller.Close()
	c.publisher.Wait()
}

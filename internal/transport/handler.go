package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"go-image-stats/internal/chart"
	"go-image-stats/internal/config"
	apperrors "go-image-stats/internal/errors"
	"go-image-stats/internal/format"
	"go-image-stats/internal/logger"
	"go-image-stats/internal/numbers"
	"go-image-stats/internal/observer"
	"go-image-stats/internal/ocr"
	"go-image-stats/internal/session"
	"go-image-stats/internal/stats"
	"go-image-stats/internal/storage"
	"go-image-stats/pkg/models"
	"go-image-stats/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const version = "1.0.0"

// Dependencies are the collaborators the HTTP layer drives.
type Dependencies struct {
	Controller   *session.Controller
	Source       storage.ImageSource
	URLValidator *validation.URLValidator
	Charts       *chart.Store
	Metrics      *observer.MetricsObserver
	EngineName   string
	Config       *config.Config
}

type handler struct {
	ctrl         *session.Controller
	source       storage.ImageSource
	urlValidator *validation.URLValidator
	charts       *chart.Store
	metrics      *observer.MetricsObserver
	engineName   string
	cfg          *config.Config
}

func NewHandler(deps Dependencies) http.Handler {
	h := &handler{
		ctrl:         deps.Controller,
		source:       deps.Source,
		urlValidator: deps.URLValidator,
		charts:       deps.Charts,
		metrics:      deps.Metrics,
		engineName:   deps.EngineName,
		cfg:          deps.Config,
	}
	if h.urlValidator == nil {
		h.urlValidator = validation.NewURLValidator()
	}

	r := gin.New()

	// Add middleware
	r.Use(
		gin.Recovery(),
		requestID(),
		requestLogger(),
		requestSizeLimiter(h.cfg.MaxRequestBodySize),
		errorHandler(),
	)

	// Configure routes
	r.GET("/health", h.healthCheck)
	r.GET("/metrics", h.getMetrics)

	api := r.Group("/api")
	{
		api.GET("/session", h.getSession)

		api.POST("/image", h.uploadImage)
		api.POST("/image/url", h.imageFromURL)
		api.POST("/extract", h.extract)

		api.POST("/edit", h.beginEdit)
		api.PUT("/edit", h.confirmEdit)
		api.DELETE("/edit", h.cancelEdit)
		api.PUT("/numbers", h.replaceNumbers)

		api.POST("/display/array", h.toggleArray)
		api.POST("/display/linebreaks", h.toggleLineBreaks)
		api.PUT("/display", h.setDisplayMode)

		api.GET("/statistics", h.sessionStatistics)
		api.POST("/statistics", h.computeStatistics)
		api.POST("/format", h.formatNumbers)
		api.GET("/chart", h.latestChart)
	}

	return r
}

func (h *handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.cfg.RequestTimeout)
}

func (h *handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:  "available",
		Version: version,
		Engine:  h.engineName,
		Time:    time.Now().UTC(),
	})
}

func (h *handler) getMetrics(c *gin.Context) {
	if h.metrics == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, h.metrics.GetMetrics())
}

func (h *handler) getSession(c *gin.Context) {
	c.JSON(http.StatusOK, h.ctrl.Snapshot())
}

func (h *handler) uploadImage(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		respondAppError(c, apperrors.NewValidationError("Multipart field \"file\" is required", err))
		return
	}

	f, err := fh.Open()
	if err != nil {
		respondAppError(c, apperrors.NewValidationError("Uploaded file cannot be read", err))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		respondAppError(c, apperrors.NewValidationError("Uploaded file cannot be read", err))
		return
	}

	snap, err := h.ctrl.SelectImage(c.Request.Context(), ocr.Image{Data: data, Name: fh.Filename})
	if err != nil {
		respondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *handler) imageFromURL(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	var req models.ImageURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request format", err)
		return
	}

	// Validate image URL
	if err := h.urlValidator.ValidateImageURL(req.URL); err != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"url": req.URL,
			"ip":  c.ClientIP(),
		}).Error("Invalid image URL")
		respondAppError(c, err)
		return
	}

	logger.WithField("url", req.URL).Debug("Fetching image")

	img, err := h.source.FetchImage(ctx, req.URL)
	if err != nil {
		fetchErr := classifyFetchError(err)
		logger.WithError(fetchErr).WithFields(logrus.Fields{
			"url": req.URL,
			"ip":  c.ClientIP(),
		}).Error("Failed to fetch image")
		respondAppError(c, fetchErr)
		return
	}

	snap, err := h.ctrl.SelectImage(ctx, img)
	if err != nil {
		respondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *handler) extract(c *gin.Context) {
	startTime := time.Now()
	ctx, cancel := h.requestContext(c)
	defer cancel()

	var req models.ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, http.StatusBadRequest, "invalid request format", err)
		return
	}

	snap, err := h.ctrl.Extract(ctx, req.ExpectedText)
	if err != nil && !apperrors.IsType(err, apperrors.ErrorTypeExtractionEmpty) {
		respondAppError(c, err)
		return
	}

	logger.WithFields(logrus.Fields{
		"request_id":         c.GetString(requestIDKey),
		"numbers":            snap.Numbers.Len(),
		"revision":           snap.Revision,
		"processing_time_ms": time.Since(startTime).Milliseconds(),
	}).Info("Extraction completed")

	c.JSON(http.StatusOK, snap)
}

func (h *handler) beginEdit(c *gin.Context) {
	text, err := h.ctrl.BeginEdit()
	if err != nil {
		respondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.EditResponse{Text: text})
}

func (h *handler) confirmEdit(c *gin.Context) {
	var req models.EditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request format", err)
		return
	}

	snap, err := h.ctrl.ConfirmEdit(c.Request.Context(), req.Text)
	if err != nil {
		respondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *handler) cancelEdit(c *gin.Context) {
	c.JSON(http.StatusOK, h.ctrl.CancelEdit())
}

func (h *handler) replaceNumbers(c *gin.Context) {
	var req models.EditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request format", err)
		return
	}

	snap, err := h.ctrl.ReplaceNumbers(c.Request.Context(), req.Text)
	if err != nil {
		respondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *handler) toggleArray(c *gin.Context) {
	c.JSON(http.StatusOK, h.ctrl.ToggleArray(c.Request.Context()))
}

func (h *handler) toggleLineBreaks(c *gin.Context) {
	c.JSON(http.StatusOK, h.ctrl.ToggleLineBreaks(c.Request.Context()))
}

func (h *handler) setDisplayMode(c *gin.Context) {
	var req models.DisplayModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request format", err)
		return
	}

	mode, err := format.ParseDisplayMode(req.Mode)
	if err != nil {
		respondAppError(c, apperrors.NewValidationError("Unknown display mode", err).WithDetails(req.Mode))
		return
	}
	c.JSON(http.StatusOK, h.ctrl.SetDisplayMode(c.Request.Context(), mode))
}

func (h *handler) sessionStatistics(c *gin.Context) {
	c.JSON(http.StatusOK, stats.Compute(h.ctrl.Numbers()))
}

func (h *handler) computeStatistics(c *gin.Context) {
	var req models.StatisticsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request format", err)
		return
	}
	c.JSON(http.StatusOK, stats.Compute(toSequence(req.Numbers)))
}

func (h *handler) formatNumbers(c *gin.Context) {
	var req models.FormatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request format", err)
		return
	}

	mode := format.DefaultMode
	if req.Mode != "" {
		var err error
		if mode, err = format.ParseDisplayMode(req.Mode); err != nil {
			respondAppError(c, apperrors.NewValidationError("Unknown display mode", err).WithDetails(req.Mode))
			return
		}
	}

	c.JSON(http.StatusOK, models.FormatResponse{
		Text: format.Format(req.Raw, toSequence(req.Numbers), mode),
		Mode: mode.String(),
	})
}

func (h *handler) latestChart(c *gin.Context) {
	if h.charts == nil {
		respondAppError(c, apperrors.NewNotFoundError("No chart has been rendered", nil))
		return
	}
	rendered, ok := h.charts.Latest()
	if !ok {
		respondAppError(c, apperrors.NewNotFoundError("No chart has been rendered", nil))
		return
	}
	c.JSON(http.StatusOK, rendered)
}

func toSequence(values []float64) numbers.Sequence {
	if values == nil {
		return numbers.Sequence{}
	}
	return numbers.Sequence(values)
}

func classifyFetchError(err error) *apperrors.AppError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewTimeoutError("Image fetch timeout", err)
	case errors.Is(err, storage.ErrTooLarge):
		return apperrors.NewValidationError("Image too large", err)
	case errors.Is(err, storage.ErrInvalidLocation):
		return apperrors.NewValidationError("Invalid image location", err)
	default:
		return apperrors.NewNetworkError("Failed to fetch image", err)
	}
}

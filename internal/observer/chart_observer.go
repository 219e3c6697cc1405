package observer

import (
	"context"
	"sync"

	"go-image-stats/internal/chart"

	"github.com/sirupsen/logrus"
)

// ChartObserver redraws the chart whenever the sequence changes. Empty
// sequences leave the previous chart in place. Failures are logged only.
type ChartObserver struct {
	renderer chart.Renderer
	binWidth float64
	logger   *logrus.Logger

	mu   sync.Mutex
	last uint64
}

func NewChartObserver(renderer chart.Renderer, binWidth float64, logger *logrus.Logger) *ChartObserver {
	return &ChartObserver{
		renderer: renderer,
		binWidth: binWidth,
		logger:   logger,
	}
}

func (o *ChartObserver) OnEvent(ctx context.Context, event SessionEvent) {
	if event.Type != ExtractionCompleted && event.Type != NumbersEdited {
		return
	}
	if len(event.Numbers) == 0 {
		return
	}

	spec, err := chart.Build(event.Numbers, o.binWidth)
	if err != nil {
		o.logger.WithError(err).WithField("revision", event.Revision).Warn("Chart not rendered")
		return
	}

	// Notifications run concurrently; never let an older revision win.
	o.mu.Lock()
	defer o.mu.Unlock()
	if event.Revision < o.last {
		return
	}
	o.last = event.Revision

	if err := o.renderer.Render(ctx, spec); err != nil {
		o.logger.WithError(err).WithField("revision", event.Revision).Error("Chart rendering failed")
	}
}

func (o *ChartObserver) GetObserverName() string {
	return "chart_observer"
}

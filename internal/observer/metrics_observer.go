package observer

import (
	"context"
	"sync"
	"time"
)

// MetricsObserver counts session events
type MetricsObserver struct {
	mu                    sync.RWMutex
	imagesSelected        int64
	totalExtractions      int64
	successfulExtractions int64
	failedExtractions     int64
	supersededExtractions int64
	emptyExtractions      int64
	edits                 int64
	rejectedEdits         int64
	totalExtractionTime   time.Duration
	numbersExtracted      int64
}

func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{}
}

func (o *MetricsObserver) OnEvent(ctx context.Context, event SessionEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.Type {
	case ImageSelected:
		o.imagesSelected++
	case ExtractionStarted:
		o.totalExtractions++
	case ExtractionCompleted:
		o.successfulExtractions++
		o.totalExtractionTime += event.Duration
		o.numbersExtracted += int64(len(event.Numbers))
		if len(event.Numbers) == 0 {
			o.emptyExtractions++
		}
	case ExtractionFailed:
		o.failedExtractions++
	case ExtractionSuperseded:
		o.supersededExtractions++
	case NumbersEdited:
		o.edits++
	case EditRejected:
		o.rejectedEdits++
	}
}

func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// GetMetrics returns a snapshot of the counters
func (o *MetricsObserver) GetMetrics() map[string]interface{} {
	o.mu.RLock()
	defer o.mu.RUnlock()

	avgExtractionTime := time.Duration(0)
	if o.successfulExtractions > 0 {
		avgExtractionTime = o.totalExtractionTime / time.Duration(o.successfulExtractions)
	}

	return map[string]interface{}{
		"images_selected":        o.imagesSelected,
		"total_extractions":      o.totalExtractions,
		"successful_extractions": o.successfulExtractions,
		"failed_extractions":     o.failedExtractions,
		"superseded_extractions": o.supersededExtractions,
		"empty_extractions":      o.emptyExtractions,
		"numbers_extracted":      o.numbersExtracted,
		"edits":                  o.edits,
		"rejected_edits":         o.rejectedEdits,
		"total_extraction_time":  o.totalExtractionTime.String(),
		"avg_extraction_time":    avgExtractionTime.String(),
	}
}

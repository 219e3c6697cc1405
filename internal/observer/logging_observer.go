package observer

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LoggingObserver logs session events
type LoggingObserver struct {
	logger *logrus.Logger
}

func NewLoggingObserver(logger *logrus.Logger) *LoggingObserver {
	return &LoggingObserver{
		logger: logger,
	}
}

func (o *LoggingObserver) OnEvent(ctx context.Context, event SessionEvent) {
	fields := logrus.Fields{
		"event_type": event.Type,
		"revision":   event.Revision,
		"state":      event.State,
	}
	if event.Duration > 0 {
		fields["duration"] = event.Duration.String()
	}
	if event.Numbers != nil {
		fields["count"] = len(event.Numbers)
	}
	if event.Error != "" {
		fields["error"] = event.Error
	}
	for k, v := range event.Metadata {
		fields[k] = v
	}

	entry := o.logger.WithFields(fields)
	switch event.Type {
	case ImageSelected:
		entry.Info("Image selected")
	case ExtractionStarted:
		entry.Info("Extraction started")
	case ExtractionCompleted:
		entry.Info("Extraction completed")
	case ExtractionFailed:
		entry.Error("Extraction failed")
	case ExtractionSuperseded:
		entry.Warn("Extraction superseded by a newer request")
	case NumbersEdited:
		entry.Info("Numbers edited")
	case EditRejected:
		entry.Warn("Edit rejected")
	case DisplayChanged:
		entry.Debug("Display mode changed")
	default:
		entry.Info("Session event occurred")
	}
}

func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

package observer

import (
	"context"
	"sync"
	"time"

	"go-image-stats/internal/numbers"

	"github.com/sirupsen/logrus"
)

// EventType names a session transition
type EventType string

const (
	ImageSelected        EventType = "image_selected"
	ExtractionStarted    EventType = "extraction_started"
	ExtractionCompleted  EventType = "extraction_completed"
	ExtractionFailed     EventType = "extraction_failed"
	ExtractionSuperseded EventType = "extraction_superseded"
	NumbersEdited        EventType = "numbers_edited"
	EditRejected         EventType = "edit_rejected"
	DisplayChanged       EventType = "display_changed"
)

// SessionEvent describes one thing that happened to the session
type SessionEvent struct {
	Type      EventType     `json:"event_type"`
	Timestamp time.Time     `json:"timestamp"`
	Revision  uint64        `json:"revision"`
	State     string        `json:"state"`
	Duration  time.Duration `json:"duration,omitempty"`
	Error     string        `json:"error,omitempty"`

	// Numbers is the sequence after the event, set when it changed.
	Numbers numbers.Sequence `json:"numbers,omitempty"`

	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Observer receives session events
type Observer interface {
	OnEvent(ctx context.Context, event SessionEvent)
	GetObserverName() string
}

// Subject publishes events to observers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event SessionEvent)
}

// EventPublisher implements Subject. Each observer is called on its own
// goroutine; publishing never blocks on observers.
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
	wg        sync.WaitGroup
}

func NewEventPublisher() *EventPublisher {
	return &EventPublisher{
		observers: make([]Observer, 0),
	}
}

func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes the observer with the same name
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers notifies all observers of an event
func (p *EventPublisher) NotifyObservers(ctx context.Context, event SessionEvent) {
	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	// Observers outlive the request that triggered the event
	ctx = context.WithoutCancel(ctx)

	for _, observer := range observers {
		p.wg.Add(1)
		go func(obs Observer) {
			defer p.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					logrus.WithField("observer", obs.GetObserverName()).
						WithField("panic", r).
						Error("Observer panicked while handling event")
				}
			}()
			obs.OnEvent(ctx, event)
		}(observer)
	}
}

// Wait blocks until every notification sent so far has been handled.
func (p *EventPublisher) Wait() {
	p.wg.Wait()
}

package chart

import (
	"context"
	"sync"
	"time"
)

// Renderer draws a chart spec. Rendering the same spec twice must leave
// the same state.
type Renderer interface {
	Render(ctx context.Context, spec Spec) error
}

// Rendered is a spec plus when it was last drawn.
type Rendered struct {
	Spec       Spec      `json:"spec"`
	RenderedAt time.Time `json:"rendered_at"`
	Revision   uint64    `json:"revision"`
}

// Store is a Renderer that keeps the latest spec so the page can fetch it
// and replay it into the calculator widget.
type Store struct {
	mu       sync.RWMutex
	latest   *Rendered
	revision uint64
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{now: time.Now}
}

// Render replaces the stored spec.
func (s *Store) Render(ctx context.Context, spec Spec) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.revision++
	s.latest = &Rendered{Spec: spec, RenderedAt: s.now(), Revision: s.revision}
	return nil
}

// Latest returns the last rendered spec, false before the first render or
// after Clear.
func (s *Store) Latest() (Rendered, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.latest == nil {
		return Rendered{}, false
	}
	return *s.latest, true
}

// Clear drops the stored spec.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = nil
}

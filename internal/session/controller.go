// Package session holds the one Controller that owns the current image, the
// extracted number sequence and the display mode, and drives the
// select → extract → edit workflow.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	apperrors "go-image-stats/internal/errors"
	"go-image-stats/internal/format"
	"go-image-stats/internal/numbers"
	"go-image-stats/internal/observer"
	"go-image-stats/internal/ocr"
)

// NoNumbersNotice is shown when extraction finds no numbers.
const NoNumbersNotice = "No numbers were found in the image."

// ImageValidator checks image bytes and returns their content type.
type ImageValidator interface {
	Validate(data []byte) (string, error)
}

// Options configures a Controller.
type Options struct {
	// Language is passed to the OCR engine; defaults to ocr.DefaultLanguage.
	Language string

	// OCRTimeout bounds a single extraction. Zero means no extra deadline.
	OCRTimeout time.Duration

	// Validator gates SelectImage. Nil accepts any non-empty image.
	Validator ImageValidator

	Now func() time.Time
}

// Controller serialises all changes to the session. The OCR call runs
// without the lock held; a newer SelectImage or Extract cancels it and its
// result is dropped.
type Controller struct {
	engine    ocr.Engine
	publisher observer.Subject
	language  string
	timeout   time.Duration
	validator ImageValidator
	now       func() time.Time

	mu        sync.Mutex
	state     State
	image     *ocr.Image
	rawText   string
	numbers   numbers.Sequence
	mode      format.DisplayMode
	draft     string
	preEdit   State
	notice    string
	accuracy  *ocr.Accuracy
	revision  uint64
	extractID uint64
	cancel    context.CancelFunc
}

// New builds an idle controller in the default display mode.
func New(engine ocr.Engine, publisher observer.Subject, opts Options) *Controller {
	if opts.Language == "" {
		opts.Language = ocr.DefaultLanguage
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if publisher == nil {
		publisher = observer.NewEventPublisher()
	}
	return &Controller{
		engine:    engine,
		publisher: publisher,
		language:  opts.Language,
		timeout:   opts.OCRTimeout,
		validator: opts.Validator,
		now:       opts.Now,
		state:     Idle,
		numbers:   numbers.Sequence{},
		mode:      format.DefaultMode,
	}
}

// Subscribe registers an observer for session events.
func (c *Controller) Subscribe(o observer.Observer) {
	c.publisher.Subscribe(o)
}

// SelectImage replaces the current image. An extraction in flight is
// cancelled and an unfinished edit is discarded. The number sequence is
// kept until the next successful extraction.
func (c *Controller) SelectImage(ctx context.Context, img ocr.Image) (Snapshot, error) {
	if len(img.Data) == 0 {
		return c.Snapshot(), apperrors.NewValidationError("Image is empty", nil)
	}
	if c.validator != nil {
		contentType, err := c.validator.Validate(img.Data)
		if err != nil {
			return c.Snapshot(), err
		}
		img.ContentType = contentType
	}

	c.mu.Lock()
	var events []observer.SessionEvent
	if c.abortExtractionLocked() {
		events = append(events, c.eventLocked(observer.ExtractionSuperseded, nil))
	}
	c.image = &img
	c.state = ImageSelected
	c.draft = ""
	c.notice = ""
	c.accuracy = nil
	ev := c.eventLocked(observer.ImageSelected, nil)
	ev.Metadata = map[string]interface{}{"content_type": img.ContentType, "size": len(img.Data)}
	events = append(events, ev)
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.publish(ctx, events...)
	return snap, nil
}

// Extract runs OCR on the selected image and replaces the sequence with
// the numbers found in the text. When expectedText is not empty the
// recognised text is scored against it.
//
// On OCR failure the session returns to ImageSelected with the sequence
// untouched. When no numbers are found the sequence becomes empty and the
// returned error has type extraction_empty. When a newer request wins the
// returned error has type superseded and nothing is changed.
func (c *Controller) Extract(ctx context.Context, expectedText string) (Snapshot, error) {
	c.mu.Lock()
	if c.image == nil {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, apperrors.NewInvalidStateError("No image selected")
	}

	var events []observer.SessionEvent
	if c.abortExtractionLocked() {
		events = append(events, c.eventLocked(observer.ExtractionSuperseded, nil))
	}

	c.extractID++
	id := c.extractID
	var (
		runCtx context.Context
		cancel context.CancelFunc
	)
	if c.timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
	} else {
		runCtx, cancel = context.WithCancel(ctx)
	}
	c.cancel = cancel
	c.state = Extracting
	c.draft = ""
	img := *c.image
	events = append(events, c.eventLocked(observer.ExtractionStarted, nil))
	c.mu.Unlock()

	c.publish(ctx, events...)

	started := c.now()
	text, err := c.engine.ExtractText(runCtx, img, c.language)
	elapsed := c.now().Sub(started)
	cancel()

	c.mu.Lock()
	if id != c.extractID {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, apperrors.NewSupersededError("Extraction superseded by a newer request", err)
	}
	c.cancel = nil

	if err != nil {
		c.state = ImageSelected
		ev := c.eventLocked(observer.ExtractionFailed, nil)
		ev.Duration = elapsed
		ev.Error = err.Error()
		snap := c.snapshotLocked()
		c.mu.Unlock()

		c.publish(ctx, ev)
		return snap, classifyOCRError(err)
	}

	seq := numbers.Extract(text)
	c.rawText = text
	c.numbers = seq
	c.state = Extracted
	c.revision++
	c.notice = ""
	c.accuracy = nil
	if expectedText != "" {
		acc := ocr.MeasureAccuracy(expectedText, text)
		c.accuracy = &acc
	}
	if len(seq) == 0 {
		c.notice = NoNumbersNotice
	}

	ev := c.eventLocked(observer.ExtractionCompleted, seq)
	ev.Duration = elapsed
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.publish(ctx, ev)
	if len(seq) == 0 {
		return snap, apperrors.NewExtractionEmptyError(NoNumbersNotice)
	}
	return snap, nil
}

// BeginEdit enters Editing and returns the text to edit: the current
// values comma separated. Calling it while already editing returns the
// pending draft.
func (c *Controller) BeginEdit() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case Extracting:
		return "", apperrors.NewInvalidStateError("Cannot edit while extraction is running")
	case Editing:
		return c.draft, nil
	}

	c.preEdit = c.state
	c.state = Editing
	c.draft = format.EditText(c.numbers)
	return c.draft, nil
}

// ConfirmEdit parses text and, if every token is a finite number, makes
// it the new sequence. A rejected edit leaves the sequence and the Editing
// state unchanged.
func (c *Controller) ConfirmEdit(ctx context.Context, text string) (Snapshot, error) {
	c.mu.Lock()
	if c.state != Editing {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, apperrors.NewInvalidStateError("Not editing")
	}
	return c.applyEditLocked(ctx, text, false)
}

// CancelEdit leaves Editing without touching the sequence.
func (c *Controller) CancelEdit() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Editing {
		c.state = c.preEdit
		c.draft = ""
	}
	return c.snapshotLocked()
}

// ReplaceNumbers is BeginEdit followed by ConfirmEdit as one step.
func (c *Controller) ReplaceNumbers(ctx context.Context, text string) (Snapshot, error) {
	c.mu.Lock()
	switch c.state {
	case Extracting:
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, apperrors.NewInvalidStateError("Cannot edit while extraction is running")
	case Editing:
		return c.applyEditLocked(ctx, text, false)
	}
	c.preEdit = c.state
	c.state = Editing
	return c.applyEditLocked(ctx, text, true)
}

// applyEditLocked must be called with mu held and releases it. A rejected
// edit keeps text as the draft, or leaves Editing when restore is set.
func (c *Controller) applyEditLocked(ctx context.Context, text string, restore bool) (Snapshot, error) {
	seq, err := numbers.ParseEdited(text)
	if err != nil {
		if restore {
			c.state = c.preEdit
			c.draft = ""
		} else {
			c.draft = text
		}
		ev := c.eventLocked(observer.EditRejected, nil)
		ev.Error = err.Error()
		snap := c.snapshotLocked()
		c.mu.Unlock()

		c.publish(ctx, ev)
		return snap, parseError(err)
	}

	c.numbers = seq
	c.state = Extracted
	c.draft = ""
	c.notice = ""
	c.accuracy = nil
	c.revision++
	ev := c.eventLocked(observer.NumbersEdited, seq)
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.publish(ctx, ev)
	return snap, nil
}

// ToggleArray flips array display; turning it on turns line breaks off.
func (c *Controller) ToggleArray(ctx context.Context) Snapshot {
	return c.changeMode(ctx, func(m format.DisplayMode) format.DisplayMode {
		return format.OptionsFor(m).ToggleArray().Mode()
	})
}

// ToggleLineBreaks flips line-broken display; turning it on turns array off.
func (c *Controller) ToggleLineBreaks(ctx context.Context) Snapshot {
	return c.changeMode(ctx, func(m format.DisplayMode) format.DisplayMode {
		return format.OptionsFor(m).ToggleLineBreaks().Mode()
	})
}

// SetDisplayMode selects mode directly.
func (c *Controller) SetDisplayMode(ctx context.Context, mode format.DisplayMode) Snapshot {
	return c.changeMode(ctx, func(format.DisplayMode) format.DisplayMode { return mode })
}

// changeMode only re-renders text; OCR and extraction are not rerun.
func (c *Controller) changeMode(ctx context.Context, next func(format.DisplayMode) format.DisplayMode) Snapshot {
	c.mu.Lock()
	prev := c.mode
	c.mode = next(prev)
	ev := c.eventLocked(observer.DisplayChanged, nil)
	ev.Metadata = map[string]interface{}{"from": prev.String(), "to": c.mode.String()}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.publish(ctx, ev)
	return snap
}

// Numbers returns a copy of the current sequence.
func (c *Controller) Numbers() numbers.Sequence {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.numbers.Clone()
}

// Close cancels any extraction in flight.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.abortExtractionLocked()
}

// abortExtractionLocked cancels the running extraction, if any, and makes
// sure its result is ignored. It reports whether one was running.
func (c *Controller) abortExtractionLocked() bool {
	if c.state != Extracting || c.cancel == nil {
		return false
	}
	c.cancel()
	c.cancel = nil
	c.extractID++
	return true
}

func (c *Controller) eventLocked(t observer.EventType, seq numbers.Sequence) observer.SessionEvent {
	return observer.SessionEvent{
		Type:      t,
		Timestamp: c.now(),
		Revision:  c.revision,
		State:     c.state.String(),
		Numbers:   seq.Clone(),
	}
}

func (c *Controller) publish(ctx context.Context, events ...observer.SessionEvent) {
	for _, ev := range events {
		c.publisher.NotifyObservers(ctx, ev)
	}
}

func classifyOCRError(err error) *apperrors.AppError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewTimeoutError("OCR request timed out", err)
	case errors.Is(err, context.Canceled):
		return apperrors.NewServiceError("OCR request was cancelled", err)
	case errors.Is(err, ocr.ErrNetwork):
		return apperrors.NewNetworkError("OCR service unreachable", err)
	case errors.Is(err, ocr.ErrEmptyImage), errors.Is(err, ocr.ErrImageTooLarge):
		return apperrors.NewValidationError("Image rejected by OCR engine", err)
	default:
		return apperrors.NewServiceError("OCR service failed", err)
	}
}

func parseError(err error) *apperrors.AppError {
	appErr := apperrors.NewParseError("Edited text contains a value that is not a number", err)
	var pe *numbers.ParseError
	if errors.As(err, &pe) {
		return appErr.WithDetails(pe.Error())
	}
	return appErr
}

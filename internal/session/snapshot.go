package session

import (
	"go-image-stats/internal/format"
	"go-image-stats/internal/numbers"
	"go-image-stats/internal/ocr"
	"go-image-stats/internal/stats"
)

// ImageInfo describes the selected image without its bytes.
type ImageInfo struct {
	Name        string `json:"name,omitempty"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
}

// Snapshot is a read-only view of the session. Text and Statistics are
// derived from Numbers at the moment the snapshot is taken.
type Snapshot struct {
	State       State              `json:"state"`
	DisplayMode format.DisplayMode `json:"display_mode"`
	Options     format.Options     `json:"options"`
	Numbers     numbers.Sequence   `json:"numbers"`
	Sorted      numbers.Sequence   `json:"sorted"`
	Text        string             `json:"text"`
	RawText     string             `json:"raw_text"`
	Draft       string             `json:"draft,omitempty"`
	Statistics  stats.Result       `json:"statistics"`
	Image       *ImageInfo         `json:"image,omitempty"`
	Notice      string             `json:"notice,omitempty"`
	Accuracy    *ocr.Accuracy      `json:"accuracy,omitempty"`
	Revision    uint64             `json:"revision"`
}

// Snapshot returns the current view.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	seq := c.numbers.Clone()
	snap := Snapshot{
		State:       c.state,
		DisplayMode: c.mode,
		Options:     format.OptionsFor(c.mode),
		Numbers:     seq,
		Sorted:      seq.Sorted(),
		Text:        format.Format(c.rawText, seq, c.mode),
		RawText:     c.rawText,
		Draft:       c.draft,
		Statistics:  stats.Compute(seq),
		Notice:      c.notice,
		Revision:    c.revision,
	}
	if c.image != nil {
		snap.Image = &ImageInfo{
			Name:        c.image.Name,
			ContentType: c.image.ContentType,
			Size:        len(c.image.Data),
		}
	}
	if c.accuracy != nil {
		acc := *c.accuracy
		snap.Accuracy = &acc
	}
	return snap
}

//go:build tesseract

package ocr

import (
	"context"

	"github.com/otiai10/gosseract/v2"
)

// TesseractEngine runs OCR locally through libtesseract.
type TesseractEngine struct{}

// NewTesseractEngine returns the local engine.
func NewTesseractEngine() (*TesseractEngine, error) {
	return &TesseractEngine{}, nil
}

func (e *TesseractEngine) Name() string {
	return "tesseract"
}

type tesseractResult struct {
	text string
	err  error
}

// ExtractText recognises img with a fresh gosseract client. The client is
// not safe for concurrent use, so each call owns one. A cancelled ctx
// returns immediately; the recognition finishes in the background.
func (e *TesseractEngine) ExtractText(ctx context.Context, img Image, language string) (string, error) {
	const op = "tesseract.ExtractText"

	if len(img.Data) == 0 {
		return "", newError(op, ErrEmptyImage, "")
	}
	if language == "" {
		language = DefaultLanguage
	}

	done := make(chan tesseractResult, 1)
	go func() {
		client := gosseract.NewClient()
		defer client.Close()

		if err := client.SetLanguage(language); err != nil {
			done <- tesseractResult{err: newError(op, ErrService, err.Error())}
			return
		}
		if err := client.SetImageFromBytes(img.Data); err != nil {
			done <- tesseractResult{err: newError(op, ErrService, err.Error())}
			return
		}
		text, err := client.Text()
		if err != nil {
			done <- tesseractResult{err: newError(op, ErrService, err.Error())}
			return
		}
		done <- tesseractResult{text: text}
	}()

	select {
	case <-ctx.Done():
		return "", newError(op, ctx.Err(), "")
	case res := <-done:
		return res.text, res.err
	}
}

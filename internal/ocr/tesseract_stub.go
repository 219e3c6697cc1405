//go:build !tesseract

package ocr

import "context"

// TesseractEngine is a placeholder in builds without the "tesseract" tag.
type TesseractEngine struct{}

// NewTesseractEngine always fails in this build.
func NewTesseractEngine() (*TesseractEngine, error) {
	return nil, newError("tesseract.New", ErrEngineUnavailable, "rebuild with -tags tesseract")
}

func (e *TesseractEngine) Name() string {
	return "tesseract"
}

func (e *TesseractEngine) ExtractText(ctx context.Context, img Image, language string) (string, error) {
	return "", newError("tesseract.ExtractText", ErrEngineUnavailable, "")
}

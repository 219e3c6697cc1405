// Package ocr turns an image into text.
//
// Two engines are provided: a client for the OCR.space web API and a local
// Tesseract engine that is only compiled with the "tesseract" build tag.
package ocr

import "context"

// DefaultLanguage is the OCR language code used when none is configured.
const DefaultLanguage = "eng"

// Image is an encoded image as received from the user.
type Image struct {
	Data        []byte
	ContentType string
	Name        string
}

// Engine extracts the text printed in an image.
type Engine interface {
	ExtractText(ctx context.Context, img Image, language string) (string, error)
	Name() string
}

package ocr

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork is returned when the OCR service cannot be reached.
	ErrNetwork = errors.New("OCR service unreachable")

	// ErrService is returned when the OCR service answers but reports a failure.
	ErrService = errors.New("OCR service reported a failure")

	// ErrMalformedResponse is returned when the service payload cannot be decoded
	// or lacks ParsedResults.
	ErrMalformedResponse = errors.New("malformed OCR response")

	// ErrEmptyImage is returned for a zero-length image.
	ErrEmptyImage = errors.New("image is empty")

	// ErrImageTooLarge is returned when the image exceeds the configured size limit.
	ErrImageTooLarge = errors.New("image exceeds the maximum size")

	// ErrMissingAPIKey is returned when the remote engine is built without a key.
	ErrMissingAPIKey = errors.New("missing OCR API key: set OCR_API_KEY")

	// ErrEngineUnavailable is returned when the selected engine is not compiled in.
	ErrEngineUnavailable = errors.New("OCR engine not available in this build")
)

// Error wraps an OCR failure with the operation that produced it.
type Error struct {
	// Op is the operation that failed, e.g. "ocrspace.ExtractText".
	Op string

	Err error

	// Details is extra context from the engine, such as the service's error message.
	Details string
}

func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("ocr: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("ocr: %s failed: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return errors.Is(e.Err, target)
}

func newError(op string, err error, details string) *Error {
	return &Error{Op: op, Err: err, Details: details}
}

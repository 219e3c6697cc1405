package models

import "time"

// ImageURLRequest selects an image fetched from a URL
type ImageURLRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// ExtractRequest runs OCR on the selected image. ExpectedText, when set,
// is the known transcription used to score the OCR result.
type ExtractRequest struct {
	ExpectedText string `json:"expected_text,omitempty"`
}

// EditRequest carries comma separated numbers typed by the user
type EditRequest struct {
	Text string `json:"text"`
}

// EditResponse is the text offered for editing
type EditResponse struct {
	Text string `json:"text"`
}

// DisplayModeRequest selects one of raw, array or line_broken
type DisplayModeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

// FormatRequest renders numbers without touching the session
type FormatRequest struct {
	Raw     string    `json:"raw"`
	Numbers []float64 `json:"numbers"`
	Mode    string    `json:"mode"`
}

// FormatResponse is the rendered text
type FormatResponse struct {
	Text string `json:"text"`
	Mode string `json:"mode"`
}

// StatisticsRequest computes statistics without touching the session
type StatisticsRequest struct {
	Numbers []float64 `json:"numbers"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string `json:"error"`
	Type      string `json:"type,omitempty"`
	Message   string `json:"message,omitempty"`
	Details   string `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// HealthResponse is returned by the health check
type HealthResponse struct {
	Status  string    `json:"status"`
	Version string    `json:"version"`
	Engine  string    `json:"engine"`
	Time    time.Time `json:"time"`
}

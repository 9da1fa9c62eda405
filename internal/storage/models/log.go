package models

import "time"

// Outcome values recorded for dispatched requests.
const (
	OutcomeSuccess  = "success"
	OutcomeAPIError = "api_error"
	OutcomeNoKeys   = "no_keys"
	OutcomeFailed   = "failed"
)

// RequestLog represents one dispatched upstream request
type RequestLog struct {
	ID           string    `json:"id"`
	RequestID    string    `json:"request_id"` // upstream request_id when available
	KeyID        string    `json:"key_id,omitempty"`
	Path         string    `json:"path"`
	Method       string    `json:"method"`
	Region       string    `json:"region"`
	Purpose      string    `json:"purpose"`
	EnvelopeCode int       `json:"envelope_code"`
	Outcome      string    `json:"outcome"`
	ErrorMessage string    `json:"error_message,omitempty"`
	Attempts     int       `json:"attempts"`
	DurationMs   int64     `json:"duration_ms"`
	CreatedAt    time.Time `json:"created_at"`
}

// LogFilter contains parameters for filtering request logs
type LogFilter struct {
	KeyID     string
	Path      string
	Region    string
	Outcome   string
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

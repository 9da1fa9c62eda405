package kling

import (
	"errors"
	"fmt"
)

// ErrNoKeysAvailable is returned when the pool has no enabled, unexpired key
// for the requested region, even after widening the selection criteria.
var ErrNoKeysAvailable = errors.New("no available Kling API key")

// APIError is a non-retryable application error reported by the Kling API.
// Exhaustion codes never surface as APIError; they trigger key rotation.
type APIError struct {
	Code      int
	Message   string
	RequestID string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("kling API error (%d): %s [request_id: %s]", e.Code, e.Message, e.RequestID)
}

// ExhaustedError records a key disabled after the remote service reported
// an exhaustion code (insufficient balance or invalid credential).
type ExhaustedError struct {
	KeyID   string
	Code    int
	Message string
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("key %s exhausted (code %d): %s", e.KeyID, e.Code, e.Message)
}

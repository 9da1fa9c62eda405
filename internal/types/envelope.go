// Package types contains the wire types shared between the Kling client
// and the generation modules.
package types

import "encoding/json"

// Envelope is the uniform response shape the Kling API returns.
// Code 0 is success; nonzero codes are application errors.
type Envelope struct {
	Code      int             `json:"code"`
	Message   string          `json:"message"`
	RequestID string          `json:"request_id"`
	Data      json.RawMessage `json:"data"`
}

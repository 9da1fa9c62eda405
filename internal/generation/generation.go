// Package generation wraps the raw Kling client with typed operations for
// each upstream product surface: omni video, image generation, motion
// control, lip-sync and the element library.
package generation

import (
	"fmt"

	"github.com/mandalnilabja/klingate/internal/kling"
)

// Service exposes the generation endpoints over a shared dispatching client.
type Service struct {
	client *kling.Client
}

// NewService wraps client.
func NewService(client *kling.Client) *Service {
	return &Service{client: client}
}

// Client returns the underlying dispatcher, for callers that need raw
// access (key stats, ad-hoc paths).
func (s *Service) Client() *kling.Client {
	return s.client
}

// listPath appends pagination query parameters to base.
func listPath(base string, pageNum, pageSize int) string {
	if pageNum < 1 {
		pageNum = 1
	}
	if pageSize < 1 {
		pageSize = 30
	}
	return fmt.Sprintf("%s?pageNum=%d&pageSize=%d", base, pageNum, pageSize)
}

func floatPtr(v float64) *float64 {
	return &v
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

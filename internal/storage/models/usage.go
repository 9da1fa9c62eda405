package models

import "time"

// DailyUsage represents aggregated usage stats for one key and path per day
type DailyUsage struct {
	Date         string  `json:"date"` // YYYY-MM-DD
	KeyID        string  `json:"key_id,omitempty"`
	Path         string  `json:"path"`
	RequestCount int     `json:"request_count"`
	ErrorCount   int     `json:"error_count"`
	Units        float64 `json:"units"` // estimated compute units consumed
}

// PathStats represents usage statistics for one upstream endpoint
type PathStats struct {
	Path         string  `json:"path"`
	RequestCount int     `json:"request_count"`
	ErrorCount   int     `json:"error_count"`
	Units        float64 `json:"units"`
}

// UsageStats represents aggregated usage statistics
type UsageStats struct {
	TotalRequests int                   `json:"total_requests"`
	ErrorCount    int                   `json:"error_count"`
	TotalUnits    float64               `json:"total_units"`
	PathBreakdown map[string]*PathStats `json:"paths,omitempty"`
}

// StatsFilter contains parameters for filtering usage statistics
type StatsFilter struct {
	KeyID     string
	Path      string
	StartDate *time.Time
	EndDate   *time.Time
}

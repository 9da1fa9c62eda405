package infra

import (
	"net/http"
	"time"

	"github.com/mandalnilabja/klingate/internal/transport/http/handler/shared"
)

// CacheStats reports hit ratios of the API key validation cache
// (GET /api/admin/cache). Useful when tuning the 5-minute entry TTL.
func (h *Handlers) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.Cache == nil {
		shared.WriteJSONError(w, "cache not configured", http.StatusServiceUnavailable)
		return
	}

	m := h.Cache.Metrics
	shared.WriteJSON(w, map[string]any{
		"hits":         m.Hits(),
		"misses":       m.Misses(),
		"ratio":        m.Ratio(),
		"keys_added":   m.KeysAdded(),
		"keys_evicted": m.KeysEvicted(),
		"uptime_secs":  int64(time.Since(h.StartTime).Seconds()),
	}, http.StatusOK)
}

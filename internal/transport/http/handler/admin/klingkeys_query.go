package admin

import (
	"net/http"

	"github.com/mandalnilabja/klingate/internal/storage"
	"github.com/mandalnilabja/klingate/internal/transport/http/handler/shared"
)

// ListKlingKeys handles GET /api/admin/keys.
func (h *Handlers) ListKlingKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := h.Storage.ListKlingKeys()
	if err != nil {
		shared.WriteJSONError(w, "Failed to list keys: "+err.Error(), http.StatusInternalServerError)
		return
	}

	previews := make([]*storage.KlingKeyPreview, len(keys))
	for i, key := range keys {
		previews[i] = key.ToPreview()
	}

	shared.WriteJSON(w, map[string]any{"keys": previews}, http.StatusOK)
}

// GetKlingKey handles GET /api/admin/keys/{id}.
func (h *Handlers) GetKlingKey(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		shared.WriteJSONError(w, "Key ID is required", http.StatusBadRequest)
		return
	}

	key, err := h.Storage.GetKlingKey(id)
	if err == storage.ErrNotFound {
		shared.WriteJSONError(w, "Key not found", http.StatusNotFound)
		return
	}
	if err != nil {
		shared.WriteJSONError(w, "Failed to get key: "+err.Error(), http.StatusInternalServerError)
		return
	}

	shared.WriteJSON(w, key.ToPreview(), http.StatusOK)
}

// GetKeyPoolStats handles GET /api/admin/keys/stats. It reports the live
// dispatcher view, which can differ from storage until the next sync.
func (h *Handlers) GetKeyPoolStats(w http.ResponseWriter, r *http.Request) {
	if h.Client == nil {
		shared.WriteJSONError(w, "Dispatcher not configured", http.StatusServiceUnavailable)
		return
	}

	shared.WriteJSON(w, map[string]any{"keys": h.Client.KeyStats()}, http.StatusOK)
}

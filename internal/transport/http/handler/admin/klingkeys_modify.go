package admin

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/mandalnilabja/klingate/internal/storage"
	"github.com/mandalnilabja/klingate/internal/transport/http/handler/shared"
)

// CreateKlingKey handles POST /api/admin/keys.
func (h *Handlers) CreateKlingKey(w http.ResponseWriter, r *http.Request) {
	var req CreateKlingKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	var expiresAt *time.Time
	if req.ExpiresIn != nil && *req.ExpiresIn > 0 {
		t := time.Now().Add(time.Duration(*req.ExpiresIn) * time.Second)
		expiresAt = &t
	}

	key := &storage.KlingKey{
		Name:           req.Name,
		AccessKey:      req.AccessKey,
		SecretKey:      req.SecretKey,
		Region:         req.Region,
		Purpose:        req.Purpose,
		Enabled:        enabled,
		RemainingUnits: req.RemainingUnits,
		ExpiresAt:      expiresAt,
	}

	if err := h.Storage.CreateKlingKey(key); err != nil {
		if errors.Is(err, storage.ErrInvalidInput) {
			shared.WriteJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		shared.WriteJSONError(w, "Failed to create key: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if err := h.syncKeyPool(); err != nil {
		shared.WriteJSONError(w, "Key stored but pool sync failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	shared.WriteJSON(w, key.ToPreview(), http.StatusCreated)
}

// UpdateKlingKey handles PUT /api/admin/keys/{id}.
func (h *Handlers) UpdateKlingKey(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		shared.WriteJSONError(w, "Key ID is required", http.StatusBadRequest)
		return
	}

	var updates UpdateKlingKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		shared.WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
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

	if updates.Name != nil {
		key.Name = *updates.Name
	}
	if updates.AccessKey != nil {
		key.AccessKey = *updates.AccessKey
	}
	if updates.SecretKey != nil {
		key.SecretKey = *updates.SecretKey
	}
	if updates.Region != nil {
		key.Region = *updates.Region
	}
	if updates.Purpose != nil {
		key.Purpose = *updates.Purpose
	}
	if updates.Enabled != nil {
		key.Enabled = *updates.Enabled
	}
	if updates.RemainingUnits != nil {
		key.RemainingUnits = updates.RemainingUnits
	}

	if err := h.Storage.UpdateKlingKey(key); err != nil {
		if errors.Is(err, storage.ErrInvalidInput) {
			shared.WriteJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		shared.WriteJSONError(w, "Failed to update key: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if err := h.syncKeyPool(); err != nil {
		shared.WriteJSONError(w, "Key updated but pool sync failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	shared.WriteJSON(w, key.ToPreview(), http.StatusOK)
}

// SetKlingKeyEnabled handles POST /api/admin/keys/{id}/enable and
// POST /api/admin/keys/{id}/disable. Re-enabling a key that the
// dispatcher exhausted brings it back into rotation on the next sync.
func (h *Handlers) SetKlingKeyEnabled(enabled bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == "" {
			shared.WriteJSONError(w, "Key ID is required", http.StatusBadRequest)
			return
		}

		if err := h.Storage.SetKlingKeyEnabled(id, enabled); err != nil {
			if err == storage.ErrNotFound {
				shared.WriteJSONError(w, "Key not found", http.StatusNotFound)
				return
			}
			shared.WriteJSONError(w, "Failed to update key: "+err.Error(), http.StatusInternalServerError)
			return
		}

		if err := h.syncKeyPool(); err != nil {
			shared.WriteJSONError(w, "Key updated but pool sync failed: "+err.Error(), http.StatusInternalServerError)
			return
		}

		shared.WriteJSON(w, map[string]any{"id": id, "enabled": enabled}, http.StatusOK)
	}
}

// DeleteKlingKey handles DELETE /api/admin/keys/{id}.
func (h *Handlers) DeleteKlingKey(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		shared.WriteJSONError(w, "Key ID is required", http.StatusBadRequest)
		return
	}

	if err := h.Storage.DeleteKlingKey(id); err != nil {
		if err == storage.ErrNotFound {
			shared.WriteJSONError(w, "Key not found", http.StatusNotFound)
			return
		}
		shared.WriteJSONError(w, "Failed to delete key: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// Sync purges the cached token for the removed key as well.
	if err := h.syncKeyPool(); err != nil {
		shared.WriteJSONError(w, "Key deleted but pool sync failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

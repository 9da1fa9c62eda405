package generate

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/mandalnilabja/klingate/internal/kling"
	"github.com/mandalnilabja/klingate/internal/transport/http/handler/shared"
	"github.com/mandalnilabja/klingate/internal/types"
)

// CreateImageElement handles POST /v1/elements/image-character.
func (h *Handlers) CreateImageElement(w http.ResponseWriter, r *http.Request) {
	reg, ok := region(w, r)
	if !ok {
		return
	}

	var req types.CreateImageElementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		types.WriteError(w, http.StatusBadRequest, types.ErrInvalidRequest("invalid request body"))
		return
	}
	if len(req.ImageList) == 0 {
		types.WriteError(w, http.StatusBadRequest, types.ErrInvalidRequest("image_list must not be empty"))
		return
	}

	start := time.Now()
	created, err := h.Service.CreateImageElement(r.Context(), req, reg)
	h.record(r, reg, kling.PurposeAll, start, 0, err)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	shared.WriteJSON(w, created, http.StatusCreated)
}

// CreateVideoElement handles POST /v1/elements/video-character.
func (h *Handlers) CreateVideoElement(w http.ResponseWriter, r *http.Request) {
	reg, ok := region(w, r)
	if !ok {
		return
	}

	var req types.CreateVideoElementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		types.WriteError(w, http.StatusBadRequest, types.ErrInvalidRequest("invalid request body"))
		return
	}
	if req.VideoURL == "" {
		types.WriteError(w, http.StatusBadRequest, types.ErrInvalidRequest("video_url is required"))
		return
	}

	start := time.Now()
	created, err := h.Service.CreateVideoElement(r.Context(), req, reg)
	h.record(r, reg, kling.PurposeAll, start, 0, err)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	shared.WriteJSON(w, created, http.StatusCreated)
}

// GetElement handles GET /v1/elements/{id}.
func (h *Handlers) GetElement(w http.ResponseWriter, r *http.Request) {
	reg, ok := region(w, r)
	if !ok {
		return
	}
	id, ok := elementID(w, r)
	if !ok {
		return
	}

	start := time.Now()
	element, err := h.Service.GetElement(r.Context(), id, reg)
	h.record(r, reg, kling.PurposeAll, start, 0, err)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	shared.WriteJSON(w, element, http.StatusOK)
}

// ListElements handles GET /v1/elements.
func (h *Handlers) ListElements(w http.ResponseWriter, r *http.Request) {
	reg, ok := region(w, r)
	if !ok {
		return
	}
	pageNum, pageSize := pagination(r)

	start := time.Now()
	elements, err := h.Service.ListElements(r.Context(), pageNum, pageSize, reg)
	h.record(r, reg, kling.PurposeAll, start, 0, err)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	shared.WriteJSON(w, elements, http.StatusOK)
}

// DeleteElement handles DELETE /v1/elements/{id}.
func (h *Handlers) DeleteElement(w http.ResponseWriter, r *http.Request) {
	reg, ok := region(w, r)
	if !ok {
		return
	}
	id, ok := elementID(w, r)
	if !ok {
		return
	}

	start := time.Now()
	err := h.Service.DeleteElement(r.Context(), id, reg)
	h.record(r, reg, kling.PurposeAll, start, 0, err)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// elementID parses the numeric element id path segment.
func elementID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		types.WriteError(w, http.StatusBadRequest, types.ErrInvalidRequest("invalid element id"))
		return 0, false
	}
	return id, true
}

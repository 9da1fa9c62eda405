package generate

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/mandalnilabja/klingate/internal/generation"
	"github.com/mandalnilabja/klingate/internal/kling"
	"github.com/mandalnilabja/klingate/internal/transport/http/handler/shared"
	"github.com/mandalnilabja/klingate/internal/types"
)

// CreateImage handles POST /v1/images/generations.
func (h *Handlers) CreateImage(w http.ResponseWriter, r *http.Request) {
	reg, ok := region(w, r)
	if !ok {
		return
	}

	var req types.CreateImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		types.WriteError(w, http.StatusBadRequest, types.ErrInvalidRequest("invalid request body"))
		return
	}
	if req.Prompt == "" {
		types.WriteError(w, http.StatusBadRequest, types.ErrInvalidRequest("prompt is required"))
		return
	}

	model := req.ModelName
	if model == "" {
		model = types.ModelImageO1
	}
	count := req.N
	if count < 1 {
		count = 1
	}

	start := time.Now()
	task, err := h.Service.CreateImage(r.Context(), req, reg)
	h.record(r, reg, kling.PurposeImage, start, generation.EstimateImageCost(model, count).Units, err)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	shared.WriteJSON(w, task, http.StatusCreated)
}

// GetImageTask handles GET /v1/images/generations/{id}.
func (h *Handlers) GetImageTask(w http.ResponseWriter, r *http.Request) {
	reg, ok := region(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")
	if id == "" {
		types.WriteError(w, http.StatusBadRequest, types.ErrInvalidRequest("task id required"))
		return
	}

	start := time.Now()
	task, err := h.Service.GetImageTask(r.Context(), id, reg)
	h.record(r, reg, kling.PurposeImage, start, 0, err)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	shared.WriteJSON(w, task, http.StatusOK)
}

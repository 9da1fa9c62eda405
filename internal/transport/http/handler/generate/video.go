package generate

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/mandalnilabja/klingate/internal/generation"
	"github.com/mandalnilabja/klingate/internal/kling"
	"github.com/mandalnilabja/klingate/internal/transport/http/handler/shared"
	"github.com/mandalnilabja/klingate/internal/types"
)

// CreateOmniVideo handles POST /v1/videos/omni-video.
func (h *Handlers) CreateOmniVideo(w http.ResponseWriter, r *http.Request) {
	reg, ok := region(w, r)
	if !ok {
		return
	}

	var req types.CreateOmniVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		types.WriteError(w, http.StatusBadRequest, types.ErrInvalidRequest("invalid request body"))
		return
	}
	if req.Prompt == "" && len(req.MultiPrompt) == 0 {
		types.WriteError(w, http.StatusBadRequest, types.ErrInvalidRequest("prompt is required"))
		return
	}

	start := time.Now()
	created, err := h.Service.CreateOmniVideo(r.Context(), req, reg)
	h.record(r, reg, kling.PurposeVideo, start, omniVideoUnits(req), err)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	shared.WriteJSON(w, created, http.StatusCreated)
}

// GetOmniVideoTask handles GET /v1/videos/omni-video/{id}.
func (h *Handlers) GetOmniVideoTask(w http.ResponseWriter, r *http.Request) {
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
	task, err := h.Service.GetOmniVideoTask(r.Context(), id, reg)
	h.record(r, reg, kling.PurposeVideo, start, 0, err)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	shared.WriteJSON(w, task, http.StatusOK)
}

// ListOmniVideoTasks handles GET /v1/videos/omni-video.
func (h *Handlers) ListOmniVideoTasks(w http.ResponseWriter, r *http.Request) {
	reg, ok := region(w, r)
	if !ok {
		return
	}
	pageNum, pageSize := pagination(r)

	start := time.Now()
	tasks, err := h.Service.ListOmniVideoTasks(r.Context(), pageNum, pageSize, reg)
	h.record(r, reg, kling.PurposeVideo, start, 0, err)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	shared.WriteJSON(w, tasks, http.StatusOK)
}

// omniVideoUnits estimates billable units for a creation request. Audio
// is billed when any reference clip keeps its original sound.
func omniVideoUnits(req types.CreateOmniVideoRequest) float64 {
	dur, _ := strconv.ParseFloat(req.Duration, 64)
	if req.MultiShot {
		dur = 0
		for _, shot := range req.MultiPrompt {
			d, _ := strconv.ParseFloat(shot.Duration, 64)
			dur += d
		}
	}

	hasAudio := false
	for _, ref := range req.VideoList {
		if ref.KeepOriginalSound == "yes" {
			hasAudio = true
		}
	}

	return generation.EstimateOmniVideoCost(req.Mode, dur, len(req.VideoList) > 0, hasAudio).Units
}

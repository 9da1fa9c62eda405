package generate

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/mandalnilabja/klingate/internal/kling"
	"github.com/mandalnilabja/klingate/internal/transport/http/handler/shared"
	"github.com/mandalnilabja/klingate/internal/types"
)

// CreateMotionControl handles POST /v1/videos/motion-control.
func (h *Handlers) CreateMotionControl(w http.ResponseWriter, r *http.Request) {
	reg, ok := region(w, r)
	if !ok {
		return
	}

	var req types.CreateMotionControlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		types.WriteError(w, http.StatusBadRequest, types.ErrInvalidRequest("invalid request body"))
		return
	}
	if req.ImageURL == "" {
		types.WriteError(w, http.StatusBadRequest, types.ErrInvalidRequest("image_url is required"))
		return
	}
	if req.VideoURL == "" {
		types.WriteError(w, http.StatusBadRequest, types.ErrInvalidRequest("video_url is required"))
		return
	}
	if req.CharacterOrientation == "" {
		req.CharacterOrientation = types.OrientationVideo
	}
	if req.CharacterOrientation != types.OrientationImage && req.CharacterOrientation != types.OrientationVideo {
		types.WriteError(w, http.StatusBadRequest,
			types.ErrInvalidRequest("character_orientation must be image or video"))
		return
	}
	if req.Mode == "" {
		req.Mode = types.ModePro
	}

	start := time.Now()
	created, err := h.Service.CreateMotionControl(r.Context(), req, reg)
	// Output length follows the reference video, so units are unknown here.
	h.record(r, reg, kling.PurposeVideo, start, 0, err)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	shared.WriteJSON(w, created, http.StatusCreated)
}

// GetMotionControlTask handles GET /v1/videos/motion-control/{id}.
func (h *Handlers) GetMotionControlTask(w http.ResponseWriter, r *http.Request) {
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
	task, err := h.Service.GetMotionControlTask(r.Context(), id, reg)
	h.record(r, reg, kling.PurposeVideo, start, 0, err)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	shared.WriteJSON(w, task, http.StatusOK)
}

// ListMotionControlTasks handles GET /v1/videos/motion-control.
func (h *Handlers) ListMotionControlTasks(w http.ResponseWriter, r *http.Request) {
	reg, ok := region(w, r)
	if !ok {
		return
	}
	pageNum, pageSize := pagination(r)

	start := time.Now()
	tasks, err := h.Service.ListMotionControlTasks(r.Context(), pageNum, pageSize, reg)
	h.record(r, reg, kling.PurposeVideo, start, 0, err)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	shared.WriteJSON(w, tasks, http.StatusOK)
}

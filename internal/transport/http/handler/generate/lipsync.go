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

// IdentifyFaces handles POST /v1/videos/identify-face, the first step of
// the lip-sync flow.
func (h *Handlers) IdentifyFaces(w http.ResponseWriter, r *http.Request) {
	reg, ok := region(w, r)
	if !ok {
		return
	}

	var req types.IdentifyFaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		types.WriteError(w, http.StatusBadRequest, types.ErrInvalidRequest("invalid request body"))
		return
	}
	if req.VideoURL == "" && req.VideoID == "" {
		types.WriteError(w, http.StatusBadRequest, types.ErrInvalidRequest("video_url or video_id is required"))
		return
	}

	start := time.Now()
	result, err := h.Service.IdentifyFaces(r.Context(), req, reg)
	h.record(r, reg, kling.PurposeVideo, start, 0, err)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	shared.WriteJSON(w, result, http.StatusCreated)
}

// GetFaceIdentifyResult handles GET /v1/videos/identify-face/{id}.
func (h *Handlers) GetFaceIdentifyResult(w http.ResponseWriter, r *http.Request) {
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
	result, err := h.Service.GetFaceIdentifyResult(r.Context(), id, reg)
	h.record(r, reg, kling.PurposeVideo, start, 0, err)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	shared.WriteJSON(w, result, http.StatusOK)
}

// CreateLipSync handles POST /v1/videos/advanced-lip-sync, the second step
// that binds audio to faces found by identification.
func (h *Handlers) CreateLipSync(w http.ResponseWriter, r *http.Request) {
	reg, ok := region(w, r)
	if !ok {
		return
	}

	var req types.CreateLipSyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		types.WriteError(w, http.StatusBadRequest, types.ErrInvalidRequest("invalid request body"))
		return
	}
	if req.SessionID == "" {
		types.WriteError(w, http.StatusBadRequest, types.ErrInvalidRequest("session_id is required"))
		return
	}
	if len(req.FaceChoose) == 0 {
		types.WriteError(w, http.StatusBadRequest, types.ErrInvalidRequest("face_choose must not be empty"))
		return
	}
	for _, face := range req.FaceChoose {
		if face.FaceID == "" {
			types.WriteError(w, http.StatusBadRequest, types.ErrInvalidRequest("face_id is required for each face"))
			return
		}
		if face.AudioID == "" && face.SoundFile == "" {
			types.WriteError(w, http.StatusBadRequest,
				types.ErrInvalidRequest("audio_id or sound_file is required for each face"))
			return
		}
	}

	start := time.Now()
	created, err := h.Service.CreateLipSync(r.Context(), req, reg)
	h.record(r, reg, kling.PurposeVideo, start, lipSyncUnits(req), err)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	shared.WriteJSON(w, created, http.StatusCreated)
}

// GetLipSyncTask handles GET /v1/videos/advanced-lip-sync/{id}.
func (h *Handlers) GetLipSyncTask(w http.ResponseWriter, r *http.Request) {
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
	task, err := h.Service.GetLipSyncTask(r.Context(), id, reg)
	h.record(r, reg, kling.PurposeVideo, start, 0, err)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	shared.WriteJSON(w, task, http.StatusOK)
}

// lipSyncUnits sums the estimated units over all audio windows that carry
// an explicit time range. Windows without one are billed on settlement.
func lipSyncUnits(req types.CreateLipSyncRequest) float64 {
	total := 0.0
	for _, face := range req.FaceChoose {
		if face.SoundStartTime == nil || face.SoundEndTime == nil {
			continue
		}
		dur := *face.SoundEndTime - *face.SoundStartTime
		if dur <= 0 {
			continue
		}
		total += generation.EstimateLipSyncCost(dur).Units
	}
	return total
}

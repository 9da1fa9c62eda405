package generate

import (
	"encoding/json"
	"net/http"

	"github.com/mandalnilabja/klingate/internal/generation"
	"github.com/mandalnilabja/klingate/internal/transport/http/handler/shared"
	"github.com/mandalnilabja/klingate/internal/types"
)

// CostEstimateRequest selects which price model to evaluate. Only the
// fields relevant to the chosen kind are read.
type CostEstimateRequest struct {
	Kind          string  `json:"kind"` // omni_video, motion_control, lip_sync or image
	Mode          string  `json:"mode,omitempty"`
	DurationSec   float64 `json:"duration_sec,omitempty"`
	HasVideoInput bool    `json:"has_video_input,omitempty"`
	HasAudio      bool    `json:"has_audio,omitempty"`
	Model         string  `json:"model,omitempty"`
	Count         int     `json:"count,omitempty"`
}

// EstimateCost handles POST /v1/cost/estimate. Purely local arithmetic;
// nothing is dispatched upstream and nothing is recorded.
func (h *Handlers) EstimateCost(w http.ResponseWriter, r *http.Request) {
	var req CostEstimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		types.WriteError(w, http.StatusBadRequest, types.ErrInvalidRequest("invalid request body"))
		return
	}

	var est generation.CostEstimate
	switch req.Kind {
	case "omni_video":
		est = generation.EstimateOmniVideoCost(req.Mode, req.DurationSec, req.HasVideoInput, req.HasAudio)
	case "motion_control":
		est = generation.EstimateMotionControlCost(req.Mode, req.DurationSec)
	case "lip_sync":
		est = generation.EstimateLipSyncCost(req.DurationSec)
	case "image":
		count := req.Count
		if count < 1 {
			count = 1
		}
		est = generation.EstimateImageCost(req.Model, count)
	default:
		types.WriteError(w, http.StatusBadRequest, types.ErrInvalidRequest("unknown kind: "+req.Kind))
		return
	}

	shared.WriteJSON(w, est, http.StatusOK)
}

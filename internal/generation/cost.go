package generation

import (
	"fmt"
	"math"
	"strings"

	"github.com/mandalnilabja/klingate/internal/types"
)

// usdPerUnit is the package-1 list price per compute unit.
const usdPerUnit = 0.14

// CostEstimate is a pre-submission price estimate for one task.
type CostEstimate struct {
	Units       float64 `json:"units"`
	USD         float64 `json:"usd"`
	Description string  `json:"description"`
}

// EstimateOmniVideoCost prices an omni video task. Video input and audio
// generation each raise the per-second unit rate.
func EstimateOmniVideoCost(mode string, durationSec float64, hasVideoInput, hasAudio bool) CostEstimate {
	var unitsPerSec float64
	if mode == types.ModeStd {
		switch {
		case !hasVideoInput && !hasAudio:
			unitsPerSec = 0.6
		case !hasVideoInput && hasAudio:
			unitsPerSec = 0.8
		case hasVideoInput && !hasAudio:
			unitsPerSec = 0.9
		default:
			unitsPerSec = 1.1
		}
	} else {
		switch {
		case !hasVideoInput && !hasAudio:
			unitsPerSec = 0.8
		case !hasVideoInput && hasAudio:
			unitsPerSec = 1.0
		case hasVideoInput && !hasAudio:
			unitsPerSec = 1.2
		default:
			unitsPerSec = 1.4
		}
	}

	units := unitsPerSec * durationSec
	var tags []string
	if hasVideoInput {
		tags = append(tags, "+video")
	}
	if hasAudio {
		tags = append(tags, "+audio")
	}
	desc := fmt.Sprintf("%s %gs %s", strings.ToUpper(mode), durationSec, strings.Join(tags, " "))
	return estimate(units, strings.TrimSpace(desc))
}

// EstimateMotionControlCost prices a motion control task.
func EstimateMotionControlCost(mode string, durationSec float64) CostEstimate {
	unitsPerSec := 0.8
	if mode == types.ModeStd {
		unitsPerSec = 0.5
	}
	units := unitsPerSec * durationSec
	return estimate(units, fmt.Sprintf("MC %s %gs", strings.ToUpper(mode), durationSec))
}

// EstimateLipSyncCost prices a lip-sync task: a flat face recognition fee
// plus 0.5 units per started 5-second chunk.
func EstimateLipSyncCost(durationSec float64) CostEstimate {
	const faceRecognitionUnits = 0.05
	chunks := math.Ceil(durationSec / 5)
	units := faceRecognitionUnits + 0.5*chunks
	return estimate(units, fmt.Sprintf("Lip-Sync %gs", durationSec))
}

// EstimateImageCost prices an image generation task per image.
func EstimateImageCost(model string, count int) CostEstimate {
	if count < 1 {
		count = 1
	}
	unitsPerImage := 8.0
	if model == types.ModelV21 {
		unitsPerImage = 4.0
	}
	units := unitsPerImage * float64(count)
	return estimate(units, fmt.Sprintf("Image %s x%d", model, count))
}

func estimate(units float64, desc string) CostEstimate {
	usd := units * usdPerUnit
	return CostEstimate{
		Units:       units,
		USD:         usd,
		Description: fmt.Sprintf("%s: %.1f units ($%.3f)", desc, units, usd),
	}
}

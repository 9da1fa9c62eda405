package generation

import (
	"math"
	"testing"

	"github.com/mandalnilabja/klingate/internal/types"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestEstimateOmniVideoCost(t *testing.T) {
	tests := []struct {
		name      string
		mode      string
		duration  float64
		video     bool
		audio     bool
		wantUnits float64
	}{
		{"std plain", types.ModeStd, 5, false, false, 3.0},
		{"std audio", types.ModeStd, 5, false, true, 4.0},
		{"std video", types.ModeStd, 10, true, false, 9.0},
		{"std both", types.ModeStd, 10, true, true, 11.0},
		{"pro plain", types.ModePro, 5, false, false, 4.0},
		{"pro both", types.ModePro, 5, true, true, 7.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est := EstimateOmniVideoCost(tt.mode, tt.duration, tt.video, tt.audio)
			if !almostEqual(est.Units, tt.wantUnits) {
				t.Errorf("units = %v, want %v", est.Units, tt.wantUnits)
			}
			if !almostEqual(est.USD, tt.wantUnits*0.14) {
				t.Errorf("usd = %v, want %v", est.USD, tt.wantUnits*0.14)
			}
		})
	}
}

func TestEstimateMotionControlCost(t *testing.T) {
	std := EstimateMotionControlCost(types.ModeStd, 10)
	if !almostEqual(std.Units, 5.0) {
		t.Errorf("std units = %v, want 5", std.Units)
	}
	pro := EstimateMotionControlCost(types.ModePro, 10)
	if !almostEqual(pro.Units, 8.0) {
		t.Errorf("pro units = %v, want 8", pro.Units)
	}
}

func TestEstimateLipSyncCost_ChunksRoundUp(t *testing.T) {
	// 12s rounds up to three 5-second chunks.
	est := EstimateLipSyncCost(12)
	if !almostEqual(est.Units, 0.05+1.5) {
		t.Errorf("units = %v, want 1.55", est.Units)
	}
}

func TestEstimateImageCost(t *testing.T) {
	o1 := EstimateImageCost(types.ModelImageO1, 2)
	if !almostEqual(o1.Units, 16) || !almostEqual(o1.USD, 2.24) {
		t.Errorf("o1 estimate = %+v", o1)
	}
	v21 := EstimateImageCost(types.ModelV21, 1)
	if !almostEqual(v21.Units, 4) {
		t.Errorf("v2-1 units = %v, want 4", v21.Units)
	}
}

package generation

import (
	"testing"

	"github.com/mandalnilabja/klingate/internal/types"
)

func TestBuildMotionControlRequest_Defaults(t *testing.T) {
	req := BuildMotionControlRequest(MotionControlParams{
		ImageURL: "https://example.com/char.png",
		VideoURL: "https://example.com/dance.mp4",
	})

	if req.CharacterOrientation != types.OrientationVideo {
		t.Errorf("expected video orientation default, got %s", req.CharacterOrientation)
	}
	if req.Mode != types.ModePro {
		t.Errorf("expected pro default, got %s", req.Mode)
	}
	if req.KeepOriginalSound != "no" {
		t.Errorf("expected sound discarded by default, got %s", req.KeepOriginalSound)
	}
}

func TestValidateMotionControl(t *testing.T) {
	tests := []struct {
		name        string
		orientation string
		duration    float64
		wantErrs    int
	}{
		{"image in range", types.OrientationImage, 8, 0},
		{"image too long", types.OrientationImage, 12, 1},
		{"video in range", types.OrientationVideo, 25, 0},
		{"video too long", types.OrientationVideo, 31, 1},
		{"too short", types.OrientationVideo, 2, 1},
		{"unknown duration", types.OrientationImage, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateMotionControl(tt.orientation, tt.duration)
			if len(errs) != tt.wantErrs {
				t.Errorf("got %d errors %v, want %d", len(errs), errs, tt.wantErrs)
			}
		})
	}
}

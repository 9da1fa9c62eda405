package generation

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mandalnilabja/klingate/internal/kling"
	"github.com/mandalnilabja/klingate/internal/types"
)

// Lip-sync is a two-step flow: identify the faces in a video to obtain a
// session, then submit the sync with per-face audio bindings.
const (
	identifyFacePath = "/v1/videos/identify-face"
	lipSyncPath      = "/v1/videos/advanced-lip-sync"
)

// IdentifyFaces starts face detection on a video.
func (s *Service) IdentifyFaces(ctx context.Context, req types.IdentifyFaceRequest, region kling.Region) (types.IdentifyFaceResult, error) {
	return kling.RequestData[types.IdentifyFaceResult](ctx, s.client, kling.RequestOptions{
		Method:  http.MethodPost,
		Path:    identifyFacePath,
		Body:    req,
		Region:  region,
		Purpose: kling.PurposeVideo,
	})
}

// GetFaceIdentifyResult queries a face identification task.
func (s *Service) GetFaceIdentifyResult(ctx context.Context, taskID string, region kling.Region) (types.IdentifyFaceResult, error) {
	return kling.RequestData[types.IdentifyFaceResult](ctx, s.client, kling.RequestOptions{
		Method:  http.MethodGet,
		Path:    identifyFacePath + "/" + taskID,
		Region:  region,
		Purpose: kling.PurposeVideo,
	})
}

// CreateLipSync submits a lip-sync task against an identified session.
func (s *Service) CreateLipSync(ctx context.Context, req types.CreateLipSyncRequest, region kling.Region) (types.TaskCreated, error) {
	return kling.RequestData[types.TaskCreated](ctx, s.client, kling.RequestOptions{
		Method:  http.MethodPost,
		Path:    lipSyncPath,
		Body:    req,
		Region:  region,
		Purpose: kling.PurposeVideo,
	})
}

// GetLipSyncTask queries the status of a lip-sync task.
func (s *Service) GetLipSyncTask(ctx context.Context, taskID string, region kling.Region) (types.VideoTaskResult, error) {
	return kling.RequestData[types.VideoTaskResult](ctx, s.client, kling.RequestOptions{
		Method:  http.MethodGet,
		Path:    lipSyncPath + "/" + taskID,
		Region:  region,
		Purpose: kling.PurposeVideo,
	})
}

// LipSyncAudioParams bind an uploaded audio file to one face.
type LipSyncAudioParams struct {
	SessionID           string
	FaceID              string
	AudioURL            string
	AudioStartTime      *float64
	AudioEndTime        *float64
	InsertTime          *float64
	SoundVolume         *float64
	OriginalAudioVolume *float64
}

// BuildLipSyncWithAudio assembles a lip-sync request driven by an audio
// file. Defaults: insert at 0s, new audio at full volume, original muted.
func BuildLipSyncWithAudio(p LipSyncAudioParams) types.CreateLipSyncRequest {
	face := types.LipSyncFaceConfig{
		FaceID:              p.FaceID,
		SoundFile:           p.AudioURL,
		SoundStartTime:      p.AudioStartTime,
		SoundEndTime:        p.AudioEndTime,
		SoundInsertTime:     p.InsertTime,
		SoundVolume:         p.SoundVolume,
		OriginalAudioVolume: p.OriginalAudioVolume,
	}
	fillLipSyncDefaults(&face)
	return types.CreateLipSyncRequest{
		SessionID:  p.SessionID,
		FaceChoose: []types.LipSyncFaceConfig{face},
	}
}

// LipSyncTTSParams bind a TTS-generated audio ID to one face.
type LipSyncTTSParams struct {
	SessionID           string
	FaceID              string
	AudioID             string
	InsertTime          *float64
	SoundVolume         *float64
	OriginalAudioVolume *float64
}

// BuildLipSyncWithTTS assembles a lip-sync request driven by TTS audio.
func BuildLipSyncWithTTS(p LipSyncTTSParams) types.CreateLipSyncRequest {
	face := types.LipSyncFaceConfig{
		FaceID:              p.FaceID,
		AudioID:             p.AudioID,
		SoundInsertTime:     p.InsertTime,
		SoundVolume:         p.SoundVolume,
		OriginalAudioVolume: p.OriginalAudioVolume,
	}
	fillLipSyncDefaults(&face)
	return types.CreateLipSyncRequest{
		SessionID:  p.SessionID,
		FaceChoose: []types.LipSyncFaceConfig{face},
	}
}

func fillLipSyncDefaults(face *types.LipSyncFaceConfig) {
	if face.SoundInsertTime == nil {
		face.SoundInsertTime = floatPtr(0)
	}
	if face.SoundVolume == nil {
		face.SoundVolume = floatPtr(1)
	}
	if face.OriginalAudioVolume == nil {
		face.OriginalAudioVolume = floatPtr(0)
	}
}

// ValidateLipSync checks the 2-60 second window on video and audio.
// A duration of 0 means unknown and is not checked.
func ValidateLipSync(videoDurationSec, audioDurationSec float64) []string {
	var errs []string
	check := func(name string, d float64) {
		if d == 0 {
			return
		}
		if d < 2 {
			errs = append(errs, fmt.Sprintf("%s must be at least 2 seconds, got %.1f", name, d))
		}
		if d > 60 {
			errs = append(errs, fmt.Sprintf("%s must be 60 seconds or less, got %.1f", name, d))
		}
	}
	check("video", videoDurationSec)
	check("audio", audioDurationSec)
	return errs
}

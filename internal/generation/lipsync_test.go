package generation

import "testing"

func TestBuildLipSyncWithAudio_Defaults(t *testing.T) {
	req := BuildLipSyncWithAudio(LipSyncAudioParams{
		SessionID: "sess-1",
		FaceID:    "face-1",
		AudioURL:  "https://example.com/voice.mp3",
	})

	if req.SessionID != "sess-1" || len(req.FaceChoose) != 1 {
		t.Fatalf("unexpected request %+v", req)
	}
	face := req.FaceChoose[0]
	if face.SoundFile != "https://example.com/voice.mp3" {
		t.Errorf("unexpected sound file %s", face.SoundFile)
	}
	if face.SoundInsertTime == nil || *face.SoundInsertTime != 0 {
		t.Errorf("expected insert time default 0, got %v", face.SoundInsertTime)
	}
	if face.SoundVolume == nil || *face.SoundVolume != 1 {
		t.Errorf("expected sound volume default 1, got %v", face.SoundVolume)
	}
	if face.OriginalAudioVolume == nil || *face.OriginalAudioVolume != 0 {
		t.Errorf("expected original volume default 0, got %v", face.OriginalAudioVolume)
	}
}

func TestBuildLipSyncWithTTS(t *testing.T) {
	req := BuildLipSyncWithTTS(LipSyncTTSParams{
		SessionID: "sess-2",
		FaceID:    "face-2",
		AudioID:   "tts-123",
	})

	face := req.FaceChoose[0]
	if face.AudioID != "tts-123" || face.SoundFile != "" {
		t.Errorf("expected TTS binding only, got %+v", face)
	}
}

func TestValidateLipSync(t *testing.T) {
	if errs := ValidateLipSync(30, 30); len(errs) != 0 {
		t.Errorf("expected in-range durations to pass, got %v", errs)
	}
	if errs := ValidateLipSync(1, 0); len(errs) != 1 {
		t.Errorf("expected short video rejection, got %v", errs)
	}
	if errs := ValidateLipSync(0, 61); len(errs) != 1 {
		t.Errorf("expected long audio rejection, got %v", errs)
	}
	// 0 means unknown, not invalid.
	if errs := ValidateLipSync(0, 0); len(errs) != 0 {
		t.Errorf("expected unknown durations to pass, got %v", errs)
	}
}

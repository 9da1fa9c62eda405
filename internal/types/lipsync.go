package types

// IdentifyFaceRequest starts face detection on a video. Exactly one of
// VideoURL or VideoID should be set.
type IdentifyFaceRequest struct {
	VideoURL string `json:"video_url,omitempty"`
	VideoID  string `json:"video_id,omitempty"`
}

// FaceData describes one detected face and its time range in the video.
type FaceData struct {
	FaceID    string  `json:"face_id"`
	FaceImage string  `json:"face_image"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

// IdentifyFaceResult carries the session handle that a subsequent lip-sync
// request must reference, plus the detected faces.
type IdentifyFaceResult struct {
	SessionID  string     `json:"session_id"`
	FaceData   []FaceData `json:"face_data"`
	TaskStatus string     `json:"task_status,omitempty"`
}

// LipSyncFaceConfig binds audio to one detected face. Either AudioID
// (TTS output) or SoundFile (uploaded audio) is set, not both.
// Volume fields range 0-2.
type LipSyncFaceConfig struct {
	FaceID              string   `json:"face_id"`
	AudioID             string   `json:"audio_id,omitempty"`
	SoundFile           string   `json:"sound_file,omitempty"`
	SoundStartTime      *float64 `json:"sound_start_time,omitempty"`
	SoundEndTime        *float64 `json:"sound_end_time,omitempty"`
	SoundInsertTime     *float64 `json:"sound_insert_time,omitempty"`
	SoundVolume         *float64 `json:"sound_volume,omitempty"`
	OriginalAudioVolume *float64 `json:"original_audio_volume,omitempty"`
}

// CreateLipSyncRequest is the second step of the lip-sync flow, using the
// session returned by face identification.
type CreateLipSyncRequest struct {
	SessionID      string              `json:"session_id"`
	FaceChoose     []LipSyncFaceConfig `json:"face_choose"`
	WatermarkInfo  *WatermarkInfo      `json:"watermark_info,omitempty"`
	CallbackURL    string              `json:"callback_url,omitempty"`
	ExternalTaskID string              `json:"external_task_id,omitempty"`
}

package types

// Character orientation for motion control. The output follows the aspect
// ratio of the chosen input: image orientation caps at 10 seconds, video
// orientation at 30.
const (
	OrientationImage = "image"
	OrientationVideo = "video"
)

// CreateMotionControlRequest transfers motion from a reference video onto
// a character image.
type CreateMotionControlRequest struct {
	ImageURL             string         `json:"image_url"`
	VideoURL             string         `json:"video_url"`
	CharacterOrientation string         `json:"character_orientation"`
	Mode                 string         `json:"mode"`
	Prompt               string         `json:"prompt,omitempty"`
	KeepOriginalSound    string         `json:"keep_original_sound,omitempty"`
	WatermarkInfo        *WatermarkInfo `json:"watermark_info,omitempty"`
	CallbackURL          string         `json:"callback_url,omitempty"`
	ExternalTaskID       string         `json:"external_task_id,omitempty"`
}

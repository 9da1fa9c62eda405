package types

// Generation mode and the shared enums for the video endpoints.
const (
	ModeStd = "std"
	ModePro = "pro"
)

// Omni video model names.
const (
	ModelVideoO1 = "kling-video-o1"
	ModelV3Omni  = "kling-v3-omni"
	ModelV26     = "kling-v2-6"
)

// ImageRef attaches a frame-anchoring image to a video request.
// Type is "first_frame" or "end_frame"; empty means first frame.
type ImageRef struct {
	ImageURL string `json:"image_url"`
	Type     string `json:"type,omitempty"`
}

// ElementRef points at an element in the account library.
type ElementRef struct {
	ElementID int64 `json:"element_id"`
}

// VideoRef attaches a reference video. ReferType "feature" extracts
// style, "base" edits the clip in place.
type VideoRef struct {
	VideoURL          string `json:"video_url"`
	ReferType         string `json:"refer_type"`
	KeepOriginalSound string `json:"keep_original_sound,omitempty"`
}

// ShotPrompt is one entry of a multi-shot storyboard.
type ShotPrompt struct {
	Index    int    `json:"index"`
	Prompt   string `json:"prompt"`
	Duration string `json:"duration"`
}

// WatermarkInfo toggles the service watermark on outputs.
type WatermarkInfo struct {
	Watermark bool `json:"watermark"`
}

// CreateOmniVideoRequest is the request body for the omni video endpoint.
// It covers text-to-video, image-to-video, storyboards and reference-based
// generation; unused sections are simply omitted.
type CreateOmniVideoRequest struct {
	ModelName      string         `json:"model_name,omitempty"`
	Prompt         string         `json:"prompt"`
	NegativePrompt string         `json:"negative_prompt,omitempty"`
	ImageList      []ImageRef     `json:"image_list,omitempty"`
	ElementList    []ElementRef   `json:"element_list,omitempty"`
	VideoList      []VideoRef     `json:"video_list,omitempty"`
	Mode           string         `json:"mode,omitempty"`
	AspectRatio    string         `json:"aspect_ratio,omitempty"`
	Duration       string         `json:"duration,omitempty"`
	MultiShot      bool           `json:"multi_shot,omitempty"`
	ShotType       string         `json:"shot_type,omitempty"`
	MultiPrompt    []ShotPrompt   `json:"multi_prompt,omitempty"`
	CfgScale       *float64       `json:"cfg_scale,omitempty"`
	WatermarkInfo  *WatermarkInfo `json:"watermark_info,omitempty"`
	CallbackURL    string         `json:"callback_url,omitempty"`
	ExternalTaskID string         `json:"external_task_id,omitempty"`
}

// VideoTaskResult is the status (and, when finished, output) of a video task.
type VideoTaskResult struct {
	TaskStatus
	TaskResult *struct {
		Videos []VideoResult `json:"videos"`
	} `json:"task_result,omitempty"`
}

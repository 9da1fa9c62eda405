package types

// Image generation models and resolutions.
const (
	ModelImageO1 = "kling-image-o1"
	ModelV21     = "kling-v2-1"

	Resolution1K = "1k"
	Resolution2K = "2k"
)

// CreateImageRequest is the request body for image generation.
// Setting Image switches the task to image-to-image; the fidelity knobs
// only apply in that case.
type CreateImageRequest struct {
	ModelName      string   `json:"model_name,omitempty"`
	Prompt         string   `json:"prompt"`
	NegativePrompt string   `json:"negative_prompt,omitempty"`
	Image          string   `json:"image,omitempty"`
	ImageReference string   `json:"image_reference,omitempty"`
	ImageFidelity  *float64 `json:"image_fidelity,omitempty"`
	HumanFidelity  *float64 `json:"human_fidelity,omitempty"`
	Resolution     string   `json:"resolution,omitempty"`
	N              int      `json:"n,omitempty"`
	AspectRatio    string   `json:"aspect_ratio,omitempty"`
}

// ImageResult is one generated image inside a finished task.
type ImageResult struct {
	Index int    `json:"index"`
	URL   string `json:"url"`
}

// ImageTaskResult is the status (and, when finished, output) of an image task.
type ImageTaskResult struct {
	TaskStatus
	TaskResult *struct {
		Images []ImageResult `json:"images"`
	} `json:"task_result,omitempty"`
}

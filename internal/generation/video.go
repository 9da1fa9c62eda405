package generation

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/mandalnilabja/klingate/internal/kling"
	"github.com/mandalnilabja/klingate/internal/types"
)

const omniVideoPath = "/v1/videos/omni-video"

// CreateOmniVideo submits an omni video generation task. The model name
// defaults to kling-v3-omni when unset.
func (s *Service) CreateOmniVideo(ctx context.Context, req types.CreateOmniVideoRequest, region kling.Region) (types.TaskCreated, error) {
	if req.ModelName == "" {
		req.ModelName = types.ModelV3Omni
	}
	return kling.RequestData[types.TaskCreated](ctx, s.client, kling.RequestOptions{
		Method:  http.MethodPost,
		Path:    omniVideoPath,
		Body:    req,
		Region:  region,
		Purpose: kling.PurposeVideo,
	})
}

// GetOmniVideoTask queries the status of an omni video task.
func (s *Service) GetOmniVideoTask(ctx context.Context, taskID string, region kling.Region) (types.VideoTaskResult, error) {
	return kling.RequestData[types.VideoTaskResult](ctx, s.client, kling.RequestOptions{
		Method:  http.MethodGet,
		Path:    omniVideoPath + "/" + taskID,
		Region:  region,
		Purpose: kling.PurposeVideo,
	})
}

// ListOmniVideoTasks pages through recent omni video tasks.
func (s *Service) ListOmniVideoTasks(ctx context.Context, pageNum, pageSize int, region kling.Region) (types.TaskList[types.VideoTaskResult], error) {
	return kling.RequestData[types.TaskList[types.VideoTaskResult]](ctx, s.client, kling.RequestOptions{
		Method:  http.MethodGet,
		Path:    listPath(omniVideoPath, pageNum, pageSize),
		Region:  region,
		Purpose: kling.PurposeVideo,
	})
}

// T2VParams are the inputs for a plain text-to-video request.
type T2VParams struct {
	Prompt         string
	NegativePrompt string
	Mode           string
	AspectRatio    string
	Duration       string
	CfgScale       *float64
}

// BuildT2VRequest assembles a text-to-video request with defaults:
// std mode, 16:9, 5 seconds, cfg_scale 0.5.
func BuildT2VRequest(p T2VParams) types.CreateOmniVideoRequest {
	req := types.CreateOmniVideoRequest{
		ModelName:      types.ModelV3Omni,
		Prompt:         p.Prompt,
		NegativePrompt: p.NegativePrompt,
		Mode:           p.Mode,
		AspectRatio:    p.AspectRatio,
		Duration:       p.Duration,
		CfgScale:       p.CfgScale,
	}
	if req.Mode == "" {
		req.Mode = types.ModeStd
	}
	if req.AspectRatio == "" {
		req.AspectRatio = "16:9"
	}
	if req.Duration == "" {
		req.Duration = "5"
	}
	if req.CfgScale == nil {
		req.CfgScale = floatPtr(0.5)
	}
	return req
}

// I2VParams are the inputs for an image-to-video request.
type I2VParams struct {
	Prompt         string
	ImageURL       string
	ImageType      string // first_frame or end_frame
	NegativePrompt string
	Mode           string
	AspectRatio    string
	Duration       string
	CfgScale       *float64
}

// BuildI2VRequest assembles an image-to-video request anchored on one frame.
func BuildI2VRequest(p I2VParams) types.CreateOmniVideoRequest {
	imageType := p.ImageType
	if imageType == "" {
		imageType = "first_frame"
	}
	req := BuildT2VRequest(T2VParams{
		Prompt:         p.Prompt,
		NegativePrompt: p.NegativePrompt,
		Mode:           p.Mode,
		AspectRatio:    p.AspectRatio,
		Duration:       p.Duration,
		CfgScale:       p.CfgScale,
	})
	req.ImageList = []types.ImageRef{{ImageURL: p.ImageURL, Type: imageType}}
	return req
}

// Shot is one storyboard entry.
type Shot struct {
	Prompt   string
	Duration string
}

// StoryboardParams are the inputs for a multi-shot storyboard request.
// Up to 6 shots, 15 seconds total.
type StoryboardParams struct {
	Shots       []Shot
	Mode        string
	AspectRatio string
	ElementIDs  []int64
	ImageURL    string
}

// BuildStoryboardRequest assembles a multi-shot request. When element IDs
// are given, each shot prompt is prefixed with the element placeholder so
// the referenced character stays consistent across shots.
func BuildStoryboardRequest(p StoryboardParams) types.CreateOmniVideoRequest {
	prompts := make([]string, len(p.Shots))
	multi := make([]types.ShotPrompt, len(p.Shots))
	for i, shot := range p.Shots {
		prompt := shot.Prompt
		if len(p.ElementIDs) > 0 {
			prompt = "<<<element_1>>> " + prompt
		}
		prompts[i] = prompt
		multi[i] = types.ShotPrompt{Index: i + 1, Prompt: prompt, Duration: shot.Duration}
	}

	req := types.CreateOmniVideoRequest{
		ModelName:   types.ModelV3Omni,
		Prompt:      strings.Join(prompts, "; "),
		MultiShot:   true,
		ShotType:    "cut",
		MultiPrompt: multi,
		Mode:        p.Mode,
		AspectRatio: p.AspectRatio,
	}
	if req.Mode == "" {
		req.Mode = types.ModeStd
	}
	if req.AspectRatio == "" {
		req.AspectRatio = "16:9"
	}

	for _, id := range p.ElementIDs {
		req.ElementList = append(req.ElementList, types.ElementRef{ElementID: id})
	}
	if p.ImageURL != "" {
		req.ImageList = []types.ImageRef{{ImageURL: p.ImageURL, Type: "first_frame"}}
	}
	return req
}

// ReferenceImage is one image input of an all-in-one reference request.
type ReferenceImage struct {
	URL  string
	Type string // first_frame or end_frame, empty for unanchored
}

// AllInOneParams combine element, image and video references in one request.
type AllInOneParams struct {
	Prompt            string
	ElementIDs        []int64
	Images            []ReferenceImage
	VideoURL          string
	VideoReferType    string // feature or base
	KeepOriginalSound bool
	Mode              string
	AspectRatio       string
	Duration          string
}

// BuildAllInOneRequest assembles a combined reference request. Element
// placeholders are injected ahead of the prompt in library order.
func BuildAllInOneRequest(p AllInOneParams) types.CreateOmniVideoRequest {
	req := types.CreateOmniVideoRequest{
		ModelName:   types.ModelV3Omni,
		Prompt:      p.Prompt,
		Mode:        p.Mode,
		AspectRatio: p.AspectRatio,
		Duration:    p.Duration,
	}
	if req.Mode == "" {
		req.Mode = types.ModePro
	}
	if req.AspectRatio == "" {
		req.AspectRatio = "16:9"
	}
	if req.Duration == "" {
		req.Duration = "5"
	}

	if len(p.ElementIDs) > 0 {
		placeholders := make([]string, len(p.ElementIDs))
		for i, id := range p.ElementIDs {
			req.ElementList = append(req.ElementList, types.ElementRef{ElementID: id})
			placeholders[i] = fmt.Sprintf("<<<element_%d>>>", i+1)
		}
		req.Prompt = strings.Join(placeholders, " ") + " " + p.Prompt
	}

	for _, img := range p.Images {
		req.ImageList = append(req.ImageList, types.ImageRef{ImageURL: img.URL, Type: img.Type})
	}

	if p.VideoURL != "" {
		referType := p.VideoReferType
		if referType == "" {
			referType = "feature"
		}
		req.VideoList = []types.VideoRef{{
			VideoURL:          p.VideoURL,
			ReferType:         referType,
			KeepOriginalSound: yesNo(p.KeepOriginalSound),
		}}
	}
	return req
}

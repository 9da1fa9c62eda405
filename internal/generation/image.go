package generation

import (
	"context"
	"net/http"

	"github.com/mandalnilabja/klingate/internal/kling"
	"github.com/mandalnilabja/klingate/internal/types"
)

const imagePath = "/v1/images/generations"

// CreateImage submits an image generation task.
func (s *Service) CreateImage(ctx context.Context, req types.CreateImageRequest, region kling.Region) (types.ImageTaskResult, error) {
	if req.ModelName == "" {
		req.ModelName = types.ModelImageO1
	}
	return kling.RequestData[types.ImageTaskResult](ctx, s.client, kling.RequestOptions{
		Method:  http.MethodPost,
		Path:    imagePath,
		Body:    req,
		Region:  region,
		Purpose: kling.PurposeImage,
	})
}

// GetImageTask queries the status of an image generation task.
func (s *Service) GetImageTask(ctx context.Context, taskID string, region kling.Region) (types.ImageTaskResult, error) {
	return kling.RequestData[types.ImageTaskResult](ctx, s.client, kling.RequestOptions{
		Method:  http.MethodGet,
		Path:    imagePath + "/" + taskID,
		Region:  region,
		Purpose: kling.PurposeImage,
	})
}

// ImageParams are the inputs for an image generation request.
type ImageParams struct {
	Prompt            string
	NegativePrompt    string
	Model             string // kling-image-o1 (default) or kling-v2-1
	Resolution        string // 1k (default) or 2k
	AspectRatio       string
	ReferenceImageURL string
	ImageFidelity     *float64
	HumanFidelity     *float64
	Count             int
}

// BuildImageRequest assembles an image request with defaults. Setting a
// reference image URL switches to image-to-image with fidelity defaults
// of 0.5 (image) and 0.45 (human).
func BuildImageRequest(p ImageParams) types.CreateImageRequest {
	req := types.CreateImageRequest{
		ModelName:      p.Model,
		Prompt:         p.Prompt,
		NegativePrompt: p.NegativePrompt,
		Resolution:     p.Resolution,
		AspectRatio:    p.AspectRatio,
		N:              p.Count,
	}
	if req.ModelName == "" {
		req.ModelName = types.ModelImageO1
	}
	if req.Resolution == "" {
		req.Resolution = types.Resolution1K
	}
	if req.AspectRatio == "" {
		req.AspectRatio = "1:1"
	}
	if req.N == 0 {
		req.N = 1
	}

	if p.ReferenceImageURL != "" {
		req.Image = p.ReferenceImageURL
		req.ImageFidelity = p.ImageFidelity
		req.HumanFidelity = p.HumanFidelity
		if req.ImageFidelity == nil {
			req.ImageFidelity = floatPtr(0.5)
		}
		if req.HumanFidelity == nil {
			req.HumanFidelity = floatPtr(0.45)
		}
	}
	return req
}

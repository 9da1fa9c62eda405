package generation

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mandalnilabja/klingate/internal/kling"
	"github.com/mandalnilabja/klingate/internal/types"
)

const elementPath = "/v1/elements"

// CreateImageElement registers a character element from reference images.
func (s *Service) CreateImageElement(ctx context.Context, req types.CreateImageElementRequest, region kling.Region) (types.ElementCreated, error) {
	return kling.RequestData[types.ElementCreated](ctx, s.client, kling.RequestOptions{
		Method: http.MethodPost,
		Path:   elementPath + "/image-character",
		Body:   req,
		Region: region,
	})
}

// CreateVideoElement registers a character element from a 3-8 second video,
// capturing both appearance and voice.
func (s *Service) CreateVideoElement(ctx context.Context, req types.CreateVideoElementRequest, region kling.Region) (types.ElementCreated, error) {
	return kling.RequestData[types.ElementCreated](ctx, s.client, kling.RequestOptions{
		Method: http.MethodPost,
		Path:   elementPath + "/video-character",
		Body:   req,
		Region: region,
	})
}

// GetElement fetches one element by ID.
func (s *Service) GetElement(ctx context.Context, elementID int64, region kling.Region) (types.ElementResult, error) {
	return kling.RequestData[types.ElementResult](ctx, s.client, kling.RequestOptions{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("%s/%d", elementPath, elementID),
		Region: region,
	})
}

// ListElements pages through the element library.
func (s *Service) ListElements(ctx context.Context, pageNum, pageSize int, region kling.Region) (types.TaskList[types.ElementResult], error) {
	return kling.RequestData[types.TaskList[types.ElementResult]](ctx, s.client, kling.RequestOptions{
		Method: http.MethodGet,
		Path:   listPath(elementPath, pageNum, pageSize),
		Region: region,
	})
}

// DeleteElement removes an element from the library.
func (s *Service) DeleteElement(ctx context.Context, elementID int64, region kling.Region) error {
	_, err := s.client.Request(ctx, kling.RequestOptions{
		Method: http.MethodDelete,
		Path:   fmt.Sprintf("%s/%d", elementPath, elementID),
		Region: region,
	})
	return err
}

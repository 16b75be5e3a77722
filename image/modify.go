package image

import (
	"context"
	"fmt"
	"strconv"

	"github.com/lumen-labs/lumen-go/core"
)

// DefaultSimilarity is applied when ModifyRequest.Similarity is nil.
const DefaultSimilarity = 30

// ModifyRequest describes an image modification call. Width and Height must
// describe the input image; the client validates them against the endpoint's
// size family before any upload.
type ModifyRequest struct {
	// Image is the input image. Required.
	Image core.Input

	// Modification describes the change to apply. Required.
	Modification string

	// Width and Height of the input image, in pixels. Required.
	Width  int
	Height int

	// Similarity to preserve, 0-100. Defaults to DefaultSimilarity when nil.
	Similarity *int

	// OutputType defaults to OutputURL.
	OutputType OutputType
}

// ModifyResponse is the platform reply merged with the success envelope.
type ModifyResponse struct {
	core.Response
	Image          string `json:"image"`
	ProcessingTime string `json:"processing_time"`
}

// ModifyV2 edits an image using the v2 model family. Input dimensions must
// satisfy the small range-bounded family: each side within [128, 1024] and
// at most one side above 512.
func (s *Service) ModifyV2(ctx context.Context, req *ModifyRequest) (*ModifyResponse, error) {
	return s.modify(ctx, modifyV2Path, req, validateModifyV2)
}

// ModifyV3 edits an image using the v3 model family. Input dimensions must
// match one of the discrete supported sizes in either orientation.
func (s *Service) ModifyV3(ctx context.Context, req *ModifyRequest) (*ModifyResponse, error) {
	return s.modify(ctx, modifyV3Path, req, validateModifyV3)
}

func (s *Service) modify(ctx context.Context, path string, req *ModifyRequest, validateSize func(int, int) error) (*ModifyResponse, error) {
	if req == nil || req.Image.IsZero() {
		return nil, ErrImageRequired
	}
	if req.Modification == "" {
		return nil, ErrModificationRequired
	}

	similarity := DefaultSimilarity
	if req.Similarity != nil {
		similarity = *req.Similarity
		if similarity < 0 || similarity > 100 {
			return nil, fmt.Errorf("similarity must be within [0, 100], got %d", similarity)
		}
	}

	if err := validateSize(req.Width, req.Height); err != nil {
		return nil, err
	}

	payload, err := req.Image.Payload(ctx, s.client)
	if err != nil {
		return nil, err
	}

	form := &core.Form{}
	form.AddField("modification", req.Modification)
	form.AddField("width", strconv.Itoa(req.Width))
	form.AddField("height", strconv.Itoa(req.Height))
	form.AddField("similarity", strconv.Itoa(similarity))
	form.AddField("output_type", outputOrDefault(req.OutputType))
	form.AddFile("existing_image", payload)

	var resp ModifyResponse
	if err := s.client.PostMultipart(ctx, path, form, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

package image

import (
	"context"
	"strconv"

	"github.com/lumen-labs/lumen-go/core"
)

// UpscaleRequest describes an image upscale call.
type UpscaleRequest struct {
	// Image is the input image. Required.
	Image core.Input

	// Width and Height of the input image, in pixels. Required.
	Width  int
	Height int

	// Scale is the upscale factor, 2 or 4. Defaults to 2 when zero.
	Scale int

	// OutputType defaults to OutputURL.
	OutputType OutputType
}

// UpscaleResponse is the platform reply merged with the success envelope.
type UpscaleResponse struct {
	core.Response
	Image          string `json:"image"`
	ProcessingTime string `json:"processing_time"`
}

// Upscale enlarges an image by the requested factor. The scaled output is
// bounded before any upload: at most MaxUpscalePixels total pixels and at
// least MinUpscaleDim on each side.
func (s *Service) Upscale(ctx context.Context, req *UpscaleRequest) (*UpscaleResponse, error) {
	if req == nil || req.Image.IsZero() {
		return nil, ErrImageRequired
	}

	scale := req.Scale
	if scale == 0 {
		scale = 2
	}
	if err := validateUpscale(req.Width, req.Height, scale); err != nil {
		return nil, err
	}

	payload, err := req.Image.Payload(ctx, s.client)
	if err != nil {
		return nil, err
	}

	form := &core.Form{}
	form.AddField("scale", strconv.Itoa(scale))
	form.AddField("width", strconv.Itoa(req.Width))
	form.AddField("height", strconv.Itoa(req.Height))
	form.AddField("output_type", outputOrDefault(req.OutputType))
	form.AddFile("existing_image", payload)

	var resp UpscaleResponse
	if err := s.client.PostMultipart(ctx, upscalePath, form, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

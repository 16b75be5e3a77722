// Package image provides image generation, modification, and upscaling
// against the Lumen image API.
package image

import (
	"context"
	"errors"
	"fmt"

	"github.com/lumen-labs/lumen-go/core"
)

// Endpoint paths.
const (
	generatePath = "/api/ai/images/generate/v3"
	modifyV2Path = "/api/ai/images/modify/v2"
	modifyV3Path = "/api/ai/images/modify/v3"
	upscalePath  = "/api/ai/images/upscale/v3"
)

// Orientation selects the aspect of a generated image. Each orientation maps
// to a fixed width/height pair.
type Orientation string

const (
	OrientationSquare    Orientation = "square"    // 1024x1024
	OrientationLandscape Orientation = "landscape" // 1344x768
	OrientationPortrait  Orientation = "portrait"  // 768x1344
)

// dimensionsFor returns the fixed size pair for an orientation.
func dimensionsFor(o Orientation) (width, height int, ok bool) {
	switch o {
	case OrientationSquare:
		return 1024, 1024, true
	case OrientationLandscape:
		return 1344, 768, true
	case OrientationPortrait:
		return 768, 1344, true
	default:
		return 0, 0, false
	}
}

// OutputType selects how the platform returns image data.
type OutputType string

const (
	OutputURL  OutputType = "url"
	OutputBlob OutputType = "blob"
)

// Validation errors.
var (
	ErrPromptsRequired      = errors.New("prompts are required: set GenerateRequest.Prompts to at least one prompt")
	ErrImageRequired        = errors.New("image is required: set the Image input")
	ErrModificationRequired = errors.New("modification is required: describe the change to apply")
)

// Service issues image requests.
type Service struct {
	client *core.Client
}

// New creates an image Service bound to client.
func New(client *core.Client) *Service {
	return &Service{client: client}
}

// GenerateRequest describes a text-to-image call.
type GenerateRequest struct {
	// Prompts guide the generation. At least one is required.
	Prompts []string

	// Orientation defaults to OrientationSquare.
	Orientation Orientation

	// OutputType defaults to OutputURL.
	OutputType OutputType
}

// GenerateResponse is the platform reply merged with the success envelope.
type GenerateResponse struct {
	core.Response
	Image          string `json:"image"`
	ProcessingTime string `json:"processing_time"`
}

// Generate creates an image from text prompts.
func (s *Service) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	if req == nil || len(req.Prompts) == 0 {
		return nil, ErrPromptsRequired
	}

	orientation := req.Orientation
	if orientation == "" {
		orientation = OrientationSquare
	}
	width, height, ok := dimensionsFor(orientation)
	if !ok {
		return nil, fmt.Errorf("orientation must be square, landscape, or portrait, got %q", orientation)
	}

	body := map[string]any{
		"prompt":      req.Prompts,
		"width":       width,
		"height":      height,
		"output_type": outputOrDefault(req.OutputType),
	}

	var resp GenerateResponse
	if err := s.client.PostJSON(ctx, generatePath, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func outputOrDefault(o OutputType) string {
	if o == "" {
		return string(OutputURL)
	}
	return string(o)
}

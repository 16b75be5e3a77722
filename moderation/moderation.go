// Package moderation provides text and image moderation against the Lumen
// moderation API.
package moderation

import (
	"context"
	"errors"

	"github.com/lumen-labs/lumen-go/core"
)

// Endpoint paths.
const (
	textPath  = "/api/ai/moderation/text"
	imagePath = "/api/ai/moderation/image"
)

// Validation errors.
var (
	ErrContentRequired = errors.New("content is required: set TextRequest.Content")
	ErrImageRequired   = errors.New("image is required: set ImageRequest.Image")
)

// Service issues moderation requests.
type Service struct {
	client *core.Client
}

// New creates a moderation Service bound to client.
func New(client *core.Client) *Service {
	return &Service{client: client}
}

// TextRequest describes a text moderation call.
type TextRequest struct {
	// Content is the text to score. Required.
	Content string
}

// TextResponse is the platform reply merged with the success envelope.
type TextResponse struct {
	core.Response
	Flagged        bool               `json:"flagged"`
	Categories     map[string]bool    `json:"categories"`
	CategoryScores map[string]float64 `json:"category_scores"`
	ProcessingTime string             `json:"processing_time"`
}

// Text scores a piece of text against the platform's moderation categories.
func (s *Service) Text(ctx context.Context, req *TextRequest) (*TextResponse, error) {
	if req == nil || req.Content == "" {
		return nil, ErrContentRequired
	}

	body := map[string]any{"text_content": req.Content}

	var resp TextResponse
	if err := s.client.PostJSON(ctx, textPath, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ImageRequest describes an image moderation call.
type ImageRequest struct {
	// Image is the input image. Required.
	Image core.Input
}

// ImageResponse is the platform reply merged with the success envelope.
type ImageResponse struct {
	core.Response
	Flagged        bool            `json:"flagged"`
	Labels         []ContentLabel  `json:"labels"`
	Categories     map[string]bool `json:"categories"`
	ProcessingTime string          `json:"processing_time"`
}

// ContentLabel is one flagged category with its confidence.
type ContentLabel struct {
	Name       string  `json:"name"`
	Parent     string  `json:"parent,omitempty"`
	Confidence float64 `json:"confidence"`
}

// Image scores an image against the platform's moderation categories.
func (s *Service) Image(ctx context.Context, req *ImageRequest) (*ImageResponse, error) {
	if req == nil || req.Image.IsZero() {
		return nil, ErrImageRequired
	}

	payload, err := req.Image.Payload(ctx, s.client)
	if err != nil {
		return nil, err
	}

	form := &core.Form{}
	form.AddFile("image", payload)

	var resp ImageResponse
	if err := s.client.PostMultipart(ctx, imagePath, form, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

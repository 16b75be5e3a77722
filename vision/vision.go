// Package vision provides face detection, face comparison, and image
// analysis against the Lumen vision API.
package vision

import (
	"context"
	"errors"
	"fmt"

	"github.com/lumen-labs/lumen-go/core"
)

// Endpoint paths.
const (
	faceDetectPath  = "/api/ai/images/v2/facial-detection"
	faceComparePath = "/api/ai/images/v2/face-comparison"
	analyzePath     = "/api/ai/images/v2/image-analysis"
)

// Validation errors.
var (
	ErrImageRequired       = errors.New("image is required: set FaceRequest.Image")
	ErrSourceImageRequired = errors.New("source image is required: set CompareRequest.Source")
	ErrTargetImageRequired = errors.New("target image is required: set CompareRequest.Target")
	ErrImagesRequired      = errors.New("images are required: set AnalyzeRequest.Images to at least one image")
)

// Service issues vision requests.
type Service struct {
	client *core.Client
}

// New creates a vision Service bound to client.
func New(client *core.Client) *Service {
	return &Service{client: client}
}

// BoundingBox locates a detection within the image, in relative coordinates.
type BoundingBox struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Face is one detected face.
type Face struct {
	BoundingBox BoundingBox        `json:"bounding_box"`
	Confidence  float64            `json:"confidence"`
	Emotions    map[string]float64 `json:"emotions,omitempty"`
	AgeLow      int                `json:"age_low,omitempty"`
	AgeHigh     int                `json:"age_high,omitempty"`
}

// FaceRequest describes a face detection call.
type FaceRequest struct {
	// Image is the input image. Required.
	Image core.Input
}

// FaceResponse is the platform reply merged with the success envelope.
type FaceResponse struct {
	core.Response
	Faces          []Face `json:"faces"`
	ProcessingTime string `json:"processing_time"`
}

// DetectFaces finds faces in an image.
func (s *Service) DetectFaces(ctx context.Context, req *FaceRequest) (*FaceResponse, error) {
	if req == nil || req.Image.IsZero() {
		return nil, ErrImageRequired
	}

	payload, err := req.Image.Payload(ctx, s.client)
	if err != nil {
		return nil, err
	}

	form := &core.Form{}
	form.AddFile("image", payload)

	var resp FaceResponse
	if err := s.client.PostMultipart(ctx, faceDetectPath, form, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CompareRequest describes a face comparison call.
type CompareRequest struct {
	// Source is the reference image. Required.
	Source core.Input

	// Target is the image to compare against Source. Required.
	Target core.Input
}

// CompareResponse is the platform reply merged with the success envelope.
type CompareResponse struct {
	core.Response
	Match          bool    `json:"match"`
	Similarity     float64 `json:"similarity"`
	ProcessingTime string  `json:"processing_time"`
}

// CompareFaces measures whether the same face appears in both images.
// Required inputs are checked in a fixed order: source, then target.
func (s *Service) CompareFaces(ctx context.Context, req *CompareRequest) (*CompareResponse, error) {
	if req == nil || req.Source.IsZero() {
		return nil, ErrSourceImageRequired
	}
	if req.Target.IsZero() {
		return nil, ErrTargetImageRequired
	}

	source, err := req.Source.Payload(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("source image: %w", err)
	}
	target, err := req.Target.Payload(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("target image: %w", err)
	}

	form := &core.Form{}
	form.AddFile("source_image", source)
	form.AddFile("target_image", target)

	var resp CompareResponse
	if err := s.client.PostMultipart(ctx, faceComparePath, form, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AnalyzeRequest describes an image analysis call.
type AnalyzeRequest struct {
	// Images to analyze. At least one is required.
	Images []core.Input

	// Question optionally directs the analysis.
	Question string
}

// AnalyzeResponse is the platform reply merged with the success envelope.
type AnalyzeResponse struct {
	core.Response
	Analysis       string   `json:"analysis"`
	Labels         []string `json:"labels,omitempty"`
	ProcessingTime string   `json:"processing_time"`
}

// Analyze describes the content of one or more images.
func (s *Service) Analyze(ctx context.Context, req *AnalyzeRequest) (*AnalyzeResponse, error) {
	if req == nil || len(req.Images) == 0 {
		return nil, ErrImagesRequired
	}

	form := &core.Form{}
	if req.Question != "" {
		form.AddField("question", req.Question)
	}
	for i, in := range req.Images {
		if in.IsZero() {
			return nil, fmt.Errorf("image %d: %w", i, ErrImageRequired)
		}
		payload, err := in.Payload(ctx, s.client)
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i, err)
		}
		form.AddFile("images", payload)
	}

	var resp AnalyzeResponse
	if err := s.client.PostMultipart(ctx, analyzePath, form, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Package content provides text generation against the Lumen content API.
package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/lumen-labs/lumen-go/core"
)

// generatePath is the content generation endpoint.
const generatePath = "/api/ai/content/v4"

// Model identifies a content generation model.
type Model string

const (
	// ModelCrystal is the default general-purpose model.
	ModelCrystal Model = "crystal-v4"
	// ModelCrystalLite trades quality for latency.
	ModelCrystalLite Model = "crystal-v4-lite"
	// ModelPrism is the experimental reasoning model.
	ModelPrism Model = "prism-alpha"
)

// DefaultRandomness is applied when GenerateRequest.Randomness is nil.
const DefaultRandomness = 0.4

// Turn is one prior exchange in a conversation history.
type Turn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Conversation roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Validation errors.
var (
	ErrQuestionRequired = errors.New("question is required: set GenerateRequest.Question")
)

// GenerateRequest describes a content generation call.
type GenerateRequest struct {
	// Question is the prompt. Required.
	Question string

	// Model selects the generation model. Defaults to ModelCrystal.
	Model Model

	// History carries prior conversation turns.
	History []Turn

	// TrainingData is optional grounding text prepended server-side.
	TrainingData string

	// Randomness in [0, 1]. Defaults to DefaultRandomness when nil.
	Randomness *float64

	// ResponseFormat is "text" or "json". Defaults to "text".
	ResponseFormat string
}

// GenerateResponse is the platform reply merged with the success envelope.
type GenerateResponse struct {
	core.Response
	Content        string `json:"content"`
	ConversationID string `json:"conversation_id"`
	ProcessingTime string `json:"processing_time"`
}

// Service issues content generation requests.
type Service struct {
	client *core.Client
}

// New creates a content Service bound to client.
func New(client *core.Client) *Service {
	return &Service{client: client}
}

// Generate sends a content generation request and returns the reply.
func (s *Service) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	body, err := buildGenerateBody(req, false)
	if err != nil {
		return nil, err
	}

	var resp GenerateResponse
	if err := s.client.PostJSON(ctx, generatePath, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stream sends a content generation request and returns the reply as a raw
// text stream.
func (s *Service) Stream(ctx context.Context, req *GenerateRequest) (*core.TextStream, error) {
	body, err := buildGenerateBody(req, true)
	if err != nil {
		return nil, err
	}
	return s.client.PostStream(ctx, generatePath, body)
}

// generateBody is the wire shape of a generation request.
type generateBody struct {
	Question     string  `json:"question"`
	Model        string  `json:"model"`
	History      []Turn  `json:"history_object,omitempty"`
	TrainingData string  `json:"training_data,omitempty"`
	Randomness   float64 `json:"randomness"`
	ResponseType string  `json:"response_type"`
	Stream       bool    `json:"stream,omitempty"`
}

// buildGenerateBody validates req (fixed order: question, randomness,
// response format) and applies defaults.
func buildGenerateBody(req *GenerateRequest, stream bool) (*generateBody, error) {
	if req == nil || req.Question == "" {
		return nil, ErrQuestionRequired
	}

	randomness := DefaultRandomness
	if req.Randomness != nil {
		randomness = *req.Randomness
		if randomness < 0 || randomness > 1 {
			return nil, fmt.Errorf("randomness must be within [0, 1], got %v", randomness)
		}
	}

	format := req.ResponseFormat
	if format == "" {
		format = "text"
	}
	if format != "text" && format != "json" {
		return nil, fmt.Errorf("response format must be %q or %q, got %q", "text", "json", format)
	}

	model := req.Model
	if model == "" {
		model = ModelCrystal
	}

	return &generateBody{
		Question:     req.Question,
		Model:        string(model),
		History:      req.History,
		TrainingData: req.TrainingData,
		Randomness:   randomness,
		ResponseType: format,
		Stream:       stream,
	}, nil
}

// Package search provides AI-powered search against the Lumen search API.
package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/lumen-labs/lumen-go/core"
)

// Endpoint paths.
const (
	queryPath    = "/api/ai/search/v2"
	advancedPath = "/api/ai/search/v3"
)

// DefaultSearchCount is applied when a request's SearchCount is zero.
const DefaultSearchCount = 3

// maxSearchCount bounds the number of results per query.
const maxSearchCount = 10

// ErrQuestionRequired is returned when a request has no question.
var ErrQuestionRequired = errors.New("question is required: set the request Question")

// Service issues search requests.
type Service struct {
	client *core.Client
}

// New creates a search Service bound to client.
func New(client *core.Client) *Service {
	return &Service{client: client}
}

// Request describes a standard (v2) search call.
type Request struct {
	// Question is the search query. Required.
	Question string

	// TrainingData optionally scopes the search to a trained dataset.
	TrainingData string

	// SearchCount is the number of results, 1-10. Defaults to
	// DefaultSearchCount when zero.
	SearchCount int
}

// Result is one search hit.
type Result struct {
	Title   string  `json:"title"`
	Content string  `json:"content"`
	URL     string  `json:"url,omitempty"`
	Score   float64 `json:"score"`
}

// Response is the platform reply merged with the success envelope.
type Response struct {
	core.Response
	Results        []Result `json:"results"`
	ProcessingTime string   `json:"processing_time"`
}

// Query performs a standard search.
func (s *Service) Query(ctx context.Context, req *Request) (*Response, error) {
	if req == nil || req.Question == "" {
		return nil, ErrQuestionRequired
	}
	count, err := countOrDefault(req.SearchCount)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"question":     req.Question,
		"search_count": count,
	}
	if req.TrainingData != "" {
		body["training_data"] = req.TrainingData
	}

	var resp Response
	if err := s.client.PostJSON(ctx, queryPath, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AdvancedRequest describes an advanced (v3) search call.
type AdvancedRequest struct {
	// Question is the search query. Required.
	Question string

	// TrainingData optionally scopes the search to a trained dataset.
	TrainingData string

	// SearchCount is the number of results, 1-10. Defaults to
	// DefaultSearchCount when zero.
	SearchCount int

	// Preserve keeps the source passages verbatim instead of summarizing.
	Preserve bool
}

// Reference cites a source passage backing an advanced result.
type Reference struct {
	Source  string `json:"source"`
	Passage string `json:"passage"`
}

// AdvancedResponse is the platform reply merged with the success envelope.
type AdvancedResponse struct {
	core.Response
	Results        []Result    `json:"results"`
	References     []Reference `json:"references"`
	ProcessingTime string      `json:"processing_time"`
}

// QueryAdvanced performs an advanced search with cited references.
func (s *Service) QueryAdvanced(ctx context.Context, req *AdvancedRequest) (*AdvancedResponse, error) {
	if req == nil || req.Question == "" {
		return nil, ErrQuestionRequired
	}
	count, err := countOrDefault(req.SearchCount)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"question":     req.Question,
		"search_count": count,
		"preserve":     req.Preserve,
	}
	if req.TrainingData != "" {
		body["training_data"] = req.TrainingData
	}

	var resp AdvancedResponse
	if err := s.client.PostJSON(ctx, advancedPath, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func countOrDefault(count int) (int, error) {
	if count == 0 {
		return DefaultSearchCount, nil
	}
	if count < 1 || count > maxSearchCount {
		return 0, fmt.Errorf("search count must be within [1, %d], got %d", maxSearchCount, count)
	}
	return count, nil
}

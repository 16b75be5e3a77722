// Package extract provides text extraction from web pages, PDFs, images,
// and speech against the Lumen extraction API.
package extract

import (
	"context"
	"errors"

	"github.com/lumen-labs/lumen-go/core"
)

// Endpoint paths.
const (
	webPath    = "/api/ai/v2/web-extract"
	pdfPath    = "/api/ai/v2/pdf-extract"
	imagePath  = "/api/ai/v2/image-extract"
	speechPath = "/api/ai/v2/speech-extract"
)

// Validation errors.
var (
	ErrURLRequired  = errors.New("url is required: set WebRequest.URL")
	ErrFileRequired = errors.New("file is required: set the File input")
)

// Service issues extraction requests.
type Service struct {
	client *core.Client
}

// New creates an extract Service bound to client.
func New(client *core.Client) *Service {
	return &Service{client: client}
}

// WebRequest describes a web page extraction call.
type WebRequest struct {
	// URL of the page to extract. Required.
	URL string

	// CodeBlocks includes fenced code blocks in the extraction.
	CodeBlocks bool

	// Headline includes page headlines.
	Headline bool

	// InlineCode includes inline code spans.
	InlineCode bool
}

// WebResponse is the platform reply merged with the success envelope.
type WebResponse struct {
	core.Response
	Title          string   `json:"title"`
	Text           string   `json:"text"`
	CodeBlocks     []string `json:"code_blocks,omitempty"`
	Headlines      []string `json:"headlines,omitempty"`
	ProcessingTime string   `json:"processing_time"`
}

// Web extracts readable text from a web page.
func (s *Service) Web(ctx context.Context, req *WebRequest) (*WebResponse, error) {
	if req == nil || req.URL == "" {
		return nil, ErrURLRequired
	}

	body := map[string]any{
		"url_path":    req.URL,
		"code_blocks": req.CodeBlocks,
		"headline":    req.Headline,
		"inline_code": req.InlineCode,
	}

	var resp WebResponse
	if err := s.client.PostJSON(ctx, webPath, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FileRequest describes a file-based extraction call.
type FileRequest struct {
	// File is the input document, image, or audio. Required.
	File core.Input

	// OutputFormat is "text" or "json" for image extraction. Defaults to
	// "text"; ignored by other extractors.
	OutputFormat string
}

// FileResponse is the platform reply merged with the success envelope.
type FileResponse struct {
	core.Response
	Text           string `json:"text"`
	ProcessingTime string `json:"processing_time"`
}

// PDF extracts text from a PDF document.
func (s *Service) PDF(ctx context.Context, req *FileRequest) (*FileResponse, error) {
	return s.extractFile(ctx, pdfPath, req, "file")
}

// Image extracts printed or handwritten text from an image.
func (s *Service) Image(ctx context.Context, req *FileRequest) (*FileResponse, error) {
	return s.extractFile(ctx, imagePath, req, "image")
}

// Speech transcribes speech from an audio file.
func (s *Service) Speech(ctx context.Context, req *FileRequest) (*FileResponse, error) {
	return s.extractFile(ctx, speechPath, req, "audio")
}

func (s *Service) extractFile(ctx context.Context, path string, req *FileRequest, field string) (*FileResponse, error) {
	if req == nil || req.File.IsZero() {
		return nil, ErrFileRequired
	}

	payload, err := req.File.Payload(ctx, s.client)
	if err != nil {
		return nil, err
	}

	form := &core.Form{}
	if req.OutputFormat != "" {
		form.AddField("output_format", req.OutputFormat)
	}
	form.AddFile(field, payload)

	var resp FileResponse
	if err := s.client.PostMultipart(ctx, path, form, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

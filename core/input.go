package core

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Input identifies an image or file in one of the supported shapes: in-memory
// bytes or reader, HTTP(S) URL, data URI, or a local filesystem path.
// The zero Input is invalid.
type Input struct {
	data     []byte
	reader   io.Reader
	filename string
	ref      string
}

// InputFromBytes creates an Input from in-memory bytes.
func InputFromBytes(data []byte, filename string) Input {
	return Input{data: data, filename: filename}
}

// InputFromReader creates an Input from a reader. The reader is consumed
// fully the first time the input is resolved.
func InputFromReader(r io.Reader, filename string) Input {
	return Input{reader: r, filename: filename}
}

// InputFromRef creates an Input from a string reference: an HTTP(S) URL, a
// data URI, or a local filesystem path.
func InputFromRef(ref string) Input {
	return Input{ref: ref}
}

// IsZero reports whether the input carries no value.
func (in Input) IsZero() bool {
	return in.data == nil && in.reader == nil && in.ref == ""
}

// FilePayload is the uniform binary payload produced by input resolution.
type FilePayload struct {
	Data     []byte
	Filename string
	MIME     string
}

// Base64 returns the payload encoded as standard base64.
func (p *FilePayload) Base64() string {
	return base64.StdEncoding.EncodeToString(p.Data)
}

// Payload resolves the input to a binary payload. Dispatch is ordered and
// the first matching shape wins:
//
//  1. in-memory bytes or reader: read fully
//  2. http:// or https:// reference: fetched as binary
//  3. data: reference: base64 remainder after the first comma
//  4. any other reference: read as a local file
//
// Remote fetches use the client's HTTP transport without auth headers.
func (in Input) Payload(ctx context.Context, c *Client) (*FilePayload, error) {
	switch {
	case in.data != nil:
		return &FilePayload{
			Data:     in.data,
			Filename: defaultFilename(in.filename),
			MIME:     detectMIME(in.filename, in.data),
		}, nil

	case in.reader != nil:
		data, err := io.ReadAll(in.reader)
		if err != nil {
			return nil, fmt.Errorf("read file input: %w", err)
		}
		return &FilePayload{
			Data:     data,
			Filename: defaultFilename(in.filename),
			MIME:     detectMIME(in.filename, data),
		}, nil

	case strings.HasPrefix(in.ref, "http://") || strings.HasPrefix(in.ref, "https://"):
		return in.fetchURL(ctx, c)

	case strings.HasPrefix(in.ref, "data:"):
		return in.decodeDataURI()

	case in.ref != "":
		data, err := os.ReadFile(in.ref)
		if err != nil {
			return nil, fmt.Errorf("read local file %q: %w", in.ref, err)
		}
		name := filepath.Base(in.ref)
		return &FilePayload{
			Data:     data,
			Filename: name,
			MIME:     detectMIME(name, data),
		}, nil

	default:
		return nil, fmt.Errorf("unsupported file input: expected bytes, reader, URL, data URI, or path")
	}
}

func (in Input) fetchURL(ctx context.Context, c *Client) (*FilePayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, in.ref, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", in.ref, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", in.ref, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("fetch %q: unexpected status %d", in.ref, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", in.ref, err)
	}

	name := "download"
	if u, err := url.Parse(in.ref); err == nil && filepath.Base(u.Path) != "/" && filepath.Base(u.Path) != "." {
		name = filepath.Base(u.Path)
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" || strings.HasPrefix(mimeType, "application/octet-stream") {
		mimeType = detectMIME(name, data)
	}
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}

	return &FilePayload{Data: data, Filename: name, MIME: mimeType}, nil
}

func (in Input) decodeDataURI() (*FilePayload, error) {
	comma := strings.IndexByte(in.ref, ',')
	if comma < 0 {
		return nil, fmt.Errorf("malformed data URI: no comma separator")
	}

	data, err := base64.StdEncoding.DecodeString(in.ref[comma+1:])
	if err != nil {
		return nil, fmt.Errorf("malformed data URI: %w", err)
	}

	// "data:image/png;base64" -> "image/png"
	mimeType := strings.TrimPrefix(in.ref[:comma], "data:")
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	if mimeType == "" {
		mimeType = detectMIME("", data)
	}

	return &FilePayload{Data: data, Filename: "upload" + extensionFor(mimeType), MIME: mimeType}, nil
}

func defaultFilename(name string) string {
	if name == "" {
		return "upload"
	}
	return name
}

// detectMIME detects the MIME type from the filename extension, falling back
// to content sniffing.
func detectMIME(filename string, data []byte) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	case ".pdf":
		return "application/pdf"
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	}
	if len(data) > 0 {
		return http.DetectContentType(data)
	}
	return "application/octet-stream"
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	case "application/pdf":
		return ".pdf"
	default:
		return ""
	}
}

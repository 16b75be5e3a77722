package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// immediateRetry retries up to maxRetries times with no delay.
type immediateRetry struct {
	maxRetries int
}

func (r immediateRetry) NextDelay(attempt int, err error) (time.Duration, bool) {
	if attempt >= r.maxRetries {
		return 0, false
	}
	return 0, isRetryable(err)
}

type echoResponse struct {
	Response
	Content string `json:"content"`
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New("")
	if !errors.Is(err, ErrAPIKeyRequired) {
		t.Fatalf("New(\"\") error = %v, want ErrAPIKeyRequired", err)
	}
}

func TestPostJSONSuccess(t *testing.T) {
	var gotAuth, gotContentType, gotLanguage, gotRequestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotLanguage = r.Header.Get("X-Client-Language")
		gotRequestID = r.Header.Get("X-Client-Request-ID")
		json.NewEncoder(w).Encode(map[string]any{"content": "hello"})
	}))
	defer server.Close()

	c, err := New("test-key", WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	var resp echoResponse
	if err := c.PostJSON(context.Background(), "/api/test", map[string]string{"q": "hi"}, &resp); err != nil {
		t.Fatalf("PostJSON() error = %v", err)
	}

	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer test-key")
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", gotContentType)
	}
	if gotLanguage != "go" {
		t.Errorf("X-Client-Language = %q, want go", gotLanguage)
	}
	if gotRequestID == "" {
		t.Error("X-Client-Request-ID header missing")
	}
	if resp.Code != 200 {
		t.Errorf("Code = %d, want 200", resp.Code)
	}
	if resp.Content != "hello" {
		t.Errorf("Content = %q, want hello", resp.Content)
	}
}

func TestPostJSONRetriesExactlyMaxRetriesPlusOne(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c, _ := New("test-key", WithBaseURL(server.URL), WithRetryPolicy(immediateRetry{maxRetries: 3}))

	err := c.PostJSON(context.Background(), "/api/test", map[string]string{}, nil)
	if err == nil {
		t.Fatal("PostJSON() expected error")
	}
	if attempts != 4 {
		t.Errorf("attempts = %d, want 4", attempts)
	}

	var ae *APIError
	if !errors.As(err, &ae) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if ae.Status != http.StatusServiceUnavailable {
		t.Errorf("Status = %d, want 503", ae.Status)
	}
	if ae.Attempts != 4 {
		t.Errorf("Attempts = %d, want 4", ae.Attempts)
	}
	if !errors.Is(err, ErrServer) {
		t.Errorf("errors.Is(err, ErrServer) = false")
	}
}

func TestPostJSONNoRetryOnSuccess(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		json.NewEncoder(w).Encode(map[string]any{})
	}))
	defer server.Close()

	c, _ := New("test-key", WithBaseURL(server.URL), WithRetryPolicy(immediateRetry{maxRetries: 3}))

	var resp echoResponse
	if err := c.PostJSON(context.Background(), "/api/test", map[string]string{}, &resp); err != nil {
		t.Fatalf("PostJSON() error = %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestPostJSONNormalizesErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid api key","code":"auth_failed"}}`))
	}))
	defer server.Close()

	c, _ := New("bad-key", WithBaseURL(server.URL), WithRetryPolicy(immediateRetry{maxRetries: 0}))

	err := c.PostJSON(context.Background(), "/api/test", map[string]string{}, nil)

	var ae *APIError
	if !errors.As(err, &ae) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if ae.Message != "invalid api key" {
		t.Errorf("Message = %q, want %q", ae.Message, "invalid api key")
	}
	if ae.Code != "auth_failed" {
		t.Errorf("Code = %q, want auth_failed", ae.Code)
	}
	if !errors.Is(err, ErrUnauthorized) {
		t.Error("errors.Is(err, ErrUnauthorized) = false")
	}
	if ae.Meta.Language != "go" || ae.Meta.RequestID == "" {
		t.Errorf("Meta diagnostics incomplete: %+v", ae.Meta)
	}
}

func TestPostJSONNetworkErrorNormalized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse all connections

	c, _ := New("test-key", WithBaseURL(server.URL), WithRetryPolicy(immediateRetry{maxRetries: 1}))

	err := c.PostJSON(context.Background(), "/api/test", map[string]string{}, nil)
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("errors.Is(err, ErrNetwork) = false, err = %v", err)
	}

	var ae *APIError
	if !errors.As(err, &ae) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if ae.Attempts != 2 {
		t.Errorf("Attempts = %d, want 2", ae.Attempts)
	}
}

func TestPostJSONIdempotentCalls(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		json.NewEncoder(w).Encode(map[string]any{"content": "ok"})
	}))
	defer server.Close()

	c, _ := New("test-key", WithBaseURL(server.URL))

	for i := 0; i < 2; i++ {
		var resp echoResponse
		if err := c.PostJSON(context.Background(), "/api/test", map[string]string{}, &resp); err != nil {
			t.Fatalf("call %d: PostJSON() error = %v", i, err)
		}
		if resp.Code != 200 {
			t.Errorf("call %d: Code = %d, want 200", i, resp.Code)
		}
	}

	// No hidden caching: both calls hit the server.
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
}

func TestPostJSONContextCancelDuringBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c, _ := New("test-key", WithBaseURL(server.URL),
		WithRetryPolicy(NewRetryPolicy(RetryConfig{MaxRetries: 3, BaseDelay: time.Minute})))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := c.PostJSON(ctx, "/api/test", map[string]string{}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestWithDebugLogsRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{})
	}))
	defer server.Close()

	var buf bytes.Buffer
	c, _ := New("test-key", WithBaseURL(server.URL), WithDebug(&buf))

	var resp echoResponse
	if err := c.PostJSON(context.Background(), "/api/ai/content/v4", map[string]string{}, &resp); err != nil {
		t.Fatalf("PostJSON() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "/api/ai/content/v4") {
		t.Errorf("debug log missing endpoint, got %q", out)
	}
	if !strings.Contains(out, "200") {
		t.Errorf("debug log missing status, got %q", out)
	}
}

func TestWithHeaderAddsExtraHeader(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Org-ID")
		json.NewEncoder(w).Encode(map[string]any{})
	}))
	defer server.Close()

	c, _ := New("test-key", WithBaseURL(server.URL), WithHeader("X-Org-ID", "org-42"))

	var resp echoResponse
	if err := c.PostJSON(context.Background(), "/api/test", map[string]string{}, &resp); err != nil {
		t.Fatalf("PostJSON() error = %v", err)
	}
	if got != "org-42" {
		t.Errorf("X-Org-ID = %q, want org-42", got)
	}
}

func TestPostMultipartRetriesSameBytes(t *testing.T) {
	var bodies [][]byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		buf.ReadFrom(r.Body)
		bodies = append(bodies, buf.Bytes())
		if len(bodies) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{})
	}))
	defer server.Close()

	c, _ := New("test-key", WithBaseURL(server.URL), WithRetryPolicy(immediateRetry{maxRetries: 2}))

	form := &Form{}
	form.AddField("prompt", "a red door")
	form.AddFile("image", &FilePayload{Data: []byte{0xFF, 0xD8, 0xFF, 0x01}, Filename: "in.jpg", MIME: "image/jpeg"})

	var resp echoResponse
	if err := c.PostMultipart(context.Background(), "/api/test", form, &resp); err != nil {
		t.Fatalf("PostMultipart() error = %v", err)
	}

	if len(bodies) != 2 {
		t.Fatalf("attempts = %d, want 2", len(bodies))
	}
	if !bytes.Equal(bodies[0], bodies[1]) {
		t.Error("retry sent different multipart bytes than first attempt")
	}
}

func TestPostStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hello "))
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		w.Write([]byte("world"))
	}))
	defer server.Close()

	c, _ := New("test-key", WithBaseURL(server.URL))

	stream, err := c.PostStream(context.Background(), "/api/test", map[string]any{"stream": true})
	if err != nil {
		t.Fatalf("PostStream() error = %v", err)
	}

	got, err := DrainText(context.Background(), stream)
	if err != nil {
		t.Fatalf("DrainText() error = %v", err)
	}
	if got != "hello world" {
		t.Errorf("DrainText() = %q, want %q", got, "hello world")
	}
}

func TestPostStreamSetupError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"slow down"}}`))
	}))
	defer server.Close()

	c, _ := New("test-key", WithBaseURL(server.URL), WithRetryPolicy(immediateRetry{maxRetries: 0}))

	_, err := c.PostStream(context.Background(), "/api/test", map[string]any{"stream": true})
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("errors.Is(err, ErrRateLimited) = false, err = %v", err)
	}
}

package content

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lumen-labs/lumen-go/core"
)

func newTestService(t *testing.T, handler http.HandlerFunc) (*Service, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := core.New("test-key", core.WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("core.New() error = %v", err)
	}
	return New(client), server
}

func TestGenerateSuccess(t *testing.T) {
	var gotBody map[string]any
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != generatePath {
			t.Errorf("Path = %q, want %q", r.URL.Path, generatePath)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{
			"content":         "Paris is the capital of France.",
			"conversation_id": "conv-123",
			"processing_time": "412",
		})
	})

	resp, err := svc.Generate(context.Background(), &GenerateRequest{
		Question: "What is the capital of France?",
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if resp.Code != 200 {
		t.Errorf("Code = %d, want 200", resp.Code)
	}
	if resp.Content != "Paris is the capital of France." {
		t.Errorf("Content = %q", resp.Content)
	}
	if resp.ConversationID != "conv-123" {
		t.Errorf("ConversationID = %q", resp.ConversationID)
	}

	// Defaults applied on the wire.
	if gotBody["model"] != string(ModelCrystal) {
		t.Errorf("model = %v, want %s", gotBody["model"], ModelCrystal)
	}
	if gotBody["randomness"] != DefaultRandomness {
		t.Errorf("randomness = %v, want %v", gotBody["randomness"], DefaultRandomness)
	}
	if gotBody["response_type"] != "text" {
		t.Errorf("response_type = %v, want text", gotBody["response_type"])
	}
}

func TestGenerateWithHistory(t *testing.T) {
	var gotBody struct {
		History []Turn `json:"history_object"`
	}
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{"content": "ok"})
	})

	_, err := svc.Generate(context.Background(), &GenerateRequest{
		Question: "And its population?",
		History: []Turn{
			{Role: RoleUser, Content: "What is the capital of France?"},
			{Role: RoleAssistant, Content: "Paris."},
		},
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(gotBody.History) != 2 || gotBody.History[1].Content != "Paris." {
		t.Errorf("history = %+v", gotBody.History)
	}
}

func TestGenerateMissingQuestionNoNetworkCall(t *testing.T) {
	calls := 0
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
	})

	_, err := svc.Generate(context.Background(), &GenerateRequest{})
	if !errors.Is(err, ErrQuestionRequired) {
		t.Fatalf("error = %v, want ErrQuestionRequired", err)
	}
	if calls != 0 {
		t.Errorf("network calls = %d, want 0", calls)
	}
}

func TestGenerateRandomnessOutOfRange(t *testing.T) {
	calls := 0
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
	})

	bad := 1.5
	_, err := svc.Generate(context.Background(), &GenerateRequest{Question: "q", Randomness: &bad})
	if err == nil || !strings.Contains(err.Error(), "randomness") {
		t.Fatalf("error = %v, want randomness range error", err)
	}
	if calls != 0 {
		t.Errorf("network calls = %d, want 0", calls)
	}
}

func TestGenerateInvalidResponseFormat(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected network call")
	})

	_, err := svc.Generate(context.Background(), &GenerateRequest{Question: "q", ResponseFormat: "xml"})
	if err == nil || !strings.Contains(err.Error(), "response format") {
		t.Fatalf("error = %v, want response format error", err)
	}
}

func TestStream(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["stream"] != true {
			t.Errorf("stream = %v, want true", body["stream"])
		}
		w.Write([]byte("Once upon "))
		w.Write([]byte("a time."))
	})

	stream, err := svc.Stream(context.Background(), &GenerateRequest{Question: "Tell me a story."})
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}

	got, err := core.DrainText(context.Background(), stream)
	if err != nil {
		t.Fatalf("DrainText() error = %v", err)
	}
	if got != "Once upon a time." {
		t.Errorf("stream text = %q", got)
	}
}

func TestStreamMissingQuestion(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected network call")
	})

	if _, err := svc.Stream(context.Background(), &GenerateRequest{}); !errors.Is(err, ErrQuestionRequired) {
		t.Fatalf("error = %v, want ErrQuestionRequired", err)
	}
}

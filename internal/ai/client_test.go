package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/summitridge/leadgen/internal/circuitbreaker"
	"github.com/summitridge/leadgen/internal/config"
	apperrors "github.com/summitridge/leadgen/internal/errors"
)

func newTestClient(baseURL string) *Client {
	return NewClient(&config.OpenAIConfig{
		APIKey:  "test-key",
		Model:   "gpt-4o-mini",
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
	}, zap.NewNop())
}

func completionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header %q", got)
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if req.Model != "gpt-4o-mini" {
			t.Errorf("unexpected model %q", req.Model)
		}
		if req.MaxTokens == 0 {
			t.Error("expected max_tokens to be set")
		}

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
			"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 5},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestComplete_Success(t *testing.T) {
	server := completionServer(t, "Hello from the model")
	defer server.Close()

	client := newTestClient(server.URL)
	comp := client.Complete(context.Background(), "Say hello", Options{})

	if comp.Err != nil {
		t.Fatalf("unexpected error: %v", comp.Err)
	}
	if comp.Text != "Hello from the model" {
		t.Errorf("unexpected text %q", comp.Text)
	}
}

func TestComplete_TemperatureRequested(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want float64
	}{
		{"unset uses default", Options{}, DefaultTemperature},
		{"explicit zero is sent as zero", Options{Temperature: Temp(0)}, 0},
		{"explicit value wins", Options{Temperature: Temp(0.2)}, 0.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotTemperature float64
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var req chatRequest
				json.NewDecoder(r.Body).Decode(&req)
				gotTemperature = req.Temperature
				json.NewEncoder(w).Encode(map[string]any{
					"choices": []map[string]any{{"message": map[string]any{"content": "ok"}}},
				})
			}))
			defer server.Close()

			client := newTestClient(server.URL)
			client.Complete(context.Background(), "question", tt.opts)

			if gotTemperature != tt.want {
				t.Errorf("temperature = %v, want %v", gotTemperature, tt.want)
			}
		})
	}
}

func TestComplete_SystemInstructionIsFirstMessage(t *testing.T) {
	var gotMessages []Message
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		json.NewDecoder(r.Body).Decode(&req)
		gotMessages = req.Messages
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"content": "ok"}}},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	client.Complete(context.Background(), "question", Options{System: "you are a helper"})

	if len(gotMessages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(gotMessages))
	}
	if gotMessages[0].Role != RoleSystem || gotMessages[0].Content != "you are a helper" {
		t.Errorf("expected system message first, got %+v", gotMessages[0])
	}
	if gotMessages[1].Role != RoleUser {
		t.Errorf("expected user message second, got %+v", gotMessages[1])
	}
}

func TestCompleteMessages_PrependsSystemOption(t *testing.T) {
	var gotMessages []Message
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		json.NewDecoder(r.Body).Decode(&req)
		gotMessages = req.Messages
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"content": "ok"}}},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	history := []Message{
		{Role: RoleUser, Content: "hi"},
		{Role: RoleAssistant, Content: "hello"},
		{Role: RoleUser, Content: "I need a deck"},
	}
	client.CompleteMessages(context.Background(), history, Options{System: "sales prompt"})

	if len(gotMessages) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(gotMessages))
	}
	if gotMessages[0].Role != RoleSystem {
		t.Errorf("expected system message prepended, got %+v", gotMessages[0])
	}
}

func TestComplete_NotConfigured(t *testing.T) {
	client := NewClient(&config.OpenAIConfig{Model: "gpt-4o-mini"}, zap.NewNop())

	comp := client.Complete(context.Background(), "anything", Options{})

	if comp.Text != NotConfiguredText {
		t.Errorf("expected advisory text, got %q", comp.Text)
	}
	if !apperrors.IsNotConfigured(comp.Err) {
		t.Errorf("expected not-configured error, got %v", comp.Err)
	}
}

func TestComplete_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"type": "server_error", "message": "overloaded"},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	comp := client.Complete(context.Background(), "anything", Options{})

	if comp.Err == nil {
		t.Fatal("expected error")
	}
	if comp.Text != UnavailableText {
		t.Errorf("expected fallback text, got %q", comp.Text)
	}
}

func TestComplete_MalformedProviderResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	comp := client.Complete(context.Background(), "anything", Options{})

	if comp.Err == nil {
		t.Fatal("expected error for malformed response")
	}
	if comp.Text != UnavailableText {
		t.Errorf("expected fallback text, got %q", comp.Text)
	}
}

func TestComplete_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	comp := client.Complete(context.Background(), "anything", Options{})

	if comp.Err == nil {
		t.Fatal("expected error for empty choices")
	}
	if comp.Text != UnavailableText {
		t.Errorf("expected fallback text, got %q", comp.Text)
	}
}

func TestComplete_ContextCancelled(t *testing.T) {
	server := completionServer(t, "never delivered")
	defer server.Close()

	client := newTestClient(server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	comp := client.Complete(ctx, "anything", Options{})
	if comp.Err == nil {
		t.Fatal("expected error with cancelled context")
	}
	if comp.Text == "" {
		t.Error("expected usable fallback text even on cancellation")
	}
}

func TestComplete_CircuitOpensAfterRepeatedFailures(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	for i := 0; i < 10; i++ {
		comp := client.Complete(context.Background(), "anything", Options{})
		if comp.Err == nil {
			t.Fatal("expected error")
		}
		if comp.Text != UnavailableText {
			t.Fatalf("expected fallback text on attempt %d", i)
		}
	}

	if !client.IsCircuitOpen() {
		t.Error("expected circuit to open after repeated failures")
	}
	if calls >= 10 {
		t.Errorf("expected fast-fail rejections, provider saw %d calls", calls)
	}

	// A fast-failed request still yields usable fallback text.
	comp := client.Complete(context.Background(), "anything", Options{})
	if comp.Err == nil {
		t.Error("expected error while circuit open")
	}
	if !errors.Is(comp.Err, circuitbreaker.ErrOpen) {
		t.Errorf("expected circuit-open cause, got %v", comp.Err)
	}
	if comp.Text != UnavailableText {
		t.Errorf("expected fallback text while circuit open, got %q", comp.Text)
	}
}

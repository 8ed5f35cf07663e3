package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ahaideveloper150-collab/brainbolt3/internal/apperr"
)

func chatReply(content string, promptTokens int) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"content": content}},
		},
		"usage": map[string]int{"prompt_tokens": promptTokens},
	})
	return string(b)
}

var testModel = ModelConfig{Identifier: "gpt-4o-mini", Temperature: 0.2}

func TestOpenAIGateway_Success(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Write([]byte(chatReply(`{"status":"SUCCESS","formatted":"# Notes"}`, 87)))
	}))
	defer srv.Close()

	g := NewOpenAIGateway("test-key", srv.URL, 5*time.Second)
	got, err := g.Complete(context.Background(), testModel, "system rules", "user text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Content != `{"status":"SUCCESS","formatted":"# Notes"}` {
		t.Errorf("content = %q", got.Content)
	}
	if got.PromptTokens != 87 {
		t.Errorf("prompt tokens = %d, want 87", got.PromptTokens)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("authorization = %q", gotAuth)
	}
	if gotReq.Model != "gpt-4o-mini" || len(gotReq.Messages) != 2 {
		t.Errorf("request = %+v", gotReq)
	}
	if gotReq.Messages[0].Role != "system" || gotReq.Messages[1].Role != "user" {
		t.Errorf("message roles = %s, %s", gotReq.Messages[0].Role, gotReq.Messages[1].Role)
	}
}

func TestOpenAIGateway_MissingKey(t *testing.T) {
	g := NewOpenAIGateway("", "http://localhost:0", time.Second)
	_, err := g.Complete(context.Background(), testModel, "s", "u")
	var ce *apperr.ConfigurationError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

func TestOpenAIGateway_RetriesTransient(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(chatReply("ok", 1)))
	}))
	defer srv.Close()

	g := NewOpenAIGateway("k", srv.URL, 5*time.Second)
	got, err := g.Complete(context.Background(), testModel, "s", "u")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Content != "ok" {
		t.Errorf("content = %q", got.Content)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("upstream called %d times, want 2", n)
	}
}

func TestOpenAIGateway_RetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	g := NewOpenAIGateway("k", srv.URL, 10*time.Second)
	g.maxRetries = 1

	_, err := g.Complete(context.Background(), testModel, "s", "u")
	var ue *apperr.UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("upstream called %d times, want initial try plus one retry", n)
	}
}

func TestOpenAIGateway_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	g := NewOpenAIGateway("k", srv.URL, 5*time.Second)
	_, err := g.Complete(context.Background(), testModel, "s", "u")
	var ue *apperr.UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("upstream called %d times, 4xx must not be retried", n)
	}
}

func TestOpenAIGateway_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server's background read can detect the
		// client disconnect; otherwise r.Context() is never cancelled and
		// srv.Close blocks forever on this connection.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	g := NewOpenAIGateway("k", srv.URL, 5*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := g.Complete(ctx, testModel, "s", "u")
	var te *apperr.UpstreamTimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("expected UpstreamTimeoutError, got %v", err)
	}
}

func TestOpenAIGateway_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[],"usage":{"prompt_tokens":0}}`))
	}))
	defer srv.Close()

	g := NewOpenAIGateway("k", srv.URL, 5*time.Second)
	_, err := g.Complete(context.Background(), testModel, "s", "u")
	var ue *apperr.UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
}

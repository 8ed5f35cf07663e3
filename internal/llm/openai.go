package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"github.com/ahaideveloper150-collab/brainbolt3/internal/apperr"
)

// OpenAIGateway talks to any OpenAI-compatible chat-completions endpoint.
// Transient upstream failures (429, 5xx) are retried a bounded number of
// times with exponential backoff and jitter; 4xx responses are not retried.
type OpenAIGateway struct {
	apiKey     string
	baseURL    string
	hc         *http.Client
	maxRetries uint64
}

func NewOpenAIGateway(apiKey, baseURL string, timeout time.Duration) *OpenAIGateway {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &OpenAIGateway{
		apiKey:     apiKey,
		baseURL:    baseURL,
		hc:         &http.Client{Timeout: timeout},
		maxRetries: 2,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float32       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens int `json:"prompt_tokens"`
	} `json:"usage"`
}

func (g *OpenAIGateway) Complete(ctx context.Context, model ModelConfig, systemPrompt, userPrompt string) (Completion, error) {
	if g.apiKey == "" {
		return Completion{}, &apperr.ConfigurationError{Message: "LLM API key is not configured"}
	}

	body, err := json.Marshal(chatRequest{
		Model:       model.Identifier,
		Temperature: model.Temperature,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	})
	if err != nil {
		return Completion{}, &apperr.UpstreamError{Message: "encode completion request", Err: err}
	}

	var out chatResponse
	op := func() error {
		// A fresh request per attempt, so a consumed body is never reused.
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := g.hc.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			io.Copy(io.Discard, io.LimitReader(resp.Body, 512))
			return fmt.Errorf("upstream status %d", resp.StatusCode)
		case resp.StatusCode >= 400:
			return backoff.Permanent(fmt.Errorf("upstream status %d", resp.StatusCode))
		}

		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode upstream response: %w", err))
		}
		return nil
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), g.maxRetries), ctx)
	if err := backoff.Retry(op, bo); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Completion{}, &apperr.UpstreamTimeoutError{Err: err}
		}
		return Completion{}, &apperr.UpstreamError{Message: "completion call failed", Err: err}
	}

	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return Completion{}, &apperr.UpstreamError{Message: "upstream returned no content"}
	}

	return Completion{
		Content:      out.Choices[0].Message.Content,
		PromptTokens: out.Usage.PromptTokens,
	}, nil
}

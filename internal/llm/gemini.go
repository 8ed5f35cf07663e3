package llm

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/ahaideveloper150-collab/brainbolt3/internal/apperr"
)

// GeminiGateway is the alternate provider, selected with LLM_PROVIDER=gemini.
// The client is created on first use so a misconfigured deployment surfaces a
// ConfigurationError per request instead of crashing at startup.
type GeminiGateway struct {
	apiKey string

	once    sync.Once
	client  *genai.Client
	initErr error
}

func NewGeminiGateway(apiKey string) *GeminiGateway {
	return &GeminiGateway{apiKey: apiKey}
}

func (g *GeminiGateway) init(ctx context.Context) (*genai.Client, error) {
	g.once.Do(func() {
		g.client, g.initErr = genai.NewClient(context.WithoutCancel(ctx), option.WithAPIKey(g.apiKey))
	})
	return g.client, g.initErr
}

func (g *GeminiGateway) Complete(ctx context.Context, model ModelConfig, systemPrompt, userPrompt string) (Completion, error) {
	if g.apiKey == "" {
		return Completion{}, &apperr.ConfigurationError{Message: "Gemini API key is not configured"}
	}

	client, err := g.init(ctx)
	if err != nil {
		return Completion{}, &apperr.ConfigurationError{Message: "Gemini client initialization failed: " + err.Error()}
	}

	m := client.GenerativeModel(model.Identifier)
	m.SetTemperature(model.Temperature)
	m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}

	resp, err := m.GenerateContent(ctx, genai.Text(userPrompt))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Completion{}, &apperr.UpstreamTimeoutError{Err: err}
		}
		return Completion{}, &apperr.UpstreamError{Message: "Gemini API error", Err: err}
	}

	content := extractText(resp)
	if content == "" {
		return Completion{}, &apperr.UpstreamError{Message: "Gemini returned empty content"}
	}

	var promptTokens int
	if resp.UsageMetadata != nil {
		promptTokens = int(resp.UsageMetadata.PromptTokenCount)
	}
	return Completion{Content: content, PromptTokens: promptTokens}, nil
}

func (g *GeminiGateway) Close() {
	if g.client != nil {
		g.client.Close()
	}
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

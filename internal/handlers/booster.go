package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/ahaideveloper150-collab/brainbolt3/internal/apperr"
	"github.com/ahaideveloper150-collab/brainbolt3/internal/llm"
	"github.com/ahaideveloper150-collab/brainbolt3/internal/models"
	"github.com/ahaideveloper150-collab/brainbolt3/internal/parse"
	"github.com/ahaideveloper150-collab/brainbolt3/internal/sanitize"
	"github.com/ahaideveloper150-collab/brainbolt3/internal/validate"
)

type BoosterHandler struct {
	gateway llm.Gateway
	models  *llm.Registry
	timeout time.Duration
}

func NewBoosterHandler(gateway llm.Gateway, registry *llm.Registry, timeout time.Duration) *BoosterHandler {
	return &BoosterHandler{gateway: gateway, models: registry, timeout: timeout}
}

// Step serves one turn of the adaptive lesson. The client owns the state
// machine: it sends the step it wants plus whatever context that step needs,
// and nothing is kept server-side between calls.
func (h *BoosterHandler) Step(w http.ResponseWriter, r *http.Request) {
	if !guardBodySize(w, r) {
		return
	}

	var req models.BoosterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	topic := sanitize.Sanitize(req.Topic, sanitize.Options{RemoveNewlines: true})
	if err := validate.BoosterRequest(req.Topic, topic, req.LearningLevel, req.Step); err != nil {
		writeSafeError(w, r, err, "Invalid input")
		return
	}

	req.Doubt = sanitize.Sanitize(req.Doubt, sanitize.Options{})
	req.UserResponse = sanitize.Sanitize(req.UserResponse, sanitize.Options{})
	for i := range req.DiagnosticAnswers {
		req.DiagnosticAnswers[i] = sanitize.Sanitize(req.DiagnosticAnswers[i], sanitize.Options{RemoveNewlines: true})
	}
	for i := range req.ConversationHistory {
		req.ConversationHistory[i].Content = sanitize.Sanitize(req.ConversationHistory[i].Content, sanitize.Options{})
	}

	if req.Step == models.StepAskDoubts && req.Doubt == "" {
		writeSafeError(w, r, &apperr.ValidationError{Message: "doubt is required for the ask_doubts step"}, "Invalid input")
		return
	}

	modelCfg, err := h.models.Resolve(llm.TaskBooster, req.Model)
	if err != nil {
		writeSafeError(w, r, err, "Invalid model selection")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	system, user := llm.BuildBoosterPrompts(req, topic)
	completion, err := h.gateway.Complete(ctx, modelCfg, system, user)
	if err != nil {
		writeSafeError(w, r, err, "Failed to generate lesson content")
		return
	}

	content, err := parse.ParseBoosterContent(completion.Content, req.Step)
	if err != nil {
		writeSafeError(w, r, err, "Failed to generate lesson content")
		return
	}

	writeJSON(w, http.StatusOK, models.BoosterResponse{
		Status:  "SUCCESS",
		Step:    req.Step,
		Content: content,
		Metadata: models.BoosterMetadata{
			Topic:          topic,
			LearningLevel:  req.LearningLevel,
			TokensEstimate: parse.TokenEstimate(completion.PromptTokens, len(topic)),
		},
	})
}

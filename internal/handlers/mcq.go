package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/ahaideveloper150-collab/brainbolt3/internal/llm"
	"github.com/ahaideveloper150-collab/brainbolt3/internal/models"
	"github.com/ahaideveloper150-collab/brainbolt3/internal/parse"
	"github.com/ahaideveloper150-collab/brainbolt3/internal/sanitize"
	"github.com/ahaideveloper150-collab/brainbolt3/internal/validate"
)

type MCQHandler struct {
	gateway llm.Gateway
	models  *llm.Registry
	timeout time.Duration
}

func NewMCQHandler(gateway llm.Gateway, registry *llm.Registry, timeout time.Duration) *MCQHandler {
	return &MCQHandler{gateway: gateway, models: registry, timeout: timeout}
}

func (h *MCQHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if !guardBodySize(w, r) {
		return
	}

	var req models.GenerateMCQRequest
	if !decodeBody(w, r, &req) {
		return
	}

	text := sanitize.Sanitize(req.Text, sanitize.Options{})
	if err := validate.MCQRequest(req.Text, text, req.NumQuestions, req.Difficulty); err != nil {
		writeSafeError(w, r, err, "Invalid input")
		return
	}
	req.Title = sanitize.Sanitize(req.Title, sanitize.Options{RemoveNewlines: true, MaxLength: 200})

	modelCfg, err := h.models.Resolve(llm.TaskMCQ, req.Model)
	if err != nil {
		writeSafeError(w, r, err, "Invalid model selection")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	system, user := llm.BuildMCQPrompts(req, text)
	completion, err := h.gateway.Complete(ctx, modelCfg, system, user)
	if err != nil {
		writeSafeError(w, r, err, "Failed to generate questions")
		return
	}

	// A single malformed question fails the whole batch: a quiz with a wrong
	// answer key is worse than no quiz.
	mcqs, err := parse.ParseMCQs(completion.Content, parse.StrictItems)
	if err != nil {
		writeSafeError(w, r, err, "Failed to generate questions")
		return
	}

	if !req.IncludeExplanations {
		for i := range mcqs {
			mcqs[i].Explanation = ""
		}
	}

	writeJSON(w, http.StatusOK, models.MCQResponse{
		MCQs:         mcqs,
		SourceTokens: parse.TokenEstimate(completion.PromptTokens, len(text)),
	})
}

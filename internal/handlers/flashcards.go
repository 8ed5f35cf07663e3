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

type FlashcardHandler struct {
	gateway llm.Gateway
	models  *llm.Registry
	timeout time.Duration
}

func NewFlashcardHandler(gateway llm.Gateway, registry *llm.Registry, timeout time.Duration) *FlashcardHandler {
	return &FlashcardHandler{gateway: gateway, models: registry, timeout: timeout}
}

func (h *FlashcardHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if !guardBodySize(w, r) {
		return
	}

	var req models.GenerateFlashcardsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	content := sanitize.Sanitize(req.Content, sanitize.Options{})
	if err := validate.FlashcardsRequest(req.Content, content, req.LearningLevel); err != nil {
		writeSafeError(w, r, err, "Invalid input")
		return
	}

	modelCfg, err := h.models.Resolve(llm.TaskFlashcards, req.Model)
	if err != nil {
		writeSafeError(w, r, err, "Invalid model selection")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	system, user := llm.BuildFlashcardPrompts(req, content)
	completion, err := h.gateway.Complete(ctx, modelCfg, system, user)
	if err != nil {
		writeSafeError(w, r, err, "Failed to generate flashcards")
		return
	}

	// Unlike MCQs, a partial deck is still useful: bad cards are dropped.
	cards, err := parse.ParseFlashcards(completion.Content, parse.DropInvalidItems)
	if err != nil {
		writeSafeError(w, r, err, "Failed to generate flashcards")
		return
	}

	meta := models.FlashcardMetadata{
		LearningLevel:  req.LearningLevel,
		TotalCards:     len(cards),
		TokensEstimate: parse.TokenEstimate(completion.PromptTokens, len(content)),
	}
	for _, c := range cards {
		switch c.Type {
		case "concept":
			meta.ConceptCards++
		case "application":
			meta.ApplicationCards++
		case "trick":
			meta.TrickCards++
		}
	}

	writeJSON(w, http.StatusOK, models.FlashcardsResponse{
		Status:     "SUCCESS",
		Flashcards: cards,
		Metadata:   meta,
	})
}

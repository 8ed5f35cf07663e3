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

type FormatHandler struct {
	gateway llm.Gateway
	models  *llm.Registry
	timeout time.Duration
}

func NewFormatHandler(gateway llm.Gateway, registry *llm.Registry, timeout time.Duration) *FormatHandler {
	return &FormatHandler{gateway: gateway, models: registry, timeout: timeout}
}

func (h *FormatHandler) Format(w http.ResponseWriter, r *http.Request) {
	if !guardBodySize(w, r) {
		return
	}

	var req models.FormatRequest
	if !decodeBody(w, r, &req) {
		return
	}

	text := sanitize.Sanitize(req.Text, sanitize.Options{})
	if err := validate.FormatRequest(req.Text, text); err != nil {
		writeSafeError(w, r, err, "Invalid input")
		return
	}

	modelCfg, err := h.models.Resolve(llm.TaskFormat, req.Model)
	if err != nil {
		writeSafeError(w, r, err, "Invalid model selection")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	system, user := llm.BuildFormatPrompts(text)
	completion, err := h.gateway.Complete(ctx, modelCfg, system, user)
	if err != nil {
		writeSafeError(w, r, err, "Failed to format text")
		return
	}

	formatted, err := parse.ParseFormatted(completion.Content)
	if err != nil {
		writeSafeError(w, r, err, "Failed to format text")
		return
	}

	writeJSON(w, http.StatusOK, models.FormatResponse{Formatted: formatted})
}

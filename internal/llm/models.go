package llm

import (
	"github.com/ahaideveloper150-collab/brainbolt3/internal/apperr"
)

// Task types, one per endpoint.
const (
	TaskFormat     = "format"
	TaskMCQ        = "mcq"
	TaskFlashcards = "flashcards"
	TaskBooster    = "concept-booster"
)

// ModelConfig selects the model and sampling temperature for one task.
type ModelConfig struct {
	Identifier  string
	Temperature float32
	Description string
}

var defaultModels = map[string]ModelConfig{
	TaskFormat: {
		Identifier:  "gpt-4o-mini",
		Temperature: 0.2,
		Description: "deterministic text restructuring",
	},
	TaskMCQ: {
		Identifier:  "gpt-4o-mini",
		Temperature: 0.4,
		Description: "question generation with mild variety",
	},
	TaskFlashcards: {
		Identifier:  "gpt-4o-mini",
		Temperature: 0.4,
		Description: "card generation with mild variety",
	},
	TaskBooster: {
		Identifier:  "gpt-4o",
		Temperature: 0.6,
		Description: "adaptive lesson content",
	},
}

// allowedOverrides is the set of model identifiers a request may select via
// its optional "model" field.
var allowedOverrides = map[string]bool{
	"gpt-4o-mini":            true,
	"gpt-4o":                 true,
	"gpt-4.1-mini":           true,
	"gemini-2.0-flash":       true,
	"gemini-3-flash-preview": true,
}

// Registry resolves the ModelConfig for a task, applying deployment-level
// overrides first and per-request overrides second.
type Registry struct {
	byTask map[string]ModelConfig
}

// NewRegistry builds a registry from the defaults plus optional per-task
// identifier overrides (task name -> model identifier), typically sourced
// from the environment.
func NewRegistry(overrides map[string]string) *Registry {
	byTask := make(map[string]ModelConfig, len(defaultModels))
	for task, cfg := range defaultModels {
		if id, ok := overrides[task]; ok && id != "" {
			cfg.Identifier = id
		}
		byTask[task] = cfg
	}
	return &Registry{byTask: byTask}
}

// Resolve returns the effective model for a task. A non-empty requested
// identifier must be on the allow-list.
func (r *Registry) Resolve(task, requested string) (ModelConfig, error) {
	cfg, ok := r.byTask[task]
	if !ok {
		return ModelConfig{}, &apperr.ConfigurationError{Message: "no model configured for task " + task}
	}
	if requested != "" {
		if !allowedOverrides[requested] {
			return ModelConfig{}, &apperr.ValidationError{Message: "model is not in the allowed set"}
		}
		cfg.Identifier = requested
	}
	return cfg, nil
}

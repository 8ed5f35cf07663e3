package parse

import (
	"encoding/json"
	"strings"

	"github.com/ahaideveloper150-collab/brainbolt3/internal/apperr"
	"github.com/ahaideveloper150-collab/brainbolt3/internal/models"
)

// ItemPolicy makes the per-entity leniency explicit: MCQ batches are
// all-or-nothing (a malformed correct answer breaks the whole set), flashcard
// batches degrade gracefully (a subset of valid cards is still useful).
type ItemPolicy int

const (
	// StrictItems fails the whole batch on the first invalid item.
	StrictItems ItemPolicy = iota

	// DropInvalidItems silently removes invalid items and keeps the rest.
	DropInvalidItems
)

type envelope struct {
	Status    string `json:"status"`
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

// unwrapEnvelope extracts JSON from raw and maps a model-reported error
// status onto the error taxonomy. On success it returns the full object (or
// legacy bare array) for payload decoding.
func unwrapEnvelope(raw string) (json.RawMessage, error) {
	data, err := ExtractJSON(raw)
	if err != nil {
		return nil, &apperr.ParseError{Message: "no JSON in model output", Err: err}
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		// Legacy reply shape: a bare top-level array, no status wrapper.
		return data, nil
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &apperr.ParseError{Message: "model output is not an object", Err: err}
	}

	switch strings.ToUpper(env.Status) {
	case "ERROR":
		if strings.EqualFold(env.ErrorCode, apperr.CodeInsufficientContext) {
			return nil, &apperr.InsufficientContextError{Message: env.Message}
		}
		msg := env.Message
		if msg == "" {
			msg = "model reported an error"
		}
		return nil, &apperr.UpstreamError{Message: msg}
	default:
		return data, nil
	}
}

// ParseFormatted extracts the formatted-text payload.
func ParseFormatted(raw string) (string, error) {
	data, err := unwrapEnvelope(raw)
	if err != nil {
		return "", err
	}
	var payload struct {
		Formatted string `json:"formatted"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", &apperr.ParseError{Message: "decode formatted payload", Err: err}
	}
	if strings.TrimSpace(payload.Formatted) == "" {
		return "", &apperr.ParseError{Message: "model returned no formatted text"}
	}
	return payload.Formatted, nil
}

var validCorrect = map[string]bool{"A": true, "B": true, "C": true, "D": true}

// ParseMCQs validates a question batch. Under StrictItems any single
// malformed item fails the entire request: no partial list is ever returned.
func ParseMCQs(raw string, policy ItemPolicy) ([]models.MCQ, error) {
	data, err := unwrapEnvelope(raw)
	if err != nil {
		return nil, err
	}

	var items []models.MCQ
	if strings.HasPrefix(strings.TrimSpace(string(data)), "[") {
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, &apperr.ParseError{Message: "decode mcq array", Err: err}
		}
	} else {
		var payload struct {
			MCQs []models.MCQ `json:"mcqs"`
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, &apperr.ParseError{Message: "decode mcq payload", Err: err}
		}
		items = payload.MCQs
	}

	if len(items) == 0 {
		return nil, &apperr.ParseError{Message: "model returned no questions"}
	}

	out := make([]models.MCQ, 0, len(items))
	for i, q := range items {
		q.Question = strings.TrimSpace(q.Question)
		q.Correct = strings.ToUpper(strings.TrimSpace(q.Correct))

		valid := q.Question != "" && len(q.Options) == 4 && validCorrect[q.Correct]
		if !valid {
			if policy == StrictItems {
				return nil, &apperr.ParseError{Message: "model returned a malformed question"}
			}
			continue
		}
		if q.ID == 0 {
			q.ID = i + 1
		}
		out = append(out, q)
	}
	if len(out) == 0 {
		return nil, &apperr.ParseError{Message: "model returned no valid questions"}
	}
	return out, nil
}

var validCardTypes = map[string]bool{"concept": true, "application": true, "trick": true}

// ParseFlashcards validates a card batch. Under DropInvalidItems, cards with
// an empty front or back after trimming are dropped, not fatal; a missing or
// unknown type is coerced to "concept".
func ParseFlashcards(raw string, policy ItemPolicy) ([]models.Flashcard, error) {
	data, err := unwrapEnvelope(raw)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Flashcards []models.Flashcard `json:"flashcards"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &apperr.ParseError{Message: "decode flashcard payload", Err: err}
	}
	if len(payload.Flashcards) == 0 {
		return nil, &apperr.ParseError{Message: "model returned no flashcards"}
	}

	out := make([]models.Flashcard, 0, len(payload.Flashcards))
	for _, c := range payload.Flashcards {
		c.Front = strings.TrimSpace(c.Front)
		c.Back = strings.TrimSpace(c.Back)
		if !validCardTypes[c.Type] {
			c.Type = "concept"
		}
		if c.Front == "" || c.Back == "" {
			if policy == StrictItems {
				return nil, &apperr.ParseError{Message: "model returned a malformed flashcard"}
			}
			continue
		}
		c.ID = len(out) + 1
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil, &apperr.ParseError{Message: "model returned no valid flashcards"}
	}
	return out, nil
}

// ParseBoosterContent decodes the step-specific payload into the tagged
// content union and checks the variant's required field is present.
func ParseBoosterContent(raw, step string) (models.BoosterContent, error) {
	var content models.BoosterContent

	data, err := unwrapEnvelope(raw)
	if err != nil {
		return content, err
	}
	if err := json.Unmarshal(data, &content); err != nil {
		return content, &apperr.ParseError{Message: "decode booster payload", Err: err}
	}

	switch step {
	case models.StepDiagnostic:
		if content.Diagnostic == nil || len(content.Diagnostic.Questions) == 0 {
			return content, &apperr.ParseError{Message: "model returned no diagnostic questions"}
		}
		content = models.BoosterContent{Diagnostic: content.Diagnostic}
	case models.StepExplanation:
		if content.Explanation == nil || strings.TrimSpace(content.Explanation.Explanation) == "" {
			return content, &apperr.ParseError{Message: "model returned no explanation"}
		}
		content = models.BoosterContent{Explanation: content.Explanation}
	case models.StepAskDoubts:
		if content.DoubtAnswer == nil || strings.TrimSpace(content.DoubtAnswer.Answer) == "" {
			return content, &apperr.ParseError{Message: "model returned no doubt answer"}
		}
		content = models.BoosterContent{DoubtAnswer: content.DoubtAnswer}
	case models.StepCheckUnderstanding:
		if content.UnderstandingCheck == nil || strings.TrimSpace(content.UnderstandingCheck.Question) == "" {
			return content, &apperr.ParseError{Message: "model returned no understanding check"}
		}
		content = models.BoosterContent{UnderstandingCheck: content.UnderstandingCheck}
	case models.StepPractice:
		if content.Practice == nil || strings.TrimSpace(content.Practice.Task) == "" {
			return content, &apperr.ParseError{Message: "model returned no practice task"}
		}
		content = models.BoosterContent{Practice: content.Practice}
	case models.StepFeedback:
		if content.Feedback == nil || strings.TrimSpace(content.Feedback.Summary) == "" {
			return content, &apperr.ParseError{Message: "model returned no feedback"}
		}
		content = models.BoosterContent{Feedback: content.Feedback}
	default:
		return content, &apperr.ParseError{Message: "unknown booster step: " + step}
	}
	return content, nil
}

// TokenEstimate prefers the model-reported count and otherwise approximates
// one token per four characters of sanitized input, rounded up.
func TokenEstimate(reported, sanitizedLen int) int {
	if reported > 0 {
		return reported
	}
	return (sanitizedLen + 3) / 4
}

// Package validate holds the per-endpoint input checks. All functions are
// pure: they run after sanitization, check the sanitized value for length,
// and return the first failing check's error.
package validate

import (
	"fmt"
	"strings"

	"github.com/ahaideveloper150-collab/brainbolt3/internal/apperr"
)

const (
	MaxTextLength    = 12000
	MaxContentLength = 15000
	MaxTopicLength   = 500
	MinQuestions     = 1
	MaxQuestions     = 50
)

var Difficulties = []string{"easy", "medium", "hard"}

var LearningLevels = []string{"beginner", "intermediate", "advanced", "expert"}

var BoosterSteps = []string{
	"diagnostic",
	"explanation",
	"ask_doubts",
	"check_understanding",
	"practice",
	"feedback",
}

func inList(value string, allowed []string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

// textField checks a free-text field. The raw value decides emptiness (empty
// before sanitization is a distinct error from empty after), the sanitized
// value decides length.
func textField(name, raw, sanitized string, maxLen int) error {
	if strings.TrimSpace(raw) == "" {
		return &apperr.ValidationError{Message: fmt.Sprintf("%s is required", name)}
	}
	if sanitized == "" {
		return &apperr.ValidationError{Message: fmt.Sprintf("%s is empty after sanitization", name)}
	}
	if len([]rune(sanitized)) > maxLen {
		return &apperr.ValidationError{Message: fmt.Sprintf("%s must be at most %d characters", name, maxLen)}
	}
	return nil
}

func FormatRequest(rawText, sanitizedText string) error {
	return textField("text", rawText, sanitizedText, MaxTextLength)
}

func MCQRequest(rawText, sanitizedText string, numQuestions int, difficulty string) error {
	if err := textField("text", rawText, sanitizedText, MaxTextLength); err != nil {
		return err
	}
	if numQuestions < MinQuestions || numQuestions > MaxQuestions {
		return &apperr.ValidationError{
			Message: fmt.Sprintf("num_questions must be between %d and %d", MinQuestions, MaxQuestions),
		}
	}
	if !inList(difficulty, Difficulties) {
		return &apperr.ValidationError{Message: "difficulty must be one of: easy, medium, hard"}
	}
	return nil
}

func FlashcardsRequest(rawContent, sanitizedContent, learningLevel string) error {
	if err := textField("content", rawContent, sanitizedContent, MaxContentLength); err != nil {
		return err
	}
	if !inList(learningLevel, LearningLevels) {
		return &apperr.ValidationError{
			Message: "learning_level must be one of: " + strings.Join(LearningLevels, ", "),
		}
	}
	return nil
}

func BoosterRequest(rawTopic, sanitizedTopic, learningLevel, step string) error {
	if err := textField("topic", rawTopic, sanitizedTopic, MaxTopicLength); err != nil {
		return err
	}
	if !inList(learningLevel, LearningLevels) {
		return &apperr.ValidationError{
			Message: "learning_level must be one of: " + strings.Join(LearningLevels, ", "),
		}
	}
	if !inList(step, BoosterSteps) {
		return &apperr.ValidationError{
			Message: "step must be one of: " + strings.Join(BoosterSteps, ", "),
		}
	}
	return nil
}

package parse

import (
	"errors"
	"testing"

	"github.com/ahaideveloper150-collab/brainbolt3/internal/apperr"
	"github.com/ahaideveloper150-collab/brainbolt3/internal/models"
)

func TestParseFormatted(t *testing.T) {
	t.Run("success envelope", func(t *testing.T) {
		raw := "```json\n{\"status\":\"SUCCESS\",\"formatted\":\"# Notes\\n\\nBody.\"}\n```"
		got, err := ParseFormatted(raw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "# Notes\n\nBody." {
			t.Errorf("formatted = %q", got)
		}
	})

	t.Run("empty formatted field", func(t *testing.T) {
		_, err := ParseFormatted(`{"status":"SUCCESS","formatted":"  "}`)
		var pe *apperr.ParseError
		if !errors.As(err, &pe) {
			t.Fatalf("expected ParseError, got %v", err)
		}
	})

	t.Run("insufficient context", func(t *testing.T) {
		raw := `{"status":"ERROR","error_code":"INSUFFICIENT_CONTEXT","message":"The text is too short to format."}`
		_, err := ParseFormatted(raw)
		var ice *apperr.InsufficientContextError
		if !errors.As(err, &ice) {
			t.Fatalf("expected InsufficientContextError, got %v", err)
		}
		if ice.Message != "The text is too short to format." {
			t.Errorf("message = %q, model message must pass through verbatim", ice.Message)
		}
	})

	t.Run("other model error", func(t *testing.T) {
		_, err := ParseFormatted(`{"status":"ERROR","error_code":"SOMETHING_ELSE","message":"nope"}`)
		var ue *apperr.UpstreamError
		if !errors.As(err, &ue) {
			t.Fatalf("expected UpstreamError, got %v", err)
		}
	})
}

func mcqJSON(questions string) string {
	return `{"status":"SUCCESS","mcqs":[` + questions + `]}`
}

const goodQuestion = `{"id":1,"question":"What is 2+2?","options":["1","2","3","4"],"correct":"D","explanation":"Basic arithmetic."}`

func TestParseMCQs_Strict(t *testing.T) {
	t.Run("valid batch", func(t *testing.T) {
		raw := mcqJSON(goodQuestion + "," + `{"id":2,"question":"Capital of France?","options":["Paris","Rome","Oslo","Bern"],"correct":"a"}`)
		got, err := ParseMCQs(raw, StrictItems)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("got %d questions, want 2", len(got))
		}
		if got[1].Correct != "A" {
			t.Errorf("correct answer not normalized: %q", got[1].Correct)
		}
	})

	t.Run("one malformed question fails the whole batch", func(t *testing.T) {
		bad := `{"id":2,"question":"Pick one","options":["a","b","c"],"correct":"A"}`
		raw := mcqJSON(goodQuestion + "," + bad + "," + goodQuestion)
		got, err := ParseMCQs(raw, StrictItems)
		var pe *apperr.ParseError
		if !errors.As(err, &pe) {
			t.Fatalf("expected ParseError, got %v", err)
		}
		if got != nil {
			t.Errorf("no partial batch may be returned, got %d questions", len(got))
		}
	})

	t.Run("invalid correct letter fails batch", func(t *testing.T) {
		bad := `{"question":"Pick","options":["a","b","c","d"],"correct":"E"}`
		if _, err := ParseMCQs(mcqJSON(bad), StrictItems); err == nil {
			t.Fatal("expected an error for correct answer outside A-D")
		}
	})

	t.Run("legacy bare array", func(t *testing.T) {
		raw := "[" + goodQuestion + "]"
		got, err := ParseMCQs(raw, StrictItems)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 1 || got[0].Question != "What is 2+2?" {
			t.Errorf("unexpected result: %+v", got)
		}
	})

	t.Run("missing ids assigned sequentially", func(t *testing.T) {
		raw := mcqJSON(`{"question":"Q1","options":["a","b","c","d"],"correct":"A"},{"question":"Q2","options":["a","b","c","d"],"correct":"B"}`)
		got, err := ParseMCQs(raw, StrictItems)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got[0].ID != 1 || got[1].ID != 2 {
			t.Errorf("ids = %d, %d; want 1, 2", got[0].ID, got[1].ID)
		}
	})

	t.Run("empty list", func(t *testing.T) {
		if _, err := ParseMCQs(`{"status":"SUCCESS","mcqs":[]}`, StrictItems); err == nil {
			t.Fatal("expected an error for an empty batch")
		}
	})
}

func flashcardJSON(cards string) string {
	return `{"status":"SUCCESS","flashcards":[` + cards + `]}`
}

func TestParseFlashcards_Lenient(t *testing.T) {
	t.Run("invalid cards dropped not fatal", func(t *testing.T) {
		raw := flashcardJSON(`
			{"type":"concept","front":"Osmosis","back":"Water moves across a membrane."},
			{"type":"application","front":"","back":"orphan back"},
			{"type":"trick","front":"orphan front","back":"   "},
			{"type":"concept","front":"Diffusion","back":"Particles spread out."}`)
		got, err := ParseFlashcards(raw, DropInvalidItems)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("got %d cards, want 2", len(got))
		}
		if got[0].Front != "Osmosis" || got[1].Front != "Diffusion" {
			t.Errorf("wrong survivors: %+v", got)
		}
	})

	t.Run("ids renumbered after drops", func(t *testing.T) {
		raw := flashcardJSON(`
			{"type":"concept","front":"A","back":"a"},
			{"type":"concept","front":"","back":"x"},
			{"type":"concept","front":"B","back":"b"}`)
		got, err := ParseFlashcards(raw, DropInvalidItems)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got[0].ID != 1 || got[1].ID != 2 {
			t.Errorf("ids = %d, %d; want 1, 2", got[0].ID, got[1].ID)
		}
	})

	t.Run("unknown type coerced to concept", func(t *testing.T) {
		raw := flashcardJSON(`{"type":"mystery","front":"F","back":"B"}`)
		got, err := ParseFlashcards(raw, DropInvalidItems)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got[0].Type != "concept" {
			t.Errorf("type = %q, want concept", got[0].Type)
		}
	})

	t.Run("all cards invalid", func(t *testing.T) {
		raw := flashcardJSON(`{"type":"concept","front":"","back":""}`)
		if _, err := ParseFlashcards(raw, DropInvalidItems); err == nil {
			t.Fatal("expected an error when nothing survives")
		}
	})

	t.Run("insufficient context propagates", func(t *testing.T) {
		raw := `{"status":"ERROR","error_code":"insufficient_context","message":"Not enough material."}`
		_, err := ParseFlashcards(raw, DropInvalidItems)
		var ice *apperr.InsufficientContextError
		if !errors.As(err, &ice) {
			t.Fatalf("expected InsufficientContextError, got %v", err)
		}
	})
}

func TestParseBoosterContent(t *testing.T) {
	t.Run("diagnostic", func(t *testing.T) {
		raw := `{"status":"SUCCESS","diagnostic":{"questions":["What do you already know about osmosis?"]}}`
		got, err := ParseBoosterContent(raw, models.StepDiagnostic)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Diagnostic == nil || len(got.Diagnostic.Questions) != 1 {
			t.Fatalf("diagnostic payload missing: %+v", got)
		}
		if got.Explanation != nil || got.Practice != nil {
			t.Error("non-requested variants must be zeroed")
		}
	})

	t.Run("explanation", func(t *testing.T) {
		raw := `{"status":"SUCCESS","explanation":{"explanation":"Osmosis is...","key_points":["water","membrane"]}}`
		got, err := ParseBoosterContent(raw, models.StepExplanation)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Explanation == nil || got.Explanation.Explanation == "" {
			t.Fatalf("explanation payload missing: %+v", got)
		}
	})

	t.Run("missing required field", func(t *testing.T) {
		raw := `{"status":"SUCCESS","practice":{"task":"  "}}`
		_, err := ParseBoosterContent(raw, models.StepPractice)
		var pe *apperr.ParseError
		if !errors.As(err, &pe) {
			t.Fatalf("expected ParseError, got %v", err)
		}
	})

	t.Run("unknown step", func(t *testing.T) {
		if _, err := ParseBoosterContent(`{"status":"SUCCESS"}`, "review"); err == nil {
			t.Fatal("expected an error for an unknown step")
		}
	})
}

func TestTokenEstimate(t *testing.T) {
	tests := []struct {
		name         string
		reported     int
		sanitizedLen int
		want         int
	}{
		{"reported wins", 120, 4000, 120},
		{"fallback rounds up", 0, 10, 3},
		{"fallback exact", 0, 8, 2},
		{"empty input", 0, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := TokenEstimate(tc.reported, tc.sanitizedLen); got != tc.want {
				t.Errorf("TokenEstimate(%d, %d) = %d, want %d", tc.reported, tc.sanitizedLen, got, tc.want)
			}
		})
	}
}

package llm

import (
	"fmt"
	"strings"

	"github.com/ahaideveloper150-collab/brainbolt3/internal/models"
)

// Prompt builders. Each returns (system, user). The system prompt pins the
// JSON envelope contract the response parser expects; the user prompt carries
// the sanitized study material.

const jsonEnvelopeRules = `CRITICAL output rules:
- Return ONLY a single valid JSON object. No preamble, no markdown, no backticks.
- On success the object MUST contain "status": "SUCCESS".
- If the provided text does not contain enough factual content to do the task,
  return exactly: {"status": "ERROR", "error_code": "INSUFFICIENT_CONTEXT", "message": "<one sentence why>"}
`

func BuildFormatPrompts(text string) (string, string) {
	var b strings.Builder
	b.WriteString("You are an expert study-material editor. Reformat the student's raw notes into clean, well-structured markdown: headings, bullet lists, bold key terms. Never invent facts that are not in the text.\n\n")
	b.WriteString(jsonEnvelopeRules)
	b.WriteString("\nSuccess schema: {\"status\": \"SUCCESS\", \"formatted\": \"<markdown string>\"}\n")

	var u strings.Builder
	u.WriteString("---TEXT START---\n")
	u.WriteString(text)
	u.WriteString("\n---TEXT END---\n")

	return b.String(), u.String()
}

func BuildMCQPrompts(req models.GenerateMCQRequest, text string) (string, string) {
	var b strings.Builder
	b.WriteString("You are an expert educational assessor. Generate multiple-choice questions strictly from the provided text.\n\n")
	b.WriteString(jsonEnvelopeRules)

	b.WriteString(fmt.Sprintf("\nGenerate exactly %d questions.\n", req.NumQuestions))
	b.WriteString(fmt.Sprintf("Difficulty: %s\n", req.Difficulty))
	switch req.Difficulty {
	case "easy":
		b.WriteString("Easy = direct recall from text.\n")
	case "medium":
		b.WriteString("Medium = application of concepts.\n")
	case "hard":
		b.WriteString("Hard = analysis, synthesis, or inference beyond what is explicitly stated.\n")
	}
	if req.IncludeExplanations {
		b.WriteString("Every question must include a one-sentence explanation of the correct answer.\n")
	}

	b.WriteString(`
Success schema:
{"status": "SUCCESS", "mcqs": [{"id": 1, "question": "string", "options": ["A text", "B text", "C text", "D text"], "correct": "A", "explanation": "string"}]}

Rules per question: exactly 4 options; "correct" is one of "A","B","C","D".
`)

	var u strings.Builder
	if req.Title != "" {
		u.WriteString("Topic: " + req.Title + "\n\n")
	}
	u.WriteString("---TEXT START---\n")
	u.WriteString(text)
	u.WriteString("\n---TEXT END---\n")

	return b.String(), u.String()
}

func BuildFlashcardPrompts(req models.GenerateFlashcardsRequest, content string) (string, string) {
	var b strings.Builder
	b.WriteString("You are an expert flashcard creator. Generate high-quality flashcards from the content below.\n\n")
	b.WriteString(jsonEnvelopeRules)

	b.WriteString(fmt.Sprintf("\nTarget learner level: %s. Match vocabulary and depth to that level.\n", req.LearningLevel))
	b.WriteString(`
Card types:
- "concept": core definition or principle
- "application": how/when to apply it
- "trick": common pitfall, exception, or exam trap

Success schema:
{"status": "SUCCESS", "flashcards": [{"id": 1, "type": "concept", "front": "string", "back": "string"}]}

Rules: front under 15 words; back under 60 words and self-contained; mix the three types; no two cards may test the same point.
`)

	var u strings.Builder
	u.WriteString("---CONTENT START---\n")
	u.WriteString(content)
	u.WriteString("\n---CONTENT END---\n")

	return b.String(), u.String()
}

func BuildBoosterPrompts(req models.BoosterRequest, topic string) (string, string) {
	var b strings.Builder
	b.WriteString("You are a patient, adaptive tutor running a short guided lesson. React only to what the student actually wrote.\n\n")
	b.WriteString(jsonEnvelopeRules)
	b.WriteString(fmt.Sprintf("\nStudent level: %s. Topic: %s.\n", req.LearningLevel, topic))

	switch req.Step {
	case models.StepDiagnostic:
		b.WriteString(`
Task: produce 3 short diagnostic questions that reveal what the student already knows about the topic.
Success schema: {"status": "SUCCESS", "diagnostic": {"questions": ["q1", "q2", "q3"]}}
`)
	case models.StepExplanation:
		b.WriteString(`
Task: explain the topic at the student's level, using their diagnostic answers to skip what they know and target what they don't.
Success schema: {"status": "SUCCESS", "explanation": {"explanation": "string", "key_points": ["string"], "analogy": "string"}}
`)
	case models.StepAskDoubts:
		b.WriteString(`
Task: answer the student's doubt directly and concretely, then suggest one follow-up question they might ask next.
Success schema: {"status": "SUCCESS", "doubt_answer": {"answer": "string", "follow_up": "string"}}
`)
	case models.StepCheckUnderstanding:
		b.WriteString(`
Task: pose one open-ended question that tests whether the student understood the explanation. Include up to two hints.
Success schema: {"status": "SUCCESS", "understanding_check": {"question": "string", "hints": ["string"]}}
`)
	case models.StepPractice:
		b.WriteString(`
Task: set one practice task the student can solve with what was just taught. Include up to two hints.
Success schema: {"status": "SUCCESS", "practice": {"task": "string", "hints": ["string"]}}
`)
	case models.StepFeedback:
		b.WriteString(`
Task: review the whole session transcript and give the student honest feedback: what they grasped, where the gaps are, what to do next.
Success schema: {"status": "SUCCESS", "feedback": {"summary": "string", "strengths": ["string"], "gaps": ["string"], "next_steps": ["string"]}}
`)
	}

	var u strings.Builder
	if len(req.DiagnosticAnswers) > 0 {
		u.WriteString("Student's diagnostic answers:\n")
		for i, a := range req.DiagnosticAnswers {
			u.WriteString(fmt.Sprintf("%d. %s\n", i+1, a))
		}
		u.WriteString("\n")
	}
	if req.Doubt != "" {
		u.WriteString("Student's doubt: " + req.Doubt + "\n\n")
	}
	if req.UserResponse != "" {
		u.WriteString("Student's response: " + req.UserResponse + "\n\n")
	}
	if len(req.ConversationHistory) > 0 {
		u.WriteString("---SESSION TRANSCRIPT---\n")
		for _, turn := range req.ConversationHistory {
			u.WriteString(turn.Role + ": " + turn.Content + "\n")
		}
		u.WriteString("---END TRANSCRIPT---\n")
	}
	if u.Len() == 0 {
		u.WriteString("Begin the \"" + req.Step + "\" step for the topic above.\n")
	}

	return b.String(), u.String()
}

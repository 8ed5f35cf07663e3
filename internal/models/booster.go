package models

// Concept booster steps. The client drives the state machine by sending the
// step it wants next; the server holds no session state between calls.
const (
	StepDiagnostic         = "diagnostic"
	StepExplanation        = "explanation"
	StepAskDoubts          = "ask_doubts"
	StepCheckUnderstanding = "check_understanding"
	StepPractice           = "practice"
	StepFeedback           = "feedback"
)

type ConversationTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type BoosterRequest struct {
	Topic               string             `json:"topic"`
	LearningLevel       string             `json:"learning_level"`
	Step                string             `json:"step"`
	DiagnosticAnswers   []string           `json:"diagnostic_answers,omitempty"`
	Doubt               string             `json:"doubt,omitempty"`
	UserResponse        string             `json:"user_response,omitempty"`
	ConversationHistory []ConversationTurn `json:"conversation_history,omitempty"`
	Model               string             `json:"model,omitempty"`
}

// BoosterContent is a tagged union: exactly one field is non-nil, selected by
// the step of the request that produced it.
type BoosterContent struct {
	Diagnostic         *DiagnosticContent         `json:"diagnostic,omitempty"`
	Explanation        *ExplanationContent        `json:"explanation,omitempty"`
	DoubtAnswer        *DoubtAnswerContent        `json:"doubt_answer,omitempty"`
	UnderstandingCheck *UnderstandingCheckContent `json:"understanding_check,omitempty"`
	Practice           *PracticeContent           `json:"practice,omitempty"`
	Feedback           *FeedbackContent           `json:"feedback,omitempty"`
}

type DiagnosticContent struct {
	Questions []string `json:"questions"`
}

type ExplanationContent struct {
	Explanation string   `json:"explanation"`
	KeyPoints   []string `json:"key_points,omitempty"`
	Analogy     string   `json:"analogy,omitempty"`
}

type DoubtAnswerContent struct {
	Answer   string `json:"answer"`
	FollowUp string `json:"follow_up,omitempty"`
}

type UnderstandingCheckContent struct {
	Question string   `json:"question"`
	Hints    []string `json:"hints,omitempty"`
}

type PracticeContent struct {
	Task  string   `json:"task"`
	Hints []string `json:"hints,omitempty"`
}

type FeedbackContent struct {
	Summary   string   `json:"summary"`
	Strengths []string `json:"strengths,omitempty"`
	Gaps      []string `json:"gaps,omitempty"`
	NextSteps []string `json:"next_steps,omitempty"`
}

type BoosterMetadata struct {
	Topic          string `json:"topic"`
	LearningLevel  string `json:"learning_level"`
	TokensEstimate int    `json:"tokens_estimate"`
}

type BoosterResponse struct {
	Status   string          `json:"status"`
	Step     string          `json:"step"`
	Content  BoosterContent  `json:"content"`
	Metadata BoosterMetadata `json:"metadata"`
}

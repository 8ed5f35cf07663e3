package models

type GenerateFlashcardsRequest struct {
	Content       string `json:"content"`
	LearningLevel string `json:"learning_level"`
	Model         string `json:"model,omitempty"`
}

type Flashcard struct {
	ID    int    `json:"id"`
	Type  string `json:"type"` // "concept" | "application" | "trick"
	Front string `json:"front"`
	Back  string `json:"back"`
}

type FlashcardMetadata struct {
	LearningLevel    string `json:"learning_level"`
	TotalCards       int    `json:"total_cards"`
	ConceptCards     int    `json:"concept_cards"`
	ApplicationCards int    `json:"application_cards"`
	TrickCards       int    `json:"trick_cards"`
	TokensEstimate   int    `json:"tokens_estimate"`
}

type FlashcardsResponse struct {
	Status     string            `json:"status"`
	Flashcards []Flashcard       `json:"flashcards"`
	Metadata   FlashcardMetadata `json:"metadata"`
}

package models

type GenerateMCQRequest struct {
	Text                string `json:"text"`
	NumQuestions        int    `json:"num_questions"`
	Difficulty          string `json:"difficulty"`
	IncludeExplanations bool   `json:"include_explanations"`
	Title               string `json:"title,omitempty"`
	Model               string `json:"model,omitempty"`
}

type MCQ struct {
	ID          int      `json:"id"`
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Correct     string   `json:"correct"`
	Explanation string   `json:"explanation,omitempty"`
}

type MCQResponse struct {
	MCQs         []MCQ `json:"mcqs"`
	SourceTokens int   `json:"source_tokens"`
}

package models

type FormatRequest struct {
	Text  string `json:"text"`
	Model string `json:"model,omitempty"`
}

type FormatResponse struct {
	Formatted string `json:"formatted"`
}

package models

// ErrorResponse is the wire shape every endpoint uses for failures.
type ErrorResponse struct {
	Error      string `json:"error"`
	ErrorCode  string `json:"error_code,omitempty"`
	RetryAfter int    `json:"retry_after,omitempty"`
}

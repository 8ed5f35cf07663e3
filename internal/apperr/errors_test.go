package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestToSafeError(t *testing.T) {
	SetDevelopment(false)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "validation message passes through",
			err:        &ValidationError{Message: "text must not be empty"},
			wantStatus: 400,
			wantCode:   CodeValidation,
			wantMsg:    "text must not be empty",
		},
		{
			name:       "rate limit",
			err:        &RateLimitError{RetryAfter: 42},
			wantStatus: 429,
			wantCode:   CodeRateLimited,
			wantMsg:    "Too many requests. Please try again later.",
		},
		{
			name:       "payload too large",
			err:        &PayloadTooLargeError{Limit: 15360},
			wantStatus: 413,
			wantCode:   CodePayloadTooLarge,
			wantMsg:    "Request body too large",
		},
		{
			name:       "insufficient context keeps model message",
			err:        &InsufficientContextError{Message: "The text has no study content."},
			wantStatus: 400,
			wantCode:   CodeInsufficientContext,
			wantMsg:    "The text has no study content.",
		},
		{
			name:       "insufficient context empty message gets fallback",
			err:        &InsufficientContextError{},
			wantStatus: 400,
			wantCode:   CodeInsufficientContext,
			wantMsg:    "The provided text does not contain enough information",
		},
		{
			name:       "configuration hidden in production",
			err:        &ConfigurationError{Message: "LLM API key is not configured"},
			wantStatus: 500,
			wantCode:   CodeConfiguration,
			wantMsg:    "Something went wrong",
		},
		{
			name:       "upstream hidden in production",
			err:        &UpstreamError{Message: "upstream returned status 502"},
			wantStatus: 500,
			wantCode:   CodeUpstream,
			wantMsg:    "Something went wrong",
		},
		{
			name:       "timeout",
			err:        &UpstreamTimeoutError{Err: errors.New("context deadline exceeded")},
			wantStatus: 504,
			wantCode:   CodeUpstreamTimeout,
			wantMsg:    "Something went wrong",
		},
		{
			name:       "parse hidden in production",
			err:        &ParseError{Message: "no JSON in model output"},
			wantStatus: 500,
			wantCode:   CodeParse,
			wantMsg:    "Something went wrong",
		},
		{
			name:       "unknown error",
			err:        errors.New("disk on fire"),
			wantStatus: 500,
			wantCode:   CodeInternal,
			wantMsg:    "Something went wrong",
		},
		{
			name:       "wrapped typed error still matches",
			err:        fmt.Errorf("handler: %w", &ValidationError{Message: "bad difficulty"}),
			wantStatus: 400,
			wantCode:   CodeValidation,
			wantMsg:    "bad difficulty",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ToSafeError(tc.err, "Something went wrong")
			if got.StatusCode != tc.wantStatus {
				t.Errorf("status = %d, want %d", got.StatusCode, tc.wantStatus)
			}
			if got.Code != tc.wantCode {
				t.Errorf("code = %q, want %q", got.Code, tc.wantCode)
			}
			if got.Message != tc.wantMsg {
				t.Errorf("message = %q, want %q", got.Message, tc.wantMsg)
			}
		})
	}
}

func TestToSafeError_DevelopmentLeaksDetail(t *testing.T) {
	SetDevelopment(true)
	defer SetDevelopment(false)

	got := ToSafeError(&UpstreamError{Message: "upstream returned status 502"}, "Something went wrong")
	if got.Message != "upstream returned status 502" {
		t.Errorf("development message = %q, want the internal detail", got.Message)
	}
}

func TestToSafeError_RetryAfterCarried(t *testing.T) {
	got := ToSafeError(&RateLimitError{RetryAfter: 17}, "x")
	if got.RetryAfter != 17 {
		t.Errorf("retry after = %d, want 17", got.RetryAfter)
	}
}

func TestRedact(t *testing.T) {
	in := map[string]any{
		"path":       "/api/v1/mcq",
		"api_key":    "sk-live-123",
		"Password":   "hunter2",
		"authHeader": "Bearer abc",
		"client_secret": map[string]any{
			"inner": "value",
		},
		"request": map[string]any{
			"token": "abc",
			"body":  "hello",
		},
	}

	got := Redact(in)

	if got["path"] != "/api/v1/mcq" {
		t.Errorf("benign field changed: %v", got["path"])
	}
	for _, k := range []string{"api_key", "Password", "authHeader", "client_secret"} {
		if got[k] != "[REDACTED]" {
			t.Errorf("%s = %v, want [REDACTED]", k, got[k])
		}
	}

	nested, ok := got["request"].(map[string]any)
	if !ok {
		t.Fatalf("nested map lost: %T", got["request"])
	}
	if nested["token"] != "[REDACTED]" {
		t.Errorf("nested token = %v, want [REDACTED]", nested["token"])
	}
	if nested["body"] != "hello" {
		t.Errorf("nested benign field changed: %v", nested["body"])
	}

	if in["api_key"] != "sk-live-123" {
		t.Error("redaction must not mutate the input map")
	}
}

func TestRedact_Nil(t *testing.T) {
	if got := Redact(nil); got != nil {
		t.Errorf("Redact(nil) = %v, want nil", got)
	}
}

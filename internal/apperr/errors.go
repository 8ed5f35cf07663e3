package apperr

import (
	"errors"
	"fmt"
)

// Stable error codes surfaced to callers.
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeRateLimited         = "RATE_LIMITED"
	CodePayloadTooLarge     = "PAYLOAD_TOO_LARGE"
	CodeConfiguration       = "CONFIGURATION_ERROR"
	CodeUpstream            = "UPSTREAM_ERROR"
	CodeUpstreamTimeout     = "UPSTREAM_TIMEOUT"
	CodeInsufficientContext = "INSUFFICIENT_CONTEXT"
	CodeParse               = "PARSE_ERROR"
	CodeInternal            = "INTERNAL_ERROR"
)

// ValidationError is malformed or out-of-range input, caught before any
// upstream call is made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// RateLimitError is a quota rejection. RetryAfter is seconds until the
// client's window resets.
type RateLimitError struct {
	RetryAfter int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %ds", e.RetryAfter)
}

// PayloadTooLargeError is a request body over the endpoint's byte ceiling,
// detected before JSON decoding.
type PayloadTooLargeError struct {
	Limit int64
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("request body exceeds %d bytes", e.Limit)
}

// ConfigurationError is a deployment bug (missing upstream credential), not a
// user error.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string { return e.Message }

// UpstreamError is a failed or empty reply from the external LLM API.
type UpstreamError struct {
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// UpstreamTimeoutError is the upstream call exceeding its deadline.
type UpstreamTimeoutError struct {
	Err error
}

func (e *UpstreamTimeoutError) Error() string {
	return fmt.Sprintf("upstream call timed out: %v", e.Err)
}

func (e *UpstreamTimeoutError) Unwrap() error { return e.Err }

// InsufficientContextError means the model explicitly declined because the
// input lacked extractable facts. A content error, not a text-validity error.
type InsufficientContextError struct {
	Message string
}

func (e *InsufficientContextError) Error() string { return e.Message }

// ParseError is LLM output that did not match the expected JSON contract.
type ParseError struct {
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ParseError) Unwrap() error { return e.Err }

// SafeError is what a handler may put on the wire.
type SafeError struct {
	Message    string
	StatusCode int
	Code       string
	RetryAfter int
}

// ToSafeError maps any error onto a user-facing SafeError without leaking
// internals. Validation, rate-limit, payload-size and insufficient-context
// errors carry messages that are safe by construction; everything else
// surfaces only defaultMessage outside development mode.
func ToSafeError(err error, defaultMessage string) SafeError {
	var (
		ve  *ValidationError
		rle *RateLimitError
		ple *PayloadTooLargeError
		ce  *ConfigurationError
		ue  *UpstreamError
		te  *UpstreamTimeoutError
		ice *InsufficientContextError
		pe  *ParseError
	)

	switch {
	case errors.As(err, &ve):
		return SafeError{Message: ve.Message, StatusCode: 400, Code: CodeValidation}
	case errors.As(err, &rle):
		return SafeError{
			Message:    "Too many requests. Please try again later.",
			StatusCode: 429,
			Code:       CodeRateLimited,
			RetryAfter: rle.RetryAfter,
		}
	case errors.As(err, &ple):
		return SafeError{Message: "Request body too large", StatusCode: 413, Code: CodePayloadTooLarge}
	case errors.As(err, &ice):
		msg := ice.Message
		if msg == "" {
			msg = "The provided text does not contain enough information"
		}
		return SafeError{Message: msg, StatusCode: 400, Code: CodeInsufficientContext}
	case errors.As(err, &ce):
		return SafeError{Message: internalMessage(ce.Message, defaultMessage), StatusCode: 500, Code: CodeConfiguration}
	case errors.As(err, &te):
		return SafeError{Message: internalMessage(te.Error(), defaultMessage), StatusCode: 504, Code: CodeUpstreamTimeout}
	case errors.As(err, &ue):
		return SafeError{Message: internalMessage(ue.Error(), defaultMessage), StatusCode: 500, Code: CodeUpstream}
	case errors.As(err, &pe):
		return SafeError{Message: internalMessage(pe.Error(), defaultMessage), StatusCode: 500, Code: CodeParse}
	default:
		return SafeError{Message: internalMessage(errText(err), defaultMessage), StatusCode: 500, Code: CodeInternal}
	}
}

func internalMessage(detail, defaultMessage string) string {
	if IsDevelopment() {
		return detail
	}
	return defaultMessage
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

package apperr

import (
	"log/slog"
	"runtime/debug"
	"strings"
	"sync/atomic"
)

var development atomic.Bool

// SetDevelopment switches the package into development mode. In development,
// internal error text reaches callers and stack traces are logged.
func SetDevelopment(on bool) { development.Store(on) }

func IsDevelopment() bool { return development.Load() }

var sensitiveKeywords = []string{"password", "secret", "key", "token", "auth"}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, kw := range sensitiveKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Redact returns a copy of fields with every sensitive value, at any nesting
// depth, replaced by a marker.
func Redact(fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if isSensitiveKey(k) {
			out[k] = "[REDACTED]"
			continue
		}
		if nested, ok := v.(map[string]any); ok {
			out[k] = Redact(nested)
			continue
		}
		out[k] = v
	}
	return out
}

// LogError writes a structured, redacted error line. Full detail stays
// server-side; what reaches the caller is decided by ToSafeError.
func LogError(err error, context map[string]any) {
	attrs := []any{slog.String("error", errText(err))}
	for k, v := range Redact(context) {
		attrs = append(attrs, slog.Any(k, v))
	}
	if IsDevelopment() {
		attrs = append(attrs, slog.String("stack", string(debug.Stack())))
	}
	slog.Error("request failed", attrs...)
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ahaideveloper150-collab/brainbolt3/internal/apperr"
	"github.com/ahaideveloper150-collab/brainbolt3/internal/models"
)

// MaxBodyBytes is the request-body ceiling for every generation endpoint,
// checked against Content-Length before any JSON decoding.
const MaxBodyBytes = 15 * 1024

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeSafeError normalizes err, logs the redacted detail server-side, and
// puts only the safe shape on the wire.
func writeSafeError(w http.ResponseWriter, r *http.Request, err error, defaultMessage string) {
	safe := apperr.ToSafeError(err, defaultMessage)
	apperr.LogError(err, map[string]any{
		"path":       r.URL.Path,
		"request_id": r.Header.Get("X-Request-ID"),
		"status":     safe.StatusCode,
		"code":       safe.Code,
	})
	writeJSON(w, safe.StatusCode, models.ErrorResponse{
		Error:      safe.Message,
		ErrorCode:  safe.Code,
		RetryAfter: safe.RetryAfter,
	})
}

// guardBodySize rejects oversized payloads before the body is read and caps
// the reader for bodies that lie about their length.
func guardBodySize(w http.ResponseWriter, r *http.Request) bool {
	if r.ContentLength > MaxBodyBytes {
		writeSafeError(w, r, &apperr.PayloadTooLargeError{Limit: MaxBodyBytes}, "Request body too large")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	return true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		// Chunked bodies carry no Content-Length, so the size cap can only
		// trip here, mid-decode.
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeSafeError(w, r, &apperr.PayloadTooLargeError{Limit: mbe.Limit}, "Request body too large")
			return false
		}
		writeSafeError(w, r, &apperr.ValidationError{Message: "Invalid request body"}, "Invalid request body")
		return false
	}
	return true
}

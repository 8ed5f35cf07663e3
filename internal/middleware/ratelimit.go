package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ahaideveloper150-collab/brainbolt3/internal/apperr"
	"github.com/ahaideveloper150-collab/brainbolt3/internal/models"
	"github.com/ahaideveloper150-collab/brainbolt3/internal/ratelimit"
)

// RateLimiter enforces the per-client request ceiling in front of every
// generation endpoint, before the body is read.
type RateLimiter struct {
	store  ratelimit.Store
	limit  int
	window time.Duration
	policy string
}

func NewRateLimiter(store ratelimit.Store, limit int, window time.Duration, policy string) *RateLimiter {
	return &RateLimiter{store: store, limit: limit, window: window, policy: policy}
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, err := ratelimit.ClientKey(r, rl.policy)
		if err != nil {
			writeError(w, http.StatusBadRequest, models.ErrorResponse{
				Error:     "Client identity could not be determined",
				ErrorCode: apperr.CodeValidation,
			})
			return
		}

		dec, err := rl.store.Check(r.Context(), key, rl.limit, rl.window)
		if err != nil {
			// A broken store must not take the whole API down: allow the
			// request and leave a trace.
			slog.Warn("rate limit store unavailable", slog.Any("error", err))
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(dec.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(dec.ResetAt.Unix(), 10))

		if !dec.Allowed {
			retryAfter := dec.RetryAfter(time.Now())
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			writeError(w, http.StatusTooManyRequests, models.ErrorResponse{
				Error:      "Too many requests. Please try again later.",
				ErrorCode:  apperr.CodeRateLimited,
				RetryAfter: retryAfter,
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeError(w http.ResponseWriter, status int, body models.ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

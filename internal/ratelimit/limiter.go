// Package ratelimit implements per-client fixed-window request limiting with
// a pluggable backing store. The in-memory store is the default; Redis and
// Postgres stores share quota across instances.
package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultLimit  = 10
	DefaultWindow = 60 * time.Second

	// SharedBucket is the counter all unidentified clients share under the
	// "shared" policy.
	SharedBucket = "unknown"
)

// Decision is the outcome of a quota check.
type Decision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// RetryAfter returns whole seconds until the window resets, at least 1.
func (d Decision) RetryAfter(now time.Time) int {
	secs := int(d.ResetAt.Sub(now).Seconds()) + 1
	if secs < 1 {
		secs = 1
	}
	return secs
}

// Store checks and consumes quota for a client key. Implementations must make
// the read-modify-write atomic so concurrent requests cannot exceed the limit.
type Store interface {
	Check(ctx context.Context, key string, limit int, window time.Duration) (Decision, error)
}

// Unidentified-client policies.
const (
	PolicyShared = "shared" // all unidentified clients share one bucket
	PolicyReject = "reject" // fail closed
)

// ErrUnidentifiedClient is returned by ClientKey under the reject policy when
// no forwarding header identifies the caller.
var ErrUnidentifiedClient = errors.New("client identity could not be determined")

// ClientKey derives the rate-limit key for a request: the first segment of
// X-Forwarded-For, then X-Real-IP, then the configured fallback policy.
func ClientKey(r *http.Request, policy string) (string, error) {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip, nil
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip, nil
	}
	if policy == PolicyReject {
		return "", ErrUnidentifiedClient
	}
	return SharedBucket, nil
}

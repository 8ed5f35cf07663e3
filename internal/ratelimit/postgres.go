package ratelimit

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps the fixed-window counters in a shared table so quota
// survives restarts and spans instances. The upsert does the whole
// read-modify-write in one statement, so it is atomic without advisory locks.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the backing table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS rate_limits (
			client_key TEXT PRIMARY KEY,
			count      INTEGER NOT NULL,
			window_end TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("create rate_limits table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Check(ctx context.Context, key string, limit int, window time.Duration) (Decision, error) {
	now := time.Now()
	windowEnd := now.Add(window)

	var (
		count   int
		resetAt time.Time
	)
	err := s.pool.QueryRow(ctx, `
		INSERT INTO rate_limits (client_key, count, window_end)
		VALUES ($1, 1, $2)
		ON CONFLICT (client_key) DO UPDATE SET
			count = CASE WHEN rate_limits.window_end <= now()
				THEN 1 ELSE rate_limits.count + 1 END,
			window_end = CASE WHEN rate_limits.window_end <= now()
				THEN $2 ELSE rate_limits.window_end END
		RETURNING count, window_end`,
		key, windowEnd,
	).Scan(&count, &resetAt)
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit upsert: %w", err)
	}

	if rand.Intn(100) == 0 {
		// Lazy eviction, same policy as the in-memory store.
		s.pool.Exec(ctx, `DELETE FROM rate_limits WHERE window_end <= now()`)
	}

	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   count <= limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}

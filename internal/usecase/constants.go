package usecase

import "time"

const (
	// DefaultPageSize applies when a list request does not specify a limit.
	DefaultPageSize = 20

	// MaxPageSize caps list requests regardless of the requested limit.
	MaxPageSize = 100

	// StatsCacheTTL bounds how long computed statistics live in the cache.
	// Keys carry the trip's ledger version, so the TTL only controls memory
	// pressure, not staleness.
	StatsCacheTTL = 10 * time.Minute

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour
)

package usecase

import (
	"context"
	"time"

	"github.com/tripledger/tripledger/internal/domain"
)

// TripRepository defines data access for trips.
type TripRepository interface {
	Create(ctx context.Context, trip *domain.Trip) error
	GetByID(ctx context.Context, id string) (*domain.Trip, error)
	List(ctx context.Context, status string, limit, offset int) ([]*domain.Trip, error)
	Update(ctx context.Context, trip *domain.Trip) error
	Delete(ctx context.Context, id string) error
	// BumpVersion increments the trip's ledger version inside tx and
	// returns the new version. Every transaction write goes through this
	// so cached statistics keyed on the version go stale immediately.
	BumpVersion(ctx context.Context, tx Transaction, id string, updatedAt time.Time) (int64, error)
}

// MemberRepository defines data access for trip members.
type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) error
	GetByID(ctx context.Context, id string) (*domain.Member, error)
	ListByTrip(ctx context.Context, tripID string) ([]*domain.Member, error)
	Update(ctx context.Context, member *domain.Member) error
	Delete(ctx context.Context, id string) error
	// CountReferences reports how many transactions or splits still point
	// at the member. Deleting a referenced member would corrupt balances.
	CountReferences(ctx context.Context, memberID string) (int64, error)
}

// WalletRepository defines data access for pooled wallets.
type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByID(ctx context.Context, id string) (*domain.Wallet, error)
	ListByTrip(ctx context.Context, tripID string) ([]*domain.Wallet, error)
	Update(ctx context.Context, wallet *domain.Wallet) error
	Delete(ctx context.Context, id string) error
	// ReplaceMembers swaps the wallet's participant set atomically.
	ReplaceMembers(ctx context.Context, walletID string, memberIDs []string) error
}

// CategoryRepository defines data access for expense categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id string) error
}

// TransactionRepository defines data access for ledger transactions and
// their splits.
type TransactionRepository interface {
	CreateTx(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	UpdateTx(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	DeleteTx(ctx context.Context, tx Transaction, id string) error
	List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error)
	// ListByTrip returns every transaction of a trip ordered by occurrence
	// time, the full input for balance folding. An empty tripID returns
	// transactions across all trips.
	ListByTrip(ctx context.Context, tripID string) ([]*domain.Transaction, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier retries an operation that failed with a transient error.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

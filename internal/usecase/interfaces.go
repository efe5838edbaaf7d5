package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/domain"
)

// WalletRepository defines data access for wallets.
type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByID(ctx context.Context, id string) (*domain.Wallet, error)
	GetByOwner(ctx context.Context, ownerID string) (*domain.Wallet, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Wallet, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Wallet, error)
	GetByOwnerForUpdate(ctx context.Context, tx Transaction, ownerID string) (*domain.Wallet, error)
	UpdateBalances(ctx context.Context, tx Transaction, id string, available, held decimal.Decimal, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Wallet, error)
}

// EntryRepository defines data access for ledger entries. Append is the only
// mutator anywhere in the system that touches the ledger.
type EntryRepository interface {
	// Append inserts the entry. When the idempotency key already exists it
	// returns the stored entry together with domain.ErrDuplicateIdempotencyKey
	// so callers can treat the retry as a no-op success.
	Append(ctx context.Context, tx Transaction, entry *domain.Entry) (*domain.Entry, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.Entry, error)
	ListByWallet(ctx context.Context, walletID string, limit, offset int) ([]*domain.Entry, error)
	ListByNegotiation(ctx context.Context, negotiationID string) ([]*domain.Entry, error)
}

// LedgerRepository defines ledger-wide fold queries.
type LedgerRepository interface {
	// FoldBalance computes the wallet balance from its entries alone.
	FoldBalance(ctx context.Context, walletID string) (domain.Balance, error)
	// SumByKind sums absolute entry amounts per kind across the whole ledger.
	SumByKind(ctx context.Context) (map[domain.EntryKind]decimal.Decimal, error)
}

// HoldRepository defines data access for escrow holds.
type HoldRepository interface {
	Create(ctx context.Context, tx Transaction, hold *domain.EscrowHold) error
	GetByNegotiation(ctx context.Context, negotiationID string) (*domain.EscrowHold, error)
	GetByNegotiationForUpdate(ctx context.Context, tx Transaction, negotiationID string) (*domain.EscrowHold, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.HoldStatus, updatedAt time.Time) error
	ListByWallet(ctx context.Context, walletID string, limit, offset int) ([]*domain.EscrowHold, error)
	SumActive(ctx context.Context) (decimal.Decimal, error)
}

// NegotiationRepository defines data access for bookings and project
// applications. Implementations persist both kinds in one table tagged by
// kind and return the matching concrete type.
type NegotiationRepository interface {
	// Create persists a new negotiation inside the caller's transaction so
	// the row and its created event commit together.
	Create(ctx context.Context, tx Transaction, req domain.NegotiableRequest) error
	GetByID(ctx context.Context, id string) (domain.NegotiableRequest, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (domain.NegotiableRequest, error)
	// Update persists the request with an optimistic version check: the row is
	// written only if its stored version still equals req.Core().Version, and
	// the version is bumped. A lost race fails domain.ErrStaleNegotiation.
	Update(ctx context.Context, tx Transaction, req domain.NegotiableRequest) error
	ListByParticipant(ctx context.Context, userID string, limit, offset int) ([]domain.NegotiableRequest, error)
	ListPaymentInitiatedBefore(ctx context.Context, before time.Time, limit int) ([]domain.NegotiableRequest, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error)
	DeletePublished(ctx context.Context, before time.Time) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// PaymentGateway is the external settlement provider. InitiateCharge hands
// the charge off and returns immediately; the provider later confirms through
// the payment-confirmed webhook, which is the sole trigger for
// AWAITING_PAYMENT -> CONFIRMED.
type PaymentGateway interface {
	InitiateCharge(ctx context.Context, negotiationID string, amount decimal.Decimal, currency string) (string, error)
	VerifySignature(payload []byte, signature string) error
}

// Retrier retries an operation on transient failures such as deadlocks and
// lost optimistic-version races.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
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

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/domain"
	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/usecase"
)

const entryColumns = "id, wallet_id, kind, amount, negotiation_id, idempotency_key, created_at"

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

// Append inserts an entry. On an idempotency key collision it loads the stored
// entry and returns it with domain.ErrDuplicateIdempotencyKey so the caller
// can treat the retry as already applied. The collision is absorbed with ON
// CONFLICT rather than caught as a unique violation: a raised 23505 aborts
// the enclosing transaction and the recovery select could never run on it.
func (r *EntryRepository) Append(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) (*domain.Entry, error) {
	q := txQuerier(tx)

	tag, err := q.Exec(ctx, `
		INSERT INTO ledger_entries (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (idempotency_key) DO NOTHING`,
		entry.ID,
		entry.WalletID,
		string(entry.Kind),
		decimalToNumeric(entry.Amount),
		entry.NegotiationID,
		entry.IdempotencyKey,
		timeToPgTimestamptz(entry.CreatedAt),
	)
	if err != nil {
		return nil, err
	}

	if tag.RowsAffected() == 0 {
		stored, err := scanEntry(q.QueryRow(ctx,
			`SELECT `+entryColumns+` FROM ledger_entries WHERE idempotency_key = $1`,
			entry.IdempotencyKey))
		if err != nil {
			return nil, err
		}

		return stored, domain.ErrDuplicateIdempotencyKey
	}

	return entry, nil
}

// GetByIdempotencyKey retrieves an entry by its idempotency key.
func (r *EntryRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Entry, error) {
	return scanEntry(r.pool.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM ledger_entries WHERE idempotency_key = $1`, key))
}

// ListByWallet retrieves a wallet's entries, newest first.
func (r *EntryRepository) ListByWallet(ctx context.Context, walletID string, limit, offset int) ([]*domain.Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+entryColumns+` FROM ledger_entries
		WHERE wallet_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`,
		walletID, int32(limit), int32(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEntries(rows)
}

// ListByNegotiation retrieves all entries settling one negotiation, in
// creation order.
func (r *EntryRepository) ListByNegotiation(ctx context.Context, negotiationID string) ([]*domain.Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+entryColumns+` FROM ledger_entries
		WHERE negotiation_id = $1
		ORDER BY created_at, id`,
		negotiationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEntries(rows)
}

func scanEntry(row pgx.Row) (*domain.Entry, error) {
	var (
		e         domain.Entry
		kind      string
		amount    pgtype.Numeric
		createdAt pgtype.Timestamptz
	)

	err := row.Scan(&e.ID, &e.WalletID, &kind, &amount, &e.NegotiationID, &e.IdempotencyKey, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	e.Kind = domain.EntryKind(kind)
	e.Amount = numericToDecimal(amount)
	e.CreatedAt = createdAt.Time

	return &e, nil
}

func collectEntries(rows pgx.Rows) ([]*domain.Entry, error) {
	entries := make([]*domain.Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/domain"
)

// LedgerRepository implements usecase.LedgerRepository with fold queries over
// the ledger_entries table.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// FoldBalance recomputes a wallet's balance from its entries alone. This is
// the source of truth the cached wallet row is reconciled against.
func (r *LedgerRepository) FoldBalance(ctx context.Context, walletID string) (domain.Balance, error) {
	var available, held pgtype.Numeric

	err := r.pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(CASE
				WHEN kind IN ('DEPOSIT', 'PAYOUT', 'HOLD_REFUND', 'FEE') THEN ABS(amount)
				WHEN kind IN ('HOLD', 'WITHDRAWAL') THEN -ABS(amount)
				ELSE 0
			END), 0),
			COALESCE(SUM(CASE
				WHEN kind = 'HOLD' THEN ABS(amount)
				WHEN kind IN ('HOLD_RELEASE', 'HOLD_REFUND') THEN -ABS(amount)
				ELSE 0
			END), 0)
		FROM ledger_entries
		WHERE wallet_id = $1`,
		walletID).Scan(&available, &held)
	if err != nil {
		return domain.Balance{}, err
	}

	return domain.Balance{
		Available: numericToDecimal(available),
		Held:      numericToDecimal(held),
	}, nil
}

// SumByKind sums absolute entry amounts per kind across the whole ledger.
func (r *LedgerRepository) SumByKind(ctx context.Context) (map[domain.EntryKind]decimal.Decimal, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT kind, COALESCE(SUM(ABS(amount)), 0)
		FROM ledger_entries
		GROUP BY kind`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sums := make(map[domain.EntryKind]decimal.Decimal)
	for rows.Next() {
		var (
			kind string
			sum  pgtype.Numeric
		)
		if err := rows.Scan(&kind, &sum); err != nil {
			return nil, err
		}
		sums[domain.EntryKind(kind)] = numericToDecimal(sum)
	}

	return sums, rows.Err()
}

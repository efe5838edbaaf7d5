package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/domain"
	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/usecase"
)

const holdColumns = "id, wallet_id, negotiation_id, amount, status, created_at, updated_at"

// HoldRepository implements usecase.HoldRepository.
type HoldRepository struct {
	pool *pgxpool.Pool
}

// NewHoldRepository creates a new HoldRepository.
func NewHoldRepository(pool *pgxpool.Pool) *HoldRepository {
	return &HoldRepository{pool: pool}
}

// Create creates a new escrow hold.
func (r *HoldRepository) Create(ctx context.Context, tx usecase.Transaction, hold *domain.EscrowHold) error {
	_, err := txQuerier(tx).Exec(ctx, `
		INSERT INTO escrow_holds (`+holdColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		hold.ID,
		hold.WalletID,
		hold.NegotiationID,
		decimalToNumeric(hold.Amount),
		string(hold.Status),
		timeToPgTimestamptz(hold.CreatedAt),
		timeToPgTimestamptz(hold.UpdatedAt),
	)

	return err
}

// GetByNegotiation retrieves the hold backing a negotiation.
func (r *HoldRepository) GetByNegotiation(ctx context.Context, negotiationID string) (*domain.EscrowHold, error) {
	return scanHold(r.pool.QueryRow(ctx,
		`SELECT `+holdColumns+` FROM escrow_holds WHERE negotiation_id = $1`, negotiationID))
}

// GetByNegotiationForUpdate retrieves the hold with a FOR UPDATE lock.
func (r *HoldRepository) GetByNegotiationForUpdate(ctx context.Context, tx usecase.Transaction, negotiationID string) (*domain.EscrowHold, error) {
	return scanHold(txQuerier(tx).QueryRow(ctx,
		`SELECT `+holdColumns+` FROM escrow_holds WHERE negotiation_id = $1 FOR UPDATE`, negotiationID))
}

// UpdateStatus moves a hold to its terminal status.
func (r *HoldRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.HoldStatus, updatedAt time.Time) error {
	tag, err := txQuerier(tx).Exec(ctx, `
		UPDATE escrow_holds SET status = $2, updated_at = $3 WHERE id = $1`,
		id, string(status), timeToPgTimestamptz(updatedAt))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrHoldNotFound
	}

	return nil
}

// ListByWallet retrieves a wallet's holds, newest first.
func (r *HoldRepository) ListByWallet(ctx context.Context, walletID string, limit, offset int) ([]*domain.EscrowHold, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+holdColumns+` FROM escrow_holds
		WHERE wallet_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`,
		walletID, int32(limit), int32(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	holds := make([]*domain.EscrowHold, 0)
	for rows.Next() {
		h, err := scanHold(rows)
		if err != nil {
			return nil, err
		}
		holds = append(holds, h)
	}

	return holds, rows.Err()
}

// SumActive sums the amounts of all active holds. Used by the conservation
// check against the ledger's hold entries.
func (r *HoldRepository) SumActive(ctx context.Context) (decimal.Decimal, error) {
	var sum pgtype.Numeric

	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM escrow_holds WHERE status = 'active'`).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}

func scanHold(row pgx.Row) (*domain.EscrowHold, error) {
	var (
		h                    domain.EscrowHold
		amount               pgtype.Numeric
		status               string
		createdAt, updatedAt pgtype.Timestamptz
	)

	err := row.Scan(&h.ID, &h.WalletID, &h.NegotiationID, &amount, &status, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrHoldNotFound
		}

		return nil, err
	}

	h.Amount = numericToDecimal(amount)
	h.Status = domain.HoldStatus(status)
	h.CreatedAt = createdAt.Time
	h.UpdatedAt = updatedAt.Time

	return &h, nil
}

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

const negotiationColumns = `id, kind, client_id, creator_id, amount, currency, status,
	escrow_hold_id, counter_amount, counter_proposed_at, gateway_ref, payment_initiated_at,
	delivered_url, delivered_notes, brief, project_id, proposal, version, created_at, updated_at`

// NegotiationRepository implements usecase.NegotiationRepository. Bookings and
// project applications share one table tagged by kind; the kind decides which
// concrete type a row scans back into.
type NegotiationRepository struct {
	pool *pgxpool.Pool
}

// NewNegotiationRepository creates a new NegotiationRepository.
func NewNegotiationRepository(pool *pgxpool.Pool) *NegotiationRepository {
	return &NegotiationRepository{pool: pool}
}

// Create persists a new negotiation inside the caller's transaction.
func (r *NegotiationRepository) Create(ctx context.Context, tx usecase.Transaction, req domain.NegotiableRequest) error {
	n := req.Core()

	var brief, projectID, proposal *string
	switch v := req.(type) {
	case *domain.Booking:
		brief = &v.Brief
	case *domain.ProjectApplication:
		projectID = &v.ProjectID
		proposal = &v.Proposal
	}

	_, err := txQuerier(tx).Exec(ctx, `
		INSERT INTO negotiations (`+negotiationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
		n.ID,
		string(req.Kind()),
		n.ClientID,
		n.CreatorID,
		decimalToNumeric(n.Amount),
		n.Currency,
		string(n.Status),
		n.EscrowHoldID,
		decimalPtrToNumeric(n.CounterAmount),
		timePtrToPgTimestamptz(n.CounterProposedAt),
		n.GatewayRef,
		timePtrToPgTimestamptz(n.PaymentInitiatedAt),
		n.DeliveredURL,
		n.DeliveredNotes,
		brief,
		projectID,
		proposal,
		n.Version,
		timeToPgTimestamptz(n.CreatedAt),
		timeToPgTimestamptz(n.UpdatedAt),
	)

	return err
}

// GetByID retrieves a negotiation by ID.
func (r *NegotiationRepository) GetByID(ctx context.Context, id string) (domain.NegotiableRequest, error) {
	return scanNegotiation(r.pool.QueryRow(ctx,
		`SELECT `+negotiationColumns+` FROM negotiations WHERE id = $1`, id))
}

// GetByIDForUpdate retrieves a negotiation by ID with a FOR UPDATE lock.
func (r *NegotiationRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (domain.NegotiableRequest, error) {
	return scanNegotiation(txQuerier(tx).QueryRow(ctx,
		`SELECT `+negotiationColumns+` FROM negotiations WHERE id = $1 FOR UPDATE`, id))
}

// Update persists the negotiation guarded by an optimistic version check. The
// write only lands when the stored version still equals req.Core().Version;
// a lost race fails domain.ErrStaleNegotiation and the caller retries from a
// fresh read.
func (r *NegotiationRepository) Update(ctx context.Context, tx usecase.Transaction, req domain.NegotiableRequest) error {
	n := req.Core()

	tag, err := txQuerier(tx).Exec(ctx, `
		UPDATE negotiations
		SET amount = $2, status = $3, escrow_hold_id = $4, counter_amount = $5,
			counter_proposed_at = $6, gateway_ref = $7, payment_initiated_at = $8,
			delivered_url = $9, delivered_notes = $10, version = version + 1, updated_at = $11
		WHERE id = $1 AND version = $12`,
		n.ID,
		decimalToNumeric(n.Amount),
		string(n.Status),
		n.EscrowHoldID,
		decimalPtrToNumeric(n.CounterAmount),
		timePtrToPgTimestamptz(n.CounterProposedAt),
		n.GatewayRef,
		timePtrToPgTimestamptz(n.PaymentInitiatedAt),
		n.DeliveredURL,
		n.DeliveredNotes,
		timeToPgTimestamptz(n.UpdatedAt),
		n.Version,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Either the row vanished or someone got there first. Distinguish so
		// callers can surface the right error.
		var exists bool
		if err := txQuerier(tx).QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM negotiations WHERE id = $1)`, n.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrNegotiationNotFound
		}

		return domain.ErrStaleNegotiation
	}

	n.Version++

	return nil
}

// ListByParticipant retrieves negotiations where the user is client or
// creator, newest first.
func (r *NegotiationRepository) ListByParticipant(ctx context.Context, userID string, limit, offset int) ([]domain.NegotiableRequest, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+negotiationColumns+` FROM negotiations
		WHERE client_id = $1 OR creator_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`,
		userID, int32(limit), int32(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectNegotiations(rows)
}

// ListPaymentInitiatedBefore finds AWAITING_PAYMENT negotiations whose gateway
// charge was initiated before the cutoff. Feeds the expiry sweep.
func (r *NegotiationRepository) ListPaymentInitiatedBefore(ctx context.Context, before time.Time, limit int) ([]domain.NegotiableRequest, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+negotiationColumns+` FROM negotiations
		WHERE status = $1 AND payment_initiated_at IS NOT NULL AND payment_initiated_at < $2
		ORDER BY payment_initiated_at
		LIMIT $3`,
		string(domain.StatusAwaitingPayment), timeToPgTimestamptz(before), int32(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectNegotiations(rows)
}

func scanNegotiation(row pgx.Row) (domain.NegotiableRequest, error) {
	var (
		n                                   domain.Negotiation
		kind, status                        string
		amount, counterAmount               pgtype.Numeric
		counterProposedAt, paymentInitiated pgtype.Timestamptz
		brief, projectID, proposal          *string
		createdAt, updatedAt                pgtype.Timestamptz
	)

	err := row.Scan(
		&n.ID, &kind, &n.ClientID, &n.CreatorID, &amount, &n.Currency, &status,
		&n.EscrowHoldID, &counterAmount, &counterProposedAt, &n.GatewayRef, &paymentInitiated,
		&n.DeliveredURL, &n.DeliveredNotes, &brief, &projectID, &proposal,
		&n.Version, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNegotiationNotFound
		}

		return nil, err
	}

	n.Amount = numericToDecimal(amount)
	n.Status = domain.Status(status)
	if counterAmount.Valid {
		d := numericToDecimal(counterAmount)
		n.CounterAmount = &d
	}
	if counterProposedAt.Valid {
		t := counterProposedAt.Time
		n.CounterProposedAt = &t
	}
	if paymentInitiated.Valid {
		t := paymentInitiated.Time
		n.PaymentInitiatedAt = &t
	}
	n.CreatedAt = createdAt.Time
	n.UpdatedAt = updatedAt.Time

	switch domain.RequestKind(kind) {
	case domain.KindProjectApplication:
		app := &domain.ProjectApplication{Negotiation: n}
		if projectID != nil {
			app.ProjectID = *projectID
		}
		if proposal != nil {
			app.Proposal = *proposal
		}

		return app, nil
	default:
		booking := &domain.Booking{Negotiation: n}
		if brief != nil {
			booking.Brief = *brief
		}

		return booking, nil
	}
}

func collectNegotiations(rows pgx.Rows) ([]domain.NegotiableRequest, error) {
	reqs := make([]domain.NegotiableRequest, 0)
	for rows.Next() {
		req, err := scanNegotiation(rows)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}

	return reqs, rows.Err()
}

func decimalPtrToNumeric(d *decimal.Decimal) pgtype.Numeric {
	if d == nil {
		return pgtype.Numeric{}
	}

	return decimalToNumeric(*d)
}

func timePtrToPgTimestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}

	return timeToPgTimestamptz(*t)
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type HoldStatus string

const (
	HoldStatusActive   HoldStatus = "active"
	HoldStatusReleased HoldStatus = "released"
	HoldStatusRefunded HoldStatus = "refunded"
)

// EscrowHold earmarks funds on a client wallet for one negotiation. Exactly
// one terminal transition per hold: released (payout + fee to the
// counterparties) or refunded (mirrors the original HOLD entry).
type EscrowHold struct {
	ID            string
	WalletID      string
	NegotiationID string
	Amount        decimal.Decimal
	Status        HoldStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate checks if hold is valid.
func (h *EscrowHold) Validate() error {
	if h.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if h.NegotiationID == "" {
		return ErrInvalidEntry
	}
	return nil
}

// Terminal reports whether the hold already reached its one terminal state.
func (h *EscrowHold) Terminal() bool {
	return h.Status == HoldStatusReleased || h.Status == HoldStatusRefunded
}

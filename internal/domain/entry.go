package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind classifies a ledger entry.
type EntryKind string

const (
	EntryDeposit     EntryKind = "DEPOSIT"
	EntryHold        EntryKind = "HOLD"
	EntryHoldRelease EntryKind = "HOLD_RELEASE"
	EntryHoldRefund  EntryKind = "HOLD_REFUND"
	EntryPayout      EntryKind = "PAYOUT"
	EntryFee         EntryKind = "FEE"
	EntryWithdrawal  EntryKind = "WITHDRAWAL"
)

var validEntryKinds = map[EntryKind]bool{
	EntryDeposit:     true,
	EntryHold:        true,
	EntryHoldRelease: true,
	EntryHoldRefund:  true,
	EntryPayout:      true,
	EntryFee:         true,
	EntryWithdrawal:  true,
}

// Entry is an immutable ledger fact. Entries are never rewritten; corrections
// are new compensating entries. The idempotency key makes re-application of
// the same external event a no-op.
type Entry struct {
	ID             string
	WalletID       string
	Kind           EntryKind
	Amount         decimal.Decimal
	NegotiationID  *string
	IdempotencyKey string
	CreatedAt      time.Time
}

// Validate checks kind, amount and required references.
func (e *Entry) Validate() error {
	if !validEntryKinds[e.Kind] {
		return ErrInvalidEntry
	}
	if e.Amount.IsZero() {
		return ErrInvalidAmount
	}
	if e.IdempotencyKey == "" {
		return ErrInvalidEntry
	}
	switch e.Kind {
	case EntryHold, EntryHoldRelease, EntryHoldRefund, EntryPayout, EntryFee:
		// Escrow-side entries always reference the negotiation they settle.
		if e.NegotiationID == nil || *e.NegotiationID == "" {
			return ErrInvalidEntry
		}
	}
	return nil
}

// AvailableDelta is the entry's contribution to the wallet's available
// balance fold: available = Σ(DEPOSIT, PAYOUT, HOLD_REFUND, FEE) - Σ(HOLD, WITHDRAWAL).
// FEE credits land on the platform wallet and spend like any other funds.
func (e *Entry) AvailableDelta() decimal.Decimal {
	switch e.Kind {
	case EntryDeposit, EntryPayout, EntryHoldRefund, EntryFee:
		return e.Amount.Abs()
	case EntryHold, EntryWithdrawal:
		return e.Amount.Abs().Neg()
	default:
		return decimal.Zero
	}
}

// HeldDelta is the entry's contribution to the wallet's held balance fold:
// held = Σ(HOLD) - Σ(HOLD_RELEASE, HOLD_REFUND).
func (e *Entry) HeldDelta() decimal.Decimal {
	switch e.Kind {
	case EntryHold:
		return e.Amount.Abs()
	case EntryHoldRelease, EntryHoldRefund:
		return e.Amount.Abs().Neg()
	default:
		return decimal.Zero
	}
}

// Balance is the result of folding a wallet's entries.
type Balance struct {
	Available decimal.Decimal
	Held      decimal.Decimal
}

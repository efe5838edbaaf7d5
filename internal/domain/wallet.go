package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet is a user's balance container. Available and Held are cached
// projections of the ledger fold for this wallet; every mutation happens
// together with a ledger append inside one transaction, and the
// reconciliation use case verifies the cache against the fold.
type Wallet struct {
	ID        string
	OwnerID   string
	Currency  string
	Available decimal.Decimal
	Held      decimal.Decimal
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateDebit checks that amount can be taken from the available balance.
func (w *Wallet) ValidateDebit(amount decimal.Decimal) error {
	if w.Available.Sub(amount).IsNegative() {
		return ErrInsufficientBalance
	}
	return nil
}

// ApplyHold moves amount from available into held.
func (w *Wallet) ApplyHold(amount decimal.Decimal) {
	w.Available = w.Available.Sub(amount)
	w.Held = w.Held.Add(amount)
}

// ApplyHoldRelease clears amount from held. The matching payout and fee are
// credited to other wallets by the caller.
func (w *Wallet) ApplyHoldRelease(amount decimal.Decimal) {
	w.Held = w.Held.Sub(amount)
}

// ApplyHoldRefund returns amount from held to available.
func (w *Wallet) ApplyHoldRefund(amount decimal.Decimal) {
	w.Held = w.Held.Sub(amount)
	w.Available = w.Available.Add(amount)
}

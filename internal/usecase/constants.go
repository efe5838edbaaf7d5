package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultPaymentConfirmWindow is how long an initiated gateway charge may
	// stay unconfirmed before the expiry sweep clears the in-flight marker.
	DefaultPaymentConfirmWindow = 24 * time.Hour

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour
)

// Idempotency key suffixes for ledger entries. The key is
// "<negotiationID>:<suffix>", so replaying a terminal wallet effect for the
// same negotiation is always a no-op.
const (
	idemSuffixHold    = "hold"
	idemSuffixRelease = "release"
	idemSuffixPayout  = "payout"
	idemSuffixFee     = "fee"
	idemSuffixRefund  = "refund"
)

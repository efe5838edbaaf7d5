package domain

import "errors"

var (
	// Wallet / ledger errors
	ErrWalletNotFound          = errors.New("wallet not found")
	ErrInsufficientBalance     = errors.New("insufficient balance")
	ErrInvalidEntry            = errors.New("invalid ledger entry")
	ErrEntryNotFound           = errors.New("ledger entry not found")
	ErrDuplicateIdempotencyKey = errors.New("duplicate idempotency key")
	ErrCurrencyMismatch        = errors.New("currency mismatch")

	// Hold errors
	ErrHoldNotFound          = errors.New("hold not found")
	ErrHoldNotActive         = errors.New("hold is not active")
	ErrHoldInvariantViolated = errors.New("escrow hold does not match negotiation status")

	// Negotiation errors
	ErrNegotiationNotFound = errors.New("negotiation not found")
	ErrInvalidTransition   = errors.New("invalid negotiation transition")
	ErrStaleNegotiation    = errors.New("negotiation changed since last read")
	ErrActorNotAllowed     = errors.New("actor not allowed to perform this action")
	ErrSameParty           = errors.New("client and creator must differ")
	ErrPaymentInFlight     = errors.New("payment confirmation in flight")
	ErrPaymentNotInitiated = errors.New("payment was not initiated")

	// Gateway errors
	ErrGatewayCallbackInvalid = errors.New("invalid gateway callback")

	// Shared
	ErrInvalidAmount = errors.New("amount must be positive")
)

package domain

import "time"

// Event types emitted to the notifier.
const (
	EventBookingCreated          = "booking.created"
	EventBookingAccepted         = "booking.accepted"
	EventBookingRejected         = "booking.rejected"
	EventBookingCountered        = "booking.countered"
	EventBookingPaymentConfirmed = "booking.payment_confirmed"
	EventBookingDelivered        = "booking.delivered"
	EventBookingCompleted        = "booking.completed"
	EventBookingCancelled        = "booking.cancelled"
	EventBookingDisputed         = "booking.disputed"
	EventWalletHoldCreated       = "wallet.hold_created"
	EventWalletHoldReleased      = "wallet.hold_released"
	EventWalletHoldRefunded      = "wallet.hold_refunded"
	EventWalletInsufficient      = "wallet.insufficient_balance"
)

// Aggregate types
const (
	AggregateTypeNegotiation = "negotiation"
	AggregateTypeWallet      = "wallet"
	AggregateTypeHold        = "hold"
)

// OutboxEvent is written in the same transaction as the state change it
// announces and delivered later by the publisher, at least once. Delivery is
// never blocked on.
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// NegotiationEvent payload
type NegotiationEvent struct {
	NegotiationID string `json:"negotiation_id"`
	Kind          string `json:"kind"`
	ClientID      string `json:"client_id"`
	CreatorID     string `json:"creator_id"`
	Status        string `json:"status"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
}

// HoldEvent payload
type HoldEvent struct {
	HoldID        string `json:"hold_id"`
	WalletID      string `json:"wallet_id"`
	NegotiationID string `json:"negotiation_id"`
	Amount        string `json:"amount"`
	Status        string `json:"status"`
}

package dto

import (
	"github.com/shopspring/decimal"

	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/usecase"
)

// CreateBookingRequest represents a request to book a creator directly.
type CreateBookingRequest struct {
	ClientID  string          `json:"client_id"`
	CreatorID string          `json:"creator_id"`
	Amount    decimal.Decimal `json:"amount"`
	Brief     string          `json:"brief"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateBookingRequest) ToUseCaseInput() usecase.CreateBookingInput {
	return usecase.CreateBookingInput{
		ClientID:  r.ClientID,
		CreatorID: r.CreatorID,
		Amount:    r.Amount,
		Brief:     r.Brief,
	}
}

// CreateProjectApplicationRequest represents a creator's application to a
// posted project.
type CreateProjectApplicationRequest struct {
	ClientID  string          `json:"client_id"`
	CreatorID string          `json:"creator_id"`
	ProjectID string          `json:"project_id"`
	Amount    decimal.Decimal `json:"amount"`
	Proposal  string          `json:"proposal"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateProjectApplicationRequest) ToUseCaseInput() usecase.CreateProjectApplicationInput {
	return usecase.CreateProjectApplicationInput{
		ClientID:  r.ClientID,
		CreatorID: r.CreatorID,
		ProjectID: r.ProjectID,
		Amount:    r.Amount,
		Proposal:  r.Proposal,
	}
}

// TransitionRequest carries the fields shared by every negotiation action.
// Version is the version the caller last saw; a mismatch fails with 409 so
// nobody acts on a state they never read. Zero skips the check.
type TransitionRequest struct {
	UserID  string `json:"user_id"`
	Version int64  `json:"version"`
}

// CounterRequest represents a creator's counter-proposal.
type CounterRequest struct {
	TransitionRequest
	Amount decimal.Decimal `json:"amount"`
}

// DeliverRequest represents delivered work.
type DeliverRequest struct {
	TransitionRequest
	URL   string `json:"url"`
	Notes string `json:"notes,omitempty"`
}

// ResolveDisputeRequest selects the manual settlement of a disputed hold.
type ResolveDisputeRequest struct {
	Outcome string `json:"outcome"` // "release" or "refund"
}

// PaymentConfirmedWebhook is the gateway's confirmation callback payload.
type PaymentConfirmedWebhook struct {
	NegotiationID string `json:"negotiation_id"`
	Reference     string `json:"reference"`
}

// CreateWalletRequest represents a request to create a wallet.
type CreateWalletRequest struct {
	OwnerID string `json:"owner_id"`
}

// MoveFundsRequest represents a deposit or withdrawal.
type MoveFundsRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	IdempotencyKey string          `json:"idempotency_key,omitempty"`
}

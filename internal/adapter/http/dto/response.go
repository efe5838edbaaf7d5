package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/domain"
)

// NegotiationResponse represents a booking or project application in API
// responses. Kind-specific fields are omitted when empty.
type NegotiationResponse struct {
	ID                 string           `json:"id"`
	Kind               string           `json:"kind"`
	ClientID           string           `json:"client_id"`
	CreatorID          string           `json:"creator_id"`
	Amount             decimal.Decimal  `json:"amount"`
	Currency           string           `json:"currency"`
	Status             string           `json:"status"`
	EscrowHoldID       *string          `json:"escrow_hold_id,omitempty"`
	CounterAmount      *decimal.Decimal `json:"counter_amount,omitempty"`
	CounterProposedAt  *time.Time       `json:"counter_proposed_at,omitempty"`
	GatewayRef         *string          `json:"gateway_ref,omitempty"`
	PaymentInitiatedAt *time.Time       `json:"payment_initiated_at,omitempty"`
	DeliveredURL       *string          `json:"delivered_url,omitempty"`
	DeliveredNotes     *string          `json:"delivered_notes,omitempty"`
	Brief              string           `json:"brief,omitempty"`
	ProjectID          string           `json:"project_id,omitempty"`
	Proposal           string           `json:"proposal,omitempty"`
	Version            int64            `json:"version"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// NegotiationFromDomain converts a domain request to a response.
func NegotiationFromDomain(req domain.NegotiableRequest) *NegotiationResponse {
	core := req.Core()
	resp := &NegotiationResponse{
		ID:                 core.ID,
		Kind:               string(req.Kind()),
		ClientID:           core.ClientID,
		CreatorID:          core.CreatorID,
		Amount:             core.Amount,
		Currency:           core.Currency,
		Status:             string(core.Status),
		EscrowHoldID:       core.EscrowHoldID,
		CounterAmount:      core.CounterAmount,
		CounterProposedAt:  core.CounterProposedAt,
		GatewayRef:         core.GatewayRef,
		PaymentInitiatedAt: core.PaymentInitiatedAt,
		DeliveredURL:       core.DeliveredURL,
		DeliveredNotes:     core.DeliveredNotes,
		Version:            core.Version,
		CreatedAt:          core.CreatedAt,
		UpdatedAt:          core.UpdatedAt,
	}

	switch v := req.(type) {
	case *domain.Booking:
		resp.Brief = v.Brief
	case *domain.ProjectApplication:
		resp.ProjectID = v.ProjectID
		resp.Proposal = v.Proposal
	}

	return resp
}

// NegotiationsFromDomain converts domain requests to responses.
func NegotiationsFromDomain(reqs []domain.NegotiableRequest) []*NegotiationResponse {
	result := make([]*NegotiationResponse, len(reqs))
	for i, req := range reqs {
		result[i] = NegotiationFromDomain(req)
	}
	return result
}

// PayResponse carries the gateway reference of an initiated charge.
type PayResponse struct {
	GatewayRef string `json:"gateway_ref"`
}

// WalletResponse represents a wallet in API responses.
type WalletResponse struct {
	ID        string          `json:"id"`
	OwnerID   string          `json:"owner_id"`
	Currency  string          `json:"currency"`
	Available decimal.Decimal `json:"available"`
	Held      decimal.Decimal `json:"held"`
	Version   int64           `json:"version"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// WalletFromDomain converts a domain wallet to a response.
func WalletFromDomain(w *domain.Wallet) *WalletResponse {
	return &WalletResponse{
		ID:        w.ID,
		OwnerID:   w.OwnerID,
		Currency:  w.Currency,
		Available: w.Available,
		Held:      w.Held,
		Version:   w.Version,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	ID             string          `json:"id"`
	WalletID       string          `json:"wallet_id"`
	Kind           string          `json:"kind"`
	Amount         decimal.Decimal `json:"amount"`
	NegotiationID  *string         `json:"negotiation_id,omitempty"`
	IdempotencyKey string          `json:"idempotency_key"`
	CreatedAt      time.Time       `json:"created_at"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	return &EntryResponse{
		ID:             e.ID,
		WalletID:       e.WalletID,
		Kind:           string(e.Kind),
		Amount:         e.Amount,
		NegotiationID:  e.NegotiationID,
		IdempotencyKey: e.IdempotencyKey,
		CreatedAt:      e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// HoldResponse represents an escrow hold in API responses.
type HoldResponse struct {
	ID            string          `json:"id"`
	WalletID      string          `json:"wallet_id"`
	NegotiationID string          `json:"negotiation_id"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// HoldFromDomain converts a domain hold to a response.
func HoldFromDomain(h *domain.EscrowHold) *HoldResponse {
	return &HoldResponse{
		ID:            h.ID,
		WalletID:      h.WalletID,
		NegotiationID: h.NegotiationID,
		Amount:        h.Amount,
		Status:        string(h.Status),
		CreatedAt:     h.CreatedAt,
		UpdatedAt:     h.UpdatedAt,
	}
}

// HoldsFromDomain converts domain holds to responses.
func HoldsFromDomain(holds []*domain.EscrowHold) []*HoldResponse {
	result := make([]*HoldResponse, len(holds))
	for i, h := range holds {
		result[i] = HoldFromDomain(h)
	}
	return result
}

// ConservationResponse reports the ledger-wide conservation check.
type ConservationResponse struct {
	Consistent    bool            `json:"consistent"`
	TotalHolds    decimal.Decimal `json:"total_holds"`
	TotalReleases decimal.Decimal `json:"total_releases"`
	TotalRefunds  decimal.Decimal `json:"total_refunds"`
	TotalPayouts  decimal.Decimal `json:"total_payouts"`
	TotalFees     decimal.Decimal `json:"total_fees"`
	ActiveHolds   decimal.Decimal `json:"active_holds"`
	Detail        string          `json:"detail,omitempty"`
}

// WalletReconciliationResponse compares one wallet's cached balances against
// the ledger fold.
type WalletReconciliationResponse struct {
	WalletID        string          `json:"wallet_id"`
	CachedAvailable decimal.Decimal `json:"cached_available"`
	CachedHeld      decimal.Decimal `json:"cached_held"`
	FoldAvailable   decimal.Decimal `json:"fold_available"`
	FoldHeld        decimal.Decimal `json:"fold_held"`
	Reconciled      bool            `json:"reconciled"`
	CheckedAt       time.Time       `json:"checked_at"`
}

// ReconciliationResponse reports a full reconciliation run.
type ReconciliationResponse struct {
	TotalWallets      int                             `json:"total_wallets"`
	ReconciledWallets int                             `json:"reconciled_wallets"`
	Discrepancies     []*WalletReconciliationResponse `json:"discrepancies"`
	LedgerConsistent  bool                            `json:"ledger_consistent"`
	CheckedAt         time.Time                       `json:"checked_at"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

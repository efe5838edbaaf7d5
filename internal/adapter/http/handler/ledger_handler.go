package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/adapter/http/dto"
	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/usecase"
)

// LedgerHandler exposes ledger-wide queries: conservation checks and
// wallet reconciliation. Admin only.
type LedgerHandler struct {
	ledgerUC         *usecase.LedgerUseCase
	reconciliationUC *usecase.ReconciliationUseCase
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC *usecase.LedgerUseCase, reconciliationUC *usecase.ReconciliationUseCase) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC, reconciliationUC: reconciliationUC}
}

// Consistency runs the ledger conservation check. An inconsistent ledger is
// still a 200; the body says what broke.
func (h *LedgerHandler) Consistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.ledgerUC.CheckConservation(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to check ledger consistency", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, &dto.ConservationResponse{
		Consistent:    report.Consistent,
		TotalHolds:    report.TotalHolds,
		TotalReleases: report.TotalReleases,
		TotalRefunds:  report.TotalRefunds,
		TotalPayouts:  report.TotalPayouts,
		TotalFees:     report.TotalFees,
		ActiveHolds:   report.ActiveHolds,
		Detail:        report.Detail,
	})
}

// Reconcile runs a full reconciliation over every wallet.
func (h *LedgerHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconciliationUC.Run(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to reconcile", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, reconciliationResponse(report))
}

// ReconcileWallet reconciles a single wallet against its ledger fold.
func (h *LedgerHandler) ReconcileWallet(w http.ResponseWriter, r *http.Request) {
	walletID := chi.URLParam(r, "id")
	if walletID == "" {
		writeError(w, http.StatusBadRequest, "missing wallet ID", "")
		return
	}

	result, err := h.reconciliationUC.ReconcileWallet(r.Context(), walletID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to reconcile wallet", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, walletReconciliationResponse(result))
}

// NegotiationEntries lists every ledger entry a negotiation produced.
func (h *LedgerHandler) NegotiationEntries(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing negotiation ID", "")
		return
	}

	entries, err := h.ledgerUC.ListByNegotiation(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}

func reconciliationResponse(report *usecase.ReconciliationReport) *dto.ReconciliationResponse {
	discrepancies := make([]*dto.WalletReconciliationResponse, len(report.Discrepancies))
	for i, d := range report.Discrepancies {
		discrepancies[i] = walletReconciliationResponse(d)
	}
	return &dto.ReconciliationResponse{
		TotalWallets:      report.TotalWallets,
		ReconciledWallets: report.ReconciledWallets,
		Discrepancies:     discrepancies,
		LedgerConsistent:  report.LedgerConsistent,
		CheckedAt:         report.CheckedAt,
	}
}

func walletReconciliationResponse(r *usecase.WalletReconciliation) *dto.WalletReconciliationResponse {
	return &dto.WalletReconciliationResponse{
		WalletID:        r.WalletID,
		CachedAvailable: r.CachedAvailable,
		CachedHeld:      r.CachedHeld,
		FoldAvailable:   r.FoldAvailable,
		FoldHeld:        r.FoldHeld,
		Reconciled:      r.Reconciled,
		CheckedAt:       r.CheckedAt,
	}
}

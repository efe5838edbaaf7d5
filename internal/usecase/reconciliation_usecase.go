package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/domain"
)

// ReconciliationUseCase verifies that every wallet's cached balances match
// the ledger fold. The fold wins; a discrepancy means the cache drifted and
// must be repaired from the ledger.
type ReconciliationUseCase struct {
	walletRepo WalletRepository
	ledgerUC   *LedgerUseCase
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(walletRepo WalletRepository, ledgerUC *LedgerUseCase) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		walletRepo: walletRepo,
		ledgerUC:   ledgerUC,
	}
}

// WalletReconciliation is the per-wallet comparison of cache against fold.
type WalletReconciliation struct {
	WalletID        string
	CachedAvailable decimal.Decimal
	CachedHeld      decimal.Decimal
	FoldAvailable   decimal.Decimal
	FoldHeld        decimal.Decimal
	Reconciled      bool
	CheckedAt       time.Time
}

// ReconcileWallet compares one wallet's cached balances against its fold.
func (uc *ReconciliationUseCase) ReconcileWallet(ctx context.Context, walletID string) (*WalletReconciliation, error) {
	wallet, err := uc.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, err
	}

	fold, err := uc.ledgerUC.BalanceAsOf(ctx, walletID)
	if err != nil {
		return nil, err
	}

	result := &WalletReconciliation{
		WalletID:        walletID,
		CachedAvailable: wallet.Available,
		CachedHeld:      wallet.Held,
		FoldAvailable:   fold.Available,
		FoldHeld:        fold.Held,
		Reconciled:      wallet.Available.Equal(fold.Available) && wallet.Held.Equal(fold.Held),
		CheckedAt:       time.Now().UTC(),
	}

	// Non-negative balances hold for the fold as well as the cache.
	if fold.Available.IsNegative() || fold.Held.IsNegative() {
		result.Reconciled = false
	}

	return result, nil
}

// ReconciliationReport represents a full reconciliation run.
type ReconciliationReport struct {
	TotalWallets      int
	ReconciledWallets int
	Discrepancies     []*WalletReconciliation
	LedgerConsistent  bool
	CheckedAt         time.Time
}

// Run reconciles every wallet and checks ledger-wide conservation.
func (uc *ReconciliationUseCase) Run(ctx context.Context) (*ReconciliationReport, error) {
	limit, offset := domain.ValidatePagination(1000, 0)

	report := &ReconciliationReport{
		Discrepancies: make([]*WalletReconciliation, 0),
		CheckedAt:     time.Now().UTC(),
	}

	for {
		wallets, err := uc.walletRepo.List(ctx, limit, offset)
		if err != nil {
			return nil, err
		}
		if len(wallets) == 0 {
			break
		}

		for _, wallet := range wallets {
			result, err := uc.ReconcileWallet(ctx, wallet.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to reconcile wallet %s: %w", wallet.ID, err)
			}

			report.TotalWallets++
			if result.Reconciled {
				report.ReconciledWallets++
			} else {
				report.Discrepancies = append(report.Discrepancies, result)
			}
		}

		offset += limit
	}

	conservation, err := uc.ledgerUC.CheckConservation(ctx)
	if err != nil {
		return nil, err
	}
	report.LedgerConsistent = conservation.Consistent

	return report, nil
}

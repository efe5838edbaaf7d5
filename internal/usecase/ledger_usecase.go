package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/domain"
)

// LedgerUseCase answers ledger-wide questions: the balance fold for a wallet
// and whole-ledger conservation checks. The fold is the source of truth; the
// cached wallet balances are a projection of it.
type LedgerUseCase struct {
	entryRepo  EntryRepository
	ledgerRepo LedgerRepository
	holdRepo   HoldRepository
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(entryRepo EntryRepository, ledgerRepo LedgerRepository, holdRepo HoldRepository) *LedgerUseCase {
	return &LedgerUseCase{
		entryRepo:  entryRepo,
		ledgerRepo: ledgerRepo,
		holdRepo:   holdRepo,
	}
}

// BalanceAsOf folds all entries for a wallet:
// available = Σ(DEPOSIT, PAYOUT, HOLD_REFUND) - Σ(HOLD, WITHDRAWAL)
// held      = Σ(HOLD) - Σ(HOLD_RELEASE, HOLD_REFUND)
func (uc *LedgerUseCase) BalanceAsOf(ctx context.Context, walletID string) (domain.Balance, error) {
	return uc.ledgerRepo.FoldBalance(ctx, walletID)
}

// ListByNegotiation returns every entry a negotiation produced.
func (uc *LedgerUseCase) ListByNegotiation(ctx context.Context, negotiationID string) ([]*domain.Entry, error) {
	return uc.entryRepo.ListByNegotiation(ctx, negotiationID)
}

// ConservationReport is the outcome of a whole-ledger conservation check.
type ConservationReport struct {
	Consistent    bool
	TotalHolds    decimal.Decimal
	TotalReleases decimal.Decimal
	TotalRefunds  decimal.Decimal
	TotalPayouts  decimal.Decimal
	TotalFees     decimal.Decimal
	ActiveHolds   decimal.Decimal
	Detail        string
}

// CheckConservation verifies that no escrowed value was created or
// destroyed:
//
//	Σ(PAYOUT) + Σ(FEE) = Σ(HOLD_RELEASE)            every released hold paid out in full
//	Σ(HOLD) - Σ(HOLD_RELEASE) - Σ(HOLD_REFUND) = Σ(active holds)
func (uc *LedgerUseCase) CheckConservation(ctx context.Context) (*ConservationReport, error) {
	sums, err := uc.ledgerRepo.SumByKind(ctx)
	if err != nil {
		return nil, err
	}

	activeHolds, err := uc.holdRepo.SumActive(ctx)
	if err != nil {
		return nil, err
	}

	report := &ConservationReport{
		TotalHolds:    sums[domain.EntryHold],
		TotalReleases: sums[domain.EntryHoldRelease],
		TotalRefunds:  sums[domain.EntryHoldRefund],
		TotalPayouts:  sums[domain.EntryPayout],
		TotalFees:     sums[domain.EntryFee],
		ActiveHolds:   activeHolds,
		Consistent:    true,
	}

	settled := report.TotalPayouts.Add(report.TotalFees)
	if !settled.Equal(report.TotalReleases) {
		report.Consistent = false
		report.Detail = fmt.Sprintf("payouts+fees=%s does not match releases=%s", settled, report.TotalReleases)
		return report, nil
	}

	outstanding := report.TotalHolds.Sub(report.TotalReleases).Sub(report.TotalRefunds)
	if !outstanding.Equal(activeHolds) {
		report.Consistent = false
		report.Detail = fmt.Sprintf("outstanding holds=%s does not match active hold rows=%s", outstanding, activeHolds)
		return report, nil
	}

	return report, nil
}

package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/domain"
	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/infrastructure/metrics"
)

// WalletUseCase owns every balance-affecting operation. Deposit and Withdraw
// run in their own transaction; the escrow operations (HoldForNegotiation,
// ReleaseHold, RefundHold) run inside the negotiation engine's transaction so
// money movement and the status update commit or abort together.
type WalletUseCase struct {
	txManager       TransactionManager
	walletRepo      WalletRepository
	entryRepo       EntryRepository
	holdRepo        HoldRepository
	outboxRepo      OutboxRepository
	auditRepo       AuditRepository
	idGen           IDGenerator
	metrics         *metrics.Metrics
	cache           Cache
	currency        string
	platformOwnerID string
}

func NewWalletUseCase(
	txManager TransactionManager,
	walletRepo WalletRepository,
	entryRepo EntryRepository,
	holdRepo HoldRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
	currency string,
	platformOwnerID string,
) *WalletUseCase {
	return &WalletUseCase{
		txManager:       txManager,
		walletRepo:      walletRepo,
		entryRepo:       entryRepo,
		holdRepo:        holdRepo,
		outboxRepo:      outboxRepo,
		auditRepo:       auditRepo,
		idGen:           idGen,
		metrics:         metrics,
		currency:        currency,
		platformOwnerID: platformOwnerID,
	}
}

// WithCache enables read-through caching of wallet lookups. The cached row is
// dropped after every balance write; a stale read is bounded by the TTL.
func (uc *WalletUseCase) WithCache(cache Cache) *WalletUseCase {
	uc.cache = cache
	return uc
}

// CreateWallet creates a wallet for an owner. One wallet per owner.
func (uc *WalletUseCase) CreateWallet(ctx context.Context, ownerID string) (*domain.Wallet, error) {
	if err := domain.ValidateCurrency(uc.currency); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	wallet := &domain.Wallet{
		ID:        uc.idGen.Generate(),
		OwnerID:   ownerID,
		Currency:  uc.currency,
		Available: decimal.Zero,
		Held:      decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.walletRepo.Create(ctx, wallet); err != nil {
		return nil, err
	}

	return wallet, nil
}

// EnsureWallet returns the owner's wallet, creating it on first use.
func (uc *WalletUseCase) EnsureWallet(ctx context.Context, ownerID string) (*domain.Wallet, error) {
	wallet, err := uc.walletRepo.GetByOwner(ctx, ownerID)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, domain.ErrWalletNotFound) {
		return nil, err
	}

	return uc.CreateWallet(ctx, ownerID)
}

// EnsurePlatformWallet makes sure the fee-collecting platform wallet exists.
func (uc *WalletUseCase) EnsurePlatformWallet(ctx context.Context) (*domain.Wallet, error) {
	return uc.EnsureWallet(ctx, uc.platformOwnerID)
}

// GetWallet retrieves a wallet by ID.
func (uc *WalletUseCase) GetWallet(ctx context.Context, walletID string) (*domain.Wallet, error) {
	if cached := uc.cachedWallet(ctx, walletID); cached != nil {
		return cached, nil
	}

	wallet, err := uc.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, err
	}
	uc.storeWallet(ctx, wallet)

	return wallet, nil
}

// GetWalletByOwner retrieves a wallet by owner.
func (uc *WalletUseCase) GetWalletByOwner(ctx context.Context, ownerID string) (*domain.Wallet, error) {
	return uc.walletRepo.GetByOwner(ctx, ownerID)
}

// DepositInput represents input for a deposit.
type DepositInput struct {
	WalletID       string
	Amount         decimal.Decimal
	IdempotencyKey string
}

// Deposit credits the wallet's available balance.
func (uc *WalletUseCase) Deposit(ctx context.Context, input DepositInput) (*domain.Entry, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	wallet, err := uc.walletRepo.GetByIDForUpdate(txCtx, tx, input.WalletID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	key := input.IdempotencyKey
	if key == "" {
		key = uc.idGen.Generate()
	}

	entry := &domain.Entry{
		ID:             uc.idGen.Generate(),
		WalletID:       wallet.ID,
		Kind:           domain.EntryDeposit,
		Amount:         input.Amount,
		IdempotencyKey: key,
		CreatedAt:      now,
	}

	stored, err := uc.entryRepo.Append(txCtx, tx, entry)
	if errors.Is(err, domain.ErrDuplicateIdempotencyKey) {
		// Retry of an already applied deposit.
		return stored, nil
	}
	if err != nil {
		return nil, err
	}

	wallet.Available = wallet.Available.Add(input.Amount)
	if err := uc.walletRepo.UpdateBalances(txCtx, tx, wallet.ID, wallet.Available, wallet.Held, now); err != nil {
		return nil, err
	}

	uc.audit(ctx, tx, txCtx, domain.AuditActionWalletDeposit, wallet.ID, stored)

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.invalidateWallets(ctx, wallet.ID)
	if uc.metrics != nil {
		uc.metrics.WalletDeposits.Inc()
	}

	return stored, nil
}

// WithdrawInput represents input for a withdrawal.
type WithdrawInput struct {
	WalletID       string
	Amount         decimal.Decimal
	IdempotencyKey string
}

// Withdraw debits the wallet's available balance.
func (uc *WalletUseCase) Withdraw(ctx context.Context, input WithdrawInput) (*domain.Entry, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	wallet, err := uc.walletRepo.GetByIDForUpdate(txCtx, tx, input.WalletID)
	if err != nil {
		return nil, err
	}

	// A replayed withdraw has already debited the balance, so the key must be
	// resolved before the funds check or the retry fails on its own effect.
	// The wallet lock serializes this against a first application in flight.
	if input.IdempotencyKey != "" {
		stored, err := uc.entryRepo.GetByIdempotencyKey(txCtx, input.IdempotencyKey)
		if err == nil {
			return stored, nil
		}
		if !errors.Is(err, domain.ErrEntryNotFound) {
			return nil, err
		}
	}

	if err := wallet.ValidateDebit(input.Amount); err != nil {
		_ = tx.Rollback(txCtx)
		uc.EmitInsufficientBalance(ctx, wallet.ID, input.Amount, wallet.Available)
		return nil, err
	}

	now := time.Now().UTC()
	key := input.IdempotencyKey
	if key == "" {
		key = uc.idGen.Generate()
	}

	entry := &domain.Entry{
		ID:             uc.idGen.Generate(),
		WalletID:       wallet.ID,
		Kind:           domain.EntryWithdrawal,
		Amount:         input.Amount.Neg(),
		IdempotencyKey: key,
		CreatedAt:      now,
	}

	stored, err := uc.entryRepo.Append(txCtx, tx, entry)
	if errors.Is(err, domain.ErrDuplicateIdempotencyKey) {
		return stored, nil
	}
	if err != nil {
		return nil, err
	}

	wallet.Available = wallet.Available.Sub(input.Amount)
	if err := uc.walletRepo.UpdateBalances(txCtx, tx, wallet.ID, wallet.Available, wallet.Held, now); err != nil {
		return nil, err
	}

	uc.audit(ctx, tx, txCtx, domain.AuditActionWalletWithdraw, wallet.ID, stored)

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.invalidateWallets(ctx, wallet.ID)
	if uc.metrics != nil {
		uc.metrics.WalletWithdrawals.Inc()
	}

	return stored, nil
}

// HoldForNegotiation earmarks amount on the client's wallet for a
// negotiation, inside the caller's transaction. The HOLD entry, the hold row
// and the cached balance move together.
func (uc *WalletUseCase) HoldForNegotiation(ctx context.Context, tx Transaction, clientUserID, negotiationID string, amount decimal.Decimal) (*domain.EscrowHold, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	wallet, err := uc.walletRepo.GetByOwnerForUpdate(ctx, tx, clientUserID)
	if err != nil {
		return nil, err
	}

	if err := wallet.ValidateDebit(amount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry := &domain.Entry{
		ID:             uc.idGen.Generate(),
		WalletID:       wallet.ID,
		Kind:           domain.EntryHold,
		Amount:         amount.Neg(),
		NegotiationID:  &negotiationID,
		IdempotencyKey: negotiationID + ":" + idemSuffixHold,
		CreatedAt:      now,
	}

	if _, err := uc.entryRepo.Append(ctx, tx, entry); err != nil {
		if errors.Is(err, domain.ErrDuplicateIdempotencyKey) {
			// Hold already placed for this negotiation; hand back the row.
			return uc.holdRepo.GetByNegotiationForUpdate(ctx, tx, negotiationID)
		}
		return nil, err
	}

	hold := &domain.EscrowHold{
		ID:            uc.idGen.Generate(),
		WalletID:      wallet.ID,
		NegotiationID: negotiationID,
		Amount:        amount,
		Status:        domain.HoldStatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := hold.Validate(); err != nil {
		return nil, err
	}

	if err := uc.holdRepo.Create(ctx, tx, hold); err != nil {
		return nil, err
	}

	wallet.ApplyHold(amount)
	if err := uc.walletRepo.UpdateBalances(ctx, tx, wallet.ID, wallet.Available, wallet.Held, now); err != nil {
		return nil, err
	}

	if err := uc.emitHoldEvent(ctx, tx, domain.EventWalletHoldCreated, hold, now); err != nil {
		return nil, err
	}

	uc.invalidateWallets(ctx, wallet.ID)
	if uc.metrics != nil {
		uc.metrics.HoldsCreated.Inc()
	}

	return hold, nil
}

// ReleaseResult carries the three entries of a settled hold.
type ReleaseResult struct {
	Hold    *domain.EscrowHold
	Release *domain.Entry
	Payout  *domain.Entry
	Fee     *domain.Entry
}

// ReleaseHold settles a hold: HOLD_RELEASE on the client wallet, PAYOUT on
// the creator wallet and FEE on the platform wallet, all three or none.
// Releasing an already released hold returns the prior result.
func (uc *WalletUseCase) ReleaseHold(ctx context.Context, tx Transaction, negotiationID, creatorUserID string, feeRate decimal.Decimal) (*ReleaseResult, error) {
	if err := domain.ValidateFeeRate(feeRate); err != nil {
		return nil, err
	}

	hold, err := uc.holdRepo.GetByNegotiationForUpdate(ctx, tx, negotiationID)
	if err != nil {
		return nil, err
	}

	switch hold.Status {
	case domain.HoldStatusReleased:
		return uc.priorRelease(ctx, negotiationID, hold)
	case domain.HoldStatusRefunded:
		return nil, domain.ErrHoldNotActive
	}

	creatorWallet, err := uc.walletRepo.GetByOwner(ctx, creatorUserID)
	if err != nil {
		return nil, err
	}

	platformWallet, err := uc.walletRepo.GetByOwner(ctx, uc.platformOwnerID)
	if err != nil {
		return nil, err
	}

	// Lock all three wallets in sorted ID order to avoid deadlocks.
	ids := []string{hold.WalletID, creatorWallet.ID, platformWallet.ID}
	sort.Strings(ids)

	wallets, err := uc.walletRepo.GetByIDsForUpdate(ctx, tx, ids)
	if err != nil {
		return nil, err
	}

	walletByID := make(map[string]*domain.Wallet, len(wallets))
	for _, w := range wallets {
		walletByID[w.ID] = w
	}

	clientW := walletByID[hold.WalletID]
	creatorW := walletByID[creatorWallet.ID]
	platformW := walletByID[platformWallet.ID]
	if clientW == nil || creatorW == nil || platformW == nil {
		return nil, domain.ErrWalletNotFound
	}

	fee := hold.Amount.Mul(feeRate).Round(2)
	payout := hold.Amount.Sub(fee)

	now := time.Now().UTC()

	release, err := uc.appendSettlement(ctx, tx, clientW.ID, domain.EntryHoldRelease, hold.Amount.Neg(), negotiationID, idemSuffixRelease, now)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateIdempotencyKey) {
			return uc.priorRelease(ctx, negotiationID, hold)
		}
		return nil, err
	}

	payoutEntry, err := uc.appendSettlement(ctx, tx, creatorW.ID, domain.EntryPayout, payout, negotiationID, idemSuffixPayout, now)
	if err != nil {
		return nil, err
	}

	var feeEntry *domain.Entry
	if fee.IsPositive() {
		feeEntry, err = uc.appendSettlement(ctx, tx, platformW.ID, domain.EntryFee, fee, negotiationID, idemSuffixFee, now)
		if err != nil {
			return nil, err
		}
	}

	clientW.ApplyHoldRelease(hold.Amount)
	creatorW.Available = creatorW.Available.Add(payout)
	platformW.Available = platformW.Available.Add(fee)

	for _, w := range []*domain.Wallet{clientW, creatorW, platformW} {
		if err := uc.walletRepo.UpdateBalances(ctx, tx, w.ID, w.Available, w.Held, now); err != nil {
			return nil, err
		}
	}

	if err := uc.holdRepo.UpdateStatus(ctx, tx, hold.ID, domain.HoldStatusReleased, now); err != nil {
		return nil, err
	}
	hold.Status = domain.HoldStatusReleased
	hold.UpdatedAt = now

	if err := uc.emitHoldEvent(ctx, tx, domain.EventWalletHoldReleased, hold, now); err != nil {
		return nil, err
	}

	uc.invalidateWallets(ctx, clientW.ID, creatorW.ID, platformW.ID)
	if uc.metrics != nil {
		uc.metrics.HoldsReleased.Inc()
	}

	return &ReleaseResult{Hold: hold, Release: release, Payout: payoutEntry, Fee: feeEntry}, nil
}

// RefundHold reverses a hold back into the client's available balance.
// Refunding an already refunded hold is a no-op returning the prior state.
func (uc *WalletUseCase) RefundHold(ctx context.Context, tx Transaction, negotiationID string) (*domain.EscrowHold, error) {
	hold, err := uc.holdRepo.GetByNegotiationForUpdate(ctx, tx, negotiationID)
	if err != nil {
		return nil, err
	}

	switch hold.Status {
	case domain.HoldStatusRefunded:
		return hold, nil
	case domain.HoldStatusReleased:
		return nil, domain.ErrHoldNotActive
	}

	wallet, err := uc.walletRepo.GetByIDForUpdate(ctx, tx, hold.WalletID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if _, err := uc.appendSettlement(ctx, tx, wallet.ID, domain.EntryHoldRefund, hold.Amount, negotiationID, idemSuffixRefund, now); err != nil {
		if errors.Is(err, domain.ErrDuplicateIdempotencyKey) {
			return hold, nil
		}
		return nil, err
	}

	wallet.ApplyHoldRefund(hold.Amount)
	if err := uc.walletRepo.UpdateBalances(ctx, tx, wallet.ID, wallet.Available, wallet.Held, now); err != nil {
		return nil, err
	}

	if err := uc.holdRepo.UpdateStatus(ctx, tx, hold.ID, domain.HoldStatusRefunded, now); err != nil {
		return nil, err
	}
	hold.Status = domain.HoldStatusRefunded
	hold.UpdatedAt = now

	if err := uc.emitHoldEvent(ctx, tx, domain.EventWalletHoldRefunded, hold, now); err != nil {
		return nil, err
	}

	uc.invalidateWallets(ctx, wallet.ID)
	if uc.metrics != nil {
		uc.metrics.HoldsRefunded.Inc()
	}

	return hold, nil
}

// ListEntriesInput represents input for listing wallet entries.
type ListEntriesInput struct {
	WalletID string
	Limit    int
	Offset   int
}

// ListEntries lists the wallet's ledger entries.
func (uc *WalletUseCase) ListEntries(ctx context.Context, input ListEntriesInput) ([]*domain.Entry, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.entryRepo.ListByWallet(ctx, input.WalletID, limit, offset)
}

// ListHolds lists the wallet's escrow holds.
func (uc *WalletUseCase) ListHolds(ctx context.Context, walletID string, limit, offset int) ([]*domain.EscrowHold, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.holdRepo.ListByWallet(ctx, walletID, limit, offset)
}

// EmitInsufficientBalance records a wallet.insufficient_balance event in its
// own short transaction. Called after the failing operation rolled back.
func (uc *WalletUseCase) EmitInsufficientBalance(ctx context.Context, walletID string, requested, available decimal.Decimal) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	now := time.Now().UTC()
	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   walletID,
		AggregateType: domain.AggregateTypeWallet,
		EventType:     domain.EventWalletInsufficient,
		Payload: map[string]any{
			"wallet_id": walletID,
			"requested": requested.String(),
			"available": available.String(),
		},
		CreatedAt: now,
		Published: false,
	}
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return
	}

	_ = tx.Commit(ctx)

	if uc.metrics != nil {
		uc.metrics.InsufficientBalance.Inc()
	}
}

const walletCacheTTL = 30 * time.Second

func (uc *WalletUseCase) cachedWallet(ctx context.Context, walletID string) *domain.Wallet {
	if uc.cache == nil {
		return nil
	}

	data, err := uc.cache.Get(ctx, "wallet:"+walletID)
	if err != nil || len(data) == 0 {
		return nil
	}

	var wallet domain.Wallet
	if err := json.Unmarshal(data, &wallet); err != nil {
		return nil
	}

	return &wallet
}

func (uc *WalletUseCase) storeWallet(ctx context.Context, wallet *domain.Wallet) {
	if uc.cache == nil {
		return
	}

	data, err := json.Marshal(wallet)
	if err != nil {
		return
	}
	_ = uc.cache.Set(ctx, "wallet:"+wallet.ID, data, walletCacheTTL)
}

func (uc *WalletUseCase) invalidateWallets(ctx context.Context, walletIDs ...string) {
	if uc.cache == nil {
		return
	}
	for _, id := range walletIDs {
		_ = uc.cache.Delete(ctx, "wallet:"+id)
	}
}

func (uc *WalletUseCase) appendSettlement(ctx context.Context, tx Transaction, walletID string, kind domain.EntryKind, amount decimal.Decimal, negotiationID, suffix string, now time.Time) (*domain.Entry, error) {
	entry := &domain.Entry{
		ID:             uc.idGen.Generate(),
		WalletID:       walletID,
		Kind:           kind,
		Amount:         amount,
		NegotiationID:  &negotiationID,
		IdempotencyKey: negotiationID + ":" + suffix,
		CreatedAt:      now,
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	return uc.entryRepo.Append(ctx, tx, entry)
}

// priorRelease reconstructs the result of a release that already happened.
func (uc *WalletUseCase) priorRelease(ctx context.Context, negotiationID string, hold *domain.EscrowHold) (*ReleaseResult, error) {
	release, err := uc.entryRepo.GetByIdempotencyKey(ctx, negotiationID+":"+idemSuffixRelease)
	if err != nil {
		return nil, err
	}
	payout, err := uc.entryRepo.GetByIdempotencyKey(ctx, negotiationID+":"+idemSuffixPayout)
	if err != nil {
		return nil, err
	}
	// Zero fee rates never write a FEE entry.
	fee, err := uc.entryRepo.GetByIdempotencyKey(ctx, negotiationID+":"+idemSuffixFee)
	if err != nil {
		if !errors.Is(err, domain.ErrEntryNotFound) {
			return nil, err
		}
		fee = nil
	}

	return &ReleaseResult{Hold: hold, Release: release, Payout: payout, Fee: fee}, nil
}

func (uc *WalletUseCase) emitHoldEvent(ctx context.Context, tx Transaction, eventType string, hold *domain.EscrowHold, now time.Time) error {
	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   hold.ID,
		AggregateType: domain.AggregateTypeHold,
		EventType:     eventType,
		Payload: map[string]any{
			"hold_id":        hold.ID,
			"wallet_id":      hold.WalletID,
			"negotiation_id": hold.NegotiationID,
			"amount":         hold.Amount.String(),
			"status":         string(hold.Status),
		},
		CreatedAt: now,
		Published: false,
	}
	return uc.outboxRepo.Create(ctx, tx, event)
}

func (uc *WalletUseCase) audit(ctx context.Context, tx Transaction, txCtx context.Context, action domain.AuditAction, resourceID string, after any) {
	if uc.auditRepo == nil {
		return
	}

	userID := "system"
	if user, ok := domain.UserFromContext(ctx); ok {
		userID = user.ID
	}

	log := &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		UserID:       userID,
		Action:       string(action),
		ResourceType: "wallet",
		ResourceID:   resourceID,
		AfterState:   domain.MarshalState(after),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    time.Now(),
	}
	_ = uc.auditRepo.CreateTx(txCtx, tx, log)
}

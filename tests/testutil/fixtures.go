// Package testutil wires the full use-case graph over the in-memory
// repository mocks so scenario tests can run every escrow flow without a
// database.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/domain"
	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/usecase"
	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/usecase/mocks"
)

const (
	// PlatformOwnerID is the fee-collecting platform account.
	PlatformOwnerID = "platform"

	// Currency used across all fixtures.
	Currency = "USDC"
)

// FeeRate returns the default platform fee used in fixtures (8%).
func FeeRate() decimal.Decimal {
	return decimal.RequireFromString("0.08")
}

var fundSeq atomic.Int64

// StubGateway is an in-process settlement provider: charges always succeed
// and return deterministic references.
type StubGateway struct {
	mu      sync.Mutex
	charges int

	// InitiateChargeErr, when set, fails every charge.
	InitiateChargeErr error
}

func (g *StubGateway) InitiateCharge(ctx context.Context, negotiationID string, amount decimal.Decimal, currency string) (string, error) {
	if g.InitiateChargeErr != nil {
		return "", g.InitiateChargeErr
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.charges++
	return fmt.Sprintf("charge-%s-%d", negotiationID, g.charges), nil
}

func (g *StubGateway) VerifySignature(payload []byte, signature string) error {
	return nil
}

// Env is the complete use-case graph over in-memory repositories.
type Env struct {
	TxManager    *mocks.MockTransactionManager
	Wallets      *mocks.MockWalletRepository
	Entries      *mocks.MockEntryRepository
	Holds        *mocks.MockHoldRepository
	Negotiations *mocks.MockNegotiationRepository
	Outbox       *mocks.MockOutboxRepository
	Audit        *mocks.MockAuditRepository
	Gateway      *StubGateway

	WalletUC         *usecase.WalletUseCase
	NegotiationUC    *usecase.NegotiationUseCase
	LedgerUC         *usecase.LedgerUseCase
	ReconciliationUC *usecase.ReconciliationUseCase
}

// NewEnv builds a fresh environment. Metrics are nil: the use cases treat
// them as optional.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	env := &Env{
		TxManager:    mocks.NewMockTransactionManager(),
		Wallets:      mocks.NewMockWalletRepository(),
		Entries:      mocks.NewMockEntryRepository(),
		Holds:        mocks.NewMockHoldRepository(),
		Negotiations: mocks.NewMockNegotiationRepository(),
		Outbox:       mocks.NewMockOutboxRepository(),
		Audit:        mocks.NewMockAuditRepository(),
		Gateway:      &StubGateway{},
	}

	idGen := mocks.NewMockIDGenerator()
	ledgerRepo := mocks.NewMockLedgerRepository(env.Entries)

	env.WalletUC = usecase.NewWalletUseCase(
		env.TxManager, env.Wallets, env.Entries, env.Holds,
		env.Outbox, env.Audit, idGen, nil, Currency, PlatformOwnerID,
	)
	env.NegotiationUC = usecase.NewNegotiationUseCase(
		env.TxManager, env.Negotiations, env.WalletUC, env.Outbox,
		env.Audit, idGen, env.Gateway, nil, FeeRate(), Currency, 15*time.Minute,
	)
	env.LedgerUC = usecase.NewLedgerUseCase(env.Entries, ledgerRepo, env.Holds)
	env.ReconciliationUC = usecase.NewReconciliationUseCase(env.Wallets, env.LedgerUC)

	ctx := context.Background()
	if _, err := env.WalletUC.EnsurePlatformWallet(ctx); err != nil {
		t.Fatalf("failed to create platform wallet: %v", err)
	}

	return env
}

// FundWallet creates (or reuses) the owner's wallet and deposits amount.
func (e *Env) FundWallet(t *testing.T, ctx context.Context, ownerID string, amount decimal.Decimal) *domain.Wallet {
	t.Helper()

	wallet, err := e.WalletUC.EnsureWallet(ctx, ownerID)
	if err != nil {
		t.Fatalf("failed to ensure wallet for %s: %v", ownerID, err)
	}

	if amount.IsPositive() {
		_, err = e.WalletUC.Deposit(ctx, usecase.DepositInput{
			WalletID:       wallet.ID,
			Amount:         amount,
			IdempotencyKey: fmt.Sprintf("fund-%s-%d", ownerID, fundSeq.Add(1)),
		})
		if err != nil {
			t.Fatalf("failed to fund wallet for %s: %v", ownerID, err)
		}
	}

	updated, err := e.WalletUC.GetWallet(ctx, wallet.ID)
	if err != nil {
		t.Fatalf("failed to reload wallet for %s: %v", ownerID, err)
	}
	return updated
}

// CreateBooking creates a booking in PENDING.
func (e *Env) CreateBooking(t *testing.T, ctx context.Context, clientID, creatorID string, amount decimal.Decimal) *domain.Booking {
	t.Helper()

	booking, err := e.NegotiationUC.CreateBooking(ctx, usecase.CreateBookingInput{
		ClientID:  clientID,
		CreatorID: creatorID,
		Amount:    amount,
		Brief:     "test engagement",
	})
	if err != nil {
		t.Fatalf("failed to create booking: %v", err)
	}
	return booking
}

// ConfirmedBooking drives a booking through accept, pay and the payment
// webhook, leaving it CONFIRMED with an active hold. The client wallet must
// already cover the amount.
func (e *Env) ConfirmedBooking(t *testing.T, ctx context.Context, clientID, creatorID string, amount decimal.Decimal) *domain.Booking {
	t.Helper()

	booking := e.CreateBooking(t, ctx, clientID, creatorID, amount)

	if _, err := e.NegotiationUC.Accept(ctx, booking.ID, creatorID, 0); err != nil {
		t.Fatalf("failed to accept booking: %v", err)
	}

	ref, err := e.NegotiationUC.Pay(ctx, booking.ID, clientID)
	if err != nil {
		t.Fatalf("failed to initiate payment: %v", err)
	}

	if err := e.NegotiationUC.OnPaymentConfirmed(ctx, booking.ID, ref); err != nil {
		t.Fatalf("failed to confirm payment: %v", err)
	}

	req, err := e.NegotiationUC.Get(ctx, booking.ID)
	if err != nil {
		t.Fatalf("failed to reload booking: %v", err)
	}
	return req.(*domain.Booking)
}

// Balance reloads a wallet by owner and returns (available, held).
func (e *Env) Balance(t *testing.T, ctx context.Context, ownerID string) (decimal.Decimal, decimal.Decimal) {
	t.Helper()

	wallet, err := e.WalletUC.GetWalletByOwner(ctx, ownerID)
	if err != nil {
		t.Fatalf("failed to load wallet for %s: %v", ownerID, err)
	}
	return wallet.Available, wallet.Held
}

// AdminContext returns a context carrying an admin user, for operations
// gated on reconciliation rights.
func AdminContext(ctx context.Context) context.Context {
	return domain.WithUser(ctx, &domain.User{ID: "admin-1", Role: domain.RoleAdmin})
}

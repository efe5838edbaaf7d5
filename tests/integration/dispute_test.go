package integration

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/domain"
	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/usecase"
	"github.com/Japhetjohn/my-arte-lab.app-sub001/tests/testutil"
)

func disputedBooking(t *testing.T, ctx context.Context, env *testutil.Env, amount decimal.Decimal) *domain.Booking {
	t.Helper()

	booking := env.ConfirmedBooking(t, ctx, "client-1", "creator-1", amount)
	if _, err := env.NegotiationUC.Deliver(ctx, booking.ID, "creator-1", "https://cdn.example/out.png", "", 0); err != nil {
		t.Fatalf("deliver failed: %v", err)
	}
	if _, err := env.NegotiationUC.Dispute(ctx, booking.ID, "client-1", 0); err != nil {
		t.Fatalf("dispute failed: %v", err)
	}
	return booking
}

func TestDisputeKeepsHold(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)

	env.FundWallet(t, ctx, "client-1", decimal.NewFromInt(500))
	booking := disputedBooking(t, ctx, env, decimal.NewFromInt(200))

	req, _ := env.NegotiationUC.Get(ctx, booking.ID)
	if req.Core().Status != domain.StatusDisputed {
		t.Fatalf("expected DISPUTED, got %s", req.Core().Status)
	}
	if req.Core().EscrowHoldID == nil {
		t.Fatal("disputed booking must keep its hold until resolution")
	}

	// The hold stays in place: the client's money is parked.
	available, held := env.Balance(t, ctx, "client-1")
	if !available.Equal(decimal.NewFromInt(300)) || !held.Equal(decimal.NewFromInt(200)) {
		t.Errorf("expected 300/200 while disputed, got %s/%s", available, held)
	}

	// Terminal for the state machine: no further transitions.
	if _, err := env.NegotiationUC.Approve(ctx, booking.ID, "client-1", 0); err != domain.ErrInvalidTransition {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestResolveDisputeRelease(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)

	env.FundWallet(t, ctx, "client-1", decimal.NewFromInt(500))
	booking := disputedBooking(t, ctx, env, decimal.NewFromInt(200))

	adminCtx := testutil.AdminContext(ctx)
	req, err := env.NegotiationUC.ResolveDispute(adminCtx, booking.ID, usecase.DisputeOutcomeRelease)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if req.Core().EscrowHoldID != nil {
		t.Error("resolved dispute must clear the hold reference")
	}

	// Released toward the creator, fee withheld.
	available, _ := env.Balance(t, ctx, "creator-1")
	if !available.Equal(decimal.NewFromInt(184)) {
		t.Errorf("expected creator 184, got %s", available)
	}
	available, held := env.Balance(t, ctx, "client-1")
	if !available.Equal(decimal.NewFromInt(300)) || !held.IsZero() {
		t.Errorf("expected client 300/0, got %s/%s", available, held)
	}
}

func TestResolveDisputeRefund(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)

	env.FundWallet(t, ctx, "client-1", decimal.NewFromInt(500))
	booking := disputedBooking(t, ctx, env, decimal.NewFromInt(200))

	adminCtx := testutil.AdminContext(ctx)
	if _, err := env.NegotiationUC.ResolveDispute(adminCtx, booking.ID, usecase.DisputeOutcomeRefund); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	// Everything back to the client, nothing to the creator.
	available, held := env.Balance(t, ctx, "client-1")
	if !available.Equal(decimal.NewFromInt(500)) || !held.IsZero() {
		t.Errorf("expected client 500/0, got %s/%s", available, held)
	}
	available, _ = env.Balance(t, ctx, "creator-1")
	if !available.IsZero() {
		t.Errorf("expected creator 0, got %s", available)
	}

	report, err := env.LedgerUC.CheckConservation(ctx)
	if err != nil {
		t.Fatalf("conservation check failed: %v", err)
	}
	if !report.Consistent {
		t.Errorf("ledger inconsistent after dispute refund: %s", report.Detail)
	}
}

func TestResolveDisputeRequiresAdmin(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)

	env.FundWallet(t, ctx, "client-1", decimal.NewFromInt(500))
	booking := disputedBooking(t, ctx, env, decimal.NewFromInt(200))

	// No user on the context.
	if _, err := env.NegotiationUC.ResolveDispute(ctx, booking.ID, usecase.DisputeOutcomeRefund); err != domain.ErrUnauthorized {
		t.Errorf("expected ErrUnauthorized without user, got %v", err)
	}

	// A participant is not enough.
	clientCtx := domain.WithUser(ctx, &domain.User{ID: "client-1", Role: domain.RoleClient})
	if _, err := env.NegotiationUC.ResolveDispute(clientCtx, booking.ID, usecase.DisputeOutcomeRefund); err != domain.ErrUnauthorized {
		t.Errorf("expected ErrUnauthorized for client, got %v", err)
	}
}

func TestResolveDisputeTwice(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)

	env.FundWallet(t, ctx, "client-1", decimal.NewFromInt(500))
	booking := disputedBooking(t, ctx, env, decimal.NewFromInt(200))

	adminCtx := testutil.AdminContext(ctx)
	if _, err := env.NegotiationUC.ResolveDispute(adminCtx, booking.ID, usecase.DisputeOutcomeRefund); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	// Second resolution finds no hold and changes nothing.
	if _, err := env.NegotiationUC.ResolveDispute(adminCtx, booking.ID, usecase.DisputeOutcomeRelease); err != nil {
		t.Fatalf("second resolve must be a no-op, got %v", err)
	}

	available, held := env.Balance(t, ctx, "client-1")
	if !available.Equal(decimal.NewFromInt(500)) || !held.IsZero() {
		t.Errorf("expected client 500/0, got %s/%s", available, held)
	}
	available, _ = env.Balance(t, ctx, "creator-1")
	if !available.IsZero() {
		t.Errorf("expected creator 0, got %s", available)
	}
}

package integration

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/domain"
	"github.com/Japhetjohn/my-arte-lab.app-sub001/tests/testutil"
)

func TestCounterNegotiation(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)

	booking := env.CreateBooking(t, ctx, "client-1", "creator-1", decimal.NewFromInt(200))

	// Creator counters: status COUNTERED, agreed amount untouched.
	req, err := env.NegotiationUC.Counter(ctx, booking.ID, "creator-1", decimal.NewFromInt(300), 0)
	if err != nil {
		t.Fatalf("counter failed: %v", err)
	}
	core := req.Core()
	if core.Status != domain.StatusCountered {
		t.Fatalf("expected COUNTERED, got %s", core.Status)
	}
	if !core.Amount.Equal(decimal.NewFromInt(200)) {
		t.Errorf("agreed amount must stay 200 until accepted, got %s", core.Amount)
	}
	if core.CounterAmount == nil || !core.CounterAmount.Equal(decimal.NewFromInt(300)) {
		t.Errorf("expected counter 300, got %v", core.CounterAmount)
	}

	// A second counter overwrites the first.
	req, err = env.NegotiationUC.Counter(ctx, booking.ID, "creator-1", decimal.NewFromInt(250), 0)
	if err != nil {
		t.Fatalf("re-counter failed: %v", err)
	}
	if req.Core().CounterAmount == nil || !req.Core().CounterAmount.Equal(decimal.NewFromInt(250)) {
		t.Errorf("expected counter overwritten to 250, got %v", req.Core().CounterAmount)
	}

	// Client accepts the counter: amount folds in, AWAITING_PAYMENT.
	req, err = env.NegotiationUC.AcceptCounter(ctx, booking.ID, "client-1", 0)
	if err != nil {
		t.Fatalf("accept-counter failed: %v", err)
	}
	core = req.Core()
	if core.Status != domain.StatusAwaitingPayment {
		t.Fatalf("expected AWAITING_PAYMENT, got %s", core.Status)
	}
	if !core.Amount.Equal(decimal.NewFromInt(250)) {
		t.Errorf("expected agreed amount 250, got %s", core.Amount)
	}
	if core.CounterAmount != nil {
		t.Error("counter must be cleared after acceptance")
	}
}

func TestAcceptCounterWithStaleVersion(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)

	booking := env.CreateBooking(t, ctx, "client-1", "creator-1", decimal.NewFromInt(200))

	req, err := env.NegotiationUC.Counter(ctx, booking.ID, "creator-1", decimal.NewFromInt(300), 0)
	if err != nil {
		t.Fatalf("counter failed: %v", err)
	}
	seenVersion := req.Core().Version

	// The creator counters again before the client accepts.
	if _, err := env.NegotiationUC.Counter(ctx, booking.ID, "creator-1", decimal.NewFromInt(400), 0); err != nil {
		t.Fatalf("re-counter failed: %v", err)
	}

	// Accepting against the version of the first counter must fail: the
	// client would otherwise agree to an amount they never saw.
	if _, err := env.NegotiationUC.AcceptCounter(ctx, booking.ID, "client-1", seenVersion); err != domain.ErrStaleNegotiation {
		t.Fatalf("expected ErrStaleNegotiation, got %v", err)
	}

	// Re-reading and accepting the current version works.
	req, _ = env.NegotiationUC.Get(ctx, booking.ID)
	req, err = env.NegotiationUC.AcceptCounter(ctx, booking.ID, "client-1", req.Core().Version)
	if err != nil {
		t.Fatalf("accept-counter at current version failed: %v", err)
	}
	if !req.Core().Amount.Equal(decimal.NewFromInt(400)) {
		t.Errorf("expected agreed amount 400, got %s", req.Core().Amount)
	}
}

func TestRejectCounter(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)

	booking := env.CreateBooking(t, ctx, "client-1", "creator-1", decimal.NewFromInt(200))

	if _, err := env.NegotiationUC.Counter(ctx, booking.ID, "creator-1", decimal.NewFromInt(300), 0); err != nil {
		t.Fatalf("counter failed: %v", err)
	}

	req, err := env.NegotiationUC.RejectCounter(ctx, booking.ID, "client-1", 0)
	if err != nil {
		t.Fatalf("reject-counter failed: %v", err)
	}
	core := req.Core()
	if core.Status != domain.StatusRejected {
		t.Fatalf("expected REJECTED, got %s", core.Status)
	}
	if core.CounterAmount != nil {
		t.Error("rejected counter must be cleared")
	}
}

func TestCounterRequiresPositiveAmount(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)

	booking := env.CreateBooking(t, ctx, "client-1", "creator-1", decimal.NewFromInt(200))

	if _, err := env.NegotiationUC.Counter(ctx, booking.ID, "creator-1", decimal.Zero, 0); err != domain.ErrInvalidAmount {
		t.Errorf("expected ErrInvalidAmount for zero counter, got %v", err)
	}
	if _, err := env.NegotiationUC.Counter(ctx, booking.ID, "creator-1", decimal.NewFromInt(-50), 0); err != domain.ErrInvalidAmount {
		t.Errorf("expected ErrInvalidAmount for negative counter, got %v", err)
	}
}

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/domain"
	"github.com/Japhetjohn/my-arte-lab.app-sub001/tests/testutil"
)

func eventTypes(events []*domain.OutboxEvent) map[string]int {
	types := make(map[string]int)
	for _, e := range events {
		types[e.EventType]++
	}
	return types
}

func TestOutboxTrailForCompletedBooking(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)

	env.FundWallet(t, ctx, "client-1", decimal.NewFromInt(500))
	booking := env.ConfirmedBooking(t, ctx, "client-1", "creator-1", decimal.NewFromInt(200))
	if _, err := env.NegotiationUC.Deliver(ctx, booking.ID, "creator-1", "https://cdn.example/a.png", "", 0); err != nil {
		t.Fatalf("deliver failed: %v", err)
	}
	if _, err := env.NegotiationUC.Approve(ctx, booking.ID, "client-1", 0); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	types := eventTypes(env.Outbox.Events())
	for _, want := range []string{
		domain.EventBookingCreated,
		domain.EventBookingAccepted,
		domain.EventBookingPaymentConfirmed,
		domain.EventWalletHoldCreated,
		domain.EventBookingDelivered,
		domain.EventBookingCompleted,
		domain.EventWalletHoldReleased,
	} {
		if types[want] != 1 {
			t.Errorf("expected exactly one %s event, got %d", want, types[want])
		}
	}
}

func TestOutboxEventsCarryNegotiationPayload(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)

	booking := env.CreateBooking(t, ctx, "client-1", "creator-1", decimal.NewFromInt(120))
	if _, err := env.NegotiationUC.Accept(ctx, booking.ID, "creator-1", 0); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	var accepted *domain.OutboxEvent
	for _, e := range env.Outbox.Events() {
		if e.EventType == domain.EventBookingAccepted {
			accepted = e
		}
	}
	if accepted == nil {
		t.Fatal("expected a booking.accepted event")
	}
	if accepted.AggregateID != booking.ID {
		t.Errorf("expected aggregate %s, got %s", booking.ID, accepted.AggregateID)
	}
	if accepted.AggregateType != domain.AggregateTypeNegotiation {
		t.Errorf("expected negotiation aggregate, got %s", accepted.AggregateType)
	}
	if accepted.Payload["status"] != string(domain.StatusAwaitingPayment) {
		t.Errorf("expected status AWAITING_PAYMENT in payload, got %v", accepted.Payload["status"])
	}
	if accepted.Payload["amount"] != "120" {
		t.Errorf("expected amount 120 in payload, got %v", accepted.Payload["amount"])
	}
}

func TestOutboxPublishCycle(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)

	env.CreateBooking(t, ctx, "client-1", "creator-1", decimal.NewFromInt(100))

	unpublished, err := env.Outbox.GetUnpublished(ctx, 10)
	if err != nil {
		t.Fatalf("failed to fetch unpublished: %v", err)
	}
	if len(unpublished) == 0 {
		t.Fatal("expected unpublished events after create")
	}

	now := time.Now().UTC()
	for _, e := range unpublished {
		if err := env.Outbox.MarkPublished(ctx, e.ID, now); err != nil {
			t.Fatalf("failed to mark published: %v", err)
		}
	}

	remaining, err := env.Outbox.GetUnpublished(ctx, 10)
	if err != nil {
		t.Fatalf("failed to fetch unpublished: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("expected no unpublished events left, got %d", len(remaining))
	}
}

func TestNoEventsLeakFromFailedConfirmation(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)

	env.FundWallet(t, ctx, "client-1", decimal.NewFromInt(500))
	booking := env.CreateBooking(t, ctx, "client-1", "creator-1", decimal.NewFromInt(200))
	if _, err := env.NegotiationUC.Accept(ctx, booking.ID, "creator-1", 0); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if _, err := env.NegotiationUC.Pay(ctx, booking.ID, "client-1"); err != nil {
		t.Fatalf("pay failed: %v", err)
	}

	before := eventTypes(env.Outbox.Events())

	if err := env.NegotiationUC.OnPaymentConfirmed(ctx, booking.ID, "wrong-ref"); err != domain.ErrGatewayCallbackInvalid {
		t.Fatalf("expected ErrGatewayCallbackInvalid, got %v", err)
	}

	after := eventTypes(env.Outbox.Events())
	if after[domain.EventBookingPaymentConfirmed] != before[domain.EventBookingPaymentConfirmed] {
		t.Error("a rejected confirmation must not emit payment_confirmed")
	}
	if after[domain.EventWalletHoldCreated] != before[domain.EventWalletHoldCreated] {
		t.Error("a rejected confirmation must not emit hold_created")
	}
}

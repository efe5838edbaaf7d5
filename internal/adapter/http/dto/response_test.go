package dto

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/domain"
)

func TestNegotiationFromDomain_Booking(t *testing.T) {
	now := time.Now().UTC()
	booking := &domain.Booking{
		Negotiation: domain.Negotiation{
			ID:        "neg-1",
			ClientID:  "client-1",
			CreatorID: "creator-1",
			Amount:    decimal.NewFromInt(200),
			Currency:  "USDC",
			Status:    domain.StatusPending,
			Version:   1,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Brief: "album cover",
	}

	resp := NegotiationFromDomain(booking)

	if resp.Kind != string(domain.KindBooking) {
		t.Errorf("expected booking kind, got %s", resp.Kind)
	}
	if resp.Brief != "album cover" {
		t.Errorf("expected brief, got %q", resp.Brief)
	}
	if resp.ProjectID != "" || resp.Proposal != "" {
		t.Error("expected project fields to stay empty for bookings")
	}

	// Kind-specific and nil fields stay out of the wire format.
	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	body := string(raw)
	for _, absent := range []string{"project_id", "proposal", "escrow_hold_id", "counter_amount", "gateway_ref", "delivered_url"} {
		if strings.Contains(body, absent) {
			t.Errorf("expected %s to be omitted, got %s", absent, body)
		}
	}
}

func TestNegotiationFromDomain_ProjectApplication(t *testing.T) {
	counter := decimal.NewFromInt(350)
	app := &domain.ProjectApplication{
		Negotiation: domain.Negotiation{
			ID:            "neg-2",
			ClientID:      "client-1",
			CreatorID:     "creator-1",
			Amount:        decimal.NewFromInt(300),
			Currency:      "USDC",
			Status:        domain.StatusCountered,
			CounterAmount: &counter,
			Version:       2,
		},
		ProjectID: "project-7",
		Proposal:  "brand refresh",
	}

	resp := NegotiationFromDomain(app)

	if resp.Kind != string(domain.KindProjectApplication) {
		t.Errorf("expected project application kind, got %s", resp.Kind)
	}
	if resp.ProjectID != "project-7" || resp.Proposal != "brand refresh" {
		t.Errorf("expected project fields, got %q/%q", resp.ProjectID, resp.Proposal)
	}
	if resp.Brief != "" {
		t.Error("expected brief to stay empty for applications")
	}
	if resp.CounterAmount == nil || !resp.CounterAmount.Equal(counter) {
		t.Errorf("expected counter amount 350, got %v", resp.CounterAmount)
	}
}

func TestEntryFromDomain(t *testing.T) {
	negID := "neg-1"
	entry := &domain.Entry{
		ID:             "e1",
		WalletID:       "w1",
		Kind:           domain.EntryHold,
		Amount:         decimal.NewFromInt(-200),
		NegotiationID:  &negID,
		IdempotencyKey: "neg-1:hold",
	}

	resp := EntryFromDomain(entry)

	if resp.Kind != "HOLD" {
		t.Errorf("expected HOLD, got %s", resp.Kind)
	}
	if resp.NegotiationID == nil || *resp.NegotiationID != "neg-1" {
		t.Errorf("expected negotiation reference, got %v", resp.NegotiationID)
	}
	if !resp.Amount.Equal(decimal.NewFromInt(-200)) {
		t.Errorf("expected -200, got %s", resp.Amount)
	}
}

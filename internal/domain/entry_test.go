package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestEntry_Validate(t *testing.T) {
	negID := "neg-1"

	tests := []struct {
		name        string
		entry       Entry
		expectError bool
	}{
		{
			name:  "valid deposit",
			entry: Entry{Kind: EntryDeposit, Amount: decimal.NewFromInt(100), IdempotencyKey: "k1"},
		},
		{
			name:  "valid hold with negotiation",
			entry: Entry{Kind: EntryHold, Amount: decimal.NewFromInt(-100), NegotiationID: &negID, IdempotencyKey: "k2"},
		},
		{
			name:        "unknown kind",
			entry:       Entry{Kind: "TRANSFER", Amount: decimal.NewFromInt(100), IdempotencyKey: "k3"},
			expectError: true,
		},
		{
			name:        "zero amount",
			entry:       Entry{Kind: EntryDeposit, Amount: decimal.Zero, IdempotencyKey: "k4"},
			expectError: true,
		},
		{
			name:        "missing idempotency key",
			entry:       Entry{Kind: EntryDeposit, Amount: decimal.NewFromInt(100)},
			expectError: true,
		},
		{
			name:        "hold without negotiation",
			entry:       Entry{Kind: EntryHold, Amount: decimal.NewFromInt(-100), IdempotencyKey: "k5"},
			expectError: true,
		},
		{
			name:        "payout without negotiation",
			entry:       Entry{Kind: EntryPayout, Amount: decimal.NewFromInt(92), IdempotencyKey: "k6"},
			expectError: true,
		},
		{
			name:  "withdrawal needs no negotiation",
			entry: Entry{Kind: EntryWithdrawal, Amount: decimal.NewFromInt(-50), IdempotencyKey: "k7"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestEntry_AvailableDelta(t *testing.T) {
	tests := []struct {
		kind   EntryKind
		amount int64
		want   int64
	}{
		{EntryDeposit, 100, 100},
		{EntryPayout, 92, 92},
		{EntryHoldRefund, 200, 200},
		{EntryHold, -200, -200},
		{EntryWithdrawal, -50, -50},
		{EntryHoldRelease, -200, 0},
		{EntryFee, 16, 16},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			e := &Entry{Kind: tt.kind, Amount: decimal.NewFromInt(tt.amount)}
			if got := e.AvailableDelta(); !got.Equal(decimal.NewFromInt(tt.want)) {
				t.Errorf("expected %d, got %s", tt.want, got)
			}
		})
	}
}

func TestEntry_HeldDelta(t *testing.T) {
	tests := []struct {
		kind   EntryKind
		amount int64
		want   int64
	}{
		{EntryHold, -200, 200},
		{EntryHoldRelease, -200, -200},
		{EntryHoldRefund, 200, -200},
		{EntryDeposit, 100, 0},
		{EntryWithdrawal, -50, 0},
		{EntryPayout, 92, 0},
		{EntryFee, 16, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			e := &Entry{Kind: tt.kind, Amount: decimal.NewFromInt(tt.amount)}
			if got := e.HeldDelta(); !got.Equal(decimal.NewFromInt(tt.want)) {
				t.Errorf("expected %d, got %s", tt.want, got)
			}
		})
	}
}

// Fold the client side of a full settlement: a 200 hold followed by its
// release leaves the deposit minus the hold, with nothing still held.
func TestFoldOfFullSettlement(t *testing.T) {
	negID := "neg-1"
	entries := []Entry{
		{Kind: EntryDeposit, Amount: decimal.NewFromInt(500)},
		{Kind: EntryHold, Amount: decimal.NewFromInt(-200), NegotiationID: &negID},
		{Kind: EntryHoldRelease, Amount: decimal.NewFromInt(-200), NegotiationID: &negID},
	}

	available, held := decimal.Zero, decimal.Zero
	for _, e := range entries {
		available = available.Add(e.AvailableDelta())
		held = held.Add(e.HeldDelta())
	}

	if !available.Equal(decimal.NewFromInt(300)) {
		t.Errorf("expected available 300, got %s", available)
	}
	if !held.IsZero() {
		t.Errorf("expected held 0, got %s", held)
	}
}

// The platform wallet sees nothing but FEE entries; its fold must equal the
// sum of fees so reconciliation against the cached balance comes out clean.
func TestFoldOfPlatformFees(t *testing.T) {
	n1, n2 := "neg-1", "neg-2"
	entries := []Entry{
		{Kind: EntryFee, Amount: decimal.NewFromInt(16), NegotiationID: &n1},
		{Kind: EntryFee, Amount: decimal.NewFromInt(24), NegotiationID: &n2},
	}

	available, held := decimal.Zero, decimal.Zero
	for _, e := range entries {
		available = available.Add(e.AvailableDelta())
		held = held.Add(e.HeldDelta())
	}

	if !available.Equal(decimal.NewFromInt(40)) {
		t.Errorf("expected available 40, got %s", available)
	}
	if !held.IsZero() {
		t.Errorf("expected held 0, got %s", held)
	}
}

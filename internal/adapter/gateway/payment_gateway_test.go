package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/domain"
)

func TestInitiateChargeSendsReference(t *testing.T) {
	var got chargeRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode failed: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	g := NewPaymentGateway(Config{BaseURL: server.URL, WebhookSecret: "s", Timeout: time.Second})

	ref, err := g.InitiateCharge(context.Background(), "neg-1", decimal.NewFromInt(100), "USDC")
	if err != nil {
		t.Fatalf("InitiateCharge failed: %v", err)
	}

	if ref == "" || got.Reference != ref {
		t.Fatalf("expected matching reference, got %q vs %q", ref, got.Reference)
	}
	if got.NegotiationID != "neg-1" || got.Amount != "100" || got.Currency != "USDC" {
		t.Fatalf("unexpected charge request: %+v", got)
	}
}

func TestInitiateChargeRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	g := NewPaymentGateway(Config{BaseURL: server.URL, WebhookSecret: "s", Timeout: time.Second})

	if _, err := g.InitiateCharge(context.Background(), "neg-1", decimal.NewFromInt(100), "USDC"); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 calls, got %d", calls.Load())
	}
}

func TestInitiateChargeRejectionIsPermanent(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	g := NewPaymentGateway(Config{BaseURL: server.URL, WebhookSecret: "s", Timeout: time.Second})

	if _, err := g.InitiateCharge(context.Background(), "neg-1", decimal.NewFromInt(100), "USDC"); err == nil {
		t.Fatal("expected error on rejection")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected 1 call, got %d", calls.Load())
	}
}

func TestVerifySignature(t *testing.T) {
	g := NewPaymentGateway(Config{BaseURL: "http://gateway", WebhookSecret: "topsecret"})

	payload := []byte(`{"negotiation_id":"neg-1","reference":"ref-1"}`)
	sig := g.Sign(payload)

	if err := g.VerifySignature(payload, sig); err != nil {
		t.Fatalf("expected valid signature, got %v", err)
	}

	err := g.VerifySignature(payload, "deadbeef")
	if !errors.Is(err, domain.ErrGatewayCallbackInvalid) {
		t.Fatalf("expected ErrGatewayCallbackInvalid, got %v", err)
	}

	err = g.VerifySignature([]byte(`tampered`), sig)
	if !errors.Is(err, domain.ErrGatewayCallbackInvalid) {
		t.Fatalf("expected ErrGatewayCallbackInvalid on tampered payload, got %v", err)
	}
}

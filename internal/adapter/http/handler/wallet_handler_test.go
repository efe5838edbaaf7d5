package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/adapter/http/dto"
	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/domain"
	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/usecase"
	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/usecase/mocks"
)

type walletEnv struct {
	handler  *WalletHandler
	walletUC *usecase.WalletUseCase
}

func newWalletEnv(t *testing.T) *walletEnv {
	t.Helper()

	walletUC := usecase.NewWalletUseCase(
		mocks.NewMockTransactionManager(),
		mocks.NewMockWalletRepository(),
		mocks.NewMockEntryRepository(),
		mocks.NewMockHoldRepository(),
		mocks.NewMockOutboxRepository(),
		mocks.NewMockAuditRepository(),
		mocks.NewMockIDGenerator(),
		nil, "USDC", "platform",
	)

	return &walletEnv{handler: NewWalletHandler(walletUC), walletUC: walletUC}
}

func (e *walletEnv) seedWallet(t *testing.T, ownerID string) *domain.Wallet {
	t.Helper()

	wallet, err := e.walletUC.EnsureWallet(context.Background(), ownerID)
	if err != nil {
		t.Fatalf("failed to seed wallet: %v", err)
	}
	return wallet
}

func TestWalletHandler_Create(t *testing.T) {
	env := newWalletEnv(t)

	rec := postJSON(t, env.handler.Create, "/wallets", dto.CreateWalletRequest{OwnerID: "user-1"}, nil)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.WalletResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.OwnerID != "user-1" {
		t.Errorf("expected owner user-1, got %s", resp.OwnerID)
	}
	if resp.Currency != "USDC" {
		t.Errorf("expected USDC, got %s", resp.Currency)
	}
	if !resp.Available.IsZero() || !resp.Held.IsZero() {
		t.Errorf("expected zero balances, got %s/%s", resp.Available, resp.Held)
	}
}

func TestWalletHandler_Create_MissingOwner(t *testing.T) {
	env := newWalletEnv(t)

	rec := postJSON(t, env.handler.Create, "/wallets", dto.CreateWalletRequest{}, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestWalletHandler_Get_NotFound(t *testing.T) {
	env := newWalletEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/wallets/missing", nil)
	req = setChiURLParam(req, "id", "missing")
	rec := httptest.NewRecorder()
	env.handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestWalletHandler_Deposit(t *testing.T) {
	env := newWalletEnv(t)
	wallet := env.seedWallet(t, "user-1")

	rec := postJSON(t, env.handler.Deposit, "/wallets/"+wallet.ID+"/deposit",
		dto.MoveFundsRequest{Amount: decimal.NewFromInt(500), IdempotencyKey: "dep-1"},
		map[string]string{"id": wallet.ID})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.EntryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Kind != string(domain.EntryDeposit) {
		t.Errorf("expected deposit entry, got %s", resp.Kind)
	}
	if !resp.Amount.Equal(decimal.NewFromInt(500)) {
		t.Errorf("expected amount 500, got %s", resp.Amount)
	}

	updated, err := env.walletUC.GetWallet(context.Background(), wallet.ID)
	if err != nil {
		t.Fatalf("failed to reload wallet: %v", err)
	}
	if !updated.Available.Equal(decimal.NewFromInt(500)) {
		t.Errorf("expected available 500, got %s", updated.Available)
	}
}

func TestWalletHandler_Deposit_InvalidAmount(t *testing.T) {
	env := newWalletEnv(t)
	wallet := env.seedWallet(t, "user-1")

	rec := postJSON(t, env.handler.Deposit, "/wallets/"+wallet.ID+"/deposit",
		dto.MoveFundsRequest{Amount: decimal.Zero, IdempotencyKey: "dep-1"},
		map[string]string{"id": wallet.ID})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestWalletHandler_Withdraw_InsufficientBalance(t *testing.T) {
	env := newWalletEnv(t)
	wallet := env.seedWallet(t, "user-1")

	rec := postJSON(t, env.handler.Withdraw, "/wallets/"+wallet.ID+"/withdraw",
		dto.MoveFundsRequest{Amount: decimal.NewFromInt(100), IdempotencyKey: "wd-1"},
		map[string]string{"id": wallet.ID})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestWalletHandler_Withdraw(t *testing.T) {
	env := newWalletEnv(t)
	wallet := env.seedWallet(t, "user-1")

	if _, err := env.walletUC.Deposit(context.Background(), usecase.DepositInput{
		WalletID:       wallet.ID,
		Amount:         decimal.NewFromInt(300),
		IdempotencyKey: "dep-1",
	}); err != nil {
		t.Fatalf("failed to fund wallet: %v", err)
	}

	rec := postJSON(t, env.handler.Withdraw, "/wallets/"+wallet.ID+"/withdraw",
		dto.MoveFundsRequest{Amount: decimal.NewFromInt(120), IdempotencyKey: "wd-1"},
		map[string]string{"id": wallet.ID})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	updated, err := env.walletUC.GetWallet(context.Background(), wallet.ID)
	if err != nil {
		t.Fatalf("failed to reload wallet: %v", err)
	}
	if !updated.Available.Equal(decimal.NewFromInt(180)) {
		t.Errorf("expected available 180, got %s", updated.Available)
	}
}

func TestWalletHandler_ListEntries(t *testing.T) {
	env := newWalletEnv(t)
	wallet := env.seedWallet(t, "user-1")

	for _, key := range []string{"dep-1", "dep-2"} {
		if _, err := env.walletUC.Deposit(context.Background(), usecase.DepositInput{
			WalletID:       wallet.ID,
			Amount:         decimal.NewFromInt(50),
			IdempotencyKey: key,
		}); err != nil {
			t.Fatalf("failed to fund wallet: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/wallets/"+wallet.ID+"/entries", nil)
	req = setChiURLParam(req, "id", wallet.ID)
	rec := httptest.NewRecorder()
	env.handler.ListEntries(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp []*dto.EntryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(resp))
	}
}

func TestWalletHandler_Create_InvalidJSON(t *testing.T) {
	env := newWalletEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/wallets", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	env.handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/domain"
	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/usecase"
)

// MockWalletRepository is a mock implementation of WalletRepository.
type MockWalletRepository struct {
	mu      sync.RWMutex
	wallets map[string]*domain.Wallet

	CreateFunc              func(ctx context.Context, wallet *domain.Wallet) error
	GetByIDFunc             func(ctx context.Context, id string) (*domain.Wallet, error)
	GetByOwnerFunc          func(ctx context.Context, ownerID string) (*domain.Wallet, error)
	GetByIDForUpdateFunc    func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Wallet, error)
	GetByIDsForUpdateFunc   func(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Wallet, error)
	GetByOwnerForUpdateFunc func(ctx context.Context, tx usecase.Transaction, ownerID string) (*domain.Wallet, error)
	UpdateBalancesFunc      func(ctx context.Context, tx usecase.Transaction, id string, available, held decimal.Decimal, updatedAt time.Time) error
	ListFunc                func(ctx context.Context, limit, offset int) ([]*domain.Wallet, error)
}

func NewMockWalletRepository() *MockWalletRepository {
	return &MockWalletRepository{
		wallets: make(map[string]*domain.Wallet),
	}
}

func (m *MockWalletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, wallet)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wallets[wallet.ID] = wallet
	return nil
}

func (m *MockWalletRepository) GetByID(ctx context.Context, id string) (*domain.Wallet, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if w, ok := m.wallets[id]; ok {
		return w, nil
	}
	return nil, domain.ErrWalletNotFound
}

func (m *MockWalletRepository) GetByOwner(ctx context.Context, ownerID string) (*domain.Wallet, error) {
	if m.GetByOwnerFunc != nil {
		return m.GetByOwnerFunc(ctx, ownerID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, w := range m.wallets {
		if w.OwnerID == ownerID {
			return w, nil
		}
	}
	return nil, domain.ErrWalletNotFound
}

func (m *MockWalletRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Wallet, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockWalletRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Wallet, error) {
	if m.GetByIDsForUpdateFunc != nil {
		return m.GetByIDsForUpdateFunc(ctx, tx, ids)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var wallets []*domain.Wallet
	for _, id := range ids {
		if w, ok := m.wallets[id]; ok {
			wallets = append(wallets, w)
		}
	}
	return wallets, nil
}

func (m *MockWalletRepository) GetByOwnerForUpdate(ctx context.Context, tx usecase.Transaction, ownerID string) (*domain.Wallet, error) {
	if m.GetByOwnerForUpdateFunc != nil {
		return m.GetByOwnerForUpdateFunc(ctx, tx, ownerID)
	}
	return m.GetByOwner(ctx, ownerID)
}

func (m *MockWalletRepository) UpdateBalances(ctx context.Context, tx usecase.Transaction, id string, available, held decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalancesFunc != nil {
		return m.UpdateBalancesFunc(ctx, tx, id, available, held, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.wallets[id]
	if !ok {
		return domain.ErrWalletNotFound
	}
	w.Available = available
	w.Held = held
	w.Version++
	w.UpdatedAt = updatedAt
	return nil
}

func (m *MockWalletRepository) List(ctx context.Context, limit, offset int) ([]*domain.Wallet, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	wallets := make([]*domain.Wallet, 0, len(m.wallets))
	for _, w := range m.wallets {
		wallets = append(wallets, w)
	}
	if offset >= len(wallets) {
		return nil, nil
	}
	wallets = wallets[offset:]
	if limit > 0 && limit < len(wallets) {
		wallets = wallets[:limit]
	}
	return wallets, nil
}

// MockEntryRepository is a mock implementation of EntryRepository. The
// default Append enforces idempotency-key uniqueness the way the real
// repository does.
type MockEntryRepository struct {
	mu      sync.RWMutex
	entries []*domain.Entry
	byKey   map[string]*domain.Entry

	AppendFunc              func(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) (*domain.Entry, error)
	GetByIdempotencyKeyFunc func(ctx context.Context, key string) (*domain.Entry, error)
	ListByWalletFunc        func(ctx context.Context, walletID string, limit, offset int) ([]*domain.Entry, error)
	ListByNegotiationFunc   func(ctx context.Context, negotiationID string) ([]*domain.Entry, error)
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{
		byKey: make(map[string]*domain.Entry),
	}
}

func (m *MockEntryRepository) Append(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) (*domain.Entry, error) {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.byKey[entry.IdempotencyKey]; ok {
		return existing, domain.ErrDuplicateIdempotencyKey
	}
	m.entries = append(m.entries, entry)
	m.byKey[entry.IdempotencyKey] = entry
	return entry, nil
}

func (m *MockEntryRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Entry, error) {
	if m.GetByIdempotencyKeyFunc != nil {
		return m.GetByIdempotencyKeyFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.byKey[key]; ok {
		return e, nil
	}
	return nil, domain.ErrEntryNotFound
}

func (m *MockEntryRepository) ListByWallet(ctx context.Context, walletID string, limit, offset int) ([]*domain.Entry, error) {
	if m.ListByWalletFunc != nil {
		return m.ListByWalletFunc(ctx, walletID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.Entry
	for _, e := range m.entries {
		if e.WalletID == walletID {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (m *MockEntryRepository) ListByNegotiation(ctx context.Context, negotiationID string) ([]*domain.Entry, error) {
	if m.ListByNegotiationFunc != nil {
		return m.ListByNegotiationFunc(ctx, negotiationID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.Entry
	for _, e := range m.entries {
		if e.NegotiationID != nil && *e.NegotiationID == negotiationID {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// Entries returns a copy of everything appended so far.
func (m *MockEntryRepository) Entries() []*domain.Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// MockLedgerRepository is a mock implementation of LedgerRepository. The
// default fold runs over the entries of a MockEntryRepository when one is
// attached.
type MockLedgerRepository struct {
	Entries *MockEntryRepository

	FoldBalanceFunc func(ctx context.Context, walletID string) (domain.Balance, error)
	SumByKindFunc   func(ctx context.Context) (map[domain.EntryKind]decimal.Decimal, error)
}

func NewMockLedgerRepository(entries *MockEntryRepository) *MockLedgerRepository {
	return &MockLedgerRepository{Entries: entries}
}

func (m *MockLedgerRepository) FoldBalance(ctx context.Context, walletID string) (domain.Balance, error) {
	if m.FoldBalanceFunc != nil {
		return m.FoldBalanceFunc(ctx, walletID)
	}
	var balance domain.Balance
	if m.Entries == nil {
		return balance, nil
	}
	for _, e := range m.Entries.Entries() {
		if e.WalletID != walletID {
			continue
		}
		amount := e.Amount.Abs()
		switch e.Kind {
		case domain.EntryDeposit, domain.EntryPayout, domain.EntryHoldRefund, domain.EntryFee:
			balance.Available = balance.Available.Add(amount)
		case domain.EntryHold, domain.EntryWithdrawal:
			balance.Available = balance.Available.Sub(amount)
		}
		switch e.Kind {
		case domain.EntryHold:
			balance.Held = balance.Held.Add(amount)
		case domain.EntryHoldRelease, domain.EntryHoldRefund:
			balance.Held = balance.Held.Sub(amount)
		}
	}
	return balance, nil
}

func (m *MockLedgerRepository) SumByKind(ctx context.Context) (map[domain.EntryKind]decimal.Decimal, error) {
	if m.SumByKindFunc != nil {
		return m.SumByKindFunc(ctx)
	}
	sums := make(map[domain.EntryKind]decimal.Decimal)
	if m.Entries == nil {
		return sums, nil
	}
	for _, e := range m.Entries.Entries() {
		sums[e.Kind] = sums[e.Kind].Add(e.Amount.Abs())
	}
	return sums, nil
}

// MockHoldRepository is a mock implementation of HoldRepository.
type MockHoldRepository struct {
	mu    sync.RWMutex
	holds map[string]*domain.EscrowHold

	CreateFunc                    func(ctx context.Context, tx usecase.Transaction, hold *domain.EscrowHold) error
	GetByNegotiationFunc          func(ctx context.Context, negotiationID string) (*domain.EscrowHold, error)
	GetByNegotiationForUpdateFunc func(ctx context.Context, tx usecase.Transaction, negotiationID string) (*domain.EscrowHold, error)
	UpdateStatusFunc              func(ctx context.Context, tx usecase.Transaction, id string, status domain.HoldStatus, updatedAt time.Time) error
	ListByWalletFunc              func(ctx context.Context, walletID string, limit, offset int) ([]*domain.EscrowHold, error)
	SumActiveFunc                 func(ctx context.Context) (decimal.Decimal, error)
}

func NewMockHoldRepository() *MockHoldRepository {
	return &MockHoldRepository{
		holds: make(map[string]*domain.EscrowHold),
	}
}

func (m *MockHoldRepository) Create(ctx context.Context, tx usecase.Transaction, hold *domain.EscrowHold) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, hold)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holds[hold.ID] = hold
	return nil
}

func (m *MockHoldRepository) GetByNegotiation(ctx context.Context, negotiationID string) (*domain.EscrowHold, error) {
	if m.GetByNegotiationFunc != nil {
		return m.GetByNegotiationFunc(ctx, negotiationID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, h := range m.holds {
		if h.NegotiationID == negotiationID {
			return h, nil
		}
	}
	return nil, domain.ErrHoldNotFound
}

func (m *MockHoldRepository) GetByNegotiationForUpdate(ctx context.Context, tx usecase.Transaction, negotiationID string) (*domain.EscrowHold, error) {
	if m.GetByNegotiationForUpdateFunc != nil {
		return m.GetByNegotiationForUpdateFunc(ctx, tx, negotiationID)
	}
	return m.GetByNegotiation(ctx, negotiationID)
}

func (m *MockHoldRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.HoldStatus, updatedAt time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, id, status, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.holds[id]
	if !ok {
		return domain.ErrHoldNotFound
	}
	h.Status = status
	h.UpdatedAt = updatedAt
	return nil
}

func (m *MockHoldRepository) ListByWallet(ctx context.Context, walletID string, limit, offset int) ([]*domain.EscrowHold, error) {
	if m.ListByWalletFunc != nil {
		return m.ListByWalletFunc(ctx, walletID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var holds []*domain.EscrowHold
	for _, h := range m.holds {
		if h.WalletID == walletID {
			holds = append(holds, h)
		}
	}
	return holds, nil
}

func (m *MockHoldRepository) SumActive(ctx context.Context) (decimal.Decimal, error) {
	if m.SumActiveFunc != nil {
		return m.SumActiveFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, h := range m.holds {
		if h.Status == domain.HoldStatusActive {
			sum = sum.Add(h.Amount)
		}
	}
	return sum, nil
}

// MockNegotiationRepository is a mock implementation of
// NegotiationRepository. The default Update performs the same optimistic
// version check as the real repository.
type MockNegotiationRepository struct {
	mu           sync.RWMutex
	negotiations map[string]domain.NegotiableRequest

	CreateFunc                     func(ctx context.Context, tx usecase.Transaction, req domain.NegotiableRequest) error
	GetByIDFunc                    func(ctx context.Context, id string) (domain.NegotiableRequest, error)
	GetByIDForUpdateFunc           func(ctx context.Context, tx usecase.Transaction, id string) (domain.NegotiableRequest, error)
	UpdateFunc                     func(ctx context.Context, tx usecase.Transaction, req domain.NegotiableRequest) error
	ListByParticipantFunc          func(ctx context.Context, userID string, limit, offset int) ([]domain.NegotiableRequest, error)
	ListPaymentInitiatedBeforeFunc func(ctx context.Context, before time.Time, limit int) ([]domain.NegotiableRequest, error)
}

func NewMockNegotiationRepository() *MockNegotiationRepository {
	return &MockNegotiationRepository{
		negotiations: make(map[string]domain.NegotiableRequest),
	}
}

func (m *MockNegotiationRepository) Create(ctx context.Context, tx usecase.Transaction, req domain.NegotiableRequest) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, req)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.negotiations[req.Core().ID] = req
	return nil
}

func (m *MockNegotiationRepository) GetByID(ctx context.Context, id string) (domain.NegotiableRequest, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if req, ok := m.negotiations[id]; ok {
		return req, nil
	}
	return nil, domain.ErrNegotiationNotFound
}

func (m *MockNegotiationRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (domain.NegotiableRequest, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockNegotiationRepository) Update(ctx context.Context, tx usecase.Transaction, req domain.NegotiableRequest) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, req)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.negotiations[req.Core().ID]
	if !ok {
		return domain.ErrNegotiationNotFound
	}
	if stored.Core().Version != req.Core().Version {
		return domain.ErrStaleNegotiation
	}
	req.Core().Version++
	m.negotiations[req.Core().ID] = req
	return nil
}

func (m *MockNegotiationRepository) ListByParticipant(ctx context.Context, userID string, limit, offset int) ([]domain.NegotiableRequest, error) {
	if m.ListByParticipantFunc != nil {
		return m.ListByParticipantFunc(ctx, userID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var reqs []domain.NegotiableRequest
	for _, req := range m.negotiations {
		core := req.Core()
		if core.ClientID == userID || core.CreatorID == userID {
			reqs = append(reqs, req)
		}
	}
	return reqs, nil
}

func (m *MockNegotiationRepository) ListPaymentInitiatedBefore(ctx context.Context, before time.Time, limit int) ([]domain.NegotiableRequest, error) {
	if m.ListPaymentInitiatedBeforeFunc != nil {
		return m.ListPaymentInitiatedBeforeFunc(ctx, before, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var reqs []domain.NegotiableRequest
	for _, req := range m.negotiations {
		core := req.Core()
		if core.Status == domain.StatusAwaitingPayment &&
			core.PaymentInitiatedAt != nil && core.PaymentInitiatedAt.Before(before) {
			reqs = append(reqs, req)
		}
		if limit > 0 && len(reqs) >= limit {
			break
		}
	}
	return reqs, nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc         func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
	GetUnpublishedFunc func(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublishedFunc  func(ctx context.Context, id string, publishedAt time.Time) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if m.GetUnpublishedFunc != nil {
		return m.GetUnpublishedFunc(ctx, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var events []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published {
			events = append(events, e)
		}
		if limit > 0 && len(events) >= limit {
			break
		}
	}
	return events, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	if m.MarkPublishedFunc != nil {
		return m.MarkPublishedFunc(ctx, id, publishedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
			return nil
		}
	}
	return nil
}

func (m *MockOutboxRepository) GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var events []*domain.OutboxEvent
	for _, e := range m.events {
		if e.AggregateType == aggregateType && e.AggregateID == aggregateID {
			events = append(events, e)
		}
	}
	return events, nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.events[:0]
	for _, e := range m.events {
		if !e.Published || e.PublishedAt == nil || !e.PublishedAt.Before(before) {
			kept = append(kept, e)
		}
	}
	m.events = kept
	return nil
}

// Events returns a copy of all recorded events.
func (m *MockOutboxRepository) Events() []*domain.OutboxEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.OutboxEvent, len(m.events))
	copy(out, m.events)
	return out
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	mu   sync.RWMutex
	logs []*domain.AuditLog

	CreateFunc   func(ctx context.Context, log *domain.AuditLog) error
	CreateTxFunc func(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error
	ListFunc     func(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, log)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *MockAuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, log)
	}
	return m.Create(ctx, log)
}

func (m *MockAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.AuditLog, len(m.logs))
	copy(out, m.logs)
	return out, nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockCache is a mock implementation of Cache.
type MockCache struct {
	mu   sync.RWMutex
	data map[string][]byte

	GetFunc    func(ctx context.Context, key string) ([]byte, error)
	SetFunc    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{
		data: make(map[string][]byte),
	}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, nil
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/domain"
	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/infrastructure/metrics"
)

// NegotiationUseCase is the booking/project state machine. Every transition
// runs in one transaction: the negotiation row is taken FOR UPDATE, the
// wallet effect (if any) is applied through WalletUseCase on the same
// transaction, and the status update commits last with an optimistic version
// check. A failed wallet effect aborts the whole transition.
type NegotiationUseCase struct {
	txManager  TransactionManager
	negRepo    NegotiationRepository
	walletUC   *WalletUseCase
	outboxRepo OutboxRepository
	auditRepo  AuditRepository
	idGen      IDGenerator
	gateway    PaymentGateway
	metrics    *metrics.Metrics
	retrier    Retrier

	feeRate       decimal.Decimal
	currency      string
	paymentWindow time.Duration
}

func NewNegotiationUseCase(
	txManager TransactionManager,
	negRepo NegotiationRepository,
	walletUC *WalletUseCase,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	gateway PaymentGateway,
	metrics *metrics.Metrics,
	feeRate decimal.Decimal,
	currency string,
	paymentWindow time.Duration,
) *NegotiationUseCase {
	if paymentWindow <= 0 {
		paymentWindow = DefaultPaymentConfirmWindow
	}

	return &NegotiationUseCase{
		txManager:     txManager,
		negRepo:       negRepo,
		walletUC:      walletUC,
		outboxRepo:    outboxRepo,
		auditRepo:     auditRepo,
		idGen:         idGen,
		gateway:       gateway,
		metrics:       metrics,
		feeRate:       feeRate,
		currency:      currency,
		paymentWindow: paymentWindow,
	}
}

// WithRetrier wraps webhook and sweep transactions in transient-failure
// retries. Returns the use case for chaining.
func (uc *NegotiationUseCase) WithRetrier(retrier Retrier) *NegotiationUseCase {
	uc.retrier = retrier
	return uc
}

func (uc *NegotiationUseCase) retry(ctx context.Context, operation func() error) error {
	if uc.retrier == nil {
		return operation()
	}
	return uc.retrier.Retry(ctx, operation)
}

// CreateBookingInput represents input for creating a booking.
type CreateBookingInput struct {
	ClientID  string
	CreatorID string
	Amount    decimal.Decimal
	Brief     string
}

// CreateBooking creates a booking in PENDING and makes sure both parties
// have wallets before any money can move later.
func (uc *NegotiationUseCase) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	core, err := uc.newCore(ctx, input.ClientID, input.CreatorID, input.Amount)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateBrief(input.Brief); err != nil {
		return nil, err
	}

	booking := &domain.Booking{Negotiation: *core, Brief: input.Brief}
	if err := uc.persistNew(ctx, booking); err != nil {
		return nil, err
	}

	return booking, nil
}

// CreateProjectApplicationInput represents input for a project application.
type CreateProjectApplicationInput struct {
	ClientID  string
	CreatorID string
	ProjectID string
	Amount    decimal.Decimal
	Proposal  string
}

// CreateProjectApplication creates a project application in PENDING. It
// shares the booking state machine end to end.
func (uc *NegotiationUseCase) CreateProjectApplication(ctx context.Context, input CreateProjectApplicationInput) (*domain.ProjectApplication, error) {
	core, err := uc.newCore(ctx, input.ClientID, input.CreatorID, input.Amount)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateBrief(input.Proposal); err != nil {
		return nil, err
	}

	app := &domain.ProjectApplication{Negotiation: *core, ProjectID: input.ProjectID, Proposal: input.Proposal}
	if err := uc.persistNew(ctx, app); err != nil {
		return nil, err
	}

	return app, nil
}

// Get retrieves a negotiation by ID.
func (uc *NegotiationUseCase) Get(ctx context.Context, id string) (domain.NegotiableRequest, error) {
	return uc.negRepo.GetByID(ctx, id)
}

// ListByParticipant lists negotiations the user takes part in.
func (uc *NegotiationUseCase) ListByParticipant(ctx context.Context, userID string, limit, offset int) ([]domain.NegotiableRequest, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.negRepo.ListByParticipant(ctx, userID, limit, offset)
}

// Accept moves PENDING to AWAITING_PAYMENT. Creator only.
func (uc *NegotiationUseCase) Accept(ctx context.Context, id, userID string, expectedVersion int64) (domain.NegotiableRequest, error) {
	return uc.transition(ctx, id, userID, expectedVersion, domain.ActionAccept, domain.EventBookingAccepted, nil)
}

// Reject moves PENDING to REJECTED. Creator only.
func (uc *NegotiationUseCase) Reject(ctx context.Context, id, userID string, expectedVersion int64) (domain.NegotiableRequest, error) {
	return uc.transition(ctx, id, userID, expectedVersion, domain.ActionReject, domain.EventBookingRejected, nil)
}

// Counter records a counter-proposal, overwriting any outstanding one.
// Creator only. The negotiation's agreed amount stays unchanged until the
// client accepts.
func (uc *NegotiationUseCase) Counter(ctx context.Context, id, userID string, amount decimal.Decimal, expectedVersion int64) (domain.NegotiableRequest, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	return uc.transition(ctx, id, userID, expectedVersion, domain.ActionCounter, domain.EventBookingCountered,
		func(ctx context.Context, tx Transaction, core *domain.Negotiation) error {
			return core.SetCounter(amount, time.Now().UTC())
		})
}

// AcceptCounter applies the currently stored counter amount and moves to
// AWAITING_PAYMENT. Client only. A stale expectedVersion fails
// ErrStaleNegotiation so clients cannot accept a counter they never saw.
func (uc *NegotiationUseCase) AcceptCounter(ctx context.Context, id, userID string, expectedVersion int64) (domain.NegotiableRequest, error) {
	return uc.transition(ctx, id, userID, expectedVersion, domain.ActionAcceptCounter, domain.EventBookingAccepted,
		func(ctx context.Context, tx Transaction, core *domain.Negotiation) error {
			return core.ApplyCounter()
		})
}

// RejectCounter moves COUNTERED to REJECTED. Client only.
func (uc *NegotiationUseCase) RejectCounter(ctx context.Context, id, userID string, expectedVersion int64) (domain.NegotiableRequest, error) {
	return uc.transition(ctx, id, userID, expectedVersion, domain.ActionRejectCounter, domain.EventBookingRejected,
		func(ctx context.Context, tx Transaction, core *domain.Negotiation) error {
			core.CounterAmount = nil
			core.CounterProposedAt = nil
			return nil
		})
}

// Pay initiates the gateway charge for an AWAITING_PAYMENT negotiation and
// returns the gateway reference. It does not flip state: only the
// payment-confirmed callback does. Repeated calls while a charge is in
// flight return the existing reference.
func (uc *NegotiationUseCase) Pay(ctx context.Context, id, userID string) (string, error) {
	req, err := uc.negRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	core := req.Core()

	actor, err := core.ActorFor(userID)
	if err != nil {
		return "", err
	}
	if actor != domain.ActorClient {
		return "", domain.ErrActorNotAllowed
	}
	if core.Status != domain.StatusAwaitingPayment {
		return "", domain.ErrInvalidTransition
	}

	now := time.Now().UTC()
	if core.PaymentInFlight(now, uc.paymentWindow) {
		return *core.GatewayRef, nil
	}

	// Hand off to the gateway outside any transaction; a timeout here leaves
	// the negotiation exactly where it was.
	ref, err := uc.gateway.InitiateCharge(ctx, core.ID, core.Amount, core.Currency)
	if err != nil {
		return "", err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	req, err = uc.negRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return "", err
	}
	core = req.Core()

	if core.Status != domain.StatusAwaitingPayment {
		return "", domain.ErrInvalidTransition
	}
	if core.PaymentInFlight(now, uc.paymentWindow) {
		return *core.GatewayRef, nil
	}

	core.GatewayRef = &ref
	core.PaymentInitiatedAt = &now
	core.UpdatedAt = now

	if err := uc.negRepo.Update(txCtx, tx, req); err != nil {
		return "", err
	}

	if err := tx.Commit(txCtx); err != nil {
		return "", err
	}

	return ref, nil
}

// OnPaymentConfirmed is the webhook entry point and the only trigger for
// AWAITING_PAYMENT -> CONFIRMED. It places the escrow hold and flips status
// in one transaction. Redelivery of the same confirmation is a no-op; a
// confirmation arriving after cancellation is ignored since no hold exists
// yet at that point.
func (uc *NegotiationUseCase) OnPaymentConfirmed(ctx context.Context, id, gatewayRef string) error {
	return uc.retry(ctx, func() error {
		return uc.onPaymentConfirmed(ctx, id, gatewayRef)
	})
}

func (uc *NegotiationUseCase) onPaymentConfirmed(ctx context.Context, id, gatewayRef string) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	req, err := uc.negRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNegotiationNotFound) {
			uc.countWebhook("unknown")
			return domain.ErrGatewayCallbackInvalid
		}
		return err
	}
	core := req.Core()

	switch core.Status {
	case domain.StatusConfirmed, domain.StatusInProgress, domain.StatusDelivered, domain.StatusCompleted:
		// Duplicate delivery of a confirmation we already applied.
		uc.countWebhook("duplicate")
		return nil
	case domain.StatusCancelled:
		// Payment confirmed after cancellation: nothing was held, nothing to
		// refund; the stale charge is reconciled out of band.
		uc.countWebhook("after_cancel")
		return nil
	case domain.StatusAwaitingPayment:
	default:
		uc.countWebhook("invalid_state")
		return domain.ErrGatewayCallbackInvalid
	}

	if core.GatewayRef == nil || *core.GatewayRef != gatewayRef {
		uc.countWebhook("ref_mismatch")
		return domain.ErrGatewayCallbackInvalid
	}

	hold, err := uc.walletUC.HoldForNegotiation(txCtx, tx, core.ClientID, core.ID, core.Amount)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientBalance) {
			wallet, werr := uc.walletUC.GetWalletByOwner(ctx, core.ClientID)
			if werr == nil {
				defer uc.walletUC.EmitInsufficientBalance(ctx, wallet.ID, core.Amount, wallet.Available)
			}
		}
		return err
	}

	now := time.Now().UTC()
	core.Status = domain.StatusConfirmed
	core.EscrowHoldID = &hold.ID
	core.PaymentInitiatedAt = nil
	core.UpdatedAt = now

	if err := uc.negRepo.Update(txCtx, tx, req); err != nil {
		return err
	}

	if err := uc.emitNegotiationEvent(txCtx, tx, domain.EventBookingPaymentConfirmed, req, now); err != nil {
		return err
	}

	if err := tx.Commit(txCtx); err != nil {
		return err
	}

	uc.countWebhook("confirmed")
	uc.countTransition(domain.ActionConfirm)

	return nil
}

// Deliver records the delivered work and moves to DELIVERED. Creator only.
// The implicit CONFIRMED -> IN_PROGRESS advance is folded into the first
// deliver call.
func (uc *NegotiationUseCase) Deliver(ctx context.Context, id, userID, url, notes string, expectedVersion int64) (domain.NegotiableRequest, error) {
	if url == "" {
		return nil, domain.ErrInvalidTransition
	}

	return uc.transition(ctx, id, userID, expectedVersion, domain.ActionDeliver, domain.EventBookingDelivered,
		func(ctx context.Context, tx Transaction, core *domain.Negotiation) error {
			core.DeliveredURL = &url
			if notes != "" {
				core.DeliveredNotes = &notes
			}
			return nil
		})
}

// Approve moves DELIVERED to COMPLETED and releases the escrow hold,
// splitting payout and platform fee. Client only.
func (uc *NegotiationUseCase) Approve(ctx context.Context, id, userID string, expectedVersion int64) (domain.NegotiableRequest, error) {
	return uc.transition(ctx, id, userID, expectedVersion, domain.ActionApprove, domain.EventBookingCompleted,
		func(ctx context.Context, tx Transaction, core *domain.Negotiation) error {
			if _, err := uc.walletUC.ReleaseHold(ctx, tx, core.ID, core.CreatorID, uc.feeRate); err != nil {
				return err
			}
			core.EscrowHoldID = nil
			return nil
		})
}

// Cancel moves any cancellable state to CANCELLED, refunding an active hold.
// Either participant. Blocked while a gateway charge is in flight.
func (uc *NegotiationUseCase) Cancel(ctx context.Context, id, userID string, expectedVersion int64) (domain.NegotiableRequest, error) {
	return uc.transition(ctx, id, userID, expectedVersion, domain.ActionCancel, domain.EventBookingCancelled,
		func(ctx context.Context, tx Transaction, core *domain.Negotiation) error {
			if core.PaymentInFlight(time.Now().UTC(), uc.paymentWindow) {
				return domain.ErrPaymentInFlight
			}
			if core.EscrowHoldID != nil {
				if _, err := uc.walletUC.RefundHold(ctx, tx, core.ID); err != nil {
					return err
				}
				core.EscrowHoldID = nil
			}
			return nil
		})
}

// Dispute flags the negotiation as DISPUTED. The hold stays in place until a
// manual resolution. Either participant.
func (uc *NegotiationUseCase) Dispute(ctx context.Context, id, userID string, expectedVersion int64) (domain.NegotiableRequest, error) {
	return uc.transition(ctx, id, userID, expectedVersion, domain.ActionDispute, domain.EventBookingDisputed, nil)
}

// DisputeOutcome selects how a dispute's hold is settled.
type DisputeOutcome string

const (
	DisputeOutcomeRelease DisputeOutcome = "release"
	DisputeOutcomeRefund  DisputeOutcome = "refund"
)

// ResolveDispute is the manual override for DISPUTED negotiations: an admin
// settles the hold either toward the creator (release) or back to the client
// (refund). The status stays DISPUTED; adjudication itself is out of scope.
func (uc *NegotiationUseCase) ResolveDispute(ctx context.Context, id string, outcome DisputeOutcome) (domain.NegotiableRequest, error) {
	user, ok := domain.UserFromContext(ctx)
	if !ok || !user.Role.CanReconcile() {
		return nil, domain.ErrUnauthorized
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	req, err := uc.negRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return nil, err
	}
	core := req.Core()

	if core.Status != domain.StatusDisputed {
		return nil, domain.ErrInvalidTransition
	}
	if core.EscrowHoldID == nil {
		// Already settled.
		return req, nil
	}

	switch outcome {
	case DisputeOutcomeRelease:
		if _, err := uc.walletUC.ReleaseHold(txCtx, tx, core.ID, core.CreatorID, uc.feeRate); err != nil {
			return nil, err
		}
	case DisputeOutcomeRefund:
		if _, err := uc.walletUC.RefundHold(txCtx, tx, core.ID); err != nil {
			return nil, err
		}
	default:
		return nil, domain.ErrInvalidTransition
	}

	now := time.Now().UTC()
	core.EscrowHoldID = nil
	core.UpdatedAt = now

	if err := uc.negRepo.Update(txCtx, tx, req); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return req, nil
}

// ExpireStalePayments clears in-flight payment markers older than the
// confirmation window so cancel and retry can proceed. The hold is created
// only at confirmation, so expiry never leaks one. Returns how many
// negotiations were swept.
func (uc *NegotiationUseCase) ExpireStalePayments(ctx context.Context, limit int) (int, error) {
	cutoff := time.Now().UTC().Add(-uc.paymentWindow)
	stale, err := uc.negRepo.ListPaymentInitiatedBefore(ctx, cutoff, limit)
	if err != nil {
		return 0, err
	}

	swept := 0
	for _, req := range stale {
		id := req.Core().ID
		if err := uc.retry(ctx, func() error { return uc.expireOne(ctx, id, cutoff) }); err != nil {
			if errors.Is(err, domain.ErrStaleNegotiation) {
				continue
			}
			return swept, err
		}
		swept++
	}

	if uc.metrics != nil && swept > 0 {
		uc.metrics.PaymentExpiries.Add(float64(swept))
	}

	return swept, nil
}

func (uc *NegotiationUseCase) expireOne(ctx context.Context, id string, cutoff time.Time) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	req, err := uc.negRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return err
	}
	core := req.Core()

	// Re-check under lock: a confirmation may have landed meanwhile.
	if core.Status != domain.StatusAwaitingPayment || core.PaymentInitiatedAt == nil || core.PaymentInitiatedAt.After(cutoff) {
		return nil
	}

	core.GatewayRef = nil
	core.PaymentInitiatedAt = nil
	core.UpdatedAt = time.Now().UTC()

	if err := uc.negRepo.Update(txCtx, tx, req); err != nil {
		return err
	}

	return tx.Commit(txCtx)
}

// effect mutates the core (and applies wallet operations) after the
// transition target has been resolved but before the row is written.
type effect func(ctx context.Context, tx Transaction, core *domain.Negotiation) error

func (uc *NegotiationUseCase) transition(ctx context.Context, id, userID string, expectedVersion int64, action domain.Action, eventType string, fn effect) (domain.NegotiableRequest, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	req, err := uc.negRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return nil, err
	}
	core := req.Core()

	if expectedVersion != 0 && core.Version != expectedVersion {
		return nil, domain.ErrStaleNegotiation
	}

	actor, err := core.ActorFor(userID)
	if err != nil {
		return nil, err
	}

	before := core.Status
	next, err := domain.Next(core.Status, action, actor)
	if err != nil {
		return nil, err
	}

	if fn != nil {
		if err := fn(txCtx, tx, core); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	core.Status = next
	core.UpdatedAt = now

	if err := core.CheckHoldInvariant(); err != nil {
		return nil, err
	}

	if err := uc.negRepo.Update(txCtx, tx, req); err != nil {
		return nil, err
	}

	if err := uc.emitNegotiationEvent(txCtx, tx, eventType, req, now); err != nil {
		return nil, err
	}

	uc.auditTransition(ctx, tx, txCtx, req, before, action)

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.countTransition(action)

	return req, nil
}

func (uc *NegotiationUseCase) newCore(ctx context.Context, clientID, creatorID string, amount decimal.Decimal) (*domain.Negotiation, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	core := &domain.Negotiation{
		ID:        uc.idGen.Generate(),
		ClientID:  clientID,
		CreatorID: creatorID,
		Amount:    amount,
		Currency:  uc.currency,
		Status:    domain.StatusPending,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := core.Validate(); err != nil {
		return nil, err
	}

	// Wallets exist before any money can move for this engagement.
	if _, err := uc.walletUC.EnsureWallet(ctx, clientID); err != nil {
		return nil, err
	}
	if _, err := uc.walletUC.EnsureWallet(ctx, creatorID); err != nil {
		return nil, err
	}

	return core, nil
}

// persistNew writes the negotiation row and its created event in one
// transaction, the same contract every transition has with its event.
func (uc *NegotiationUseCase) persistNew(ctx context.Context, req domain.NegotiableRequest) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := uc.negRepo.Create(ctx, tx, req); err != nil {
		return err
	}
	if err := uc.emitNegotiationEvent(ctx, tx, domain.EventBookingCreated, req, time.Now().UTC()); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (uc *NegotiationUseCase) emitNegotiationEvent(ctx context.Context, tx Transaction, eventType string, req domain.NegotiableRequest, now time.Time) error {
	core := req.Core()
	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   core.ID,
		AggregateType: domain.AggregateTypeNegotiation,
		EventType:     eventType,
		Payload: map[string]any{
			"negotiation_id": core.ID,
			"kind":           string(req.Kind()),
			"client_id":      core.ClientID,
			"creator_id":     core.CreatorID,
			"status":         string(core.Status),
			"amount":         core.Amount.String(),
			"currency":       core.Currency,
		},
		CreatedAt: now,
		Published: false,
	}
	return uc.outboxRepo.Create(ctx, tx, event)
}

func (uc *NegotiationUseCase) auditTransition(ctx context.Context, tx Transaction, txCtx context.Context, req domain.NegotiableRequest, before domain.Status, action domain.Action) {
	if uc.auditRepo == nil {
		return
	}

	userID := "system"
	if user, ok := domain.UserFromContext(ctx); ok {
		userID = user.ID
	}

	core := req.Core()
	log := &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		UserID:       userID,
		Action:       string(domain.AuditActionNegotiationTransition),
		ResourceType: string(req.Kind()),
		ResourceID:   core.ID,
		BeforeState:  domain.JSON{"status": string(before)},
		AfterState:   domain.JSON{"status": string(core.Status), "action": string(action)},
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    time.Now(),
	}
	_ = uc.auditRepo.CreateTx(txCtx, tx, log)
}

func (uc *NegotiationUseCase) countTransition(action domain.Action) {
	if uc.metrics != nil {
		uc.metrics.NegotiationTransitions.WithLabelValues(string(action)).Inc()
	}
}

func (uc *NegotiationUseCase) countWebhook(result string) {
	if uc.metrics != nil {
		uc.metrics.WebhookCallbacks.WithLabelValues(result).Inc()
	}
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/adapter/http/dto"
	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/domain"
	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/usecase"
)

// BookingHandler handles booking and project-application HTTP requests. Both
// kinds share the negotiation engine, so one handler serves them.
type BookingHandler struct {
	negotiationUC *usecase.NegotiationUseCase
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(negotiationUC *usecase.NegotiationUseCase) *BookingHandler {
	return &BookingHandler{negotiationUC: negotiationUC}
}

// CreateBooking creates a direct booking in PENDING.
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	booking, err := h.negotiationUC.CreateBooking(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create booking", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.NegotiationFromDomain(booking))
}

// CreateProjectApplication creates a project application in PENDING.
func (h *BookingHandler) CreateProjectApplication(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateProjectApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	app, err := h.negotiationUC.CreateProjectApplication(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create project application", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.NegotiationFromDomain(app))
}

// Get retrieves a negotiation by ID.
func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing booking ID", "")
		return
	}

	req, err := h.negotiationUC.Get(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get booking", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.NegotiationFromDomain(req))
}

// List lists negotiations the user takes part in.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := actingUserID(r, r.URL.Query().Get("user_id"))
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing user_id", "")
		return
	}

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	reqs, err := h.negotiationUC.ListByParticipant(r.Context(), userID, limit, offset)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list bookings", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.NegotiationsFromDomain(reqs))
}

// Accept moves PENDING to AWAITING_PAYMENT.
func (h *BookingHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.simpleTransition(w, r, h.negotiationUC.Accept)
}

// Reject moves PENDING to REJECTED.
func (h *BookingHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.simpleTransition(w, r, h.negotiationUC.Reject)
}

// Counter records a creator's counter-proposal.
func (h *BookingHandler) Counter(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.CounterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.negotiationUC.Counter(r.Context(), id, actingUserID(r, req.UserID), req.Amount, req.Version)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to counter", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.NegotiationFromDomain(result))
}

// AcceptCounter applies the stored counter and moves to AWAITING_PAYMENT.
func (h *BookingHandler) AcceptCounter(w http.ResponseWriter, r *http.Request) {
	h.simpleTransition(w, r, h.negotiationUC.AcceptCounter)
}

// RejectCounter moves COUNTERED to REJECTED.
func (h *BookingHandler) RejectCounter(w http.ResponseWriter, r *http.Request) {
	h.simpleTransition(w, r, h.negotiationUC.RejectCounter)
}

// Pay initiates the gateway charge and returns the reference.
func (h *BookingHandler) Pay(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	ref, err := h.negotiationUC.Pay(r.Context(), id, actingUserID(r, req.UserID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to initiate payment", err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, dto.PayResponse{GatewayRef: ref})
}

// Deliver records the delivered work.
func (h *BookingHandler) Deliver(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.DeliverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "missing delivery url", "")
		return
	}

	result, err := h.negotiationUC.Deliver(r.Context(), id, actingUserID(r, req.UserID), req.URL, req.Notes, req.Version)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to deliver", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.NegotiationFromDomain(result))
}

// Approve completes the engagement and releases the escrow hold.
func (h *BookingHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.simpleTransition(w, r, h.negotiationUC.Approve)
}

// Cancel cancels the negotiation, refunding any active hold.
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.simpleTransition(w, r, h.negotiationUC.Cancel)
}

// Dispute flags the negotiation for manual resolution.
func (h *BookingHandler) Dispute(w http.ResponseWriter, r *http.Request) {
	h.simpleTransition(w, r, h.negotiationUC.Dispute)
}

// ResolveDispute settles a disputed hold toward the creator or the client.
// Admin only; the use case enforces the role.
func (h *BookingHandler) ResolveDispute(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.ResolveDisputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.negotiationUC.ResolveDispute(r.Context(), id, usecase.DisputeOutcome(req.Outcome))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to resolve dispute", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.NegotiationFromDomain(result))
}

type transitionFunc func(ctx context.Context, id, userID string, expectedVersion int64) (domain.NegotiableRequest, error)

// simpleTransition decodes the common transition body and dispatches to the
// given use-case method.
func (h *BookingHandler) simpleTransition(w http.ResponseWriter, r *http.Request, fn transitionFunc) {
	id := chi.URLParam(r, "id")

	var req dto.TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := fn(r.Context(), id, actingUserID(r, req.UserID), req.Version)
	if err != nil {
		writeError(w, mapDomainError(err), "transition failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.NegotiationFromDomain(result))
}

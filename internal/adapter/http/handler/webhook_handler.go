package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/adapter/gateway"
	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/adapter/http/dto"
	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/usecase"
)

const signatureHeader = "X-Gateway-Signature"

// WebhookHandler receives payment confirmations from the gateway.
type WebhookHandler struct {
	negotiationUC *usecase.NegotiationUseCase
	gateway       *gateway.PaymentGateway
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(negotiationUC *usecase.NegotiationUseCase, gw *gateway.PaymentGateway) *WebhookHandler {
	return &WebhookHandler{negotiationUC: negotiationUC, gateway: gw}
}

// PaymentConfirmed handles the gateway's payment-confirmed callback. The
// signature is checked against the raw body before anything else; a bad
// signature never touches state.
func (h *WebhookHandler) PaymentConfirmed(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body", err.Error())
		return
	}

	if err := h.gateway.VerifySignature(body, r.Header.Get(signatureHeader)); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid signature", "")
		return
	}

	var payload dto.PaymentConfirmedWebhook
	if err := json.Unmarshal(body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}
	if payload.NegotiationID == "" || payload.Reference == "" {
		writeError(w, http.StatusBadRequest, "missing negotiation_id or reference", "")
		return
	}

	if err := h.negotiationUC.OnPaymentConfirmed(r.Context(), payload.NegotiationID, payload.Reference); err != nil {
		writeError(w, mapDomainError(err), "failed to process payment confirmation", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "processed"})
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/adapter/http/dto"
	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrWalletNotFound),
		errors.Is(err, domain.ErrNegotiationNotFound),
		errors.Is(err, domain.ErrHoldNotFound),
		errors.Is(err, domain.ErrEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrStaleNegotiation),
		errors.Is(err, domain.ErrPaymentInFlight),
		errors.Is(err, domain.ErrHoldNotActive),
		errors.Is(err, domain.ErrDuplicateIdempotencyKey):
		return http.StatusConflict
	case errors.Is(err, domain.ErrActorNotAllowed):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrCurrencyMismatch),
		errors.Is(err, domain.ErrSameParty),
		errors.Is(err, domain.ErrInvalidEntry),
		errors.Is(err, domain.ErrGatewayCallbackInvalid),
		errors.Is(err, domain.ErrPaymentNotInitiated),
		errors.Is(err, domain.ErrHoldInvariantViolated):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// actingUserID resolves who performs a mutating action: the authenticated
// user when present, otherwise the user the request body names. Auth-enabled
// deployments never reach the fallback.
func actingUserID(r *http.Request, bodyUserID string) string {
	if user, ok := domain.UserFromContext(r.Context()); ok {
		return user.ID
	}
	return bodyUserID
}

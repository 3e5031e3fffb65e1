package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"bidkart/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes a standardised error response.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Error().Str("code", code).Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeServiceError maps a service error to an HTTP response. Domain errors
// carry their own code and map by category; everything else is a 500 with
// the detail kept out of the response body.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		writeError(w, statusForCode(domainErr.Code), domainErr.Code, domainErr.Message, logger)
		return
	}

	logger.Error().Err(err).Msg("internal error")
	writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", logger)
}

// statusForCode maps a domain error code to an HTTP status.
func statusForCode(code string) int {
	switch code {
	case model.ErrCodeProductNotFound,
		model.ErrCodeBidNotFound,
		model.ErrCodeSellerBidMissing,
		model.ErrCodeOrderNotFound,
		model.ErrCodeUserNotFound:
		return http.StatusNotFound
	case model.ErrCodeExpired:
		return http.StatusGone
	case model.ErrCodeNotActive,
		model.ErrCodeInvalidState,
		model.ErrCodeCounterNotPending:
		return http.StatusConflict
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case model.ErrCodeInvalidJSON,
		model.ErrCodeMissingField,
		model.ErrCodeInvalidDuration,
		model.ErrCodeInvalidPrice,
		model.ErrCodeInvalidQuantity,
		model.ErrCodeInvalidPercent,
		model.ErrCodeCartEmpty,
		model.ErrCodeInvalidCoupon:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes the request body into dst, reporting malformed input
// as a 400 with the INVALID_JSON code. Returns false when the response has
// already been written.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, logger zerolog.Logger) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", logger)
		return false
	}
	return true
}

package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/tripledger/tripledger/internal/adapter/http/dto"
	"github.com/tripledger/tripledger/internal/domain"
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
	var unknownMember *domain.UnknownMemberError
	if errors.As(err, &unknownMember) {
		// Data integrity problem discovered at read time.
		return http.StatusConflict
	}

	switch {
	case errors.Is(err, domain.ErrTripNotFound),
		errors.Is(err, domain.ErrMemberNotFound),
		errors.Is(err, domain.ErrWalletNotFound),
		errors.Is(err, domain.ErrCategoryNotFound),
		errors.Is(err, domain.ErrTransactionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrMemberReferenced):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnbalancedLedger):
		return http.StatusInternalServerError
	case errors.Is(err, domain.ErrZeroAmount),
		errors.Is(err, domain.ErrEmptySplits),
		errors.Is(err, domain.ErrZeroTotalShare),
		errors.Is(err, domain.ErrNegativeShare),
		errors.Is(err, domain.ErrInvalidTxnType),
		errors.Is(err, domain.ErrEmptyName):
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

// parseTimeQuery parses an RFC 3339 or date-only query parameter. Returns
// nil when the parameter is absent and an error when it is present but
// malformed, so a bad bound is rejected instead of widening the range.
func parseTimeQuery(r *http.Request, key string) (*time.Time, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, val); err == nil {
		t = t.UTC()
		return &t, nil
	}

	if t, err := time.Parse("2006-01-02", val); err == nil {
		t = t.UTC()
		return &t, nil
	}

	return nil, fmt.Errorf("invalid %s: %q is not an RFC 3339 timestamp or YYYY-MM-DD date", key, val)
}

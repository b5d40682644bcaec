package access

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
)

// Error kinds surfaced by the access layer. Every authorization check is
// terminal; none of these are retried.
var (
	ErrUnauthenticated   = errors.New("authentication required")
	ErrForbidden         = errors.New("insufficient permissions")
	ErrSelfActionDenied  = errors.New("cannot perform this action on your own account")
	ErrNotFound          = errors.New("record not found")
	ErrValidationFailed  = errors.New("validation failed")
	ErrDuplicateInquiry  = errors.New("an active inquiry already exists for this property")
	ErrAlreadyBookmarked = errors.New("property already bookmarked")
	ErrInquiryClosed     = errors.New("inquiry is closed and cannot accept replies")
	ErrStoreUnavailable  = errors.New("storage unavailable")
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrInquiryClosed):
		return http.StatusForbidden
	case errors.Is(err, ErrSelfActionDenied), errors.Is(err, ErrValidationFailed):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicateInquiry), errors.Is(err, ErrAlreadyBookmarked):
		return http.StatusConflict
	case errors.Is(err, ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// WriteError maps an error kind onto an HTTP status and a JSON body. The
// wrapped message, if any, is what the client sees.
func WriteError(w http.ResponseWriter, err error) {
	log.Printf("request failed: %v", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusFor(err))
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

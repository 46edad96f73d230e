package chi

import (
	"errors"
	"net/http"

	"github.com/kailas-cloud/cardex/internal/domain"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		duplicateHandler,
		sentinelHandler(domain.ErrContactNotFound, http.StatusNotFound, ErrorCodeContactNotFound),
		sentinelHandler(domain.ErrEmptyContact, http.StatusUnprocessableEntity, ErrorCodeEmptyContact),
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, ErrorCodeValidationFailed),
		lockTimeoutHandler,
	}
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrDuplicateContact,
		domain.ErrContactNotFound,
		domain.ErrEmptyContact,
		domain.ErrInvalidInput,
		domain.ErrLockTimeout,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// duplicateHandler replies 409 with the key of the matched contact.
func duplicateHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrDuplicateContact) {
		return false
	}
	resp := ErrorResponse{Code: ErrorCodeDuplicateFound, Message: msg}
	var dup *domain.DuplicateError
	if errors.As(err, &dup) {
		resp.ExistingID = dup.ExistingID
	}
	writeJSON(w, http.StatusConflict, resp)
	return true
}

// lockTimeoutHandler asks the client to retry a save that raced another one.
func lockTimeoutHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrLockTimeout) {
		return false
	}
	w.Header().Set("Retry-After", "1")
	writeError(w, http.StatusServiceUnavailable, ErrorCodeLockTimeout, msg)
	return true
}

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"learnledger-backend/internal/domain"
	"learnledger-backend/internal/logger"
	"learnledger-backend/internal/security"
)

// apiResponse is the uniform JSON envelope for every endpoint.
type apiResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(apiResponse{Success: true, Data: data}); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
		// Internal details stay out of the response body.
		err = errors.New("internal server error")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiResponse{Success: false, Error: err.Error()})
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(apiResponse{Success: false, Error: msg})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrCourseNotFound),
		errors.Is(err, domain.ErrVideoNotFound),
		errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrTransactionNotFound),
		errors.Is(err, domain.ErrEnrollmentNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, security.ErrInvalidToken),
		errors.Is(err, security.ErrExpiredToken):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotAuthorized),
		errors.Is(err, domain.ErrNoCourseAccess):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrAlreadyEnrolled),
		errors.Is(err, domain.ErrEnrollmentInProgress),
		errors.Is(err, domain.ErrInvalidTransactionState),
		errors.Is(err, domain.ErrCourseLimitReached):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrInsufficientPlatformFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrBankAccountNotLinked):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

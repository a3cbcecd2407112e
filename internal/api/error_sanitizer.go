package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ignite/survey-tracker/internal/export"
	"github.com/ignite/survey-tracker/internal/pkg/httputil"
	"github.com/ignite/survey-tracker/internal/pkg/logger"
	"github.com/ignite/survey-tracker/internal/questionnaire"
	"github.com/ignite/survey-tracker/internal/service/dashboard"
	"github.com/ignite/survey-tracker/internal/service/followup"
	"github.com/ignite/survey-tracker/internal/service/reference"
	"github.com/ignite/survey-tracker/internal/service/respondent"
	"github.com/ignite/survey-tracker/internal/surveyimport"
)

// =============================================================================
// ERROR SANITIZER
// Internal errors (database details, file paths, bucket names) never reach
// API consumers. 5xx responses carry a generic safe message and the full
// error is logged server-side.
// =============================================================================

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, respondent.ErrNotFound),
		errors.Is(err, followup.ErrNotFound),
		errors.Is(err, followup.ErrRespondentNotFound),
		errors.Is(err, reference.ErrNotFound),
		errors.Is(err, questionnaire.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, reference.ErrDuplicate),
		errors.Is(err, surveyimport.ErrImportRunning),
		errors.Is(err, questionnaire.ErrFinished):
		return http.StatusConflict
	case errors.Is(err, respondent.ErrInvalid),
		errors.Is(err, followup.ErrInvalid),
		errors.Is(err, reference.ErrInvalid),
		errors.Is(err, questionnaire.ErrInvalidAnswer),
		errors.Is(err, questionnaire.ErrNotAnswered),
		errors.Is(err, questionnaire.ErrAtStart),
		errors.Is(err, dashboard.ErrUnknownView),
		errors.Is(err, export.ErrUnknownReport),
		errors.Is(err, surveyimport.ErrMissingColumns),
		errors.Is(err, surveyimport.ErrInvalidSource):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondServiceError writes err with the status statusFor picks. 4xx
// messages pass through; 5xx messages are sanitized.
func respondServiceError(w http.ResponseWriter, err error, publicMsg string) {
	code := statusFor(err)
	if code < http.StatusInternalServerError {
		httputil.Error(w, code, err.Error())
		return
	}
	var opErr *dashboard.OperationError
	if errors.As(err, &opErr) {
		publicMsg = opErr.Op + " failed"
	}
	respondSafeError(w, code, err, publicMsg+": "+safeErrorMessage(code, err))
}

// sanitizedError logs the full internal error and returns a public-safe message.
func sanitizedError(code int, internalErr error, publicMsg string) string {
	if internalErr != nil {
		logger.Error("request failed", "status", code, "message", publicMsg, "error", internalErr)
	}
	return publicMsg
}

// respondSafeError logs the internal error and sends a sanitized JSON error
// response to the client.
func respondSafeError(w http.ResponseWriter, code int, internalErr error, publicMsg string) {
	httputil.Error(w, code, sanitizedError(code, internalErr, publicMsg))
}

// safeErrorMessage maps common internal error patterns to public-safe messages.
// For 400-level errors, the original message is typically fine (user input issues).
// For 500-level errors, this returns a generic safe message.
func safeErrorMessage(code int, internalErr error) string {
	if code < 500 {
		if internalErr != nil {
			return internalErr.Error()
		}
		return "bad request"
	}

	if internalErr == nil {
		return "an internal error occurred"
	}

	errStr := strings.ToLower(internalErr.Error())

	switch {
	case strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "dial tcp"):
		return "service temporarily unavailable"

	case strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") ||
		strings.Contains(errStr, "context canceled"):
		return "request timed out"

	case strings.Contains(errStr, "sql") ||
		strings.Contains(errStr, "pq:") ||
		strings.Contains(errStr, "query") ||
		strings.Contains(errStr, "scan") ||
		strings.Contains(errStr, "transaction") ||
		strings.Contains(errStr, "database"):
		return "a database error occurred"

	case strings.Contains(errStr, "nosuchkey") ||
		strings.Contains(errStr, "nosuchbucket") ||
		strings.Contains(errStr, "s3"):
		return "import source unavailable"

	case strings.Contains(errStr, "permission") ||
		strings.Contains(errStr, "access denied"):
		return "access denied"

	default:
		return "an internal error occurred"
	}
}

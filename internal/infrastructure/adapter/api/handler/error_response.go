package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	errs "github.com/amirhossein-jamali/referral-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/referral-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/referral-ledger/internal/infrastructure/adapter/api/dto"
)

// StatusCode maps a domain error to its HTTP status
func StatusCode(err error) int {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrDuplicateReferral),
		errors.Is(err, errs.ErrDuplicateAccount),
		errors.Is(err, errs.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, errs.ErrSelfReferral),
		errors.Is(err, errs.ErrNoPayoutEmail),
		errors.Is(err, errs.ErrBelowMinimum),
		errors.Is(err, errs.ErrPayoutNotPending):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrInvalidEmail),
		errors.Is(err, errs.ErrInvalidAmount),
		errors.Is(err, errs.ErrInvalidAccountID),
		errors.Is(err, errs.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrReferralNotAttributed):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrTransientIO):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// NewErrorResponse builds the response body for a domain error.
// Internal failures never leak their message.
func NewErrorResponse(err error) dto.ErrorResponse {
	code := errs.ErrorCode(err)
	message := err.Error()
	if code == errs.CodeInternalServer {
		message = "Internal server error"
	}
	return dto.ErrorResponse{
		Code:      code,
		Message:   message,
		Retryable: errs.IsRetryable(err),
	}
}

// respondError writes the mapped status and body, logging server-side failures
func respondError(c *gin.Context, logger coreport.Logger, operation string, err error) {
	status := StatusCode(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", map[string]any{
			"operation":  operation,
			"path":       c.FullPath(),
			"error":      err.Error(),
			"error_code": errs.ErrorCode(err),
		})
	}
	_ = c.Error(err)
	c.JSON(status, NewErrorResponse(err))
}

// respondInvalidRequest writes a 400 for a malformed body
func respondInvalidRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Code:    errs.CodeInvalidRequest,
		Message: message,
	})
}

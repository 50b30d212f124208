package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/veritoken/custody-indexer/internal/domain"
	"github.com/veritoken/custody-indexer/internal/logger"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Client errors (4xx)
	errCodeBadRequest       ErrorCode = "bad_request"
	errCodeValidationFailed ErrorCode = "validation_failed"
	errCodeForbidden        ErrorCode = "forbidden"

	// Server errors (5xx)
	errCodeInternalError     ErrorCode = "internal_error"
	errCodeDatabaseError     ErrorCode = "database_error"
	errCodeLedgerError       ErrorCode = "ledger_error"
	errCodeLedgerUnavailable ErrorCode = "ledger_unavailable"
)

// errorResponse represents a standardized error response
type errorResponse struct {
	Error errorDetail `json:"error"`
}

// errorDetail contains error information
type errorDetail struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

// respondWithError sends a standardized error response
func respondWithError(c *gin.Context, statusCode int, code ErrorCode, message string, details ...string) {
	response := errorResponse{
		Error: errorDetail{
			Code:    code,
			Message: message,
		},
	}
	if len(details) > 0 {
		response.Error.Details = details[0]
	}

	c.JSON(statusCode, response)
}

// respondBadRequest sends a 400 Bad Request response
func respondBadRequest(c *gin.Context, message string, details ...string) {
	respondWithError(c, http.StatusBadRequest, errCodeBadRequest, message, details...)
}

// respondValidationError sends a 400 Bad Request with validation error
func respondValidationError(c *gin.Context, details string) {
	respondWithError(c, http.StatusBadRequest, errCodeValidationFailed, "Validation failed", details)
}

// respondDenied sends a 403 Forbidden response carrying the unmet
// precondition so callers know which rule blocked them
func respondDenied(c *gin.Context, reason domain.DenialReason) {
	respondWithError(c, http.StatusForbidden, errCodeForbidden, "Not authorized", string(reason))
}

// respondServiceError maps a service error onto the wire taxonomy:
// input errors to 400, oracle failures to 503 (retryable for the caller),
// ledger rejections to 502, storage failures to 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidAddress),
		errors.Is(err, domain.ErrInvalidTokenInfo):
		respondBadRequest(c, "Invalid request", err.Error())
	case errors.Is(err, domain.ErrWalletUnlock):
		respondWithError(c, http.StatusForbidden, errCodeForbidden, "Wallet unlock rejected")
	case errors.Is(err, domain.ErrOracleUnavailable),
		errors.Is(err, domain.ErrOracleTimeout):
		logger.Error(err, zap.String("path", c.Request.URL.Path))
		respondWithError(c, http.StatusServiceUnavailable, errCodeLedgerUnavailable, "Ledger unavailable")
	case errors.Is(err, domain.ErrLedgerRejected):
		logger.Error(err, zap.String("path", c.Request.URL.Path))
		respondWithError(c, http.StatusBadGateway, errCodeLedgerError, "Ledger rejected transaction")
	case errors.Is(err, domain.ErrStorage):
		logger.Error(err, zap.String("path", c.Request.URL.Path))
		respondWithError(c, http.StatusInternalServerError, errCodeDatabaseError, "Storage failure")
	default:
		logger.Error(err, zap.String("path", c.Request.URL.Path))
		respondWithError(c, http.StatusInternalServerError, errCodeInternalError, "Internal server error")
	}
}

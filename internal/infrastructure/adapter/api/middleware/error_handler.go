package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	errs "github.com/zazzles-app/credit-ledger/internal/domain/error"
	coreport "github.com/zazzles-app/credit-ledger/internal/domain/port/core"
	"github.com/zazzles-app/credit-ledger/internal/infrastructure/adapter/api/dto"
)

// ErrorHandler middleware recovers from panics and returns appropriate error responses
func ErrorHandler(logger coreport.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("Panic recovered in API request", map[string]any{
					"error":      err,
					"path":       c.Request.URL.Path,
					"method":     c.Request.Method,
					"client_ip":  c.ClientIP(),
					"request_id": coreport.RequestIDFrom(c.Request.Context()),
					"user_agent": c.Request.UserAgent(),
				})

				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
					Code:    errs.ErrorCode(errs.ErrInternalServer),
					Message: "Internal server error",
				})
			}
		}()

		c.Next()
	}
}

// ErrorResponder writes the last error a handler attached with c.Error
// when the handler did not write a response itself
func ErrorResponder(logger coreport.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := StatusCode(err)

		fields := map[string]any{
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"status":     status,
			"error":      err.Error(),
			"request_id": coreport.RequestIDFrom(c.Request.Context()),
		}
		var detailed interface{ LogFields() map[string]any }
		if errors.As(err, &detailed) {
			for k, v := range detailed.LogFields() {
				fields[k] = v
			}
		}
		if status >= http.StatusInternalServerError {
			logger.Error("Request failed", fields)
		} else {
			logger.Warn("Request rejected", fields)
		}

		c.AbortWithStatusJSON(status, NewErrorResponse(err))
	}
}

// StatusCode maps a domain error to its HTTP status
func StatusCode(err error) int {
	switch {
	case errs.IsInsufficientCreditsError(err), errs.IsPaymentError(err):
		return http.StatusPaymentRequired
	case errs.IsBusinessNotFoundError(err):
		return http.StatusNotFound
	case errs.IsValidationError(err), errors.Is(err, errs.ErrInvalidPack):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrConfiguration):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrDuplicateTransaction),
		errors.Is(err, errs.ErrDuplicateBusiness),
		errors.Is(err, errs.ErrTopUpInProgress):
		return http.StatusConflict
	case errs.IsStoreUnavailableError(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// NewErrorResponse builds the response body for err. Server-side failures
// get a generic message so driver details never reach clients
func NewErrorResponse(err error) dto.ErrorResponse {
	resp := dto.ErrorResponse{Code: errs.ErrorCode(err)}

	switch status := StatusCode(err); {
	case status == http.StatusServiceUnavailable:
		resp.Message = "Credit store temporarily unavailable, please retry"
	case status >= http.StatusInternalServerError:
		resp.Message = "Internal server error"
	default:
		resp.Message = err.Error()
	}

	var insufficient *errs.InsufficientCreditsError
	if errors.As(err, &insufficient) {
		resp.Message = "Insufficient credits"
		resp.Details = map[string]any{
			"required":         insufficient.Requested,
			"creditsRemaining": insufficient.Available,
		}
	}

	var configuration *errs.ConfigurationError
	if errors.As(err, &configuration) {
		resp.Details = map[string]any{"missing": configuration.Missing}
	}

	return resp
}

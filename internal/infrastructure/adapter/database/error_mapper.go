package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	errs "github.com/zazzles-app/credit-ledger/internal/domain/error"
)

// ErrorMapper maps database errors raised outside the repositories
// (begin, commit, ping) to domain errors
type ErrorMapper struct{}

// NewErrorMapper creates a new ErrorMapper
func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{}
}

// MapError maps a database error to a domain error. Errors that are already
// domain errors pass through unchanged; the driver message is kept in the
// wrapped error so the retry loop can still recognize serialization failures
func (m *ErrorMapper) MapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	if isDomainError(err) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.ErrBusinessNotFound
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %s", errs.ErrStoreUnavailable, operation, err.Error())
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %s", errs.ErrDuplicateTransaction, pgErr.Message)
	}

	errMsg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errMsg, "deadlock") ||
		strings.Contains(errMsg, "could not serialize") ||
		strings.Contains(errMsg, "serialization") ||
		strings.Contains(errMsg, "connection") ||
		strings.Contains(errMsg, "timeout") ||
		strings.Contains(errMsg, "deadline exceeded") ||
		strings.Contains(errMsg, "broken pipe") ||
		strings.Contains(errMsg, "eof"):
		return fmt.Errorf("%w: %s: %s", errs.ErrStoreUnavailable, operation, err.Error())

	default:
		return fmt.Errorf("%w: %s: %s", errs.ErrInternalServer, operation, err.Error())
	}
}

var domainErrors = []error{
	errs.ErrInsufficientCredits,
	errs.ErrBusinessNotFound,
	errs.ErrDuplicateBusiness,
	errs.ErrDuplicateTransaction,
	errs.ErrStoreUnavailable,
	errs.ErrTopUpInProgress,
	errs.ErrConfiguration,
	errs.ErrInvalidPack,
	errs.ErrPaymentDeclined,
	errs.ErrPaymentFailed,
	errs.ErrInvalidAmount,
	errs.ErrInvalidBusinessID,
	errs.ErrInvalidRequest,
	errs.ErrInternalServer,
}

func isDomainError(err error) bool {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

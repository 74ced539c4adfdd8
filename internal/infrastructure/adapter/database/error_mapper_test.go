package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	errs "github.com/zazzles-app/credit-ledger/internal/domain/error"
)

func TestErrorMapperMapError(t *testing.T) {
	mapper := NewErrorMapper()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"record not found", gorm.ErrRecordNotFound, errs.ErrBusinessNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505", Message: "duplicate key"}, errs.ErrDuplicateTransaction},
		{"serialization failure", errors.New("could not serialize access"), errs.ErrStoreUnavailable},
		{"connection lost", errors.New("write: connection reset by peer"), errs.ErrStoreUnavailable},
		{"deadline", errors.New("context deadline exceeded"), errs.ErrStoreUnavailable},
		{"unknown", errors.New("syntax error at or near"), errs.ErrInternalServer},
		{"domain error kept", fmt.Errorf("deduct: %w", errs.ErrInsufficientCredits), errs.ErrInsufficientCredits},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapper.MapError(tt.err, "test"), tt.want)
		})
	}

	assert.NoError(t, mapper.MapError(nil, "test"))
}

func TestErrorMapperKeepsDriverMessage(t *testing.T) {
	err := NewErrorMapper().MapError(errors.New("ERROR: could not serialize access (SQLSTATE 40001)"), "commit transaction")

	assert.Contains(t, err.Error(), "commit transaction")
	assert.True(t, isTransientError(err), "mapped error must stay retryable")
}

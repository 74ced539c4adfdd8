package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/zazzles-app/credit-ledger/internal/domain/entity"
)

// MockCreditTransactionRepository is a testify mock of persistence.CreditTransactionRepository
type MockCreditTransactionRepository struct {
	mock.Mock
}

// NewMockCreditTransactionRepository creates a MockCreditTransactionRepository whose expectations are asserted on cleanup
func NewMockCreditTransactionRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCreditTransactionRepository {
	m := &MockCreditTransactionRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockCreditTransactionRepository) Create(ctx context.Context, tx *entity.CreditTransaction) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockCreditTransactionRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID, limit, offset int) ([]*entity.CreditTransaction, error) {
	ret := m.Called(ctx, businessID, limit, offset)
	var r0 []*entity.CreditTransaction
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*entity.CreditTransaction)
	}
	return r0, ret.Error(1)
}

func (m *MockCreditTransactionRepository) GetByIdempotencyKey(ctx context.Context, businessID uuid.UUID, key string) (*entity.CreditTransaction, error) {
	ret := m.Called(ctx, businessID, key)
	var r0 *entity.CreditTransaction
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.CreditTransaction)
	}
	return r0, ret.Error(1)
}

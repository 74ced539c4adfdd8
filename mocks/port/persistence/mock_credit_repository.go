package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/zazzles-app/credit-ledger/internal/domain/entity"
)

// MockCreditRepository is a testify mock of persistence.CreditRepository
type MockCreditRepository struct {
	mock.Mock
}

// NewMockCreditRepository creates a MockCreditRepository whose expectations are asserted on cleanup
func NewMockCreditRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCreditRepository {
	m := &MockCreditRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func balanceResult(ret mock.Arguments) (*entity.CreditBalance, error) {
	var r0 *entity.CreditBalance
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.CreditBalance)
	}
	return r0, ret.Error(1)
}

func (m *MockCreditRepository) GetBalance(ctx context.Context, businessID uuid.UUID) (*entity.CreditBalance, error) {
	return balanceResult(m.Called(ctx, businessID))
}

func (m *MockCreditRepository) CreateBalance(ctx context.Context, balance *entity.CreditBalance) error {
	return m.Called(ctx, balance).Error(0)
}

func (m *MockCreditRepository) Deduct(ctx context.Context, businessID uuid.UUID, amount int) (*entity.CreditBalance, error) {
	return balanceResult(m.Called(ctx, businessID, amount))
}

func (m *MockCreditRepository) AddPurchased(ctx context.Context, businessID uuid.UUID, amount int) (*entity.CreditBalance, error) {
	return balanceResult(m.Called(ctx, businessID, amount))
}

func (m *MockCreditRepository) AddBonus(ctx context.Context, businessID uuid.UUID, amount int) (*entity.CreditBalance, error) {
	return balanceResult(m.Called(ctx, businessID, amount))
}

package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/zazzles-app/credit-ledger/internal/domain/entity"
	portuse "github.com/zazzles-app/credit-ledger/internal/domain/port/usecase"
)

// MockCreditUseCase is a testify mock of usecase.CreditUseCase
type MockCreditUseCase struct {
	mock.Mock
}

// NewMockCreditUseCase creates a MockCreditUseCase whose expectations are asserted on cleanup
func NewMockCreditUseCase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCreditUseCase {
	m := &MockCreditUseCase{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockCreditUseCase) Deduct(ctx context.Context, req portuse.DeductRequest) (*portuse.DeductResult, error) {
	ret := m.Called(ctx, req)
	var r0 *portuse.DeductResult
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*portuse.DeductResult)
	}
	return r0, ret.Error(1)
}

func (m *MockCreditUseCase) CheckCredits(ctx context.Context, businessID uuid.UUID, amount int) (*entity.CreditBalance, error) {
	ret := m.Called(ctx, businessID, amount)
	var r0 *entity.CreditBalance
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.CreditBalance)
	}
	return r0, ret.Error(1)
}

func (m *MockCreditUseCase) GetBalance(ctx context.Context, businessID uuid.UUID) (*entity.CreditBalance, error) {
	ret := m.Called(ctx, businessID)
	var r0 *entity.CreditBalance
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.CreditBalance)
	}
	return r0, ret.Error(1)
}

func (m *MockCreditUseCase) ListTransactions(ctx context.Context, businessID uuid.UUID, limit, offset int) ([]*entity.CreditTransaction, error) {
	ret := m.Called(ctx, businessID, limit, offset)
	var r0 []*entity.CreditTransaction
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*entity.CreditTransaction)
	}
	return r0, ret.Error(1)
}

func (m *MockCreditUseCase) GrantCredits(ctx context.Context, req portuse.GrantRequest) (*entity.CreditTransaction, error) {
	ret := m.Called(ctx, req)
	var r0 *entity.CreditTransaction
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.CreditTransaction)
	}
	return r0, ret.Error(1)
}

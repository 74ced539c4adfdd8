package persistence

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/zazzles-app/credit-ledger/internal/domain/port/persistence"
)

// MockUnitOfWork is a testify mock of persistence.UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

// NewMockUnitOfWork creates a MockUnitOfWork whose expectations are asserted on cleanup
func NewMockUnitOfWork(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUnitOfWork {
	m := &MockUnitOfWork{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// RunTransactions makes WithinTransaction invoke its callback with the caller's context
func (m *MockUnitOfWork) RunTransactions() *mock.Call {
	return m.On("WithinTransaction", mock.Anything, mock.Anything).
		Return(func(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) })
}

func (m *MockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	ret := m.Called(ctx)
	var r0 context.Context
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(context.Context)
	}
	return r0, ret.Error(1)
}

func (m *MockUnitOfWork) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUnitOfWork) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUnitOfWork) WithinTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	ret := m.Called(ctx, fn)
	if rf, ok := ret.Get(0).(func(context.Context, func(context.Context) error) error); ok {
		return rf(ctx, fn)
	}
	return ret.Error(0)
}

func (m *MockUnitOfWork) GetBusinessRepository(ctx context.Context) persistence.BusinessRepository {
	ret := m.Called(ctx)
	if ret.Get(0) == nil {
		return nil
	}
	return ret.Get(0).(persistence.BusinessRepository)
}

func (m *MockUnitOfWork) GetCreditRepository(ctx context.Context) persistence.CreditRepository {
	ret := m.Called(ctx)
	if ret.Get(0) == nil {
		return nil
	}
	return ret.Get(0).(persistence.CreditRepository)
}

func (m *MockUnitOfWork) GetCreditTransactionRepository(ctx context.Context) persistence.CreditTransactionRepository {
	ret := m.Called(ctx)
	if ret.Get(0) == nil {
		return nil
	}
	return ret.Get(0).(persistence.CreditTransactionRepository)
}

func (m *MockUnitOfWork) GetAutoTopUpLogRepository(ctx context.Context) persistence.AutoTopUpLogRepository {
	ret := m.Called(ctx)
	if ret.Get(0) == nil {
		return nil
	}
	return ret.Get(0).(persistence.AutoTopUpLogRepository)
}

package core

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	coreport "github.com/zazzles-app/credit-ledger/internal/domain/port/core"
)

// MockTimeProvider is a testify mock of core.TimeProvider
type MockTimeProvider struct {
	mock.Mock
}

// NewMockTimeProvider creates a MockTimeProvider whose expectations are asserted on cleanup
func NewMockTimeProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTimeProvider {
	m := &MockTimeProvider{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// FixedNow makes Now return at for any number of calls
func (m *MockTimeProvider) FixedNow(at time.Time) *MockTimeProvider {
	m.On("Now").Return(at).Maybe()
	return m
}

// RealTimeouts makes WithTimeout derive a real deadline context
func (m *MockTimeProvider) RealTimeouts() *MockTimeProvider {
	m.On("WithTimeout", mock.Anything, mock.Anything).
		Return(func(ctx context.Context, d coreport.Duration) (context.Context, context.CancelFunc) {
			return context.WithTimeout(ctx, d.Std())
		}).Maybe()
	return m
}

func (m *MockTimeProvider) Now() time.Time {
	ret := m.Called()
	return ret.Get(0).(time.Time)
}

func (m *MockTimeProvider) Sleep(d coreport.Duration) {
	m.Called(d)
}

func (m *MockTimeProvider) WithTimeout(ctx context.Context, timeout coreport.Duration) (context.Context, context.CancelFunc) {
	ret := m.Called(ctx, timeout)
	if rf, ok := ret.Get(0).(func(context.Context, coreport.Duration) (context.Context, context.CancelFunc)); ok {
		return rf(ctx, timeout)
	}
	return ret.Get(0).(context.Context), ret.Get(1).(context.CancelFunc)
}

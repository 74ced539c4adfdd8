package payment

import (
	"context"

	"github.com/stretchr/testify/mock"

	portpayment "github.com/zazzles-app/credit-ledger/internal/domain/port/payment"
)

// MockGateway is a testify mock of payment.Gateway
type MockGateway struct {
	mock.Mock
}

// NewMockGateway creates a MockGateway whose expectations are asserted on cleanup
func NewMockGateway(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockGateway {
	m := &MockGateway{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockGateway) ChargeOffSession(ctx context.Context, req portpayment.ChargeRequest) (*portpayment.ChargeResult, error) {
	ret := m.Called(ctx, req)
	var r0 *portpayment.ChargeResult
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*portpayment.ChargeResult)
	}
	return r0, ret.Error(1)
}

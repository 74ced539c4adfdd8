package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/zazzles-app/credit-ledger/internal/domain/entity"
	portuse "github.com/zazzles-app/credit-ledger/internal/domain/port/usecase"
)

// MockBusinessUseCase is a testify mock of usecase.BusinessUseCase
type MockBusinessUseCase struct {
	mock.Mock
}

// NewMockBusinessUseCase creates a MockBusinessUseCase whose expectations are asserted on cleanup
func NewMockBusinessUseCase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockBusinessUseCase {
	m := &MockBusinessUseCase{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockBusinessUseCase) CreateBusiness(ctx context.Context, name string) (*portuse.BusinessAccount, error) {
	ret := m.Called(ctx, name)
	var r0 *portuse.BusinessAccount
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*portuse.BusinessAccount)
	}
	return r0, ret.Error(1)
}

func (m *MockBusinessUseCase) GetBusiness(ctx context.Context, id uuid.UUID) (*portuse.BusinessAccount, error) {
	ret := m.Called(ctx, id)
	var r0 *portuse.BusinessAccount
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*portuse.BusinessAccount)
	}
	return r0, ret.Error(1)
}

func (m *MockBusinessUseCase) UpdateAutoTopUp(ctx context.Context, id uuid.UUID, update portuse.AutoTopUpUpdate) (*entity.Business, error) {
	ret := m.Called(ctx, id, update)
	var r0 *entity.Business
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.Business)
	}
	return r0, ret.Error(1)
}

func (m *MockBusinessUseCase) AttachPaymentMethod(ctx context.Context, id uuid.UUID, customerID, paymentMethodID string) (*entity.Business, error) {
	ret := m.Called(ctx, id, customerID, paymentMethodID)
	var r0 *entity.Business
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.Business)
	}
	return r0, ret.Error(1)
}

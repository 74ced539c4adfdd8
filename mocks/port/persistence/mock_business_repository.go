package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/zazzles-app/credit-ledger/internal/domain/entity"
)

// MockBusinessRepository is a testify mock of persistence.BusinessRepository
type MockBusinessRepository struct {
	mock.Mock
}

// NewMockBusinessRepository creates a MockBusinessRepository whose expectations are asserted on cleanup
func NewMockBusinessRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockBusinessRepository {
	m := &MockBusinessRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockBusinessRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Business, error) {
	ret := m.Called(ctx, id)
	var r0 *entity.Business
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.Business)
	}
	return r0, ret.Error(1)
}

func (m *MockBusinessRepository) Create(ctx context.Context, business *entity.Business) error {
	return m.Called(ctx, business).Error(0)
}

func (m *MockBusinessRepository) UpdateAutoTopUpSettings(ctx context.Context, business *entity.Business) error {
	return m.Called(ctx, business).Error(0)
}

func (m *MockBusinessRepository) AttachPaymentMethod(ctx context.Context, business *entity.Business) error {
	return m.Called(ctx, business).Error(0)
}

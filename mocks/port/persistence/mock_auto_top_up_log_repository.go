package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/zazzles-app/credit-ledger/internal/domain/entity"
)

// MockAutoTopUpLogRepository is a testify mock of persistence.AutoTopUpLogRepository
type MockAutoTopUpLogRepository struct {
	mock.Mock
}

// NewMockAutoTopUpLogRepository creates a MockAutoTopUpLogRepository whose expectations are asserted on cleanup
func NewMockAutoTopUpLogRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockAutoTopUpLogRepository {
	m := &MockAutoTopUpLogRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockAutoTopUpLogRepository) Create(ctx context.Context, log *entity.AutoTopUpLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *MockAutoTopUpLogRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID, limit, offset int) ([]*entity.AutoTopUpLog, error) {
	ret := m.Called(ctx, businessID, limit, offset)
	var r0 []*entity.AutoTopUpLog
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*entity.AutoTopUpLog)
	}
	return r0, ret.Error(1)
}

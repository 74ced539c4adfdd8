package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockTopUpLockRepository is a testify mock of persistence.TopUpLockRepository
type MockTopUpLockRepository struct {
	mock.Mock
}

// NewMockTopUpLockRepository creates a MockTopUpLockRepository whose expectations are asserted on cleanup
func NewMockTopUpLockRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTopUpLockRepository {
	m := &MockTopUpLockRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTopUpLockRepository) AcquireLock(ctx context.Context, businessID uuid.UUID, ttl time.Duration) error {
	return m.Called(ctx, businessID, ttl).Error(0)
}

func (m *MockTopUpLockRepository) ReleaseLock(ctx context.Context, businessID uuid.UUID) error {
	return m.Called(ctx, businessID).Error(0)
}

func (m *MockTopUpLockRepository) CleanupExpiredLocks(ctx context.Context) (int64, error) {
	ret := m.Called(ctx)
	return ret.Get(0).(int64), ret.Error(1)
}

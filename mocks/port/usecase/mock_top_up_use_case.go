package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/zazzles-app/credit-ledger/internal/domain/entity"
	portuse "github.com/zazzles-app/credit-ledger/internal/domain/port/usecase"
)

// MockTopUpUseCase is a testify mock of usecase.TopUpUseCase
type MockTopUpUseCase struct {
	mock.Mock
}

// NewMockTopUpUseCase creates a MockTopUpUseCase whose expectations are asserted on cleanup
func NewMockTopUpUseCase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTopUpUseCase {
	m := &MockTopUpUseCase{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTopUpUseCase) Evaluate(ctx context.Context, businessID uuid.UUID) (*portuse.TopUpResult, error) {
	ret := m.Called(ctx, businessID)
	var r0 *portuse.TopUpResult
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*portuse.TopUpResult)
	}
	return r0, ret.Error(1)
}

func (m *MockTopUpUseCase) ListLogs(ctx context.Context, businessID uuid.UUID, limit, offset int) ([]*entity.AutoTopUpLog, error) {
	ret := m.Called(ctx, businessID, limit, offset)
	var r0 []*entity.AutoTopUpLog
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*entity.AutoTopUpLog)
	}
	return r0, ret.Error(1)
}

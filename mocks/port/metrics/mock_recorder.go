package metrics

import (
	"github.com/stretchr/testify/mock"
)

// MockRecorder is a testify mock of metrics.Recorder
type MockRecorder struct {
	mock.Mock
}

// NewMockRecorder creates a MockRecorder whose expectations are asserted on cleanup
func NewMockRecorder(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRecorder {
	m := &MockRecorder{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// AllowAll accepts any counter update
func (m *MockRecorder) AllowAll() *MockRecorder {
	m.On("CreditsDeducted", mock.Anything).Maybe()
	m.On("InsufficientCredits").Maybe()
	m.On("TopUpAttempt", mock.Anything).Maybe()
	m.On("CreditsPurchased", mock.Anything).Maybe()
	return m
}

func (m *MockRecorder) CreditsDeducted(amount int) {
	m.Called(amount)
}

func (m *MockRecorder) InsufficientCredits() {
	m.Called()
}

func (m *MockRecorder) TopUpAttempt(outcome string) {
	m.Called(outcome)
}

func (m *MockRecorder) CreditsPurchased(amount int) {
	m.Called(amount)
}

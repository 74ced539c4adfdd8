package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/zazzles-app/credit-ledger/internal/domain/entity"
	errs "github.com/zazzles-app/credit-ledger/internal/domain/error"
	portuse "github.com/zazzles-app/credit-ledger/internal/domain/port/usecase"
	coremocks "github.com/zazzles-app/credit-ledger/mocks/port/core"
	usemocks "github.com/zazzles-app/credit-ledger/mocks/port/usecase"
)

func setupTopUpRouter(t *testing.T) (*usemocks.MockTopUpUseCase, http.Handler) {
	topUp := usemocks.NewMockTopUpUseCase(t)
	h := NewTopUpHandler(topUp, coremocks.NewMockLogger(t).AllowAll())

	router := newTestRouter(t)
	router.GET("/businesses/:businessId/auto-top-up/logs", h.ListLogs)
	router.POST("/businesses/:businessId/auto-top-up/evaluate", h.Evaluate)
	return topUp, router
}

func TestTopUpHandler_Evaluate(t *testing.T) {
	topUp, router := setupTopUpRouter(t)
	topUp.On("Evaluate", mock.Anything, testBusinessID).Return(&portuse.TopUpResult{
		Outcome:       portuse.TopUpAboveThreshold,
		BalanceBefore: 12,
		BalanceAfter:  12,
	}, nil)

	w := performRequest(router, http.MethodPost, fmt.Sprintf("/businesses/%s/auto-top-up/evaluate", testBusinessID), nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "above_threshold", decode(t, w)["outcome"])
}

func TestTopUpHandler_EvaluateDeclined(t *testing.T) {
	topUp, router := setupTopUpRouter(t)
	declined := errs.NewPaymentError(testBusinessID.String(), "pack_9", "declined", "pi_9", "insufficient_funds", errs.ErrPaymentDeclined)
	topUp.On("Evaluate", mock.Anything, testBusinessID).Return(&portuse.TopUpResult{Outcome: portuse.TopUpFailed}, declined)

	w := performRequest(router, http.MethodPost, fmt.Sprintf("/businesses/%s/auto-top-up/evaluate", testBusinessID), nil, nil)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Equal(t, float64(errs.CodePaymentDeclined), decode(t, w)["code"])
}

func TestTopUpHandler_ListLogs(t *testing.T) {
	topUp, router := setupTopUpRouter(t)
	topUp.On("ListLogs", mock.Anything, testBusinessID, 0, 0).Return([]*entity.AutoTopUpLog{
		{
			ID:                 uuid.New(),
			BusinessID:         testBusinessID,
			PackID:             "pack_9",
			CreditsAdded:       9,
			AmountChargedCents: 1000,
			PaymentReference:   "pi_1",
			Status:             entity.TopUpSucceeded,
			BalanceBefore:      4,
			BalanceAfter:       13,
			CreatedAt:          testNow,
		},
	}, nil)

	w := performRequest(router, http.MethodGet, fmt.Sprintf("/businesses/%s/auto-top-up/logs", testBusinessID), nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	logs := decode(t, w)["logs"].([]any)
	assert.Len(t, logs, 1)
	entry := logs[0].(map[string]any)
	assert.Equal(t, "succeeded", entry["status"])
	assert.Equal(t, float64(1000), entry["amountChargedCents"])
}

type stubHealth struct{ err error }

func (s stubHealth) HealthCheck(context.Context) error { return s.err }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "database up", status: http.StatusOK},
		{name: "database down", err: errors.New("dial tcp: connection refused"), status: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t)
			router.GET("/healthz", NewHealthHandler(stubHealth{err: tt.err}, coremocks.NewMockLogger(t).AllowAll()).Health)

			w := performRequest(router, http.MethodGet, "/healthz", nil, nil)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

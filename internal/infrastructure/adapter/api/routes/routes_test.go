package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/zazzles-app/credit-ledger/internal/domain/entity"
	"github.com/zazzles-app/credit-ledger/internal/infrastructure/adapter/api/handler"
	"github.com/zazzles-app/credit-ledger/internal/infrastructure/adapter/metrics"
	coremocks "github.com/zazzles-app/credit-ledger/mocks/port/core"
	usemocks "github.com/zazzles-app/credit-ledger/mocks/port/usecase"
)

type healthy struct{}

func (healthy) HealthCheck(context.Context) error { return nil }

func newRouter(t *testing.T, recorder *metrics.PrometheusRecorder) (*gin.Engine, *usemocks.MockCreditUseCase) {
	gin.SetMode(gin.TestMode)
	logger := coremocks.NewMockLogger(t).AllowAll()
	credits := usemocks.NewMockCreditUseCase(t)

	router := gin.New()
	SetupMiddlewares(router, logger, recorder)
	SetupRoutes(router, Handlers{
		Business: handler.NewBusinessHandler(usemocks.NewMockBusinessUseCase(t), logger),
		Credit:   handler.NewCreditHandler(credits, logger),
		TopUp:    handler.NewTopUpHandler(usemocks.NewMockTopUpUseCase(t), logger),
		Health:   handler.NewHealthHandler(healthy{}, logger),
	}, "/metrics", recorder.Handler())
	return router, credits
}

func TestSetupRoutesRegistersLedgerEndpoints(t *testing.T) {
	router, _ := newRouter(t, metrics.NewPrometheusRecorder())

	registered := make(map[string]bool)
	for _, r := range router.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	for _, route := range []string{
		"POST /businesses",
		"GET /businesses/:businessId",
		"PUT /businesses/:businessId/auto-top-up",
		"PUT /businesses/:businessId/payment-method",
		"GET /businesses/:businessId/credits",
		"GET /businesses/:businessId/credits/transactions",
		"POST /businesses/:businessId/credits/check",
		"POST /businesses/:businessId/credits/deduct",
		"POST /businesses/:businessId/credits/grant",
		"GET /businesses/:businessId/auto-top-up/logs",
		"POST /businesses/:businessId/auto-top-up/evaluate",
		"GET /healthz",
		"GET /metrics",
	} {
		assert.True(t, registered[route], route)
	}
}

func TestRequestsAreCountedAndExposed(t *testing.T) {
	recorder := metrics.NewPrometheusRecorder()
	router, credits := newRouter(t, recorder)
	businessID := "5b0d7a52-4d3c-4c55-9b8e-2f2c1f6f9a10"
	credits.On("GetBalance", mock.Anything, mock.Anything).Return(&entity.CreditBalance{CreditsRemaining: 5}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/businesses/"+businessID+"/credits", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `route="/businesses/:businessId/credits"`)
}

package handler

import (
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

func setupCreditRouter(t *testing.T) (*usemocks.MockCreditUseCase, http.Handler) {
	credits := usemocks.NewMockCreditUseCase(t)
	h := NewCreditHandler(credits, coremocks.NewMockLogger(t).AllowAll())

	router := newTestRouter(t)
	group := router.Group("/businesses/:businessId/credits")
	group.GET("", h.GetBalance)
	group.GET("/transactions", h.ListTransactions)
	group.POST("/check", h.CheckCredits)
	group.POST("/deduct", h.Deduct)
	group.POST("/grant", h.GrantCredits)
	return credits, router
}

func creditsPath(suffix string) string {
	return fmt.Sprintf("/businesses/%s/credits%s", testBusinessID, suffix)
}

func usageTransaction(amount, balanceAfter int) *entity.CreditTransaction {
	return &entity.CreditTransaction{
		ID:           uuid.MustParse("0f6b8a3e-1c2d-4e5f-8a9b-0c1d2e3f4a5b"),
		BusinessID:   testBusinessID,
		Amount:       -amount,
		Type:         entity.TransactionUsage,
		Description:  "Headshot retouch",
		BalanceAfter: balanceAfter,
		CreatedAt:    testNow,
	}
}

func TestCreditHandler_GetBalance(t *testing.T) {
	credits, router := setupCreditRouter(t)
	credits.On("GetBalance", mock.Anything, testBusinessID).Return(&entity.CreditBalance{
		BusinessID:       testBusinessID,
		CreditsRemaining: 12,
		CreditsUsed:      18,
		UpdatedAt:        testNow,
	}, nil)

	w := performRequest(router, http.MethodGet, creditsPath(""), nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(12), body["creditsRemaining"])
	assert.Equal(t, float64(18), body["creditsUsed"])
	assert.Equal(t, testBusinessID.String(), body["businessId"])
}

func TestCreditHandler_GetBalanceInvalidBusinessID(t *testing.T) {
	_, router := setupCreditRouter(t)

	w := performRequest(router, http.MethodGet, "/businesses/not-a-uuid/credits", nil, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, float64(errs.CodeInvalidBusinessID), decode(t, w)["code"])
}

func TestCreditHandler_GetBalanceNotFound(t *testing.T) {
	credits, router := setupCreditRouter(t)
	credits.On("GetBalance", mock.Anything, testBusinessID).Return(nil, errs.ErrBusinessNotFound)

	w := performRequest(router, http.MethodGet, creditsPath(""), nil, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreditHandler_Deduct(t *testing.T) {
	credits, router := setupCreditRouter(t)
	credits.On("Deduct", mock.Anything, portuse.DeductRequest{
		BusinessID:     testBusinessID,
		Amount:         2,
		Description:    "Headshot retouch",
		RelatedImageID: "img_42",
		IdempotencyKey: "retouch-img_42",
	}).Return(&portuse.DeductResult{
		Transaction:      usageTransaction(2, 4),
		CreditsRemaining: 4,
		TopUp: &portuse.TopUpResult{
			Outcome:       portuse.TopUpCredited,
			PackID:        "pack_9",
			CreditsAdded:  9,
			BalanceBefore: 4,
			BalanceAfter:  13,
			ChargeID:      "pi_1",
		},
	}, nil)

	w := performRequest(router, http.MethodPost, creditsPath("/deduct"), map[string]any{
		"amount":         2,
		"description":    "Headshot retouch",
		"relatedImageId": "img_42",
	}, map[string]string{IdempotencyKeyHeader: "retouch-img_42"})

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(4), body["creditsRemaining"])
	assert.Equal(t, false, body["replayed"])

	tx := body["transaction"].(map[string]any)
	assert.Equal(t, float64(-2), tx["amount"])
	assert.Equal(t, "usage", tx["type"])

	topUp := body["autoTopUp"].(map[string]any)
	assert.Equal(t, "credited", topUp["outcome"])
	assert.Equal(t, float64(13), topUp["balanceAfter"])
}

func TestCreditHandler_DeductInsufficientCredits(t *testing.T) {
	credits, router := setupCreditRouter(t)
	credits.On("Deduct", mock.Anything, mock.AnythingOfType("usecase.DeductRequest")).
		Return(nil, errs.NewInsufficientCreditsError(testBusinessID.String(), 5, 3))

	w := performRequest(router, http.MethodPost, creditsPath("/deduct"), map[string]any{"amount": 5}, nil)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(errs.CodeInsufficientCredits), body["code"])
	details := body["details"].(map[string]any)
	assert.Equal(t, float64(5), details["required"])
	assert.Equal(t, float64(3), details["creditsRemaining"])
}

func TestCreditHandler_DeductRejectsBadBodies(t *testing.T) {
	tests := []struct {
		name string
		body any
	}{
		{name: "zero amount", body: map[string]any{"amount": 0}},
		{name: "negative amount", body: map[string]any{"amount": -3}},
		{name: "missing amount", body: map[string]any{"description": "x"}},
		{name: "malformed json", body: `{"amount":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, router := setupCreditRouter(t)

			w := performRequest(router, http.MethodPost, creditsPath("/deduct"), tt.body, nil)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, float64(errs.CodeInvalidRequest), decode(t, w)["code"])
		})
	}
}

func TestCreditHandler_DeductStoreUnavailable(t *testing.T) {
	credits, router := setupCreditRouter(t)
	credits.On("Deduct", mock.Anything, mock.AnythingOfType("usecase.DeductRequest")).
		Return(nil, fmt.Errorf("%w: deduct: connection reset by peer", errs.ErrStoreUnavailable))

	w := performRequest(router, http.MethodPost, creditsPath("/deduct"), map[string]any{"amount": 1}, nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotContains(t, w.Body.String(), "connection reset")
}

func TestCreditHandler_CheckCredits(t *testing.T) {
	credits, router := setupCreditRouter(t)
	credits.On("CheckCredits", mock.Anything, testBusinessID, 3).
		Return(&entity.CreditBalance{BusinessID: testBusinessID, CreditsRemaining: 7}, nil)

	w := performRequest(router, http.MethodPost, creditsPath("/check"), map[string]any{"amount": 3}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["sufficient"])
	assert.Equal(t, float64(7), body["creditsRemaining"])
}

func TestCreditHandler_CheckCreditsInsufficient(t *testing.T) {
	credits, router := setupCreditRouter(t)
	credits.On("CheckCredits", mock.Anything, testBusinessID, 10).
		Return(nil, errs.NewInsufficientCreditsError(testBusinessID.String(), 10, 7))

	w := performRequest(router, http.MethodPost, creditsPath("/check"), map[string]any{"amount": 10}, nil)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
}

func TestCreditHandler_ListTransactions(t *testing.T) {
	credits, router := setupCreditRouter(t)
	credits.On("ListTransactions", mock.Anything, testBusinessID, 20, 40).
		Return([]*entity.CreditTransaction{usageTransaction(1, 9), usageTransaction(1, 10)}, nil)

	w := performRequest(router, http.MethodGet, creditsPath("/transactions?limit=20&offset=40"), nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Len(t, body["transactions"], 2)
	assert.Equal(t, float64(20), body["limit"])
	assert.Equal(t, float64(40), body["offset"])
}

func TestCreditHandler_ListTransactionsBadPagination(t *testing.T) {
	_, router := setupCreditRouter(t)

	for _, query := range []string{"?limit=abc", "?offset=-1"} {
		w := performRequest(router, http.MethodGet, creditsPath("/transactions"+query), nil, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, query)
	}
}

func TestCreditHandler_GrantCredits(t *testing.T) {
	credits, router := setupCreditRouter(t)
	credits.On("GrantCredits", mock.Anything, portuse.GrantRequest{
		BusinessID:       testBusinessID,
		Type:             entity.TransactionPurchase,
		Amount:           25,
		Description:      "Manual purchase",
		PaymentReference: "pi_manual",
	}).Return(&entity.CreditTransaction{
		ID:           uuid.New(),
		BusinessID:   testBusinessID,
		Amount:       25,
		Type:         entity.TransactionPurchase,
		BalanceAfter: 30,
		CreatedAt:    testNow,
	}, nil)

	w := performRequest(router, http.MethodPost, creditsPath("/grant"), map[string]any{
		"type":             "purchase",
		"amount":           25,
		"description":      "Manual purchase",
		"paymentReference": "pi_manual",
	}, nil)

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(30), body["balanceAfter"])
	assert.Equal(t, "purchase", body["type"])
}

func TestCreditHandler_GrantRejectsUsageType(t *testing.T) {
	_, router := setupCreditRouter(t)

	w := performRequest(router, http.MethodPost, creditsPath("/grant"), map[string]any{
		"type":   "usage",
		"amount": 5,
	}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zazzles-app/credit-ledger/internal/domain/entity"
	coreport "github.com/zazzles-app/credit-ledger/internal/domain/port/core"
	"github.com/zazzles-app/credit-ledger/internal/domain/port/usecase"
	"github.com/zazzles-app/credit-ledger/internal/infrastructure/adapter/api/dto"
)

// CreditHandler handles balance, ledger and deduction requests
type CreditHandler struct {
	creditUseCase usecase.CreditUseCase
	logger        coreport.Logger
}

// NewCreditHandler creates a new credit handler instance
func NewCreditHandler(creditUseCase usecase.CreditUseCase, logger coreport.Logger) *CreditHandler {
	return &CreditHandler{
		creditUseCase: creditUseCase,
		logger:        logger,
	}
}

// GetBalance handles GET /businesses/:businessId/credits
func (h *CreditHandler) GetBalance(c *gin.Context) {
	id, ok := businessID(c)
	if !ok {
		return
	}

	balance, err := h.creditUseCase.GetBalance(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBalanceResponse(balance))
}

// ListTransactions handles GET /businesses/:businessId/credits/transactions
func (h *CreditHandler) ListTransactions(c *gin.Context) {
	id, ok := businessID(c)
	if !ok {
		return
	}
	limit, offset, ok := pagination(c)
	if !ok {
		return
	}

	txs, err := h.creditUseCase.ListTransactions(c.Request.Context(), id, limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.NewTransactionListResponse(txs, limit, offset))
}

// CheckCredits handles POST /businesses/:businessId/credits/check.
// AI handlers call it before starting paid work
func (h *CreditHandler) CheckCredits(c *gin.Context) {
	id, ok := businessID(c)
	if !ok {
		return
	}
	var req dto.CheckCreditsRequest
	if !bindJSON(c, &req) {
		return
	}

	balance, err := h.creditUseCase.CheckCredits(c.Request.Context(), id, req.Amount)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.CheckCreditsResponse{
		Sufficient:       true,
		Required:         req.Amount,
		CreditsRemaining: balance.CreditsRemaining,
	})
}

// Deduct handles POST /businesses/:businessId/credits/deduct
func (h *CreditHandler) Deduct(c *gin.Context) {
	id, ok := businessID(c)
	if !ok {
		return
	}
	var req dto.DeductRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.creditUseCase.Deduct(c.Request.Context(), usecase.DeductRequest{
		BusinessID:     id,
		Amount:         req.Amount,
		Description:    req.Description,
		RelatedImageID: req.RelatedImageID,
		IdempotencyKey: c.GetHeader(IdempotencyKeyHeader),
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.NewDeductResponse(result))
}

// GrantCredits handles POST /businesses/:businessId/credits/grant
func (h *CreditHandler) GrantCredits(c *gin.Context) {
	id, ok := businessID(c)
	if !ok {
		return
	}
	var req dto.GrantRequest
	if !bindJSON(c, &req) {
		return
	}
	txType, err := entity.ParseTransactionType(req.Type)
	if err != nil {
		_ = c.Error(err)
		return
	}

	tx, err := h.creditUseCase.GrantCredits(c.Request.Context(), usecase.GrantRequest{
		BusinessID:       id,
		Type:             txType,
		Amount:           req.Amount,
		Description:      req.Description,
		PaymentReference: req.PaymentReference,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.logger.Info("Credits granted", map[string]any{
		"business_id": id.String(),
		"type":        string(txType),
		"amount":      req.Amount,
		"request_id":  coreport.RequestIDFrom(c.Request.Context()),
	})
	c.JSON(http.StatusCreated, dto.NewTransactionResponse(tx))
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	coreport "github.com/zazzles-app/credit-ledger/internal/domain/port/core"
	"github.com/zazzles-app/credit-ledger/internal/domain/port/usecase"
	"github.com/zazzles-app/credit-ledger/internal/infrastructure/adapter/api/dto"
)

// TopUpHandler exposes the auto-top-up trigger and its audit log
type TopUpHandler struct {
	topUpUseCase usecase.TopUpUseCase
	logger       coreport.Logger
}

// NewTopUpHandler creates a new top-up handler instance
func NewTopUpHandler(topUpUseCase usecase.TopUpUseCase, logger coreport.Logger) *TopUpHandler {
	return &TopUpHandler{
		topUpUseCase: topUpUseCase,
		logger:       logger,
	}
}

// ListLogs handles GET /businesses/:businessId/auto-top-up/logs
func (h *TopUpHandler) ListLogs(c *gin.Context) {
	id, ok := businessID(c)
	if !ok {
		return
	}
	limit, offset, ok := pagination(c)
	if !ok {
		return
	}

	logs, err := h.topUpUseCase.ListLogs(c.Request.Context(), id, limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.NewTopUpLogListResponse(logs, limit, offset))
}

// Evaluate handles POST /businesses/:businessId/auto-top-up/evaluate
func (h *TopUpHandler) Evaluate(c *gin.Context) {
	id, ok := businessID(c)
	if !ok {
		return
	}

	result, err := h.topUpUseCase.Evaluate(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.NewTopUpResponse(result))
}

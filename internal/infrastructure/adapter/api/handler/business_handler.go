package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	coreport "github.com/zazzles-app/credit-ledger/internal/domain/port/core"
	"github.com/zazzles-app/credit-ledger/internal/domain/port/usecase"
	"github.com/zazzles-app/credit-ledger/internal/infrastructure/adapter/api/dto"
)

// BusinessHandler handles business onboarding and billing settings
type BusinessHandler struct {
	businessUseCase usecase.BusinessUseCase
	logger          coreport.Logger
}

// NewBusinessHandler creates a new business handler instance
func NewBusinessHandler(businessUseCase usecase.BusinessUseCase, logger coreport.Logger) *BusinessHandler {
	return &BusinessHandler{
		businessUseCase: businessUseCase,
		logger:          logger,
	}
}

// CreateBusiness handles POST /businesses
func (h *BusinessHandler) CreateBusiness(c *gin.Context) {
	var req dto.CreateBusinessRequest
	if !bindJSON(c, &req) {
		return
	}

	account, err := h.businessUseCase.CreateBusiness(c.Request.Context(), req.Name)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewBusinessAccountResponse(account))
}

// GetBusiness handles GET /businesses/:businessId
func (h *BusinessHandler) GetBusiness(c *gin.Context) {
	id, ok := businessID(c)
	if !ok {
		return
	}

	account, err := h.businessUseCase.GetBusiness(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBusinessAccountResponse(account))
}

// UpdateAutoTopUp handles PUT /businesses/:businessId/auto-top-up
func (h *BusinessHandler) UpdateAutoTopUp(c *gin.Context) {
	id, ok := businessID(c)
	if !ok {
		return
	}
	var req dto.AutoTopUpRequest
	if !bindJSON(c, &req) {
		return
	}

	business, err := h.businessUseCase.UpdateAutoTopUp(c.Request.Context(), id, usecase.AutoTopUpUpdate{
		Enabled:   *req.Enabled,
		Threshold: req.Threshold,
		PackID:    req.PackID,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.logger.Info("Auto-top-up settings updated", map[string]any{
		"business_id": id.String(),
		"enabled":     *req.Enabled,
		"request_id":  coreport.RequestIDFrom(c.Request.Context()),
	})
	c.JSON(http.StatusOK, dto.NewBusinessResponse(business))
}

// AttachPaymentMethod handles PUT /businesses/:businessId/payment-method
func (h *BusinessHandler) AttachPaymentMethod(c *gin.Context) {
	id, ok := businessID(c)
	if !ok {
		return
	}
	var req dto.PaymentMethodRequest
	if !bindJSON(c, &req) {
		return
	}

	business, err := h.businessUseCase.AttachPaymentMethod(c.Request.Context(), id, req.CustomerID, req.PaymentMethodID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBusinessResponse(business))
}

package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	coreport "github.com/zazzles-app/credit-ledger/internal/domain/port/core"
	"github.com/zazzles-app/credit-ledger/internal/infrastructure/adapter/api/handler"
	"github.com/zazzles-app/credit-ledger/internal/infrastructure/adapter/api/middleware"
)

// Handlers groups the HTTP handlers mounted by SetupRoutes
type Handlers struct {
	Business *handler.BusinessHandler
	Credit   *handler.CreditHandler
	TopUp    *handler.TopUpHandler
	Health   *handler.HealthHandler
}

// SetupRoutes configures all the routes for the API.
// metricsHandler may be nil when metrics exposition is disabled
func SetupRoutes(router *gin.Engine, handlers Handlers, metricsPath string, metricsHandler http.Handler) {
	router.GET("/healthz", handlers.Health.Health)
	if metricsHandler != nil {
		router.GET(metricsPath, gin.WrapH(metricsHandler))
	}

	businesses := router.Group("/businesses")
	{
		businesses.POST("", handlers.Business.CreateBusiness)

		business := businesses.Group("/:businessId")
		business.GET("", handlers.Business.GetBusiness)
		business.PUT("/auto-top-up", handlers.Business.UpdateAutoTopUp)
		business.PUT("/payment-method", handlers.Business.AttachPaymentMethod)

		credits := business.Group("/credits")
		credits.GET("", handlers.Credit.GetBalance)
		credits.GET("/transactions", handlers.Credit.ListTransactions)
		credits.POST("/check", handlers.Credit.CheckCredits)
		credits.POST("/deduct", handlers.Credit.Deduct)
		credits.POST("/grant", handlers.Credit.GrantCredits)

		topUp := business.Group("/auto-top-up")
		topUp.GET("/logs", handlers.TopUp.ListLogs)
		topUp.POST("/evaluate", handlers.TopUp.Evaluate)
	}
}

// SetupMiddlewares configures global middlewares for the API.
// observer may be nil to skip request metrics
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger, observer middleware.RequestObserver) {
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
	if observer != nil {
		router.Use(middleware.Metrics(observer))
	}
	router.Use(middleware.ErrorResponder(logger))
}

package handlers

import (
	"github.com/gin-gonic/gin"

	"billing/internal/middleware"
	"billing/internal/services"
)

// RegisterRoutes mounts the authenticated API on group (normally /api/v1).
func RegisterRoutes(group *gin.RouterGroup, svc *services.Services) {
	walletHandler := NewWalletHandler(svc.Wallets, svc.Ledger, svc.Audit)
	transactionHandler := NewTransactionHandler(svc.Wallets, svc.Ledger, svc.Payments, svc.Audit)
	rateHandler := NewExchangeRateHandler(svc.Rates)
	reportHandler := NewReportHandler(svc.Reports)
	adminHandler := NewAdminHandler(svc.Ledger, svc.Audit)

	protected := group.Group("/")
	protected.Use(middleware.AuthMiddleware(svc.Users))

	wallet := protected.Group("/wallet")
	wallet.GET("", walletHandler.GetWallet)
	wallet.POST("/top-up", walletHandler.TopUp)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.SendPayment)
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)

	protected.GET("/exchange-rates", rateHandler.ListRates)
	protected.GET("/reports", reportHandler.GetReport)

	admin := protected.Group("/admin")
	admin.Use(middleware.StaffOnly())
	admin.POST("/wallets/:id/reconcile", adminHandler.ReconcileWallet)
}

package router

import (
	"github.com/labstack/echo/v4"

	"lokalmarket/internal/adapter/api/handler"
	"lokalmarket/internal/adapter/api/middleware"
)

func SetupTransactionRouter(e *echo.Echo, transactionHandler *handler.TransactionHandler, authMiddleware *middleware.AuthMiddleware) {
	transactions := e.Group("/v1/transactions")
	transactions.Use(authMiddleware.Authenticate)

	transactions.POST("", transactionHandler.OpenTransaction)
	transactions.GET("/my", transactionHandler.ListMyTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id/accept", transactionHandler.AcceptTransaction)
	transactions.PUT("/:id/complete", transactionHandler.CompleteTransaction)
	transactions.PUT("/:id/cancel", transactionHandler.CancelTransaction)
}

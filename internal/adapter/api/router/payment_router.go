package router

import (
	"github.com/labstack/echo/v4"

	"lokalmarket/internal/adapter/api/handler"
	"lokalmarket/internal/adapter/api/middleware"
)

func SetupPaymentRouter(e *echo.Echo, paymentHandler *handler.PaymentHandler, authMiddleware *middleware.AuthMiddleware) {
	payments := e.Group("/v1/payments")

	// Public: pricing info and the signed gateway webhook.
	payments.GET("/pricing", paymentHandler.Pricing)
	payments.POST("/webhook", paymentHandler.Webhook)

	authenticated := payments.Group("")
	authenticated.Use(authMiddleware.Authenticate)

	authenticated.POST("/intent", paymentHandler.CreateIntent)
	authenticated.POST("/confirm", paymentHandler.ConfirmPayment)
	authenticated.GET("/my", paymentHandler.ListMyPayments)
	authenticated.GET("/:intentId/status", paymentHandler.CheckStatus)
}

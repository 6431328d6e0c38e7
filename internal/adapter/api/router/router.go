package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"lokalmarket/internal/adapter/api/handler"
	"lokalmarket/internal/adapter/api/middleware"
)

// Setup registers the full route table.
func Setup(
	e *echo.Echo,
	authMiddleware *middleware.AuthMiddleware,
	paymentHandler *handler.PaymentHandler,
	listingHandler *handler.ListingHandler,
	transactionHandler *handler.TransactionHandler,
	reviewHandler *handler.ReviewHandler,
	messageHandler *handler.MessageHandler,
	fileHandler *handler.FileHandler,
) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	SetupPaymentRouter(e, paymentHandler, authMiddleware)
	SetupListingRouter(e, listingHandler, fileHandler, authMiddleware)
	SetupTransactionRouter(e, transactionHandler, authMiddleware)
	SetupReviewRouter(e, reviewHandler, authMiddleware)
	SetupMessageRouter(e, messageHandler, authMiddleware)
}

package router

import (
	"github.com/labstack/echo/v4"

	"lokalmarket/internal/adapter/api/handler"
	"lokalmarket/internal/adapter/api/middleware"
)

func SetupMessageRouter(e *echo.Echo, messageHandler *handler.MessageHandler, authMiddleware *middleware.AuthMiddleware) {
	messages := e.Group("/v1/messages")
	messages.Use(authMiddleware.Authenticate)

	messages.POST("", messageHandler.SendMessage)
	messages.GET("/with/:userId", messageHandler.GetConversation)
}

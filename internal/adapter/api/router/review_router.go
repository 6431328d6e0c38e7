package router

import (
	"github.com/labstack/echo/v4"

	"lokalmarket/internal/adapter/api/handler"
	"lokalmarket/internal/adapter/api/middleware"
)

func SetupReviewRouter(e *echo.Echo, reviewHandler *handler.ReviewHandler, authMiddleware *middleware.AuthMiddleware) {
	reviews := e.Group("/v1/reviews")

	// Public reads.
	reviews.GET("/user/:userId", reviewHandler.GetUserReviews)
	reviews.GET("/user/:userId/stats", reviewHandler.GetUserReviewStats)

	authenticated := reviews.Group("")
	authenticated.Use(authMiddleware.Authenticate)

	authenticated.POST("", reviewHandler.CreateReview)
	authenticated.GET("/can-review/:transactionId", reviewHandler.CanReview)
	authenticated.DELETE("/:reviewId", reviewHandler.DeleteReview)
}

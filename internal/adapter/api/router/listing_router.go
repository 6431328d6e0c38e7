package router

import (
	"github.com/labstack/echo/v4"

	"lokalmarket/internal/adapter/api/handler"
	"lokalmarket/internal/adapter/api/middleware"
)

func SetupListingRouter(e *echo.Echo, listingHandler *handler.ListingHandler, fileHandler *handler.FileHandler, authMiddleware *middleware.AuthMiddleware) {
	listings := e.Group("/v1/listings")

	authenticated := listings.Group("")
	authenticated.Use(authMiddleware.Authenticate)

	// Registered before "/:id" so the static segments win.
	authenticated.GET("/my", listingHandler.ListMyListings)
	listings.GET("/search/city", listingHandler.SearchByCity)
	listings.GET("/search/radius", listingHandler.SearchByRadius)

	listings.GET("", listingHandler.ListListings)
	listings.GET("/:id", listingHandler.GetListing)

	authenticated.PATCH("/:id", listingHandler.UpdateListing)
	authenticated.DELETE("/:id", listingHandler.DeleteListing)
	authenticated.POST("/:id/images", fileHandler.UploadListingImages)
}

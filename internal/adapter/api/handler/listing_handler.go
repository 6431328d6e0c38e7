package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"lokalmarket/internal/usecase"
	"lokalmarket/pkg/errors"
	"lokalmarket/pkg/response"
	"lokalmarket/pkg/utils"
)

type ListingHandler struct {
	listingUC *usecase.ListingUseCase
}

func NewListingHandler(listingUC *usecase.ListingUseCase) *ListingHandler {
	return &ListingHandler{
		listingUC: listingUC,
	}
}

func (h *ListingHandler) GetListing(c echo.Context) error {
	listing, err := h.listingUC.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listing)
}

func (h *ListingHandler) ListListings(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	listings, total, err := h.listingUC.ListAll(c.Request().Context(), pagination.Page, pagination.PageSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, listings, total, pagination.Page, pagination.PageSize)
}

func (h *ListingHandler) ListMyListings(c echo.Context) error {
	userID := c.Get("uid").(string)

	listings, err := h.listingUC.ListMine(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listings)
}

type updateListingRequest struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Condition   *string  `json:"condition,omitempty"`
	Location    *string  `json:"location,omitempty"`
}

func (h *ListingHandler) UpdateListing(c echo.Context) error {
	var req updateListingRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	userID := c.Get("uid").(string)

	listing, err := h.listingUC.Update(c.Request().Context(), userID, c.Param("id"), usecase.UpdateListingInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Condition:   req.Condition,
		Location:    req.Location,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listing)
}

func (h *ListingHandler) DeleteListing(c echo.Context) error {
	userID := c.Get("uid").(string)

	if err := h.listingUC.Delete(c.Request().Context(), userID, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Listing deleted"})
}

func (h *ListingHandler) SearchByCity(c echo.Context) error {
	listings, err := h.listingUC.SearchByCity(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listings)
}

func (h *ListingHandler) SearchByRadius(c echo.Context) error {
	lat, err := strconv.ParseFloat(c.QueryParam("lat"), 64)
	if err != nil {
		return response.Error(c, errors.Validation("Invalid latitude", err))
	}

	lon, err := strconv.ParseFloat(c.QueryParam("lon"), 64)
	if err != nil {
		return response.Error(c, errors.Validation("Invalid longitude", err))
	}

	radius := 10.0
	if radiusParam := c.QueryParam("radius"); radiusParam != "" {
		radius, err = strconv.ParseFloat(radiusParam, 64)
		if err != nil {
			return response.Error(c, errors.Validation("Invalid radius", err))
		}
	}

	listings, err := h.listingUC.SearchByRadius(c.Request().Context(), lat, lon, radius)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listings)
}

package handler

import (
	"github.com/labstack/echo/v4"

	"lokalmarket/internal/usecase"
	"lokalmarket/pkg/errors"
	"lokalmarket/pkg/response"
)

type ReviewHandler struct {
	reviewUC *usecase.ReviewUseCase
}

func NewReviewHandler(reviewUC *usecase.ReviewUseCase) *ReviewHandler {
	return &ReviewHandler{
		reviewUC: reviewUC,
	}
}

type createReviewRequest struct {
	TransactionID string `json:"transaction_id" validate:"required"`
	Rating        int    `json:"rating" validate:"required,min=1,max=5"`
	Comment       string `json:"comment,omitempty"`
}

func (h *ReviewHandler) CreateReview(c echo.Context) error {
	var req createReviewRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	review, err := h.reviewUC.Create(c.Request().Context(), userID, usecase.CreateReviewInput{
		TransactionID: req.TransactionID,
		Rating:        req.Rating,
		Comment:       req.Comment,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, review)
}

func (h *ReviewHandler) CanReview(c echo.Context) error {
	transactionID := c.Param("transactionId")
	if transactionID == "" {
		return response.Error(c, errors.BadRequest("Transaction ID is required", nil))
	}

	userID := c.Get("uid").(string)

	result, err := h.reviewUC.CanReview(c.Request().Context(), userID, transactionID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

func (h *ReviewHandler) GetUserReviews(c echo.Context) error {
	reviews, err := h.reviewUC.ListFor(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, reviews)
}

func (h *ReviewHandler) GetUserReviewStats(c echo.Context) error {
	stats, err := h.reviewUC.StatsFor(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, stats)
}

func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	userID := c.Get("uid").(string)

	if err := h.reviewUC.Delete(c.Request().Context(), userID, c.Param("reviewId")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Review deleted"})
}

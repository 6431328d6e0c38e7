package handler

import (
	"github.com/labstack/echo/v4"

	"lokalmarket/internal/usecase"
	"lokalmarket/pkg/errors"
	"lokalmarket/pkg/response"
)

type TransactionHandler struct {
	transactionUC *usecase.TransactionUseCase
}

func NewTransactionHandler(transactionUC *usecase.TransactionUseCase) *TransactionHandler {
	return &TransactionHandler{
		transactionUC: transactionUC,
	}
}

type openTransactionRequest struct {
	ListingID string `json:"listing_id" validate:"required"`
	Message   string `json:"message,omitempty"`
}

func (h *TransactionHandler) OpenTransaction(c echo.Context) error {
	var req openTransactionRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	transaction, err := h.transactionUC.Open(c.Request().Context(), userID, usecase.OpenTransactionInput{
		ListingID: req.ListingID,
		Message:   req.Message,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, transaction)
}

func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	userID := c.Get("uid").(string)

	detail, err := h.transactionUC.GetByID(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, detail)
}

func (h *TransactionHandler) ListMyTransactions(c echo.Context) error {
	userID := c.Get("uid").(string)

	transactions, err := h.transactionUC.ListMine(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, transactions)
}

func (h *TransactionHandler) AcceptTransaction(c echo.Context) error {
	userID := c.Get("uid").(string)

	transaction, err := h.transactionUC.Accept(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, transaction)
}

func (h *TransactionHandler) CompleteTransaction(c echo.Context) error {
	userID := c.Get("uid").(string)

	transaction, err := h.transactionUC.Complete(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, transaction)
}

func (h *TransactionHandler) CancelTransaction(c echo.Context) error {
	userID := c.Get("uid").(string)

	transaction, err := h.transactionUC.Cancel(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, transaction)
}

package handler

import (
	"github.com/labstack/echo/v4"

	"lokalmarket/internal/usecase"
	"lokalmarket/pkg/errors"
	"lokalmarket/pkg/response"
)

type MessageHandler struct {
	messageUC *usecase.MessageUseCase
}

func NewMessageHandler(messageUC *usecase.MessageUseCase) *MessageHandler {
	return &MessageHandler{
		messageUC: messageUC,
	}
}

type sendMessageRequest struct {
	ReceiverID string `json:"receiver_id" validate:"required"`
	Content    string `json:"content" validate:"required"`
}

func (h *MessageHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	message, err := h.messageUC.Send(c.Request().Context(), userID, req.ReceiverID, req.Content)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

func (h *MessageHandler) GetConversation(c echo.Context) error {
	userID := c.Get("uid").(string)

	messages, err := h.messageUC.ListConversation(c.Request().Context(), userID, c.Param("userId"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, messages)
}

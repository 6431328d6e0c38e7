package usecase

import (
	"context"
	"strings"

	"lokalmarket/internal/domain/entity"
	"lokalmarket/internal/domain/repository"
	"lokalmarket/pkg/errors"
)

type MessageUseCase struct {
	messageRepo repository.MessageRepository
}

func NewMessageUseCase(messageRepo repository.MessageRepository) *MessageUseCase {
	return &MessageUseCase{
		messageRepo: messageRepo,
	}
}

func (uc *MessageUseCase) Send(ctx context.Context, senderID, receiverID, content string) (*entity.Message, error) {
	if receiverID == "" {
		return nil, errors.Validation("Receiver is required", nil)
	}
	if senderID == receiverID {
		return nil, errors.Validation("You cannot message yourself", nil)
	}
	if strings.TrimSpace(content) == "" {
		return nil, errors.Validation("Message content is required", nil)
	}

	message := &entity.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    strings.TrimSpace(content),
	}

	if err := uc.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	return message, nil
}

func (uc *MessageUseCase) ListConversation(ctx context.Context, callerID, otherID string) ([]*entity.Message, error) {
	messages, err := uc.messageRepo.ListConversation(ctx, callerID, otherID)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []*entity.Message{}
	}
	return messages, nil
}

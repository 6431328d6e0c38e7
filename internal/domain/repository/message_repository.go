package repository

import (
	"context"

	"lokalmarket/internal/domain/entity"
)

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	ListConversation(ctx context.Context, userID, otherID string) ([]*entity.Message, error)
}

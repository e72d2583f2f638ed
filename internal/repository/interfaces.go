package repository

import (
	"context"

	"github.com/priyansh-garg1/Social-Media-Clone-Backend/internal/domain/chat"
	"github.com/priyansh-garg1/Social-Media-Clone-Backend/internal/domain/user"

	"github.com/google/uuid"
)

type ConversationRepository interface {
	// GetOrCreate returns the conversation for the pair carried by c, inserting
	// it first when absent. Safe under concurrent first sends from both sides.
	GetOrCreate(ctx context.Context, c *chat.Conversation) (chat.Conversation, error)
	GetByParticipants(ctx context.Context, userID1, userID2 uuid.UUID) (chat.Conversation, error)
	GetUserConversations(ctx context.Context, userID uuid.UUID) ([]chat.Conversation, error)
	UpdateLastMessage(ctx context.Context, conversationID uuid.UUID, last chat.LastMessage) error
	Delete(ctx context.Context, conversationID uuid.UUID) error
}

type MessageRepository interface {
	Create(ctx context.Context, m *chat.Message) error
	// GetConversationMessages returns the full history ordered by creation
	// time ascending.
	GetConversationMessages(ctx context.Context, conversationID uuid.UUID) ([]chat.Message, error)
	DeleteByConversation(ctx context.Context, conversationID uuid.UUID) (int64, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (user.User, error)
	GetProfiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]user.Profile, error)
}

package repository

import (
	"context"
	"errors"
	"time"

	"github.com/priyansh-garg1/Social-Media-Clone-Backend/internal/domain/chat"
	apperrors "github.com/priyansh-garg1/Social-Media-Clone-Backend/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &PostgresConversationRepository{db: db}
}

func (r *PostgresConversationRepository) GetOrCreate(ctx context.Context, c *chat.Conversation) (chat.Conversation, error) {
	c.ParticipantLow, c.ParticipantHigh = chat.NormalizePair(c.ParticipantLow, c.ParticipantHigh)
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "participant_low"}, {Name: "participant_high"}},
			DoNothing: true,
		}).
		Create(c)
	if res.Error != nil && !isUniqueViolation(res.Error) {
		return chat.Conversation{}, res.Error
	}
	if res.Error == nil && res.RowsAffected > 0 {
		return *c, nil
	}

	// Lost the race: someone else inserted the pair first. Read theirs.
	return r.GetByParticipants(ctx, c.ParticipantLow, c.ParticipantHigh)
}

func (r *PostgresConversationRepository) GetByParticipants(ctx context.Context, userID1, userID2 uuid.UUID) (chat.Conversation, error) {
	low, high := chat.NormalizePair(userID1, userID2)

	var c chat.Conversation
	err := r.db.WithContext(ctx).
		Where("participant_low = ? AND participant_high = ?", low, high).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return chat.Conversation{}, apperrors.ErrNotFound
		}
		return chat.Conversation{}, err
	}
	return c, nil
}

func (r *PostgresConversationRepository) GetUserConversations(ctx context.Context, userID uuid.UUID) ([]chat.Conversation, error) {
	var conversations []chat.Conversation
	err := r.db.WithContext(ctx).
		Where("participant_low = ? OR participant_high = ?", userID, userID).
		Order("updated_at DESC").
		Find(&conversations).Error
	if err != nil {
		return nil, err
	}
	return conversations, nil
}

func (r *PostgresConversationRepository) UpdateLastMessage(ctx context.Context, conversationID uuid.UUID, last chat.LastMessage) error {
	res := r.db.WithContext(ctx).
		Model(&chat.Conversation{}).
		Where("id = ?", conversationID).
		Updates(map[string]interface{}{
			"last_message_text":      last.Text,
			"last_message_sender_id": last.SenderID,
			"updated_at":             time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PostgresConversationRepository) Delete(ctx context.Context, conversationID uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&chat.Conversation{}, "id = ?", conversationID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

package database

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/clause"

	"github.com/priyansh-garg1/Social-Media-Clone-Backend/internal/domain/chat"
	"github.com/priyansh-garg1/Social-Media-Clone-Backend/internal/domain/user"
)

// SeedConfig holds configuration for seeding demo data
type SeedConfig struct {
	UserCount    int
	UserPassword string
}

func DefaultSeedConfig() *SeedConfig {
	return &SeedConfig{
		UserCount:    4,
		UserPassword: "Password@123",
	}
}

// Seed inserts demo users and one conversation with a short history between
// the first two. Safe to run repeatedly: usernames conflict-skip.
func Seed(cfg *SeedConfig) error {
	if cfg == nil {
		cfg = DefaultSeedConfig()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.UserPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	users := make([]user.User, 0, cfg.UserCount)
	for i := 0; i < cfg.UserCount; i++ {
		users = append(users, user.User{
			ID:           uuid.New(),
			Username:     fmt.Sprintf("demo%d", i+1),
			DisplayName:  fmt.Sprintf("Demo User %d", i+1),
			PasswordHash: string(hash),
			IsActive:     true,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		})
	}
	res := DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&users)
	if res.Error != nil {
		return fmt.Errorf("seed users: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		log.Println("Seed users already present, skipping demo conversation")
		return nil
	}

	if len(users) < 2 {
		return nil
	}
	low, high := chat.NormalizePair(users[0].ID, users[1].ID)
	conv := chat.Conversation{
		ID:                  uuid.New(),
		ParticipantLow:      low,
		ParticipantHigh:     high,
		LastMessageText:     "See you there!",
		LastMessageSenderID: users[1].ID,
		CreatedAt:           time.Now(),
		UpdatedAt:           time.Now(),
	}
	if err := DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&conv).Error; err != nil {
		return fmt.Errorf("seed conversation: %w", err)
	}

	texts := []struct {
		sender uuid.UUID
		text   string
	}{
		{users[0].ID, "Hey, are you coming tonight?"},
		{users[1].ID, "Yes! Around 8."},
		{users[1].ID, "See you there!"},
	}
	base := time.Now().Add(-time.Hour)
	for i, t := range texts {
		msg := chat.Message{
			ID:             uuid.New(),
			ConversationID: conv.ID,
			SenderID:       t.sender,
			Text:           t.text,
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
		}
		if err := DB.Create(&msg).Error; err != nil {
			return fmt.Errorf("seed message: %w", err)
		}
	}

	log.Printf("Seeded %d demo users and a demo conversation", len(users))
	return nil
}

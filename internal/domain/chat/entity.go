package chat

import (
	"bytes"
	"time"

	"github.com/google/uuid"
)

// Conversation represents the conversations table. A conversation links exactly
// two participants; the pair is stored in normalized order so the unique index
// on (participant_low, participant_high) guarantees at most one conversation
// per pair even under concurrent first sends.
type Conversation struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	ParticipantLow      uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_conversations_pair"`
	ParticipantHigh     uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_conversations_pair"`
	LastMessageText     string
	LastMessageSenderID uuid.UUID `gorm:"type:uuid"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Message represents the messages table. Messages are immutable after creation
// and are only removed in bulk when their conversation is deleted.
type Message struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	ConversationID uuid.UUID `gorm:"type:uuid;index"`
	SenderID       uuid.UUID `gorm:"type:uuid"`
	Text           string
	ImageURL       string
	CreatedAt      time.Time `gorm:"index"`
}

// LastMessage is the denormalized preview snapshot kept on the conversation.
type LastMessage struct {
	Text     string    `json:"text"`
	SenderID uuid.UUID `json:"sender"`
}

func (Conversation) TableName() string {
	return "conversations"
}

func (Message) TableName() string {
	return "messages"
}

// NormalizePair orders two participant IDs so the same unordered pair always
// maps to the same (low, high) columns.
func NormalizePair(a, b uuid.UUID) (low, high uuid.UUID) {
	if bytes.Compare(a[:], b[:]) <= 0 {
		return a, b
	}
	return b, a
}

// Other returns the participant that is not userID.
func (c Conversation) Other(userID uuid.UUID) uuid.UUID {
	if c.ParticipantLow == userID {
		return c.ParticipantHigh
	}
	return c.ParticipantLow
}

// HasParticipant reports whether userID is one of the two participants.
func (c Conversation) HasParticipant(userID uuid.UUID) bool {
	return c.ParticipantLow == userID || c.ParticipantHigh == userID
}

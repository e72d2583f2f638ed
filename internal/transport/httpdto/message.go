package httpdto

import (
	"time"

	"github.com/priyansh-garg1/Social-Media-Clone-Backend/internal/domain/chat"
)

type SendMessageRequest struct {
	RecipientID string `json:"recipientId"`
	Message     string `json:"message"`
	// Img carries an optional base64 data URI.
	Img string `json:"img,omitempty"`
}

type MessageResponse struct {
	ID             string    `json:"_id"`
	ConversationID string    `json:"conversationId"`
	Sender         string    `json:"sender"`
	Text           string    `json:"text"`
	Img            string    `json:"img"`
	CreatedAt      time.Time `json:"createdAt"`
}

func FromMessage(m chat.Message) MessageResponse {
	return MessageResponse{
		ID:             m.ID.String(),
		ConversationID: m.ConversationID.String(),
		Sender:         m.SenderID.String(),
		Text:           m.Text,
		Img:            m.ImageURL,
		CreatedAt:      m.CreatedAt,
	}
}

func FromMessageSlice(messages []chat.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, FromMessage(m))
	}
	return out
}

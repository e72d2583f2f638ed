package httpdto

import (
	"time"

	"github.com/priyansh-garg1/Social-Media-Clone-Backend/internal/domain/chat"
	"github.com/priyansh-garg1/Social-Media-Clone-Backend/internal/domain/user"
)

type ParticipantResponse struct {
	ID         string `json:"_id"`
	Username   string `json:"username"`
	ProfilePic string `json:"profilePic"`
}

type LastMessageResponse struct {
	Text   string `json:"text"`
	Sender string `json:"sender"`
}

type ConversationResponse struct {
	ID           string                `json:"_id"`
	Participants []ParticipantResponse `json:"participants"`
	LastMessage  LastMessageResponse   `json:"lastMessage"`
	CreatedAt    time.Time             `json:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt"`
}

func FromConversation(c chat.Conversation, participants []user.Profile) ConversationResponse {
	out := ConversationResponse{
		ID: c.ID.String(),
		LastMessage: LastMessageResponse{
			Text:   c.LastMessageText,
			Sender: c.LastMessageSenderID.String(),
		},
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	out.Participants = make([]ParticipantResponse, 0, len(participants))
	for _, p := range participants {
		out.Participants = append(out.Participants, ParticipantResponse{
			ID:         p.ID.String(),
			Username:   p.Username,
			ProfilePic: p.AvatarURL,
		})
	}
	return out
}

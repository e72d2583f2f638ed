package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/priyansh-garg1/Social-Media-Clone-Backend/internal/domain/chat"
	"github.com/priyansh-garg1/Social-Media-Clone-Backend/internal/domain/user"
	"github.com/priyansh-garg1/Social-Media-Clone-Backend/internal/repository"
	apperrors "github.com/priyansh-garg1/Social-Media-Clone-Backend/pkg/errors"
	"github.com/priyansh-garg1/Social-Media-Clone-Backend/pkg/logger"
)

// ErrRecipientNotFound marks a send addressed to a user that does not exist.
var ErrRecipientNotFound = fmt.Errorf("recipient %w", apperrors.ErrNotFound)

// ChatService owns the invariants linking conversations to their messages and
// orchestrates the write-then-notify sequence of a send.
type ChatService struct {
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	users         repository.UserRepository
	uploader      ImageUploader
	notifier      Notifier
	log           *logger.Logger
}

func NewChatService(
	conversations repository.ConversationRepository,
	messages repository.MessageRepository,
	users repository.UserRepository,
	uploader ImageUploader,
	notifier Notifier,
	log *logger.Logger,
) *ChatService {
	if log == nil {
		log = logger.Nop()
	}
	return &ChatService{
		conversations: conversations,
		messages:      messages,
		users:         users,
		uploader:      uploader,
		notifier:      notifier,
		log:           log,
	}
}

type SendMessageInput struct {
	SenderID         uuid.UUID
	RecipientID      uuid.UUID
	Text             string
	ImageData        []byte
	ImageContentType string
}

// ConversationView is a conversation as seen by one caller: the participant
// list holds only the other side, resolved to a public profile.
type ConversationView struct {
	Conversation chat.Conversation
	Participants []user.Profile
}

// FetchHistory returns the full message history between the caller and the
// other user, oldest first.
func (s *ChatService) FetchHistory(ctx context.Context, callerID, otherUserID uuid.UUID) ([]chat.Message, error) {
	conv, err := s.conversations.GetByParticipants(ctx, callerID, otherUserID)
	if err != nil {
		return nil, err
	}
	return s.messages.GetConversationMessages(ctx, conv.ID)
}

// ListConversations returns every conversation the caller participates in,
// with the other party resolved to their public profile. A caller with no
// conversations gets an empty list, not an error.
func (s *ChatService) ListConversations(ctx context.Context, callerID uuid.UUID) ([]ConversationView, error) {
	conversations, err := s.conversations.GetUserConversations(ctx, callerID)
	if err != nil {
		return nil, err
	}

	otherIDs := make([]uuid.UUID, 0, len(conversations))
	for _, c := range conversations {
		otherIDs = append(otherIDs, c.Other(callerID))
	}
	profiles, err := s.users.GetProfiles(ctx, otherIDs)
	if err != nil {
		return nil, err
	}

	views := make([]ConversationView, 0, len(conversations))
	for _, c := range conversations {
		otherID := c.Other(callerID)
		profile, ok := profiles[otherID]
		if !ok {
			// Deleted account: keep the conversation visible with a bare ID.
			profile = user.Profile{ID: otherID}
		}
		views = append(views, ConversationView{
			Conversation: c,
			Participants: []user.Profile{profile},
		})
	}
	return views, nil
}

// SendMessage stores a message for the recipient and, when they have a live
// channel, pushes it to them. The push is best effort; the durable writes are
// what decide success.
func (s *ChatService) SendMessage(ctx context.Context, in SendMessageInput) (chat.Message, error) {
	if in.SenderID == in.RecipientID {
		return chat.Message{}, apperrors.ErrInvalidInput
	}
	if in.Text == "" && len(in.ImageData) == 0 {
		return chat.Message{}, apperrors.ErrInvalidInput
	}
	if _, err := s.users.GetByID(ctx, in.RecipientID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return chat.Message{}, ErrRecipientNotFound
		}
		return chat.Message{}, err
	}

	low, high := chat.NormalizePair(in.SenderID, in.RecipientID)
	conv, err := s.conversations.GetOrCreate(ctx, &chat.Conversation{
		ParticipantLow:      low,
		ParticipantHigh:     high,
		LastMessageText:     in.Text,
		LastMessageSenderID: in.SenderID,
	})
	if err != nil {
		return chat.Message{}, err
	}

	// Upload before any message write so a failed upload never leaves a
	// message behind with a broken image reference.
	imageURL := ""
	if len(in.ImageData) > 0 {
		imageURL, err = s.uploader.Upload(ctx, in.ImageData, in.ImageContentType)
		if err != nil {
			return chat.Message{}, err
		}
	}

	msg := chat.Message{
		ID:             uuid.New(),
		ConversationID: conv.ID,
		SenderID:       in.SenderID,
		Text:           in.Text,
		ImageURL:       imageURL,
		CreatedAt:      time.Now(),
	}

	// The message insert and the preview update have no ordering dependency;
	// if one fails the send fails and the other is not rolled back.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.messages.Create(gctx, &msg)
	})
	g.Go(func() error {
		return s.conversations.UpdateLastMessage(gctx, conv.ID, chat.LastMessage{
			Text:     in.Text,
			SenderID: in.SenderID,
		})
	})
	if err := g.Wait(); err != nil {
		return chat.Message{}, err
	}

	if s.notifier != nil {
		s.notifier.NotifyNewMessage(in.RecipientID, msg)
	}
	return msg, nil
}

// DeleteConversation removes the conversation between the caller and the other
// user along with every message in it. Messages go first so they cannot
// outlive their conversation.
func (s *ChatService) DeleteConversation(ctx context.Context, callerID, otherUserID uuid.UUID) error {
	conv, err := s.conversations.GetByParticipants(ctx, callerID, otherUserID)
	if err != nil {
		return err
	}

	deleted, err := s.messages.DeleteByConversation(ctx, conv.ID)
	if err != nil {
		return err
	}
	s.log.Infof("deleted %d messages from conversation %s", deleted, conv.ID)

	return s.conversations.Delete(ctx, conv.ID)
}

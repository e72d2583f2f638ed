package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priyansh-garg1/Social-Media-Clone-Backend/internal/domain/chat"
	"github.com/priyansh-garg1/Social-Media-Clone-Backend/internal/domain/user"
	apperrors "github.com/priyansh-garg1/Social-Media-Clone-Backend/pkg/errors"
)

type fakeConversationRepo struct {
	mu            sync.Mutex
	conversations map[uuid.UUID]chat.Conversation
	updateErr     error
	deleteErr     error
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{conversations: make(map[uuid.UUID]chat.Conversation)}
}

func (r *fakeConversationRepo) GetOrCreate(_ context.Context, c *chat.Conversation) (chat.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	low, high := chat.NormalizePair(c.ParticipantLow, c.ParticipantHigh)
	for _, existing := range r.conversations {
		if existing.ParticipantLow == low && existing.ParticipantHigh == high {
			return existing, nil
		}
	}
	created := *c
	created.ParticipantLow, created.ParticipantHigh = low, high
	if created.ID == uuid.Nil {
		created.ID = uuid.New()
	}
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	r.conversations[created.ID] = created
	return created, nil
}

func (r *fakeConversationRepo) GetByParticipants(_ context.Context, a, b uuid.UUID) (chat.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	low, high := chat.NormalizePair(a, b)
	for _, c := range r.conversations {
		if c.ParticipantLow == low && c.ParticipantHigh == high {
			return c, nil
		}
	}
	return chat.Conversation{}, apperrors.ErrNotFound
}

func (r *fakeConversationRepo) GetUserConversations(_ context.Context, userID uuid.UUID) ([]chat.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []chat.Conversation
	for _, c := range r.conversations {
		if c.HasParticipant(userID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeConversationRepo) UpdateLastMessage(_ context.Context, id uuid.UUID, last chat.LastMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	c, ok := r.conversations[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	c.LastMessageText = last.Text
	c.LastMessageSenderID = last.SenderID
	c.UpdatedAt = time.Now()
	r.conversations[id] = c
	return nil
}

func (r *fakeConversationRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.conversations[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.conversations, id)
	return nil
}

type fakeMessageRepo struct {
	mu        sync.Mutex
	messages  []chat.Message
	createErr error
}

func (r *fakeMessageRepo) Create(_ context.Context, m *chat.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.messages = append(r.messages, *m)
	return nil
}

func (r *fakeMessageRepo) GetConversationMessages(_ context.Context, conversationID uuid.UUID) ([]chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []chat.Message
	for _, m := range r.messages {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	// Insertion order is creation order in these tests.
	return out, nil
}

func (r *fakeMessageRepo) DeleteByConversation(_ context.Context, conversationID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []chat.Message
	var deleted int64
	for _, m := range r.messages {
		if m.ConversationID == conversationID {
			deleted++
			continue
		}
		kept = append(kept, m)
	}
	r.messages = kept
	return deleted, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]user.User
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return user.User{}, apperrors.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetProfiles(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]user.Profile, error) {
	out := make(map[uuid.UUID]user.Profile)
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out[id] = u.PublicProfile()
		}
	}
	return out, nil
}

type fakeUploader struct {
	url string
	err error
	// number of uploads attempted
	calls int
}

func (u *fakeUploader) Upload(_ context.Context, _ []byte, _ string) (string, error) {
	u.calls++
	if u.err != nil {
		return "", u.err
	}
	return u.url, nil
}

type recordingNotifier struct {
	mu         sync.Mutex
	recipients []uuid.UUID
	messages   []chat.Message
}

func (n *recordingNotifier) NotifyNewMessage(recipientID uuid.UUID, msg chat.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.recipients = append(n.recipients, recipientID)
	n.messages = append(n.messages, msg)
}

type fixture struct {
	svc      *ChatService
	convs    *fakeConversationRepo
	msgs     *fakeMessageRepo
	users    *fakeUserRepo
	uploader *fakeUploader
	notifier *recordingNotifier

	alice uuid.UUID
	bob   uuid.UUID
}

func newFixture() *fixture {
	alice := uuid.New()
	bob := uuid.New()
	f := &fixture{
		convs: newFakeConversationRepo(),
		msgs:  &fakeMessageRepo{},
		users: &fakeUserRepo{users: map[uuid.UUID]user.User{
			alice: {ID: alice, Username: "alice", AvatarURL: "https://cdn.example.com/alice.png"},
			bob:   {ID: bob, Username: "bob"},
		}},
		uploader: &fakeUploader{url: "https://cdn.example.com/img.png"},
		notifier: &recordingNotifier{},
		alice:    alice,
		bob:      bob,
	}
	f.svc = NewChatService(f.convs, f.msgs, f.users, f.uploader, f.notifier, nil)
	return f
}

func TestSendMessageCreatesConversationOnFirstSend(t *testing.T) {
	f := newFixture()

	msg, err := f.svc.SendMessage(context.Background(), SendMessageInput{
		SenderID:    f.alice,
		RecipientID: f.bob,
		Text:        "hi",
	})
	require.NoError(t, err)

	assert.Equal(t, "hi", msg.Text)
	assert.Equal(t, "", msg.ImageURL)
	assert.Equal(t, f.alice, msg.SenderID)

	conv, err := f.convs.GetByParticipants(context.Background(), f.alice, f.bob)
	require.NoError(t, err)
	assert.Equal(t, "hi", conv.LastMessageText)
	assert.Equal(t, f.alice, conv.LastMessageSenderID)
	assert.Equal(t, conv.ID, msg.ConversationID)
}

func TestSendMessageReusesConversation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.svc.SendMessage(ctx, SendMessageInput{SenderID: f.alice, RecipientID: f.bob, Text: "hi"})
	require.NoError(t, err)

	second, err := f.svc.SendMessage(ctx, SendMessageInput{
		SenderID:         f.bob,
		RecipientID:      f.alice,
		ImageData:        []byte("png-bytes"),
		ImageContentType: "image/png",
	})
	require.NoError(t, err)

	assert.Equal(t, first.ConversationID, second.ConversationID)
	assert.Len(t, f.convs.conversations, 1)
	assert.Equal(t, "https://cdn.example.com/img.png", second.ImageURL)
	assert.Equal(t, "", second.Text)

	conv, err := f.convs.GetByParticipants(ctx, f.alice, f.bob)
	require.NoError(t, err)
	assert.Equal(t, "", conv.LastMessageText)
	assert.Equal(t, f.bob, conv.LastMessageSenderID)
}

func TestSendMessageUploadFailureAbortsSend(t *testing.T) {
	f := newFixture()
	f.uploader.err = apperrors.ErrUploadFailed

	// Establish the conversation with a prior text message.
	_, err := f.svc.SendMessage(context.Background(), SendMessageInput{SenderID: f.alice, RecipientID: f.bob, Text: "hi"})
	require.NoError(t, err)

	_, err = f.svc.SendMessage(context.Background(), SendMessageInput{
		SenderID:         f.bob,
		RecipientID:      f.alice,
		Text:             "broken",
		ImageData:        []byte("bytes"),
		ImageContentType: "image/png",
	})
	require.ErrorIs(t, err, apperrors.ErrUploadFailed)

	// No message persisted, preview untouched.
	assert.Len(t, f.msgs.messages, 1)
	conv, err := f.convs.GetByParticipants(context.Background(), f.alice, f.bob)
	require.NoError(t, err)
	assert.Equal(t, "hi", conv.LastMessageText)
	assert.Equal(t, f.alice, conv.LastMessageSenderID)
}

func TestSendMessageRejectsSelfAndEmpty(t *testing.T) {
	f := newFixture()

	_, err := f.svc.SendMessage(context.Background(), SendMessageInput{SenderID: f.alice, RecipientID: f.alice, Text: "hi"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = f.svc.SendMessage(context.Background(), SendMessageInput{SenderID: f.alice, RecipientID: f.bob})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestSendMessageRejectsUnknownRecipient(t *testing.T) {
	f := newFixture()

	_, err := f.svc.SendMessage(context.Background(), SendMessageInput{
		SenderID:    f.alice,
		RecipientID: uuid.New(),
		Text:        "hi",
	})
	assert.ErrorIs(t, err, ErrRecipientNotFound)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Empty(t, f.convs.conversations)
}

func TestSendMessageNotifiesRecipient(t *testing.T) {
	f := newFixture()

	msg, err := f.svc.SendMessage(context.Background(), SendMessageInput{SenderID: f.alice, RecipientID: f.bob, Text: "hi"})
	require.NoError(t, err)

	require.Len(t, f.notifier.recipients, 1)
	assert.Equal(t, f.bob, f.notifier.recipients[0])
	assert.Equal(t, msg.ID, f.notifier.messages[0].ID)
}

func TestSendMessageSucceedsWithoutNotifier(t *testing.T) {
	f := newFixture()
	f.svc = NewChatService(f.convs, f.msgs, f.users, f.uploader, nil, nil)

	_, err := f.svc.SendMessage(context.Background(), SendMessageInput{SenderID: f.alice, RecipientID: f.bob, Text: "hi"})
	assert.NoError(t, err)
}

func TestSendMessageFailsWhenEitherWriteFails(t *testing.T) {
	storageErr := errors.New("write failed")

	t.Run("message insert fails", func(t *testing.T) {
		f := newFixture()
		f.msgs.createErr = storageErr
		_, err := f.svc.SendMessage(context.Background(), SendMessageInput{SenderID: f.alice, RecipientID: f.bob, Text: "hi"})
		assert.ErrorIs(t, err, storageErr)
		assert.Empty(t, f.notifier.recipients)
	})

	t.Run("preview update fails", func(t *testing.T) {
		f := newFixture()
		f.convs.updateErr = storageErr
		_, err := f.svc.SendMessage(context.Background(), SendMessageInput{SenderID: f.alice, RecipientID: f.bob, Text: "hi"})
		assert.ErrorIs(t, err, storageErr)
		assert.Empty(t, f.notifier.recipients)
	})
}

func TestFetchHistoryOrderingAndNotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.FetchHistory(ctx, f.alice, f.bob)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	for _, text := range []string{"one", "two", "three"} {
		_, err := f.svc.SendMessage(ctx, SendMessageInput{SenderID: f.alice, RecipientID: f.bob, Text: text})
		require.NoError(t, err)
	}

	history, err := f.svc.FetchHistory(ctx, f.bob, f.alice)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "one", history[0].Text)
	assert.Equal(t, "two", history[1].Text)
	assert.Equal(t, "three", history[2].Text)
}

func TestListConversationsExcludesCaller(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.SendMessage(ctx, SendMessageInput{SenderID: f.alice, RecipientID: f.bob, Text: "hi"})
	require.NoError(t, err)

	forAlice, err := f.svc.ListConversations(ctx, f.alice)
	require.NoError(t, err)
	require.Len(t, forAlice, 1)
	require.Len(t, forAlice[0].Participants, 1)
	assert.Equal(t, f.bob, forAlice[0].Participants[0].ID)
	assert.Equal(t, "bob", forAlice[0].Participants[0].Username)

	forBob, err := f.svc.ListConversations(ctx, f.bob)
	require.NoError(t, err)
	require.Len(t, forBob, 1)
	assert.Equal(t, f.alice, forBob[0].Participants[0].ID)
	assert.Equal(t, "https://cdn.example.com/alice.png", forBob[0].Participants[0].AvatarURL)

	empty, err := f.svc.ListConversations(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDeleteConversationCascades(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	msg, err := f.svc.SendMessage(ctx, SendMessageInput{SenderID: f.alice, RecipientID: f.bob, Text: "hi"})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteConversation(ctx, f.bob, f.alice))

	_, err = f.svc.FetchHistory(ctx, f.alice, f.bob)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	remaining, err := f.msgs.GetConversationMessages(ctx, msg.ConversationID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	err = f.svc.DeleteConversation(ctx, f.alice, f.bob)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

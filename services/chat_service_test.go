package services

import (
	"alumni-chat/domain/chat"
	"alumni-chat/mocks"
	"alumni-chat/runtime"
	"context"
	"errors"
	"testing"
	"time"

	domainerrors "alumni-chat/errors"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newChatService(ctrl *gomock.Controller) (*ChatService, *mocks.MockIChatRepository, *mocks.MockIProfileResolver) {
	log := logs.GetLoggerFromString("DEBUG")
	repository := mocks.NewMockIChatRepository(ctrl)
	resolver := mocks.NewMockIProfileResolver(ctrl)
	return NewChatService(log, runtime.NewRegistry(log), repository, resolver), repository, resolver
}

func TestChatService_Send(t *testing.T) {
	ctx := context.Background()
	id := chat.ConversationIDFor("alice", "bob")

	t.Run("should append a valid message", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		service, repository, _ := newChatService(ctrl)
		cmd := chat.SendMessageCommand{ConversationID: id, SenderID: "alice", PartnerID: "bob", Text: "hello"}
		stored := chat.Message{ID: uuid.New(), ConversationID: id, SenderID: "alice", Text: "hello", CreatedAt: time.Now().UTC()}

		repository.EXPECT().AppendMessage(gomock.Any(), cmd).Return(stored, nil).Times(1)

		message, err := service.Send(ctx, cmd)
		req.NoError(err)
		req.Equal(stored, message)
	})

	t.Run("should reject whitespace-only text without writing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service, repository, _ := newChatService(ctrl)

		repository.EXPECT().AppendMessage(gomock.Any(), gomock.Any()).Times(0)

		for _, text := range []string{"", " ", "\t\n", "   \r\n  "} {
			_, err := service.Send(ctx, chat.SendMessageCommand{ConversationID: id, SenderID: "alice", PartnerID: "bob", Text: text})
			require.ErrorIs(t, err, domainerrors.ErrEmptyMessage)
		}
	})

	t.Run("should reject a missing partner", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		service, repository, _ := newChatService(ctrl)

		repository.EXPECT().AppendMessage(gomock.Any(), gomock.Any()).Times(0)

		_, err := service.Send(ctx, chat.SendMessageCommand{ConversationID: "alice_", SenderID: "alice", Text: "hi"})
		req.ErrorIs(err, domainerrors.ErrNoTarget)

		_, err = service.Send(ctx, chat.SendMessageCommand{ConversationID: "alice_alice", SenderID: "alice", PartnerID: "alice", Text: "hi"})
		req.ErrorIs(err, domainerrors.ErrNoTarget)
	})

	t.Run("should reject a conversation the sender is not part of", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		service, repository, _ := newChatService(ctrl)

		repository.EXPECT().AppendMessage(gomock.Any(), gomock.Any()).Times(0)

		_, err := service.Send(ctx, chat.SendMessageCommand{
			ConversationID: chat.ConversationIDFor("bob", "carol"),
			SenderID:       "alice",
			PartnerID:      "bob",
			Text:           "sneaky",
		})
		req.ErrorIs(err, domainerrors.ErrNotParticipant)
	})

	t.Run("should wrap store failures in ErrSendFailed", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		service, repository, _ := newChatService(ctrl)

		repository.EXPECT().AppendMessage(gomock.Any(), gomock.Any()).Return(chat.Message{}, errors.New("disk full")).Times(1)

		_, err := service.Send(ctx, chat.SendMessageCommand{ConversationID: id, SenderID: "alice", PartnerID: "bob", Text: "hello"})
		req.ErrorIs(err, domainerrors.ErrSendFailed)
		req.Contains(err.Error(), "disk full")
	})
}

func TestChatService_ConversationID_And_ResolveProfile(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	service, _, resolver := newChatService(ctrl)

	req.Equal(service.ConversationID("bob", "alice"), service.ConversationID("alice", "bob"))

	resolver.EXPECT().ResolveProfile(gomock.Any(), "bob").Return(chat.Profile{ID: "bob", DisplayName: "Bob"}, nil)
	profile, err := service.ResolveProfile(context.Background(), "bob")
	req.NoError(err)
	req.Equal("Bob", profile.DisplayName)
}

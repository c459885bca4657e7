package server

import (
	"alumni-chat/auth"
	"alumni-chat/domain/chat"
	"alumni-chat/infrastructure/grpc/chatapi"
	"alumni-chat/mocks"
	"context"
	"errors"
	"testing"
	"time"

	domainerrors "alumni-chat/errors"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func asUser(userID string) context.Context {
	return context.WithValue(context.Background(), auth.UserIDKey, userID)
}

func TestChatServer_Send(t *testing.T) {
	t.Run("should send as the authenticated user", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		service := mocks.NewMockIChatService(ctrl)
		server := NewChatServer(logs.GetLoggerFromString("DEBUG"), service, nil, 4)
		id := chat.ConversationIDFor("alice", "bob")
		stored := chat.Message{ID: uuid.New(), ConversationID: id, SenderID: "alice", Text: "hi", CreatedAt: time.Now().UTC()}

		service.EXPECT().ConversationID("alice", "bob").Return(id)
		service.EXPECT().Send(gomock.Any(), chat.SendMessageCommand{
			ConversationID: id, SenderID: "alice", PartnerID: "bob", Text: "hi",
		}).Return(stored, nil)

		res, err := server.Send(asUser("alice"), &chatapi.SendRequest{PartnerID: "bob", Text: "hi"})
		req.NoError(err)
		req.Equal(stored.ID.String(), res.Message.ID)
		req.Equal("alice_bob", res.Message.ConversationID)
	})

	t.Run("should map domain errors to status codes", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		service := mocks.NewMockIChatService(ctrl)
		server := NewChatServer(logs.GetLoggerFromString("DEBUG"), service, nil, 4)

		service.EXPECT().Send(gomock.Any(), gomock.Any()).
			Return(chat.Message{}, errors.Join(domainerrors.ErrSendFailed, errors.New("disk full")))

		_, err := server.Send(asUser("alice"), &chatapi.SendRequest{ConversationID: "alice_bob", PartnerID: "bob", Text: "hi"})
		req.Equal(codes.Unavailable, status.Code(err))
	})

	t.Run("should refuse calls without a user", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		service := mocks.NewMockIChatService(ctrl)
		server := NewChatServer(logs.GetLoggerFromString("DEBUG"), service, nil, 4)

		service.EXPECT().Send(gomock.Any(), gomock.Any()).Times(0)

		_, err := server.Send(context.Background(), &chatapi.SendRequest{PartnerID: "bob", Text: "hi"})
		req.Equal(codes.Unauthenticated, status.Code(err))
	})
}

func TestChatServer_ConversationID(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	service := mocks.NewMockIChatService(ctrl)
	server := NewChatServer(logs.GetLoggerFromString("DEBUG"), service, nil, 4)

	service.EXPECT().ConversationID("bob", "alice").Return(chat.ConversationIDFor("bob", "alice"))

	res, err := server.ConversationID(context.Background(), &chatapi.ConversationIDRequest{A: "bob", B: "alice"})
	req.NoError(err)
	req.Equal("alice_bob", res.ConversationID)

	_, err = server.ConversationID(context.Background(), &chatapi.ConversationIDRequest{A: "bob", B: " "})
	req.Equal(codes.InvalidArgument, status.Code(err))
}

type fakeMessagesStream struct {
	chatapi.ChatService_SubscribeMessagesServer
	ctx context.Context
}

func (f fakeMessagesStream) Context() context.Context { return f.ctx }

func TestChatServer_SubscribeMessages_Rejects_Strangers(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	service := mocks.NewMockIChatService(ctrl)
	server := NewChatServer(logs.GetLoggerFromString("DEBUG"), service, nil, 4)

	service.EXPECT().SubscribeMessages(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	err := server.SubscribeMessages(&chatapi.SubscribeMessagesRequest{ConversationID: "alice_bob"},
		fakeMessagesStream{ctx: asUser("carol")})
	req.Equal(codes.PermissionDenied, status.Code(err))

	err = server.SubscribeMessages(&chatapi.SubscribeMessagesRequest{ConversationID: "garbage"},
		fakeMessagesStream{ctx: asUser("carol")})
	req.Equal(codes.PermissionDenied, status.Code(err))
}

func TestChatServer_UpdateProfile(t *testing.T) {
	t.Run("should update the profile of the caller only", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		profiles := mocks.NewMockIProfileService(ctrl)
		server := NewChatServer(logs.GetLoggerFromString("DEBUG"), mocks.NewMockIChatService(ctrl), profiles, 4)

		profiles.EXPECT().UpdateProfile(gomock.Any(), chat.Profile{
			ID: "alice", DisplayName: "Alice", AvatarRef: "a.png", Title: "Class of 2010",
		}).Return(nil)

		res, err := server.UpdateProfile(asUser("alice"), &chatapi.UpdateProfileRequest{
			DisplayName: "Alice", AvatarRef: "a.png", Title: "Class of 2010",
		})
		req.NoError(err)
		req.Equal("alice", res.Profile.ID)
		req.Equal("Alice", res.Profile.DisplayName)
	})

	t.Run("should map store failures", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		profiles := mocks.NewMockIProfileService(ctrl)
		server := NewChatServer(logs.GetLoggerFromString("DEBUG"), mocks.NewMockIChatService(ctrl), profiles, 4)

		profiles.EXPECT().UpdateProfile(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

		_, err := server.UpdateProfile(asUser("alice"), &chatapi.UpdateProfileRequest{DisplayName: "Alice"})
		req.Equal(codes.Internal, status.Code(err))
	})
}

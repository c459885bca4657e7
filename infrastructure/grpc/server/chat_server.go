package server

import (
	"alumni-chat/auth"
	"alumni-chat/domain/chat"
	"alumni-chat/errors"
	"alumni-chat/infrastructure/grpc/chatapi"
	"alumni-chat/projection"
	"alumni-chat/services"
	"context"
	"log/slog"
	"strings"
)

type ChatServer struct {
	log                  *slog.Logger
	chatService          services.IChatService
	profileService       services.IProfileService
	connectionBufferSize int
}

func NewChatServer(log *slog.Logger, chatService services.IChatService,
	profileService services.IProfileService, connectionBufferSize int) *ChatServer {
	return &ChatServer{
		log:                  log,
		chatService:          chatService,
		profileService:       profileService,
		connectionBufferSize: connectionBufferSize,
	}
}

// PublicMethods can be called without a token.
var PublicMethods = []string{chatapi.ChatService_ConversationID_FullMethodName}

func (s *ChatServer) ConversationID(_ context.Context, req *chatapi.ConversationIDRequest) (*chatapi.ConversationIDResponse, error) {
	if strings.TrimSpace(req.A) == "" || strings.TrimSpace(req.B) == "" {
		return nil, errors.MapToGRPCError(errors.ErrNoTarget)
	}
	return &chatapi.ConversationIDResponse{
		ConversationID: s.chatService.ConversationID(req.A, req.B).String(),
	}, nil
}

func (s *ChatServer) ResolveProfile(ctx context.Context, req *chatapi.ResolveProfileRequest) (*chatapi.ProfileResponse, error) {
	profile, err := s.chatService.ResolveProfile(ctx, req.ProfileID)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &chatapi.ProfileResponse{Profile: chatapi.FromProfile(profile)}, nil
}

// UpdateProfile replaces the profile of the calling user.
func (s *ChatServer) UpdateProfile(ctx context.Context, req *chatapi.UpdateProfileRequest) (*chatapi.ProfileResponse, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	profile := chat.Profile{ID: userID, DisplayName: req.DisplayName, AvatarRef: req.AvatarRef, Title: req.Title}
	if err := s.profileService.UpdateProfile(ctx, profile); err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &chatapi.ProfileResponse{Profile: chatapi.FromProfile(profile)}, nil
}

// Send posts a message on behalf of the caller and returns it as stored,
// with its server timestamp.
func (s *ChatServer) Send(ctx context.Context, req *chatapi.SendRequest) (*chatapi.SendResponse, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	conversationID := chat.ConversationID(req.ConversationID)
	if conversationID == "" {
		conversationID = s.chatService.ConversationID(userID, req.PartnerID)
	}
	message, err := s.chatService.Send(ctx, chat.SendMessageCommand{
		ConversationID: conversationID,
		SenderID:       userID,
		PartnerID:      req.PartnerID,
		Text:           req.Text,
	})
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &chatapi.SendResponse{Message: chatapi.FromMessage(message)}, nil
}

// SubscribeConversations streams the conversation list of the caller,
// one full list per frame, until the client goes away.
func (s *ChatServer) SubscribeConversations(_ *chatapi.SubscribeConversationsRequest,
	stream chatapi.ChatService_SubscribeConversationsServer) error {
	ctx, cancel := context.WithCancel(stream.Context())
	defer cancel()
	userID, err := callerID(ctx)
	if err != nil {
		return err
	}

	frames := make(chan *chatapi.ConversationsFrame, s.connectionBufferSize)
	h := s.chatService.SubscribeConversations(ctx, userID, func(items []chat.PersistedItem) {
		forward(ctx, frames, &chatapi.ConversationsFrame{Items: chatapi.FromItems(items)})
	})
	return pump(ctx, cancel, s.log.With("user_id", userID), h, frames, stream.Send)
}

// SubscribeMessages streams the messages of one conversation of the caller.
func (s *ChatServer) SubscribeMessages(req *chatapi.SubscribeMessagesRequest,
	stream chatapi.ChatService_SubscribeMessagesServer) error {
	ctx, cancel := context.WithCancel(stream.Context())
	defer cancel()
	userID, err := callerID(ctx)
	if err != nil {
		return err
	}
	conversationID := chat.ConversationID(req.ConversationID)
	first, second, ok := conversationID.Participants()
	if !ok || (first != userID && second != userID) {
		return errors.MapToGRPCError(errors.ErrNotParticipant)
	}

	frames := make(chan *chatapi.MessagesFrame, s.connectionBufferSize)
	h := s.chatService.SubscribeMessages(ctx, conversationID, func(messages []chat.Message) {
		forward(ctx, frames, &chatapi.MessagesFrame{Messages: chatapi.FromMessages(messages)})
	})
	return pump(ctx, cancel, s.log.With("user_id", userID, "conversation_id", conversationID), h, frames, stream.Send)
}

func callerID(ctx context.Context) (string, error) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return "", errors.MapToGRPCError(errors.ErrUnauthenticated)
	}
	return userID, nil
}

// forward hands a frame from the subscription goroutine to the stream
// goroutine. It blocks while the client is slow, which coalesces further
// changes on the subscription side.
func forward[T any](ctx context.Context, frames chan<- *T, frame *T) {
	select {
	case frames <- frame:
	case <-ctx.Done():
	}
}

// pump writes frames to the stream until the client disconnects, the stream
// breaks or the subscription fails. The subscription is fully stopped before
// pump returns, so nothing sends after the handler exits.
func pump[T any](ctx context.Context, cancel context.CancelFunc, log *slog.Logger,
	h *projection.Handle, frames <-chan *T, send func(*T) error) error {
	defer h.Wait()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			log.Debug("Client disconnected")
			return nil
		case <-h.Done():
			if ctx.Err() != nil {
				return nil
			}
			return errors.MapToGRPCError(errors.ErrSubscriptionFailed)
		case frame := <-frames:
			if err := send(frame); err != nil {
				log.Error("Failed to push frame to stream", "error", err)
				return err
			}
		}
	}
}

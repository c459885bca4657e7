//go:generate go run go.uber.org/mock/mockgen -source=chat_service.go -destination=../mocks/mock_chat_service.go -package=mocks
package services

import (
	"alumni-chat/contract"
	"alumni-chat/domain/chat"
	"alumni-chat/infrastructure/storage"
	"alumni-chat/observability"
	"alumni-chat/projection"
	"context"
	"fmt"
	"log/slog"

	domainerrors "alumni-chat/errors"
)

type IChatService interface {
	ConversationID(a, b string) chat.ConversationID
	ResolveProfile(ctx context.Context, id string) (chat.Profile, error)
	Send(ctx context.Context, cmd chat.SendMessageCommand) (chat.Message, error)
	SubscribeConversations(ctx context.Context, userID string, callback func([]chat.PersistedItem)) *projection.Handle
	SubscribeMessages(ctx context.Context, id chat.ConversationID, callback func([]chat.Message)) *projection.Handle
}

// ChatService is the entry point a screen talks to.
type ChatService struct {
	log        *slog.Logger
	repository storage.IChatRepository
	resolver   contract.IProfileResolver
	inbox      *projection.Inbox
	timeline   *projection.Timeline
}

func NewChatService(log *slog.Logger, registry contract.IRegistry,
	repository storage.IChatRepository, resolver contract.IProfileResolver) *ChatService {
	return &ChatService{
		log:        log,
		repository: repository,
		resolver:   resolver,
		inbox:      projection.NewInbox(log, registry, repository, resolver),
		timeline:   projection.NewTimeline(log, registry, repository),
	}
}

func (s *ChatService) ConversationID(a, b string) chat.ConversationID {
	return chat.ConversationIDFor(a, b)
}

func (s *ChatService) ResolveProfile(ctx context.Context, id string) (chat.Profile, error) {
	return s.resolver.ResolveProfile(ctx, id)
}

// Send validates the command and appends the message. Nothing is written
// when validation fails. A store failure is reported once, never retried.
func (s *ChatService) Send(ctx context.Context, cmd chat.SendMessageCommand) (chat.Message, error) {
	if cmd.TrimmedText() == "" {
		observability.MessagesSent.WithLabelValues("rejected").Inc()
		return chat.Message{}, domainerrors.ErrEmptyMessage
	}
	if err := cmd.ValidateTarget(); err != nil {
		observability.MessagesSent.WithLabelValues("rejected").Inc()
		return chat.Message{}, fmt.Errorf("%w: %v", domainerrors.ErrNoTarget, err)
	}
	if cmd.ConversationID != chat.ConversationIDFor(cmd.SenderID, cmd.PartnerID) {
		observability.MessagesSent.WithLabelValues("rejected").Inc()
		return chat.Message{}, domainerrors.ErrNotParticipant
	}

	message, err := s.repository.AppendMessage(ctx, cmd)
	if err != nil {
		s.log.Error("Send failed", "conversation_id", cmd.ConversationID, "sender_id", cmd.SenderID, "error", err)
		observability.MessagesSent.WithLabelValues("failed").Inc()
		return chat.Message{}, fmt.Errorf("%w: %v", domainerrors.ErrSendFailed, err)
	}
	s.log.Debug("Message sent", "conversation_id", message.ConversationID, "message_id", message.ID)
	observability.MessagesSent.WithLabelValues("accepted").Inc()
	return message, nil
}

func (s *ChatService) SubscribeConversations(ctx context.Context, userID string, callback func([]chat.PersistedItem)) *projection.Handle {
	return s.inbox.Subscribe(ctx, userID, callback)
}

func (s *ChatService) SubscribeMessages(ctx context.Context, id chat.ConversationID, callback func([]chat.Message)) *projection.Handle {
	return s.timeline.Subscribe(ctx, id, callback)
}

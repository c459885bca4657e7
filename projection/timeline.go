package projection

import (
	"alumni-chat/contract"
	"alumni-chat/domain/chat"
	"alumni-chat/domain/event"
	"alumni-chat/infrastructure/storage"
	"context"
	"log/slog"
)

// Timeline is the live message stream of one conversation, oldest first.
type Timeline struct {
	log        *slog.Logger
	registry   contract.IRegistry
	repository storage.IChatRepository
}

func NewTimeline(log *slog.Logger, registry contract.IRegistry, repository storage.IChatRepository) *Timeline {
	return &Timeline{log: log, registry: registry, repository: repository}
}

// Subscribe delivers the full ordered message list now and after every append.
// A conversation without messages yields an empty list.
func (t *Timeline) Subscribe(ctx context.Context, id chat.ConversationID, callback func([]chat.Message)) *Handle {
	query := liveQuery[[]chat.Message]{
		kind:     "timeline",
		log:      t.log.With("conversation_id", id),
		registry: t.registry,
		topics:   []string{event.ThreadTopic(id)},
		refresh: func(ctx context.Context) ([]chat.Message, error) {
			messages, err := t.repository.ListMessages(ctx, id)
			if messages == nil && err == nil {
				messages = []chat.Message{}
			}
			return messages, err
		},
	}
	return query.start(ctx, callback)
}

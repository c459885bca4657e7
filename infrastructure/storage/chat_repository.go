//go:generate go run go.uber.org/mock/mockgen -source=chat_repository.go -destination=../../mocks/mock_chat_repository.go -package=mocks
package storage

import (
	"alumni-chat/contract"
	"alumni-chat/domain/chat"
	"alumni-chat/domain/event"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	domainerrors "alumni-chat/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

const maxTxnAttempts = 5

type IChatRepository interface {
	AppendMessage(ctx context.Context, cmd chat.SendMessageCommand) (chat.Message, error)
	GetConversation(ctx context.Context, id chat.ConversationID) (chat.Conversation, error)
	ListConversations(ctx context.Context, userID string) ([]chat.Conversation, error)
	ListMessages(ctx context.Context, id chat.ConversationID) ([]chat.Message, error)
}

type ChatRepository struct {
	db        *badger.DB
	log       *slog.Logger
	clock     *ServerClock
	publisher contract.IPublisher
}

func NewChatRepository(db *badger.DB, log *slog.Logger, clock *ServerClock, publisher contract.IPublisher) ChatRepository {
	return ChatRepository{db: db, log: log, clock: clock, publisher: publisher}
}

// AppendMessage stores a new message and upserts the conversation summary in
// a single transaction, creating the conversation on the first message.
// The summary only moves forward: an older timestamp never overwrites a newer one.
// Change events are published once the transaction is committed.
func (r ChatRepository) AppendMessage(ctx context.Context, cmd chat.SendMessageCommand) (chat.Message, error) {
	var message chat.Message
	var conversation chat.Conversation

	err := r.update(func(txn *badger.Txn) error {
		message = chat.Message{
			ID:             uuid.New(),
			ConversationID: cmd.ConversationID,
			SenderID:       cmd.SenderID,
			Text:           cmd.TrimmedText(),
			CreatedAt:      r.clock.Next(),
		}

		current, found, err := r.readConversation(txn, cmd.ConversationID)
		if err != nil {
			return err
		}
		if !found {
			current = chat.Conversation{
				ID:           cmd.ConversationID,
				Participants: [2]string{cmd.SenderID, cmd.PartnerID},
			}
		}
		if !message.CreatedAt.Before(current.LastActivityAt) {
			current.LastMessageText = message.Text
			current.LastActivityAt = message.CreatedAt
		}
		conversation = current

		messageBytes, err := json.Marshal(fromMessage(message))
		if err != nil {
			return err
		}
		conversationBytes, err := json.Marshal(fromConversation(conversation))
		if err != nil {
			return err
		}
		if err = txn.Set(messageKey(message), messageBytes); err != nil {
			return err
		}
		if err = txn.Set(conversationKey(conversation.ID), conversationBytes); err != nil {
			return err
		}
		for _, participant := range conversation.Participants {
			if err = txn.Set(inboxKey(participant, conversation.ID), nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return chat.Message{}, err
	}

	r.publisher.Publish(ctx, event.MessageAppended{Message: message})
	for _, participant := range conversation.Participants {
		r.publisher.Publish(ctx, event.ConversationUpserted{Participant: participant, Conversation: conversation})
	}
	return message, nil
}

// GetConversation returns ErrConversationNotFound when no message was ever sent.
func (r ChatRepository) GetConversation(_ context.Context, id chat.ConversationID) (chat.Conversation, error) {
	var conversation chat.Conversation
	err := r.db.View(func(txn *badger.Txn) error {
		c, found, err := r.readConversation(txn, id)
		if err != nil {
			return err
		}
		if !found {
			return domainerrors.ErrConversationNotFound
		}
		conversation = withReadDefaults(c)
		return nil
	})
	return conversation, err
}

// ListConversations scans the inbox index of userID and returns the
// conversations most recently active first.
func (r ChatRepository) ListConversations(_ context.Context, userID string) ([]chat.Conversation, error) {
	var conversations []chat.Conversation
	err := r.db.View(func(txn *badger.Txn) error {
		prefixStr := inboxPrefix(userID)
		prefix := []byte(prefixStr)
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			id := chat.ConversationID(it.Item().Key()[len(prefixStr):])
			c, found, err := r.readConversation(txn, id)
			if err != nil {
				return err
			}
			if !found {
				r.log.Warn("Inbox entry without conversation", "user_id", userID, "conversation_id", id)
				continue
			}
			conversations = append(conversations, withReadDefaults(c))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	chat.SortByActivity(conversations)
	return conversations, nil
}

// ListMessages returns every message of a conversation, oldest first.
// Records that can't be decoded are skipped.
func (r ChatRepository) ListMessages(_ context.Context, id chat.ConversationID) ([]chat.Message, error) {
	var messages []chat.Message
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(messagePrefix(id))
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			key := string(item.KeyCopy(nil))
			err := item.Value(func(value []byte) error {
				message, err := toMessage(id, key, value)
				if err != nil {
					r.log.Warn("Skipping malformed message", "key", key, "error", err)
					return nil
				}
				messages = append(messages, message)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return messages, err
}

// readConversation decodes a conversation record. A record that can't be
// decoded at all is rebuilt from its id so a send can repair it.
func (r ChatRepository) readConversation(txn *badger.Txn, id chat.ConversationID) (chat.Conversation, bool, error) {
	item, err := txn.Get(conversationKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return chat.Conversation{}, false, nil
	}
	if err != nil {
		return chat.Conversation{}, false, err
	}

	var conversation chat.Conversation
	err = item.Value(func(value []byte) error {
		c, err := toConversation(id, value)
		if err != nil {
			r.log.Warn("Malformed conversation record, rebuilding from id", "conversation_id", id, "error", err)
			c = chat.Conversation{ID: id}
			if first, second, ok := id.Participants(); ok {
				c.Participants = [2]string{first, second}
			}
		}
		conversation = c
		return nil
	})
	return conversation, true, err
}

// update runs fn in a read-write transaction, retrying when a concurrent
// writer touched the same conversation first.
func (r ChatRepository) update(fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 1; attempt <= maxTxnAttempts; attempt++ {
		err = r.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		r.log.Debug(fmt.Sprintf("Transaction conflict, attempt %d/%d", attempt, maxTxnAttempts))
	}
	return err
}

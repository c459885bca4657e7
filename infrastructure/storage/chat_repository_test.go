package storage

import (
	"alumni-chat/domain/chat"
	"alumni-chat/domain/event"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	domainerrors "alumni-chat/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

type discardPublisher struct{}

func (discardPublisher) Publish(context.Context, event.ChangeEvent) {}

type recordingPublisher struct {
	topics []string
}

func (p *recordingPublisher) Publish(_ context.Context, e event.ChangeEvent) {
	p.topics = append(p.topics, e.Topic())
}

func openDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.WARNING))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func send(from, to, text string) chat.SendMessageCommand {
	return chat.SendMessageCommand{
		ConversationID: chat.ConversationIDFor(from, to),
		SenderID:       from,
		PartnerID:      to,
		Text:           text,
	}
}

func TestChatRepository_Both_Directions_Share_One_Conversation(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewChatRepository(openDB(t), logs.GetLoggerFromString("DEBUG"), NewServerClock(), discardPublisher{})

	// Given alice writes to bob and bob answers
	first, err := repository.AppendMessage(ctx, send("alice", "bob", "  Hello Bob  "))
	req.NoError(err)
	second, err := repository.AppendMessage(ctx, send("bob", "alice", "Hi Alice"))
	req.NoError(err)

	// Then both list exactly one conversation
	for _, user := range []string{"alice", "bob"} {
		conversations, err := repository.ListConversations(ctx, user)
		req.NoError(err)
		req.Len(conversations, 1)
		req.Equal(chat.ConversationIDFor("alice", "bob"), conversations[0].ID)
		req.Equal("Hi Alice", conversations[0].LastMessageText)
		req.True(conversations[0].LastActivityAt.Equal(second.CreatedAt))
	}

	// And the messages come back oldest first, text trimmed
	messages, err := repository.ListMessages(ctx, chat.ConversationIDFor("alice", "bob"))
	req.NoError(err)
	req.Len(messages, 2)
	req.Equal(first.ID, messages[0].ID)
	req.Equal("Hello Bob", messages[0].Text)
	req.Equal(second.ID, messages[1].ID)
	req.True(messages[0].CreatedAt.Before(messages[1].CreatedAt))

	// And the participants are the sender and the partner of the first message
	conversation, err := repository.GetConversation(ctx, chat.ConversationIDFor("alice", "bob"))
	req.NoError(err)
	req.Equal([2]string{"alice", "bob"}, conversation.Participants)
}

func TestChatRepository_Lists_Are_Sorted_By_Activity(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewChatRepository(openDB(t), logs.GetLoggerFromString("DEBUG"), NewServerClock(), discardPublisher{})

	for _, partner := range []string{"bob", "carol", "dave"} {
		_, err := repository.AppendMessage(ctx, send("alice", partner, "hello "+partner))
		req.NoError(err)
	}
	_, err := repository.AppendMessage(ctx, send("carol", "alice", "back to the top"))
	req.NoError(err)

	conversations, err := repository.ListConversations(ctx, "alice")
	req.NoError(err)
	req.Len(conversations, 3)
	req.Equal("alice_carol", conversations[0].ID.String())
	req.Equal("alice_dave", conversations[1].ID.String())
	req.Equal("alice_bob", conversations[2].ID.String())

	others, err := repository.ListConversations(ctx, "bob")
	req.NoError(err)
	req.Len(others, 1)

	none, err := repository.ListConversations(ctx, "nobody")
	req.NoError(err)
	req.Empty(none)
}

func TestChatRepository_Summary_Never_Moves_Backwards(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	db := openDB(t)
	repository := NewChatRepository(db, logs.GetLoggerFromString("DEBUG"), NewServerClock(), discardPublisher{})
	id := chat.ConversationIDFor("alice", "bob")

	// Given a summary written by a clock ahead of ours
	future := time.Now().UTC().Add(time.Hour)
	raw, err := json.Marshal(fromConversation(chat.Conversation{
		ID:              id,
		Participants:    [2]string{"alice", "bob"},
		LastMessageText: "from the future",
		LastActivityAt:  future,
	}))
	req.NoError(err)
	req.NoError(db.Update(func(txn *badger.Txn) error { return txn.Set(conversationKey(id), raw) }))

	// When an older message is appended
	_, err = repository.AppendMessage(ctx, send("bob", "alice", "late"))
	req.NoError(err)

	// Then the summary keeps the newer state
	conversation, err := repository.GetConversation(ctx, id)
	req.NoError(err)
	req.Equal("from the future", conversation.LastMessageText)
	req.True(conversation.LastActivityAt.Equal(future))
}

func TestChatRepository_Publishes_After_Commit(t *testing.T) {
	req := require.New(t)
	publisher := &recordingPublisher{}
	repository := NewChatRepository(openDB(t), logs.GetLoggerFromString("DEBUG"), NewServerClock(), publisher)

	_, err := repository.AppendMessage(context.Background(), send("alice", "bob", "hi"))
	req.NoError(err)

	req.ElementsMatch([]string{"thread:alice_bob", "inbox:alice", "inbox:bob"}, publisher.topics)
}

func TestChatRepository_Tolerates_Malformed_Records(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	db := openDB(t)
	repository := NewChatRepository(db, logs.GetLoggerFromString("DEBUG"), NewServerClock(), discardPublisher{})
	id := chat.ConversationIDFor("alice", "bob")

	valid, err := repository.AppendMessage(ctx, send("alice", "bob", "valid"))
	req.NoError(err)

	// Given a record that isn't JSON and one missing its id and timestamp
	at := valid.CreatedAt.Add(time.Second)
	garbageKey := fmt.Sprintf("%s%019d:%s", messagePrefix(id), at.UnixNano(), uuid.NewString())
	partialKey := fmt.Sprintf("%s%019d:%s", messagePrefix(id), at.Add(time.Second).UnixNano(), "not-a-uuid")
	req.NoError(db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(garbageKey), []byte("{not json")); err != nil {
			return err
		}
		return txn.Set([]byte(partialKey), []byte(`{"sender_id":"bob"}`))
	}))

	// When the thread is listed
	messages, err := repository.ListMessages(ctx, id)

	// Then the garbage is skipped and the partial record gets defaults
	req.NoError(err)
	req.Len(messages, 2)
	req.Equal("valid", messages[0].Text)
	req.Equal("bob", messages[1].SenderID)
	req.Empty(messages[1].Text)
	req.NotEqual(uuid.Nil, messages[1].ID)
	req.Equal(id, messages[1].ConversationID)
	req.True(messages[1].CreatedAt.Equal(time.Unix(0, at.Add(time.Second).UnixNano()).UTC()))
}

func TestChatRepository_Send_Updates_Summary_Without_Timestamp(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	db := openDB(t)
	repository := NewChatRepository(db, logs.GetLoggerFromString("DEBUG"), NewServerClock(), discardPublisher{})
	id := chat.ConversationIDFor("alice", "bob")

	// Given a summary record that lost its timestamp
	req.NoError(db.Update(func(txn *badger.Txn) error {
		return txn.Set(conversationKey(id), []byte(`{"participants":["alice","bob"],"last_message_text":"old"}`))
	}))

	// When a message is sent into it
	message, err := repository.AppendMessage(ctx, send("bob", "alice", "new"))
	req.NoError(err)

	// Then the summary follows the new message
	conversation, err := repository.GetConversation(ctx, id)
	req.NoError(err)
	req.Equal("new", conversation.LastMessageText)
	req.True(conversation.LastActivityAt.Equal(message.CreatedAt))
}

func TestChatRepository_Ids_Sharing_A_Prefix_Stay_Apart(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewChatRepository(openDB(t), logs.GetLoggerFromString("DEBUG"), NewServerClock(), discardPublisher{})

	// Given conversations whose ids extend each other past a ':'
	_, err := repository.AppendMessage(ctx, send("a", "b:c", "for b:c"))
	req.NoError(err)
	_, err = repository.AppendMessage(ctx, send("a:x", "z", "for a:x"))
	req.NoError(err)

	// When the shorter ids are read
	messages, err := repository.ListMessages(ctx, chat.ConversationIDFor("a", "b"))
	req.NoError(err)
	conversations, err := repository.ListConversations(ctx, "a")
	req.NoError(err)

	// Then nothing of the longer ids shows up
	req.Empty(messages)
	req.Len(conversations, 1)
	req.Equal(chat.ConversationIDFor("a", "b:c"), conversations[0].ID)

	messages, err = repository.ListMessages(ctx, chat.ConversationIDFor("a", "b:c"))
	req.NoError(err)
	req.Len(messages, 1)
	req.Equal("for b:c", messages[0].Text)
}

func TestParseKeys(t *testing.T) {
	req := require.New(t)
	id := chat.ConversationIDFor("a", "b:c")
	message := chat.Message{ID: uuid.New(), ConversationID: id, CreatedAt: time.Unix(0, 42)}

	parsedID, nanos, messageID, ok := ParseMessageKey(string(messageKey(message)))
	req.True(ok)
	req.Equal(id, parsedID)
	req.Equal(int64(42), nanos)
	req.Equal(message.ID.String(), messageID)

	userID, inboxID, ok := ParseInboxKey(string(inboxKey("b:c", id)))
	req.True(ok)
	req.Equal("b:c", userID)
	req.Equal(id, inboxID)

	_, _, _, ok = ParseMessageKey("msg:99:a_b:1:x")
	req.False(ok)
	_, _, ok = ParseInboxKey("inbox:alice:alice_bob")
	req.False(ok)
}

func TestChatRepository_Repairs_Conversation_Participants(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	db := openDB(t)
	repository := NewChatRepository(db, logs.GetLoggerFromString("DEBUG"), NewServerClock(), discardPublisher{})
	id := chat.ConversationIDFor("alice", "bob")

	// Given a conversation record without participants nor timestamp
	req.NoError(db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(conversationKey(id), []byte(`{"last_message_text":"old"}`)); err != nil {
			return err
		}
		return txn.Set(inboxKey("alice", id), nil)
	}))

	conversations, err := repository.ListConversations(ctx, "alice")
	req.NoError(err)
	req.Len(conversations, 1)
	req.Equal([2]string{"alice", "bob"}, conversations[0].Participants)
	req.False(conversations[0].LastActivityAt.IsZero())

	// Given the record is then corrupted entirely, a new send rebuilds it
	req.NoError(db.Update(func(txn *badger.Txn) error { return txn.Set(conversationKey(id), []byte("###")) }))
	_, err = repository.AppendMessage(ctx, send("bob", "alice", "repaired"))
	req.NoError(err)

	conversation, err := repository.GetConversation(ctx, id)
	req.NoError(err)
	req.Equal("repaired", conversation.LastMessageText)
	req.Equal([2]string{"alice", "bob"}, conversation.Participants)
}

func TestChatRepository_GetConversation_Not_Found(t *testing.T) {
	req := require.New(t)
	repository := NewChatRepository(openDB(t), logs.GetLoggerFromString("DEBUG"), NewServerClock(), discardPublisher{})

	_, err := repository.GetConversation(context.Background(), chat.ConversationIDFor("x", "y"))
	req.ErrorIs(err, domainerrors.ErrConversationNotFound)

	messages, err := repository.ListMessages(context.Background(), chat.ConversationIDFor("x", "y"))
	req.NoError(err)
	req.Empty(messages)
}

func TestChatRepository_Concurrent_Senders(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewChatRepository(openDB(t), logs.GetLoggerFromString("INFO"), NewServerClock(), discardPublisher{})

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repository.AppendMessage(ctx, send(fmt.Sprintf("user-%02d", i), "hub", "ping"))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		req.NoError(err)
	}

	conversations, err := repository.ListConversations(ctx, "hub")
	req.NoError(err)
	req.Len(conversations, 20)
	for i := 1; i < len(conversations); i++ {
		req.False(conversations[i].LastActivityAt.After(conversations[i-1].LastActivityAt))
	}
}

func TestServerClock_Is_Strictly_Increasing(t *testing.T) {
	req := require.New(t)
	pinned := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := NewServerClockFrom(func() time.Time { return pinned })

	previous := clock.Next()
	for i := 0; i < 100; i++ {
		next := clock.Next()
		req.True(next.After(previous))
		previous = next
	}
}

package storage

import (
	"alumni-chat/domain/chat"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Records are stored as JSON. Decoding is tolerant: a missing field gets a
// default value instead of failing the whole list it belongs to.

type diskConversation struct {
	ID              string   `json:"id"`
	Participants    []string `json:"participants"`
	LastMessageText string   `json:"last_message_text"`
	LastActivityAt  int64    `json:"last_activity_at"`
}

type diskMessage struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversation_id"`
	SenderID       string `json:"sender_id"`
	Text           string `json:"text"`
	CreatedAt      int64  `json:"created_at"`
}

type diskProfile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	AvatarRef   string `json:"avatar_ref"`
	Title       string `json:"title"`
}

func conversationKey(id chat.ConversationID) []byte {
	return []byte("conv:" + string(id))
}

// Ids inside scanned keys are length-prefixed ("{len}:{id}") so the prefix
// of one id never matches the keys of a longer id sharing its first bytes.
func segment(id string) string {
	return strconv.Itoa(len(id)) + ":" + id
}

// splitSegment reads a length-prefixed id from the start of s and returns it
// with what follows its trailing ':'.
func splitSegment(s string) (id, rest string, ok bool) {
	sep := strings.IndexByte(s, ':')
	if sep <= 0 {
		return "", "", false
	}
	n, err := strconv.Atoi(s[:sep])
	if err != nil || n < 0 || len(s) < sep+1+n {
		return "", "", false
	}
	id = s[sep+1 : sep+1+n]
	rest = s[sep+1+n:]
	if rest != "" {
		if rest[0] != ':' {
			return "", "", false
		}
		rest = rest[1:]
	}
	return id, rest, true
}

func inboxPrefix(userID string) string {
	return "inbox:" + segment(userID) + ":"
}

func inboxKey(userID string, id chat.ConversationID) []byte {
	return []byte(inboxPrefix(userID) + string(id))
}

func messagePrefix(id chat.ConversationID) string {
	return "msg:" + segment(string(id)) + ":"
}

// messageKey is formatted as "msg:{len}:{conversation}:{timestamp_padded}:{uuid}".
// The 19-digit zero padding makes lexicographic order chronological and the
// uuid keeps two messages of the same nanosecond apart.
func messageKey(m chat.Message) []byte {
	return []byte(fmt.Sprintf("%s%019d:%s", messagePrefix(m.ConversationID), m.CreatedAt.UnixNano(), m.ID))
}

// ParseMessageKey splits a message key into its conversation, timestamp and
// message id parts.
func ParseMessageKey(key string) (id chat.ConversationID, nanos int64, messageID string, ok bool) {
	rest, found := strings.CutPrefix(key, "msg:")
	if !found {
		return "", 0, "", false
	}
	conversation, rest, ok := splitSegment(rest)
	if !ok {
		return "", 0, "", false
	}
	ts, messageID, found := strings.Cut(rest, ":")
	if !found {
		return "", 0, "", false
	}
	nanos, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return "", 0, "", false
	}
	return chat.ConversationID(conversation), nanos, messageID, true
}

// ParseInboxKey splits an inbox key into its owner and conversation.
func ParseInboxKey(key string) (userID string, id chat.ConversationID, ok bool) {
	rest, found := strings.CutPrefix(key, "inbox:")
	if !found {
		return "", "", false
	}
	userID, conversation, ok := splitSegment(rest)
	if !ok || conversation == "" {
		return "", "", false
	}
	return userID, chat.ConversationID(conversation), true
}

func profileKey(id string) []byte {
	return []byte("profile:" + id)
}

func fromConversation(c chat.Conversation) diskConversation {
	return diskConversation{
		ID:              string(c.ID),
		Participants:    []string{c.Participants[0], c.Participants[1]},
		LastMessageText: c.LastMessageText,
		LastActivityAt:  c.LastActivityAt.UnixNano(),
	}
}

// toConversation rebuilds a conversation, repairing the participant list
// from the id when it is missing. A missing timestamp is left zero; read
// paths substitute the current time through withReadDefaults.
func toConversation(id chat.ConversationID, raw []byte) (chat.Conversation, error) {
	var d diskConversation
	if err := json.Unmarshal(raw, &d); err != nil {
		return chat.Conversation{}, err
	}
	c := chat.Conversation{ID: id, LastMessageText: d.LastMessageText}
	if len(d.Participants) == 2 && d.Participants[0] != "" && d.Participants[1] != "" {
		c.Participants = [2]string{d.Participants[0], d.Participants[1]}
	} else if first, second, ok := id.Participants(); ok {
		c.Participants = [2]string{first, second}
	}
	if d.LastActivityAt > 0 {
		c.LastActivityAt = time.Unix(0, d.LastActivityAt).UTC()
	}
	return c, nil
}

func withReadDefaults(c chat.Conversation) chat.Conversation {
	if c.LastActivityAt.IsZero() {
		c.LastActivityAt = time.Now().UTC()
	}
	return c
}

func fromMessage(m chat.Message) diskMessage {
	return diskMessage{
		ID:             m.ID.String(),
		ConversationID: string(m.ConversationID),
		SenderID:       m.SenderID,
		Text:           m.Text,
		CreatedAt:      m.CreatedAt.UnixNano(),
	}
}

// toMessage decodes a message stored under key. The key is authoritative for
// the conversation and is the first fallback for the timestamp.
func toMessage(id chat.ConversationID, key string, raw []byte) (chat.Message, error) {
	var d diskMessage
	if err := json.Unmarshal(raw, &d); err != nil {
		return chat.Message{}, err
	}
	m := chat.Message{ConversationID: id, SenderID: d.SenderID, Text: d.Text}

	parsedID, err := uuid.Parse(d.ID)
	if err != nil {
		parsedID = uuid.NewSHA1(uuid.NameSpaceURL, []byte(key))
	}
	m.ID = parsedID

	switch {
	case d.CreatedAt > 0:
		m.CreatedAt = time.Unix(0, d.CreatedAt).UTC()
	default:
		m.CreatedAt = timestampFromKey(key)
	}
	return m, nil
}

func timestampFromKey(key string) time.Time {
	if _, ns, _, ok := ParseMessageKey(key); ok && ns > 0 {
		return time.Unix(0, ns).UTC()
	}
	return time.Now().UTC()
}

func fromProfile(p chat.Profile) diskProfile {
	return diskProfile{ID: p.ID, DisplayName: p.DisplayName, AvatarRef: p.AvatarRef, Title: p.Title}
}

func toProfile(id string, raw []byte) (chat.Profile, error) {
	var d diskProfile
	if err := json.Unmarshal(raw, &d); err != nil {
		return chat.Profile{}, err
	}
	return chat.Profile{ID: id, DisplayName: d.DisplayName, AvatarRef: d.AvatarRef, Title: d.Title}, nil
}

package chatapi

import (
	"alumni-chat/domain/chat"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type ConversationIDRequest struct {
	A string `json:"a"`
	B string `json:"b"`
}

type ConversationIDResponse struct {
	ConversationID string `json:"conversation_id"`
}

type ResolveProfileRequest struct {
	ProfileID string `json:"profile_id"`
}

type UpdateProfileRequest struct {
	DisplayName string `json:"display_name"`
	AvatarRef   string `json:"avatar_ref"`
	Title       string `json:"title"`
}

type ProfileResponse struct {
	Profile Profile `json:"profile"`
}

// SendRequest posts Text to PartnerID. ConversationID may be left empty,
// the server derives it from the caller and the partner.
type SendRequest struct {
	ConversationID string `json:"conversation_id,omitempty"`
	PartnerID      string `json:"partner_id"`
	Text           string `json:"text"`
}

type SendResponse struct {
	Message Message `json:"message"`
}

type SubscribeConversationsRequest struct{}

type ConversationsFrame struct {
	Items []ConversationItem `json:"items"`
}

type SubscribeMessagesRequest struct {
	ConversationID string `json:"conversation_id"`
}

type MessagesFrame struct {
	Messages []Message `json:"messages"`
}

type Profile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	AvatarRef   string `json:"avatar_ref"`
	Title       string `json:"title"`
}

type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"created_at"`
}

type ConversationItem struct {
	ConversationID  string    `json:"conversation_id"`
	Participants    []string  `json:"participants"`
	LastMessageText string    `json:"last_message_text"`
	LastActivityAt  time.Time `json:"last_activity_at"`
	Partner         Profile   `json:"partner"`
}

func FromProfile(p chat.Profile) Profile {
	return Profile{ID: p.ID, DisplayName: p.DisplayName, AvatarRef: p.AvatarRef, Title: p.Title}
}

func ToProfile(p Profile) chat.Profile {
	return chat.Profile{ID: p.ID, DisplayName: p.DisplayName, AvatarRef: p.AvatarRef, Title: p.Title}
}

func FromMessage(m chat.Message) Message {
	return Message{
		ID:             m.ID.String(),
		ConversationID: m.ConversationID.String(),
		SenderID:       m.SenderID,
		Text:           m.Text,
		CreatedAt:      m.CreatedAt,
	}
}

// ToMessage is lenient on the id: an unparsable one becomes uuid.Nil.
func ToMessage(m Message) chat.Message {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		id = uuid.Nil
	}
	return chat.Message{
		ID:             id,
		ConversationID: chat.ConversationID(m.ConversationID),
		SenderID:       m.SenderID,
		Text:           m.Text,
		CreatedAt:      m.CreatedAt,
	}
}

func FromMessages(messages []chat.Message) []Message {
	return lo.Map(messages, func(m chat.Message, _ int) Message {
		return FromMessage(m)
	})
}

func ToMessages(messages []Message) []chat.Message {
	return lo.Map(messages, func(m Message, _ int) chat.Message {
		return ToMessage(m)
	})
}

func FromItems(items []chat.PersistedItem) []ConversationItem {
	return lo.Map(items, func(item chat.PersistedItem, _ int) ConversationItem {
		return ConversationItem{
			ConversationID:  item.Conversation.ID.String(),
			Participants:    item.Conversation.Participants[:],
			LastMessageText: item.Conversation.LastMessageText,
			LastActivityAt:  item.Conversation.LastActivityAt,
			Partner:         FromProfile(item.PartnerInfo),
		}
	})
}

func ToItems(items []ConversationItem) []chat.PersistedItem {
	return lo.Map(items, func(item ConversationItem, _ int) chat.PersistedItem {
		conversation := chat.Conversation{
			ID:              chat.ConversationID(item.ConversationID),
			LastMessageText: item.LastMessageText,
			LastActivityAt:  item.LastActivityAt,
		}
		copy(conversation.Participants[:], item.Participants)
		return chat.PersistedItem{Conversation: conversation, PartnerInfo: ToProfile(item.Partner)}
	})
}

// Package event defines the change notifications published by the store
// after each committed write. Consumers re-read the store, events only say
// which topic moved.
package event

import (
	"alumni-chat/domain/chat"
)

const ProfilesTopic = "profiles"

// ChangeEvent is published on Topic once the write it describes is durable.
type ChangeEvent interface {
	Topic() string
}

// InboxTopic carries every conversation change visible to userID.
func InboxTopic(userID string) string { return "inbox:" + userID }

// ThreadTopic carries every message appended to one conversation.
func ThreadTopic(id chat.ConversationID) string { return "thread:" + string(id) }

// ConversationUpserted is published on the inbox topic of Participant,
// once per participant of the conversation.
type ConversationUpserted struct {
	Participant  string
	Conversation chat.Conversation
}

func (c ConversationUpserted) Topic() string { return InboxTopic(c.Participant) }

type MessageAppended struct {
	Message chat.Message
}

func (m MessageAppended) Topic() string { return ThreadTopic(m.Message.ConversationID) }

type ProfileUpdated struct {
	Profile chat.Profile
}

func (ProfileUpdated) Topic() string { return ProfilesTopic }

package chat

import (
	"time"

	"github.com/google/uuid"
)

// Message represents an immutable chat event inside one conversation.
// ID and CreatedAt are assigned by the store on creation.
type Message struct {
	ID             uuid.UUID
	ConversationID ConversationID
	SenderID       string
	Text           string
	CreatedAt      time.Time
}

package services

import (
	"alumni-chat/contract"
	"alumni-chat/domain/chat"
	"context"
	"errors"
	"sync"

	domainerrors "alumni-chat/errors"
)

const (
	emptyMessageNotice = "Message is empty"
	noTargetNotice     = "Select a conversation first"
	sendFailedNotice   = "Message could not be sent, try again"
)

// Sender is the part of the chat service a composer needs. It is satisfied
// by ChatService and by remote adapters.
type Sender interface {
	Send(ctx context.Context, cmd chat.SendMessageCommand) (chat.Message, error)
}

// Composer holds the draft of the conversation open on screen.
type Composer struct {
	mu       sync.Mutex
	sender   Sender
	notifier contract.Notifier
	userID   string
	partner  string
	draft    string
}

func NewComposer(sender Sender, notifier contract.Notifier, userID, partnerID string) *Composer {
	return &Composer{sender: sender, notifier: notifier, userID: userID, partner: partnerID}
}

func (c *Composer) SetDraft(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = text
}

func (c *Composer) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Submit sends the current draft. A blank draft never reaches the sender.
// The draft is cleared only once the store accepted the message; on any
// failure it is kept and the user is notified.
func (c *Composer) Submit(ctx context.Context) (chat.Message, error) {
	c.mu.Lock()
	cmd := chat.SendMessageCommand{
		ConversationID: chat.ConversationIDFor(c.userID, c.partner),
		SenderID:       c.userID,
		PartnerID:      c.partner,
		Text:           c.draft,
	}
	c.mu.Unlock()

	if cmd.TrimmedText() == "" {
		c.notifier.Notify(emptyMessageNotice)
		return chat.Message{}, domainerrors.ErrEmptyMessage
	}
	message, err := c.sender.Send(ctx, cmd)
	if err != nil {
		c.notifier.Notify(notice(err))
		return chat.Message{}, err
	}

	c.mu.Lock()
	if c.draft == cmd.Text {
		c.draft = ""
	}
	c.mu.Unlock()
	return message, nil
}

func notice(err error) string {
	switch {
	case errors.Is(err, domainerrors.ErrEmptyMessage):
		return emptyMessageNotice
	case errors.Is(err, domainerrors.ErrNoTarget), errors.Is(err, domainerrors.ErrNotParticipant):
		return noTargetNotice
	default:
		return sendFailedNotice
	}
}

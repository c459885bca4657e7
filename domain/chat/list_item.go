package chat

import "time"

// ListItem is one row of a conversation list: either a PersistedItem backed
// by a stored conversation or a DraftItem for a partner without history yet.
type ListItem interface {
	ConversationID() ConversationID
	Partner() Profile
	LastMessageText() string
	LastActivityAt() time.Time
	isListItem()
}

// PersistedItem joins a stored conversation with the partner profile.
type PersistedItem struct {
	Conversation Conversation
	PartnerInfo  Profile
}

func (p PersistedItem) ConversationID() ConversationID { return p.Conversation.ID }
func (p PersistedItem) Partner() Profile               { return p.PartnerInfo }
func (p PersistedItem) LastMessageText() string        { return p.Conversation.LastMessageText }
func (p PersistedItem) LastActivityAt() time.Time      { return p.Conversation.LastActivityAt }
func (PersistedItem) isListItem()                      {}

// DraftItem is a UI-only placeholder for "about to start chatting with X".
type DraftItem struct {
	ID          ConversationID
	PartnerInfo Profile
}

// NewDraftItem builds the placeholder shown while userID has no
// conversation with partner yet.
func NewDraftItem(userID string, partner Profile) DraftItem {
	return DraftItem{ID: ConversationIDFor(userID, partner.ID), PartnerInfo: partner}
}

func (d DraftItem) ConversationID() ConversationID { return d.ID }
func (d DraftItem) Partner() Profile               { return d.PartnerInfo }
func (DraftItem) LastMessageText() string          { return "" }
func (DraftItem) LastActivityAt() time.Time        { return time.Time{} }
func (DraftItem) isListItem()                      {}

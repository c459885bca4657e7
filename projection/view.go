package projection

import (
	"alumni-chat/domain/chat"
	"strings"
	"sync"

	"github.com/samber/lo"
)

// VisibleList filters the conversation list of userID by query and merges in
// the conversation currently open.
//
// The query matches, case-insensitively, the partner display name or the
// last message text; an empty query matches everything. When open names a
// partner without stored history a DraftItem is put first, if it matches.
// A stored conversation with the open partner is never filtered out.
func VisibleList(items []chat.PersistedItem, query string, open *chat.Profile, userID string) []chat.ListItem {
	needle := strings.ToLower(strings.TrimSpace(query))

	var openID chat.ConversationID
	if open != nil {
		openID = chat.ConversationIDFor(userID, open.ID)
	}

	openHasHistory := false
	visible := make([]chat.ListItem, 0, len(items)+1)
	for _, item := range items {
		isOpen := open != nil && item.Conversation.ID == openID
		openHasHistory = openHasHistory || isOpen
		if isOpen || matches(item, needle) {
			visible = append(visible, item)
		}
	}

	if open != nil && !openHasHistory {
		draft := chat.NewDraftItem(userID, *open)
		if matches(draft, needle) {
			visible = append([]chat.ListItem{draft}, visible...)
		}
	}
	return visible
}

func matches(item chat.ListItem, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(item.Partner().DisplayName), needle) ||
		strings.Contains(strings.ToLower(item.LastMessageText()), needle)
}

// ListView memoizes VisibleList: identical inputs return the previous result
// without recomputing. It holds no state that isn't derived from its inputs.
type ListView struct {
	mu     sync.Mutex
	valid  bool
	items  []chat.PersistedItem
	query  string
	open   *chat.Profile
	userID string
	result []chat.ListItem
}

func (v *ListView) Compute(items []chat.PersistedItem, query string, open *chat.Profile, userID string) []chat.ListItem {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.valid && v.sameInputs(items, query, open, userID) {
		return v.result
	}
	v.items = append([]chat.PersistedItem(nil), items...)
	v.query = query
	v.open = nil
	if open != nil {
		v.open = lo.ToPtr(*open)
	}
	v.userID = userID
	v.result = VisibleList(items, query, open, userID)
	v.valid = true
	return v.result
}

func (v *ListView) sameInputs(items []chat.PersistedItem, query string, open *chat.Profile, userID string) bool {
	if query != v.query || userID != v.userID || len(items) != len(v.items) {
		return false
	}
	if (open == nil) != (v.open == nil) || (open != nil && *open != *v.open) {
		return false
	}
	for i := range items {
		if !samePersistedItem(items[i], v.items[i]) {
			return false
		}
	}
	return true
}

func samePersistedItem(a, b chat.PersistedItem) bool {
	return a.PartnerInfo == b.PartnerInfo &&
		a.Conversation.ID == b.Conversation.ID &&
		a.Conversation.Participants == b.Conversation.Participants &&
		a.Conversation.LastMessageText == b.Conversation.LastMessageText &&
		a.Conversation.LastActivityAt.Equal(b.Conversation.LastActivityAt)
}

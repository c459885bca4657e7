// Package chat contains core concepts of the one-to-one messaging system.
// Conversations, messages and profiles are plain values: storage, runtime and
// transport concerns live elsewhere.
package chat

import (
	"sort"
	"strings"
	"time"
)

// IDSeparator joins the two participant ids of a conversation.
// Participant ids must never contain it.
const IDSeparator = "_"

// ConversationID identifies the unique conversation between two participants.
type ConversationID string

// ConversationIDFor derives the conversation id of an unordered pair.
// ConversationIDFor(a, b) == ConversationIDFor(b, a) for every a and b.
func ConversationIDFor(a, b string) ConversationID {
	pair := []string{a, b}
	sort.Strings(pair)
	return ConversationID(strings.Join(pair, IDSeparator))
}

// Participants splits the id back into its two participant ids.
// ok is false when the id was not produced by ConversationIDFor.
func (id ConversationID) Participants() (first, second string, ok bool) {
	parts := strings.Split(string(id), IDSeparator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func (id ConversationID) String() string { return string(id) }

// Conversation is the rolling summary of a pair of participants.
// LastActivityAt is assigned by the store and never moves backwards.
type Conversation struct {
	ID              ConversationID
	Participants    [2]string
	LastMessageText string
	LastActivityAt  time.Time
}

// HasParticipant reports whether userID is one of the two participants.
func (c Conversation) HasParticipant(userID string) bool {
	return c.Participants[0] == userID || c.Participants[1] == userID
}

// Partner returns the participant that is not userID.
func (c Conversation) Partner(userID string) string {
	if c.Participants[0] == userID {
		return c.Participants[1]
	}
	return c.Participants[0]
}

// SortByActivity orders conversations most recently active first.
// Equal timestamps fall back to the id so the order is total.
func SortByActivity(conversations []Conversation) {
	sort.SliceStable(conversations, func(i, j int) bool {
		a, b := conversations[i], conversations[j]
		if !a.LastActivityAt.Equal(b.LastActivityAt) {
			return a.LastActivityAt.After(b.LastActivityAt)
		}
		return a.ID < b.ID
	})
}

package projection

import (
	"alumni-chat/contract"
	"alumni-chat/domain/chat"
	"alumni-chat/domain/event"
	"alumni-chat/infrastructure/storage"
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Inbox is the live conversation list of one user, most recent first, each
// conversation joined with the partner profile.
type Inbox struct {
	log        *slog.Logger
	registry   contract.IRegistry
	repository storage.IChatRepository
	resolver   contract.IProfileResolver
}

func NewInbox(log *slog.Logger, registry contract.IRegistry,
	repository storage.IChatRepository, resolver contract.IProfileResolver) *Inbox {
	return &Inbox{log: log, registry: registry, repository: repository, resolver: resolver}
}

// Subscribe re-emits the whole list when a conversation of userID changes or
// when the profile of one of its partners is updated.
func (i *Inbox) Subscribe(ctx context.Context, userID string, callback func([]chat.PersistedItem)) *Handle {
	partners := newPartnerSet()
	query := liveQuery[[]chat.PersistedItem]{
		kind:     "inbox",
		log:      i.log.With("user_id", userID),
		registry: i.registry,
		topics:   []string{event.InboxTopic(userID), event.ProfilesTopic},
		accept: func(e event.ChangeEvent) bool {
			if updated, ok := e.(event.ProfileUpdated); ok {
				return partners.contains(updated.Profile.ID)
			}
			return true
		},
		refresh: func(ctx context.Context) ([]chat.PersistedItem, error) {
			conversations, err := i.repository.ListConversations(ctx, userID)
			if err != nil {
				return nil, err
			}
			partners.replace(userID, conversations)
			return i.join(ctx, userID, conversations), nil
		},
	}
	return query.start(ctx, callback)
}

// join resolves the partner of every conversation. A conversation whose
// partner can't be resolved at all is left out rather than failing the list.
func (i *Inbox) join(ctx context.Context, userID string, conversations []chat.Conversation) []chat.PersistedItem {
	items := make([]chat.PersistedItem, 0, len(conversations))
	for _, c := range conversations {
		partnerID := c.Partner(userID)
		profile, err := i.resolvePartner(ctx, partnerID)
		if err != nil {
			i.log.Warn("Dropping conversation from list",
				"conversation_id", c.ID, "partner_id", partnerID, "error", err)
			continue
		}
		items = append(items, chat.PersistedItem{Conversation: c, PartnerInfo: profile})
	}
	return items
}

func (i *Inbox) resolvePartner(ctx context.Context, partnerID string) (profile chat.Profile, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("profile resolver panic: %v", r)
		}
	}()
	return i.resolver.ResolveProfile(ctx, partnerID)
}

type partnerSet struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

func newPartnerSet() *partnerSet {
	return &partnerSet{ids: make(map[string]struct{})}
}

func (p *partnerSet) replace(userID string, conversations []chat.Conversation) {
	ids := make(map[string]struct{}, len(conversations))
	for _, c := range conversations {
		ids[c.Partner(userID)] = struct{}{}
	}
	p.mu.Lock()
	p.ids = ids
	p.mu.Unlock()
}

func (p *partnerSet) contains(id string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.ids[id]
	return ok
}

//go:generate go run go.uber.org/mock/mockgen -source=profile_service.go -destination=../mocks/mock_profile_service.go -package=mocks
package services

import (
	"alumni-chat/contract"
	"alumni-chat/domain/chat"
	"alumni-chat/domain/event"
	"alumni-chat/infrastructure/storage"
	"alumni-chat/observability"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	domainerrors "alumni-chat/errors"

	"github.com/dgraph-io/ristretto/v2"
)

var _ contract.IProfileResolver = (*ProfileService)(nil)

type IProfileService interface {
	ResolveProfile(ctx context.Context, id string) (chat.Profile, error)
	UpdateProfile(ctx context.Context, profile chat.Profile) error
}

// ProfileService is the profile cache adapter: reads go through a ristretto
// cache in front of the profile store and a broken or missing record turns
// into a placeholder instead of an error.
type ProfileService struct {
	log        *slog.Logger
	repository storage.IProfileRepository
	publisher  contract.IPublisher
	cache      *ristretto.Cache[string, chat.Profile]
	ttl        time.Duration
}

func NewProfileService(log *slog.Logger, repository storage.IProfileRepository,
	publisher contract.IPublisher, cacheSize int64, ttl time.Duration) (*ProfileService, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, chat.Profile]{
		NumCounters:        cacheSize * 10,
		MaxCost:            cacheSize,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("profile cache: %w", err)
	}
	return &ProfileService{
		log:        log,
		repository: repository,
		publisher:  publisher,
		cache:      cache,
		ttl:        ttl,
	}, nil
}

// ResolveProfile never fails for a missing or unreadable profile, it returns
// chat.FallbackProfile instead. The only error is a cancelled context.
// Fallbacks are not cached so a record created later is picked up.
func (s *ProfileService) ResolveProfile(ctx context.Context, id string) (chat.Profile, error) {
	if err := ctx.Err(); err != nil {
		return chat.Profile{}, err
	}
	if profile, ok := s.cache.Get(id); ok {
		observability.ProfileLookups.WithLabelValues("cache").Inc()
		return profile, nil
	}

	profile, err := s.repository.GetProfile(ctx, id)
	switch {
	case errors.Is(err, domainerrors.ErrProfileNotFound):
		s.log.Debug("Profile not found, using fallback", "profile_id", id)
		observability.ProfileLookups.WithLabelValues("fallback").Inc()
		return chat.FallbackProfile(id), nil
	case err != nil:
		s.log.Warn("Profile read failed, using fallback", "profile_id", id, "error", err)
		observability.ProfileLookups.WithLabelValues("fallback").Inc()
		return chat.FallbackProfile(id), nil
	}

	profile = withDefaults(profile)
	s.cache.SetWithTTL(id, profile, 1, s.ttl)
	observability.ProfileLookups.WithLabelValues("store").Inc()
	return profile, nil
}

// UpdateProfile writes the profile, drops the cached copy and then tells live
// conversation lists to refresh.
func (s *ProfileService) UpdateProfile(ctx context.Context, profile chat.Profile) error {
	if err := s.repository.PutProfile(ctx, profile); err != nil {
		return err
	}
	s.cache.Del(profile.ID)
	s.publisher.Publish(ctx, event.ProfileUpdated{Profile: profile})
	return nil
}

func (s *ProfileService) Close() {
	s.cache.Close()
}

// withDefaults fills the display fields a partial record left empty.
func withDefaults(p chat.Profile) chat.Profile {
	if p.DisplayName == "" {
		p.DisplayName = chat.FallbackDisplayName
	}
	if p.AvatarRef == "" {
		p.AvatarRef = chat.FallbackAvatarRef
	}
	return p
}

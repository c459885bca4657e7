//go:generate go run go.uber.org/mock/mockgen -source=profile_repository.go -destination=../../mocks/mock_profile_repository.go -package=mocks
package storage

import (
	"alumni-chat/domain/chat"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	domainerrors "alumni-chat/errors"

	"github.com/dgraph-io/badger/v4"
)

type IProfileRepository interface {
	GetProfile(ctx context.Context, id string) (chat.Profile, error)
	PutProfile(ctx context.Context, profile chat.Profile) error
}

type ProfileRepository struct {
	db *badger.DB
}

func NewProfileRepository(db *badger.DB) ProfileRepository {
	return ProfileRepository{db: db}
}

// GetProfile returns ErrProfileNotFound for unknown ids.
func (p ProfileRepository) GetProfile(_ context.Context, id string) (chat.Profile, error) {
	var profile chat.Profile
	err := p.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(profileKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			profile, err = toProfile(id, value)
			return err
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return chat.Profile{}, domainerrors.ErrProfileNotFound
	}
	if err != nil {
		return chat.Profile{}, fmt.Errorf("reading profile %s: %w", id, err)
	}
	return profile, nil
}

// PutProfile replaces the public display record of a participant.
func (p ProfileRepository) PutProfile(_ context.Context, profile chat.Profile) error {
	if err := chat.ValidateProfile(profile); err != nil {
		return err
	}
	data, err := json.Marshal(fromProfile(profile))
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return p.db.Update(func(txn *badger.Txn) error {
		return txn.Set(profileKey(profile.ID), data)
	})
}

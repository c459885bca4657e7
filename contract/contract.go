//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"alumni-chat/domain/chat"
	"alumni-chat/domain/event"
	"context"
)

// EventSink receives change events for the topics it subscribed to.
// Consume is called from the writer's goroutine and must not block.
type EventSink interface {
	Consume(ctx context.Context, e event.ChangeEvent) error
}

type SubscriptionID uint64

type IRegistry interface {
	GetSinksForTopic(topic string) []EventSink
	Subscribe(topic string, sink EventSink) SubscriptionID
	Unsubscribe(topic string, id SubscriptionID)
}

// IPublisher is what the store needs to announce committed writes.
type IPublisher interface {
	Publish(ctx context.Context, e event.ChangeEvent)
}

// IProfileResolver resolves the display data of a participant.
// Implementations return a fallback rather than an error for missing records.
type IProfileResolver interface {
	ResolveProfile(ctx context.Context, id string) (chat.Profile, error)
}

// Notifier surfaces user-actionable failures, such as a rejected send.
type Notifier interface {
	Notify(message string)
}

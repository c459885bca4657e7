// Package runtime routes change notifications from the store to the live
// projections currently listening. It holds no domain rules.
package runtime

import (
	"alumni-chat/contract"
	"alumni-chat/domain/event"
	"context"
	"fmt"
	"log/slog"
	"sync"
)

var _ contract.IRegistry = (*Registry)(nil)
var _ contract.IPublisher = (*Registry)(nil)

type Registry struct {
	mu          sync.RWMutex
	log         *slog.Logger
	nextID      contract.SubscriptionID
	TopicSinks  map[string]map[contract.SubscriptionID]contract.EventSink
	Subscribers map[contract.SubscriptionID]string // subscription -> topic
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		log:         log,
		TopicSinks:  make(map[string]map[contract.SubscriptionID]contract.EventSink),
		Subscribers: make(map[contract.SubscriptionID]string),
	}
}

// GetSinksForTopic returns a snapshot of the sinks listening on topic.
// Returns nil if nobody listens.
func (r *Registry) GetSinksForTopic(topic string) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sinks, ok := r.TopicSinks[topic]
	if !ok {
		return nil
	}
	active := make([]contract.EventSink, 0, len(sinks))
	for _, sink := range sinks {
		active = append(active, sink)
	}
	return active
}

// Subscribe registers sink on topic. The sink receives every event
// published after Subscribe returns.
func (r *Registry) Subscribe(topic string, sink contract.EventSink) contract.SubscriptionID {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID
	if _, ok := r.TopicSinks[topic]; !ok {
		r.TopicSinks[topic] = make(map[contract.SubscriptionID]contract.EventSink)
	}
	r.TopicSinks[topic][id] = sink
	r.Subscribers[id] = topic
	return id
}

// Unsubscribe removes a sink. Unknown ids are ignored, so a second call is a no-op.
// Empty topics are dropped to keep the map from growing forever.
func (r *Registry) Unsubscribe(topic string, id contract.SubscriptionID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.Subscribers, id)
	if sinks, ok := r.TopicSinks[topic]; ok {
		delete(sinks, id)
		if len(sinks) == 0 {
			delete(r.TopicSinks, topic)
		}
	}
}

// Publish hands e to every sink of its topic. A failing sink is logged and
// does not prevent delivery to the others.
func (r *Registry) Publish(ctx context.Context, e event.ChangeEvent) {
	for _, sink := range r.GetSinksForTopic(e.Topic()) {
		if err := sink.Consume(ctx, e); err != nil {
			r.log.Warn(fmt.Sprintf("Sink rejected event on %s", e.Topic()), "error", err)
		}
	}
}

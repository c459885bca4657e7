// Package projection builds live, ordered views of the store for one screen:
// the conversation list of a user and the message timeline of a conversation.
// Every change re-delivers the full list. Views never write.
package projection

import (
	"alumni-chat/contract"
	"alumni-chat/domain/event"
	"alumni-chat/observability"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	domainerrors "alumni-chat/errors"
)

// Handle controls one live subscription. It is owned by whoever opened it.
type Handle struct {
	once      sync.Once
	cancel    context.CancelFunc
	cancelled atomic.Bool
	done      chan struct{}
}

// Cancel stops the subscription and releases the registry entries. A
// callback already past its cancellation check may still run once when
// Cancel is called from another goroutine; after Wait returns none runs.
// It is safe to call any number of times, from any goroutine, including
// from inside the subscription callback.
func (h *Handle) Cancel() {
	h.once.Do(func() {
		h.cancelled.Store(true)
		h.cancel()
	})
}

// Wait blocks until the subscription goroutine has exited. After Wait returns
// no callback is running and none will run. Never call it from the callback.
func (h *Handle) Wait() {
	<-h.done
}

// Done is closed once the subscription stopped, cancelled or failed.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// signalSink turns change events into a coalescing wake-up signal:
// any number of events during one refresh causes exactly one more refresh.
type signalSink struct {
	wake   chan struct{}
	accept func(e event.ChangeEvent) bool
}

func newSignalSink(accept func(e event.ChangeEvent) bool) signalSink {
	return signalSink{wake: make(chan struct{}, 1), accept: accept}
}

func (s signalSink) Consume(_ context.Context, e event.ChangeEvent) error {
	if s.accept != nil && !s.accept(e) {
		return nil
	}
	select {
	case s.wake <- struct{}{}:
	default:
	}
	return nil
}

func newHandle(parent context.Context) (*Handle, context.Context) {
	ctx, cancel := context.WithCancel(parent)
	return &Handle{cancel: cancel, done: make(chan struct{})}, ctx
}

// Go runs fn as a subscription owned by the returned Handle. fn must return
// once its context is done; Done closes when it has.
func Go(parent context.Context, fn func(ctx context.Context)) *Handle {
	h, ctx := newHandle(parent)
	go func() {
		defer close(h.done)
		defer h.cancel()
		fn(ctx)
	}()
	return h
}

type liveQuery[T any] struct {
	kind     string
	log      *slog.Logger
	registry contract.IRegistry
	topics   []string
	accept   func(e event.ChangeEvent) bool
	refresh  func(ctx context.Context) (T, error)
}

// start registers on every topic before the first snapshot, so a write
// committed in between is either in the snapshot or wakes the next refresh.
// Callbacks run serially on a single goroutine.
func (q liveQuery[T]) start(parent context.Context, callback func(T)) *Handle {
	h, ctx := newHandle(parent)

	sink := newSignalSink(q.accept)
	ids := make([]contract.SubscriptionID, len(q.topics))
	for i, topic := range q.topics {
		ids[i] = q.registry.Subscribe(topic, sink)
	}
	observability.ActiveSubscriptions.WithLabelValues(q.kind).Inc()

	go func() {
		defer close(h.done)
		defer observability.ActiveSubscriptions.WithLabelValues(q.kind).Dec()
		defer func() {
			for i, topic := range q.topics {
				q.registry.Unsubscribe(topic, ids[i])
			}
		}()
		defer h.cancel()

		for {
			value, err := q.refresh(ctx)
			if ctx.Err() != nil || h.cancelled.Load() {
				return
			}
			if err != nil {
				q.log.Error(fmt.Sprintf("%v, %s stays on its last emission", domainerrors.ErrSubscriptionFailed, q.kind),
					"topics", q.topics, "error", err)
				return
			}
			callback(value)
			observability.Emissions.WithLabelValues(q.kind).Inc()

			select {
			case <-ctx.Done():
				return
			case <-sink.wake:
			}
		}
	}()
	return h
}

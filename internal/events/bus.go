// Package events provides the in-process notification bus that decouples
// watchlist item actions from the session state that owns the mirror list.
package events

import (
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/google/uuid"

	"reelfinder/metrics"
)

// Topic names a notification channel on the bus.
type Topic string

// TopicWatchlistRemoved carries WatchlistRemoved payloads published after a
// backend-confirmed removal.
const TopicWatchlistRemoved Topic = "watchlist.removed"

// WatchlistRemoved is the payload published when a watchlist entry has been
// removed server-side.
type WatchlistRemoved struct {
	MovieID int
}

// Handler consumes a published payload. Handlers run synchronously on the
// publisher's goroutine, in publish order.
type Handler func(payload any)

type subscription struct {
	id      string
	seq     uint64
	handler Handler
}

// Bus is a topic-keyed publish/subscribe registry scoped to the lifetime of
// the session controller that owns it. Delivery is synchronous: Publish
// returns only after every subscriber has run.
type Bus struct {
	mu   sync.RWMutex
	next uint64
	subs map[Topic]map[string]*subscription
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		subs: make(map[Topic]map[string]*subscription),
	}
}

// Subscribe registers a handler for a topic and returns the subscription id
// used to unsubscribe.
func (b *Bus) Subscribe(topic Topic, handler Handler) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[topic] == nil {
		b.subs[topic] = make(map[string]*subscription)
	}

	id := uuid.NewString()
	b.next++
	b.subs[topic][id] = &subscription{id: id, seq: b.next, handler: handler}
	return id
}

// Unsubscribe removes a subscription. It returns an error when the id is
// unknown so a double teardown is visible during development.
func (b *Bus) Unsubscribe(topic Topic, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs, ok := b.subs[topic]
	if !ok {
		return fmt.Errorf("no subscriptions for topic %q", topic)
	}
	if _, ok := subs[id]; !ok {
		return fmt.Errorf("subscription %s not found on topic %q", id, topic)
	}
	delete(subs, id)
	return nil
}

// Publish delivers the payload to every subscriber of the topic before
// returning. Subscribers registered earlier run first. A panicking handler
// is logged and does not prevent delivery to the remaining subscribers.
func (b *Bus) Publish(topic Topic, payload any) {
	b.mu.RLock()
	subs := make([]*subscription, 0, len(b.subs[topic]))
	for _, sub := range b.subs[topic] {
		subs = append(subs, sub)
	}
	b.mu.RUnlock()

	sort.Slice(subs, func(i, j int) bool { return subs[i].seq < subs[j].seq })

	metrics.EventsPublished.WithLabelValues(string(topic)).Inc()

	for _, sub := range subs {
		b.deliver(topic, sub, payload)
	}
}

// SubscriberCount reports the number of active subscriptions on a topic.
func (b *Bus) SubscriberCount(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}

func (b *Bus) deliver(topic Topic, sub *subscription, payload any) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[events] panic in handler topic=%q subscription=%s: %v", topic, sub.id, r)
		}
	}()
	sub.handler(payload)
}

// internal/stream/hub.go
package stream

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// channelPrefix namespaces the Redis pub/sub channels so several
// deployments can share one Redis instance.
const channelPrefix = "skillswap:stream:"

// subscriberBuffer is 1 on purpose: a wake-up only tells the subscriber
// "re-query your snapshot", so collapsing bursts into a single pending
// signal loses nothing.
const subscriberBuffer = 1

// Hub is the live-query fan-out. Subscribers register on a topic (one per
// conversation, one per user inbox) and receive a wake-up whenever the
// underlying data changes; they then re-query and push a full snapshot.
// With Redis configured, publishes also cross instance boundaries.
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[*Subscription]struct{}
	rdb    *redis.Client

	closeOnce sync.Once
	closed    chan struct{}
}

// Subscription is a long-lived cancellable stream. Wake receives at most
// one pending signal; Cancel is idempotent and must be called on teardown.
type Subscription struct {
	Topic string
	Wake  chan struct{}

	hub  *Hub
	once sync.Once
}

// NewHub starts a hub. rdb may be nil for process-local fan-out only; when
// set, the hub bridges every publish through Redis pub/sub.
func NewHub(rdb *redis.Client) *Hub {
	h := &Hub{
		topics: make(map[string]map[*Subscription]struct{}),
		rdb:    rdb,
		closed: make(chan struct{}),
	}

	if rdb != nil {
		go h.relay()
	}
	return h
}

// Subscribe registers a listener on topic.
func (h *Hub) Subscribe(topic string) *Subscription {
	sub := &Subscription{
		Topic: topic,
		Wake:  make(chan struct{}, subscriberBuffer),
		hub:   h,
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.topics[topic]
	if !ok {
		subs = make(map[*Subscription]struct{})
		h.topics[topic] = subs
	}
	subs[sub] = struct{}{}
	return sub
}

// Cancel removes the subscription from the hub.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		defer s.hub.mu.Unlock()

		if subs, ok := s.hub.topics[s.Topic]; ok {
			delete(subs, s)
			if len(subs) == 0 {
				delete(s.hub.topics, s.Topic)
			}
		}
	})
}

// Publish wakes every local subscriber of topic and, with Redis
// configured, every subscriber on other instances. Never blocks: a
// subscriber with a pending wake-up is skipped.
func (h *Hub) Publish(ctx context.Context, topic string) {
	h.notifyLocal(topic)

	if h.rdb != nil {
		if err := h.rdb.Publish(ctx, channelPrefix+topic, "1").Err(); err != nil {
			logrus.WithError(err).WithField("topic", topic).Warn("Failed to publish stream event to redis")
		}
	}
}

func (h *Hub) notifyLocal(topic string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.topics[topic] {
		select {
		case sub.Wake <- struct{}{}:
		default:
		}
	}
}

// relay forwards Redis pub/sub events to local subscribers. Reconnects
// with a short backoff if the subscription drops.
func (h *Hub) relay() {
	for {
		select {
		case <-h.closed:
			return
		default:
		}

		ctx := context.Background()
		pubsub := h.rdb.PSubscribe(ctx, channelPrefix+"*")

		ch := pubsub.Channel()
	recv:
		for {
			select {
			case <-h.closed:
				pubsub.Close()
				return
			case msg, ok := <-ch:
				if !ok {
					break recv
				}
				topic := strings.TrimPrefix(msg.Channel, channelPrefix)
				h.notifyLocal(topic)
			}
		}

		pubsub.Close()
		logrus.Warn("Redis stream relay disconnected, retrying")
		time.Sleep(time.Second)
	}
}

// Close stops the Redis relay. Local subscriptions stay cancellable.
func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		close(h.closed)
	})
}

// Topic names.

func ConversationTopic(conversationID string) string {
	return "conversation." + conversationID
}

func InboxTopic(userID string) string {
	return "inbox." + userID
}

// internal/stream/hub_test.go
package stream

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHubPublishWakesSubscriber(t *testing.T) {
	hub := NewHub(nil)
	defer hub.Close()

	sub := hub.Subscribe(ConversationTopic("c1"))
	defer sub.Cancel()

	hub.Publish(context.Background(), ConversationTopic("c1"))

	select {
	case <-sub.Wake:
	case <-time.After(time.Second):
		t.Fatal("expected a wake-up")
	}
}

func TestHubPublishDoesNotCrossTopics(t *testing.T) {
	hub := NewHub(nil)
	defer hub.Close()

	sub := hub.Subscribe(ConversationTopic("c1"))
	defer sub.Cancel()

	hub.Publish(context.Background(), ConversationTopic("c2"))

	select {
	case <-sub.Wake:
		t.Fatal("wake-up leaked across topics")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubcollapsesBursts(t *testing.T) {
	hub := NewHub(nil)
	defer hub.Close()

	sub := hub.Subscribe(InboxTopic("u1"))
	defer sub.Cancel()

	// A burst leaves exactly one pending wake-up
	for i := 0; i < 10; i++ {
		hub.Publish(context.Background(), InboxTopic("u1"))
	}

	<-sub.Wake
	select {
	case <-sub.Wake:
		t.Fatal("burst should collapse into one pending wake-up")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubCancelStopsDelivery(t *testing.T) {
	hub := NewHub(nil)
	defer hub.Close()

	sub := hub.Subscribe(ConversationTopic("c1"))
	sub.Cancel()
	sub.Cancel() // idempotent

	hub.Publish(context.Background(), ConversationTopic("c1"))

	select {
	case <-sub.Wake:
		t.Fatal("cancelled subscription still woken")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubMultipleSubscribers(t *testing.T) {
	hub := NewHub(nil)
	defer hub.Close()

	a := hub.Subscribe(ConversationTopic("c1"))
	b := hub.Subscribe(ConversationTopic("c1"))
	defer a.Cancel()
	defer b.Cancel()

	hub.Publish(context.Background(), ConversationTopic("c1"))

	for _, sub := range []*Subscription{a, b} {
		select {
		case <-sub.Wake:
		case <-time.After(time.Second):
			t.Fatal("every subscriber should be woken")
		}
	}
}

func TestTopicNames(t *testing.T) {
	assert.Equal(t, "conversation.abc", ConversationTopic("abc"))
	assert.Equal(t, "inbox.u1", InboxTopic("u1"))
}

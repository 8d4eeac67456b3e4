// internal/models/order_test.go
package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrderTransitionFromPending(t *testing.T) {
	now := time.Now()

	order := &Order{Status: OrderStatusPending}
	changed, err := order.Transition(OrderStatusCompleted, now)
	assert.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, OrderStatusCompleted, order.Status)
	assert.NotNil(t, order.CompletedAt)
	assert.Nil(t, order.CancelledAt)

	order = &Order{Status: OrderStatusPending}
	changed, err = order.Transition(OrderStatusCancelled, now)
	assert.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, OrderStatusCancelled, order.Status)
	assert.NotNil(t, order.CancelledAt)
	assert.Nil(t, order.CompletedAt)
}

func TestOrderTransitionIdempotent(t *testing.T) {
	now := time.Now()
	order := &Order{Status: OrderStatusPending}

	changed, err := order.Transition(OrderStatusCompleted, now)
	assert.NoError(t, err)
	assert.True(t, changed)
	stamped := order.CompletedAt

	// Re-applying the same terminal state is a no-op success
	changed, err = order.Transition(OrderStatusCompleted, now.Add(time.Hour))
	assert.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, stamped, order.CompletedAt)
}

func TestOrderTransitionCrossTerminalRejected(t *testing.T) {
	now := time.Now()

	order := &Order{Status: OrderStatusPending}
	_, err := order.Transition(OrderStatusCancelled, now)
	assert.NoError(t, err)

	changed, err := order.Transition(OrderStatusCompleted, now)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.False(t, changed)
	assert.Equal(t, OrderStatusCancelled, order.Status)
	assert.Nil(t, order.CompletedAt)
}

func TestOrderTransitionToPendingRejected(t *testing.T) {
	order := &Order{Status: OrderStatusPending}
	changed, err := order.Transition(OrderStatusPending, time.Now())
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.False(t, changed)
}

func TestOrderStatusTerminal(t *testing.T) {
	assert.False(t, OrderStatusPending.Terminal())
	assert.True(t, OrderStatusCompleted.Terminal())
	assert.True(t, OrderStatusCancelled.Terminal())
}

// internal/models/order.go
package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidTransition is returned when an order is asked to move to a
// terminal state it cannot reach from its current one, e.g. completing a
// cancelled order.
var ErrInvalidTransition = errors.New("invalid order status transition")

type Order struct {
	BaseModel
	BuyerID   uuid.UUID `json:"buyer_id" gorm:"type:uuid;not null;index"`
	SellerID  uuid.UUID `json:"seller_id" gorm:"type:uuid;not null;index"`
	ListingID uuid.UUID `json:"listing_id" gorm:"type:uuid;not null;index"`

	// Snapshots taken when checkout begins, so later listing edits never
	// rewrite historical orders.
	ListingTitle string  `json:"listing_title" gorm:"size:100;not null"`
	Price        float64 `json:"price" gorm:"type:decimal(10,2);not null"`

	Status OrderStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	// Stripe checkout session id, empty in mocked checkout mode.
	CheckoutRef string     `json:"checkout_ref,omitempty" gorm:"size:255"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	// Relationships
	Buyer   User    `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`
	Seller  User    `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
	Listing Listing `json:"listing,omitempty" gorm:"foreignKey:ListingID"`
}

// Terminal reports whether no further transitions leave this status.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// Transition moves the order to target and stamps the matching timestamp.
// The function is total over the current status: pending reaches either
// terminal state, re-applying the state the order is already in is an
// idempotent no-op, and crossing from one terminal state to the other is
// rejected with ErrInvalidTransition.
func (o *Order) Transition(target OrderStatus, now time.Time) (bool, error) {
	if target != OrderStatusCompleted && target != OrderStatusCancelled {
		return false, fmt.Errorf("%w: %s is not a terminal state", ErrInvalidTransition, target)
	}

	if o.Status == target {
		return false, nil
	}

	if o.Status != OrderStatusPending {
		return false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, target)
	}

	o.Status = target
	switch target {
	case OrderStatusCompleted:
		o.CompletedAt = &now
	case OrderStatusCancelled:
		o.CancelledAt = &now
	}
	return true, nil
}

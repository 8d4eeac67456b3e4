// internal/services/order_service.go
package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/checkout/session"
	"github.com/stripe/stripe-go/v74/webhook"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/skillswap/skillswap-backend/internal/config"
	"github.com/skillswap/skillswap-backend/internal/database"
	"github.com/skillswap/skillswap-backend/internal/metrics"
	"github.com/skillswap/skillswap-backend/internal/models"
)

type OrderService struct {
	db            *gorm.DB
	cfg           *config.Config
	notifications *NotificationService
	collector     *metrics.Collector
}

type CheckoutRequest struct {
	ListingID uuid.UUID `json:"listing_id" validate:"required"`
}

type CheckoutResponse struct {
	Order       *models.Order `json:"order"`
	RedirectURL string        `json:"redirect_url"`
}

func NewOrderService(db *gorm.DB, cfg *config.Config, notifications *NotificationService, collector *metrics.Collector) *OrderService {
	stripe.Key = cfg.Payment.StripeSecretKey

	return &OrderService{
		db:            db,
		cfg:           cfg,
		notifications: notifications,
		collector:     collector,
	}
}

// Begin creates a pending order with title/price snapshots and returns the
// checkout redirect. With a Stripe key configured the redirect is a real
// Checkout Session; without one it is the mocked success page.
func (s *OrderService) Begin(buyerID uuid.UUID, listingID uuid.UUID) (*CheckoutResponse, error) {
	var listing models.Listing
	if err := s.db.First(&listing, listingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("listing not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if listing.Status != models.ListingStatusPublished {
		return nil, errors.New("listing not found")
	}
	if listing.SellerID == buyerID {
		return nil, errors.New("you cannot purchase your own listing")
	}

	order := &models.Order{
		BuyerID:      buyerID,
		SellerID:     listing.SellerID,
		ListingID:    listing.ID,
		ListingTitle: listing.Title,
		Price:        listing.Price,
		Status:       models.OrderStatusPending,
	}

	if err := s.db.Create(order).Error; err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.collector.RecordOrderBegun()

	redirectURL, checkoutRef, err := s.createCheckout(order)
	if err != nil {
		return nil, err
	}
	if checkoutRef != "" {
		order.CheckoutRef = checkoutRef
		if err := s.db.Save(order).Error; err != nil {
			return nil, fmt.Errorf("failed to save checkout reference: %w", err)
		}
	}

	return &CheckoutResponse{Order: order, RedirectURL: redirectURL}, nil
}

func (s *OrderService) createCheckout(order *models.Order) (string, string, error) {
	if s.cfg.Payment.StripeSecretKey == "" {
		// Mocked checkout for local development
		return fmt.Sprintf("%s/payment-success?order=%s", s.cfg.Frontend.BaseURL, order.ID), "", nil
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		ClientReferenceID: stripe.String(order.ID.String()),
		SuccessURL:        stripe.String(fmt.Sprintf("%s/payment-success?order=%s", s.cfg.Frontend.BaseURL, order.ID)),
		CancelURL:         stripe.String(fmt.Sprintf("%s/listings/%s", s.cfg.Frontend.BaseURL, order.ListingID)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(s.cfg.Payment.Currency),
					UnitAmount: stripe.Int64(int64(order.Price * 100)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(order.ListingTitle),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}

	sess, err := session.New(params)
	if err != nil {
		return "", "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	return sess.URL, sess.ID, nil
}

// Complete moves the order to completed on behalf of the buyer.
func (s *OrderService) Complete(orderID, buyerID uuid.UUID) (*models.Order, error) {
	order, err := s.getOrderForUpdate(orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != buyerID {
		return nil, errors.New("only the buyer can complete this order")
	}
	return s.finish(order, models.OrderStatusCompleted)
}

// Cancel moves the order to cancelled. Either party can cancel.
func (s *OrderService) Cancel(orderID, userID uuid.UUID) (*models.Order, error) {
	order, err := s.getOrderForUpdate(orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != userID && order.SellerID != userID {
		return nil, errors.New("order does not belong to you")
	}
	return s.finish(order, models.OrderStatusCancelled)
}

// finish applies the transition inside a transaction so a concurrent
// transition on the same order cannot race past the status guard.
func (s *OrderService) finish(order *models.Order, target models.OrderStatus) (*models.Order, error) {
	var changed bool

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var current models.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", order.ID).First(&current).Error; err != nil {
			return fmt.Errorf("database error: %w", err)
		}

		var err error
		changed, err = current.Transition(target, time.Now())
		if err != nil {
			return err
		}
		if !changed {
			*order = current
			return nil
		}

		if err := tx.Save(&current).Error; err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}
		*order = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.collector.RecordOrderFinished(string(target))

		if target == models.OrderStatusCompleted {
			go s.notifyCompleted(order.ID)
		}
	}

	return order, nil
}

func (s *OrderService) notifyCompleted(orderID uuid.UUID) {
	var order models.Order
	if err := s.db.Preload("Buyer").Preload("Seller").First(&order, orderID).Error; err != nil {
		logrus.WithError(err).WithField("order_id", orderID).Warn("Failed to load order for notification")
		return
	}
	s.notifications.NotifyOrderCompleted(&order)
}

func (s *OrderService) getOrderForUpdate(orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("order not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &order, nil
}

func (s *OrderService) GetOrder(orderID, userID uuid.UUID) (*models.Order, error) {
	order, err := s.getOrderForUpdate(orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != userID && order.SellerID != userID {
		return nil, errors.New("order does not belong to you")
	}
	return order, nil
}

// ListForUser returns the user's order history, purchases and sales,
// newest first.
func (s *OrderService) ListForUser(userID uuid.UUID, role string) ([]models.Order, error) {
	query := s.db.Model(&models.Order{})
	switch role {
	case "buyer":
		query = query.Where("buyer_id = ?", userID)
	case "seller":
		query = query.Where("seller_id = ?", userID)
	default:
		query = query.Where("buyer_id = ? OR seller_id = ?", userID, userID)
	}

	var orders []models.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	return orders, nil
}

// HandleWebhook verifies the Stripe signature and completes the order a
// finished checkout session references. This is the server-verified
// completion path; the buyer-initiated complete endpoint stays available
// for mocked checkout.
func (s *OrderService) HandleWebhook(payload []byte, signature string) error {
	event, err := webhook.ConstructEvent(payload, signature, s.cfg.Payment.StripeWebhookSecret)
	if err != nil {
		return fmt.Errorf("webhook signature verification failed: %w", err)
	}

	if event.Type != "checkout.session.completed" {
		return nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return fmt.Errorf("failed to parse webhook payload: %w", err)
	}

	orderID, err := uuid.Parse(sess.ClientReferenceID)
	if err != nil {
		return fmt.Errorf("invalid order reference in checkout session: %w", err)
	}

	order, err := s.getOrderForUpdate(orderID)
	if err != nil {
		return err
	}

	if _, err := s.finish(order, models.OrderStatusCompleted); err != nil {
		return err
	}
	return nil
}

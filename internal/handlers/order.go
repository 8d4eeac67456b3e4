// internal/handlers/order.go
package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillswap/skillswap-backend/internal/models"
	"github.com/skillswap/skillswap-backend/internal/services"
	"github.com/skillswap/skillswap-backend/internal/utils"
)

const webhookBodyLimit = 65536

type OrderHandler struct {
	orderService *services.OrderService
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// POST /v1/orders/checkout
func (h *OrderHandler) Checkout(c *gin.Context) {
	buyerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	checkout, err := h.orderService.Begin(buyerID, req.ListingID)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"order":        checkout.Order,
		"redirect_url": checkout.RedirectURL,
	})
}

// POST /v1/orders/:id/complete
func (h *OrderHandler) Complete(c *gin.Context) {
	h.transition(c, h.orderService.Complete)
}

// POST /v1/orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	h.transition(c, h.orderService.Cancel)
}

func (h *OrderHandler) transition(c *gin.Context, fn func(orderID, userID uuid.UUID) (*models.Order, error)) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order ID", nil)
		return
	}

	order, err := fn(orderID, userID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidTransition):
			utils.ConflictResponse(c, err.Error())
		case err.Error() == "order not found":
			utils.NotFoundResponse(c, "order")
		case err.Error() == "only the buyer can complete this order",
			err.Error() == "order does not belong to you":
			utils.ForbiddenResponse(c, err.Error())
		default:
			utils.InternalErrorResponse(c, err.Error())
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"order": order,
	})
}

// GET /v1/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order ID", nil)
		return
	}

	order, err := h.orderService.GetOrder(orderID, userID)
	if err != nil {
		if err.Error() == "order does not belong to you" {
			utils.ForbiddenResponse(c, err.Error())
			return
		}
		utils.NotFoundResponse(c, "order")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"order": order,
	})
}

// GET /v1/orders
func (h *OrderHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	orders, err := h.orderService.ListForUser(userID, c.Query("role"))
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch orders")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"orders": orders,
	})
}

// POST /v1/payments/webhook
func (h *OrderHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, webhookBodyLimit))
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if err := h.orderService.HandleWebhook(payload, signature); err != nil {
		// Stripe retries on non-2xx; a bad signature should not be retried
		if errors.Is(err, models.ErrInvalidTransition) {
			c.Status(http.StatusOK)
			return
		}
		c.Status(http.StatusBadRequest)
		return
	}

	c.Status(http.StatusOK)
}

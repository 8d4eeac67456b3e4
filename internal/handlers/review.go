// internal/handlers/review.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillswap/skillswap-backend/internal/metrics"
	"github.com/skillswap/skillswap-backend/internal/services"
	"github.com/skillswap/skillswap-backend/internal/utils"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
	collector     *metrics.Collector
}

func NewReviewHandler(reviewService *services.ReviewService, collector *metrics.Collector) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		collector:     collector,
	}
}

// POST /v1/listings/:id/reviews
func (h *ReviewHandler) Submit(c *gin.Context) {
	authorID, ok := currentUserID(c)
	if !ok {
		return
	}

	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid listing ID", nil)
		return
	}

	var req services.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	review, err := h.reviewService.Submit(listingID, authorID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	h.collector.RecordReviewSubmitted()

	utils.CreatedResponse(c, gin.H{
		"review": review,
	})
}

// GET /v1/listings/:id/reviews
func (h *ReviewHandler) ListForListing(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid listing ID", nil)
		return
	}

	reviews, summary, err := h.reviewService.ListForListing(listingID)
	if err != nil {
		utils.NotFoundResponse(c, "listing")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"reviews": reviews,
		"summary": summary,
	})
}

// GET /v1/users/:id/reviews
func (h *ReviewHandler) ListByAuthor(c *gin.Context) {
	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return
	}

	reviews, err := h.reviewService.ListByAuthor(authorID)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch reviews")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"reviews": reviews,
	})
}

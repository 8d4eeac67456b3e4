// internal/handlers/listing.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillswap/skillswap-backend/internal/services"
	"github.com/skillswap/skillswap-backend/internal/utils"
)

type ListingHandler struct {
	listingService *services.ListingService
}

func NewListingHandler(listingService *services.ListingService) *ListingHandler {
	return &ListingHandler{
		listingService: listingService,
	}
}

// POST /v1/listings
func (h *ListingHandler) Create(c *gin.Context) {
	sellerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	listing, err := h.listingService.CreateListing(sellerID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"listing": listing,
	})
}

// GET /v1/listings
func (h *ListingHandler) Search(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	minPrice, _ := strconv.ParseFloat(c.Query("min_price"), 64)
	maxPrice, _ := strconv.ParseFloat(c.Query("max_price"), 64)
	filters := services.ListingFilters{
		Tag:      c.Query("tag"),
		Delivery: c.Query("delivery"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
	}

	result, err := h.listingService.SearchListings(params, filters)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch listings")
		return
	}

	utils.PaginatedResponse(c, *result)
}

// GET /v1/listings/:id
func (h *ListingHandler) Get(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid listing ID", nil)
		return
	}

	var viewerID *uuid.UUID
	if userIDStr, ok := utils.GetUserIDFromContext(c); ok {
		if parsed, err := uuid.Parse(userIDStr); err == nil {
			viewerID = &parsed
		}
	}

	listing, err := h.listingService.GetListing(listingID, viewerID)
	if err != nil {
		utils.NotFoundResponse(c, "listing")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"listing": listing,
	})
}

// GET /v1/listings/mine
func (h *ListingHandler) Mine(c *gin.Context) {
	sellerID, ok := currentUserID(c)
	if !ok {
		return
	}

	listings, err := h.listingService.GetSellerListings(sellerID)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch listings")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"listings": listings,
	})
}

// POST /v1/listings/upload
func (h *ListingHandler) Upload(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	category := c.DefaultPostForm("category", "listing_files")

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, "No file provided", nil)
		return
	}
	defer file.Close()

	result, err := h.listingService.UploadAsset(category, file, header)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"file": result,
	})
}

// currentUserID pulls the authenticated principal out of the context and
// writes the 401 itself when absent.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return uuid.Nil, false
	}

	return userID, true
}

// internal/services/listing_service.go
package services

import (
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/skillswap/skillswap-backend/internal/config"
	"github.com/skillswap/skillswap-backend/internal/models"
	"github.com/skillswap/skillswap-backend/internal/utils"
)

type ListingService struct {
	db      *gorm.DB
	cfg     *config.Config
	storage *StorageService
}

type CreateListingRequest struct {
	Title       string              `json:"title" validate:"required,min=5,max=100"`
	Description string              `json:"description" validate:"required,min=20,max=1000"`
	Category    string              `json:"category" validate:"required,max=100"`
	Price       float64             `json:"price" validate:"required,gt=0"`
	Delivery    models.DeliveryType `json:"delivery_type" validate:"required,oneof=instant live"`
	Tags        []string            `json:"tags" validate:"required,min=1,max=5,dive,min=2,max=30"`
	FileURL     string              `json:"file_url,omitempty" validate:"omitempty,url,max=512"`
	ImageURL    string              `json:"image_url,omitempty" validate:"omitempty,url,max=512"`
}

type ListingFilters struct {
	Tag      string
	Delivery string
	MinPrice float64
	MaxPrice float64
}

func NewListingService(db *gorm.DB, cfg *config.Config, storage *StorageService) *ListingService {
	return &ListingService{
		db:      db,
		cfg:     cfg,
		storage: storage,
	}
}

func (s *ListingService) CreateListing(sellerID uuid.UUID, req *CreateListingRequest) (*models.Listing, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if req.Price < s.cfg.Listing.MinPrice || req.Price > s.cfg.Listing.MaxPrice {
		return nil, fmt.Errorf("price must be between %.2f and %.2f", s.cfg.Listing.MinPrice, s.cfg.Listing.MaxPrice)
	}

	var seller models.User
	if err := s.db.First(&seller, sellerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("seller not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	tags := make(pq.StringArray, 0, len(req.Tags))
	for _, tag := range req.Tags {
		if cleaned := utils.SanitizeText(tag); cleaned != "" {
			tags = append(tags, cleaned)
		}
	}
	if len(tags) == 0 {
		return nil, errors.New("at least one tag is required")
	}

	listing := &models.Listing{
		SellerID:       sellerID,
		Title:          utils.SanitizeText(req.Title),
		Description:    utils.SanitizeText(req.Description),
		Category:       utils.SanitizeText(req.Category),
		Price:          req.Price,
		Delivery:       req.Delivery,
		Tags:           tags,
		FileURL:        req.FileURL,
		ImageURL:       req.ImageURL,
		Status:         models.ListingStatusPublished,
		SellerName:     seller.DisplayName,
		SellerPhotoURL: seller.PhotoURL,
	}

	// Instant listings stay out of the catalog until their file arrives
	if !listing.Publishable() {
		listing.Status = models.ListingStatusDraft
	}

	if err := s.db.Create(listing).Error; err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	return listing, nil
}

// GetListing fetches a single published listing and bumps its view count.
// Sellers can fetch their own drafts.
func (s *ListingService) GetListing(listingID uuid.UUID, viewerID *uuid.UUID) (*models.Listing, error) {
	var listing models.Listing
	if err := s.db.First(&listing, listingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("listing not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if listing.Status != models.ListingStatusPublished {
		if viewerID == nil || *viewerID != listing.SellerID {
			return nil, errors.New("listing not found")
		}
	}

	// View counting is best effort
	s.db.Model(&listing).UpdateColumn("view_count", gorm.Expr("view_count + 1"))

	return &listing, nil
}

func (s *ListingService) SearchListings(params utils.PaginationParams, filters ListingFilters) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.Listing{}).Where("status = ?", models.ListingStatusPublished)

	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", search, search)
	}
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	if filters.Tag != "" {
		query = query.Where("? = ANY(tags)", filters.Tag)
	}
	if filters.Delivery != "" {
		query = query.Where("delivery = ?", filters.Delivery)
	}
	if filters.MinPrice > 0 {
		query = query.Where("price >= ?", filters.MinPrice)
	}
	if filters.MaxPrice > 0 {
		query = query.Where("price <= ?", filters.MaxPrice)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count listings: %w", err)
	}

	var listings []models.Listing
	allowedSorts := []string{"created_at", "price", "average_rating", "review_count", "view_count"}
	query = utils.ApplySort(query, params, allowedSorts)
	query = utils.ApplyPagination(query, params)

	if err := query.Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch listings: %w", err)
	}

	result := utils.CreatePaginationResult(listings, total, params)
	return &result, nil
}

// GetSellerListings returns the seller's own listings, drafts included.
func (s *ListingService) GetSellerListings(sellerID uuid.UUID) ([]models.Listing, error) {
	var listings []models.Listing
	if err := s.db.Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch listings: %w", err)
	}
	return listings, nil
}

// UploadAsset stores a listing file or cover image and returns its URL.
// Category is "listing_files" or "listing_images".
func (s *ListingService) UploadAsset(category string, file multipart.File, header *multipart.FileHeader) (*UploadResult, error) {
	if category != "listing_files" && category != "listing_images" {
		return nil, errors.New("invalid upload category")
	}

	if category == "listing_images" {
		if err := s.storage.ValidateImage(file); err != nil {
			return nil, err
		}
	}

	options := s.storage.GetDefaultUploadOptions(category)
	result, err := s.storage.UploadFile(file, header, options)
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}
	return result, nil
}

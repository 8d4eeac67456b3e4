// internal/services/review_service.go
package services

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillswap/skillswap-backend/internal/database"
	"github.com/skillswap/skillswap-backend/internal/models"
	"github.com/skillswap/skillswap-backend/internal/utils"
)

type ReviewService struct {
	db *gorm.DB
}

type SubmitReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required,max=1000"`
}

// ReviewSummary is computed from the full review set of a listing.
// IsNew replaces the numeric average when no reviews exist yet.
type ReviewSummary struct {
	Average   float64         `json:"average"`
	Stars     int             `json:"stars"`
	Count     int             `json:"count"`
	Histogram map[int]float64 `json:"histogram"` // star -> percentage
	IsNew     bool            `json:"is_new"`
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// Submit stores the review and refreshes the listing and seller rating
// aggregates in the same transaction, so readers never observe a review
// without its aggregate effect.
func (s *ReviewService) Submit(listingID, authorID uuid.UUID, req *SubmitReviewRequest) (*models.Review, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	comment := utils.SanitizeText(req.Comment)
	if comment == "" {
		return nil, errors.New("comment cannot be empty")
	}

	var listing models.Listing
	if err := s.db.First(&listing, listingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("listing not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var author models.User
	if err := s.db.First(&author, authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("author not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	review := &models.Review{
		ListingID:      listingID,
		AuthorID:       authorID,
		Rating:         req.Rating,
		Comment:        comment,
		AuthorName:     author.DisplayName,
		AuthorPhotoURL: author.PhotoURL,
	}

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return fmt.Errorf("failed to create review: %w", err)
		}

		// Listing aggregates
		if err := tx.Exec(`
			UPDATE listings SET
				average_rating = (SELECT COALESCE(AVG(rating), 0) FROM reviews WHERE listing_id = ? AND deleted_at IS NULL),
				review_count   = (SELECT COUNT(*) FROM reviews WHERE listing_id = ? AND deleted_at IS NULL)
			WHERE id = ?`, listingID, listingID, listingID).Error; err != nil {
			return fmt.Errorf("failed to refresh listing aggregates: %w", err)
		}

		// Seller aggregates across all of their listings
		if err := tx.Exec(`
			UPDATE users SET
				average_rating = (
					SELECT COALESCE(AVG(r.rating), 0) FROM reviews r
					JOIN listings l ON l.id = r.listing_id
					WHERE l.seller_id = ? AND r.deleted_at IS NULL),
				rating_count = (
					SELECT COUNT(*) FROM reviews r
					JOIN listings l ON l.id = r.listing_id
					WHERE l.seller_id = ? AND r.deleted_at IS NULL)
			WHERE id = ?`, listing.SellerID, listing.SellerID, listing.SellerID).Error; err != nil {
			return fmt.Errorf("failed to refresh seller aggregates: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return review, nil
}

// ListForListing returns all reviews newest first, plus the computed summary.
func (s *ReviewService) ListForListing(listingID uuid.UUID) ([]models.Review, *ReviewSummary, error) {
	var exists int64
	if err := s.db.Model(&models.Listing{}).Where("id = ?", listingID).Count(&exists).Error; err != nil {
		return nil, nil, fmt.Errorf("database error: %w", err)
	}
	if exists == 0 {
		return nil, nil, errors.New("listing not found")
	}

	var reviews []models.Review
	if err := s.db.Where("listing_id = ?", listingID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to fetch reviews: %w", err)
	}

	ratings := make([]int, len(reviews))
	for i, r := range reviews {
		ratings[i] = r.Rating
	}

	summary := ComputeReviewSummary(ratings)
	return reviews, &summary, nil
}

func (s *ReviewService) ListByAuthor(authorID uuid.UUID) ([]models.Review, error) {
	var reviews []models.Review
	if err := s.db.Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch reviews: %w", err)
	}
	return reviews, nil
}

// ComputeReviewSummary derives the display aggregates from a rating set.
// Star value rounds to the nearest integer with ties away from zero, so a
// 4.5 average shows five stars.
func ComputeReviewSummary(ratings []int) ReviewSummary {
	summary := ReviewSummary{
		Histogram: map[int]float64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}

	if len(ratings) == 0 {
		summary.IsNew = true
		return summary
	}

	counts := make(map[int]int, 5)
	sum := 0
	for _, r := range ratings {
		sum += r
		counts[r]++
	}

	summary.Count = len(ratings)
	summary.Average = float64(sum) / float64(len(ratings))
	summary.Stars = int(math.Round(summary.Average))
	for star := 1; star <= 5; star++ {
		summary.Histogram[star] = float64(counts[star]) / float64(len(ratings)) * 100
	}

	return summary
}

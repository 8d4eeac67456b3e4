// internal/services/user_service.go
package services

import (
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/skillswap/skillswap-backend/internal/config"
	"github.com/skillswap/skillswap-backend/internal/database"
	"github.com/skillswap/skillswap-backend/internal/models"
	"github.com/skillswap/skillswap-backend/internal/utils"
)

type UserService struct {
	db      *gorm.DB
	cfg     *config.Config
	storage *StorageService
}

type UpdateProfileRequest struct {
	DisplayName *string  `json:"display_name,omitempty" validate:"omitempty,display_name"`
	Bio         *string  `json:"bio,omitempty" validate:"omitempty,max=500"`
	Skills      []string `json:"skills,omitempty" validate:"omitempty,max=10,dive,min=2,max=30"`
}

// PublicProfile is the subset of a user account exposed to other users.
type PublicProfile struct {
	ID            uuid.UUID      `json:"id"`
	DisplayName   string         `json:"display_name"`
	PhotoURL      string         `json:"photo_url,omitempty"`
	Bio           string         `json:"bio,omitempty"`
	Skills        pq.StringArray `json:"skills"`
	AverageRating float64        `json:"average_rating"`
	RatingCount   int64          `json:"rating_count"`
	ListingCount  int64          `json:"listing_count"`
}

func NewUserService(db *gorm.DB, cfg *config.Config, storage *StorageService) *UserService {
	return &UserService{
		db:      db,
		cfg:     cfg,
		storage: storage,
	}
}

func (s *UserService) GetUserByID(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

func (s *UserService) GetPublicProfile(userID uuid.UUID) (*PublicProfile, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	var listingCount int64
	if err := s.db.Model(&models.Listing{}).
		Where("seller_id = ? AND status = ?", userID, models.ListingStatusPublished).
		Count(&listingCount).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &PublicProfile{
		ID:            user.ID,
		DisplayName:   user.DisplayName,
		PhotoURL:      user.PhotoURL,
		Bio:           user.Bio,
		Skills:        user.Skills,
		AverageRating: user.AverageRating,
		RatingCount:   user.RatingCount,
		ListingCount:  listingCount,
	}, nil
}

// UpdateProfile applies a partial update and refreshes the display-name
// snapshot on the user's listings so the catalog stays consistent.
func (s *UserService) UpdateProfile(userID uuid.UUID, req *UpdateProfileRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	nameChanged := false
	if req.DisplayName != nil {
		name := utils.SanitizeText(*req.DisplayName)
		if name == "" {
			return nil, errors.New("display name cannot be empty")
		}
		nameChanged = name != user.DisplayName
		user.DisplayName = name
	}
	if req.Bio != nil {
		user.Bio = utils.SanitizeText(*req.Bio)
	}
	if req.Skills != nil {
		skills := make(pq.StringArray, 0, len(req.Skills))
		for _, skill := range req.Skills {
			if cleaned := utils.SanitizeText(skill); cleaned != "" {
				skills = append(skills, cleaned)
			}
		}
		user.Skills = skills
	}

	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Save(user).Error; err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		if nameChanged {
			if err := tx.Model(&models.Listing{}).
				Where("seller_id = ?", userID).
				Update("seller_name", user.DisplayName).Error; err != nil {
				return fmt.Errorf("failed to update listing snapshots: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// UploadAvatar stores the image and updates both the account and the
// photo snapshots carried by the user's listings.
func (s *UserService) UploadAvatar(userID uuid.UUID, file multipart.File, header *multipart.FileHeader) (*models.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if err := s.storage.ValidateImage(file); err != nil {
		return nil, err
	}

	options := s.storage.GetDefaultUploadOptions("avatars")
	result, err := s.storage.UploadFile(file, header, options)
	if err != nil {
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}

	user.PhotoURL = result.URL
	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Save(user).Error; err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		if err := tx.Model(&models.Listing{}).
			Where("seller_id = ?", userID).
			Update("seller_photo_url", user.PhotoURL).Error; err != nil {
			return fmt.Errorf("failed to update listing snapshots: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

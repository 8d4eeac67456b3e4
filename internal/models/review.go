// internal/models/review.go
package models

import (
	"github.com/google/uuid"
)

// Review is immutable once created: there is no edit or delete path.
type Review struct {
	BaseModel
	ListingID uuid.UUID `json:"listing_id" gorm:"type:uuid;not null;index"`
	AuthorID  uuid.UUID `json:"author_id" gorm:"type:uuid;not null;index"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   string    `json:"comment" gorm:"type:text;not null"`

	// Author display snapshot taken at submit time.
	AuthorName     string `json:"author_name" gorm:"size:50"`
	AuthorPhotoURL string `json:"author_photo_url,omitempty" gorm:"size:512"`

	// Relationships
	Listing Listing `json:"listing,omitempty" gorm:"foreignKey:ListingID"`
	Author  User    `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}

// internal/models/listing.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Listing struct {
	BaseModel
	SellerID    uuid.UUID    `json:"seller_id" gorm:"type:uuid;not null;index"`
	Title       string       `json:"title" gorm:"size:100;not null"`
	Description string       `json:"description" gorm:"type:text;not null"`
	Category    string       `json:"category" gorm:"size:100;index"`
	Price       float64      `json:"price" gorm:"type:decimal(10,2);not null"`
	Delivery    DeliveryType `json:"delivery_type" gorm:"type:varchar(10);not null;index"`
	Tags        pq.StringArray `json:"tags" gorm:"type:text[]"`
	// FileURL is the deliverable for instant listings; ImageURL is the
	// cover shown on catalog cards. Both point at object storage.
	FileURL  string        `json:"file_url,omitempty" gorm:"size:512"`
	ImageURL string        `json:"image_url,omitempty" gorm:"size:512"`
	Status   ListingStatus `json:"status" gorm:"type:varchar(20);default:'published';index"`

	// Seller display snapshot taken at creation time so catalog cards
	// render without a join.
	SellerName     string `json:"seller_name" gorm:"size:50"`
	SellerPhotoURL string `json:"seller_photo_url,omitempty" gorm:"size:512"`

	// Cached review aggregates, refreshed transactionally on every
	// review write. The single source of truth served everywhere.
	AverageRating float64 `json:"average_rating" gorm:"type:decimal(3,2);default:0"`
	ReviewCount   int64   `json:"review_count" gorm:"default:0"`

	ViewCount int64 `json:"view_count" gorm:"default:0"`

	// Relationships
	Seller  User     `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
	Reviews []Review `json:"reviews,omitempty" gorm:"foreignKey:ListingID"`
	Orders  []Order  `json:"orders,omitempty" gorm:"foreignKey:ListingID"`
}

// Publishable reports whether the listing can appear in the catalog.
// Instant-delivery listings need their downloadable file attached first.
func (l *Listing) Publishable() bool {
	if l.Delivery == DeliveryTypeInstant {
		return l.FileURL != ""
	}
	return true
}

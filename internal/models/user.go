// internal/models/user.go
package models

import (
	"time"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	DisplayName  string         `json:"display_name" gorm:"size:50;not null"`
	Email        string         `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string         `json:"-" gorm:"size:255"`
	PhotoURL     string         `json:"photo_url,omitempty" gorm:"size:512"`
	Bio          string         `json:"bio,omitempty" gorm:"type:text"`
	Skills       pq.StringArray `json:"skills" gorm:"type:text[]"`
	// Cached across all reviews on the user's listings; refreshed in the
	// same transaction as every review write.
	AverageRating   float64    `json:"average_rating" gorm:"type:decimal(3,2);default:0"`
	RatingCount     int64      `json:"rating_count" gorm:"default:0"`
	GoogleID        string     `json:"-" gorm:"size:255;index"`
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`
	LastLoginAt     *time.Time `json:"last_login_at,omitempty"`

	// Relationships
	Listings []Listing `json:"listings,omitempty" gorm:"foreignKey:SellerID"`
	Reviews  []Review  `json:"reviews,omitempty" gorm:"foreignKey:AuthorID"`
	Orders   []Order   `json:"orders,omitempty" gorm:"foreignKey:BuyerID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// HasPassword reports whether the account can sign in with email+password.
// Accounts created through federated sign-in carry no hash.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// internal/services/auth_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/skillswap/skillswap-backend/internal/config"
	"github.com/skillswap/skillswap-backend/internal/models"
	"github.com/skillswap/skillswap-backend/internal/utils"
)

type AuthService struct {
	db            *gorm.DB
	cfg           *config.Config
	notifications *NotificationService
	google        *GoogleOAuthProvider
}

type RegisterRequest struct {
	DisplayName string `json:"display_name" validate:"required,display_name"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,strong_password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"` // in seconds
}

func NewAuthService(db *gorm.DB, cfg *config.Config, notifications *NotificationService, google *GoogleOAuthProvider) *AuthService {
	return &AuthService{
		db:            db,
		cfg:           cfg,
		notifications: notifications,
		google:        google,
	}
}

func (s *AuthService) Register(req *RegisterRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Check if user already exists
	var existingUser models.User
	if err := s.db.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		return nil, errors.New("user with this email already exists")
	}

	user := &models.User{
		DisplayName: utils.SanitizeText(req.DisplayName),
		Email:       req.Email,
	}

	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Send welcome email (async)
	go func() {
		if err := s.notifications.SendWelcomeEmail(user); err != nil {
			logrus.WithError(err).WithField("user_id", user.ID).Warn("Failed to send welcome email")
		}
	}()

	return s.issueTokens(user)
}

func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("invalid email or password")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	// Federated accounts carry no password hash
	if !user.HasPassword() {
		return nil, errors.New("invalid email or password")
	}

	if err := user.CheckPassword(req.Password); err != nil {
		return nil, errors.New("invalid email or password")
	}

	now := time.Now()
	user.LastLoginAt = &now
	s.db.Save(&user)

	return s.issueTokens(&user)
}

// LoginURL returns the Google consent page redirect, or an error when the
// provider is not configured.
func (s *AuthService) LoginURL(state string) (string, error) {
	if !s.google.Configured() {
		return "", errors.New("google sign-in is not configured")
	}
	return s.google.LoginURL(state), nil
}

// LoginWithGoogle exchanges the OAuth authorization code, then finds the
// matching account or creates one. Matching runs on google_id first and
// falls back to the verified email so an existing password account gets
// linked instead of duplicated.
func (s *AuthService) LoginWithGoogle(ctx context.Context, code string) (*AuthResponse, error) {
	if !s.google.Configured() {
		return nil, errors.New("google sign-in is not configured")
	}

	info, err := s.google.ExchangeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("google code exchange failed: %w", err)
	}

	var user models.User
	err = s.db.Where("google_id = ?", info.ProviderUserID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = s.db.Where("email = ?", info.Email).First(&user).Error
	}

	now := time.Now()

	switch {
	case err == nil:
		// Link and refresh the profile snapshot
		user.GoogleID = info.ProviderUserID
		if user.PhotoURL == "" {
			user.PhotoURL = info.Picture
		}
		if user.EmailVerifiedAt == nil {
			user.EmailVerifiedAt = &now
		}
		user.LastLoginAt = &now
		if err := s.db.Save(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}

	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{
			DisplayName:     utils.SanitizeText(info.Name),
			Email:           info.Email,
			PhotoURL:        info.Picture,
			GoogleID:        info.ProviderUserID,
			EmailVerifiedAt: &now,
			LastLoginAt:     &now,
		}
		if user.DisplayName == "" {
			user.DisplayName = "SkillSwap user"
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		go func() {
			if err := s.notifications.SendWelcomeEmail(&user); err != nil {
				logrus.WithError(err).WithField("user_id", user.ID).Warn("Failed to send welcome email")
			}
		}()

	default:
		return nil, fmt.Errorf("database error: %w", err)
	}

	return s.issueTokens(&user)
}

func (s *AuthService) RefreshToken(refreshToken string) (*AuthResponse, error) {
	userIDStr, err := utils.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in token: %w", err)
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return s.issueTokens(&user)
}

func (s *AuthService) GetUserByID(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

func (s *AuthService) issueTokens(user *models.User) (*AuthResponse, error) {
	accessToken, err := utils.GenerateJWT(user.ID, user.DisplayName, user.Email, s.cfg.JWT.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := utils.GenerateRefreshToken(user.ID, s.cfg.JWT.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.cfg.JWT.AccessTokenTTL * 3600,
	}, nil
}

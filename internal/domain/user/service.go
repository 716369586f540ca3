// internal/domain/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mrokonuzzaan040/tech-pinik/internal/config"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/shared"
	"github.com/mrokonuzzaan040/tech-pinik/internal/pkg/auth"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	ErrUserNotFound       = shared.NewDomainError("USER_NOT_FOUND", "User not found")
	ErrEmailTaken         = shared.NewDomainError("EMAIL_TAKEN", "User with this email already exists")
)

// Service handles staff account business logic
type Service struct {
	db              *gorm.DB
	passwordManager *auth.PasswordManager
	jwtManager      *auth.JWTManager
	logger          logrus.FieldLogger
	now             func() time.Time
}

// NewService creates a new user service
func NewService(db *gorm.DB, cfg *config.Config, logger logrus.FieldLogger) *Service {
	return &Service{
		db:              db,
		passwordManager: auth.NewPasswordManager(cfg),
		jwtManager:      auth.NewJWTManager(cfg),
		logger:          logger,
		now:             time.Now,
	}
}

// JWT exposes the token manager so middleware can verify what Login issues
func (s *Service) JWT() *auth.JWTManager {
	return s.jwtManager
}

// LoginRequest represents staff login data
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User        *User  `json:"user"`
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// CreateAdminRequest describes a staff account to provision
type CreateAdminRequest struct {
	Email    string
	Password string
	Name     string
}

// Login authenticates a staff account and issues an access token
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	var user User
	err := s.db.WithContext(ctx).
		Where("email = ? AND is_active = ?", NormalizeEmail(req.Email), true).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.passwordManager.VerifyPassword(req.Password, user.Password); err != nil {
		s.logger.WithField("user_id", user.ID).Warn("login rejected: bad password")
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	now := s.now().UTC()
	user.LastLoginAt = &now
	if err := s.db.WithContext(ctx).Model(&user).Update("last_login_at", now).Error; err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Warn("failed to record last login")
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"is_admin": user.IsAdmin,
	}).Info("user logged in")

	return &AuthResponse{
		User:        &user,
		AccessToken: accessToken,
		ExpiresIn:   int64(s.jwtManager.Expiry().Seconds()),
	}, nil
}

// GetProfile gets an active user by ID
func (s *Service) GetProfile(ctx context.Context, userID uint) (*User, error) {
	var user User
	err := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", userID, true).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// EnsureAdmin creates the admin account when the email is not yet registered.
// An existing account is left untouched.
func (s *Service) EnsureAdmin(ctx context.Context, req CreateAdminRequest) (*User, bool, error) {
	var existing User
	err := s.db.WithContext(ctx).Where("email = ?", NormalizeEmail(req.Email)).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to find user: %w", err)
	}

	hashedPassword, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, false, err
	}

	user := User{
		Email:    req.Email,
		Password: hashedPassword,
		Name:     req.Name,
		IsActive: true,
		IsAdmin:  true,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, false, ErrEmailTaken
		}
		return nil, false, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.WithField("user_id", user.ID).Info("admin account created")
	return &user, true, nil
}

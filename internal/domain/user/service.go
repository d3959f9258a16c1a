// internal/domain/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/your-org/fireplay-backend/internal/domain/identity"
)

var (
	// ErrCurrentPasswordRequired is returned when an email or password change
	// comes without the current password
	ErrCurrentPasswordRequired = errors.New("user: current password required")
	// ErrPasswordMismatch is returned when the confirmation differs
	ErrPasswordMismatch = errors.New("user: passwords do not match")
)

// Service handles accounts and profiles
type Service struct {
	repo     Repository
	idp      identity.Provider
	validate *validator.Validate
	now      func() time.Time
	log      logrus.FieldLogger
}

// NewService creates a new user service
func NewService(repo Repository, idp identity.Provider, log logrus.FieldLogger) *Service {
	return &Service{
		repo:     repo,
		idp:      idp,
		validate: NewValidator(),
		now:      time.Now,
		log:      log,
	}
}

// RegisterRequest represents user registration data
type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	DisplayName     string `json:"display_name" binding:"required,max=100"`
}

// LoginRequest represents user login data
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User      identity.Identity `json:"user"`
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// UpdateProfileRequest represents a dashboard save. Email and NewPassword
// changes need CurrentPassword.
type UpdateProfileRequest struct {
	Email           string `json:"email" validate:"omitempty,email,max=255"`
	Birthday        string `json:"birthday" validate:"omitempty,birthday"`
	Gender          string `json:"gender" validate:"omitempty,oneof=Male Female Other"`
	NewPassword     string `json:"new_password" validate:"omitempty,min=6,max=128"`
	CurrentPassword string `json:"current_password"`
}

// Register creates an account, its profile document, and signs it in
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	ident, err := s.idp.SignUp(ctx, normalizeEmail(req.Email), req.Password, req.DisplayName)
	if err != nil {
		return nil, err
	}

	profile := &Profile{
		UserID:      ident.UID,
		DisplayName: ident.DisplayName,
		Email:       ident.Email,
		UpdatedAt:   s.now().UTC(),
	}
	if err := s.repo.PutProfile(ctx, profile); err != nil {
		// the account exists, the profile is rebuilt from the identity on read
		s.log.WithError(err).WithField("user_id", ident.UID).Warn("failed to create profile")
	}

	return s.Login(ctx, &LoginRequest{Email: ident.Email, Password: req.Password})
}

// Login signs a user in with email and password
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	ident, token, err := s.idp.SignIn(ctx, normalizeEmail(req.Email), req.Password)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:      ident,
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt,
	}, nil
}

// Logout revokes the user's tokens at the provider
func (s *Service) Logout(ctx context.Context, uid string) error {
	if err := s.idp.SignOut(ctx, uid); err != nil {
		s.log.WithError(err).WithField("user_id", uid).Error("failed to sign out")
		return fmt.Errorf("failed to sign out: %w", err)
	}
	return nil
}

// GetProfile returns the stored profile, or one built from the identity
// when the user never saved the dashboard
func (s *Service) GetProfile(ctx context.Context, ident identity.Identity) (*Profile, error) {
	p, err := s.repo.GetProfile(ctx, ident.UID)
	if errors.Is(err, ErrProfileNotFound) {
		return &Profile{
			UserID:      ident.UID,
			DisplayName: ident.DisplayName,
			Email:       ident.Email,
		}, nil
	}
	if err != nil {
		s.log.WithError(err).WithField("user_id", ident.UID).Error("failed to get profile")
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// UpdateProfile saves the dashboard. When the email or password changes the
// current password is re-checked first; if that fails nothing is changed.
// It returns the saved profile and the identity as it is after the update.
func (s *Service) UpdateProfile(ctx context.Context, ident identity.Identity, req *UpdateProfileRequest) (*Profile, identity.Identity, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, ident, err
	}

	newEmail := normalizeEmail(req.Email)
	emailChanged := newEmail != "" && newEmail != normalizeEmail(ident.Email)
	passwordChanged := req.NewPassword != ""

	logger := s.log.WithField("user_id", ident.UID)

	if emailChanged || passwordChanged {
		if req.CurrentPassword == "" {
			return nil, ident, ErrCurrentPasswordRequired
		}
		if err := s.idp.Reauthenticate(ctx, ident.UID, req.CurrentPassword); err != nil {
			logger.WithError(err).Warn("re-authentication failed")
			return nil, ident, err
		}
	}

	// password first, so a rejected password leaves the email untouched
	if passwordChanged {
		if err := s.idp.UpdatePassword(ctx, ident.UID, req.NewPassword); err != nil {
			logger.WithError(err).Error("failed to update password")
			return nil, ident, fmt.Errorf("failed to update password: %w", err)
		}
	}
	if emailChanged {
		if err := s.idp.UpdateEmail(ctx, ident.UID, newEmail); err != nil {
			logger.WithError(err).Error("failed to update email")
			return nil, ident, fmt.Errorf("failed to update email: %w", err)
		}
		ident.Email = newEmail
	}

	profile := &Profile{
		UserID:      ident.UID,
		DisplayName: ident.DisplayName,
		Email:       ident.Email,
		Birthday:    req.Birthday,
		Gender:      req.Gender,
		UpdatedAt:   s.now().UTC(),
	}
	if err := s.repo.PutProfile(ctx, profile); err != nil {
		logger.WithError(err).Error("failed to save profile")
		return nil, ident, fmt.Errorf("failed to save profile: %w", err)
	}

	return profile, ident, nil
}

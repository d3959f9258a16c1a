// internal/infrastructure/identity/local/provider.go
package local

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/fireplay-backend/internal/domain/identity"
	"github.com/your-org/fireplay-backend/internal/pkg/auth"
	"gorm.io/gorm"
)

// Account is a locally managed login
type Account struct {
	ID           string `gorm:"primaryKey;size:36"`
	Email        string `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string `gorm:"not null"`
	DisplayName  string `gorm:"size:100"`
	// tokens carrying another version are rejected; sign-out increments it
	TokenVersion int `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName specifies the table name for Account
func (Account) TableName() string {
	return "users"
}

// Provider implements identity.Provider on a gorm users table
type Provider struct {
	db        *gorm.DB
	tokens    *auth.JWTManager
	passwords *auth.PasswordManager
	log       logrus.FieldLogger
}

// NewProvider creates a local identity provider
func NewProvider(db *gorm.DB, tokens *auth.JWTManager, passwords *auth.PasswordManager, log logrus.FieldLogger) *Provider {
	return &Provider{
		db:        db,
		tokens:    tokens,
		passwords: passwords,
		log:       log,
	}
}

// Models returns the tables owned by the provider, for migrations
func Models() []interface{} {
	return []interface{}{&Account{}}
}

// SignUp creates an account
func (p *Provider) SignUp(ctx context.Context, email, password, displayName string) (identity.Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	hash, err := p.passwords.HashPassword(password)
	if err != nil {
		if errors.Is(err, auth.ErrWeakPassword) {
			return identity.Identity{}, fmt.Errorf("%w: %v", identity.ErrWeakPassword, err)
		}
		return identity.Identity{}, err
	}

	taken, err := p.emailTaken(ctx, email, "")
	if err != nil {
		return identity.Identity{}, err
	}
	if taken {
		return identity.Identity{}, identity.ErrEmailTaken
	}

	account := &Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(displayName),
	}
	if err := p.db.WithContext(ctx).Create(account).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return identity.Identity{}, identity.ErrEmailTaken
		}
		return identity.Identity{}, fmt.Errorf("failed to create account: %w", err)
	}

	p.log.WithField("uid", account.ID).Info("Account created")
	return toIdentity(account), nil
}

// SignIn checks the credentials and issues an access token
func (p *Provider) SignIn(ctx context.Context, email, password string) (identity.Identity, *identity.Token, error) {
	var account Account
	err := p.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return identity.Identity{}, nil, identity.ErrInvalidCredentials
	}
	if err != nil {
		return identity.Identity{}, nil, fmt.Errorf("failed to load account: %w", err)
	}

	if err := p.passwords.VerifyPassword(password, account.PasswordHash); err != nil {
		return identity.Identity{}, nil, identity.ErrInvalidCredentials
	}

	value, expiresAt, err := p.tokens.GenerateAccessToken(account.ID, account.Email, account.DisplayName, account.TokenVersion)
	if err != nil {
		return identity.Identity{}, nil, err
	}

	return toIdentity(&account), &identity.Token{Value: value, ExpiresAt: expiresAt}, nil
}

// SignOut revokes every token issued so far
func (p *Provider) SignOut(ctx context.Context, uid string) error {
	return p.update(ctx, uid, map[string]interface{}{"token_version": gorm.Expr("token_version + 1")})
}

// Verify validates a token and checks it has not been revoked
func (p *Provider) Verify(ctx context.Context, token string) (identity.Identity, error) {
	claims, err := p.tokens.ValidateAccessToken(token)
	if err != nil {
		return identity.Identity{}, fmt.Errorf("%w: %v", identity.ErrInvalidToken, err)
	}

	account, err := p.find(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, identity.ErrUnauthenticated) {
			return identity.Identity{}, identity.ErrInvalidToken
		}
		return identity.Identity{}, err
	}

	if claims.Version != account.TokenVersion {
		return identity.Identity{}, fmt.Errorf("%w: token revoked", identity.ErrInvalidToken)
	}

	return toIdentity(account), nil
}

// Reauthenticate re-checks the password of a signed-in user
func (p *Provider) Reauthenticate(ctx context.Context, uid, password string) error {
	account, err := p.find(ctx, uid)
	if err != nil {
		return err
	}
	if err := p.passwords.VerifyPassword(password, account.PasswordHash); err != nil {
		return identity.ErrReauthFailed
	}
	return nil
}

// UpdateEmail changes the login email
func (p *Provider) UpdateEmail(ctx context.Context, uid, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	taken, err := p.emailTaken(ctx, email, uid)
	if err != nil {
		return err
	}
	if taken {
		return identity.ErrEmailTaken
	}

	return p.update(ctx, uid, map[string]interface{}{"email": email})
}

// UpdatePassword replaces the password hash
func (p *Provider) UpdatePassword(ctx context.Context, uid, password string) error {
	hash, err := p.passwords.HashPassword(password)
	if err != nil {
		if errors.Is(err, auth.ErrWeakPassword) {
			return fmt.Errorf("%w: %v", identity.ErrWeakPassword, err)
		}
		return err
	}
	return p.update(ctx, uid, map[string]interface{}{"password_hash": hash})
}

func (p *Provider) find(ctx context.Context, uid string) (*Account, error) {
	var account Account
	err := p.db.WithContext(ctx).Where("id = ?", uid).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, identity.ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	return &account, nil
}

func (p *Provider) emailTaken(ctx context.Context, email, exceptUID string) (bool, error) {
	var count int64
	q := p.db.WithContext(ctx).Model(&Account{}).Where("email = ?", email)
	if exceptUID != "" {
		q = q.Where("id <> ?", exceptUID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return count > 0, nil
}

func (p *Provider) update(ctx context.Context, uid string, values map[string]interface{}) error {
	result := p.db.WithContext(ctx).Model(&Account{}).Where("id = ?", uid).Updates(values)
	if result.Error != nil {
		return fmt.Errorf("failed to update account: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return identity.ErrUnauthenticated
	}
	return nil
}

func toIdentity(a *Account) identity.Identity {
	return identity.Identity{UID: a.ID, Email: a.Email, DisplayName: a.DisplayName}
}

// internal/infrastructure/identity/firebase/provider.go
package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	fb "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"github.com/sirupsen/logrus"
	"github.com/your-org/fireplay-backend/internal/domain/identity"
	"google.golang.org/api/option"
)

var _ identity.Provider = (*Provider)(nil)

// AuthClient is the part of the Firebase Admin auth client the provider uses
type AuthClient interface {
	VerifyIDTokenAndCheckRevoked(ctx context.Context, idToken string) (*fbauth.Token, error)
	CreateUser(ctx context.Context, user *fbauth.UserToCreate) (*fbauth.UserRecord, error)
	GetUser(ctx context.Context, uid string) (*fbauth.UserRecord, error)
	UpdateUser(ctx context.Context, uid string, user *fbauth.UserToUpdate) (*fbauth.UserRecord, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// Config holds what the password endpoints need
type Config struct {
	WebAPIKey   string
	RESTBaseURL string
	Timeout     time.Duration
}

// Provider implements identity.Provider on Firebase Authentication. Token
// checks go through the Admin SDK; password checks go through the Identity
// Toolkit REST API since the Admin SDK cannot verify passwords.
type Provider struct {
	client  AuthClient
	apiKey  string
	baseURL string
	http    *http.Client
	log     logrus.FieldLogger
}

// NewAuthClient initializes the Firebase app and returns its auth client
func NewAuthClient(ctx context.Context, projectID, credentialsFile string) (*fbauth.Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := fb.NewApp(ctx, &fb.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase auth: %w", err)
	}
	return client, nil
}

// NewProvider creates a Firebase identity provider
func NewProvider(client AuthClient, cfg Config, log logrus.FieldLogger) *Provider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Provider{
		client:  client,
		apiKey:  cfg.WebAPIKey,
		baseURL: strings.TrimRight(cfg.RESTBaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// SignUp creates a Firebase user with a display name
func (p *Provider) SignUp(ctx context.Context, email, password, displayName string) (identity.Identity, error) {
	params := (&fbauth.UserToCreate{}).
		Email(email).
		Password(password)
	if displayName != "" {
		params = params.DisplayName(displayName)
	}

	record, err := p.client.CreateUser(ctx, params)
	if err != nil {
		return identity.Identity{}, mapAuthError(err)
	}

	p.log.WithField("uid", record.UID).Info("Firebase user created")
	return fromRecord(record), nil
}

// SignIn exchanges email and password for an ID token
func (p *Provider) SignIn(ctx context.Context, email, password string) (identity.Identity, *identity.Token, error) {
	resp, err := p.signInWithPassword(ctx, email, password)
	if err != nil {
		return identity.Identity{}, nil, err
	}

	ident := identity.Identity{UID: resp.LocalID, Email: resp.Email, DisplayName: resp.DisplayName}
	token := &identity.Token{Value: resp.IDToken}
	if secs, err := strconv.Atoi(resp.ExpiresIn); err == nil {
		token.ExpiresAt = time.Now().UTC().Add(time.Duration(secs) * time.Second)
	}
	return ident, token, nil
}

// SignOut revokes the user's refresh tokens; ID tokens issued before now
// fail the revocation check in Verify
func (p *Provider) SignOut(ctx context.Context, uid string) error {
	if err := p.client.RevokeRefreshTokens(ctx, uid); err != nil {
		return mapAuthError(err)
	}
	return nil
}

// Verify checks an ID token, including revocation
func (p *Provider) Verify(ctx context.Context, token string) (identity.Identity, error) {
	decoded, err := p.client.VerifyIDTokenAndCheckRevoked(ctx, token)
	if err != nil {
		return identity.Identity{}, fmt.Errorf("%w: %v", identity.ErrInvalidToken, err)
	}

	ident := identity.Identity{UID: decoded.UID}
	if email, ok := decoded.Claims["email"].(string); ok {
		ident.Email = email
	}
	if name, ok := decoded.Claims["name"].(string); ok {
		ident.DisplayName = name
	}
	return ident, nil
}

// Reauthenticate re-checks the password of a signed-in user
func (p *Provider) Reauthenticate(ctx context.Context, uid, password string) error {
	record, err := p.client.GetUser(ctx, uid)
	if err != nil {
		return mapAuthError(err)
	}

	resp, err := p.signInWithPassword(ctx, record.Email, password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return identity.ErrReauthFailed
		}
		return err
	}
	if resp.LocalID != uid {
		return identity.ErrReauthFailed
	}
	return nil
}

// UpdateEmail changes the login email
func (p *Provider) UpdateEmail(ctx context.Context, uid, email string) error {
	if _, err := p.client.UpdateUser(ctx, uid, (&fbauth.UserToUpdate{}).Email(email)); err != nil {
		return mapAuthError(err)
	}
	return nil
}

// UpdatePassword changes the password
func (p *Provider) UpdatePassword(ctx context.Context, uid, password string) error {
	if _, err := p.client.UpdateUser(ctx, uid, (&fbauth.UserToUpdate{}).Password(password)); err != nil {
		return mapAuthError(err)
	}
	return nil
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	LocalID     string `json:"localId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	IDToken     string `json:"idToken"`
	ExpiresIn   string `json:"expiresIn"`
}

type restError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (p *Provider) signInWithPassword(ctx context.Context, email, password string) (*signInResponse, error) {
	body, err := json.Marshal(signInRequest{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return nil, err
	}

	endpoint := p.baseURL + "/accounts:signInWithPassword?key=" + url.QueryEscape(p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity toolkit request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr restError
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return nil, mapRESTError(resp.StatusCode, apiErr.Error.Message)
	}

	var out signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode sign-in response: %w", err)
	}
	return &out, nil
}

// mapRESTError turns Identity Toolkit error codes into identity errors. The
// message may carry a suffix such as "WEAK_PASSWORD : Password should be...".
func mapRESTError(status int, message string) error {
	code := message
	if i := strings.Index(code, " "); i >= 0 {
		code = code[:i]
	}

	switch code {
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "INVALID_EMAIL", "USER_DISABLED", "MISSING_PASSWORD":
		return identity.ErrInvalidCredentials
	case "TOO_MANY_ATTEMPTS_TRY_LATER":
		return fmt.Errorf("identity toolkit: too many attempts")
	default:
		return fmt.Errorf("identity toolkit: status %d: %s", status, message)
	}
}

func mapAuthError(err error) error {
	switch {
	case fbauth.IsEmailAlreadyExists(err):
		return identity.ErrEmailTaken
	case fbauth.IsUserNotFound(err):
		return identity.ErrUnauthenticated
	case strings.Contains(err.Error(), "password must be"):
		// the Admin SDK rejects short passwords client-side
		return fmt.Errorf("%w: %v", identity.ErrWeakPassword, err)
	default:
		return fmt.Errorf("firebase auth: %w", err)
	}
}

func fromRecord(r *fbauth.UserRecord) identity.Identity {
	if r == nil || r.UserInfo == nil {
		return identity.Identity{}
	}
	return identity.Identity{UID: r.UID, Email: r.Email, DisplayName: r.DisplayName}
}

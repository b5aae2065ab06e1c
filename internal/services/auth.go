package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sbilibin2017/finanfun/internal/logger"
	"github.com/sbilibin2017/finanfun/internal/models"
)

// Credentials manages user records and password checks.
type Credentials interface {
	CreateUser(ctx context.Context, nu models.NewUser) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	ResolveExternal(ctx context.Context, p *models.ExternalProfile) (*models.User, error)
}

// SessionIssuer opens and closes bearer sessions.
type SessionIssuer interface {
	Create(ctx context.Context, userID int64, meta models.ClientMeta) (*models.IssuedSession, error)
	Revoke(ctx context.Context, token string) error
}

// IdentityProvider performs the OAuth authorization code flow with one provider.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*models.ExternalProfile, error)
}

// RegisterInput is the data accepted by Register.
type RegisterInput struct {
	Email    string
	Name     string
	Password string
	Role     string
}

// AuthResult is returned by every flow that opens a session.
type AuthResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

// AuthService handles registration, login and logout.
type AuthService struct {
	credentials Credentials
	sessions    SessionIssuer
	providers   map[string]IdentityProvider
}

// NewAuthService creates a new AuthService. providers maps provider names
// (google, facebook) to their implementations and may be empty.
func NewAuthService(credentials Credentials, sessions SessionIssuer, providers map[string]IdentityProvider) *AuthService {
	if providers == nil {
		providers = map[string]IdentityProvider{}
	}
	return &AuthService{
		credentials: credentials,
		sessions:    sessions,
		providers:   providers,
	}
}

// Register creates an email/password user and opens a session for it.
func (svc *AuthService) Register(ctx context.Context, in RegisterInput, meta models.ClientMeta) (*AuthResult, error) {
	switch in.Role {
	case "", models.RoleUser, models.RoleParent, models.RoleChild:
	default:
		return nil, fmt.Errorf("%w: role %q is not allowed", ErrValidation, in.Role)
	}

	user, err := svc.credentials.CreateUser(ctx, models.NewUser{
		Email:    in.Email,
		Name:     in.Name,
		Password: in.Password,
		Provider: models.ProviderEmail,
		Role:     in.Role,
	})
	authAttempts.WithLabelValues("register", resultLabel(err)).Inc()
	if err != nil {
		return nil, err
	}

	return svc.openSession(ctx, user, meta)
}

// Login checks credentials and opens a session. No session is created on failure.
func (svc *AuthService) Login(ctx context.Context, email, password string, meta models.ClientMeta) (*AuthResult, error) {
	user, err := svc.credentials.Authenticate(ctx, email, password)
	authAttempts.WithLabelValues("password", resultLabel(err)).Inc()
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			logger.Log.Infow("invalid credentials", "email", NormalizeEmail(email))
		}
		return nil, err
	}

	return svc.openSession(ctx, user, meta)
}

// Logout revokes the session. Errors are logged and never reported to the caller.
func (svc *AuthService) Logout(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if err := svc.sessions.Revoke(ctx, token); err != nil {
		logger.Log.Errorw("failed to revoke session on logout", "err", err)
	}
}

func (svc *AuthService) CurrentUser(ctx context.Context, userID int64) (*models.User, error) {
	return svc.credentials.GetUser(ctx, userID)
}

// ProviderAuthURL returns the provider consent page URL carrying state.
func (svc *AuthService) ProviderAuthURL(provider, state string) (string, error) {
	p, ok := svc.providers[provider]
	if !ok {
		return "", ErrUnknownProvider
	}
	return p.AuthCodeURL(state), nil
}

// LoginWithProvider exchanges an authorization code and opens a session for the
// matching local user, creating one when needed.
func (svc *AuthService) LoginWithProvider(ctx context.Context, provider, code string, meta models.ClientMeta) (*AuthResult, error) {
	p, ok := svc.providers[provider]
	if !ok {
		return nil, ErrUnknownProvider
	}
	if code == "" {
		return nil, fmt.Errorf("%w: missing authorization code", ErrValidation)
	}

	profile, err := p.Exchange(ctx, code)
	if err != nil {
		authAttempts.WithLabelValues(provider, "error").Inc()
		logger.Log.Errorw("failed to exchange authorization code", "provider", provider, "err", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	profile.Provider = provider

	user, err := svc.credentials.ResolveExternal(ctx, profile)
	authAttempts.WithLabelValues(provider, resultLabel(err)).Inc()
	if err != nil {
		return nil, err
	}

	return svc.openSession(ctx, user, meta)
}

func (svc *AuthService) openSession(ctx context.Context, user *models.User, meta models.ClientMeta) (*AuthResult, error) {
	issued, err := svc.sessions.Create(ctx, user.ID, meta)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: issued.Token, ExpiresAt: issued.ExpiresAt}, nil
}

package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/deliverlabs/food-ordering-service/internal/auth"
	"github.com/deliverlabs/food-ordering-service/internal/config"
	"github.com/deliverlabs/food-ordering-service/internal/domain"
	"github.com/deliverlabs/food-ordering-service/internal/repository"
	apperrors "github.com/deliverlabs/food-ordering-service/pkg/util"
)

// AuthService coordinates staff login, token validation and identity management.
type AuthService struct {
	identities repository.IdentityRepository
	tokenMgr   *auth.TokenManager
	sessionTTL time.Duration
	bcryptCost int
	now        Clock
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	IdentityRepo repository.IdentityRepository
	TokenManager *auth.TokenManager
	Clock        Clock
}

// CreateIdentityInput describes a new staff account.
type CreateIdentityInput struct {
	Username string
	Email    string
	FullName string
	Password string
	Role     string
}

// Session is the result of a successful login.
type Session struct {
	Identity  *domain.Identity
	Token     string
	ExpiresAt time.Time
}

// NewAuthService builds the service. A nil TokenManager is built from cfg.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	tokenMgr := deps.TokenManager
	if tokenMgr == nil {
		tokenMgr = auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTLMinutes)
	}
	return &AuthService{
		identities: deps.IdentityRepo,
		tokenMgr:   tokenMgr,
		sessionTTL: cfg.SessionTTL(),
		bcryptCost: cfg.BcryptCost,
		now:        clockOrDefault(deps.Clock),
	}
}

// Authenticate checks username and password. Unknown users, wrong passwords and
// inactive accounts are indistinguishable to the caller.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.Identity, error) {
	identity, err := s.identities.GetByUsername(ctx, username)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, err
	}
	if err := auth.ComparePassword(identity.PasswordHash, password); err != nil {
		return nil, apperrors.NewInvalidCredentials()
	}
	if !identity.Active {
		return nil, apperrors.NewInvalidCredentials()
	}
	return identity, nil
}

// Login authenticates and issues a session token. Without a session TTL the
// token carries the signer's default lifetime.
func (s *AuthService) Login(ctx context.Context, username, password string) (*Session, error) {
	identity, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	var (
		token string
		exp   time.Time
	)
	if s.sessionTTL > 0 {
		token, exp, err = s.tokenMgr.GenerateTokenWithTTL(identity.Username, identity.Role, s.sessionTTL)
	} else {
		token, exp, err = s.tokenMgr.GenerateToken(identity.Username, identity.Role)
	}
	if err != nil {
		return nil, err
	}
	return &Session{Identity: identity, Token: token, ExpiresAt: exp}, nil
}

// ValidateToken resolves token into the identity it names. The returned identity
// carries its stored role, not the role claim in the token.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*domain.Identity, error) {
	claims, err := s.tokenMgr.ParseToken(token)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid or expired token")
	}
	identity, err := s.identities.GetByUsername(ctx, claims.Subject)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewUnauthorized("identity no longer exists")
		}
		return nil, err
	}
	if !identity.Active {
		return nil, apperrors.NewUnauthorized("identity is inactive")
	}
	return identity, nil
}

// CreateIdentity registers a new staff account.
func (s *AuthService) CreateIdentity(ctx context.Context, input CreateIdentityInput) (*domain.Identity, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, apperrors.NewValidationError("username is required", nil)
	}
	if input.Password == "" {
		return nil, apperrors.NewValidationError("password is required", nil)
	}
	role, err := domain.ParseRole(input.Role)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), map[string]any{"allowed": domain.Roles})
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	now := s.now()
	identity := &domain.Identity{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        strings.TrimSpace(input.Email),
		FullName:     strings.TrimSpace(input.FullName),
		PasswordHash: hash,
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.identities.Create(ctx, identity); err != nil {
		if isDuplicate(err) {
			return nil, apperrors.NewConflict("username already registered", map[string]any{"username": username})
		}
		return nil, err
	}
	return identity, nil
}

// ListIdentities returns every staff account.
func (s *AuthService) ListIdentities(ctx context.Context) ([]domain.Identity, error) {
	return s.identities.List(ctx)
}

// UpdateRole changes the role of an existing identity.
func (s *AuthService) UpdateRole(ctx context.Context, id, rawRole string) (*domain.Identity, error) {
	role, err := domain.ParseRole(rawRole)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), map[string]any{"allowed": domain.Roles})
	}
	if err := s.identities.UpdateRole(ctx, id, role); err != nil {
		return nil, notFoundOr(err, "user", id)
	}
	identity, err := s.identities.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "user", id)
	}
	return identity, nil
}

// Me reloads the identity of the caller.
func (s *AuthService) Me(ctx context.Context, id string) (*domain.Identity, error) {
	identity, err := s.identities.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "user", id)
	}
	return identity, nil
}

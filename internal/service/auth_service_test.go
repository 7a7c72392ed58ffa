package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/deliverlabs/food-ordering-service/internal/auth"
	"github.com/deliverlabs/food-ordering-service/internal/config"
	"github.com/deliverlabs/food-ordering-service/internal/domain"
	"github.com/deliverlabs/food-ordering-service/internal/repository/memory"
	apperrors "github.com/deliverlabs/food-ordering-service/pkg/util"
)

const testSecret = "test-secret"

func newAuthFixture(t *testing.T) (*AuthService, *memory.IdentityRepository, *auth.TokenManager) {
	t.Helper()
	repo := memory.NewIdentityRepository()
	tokens := auth.NewTokenManager(testSecret, 30)
	svc := NewAuthService(config.AuthConfig{
		JWTSecret:         testSecret,
		TokenTTLMinutes:   30,
		SessionTTLMinutes: 480,
		BcryptCost:        bcrypt.MinCost,
	}, AuthDependencies{IdentityRepo: repo, TokenManager: tokens})
	return svc, repo, tokens
}

func createStaff(t *testing.T, svc *AuthService, username string, role domain.Role) *domain.Identity {
	t.Helper()
	identity, err := svc.CreateIdentity(context.Background(), CreateIdentityInput{
		Username: username,
		FullName: username,
		Password: "s3cret!",
		Role:     string(role),
	})
	require.NoError(t, err)
	return identity
}

func TestLoginIssuesSessionToken(t *testing.T) {
	svc, _, tokens := newAuthFixture(t)
	createStaff(t, svc, "kai", domain.RoleKitchen)

	before := time.Now()
	session, err := svc.Login(context.Background(), "kai", "s3cret!")
	require.NoError(t, err)
	assert.Equal(t, "kai", session.Identity.Username)
	assert.WithinDuration(t, before.Add(8*time.Hour), session.ExpiresAt, time.Minute)

	claims, err := tokens.ParseToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, "kai", claims.Subject)
	assert.Equal(t, domain.RoleKitchen, claims.Role)
}

func TestLoginFallsBackToSignerDefault(t *testing.T) {
	svc := NewAuthService(config.AuthConfig{
		JWTSecret:       testSecret,
		TokenTTLMinutes: 45,
		BcryptCost:      bcrypt.MinCost,
	}, AuthDependencies{IdentityRepo: memory.NewIdentityRepository()})
	createStaff(t, svc, "dora", domain.RoleDelivery)

	before := time.Now()
	session, err := svc.Login(context.Background(), "dora", "s3cret!")
	require.NoError(t, err)
	assert.WithinDuration(t, before.Add(45*time.Minute), session.ExpiresAt, time.Minute)

	identity, err := svc.ValidateToken(context.Background(), session.Token)
	require.NoError(t, err)
	assert.Equal(t, "dora", identity.Username)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, repo, _ := newAuthFixture(t)
	createStaff(t, svc, "kai", domain.RoleKitchen)

	hash, err := auth.HashPassword("s3cret!", bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), &domain.Identity{
		ID: "inactive-id", Username: "gone", PasswordHash: hash, Role: domain.RoleDelivery, Active: false,
	}))

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"unknown user", "nobody", "s3cret!"},
		{"wrong password", "kai", "wrong"},
		{"inactive account", "gone", "s3cret!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tt.username, tt.password)
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidCredentials), "got %v", err)
			assert.Equal(t, "invalid username or password", err.Error())
		})
	}
}

func TestValidateTokenUsesStoredIdentity(t *testing.T) {
	svc, repo, tokens := newAuthFixture(t)
	identity := createStaff(t, svc, "dora", domain.RoleDelivery)
	ctx := context.Background()

	token, _, err := tokens.GenerateToken("dora", domain.RoleAdmin)
	require.NoError(t, err)

	resolved, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleDelivery, resolved.Role, "the stored role wins over the claim")

	_, err = svc.UpdateRole(ctx, identity.ID, string(domain.RoleManager))
	require.NoError(t, err)
	resolved, err = svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, resolved.Role)

	repo.Delete(identity.ID)
	_, err = svc.ValidateToken(ctx, token)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	other := auth.NewTokenManager("another-secret", 30)
	foreign, _, err := other.GenerateToken("kai", domain.RoleAdmin)
	require.NoError(t, err)

	for _, token := range []string{"", "not-a-jwt", foreign} {
		_, err := svc.ValidateToken(context.Background(), token)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized), "token %q", token)
	}
}

func TestCreateIdentity(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	identity := createStaff(t, svc, " ana ", domain.RoleAdmin)
	assert.Equal(t, "ana", identity.Username)
	assert.True(t, identity.Active)
	assert.NotEqual(t, "s3cret!", identity.PasswordHash)
	require.NoError(t, auth.ComparePassword(identity.PasswordHash, "s3cret!"))

	_, err := svc.CreateIdentity(ctx, CreateIdentityInput{Username: "ana", Password: "x", Role: "admin"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))

	invalid := []CreateIdentityInput{
		{Username: "", Password: "x", Role: "admin"},
		{Username: "bob", Password: "", Role: "admin"},
		{Username: "bob", Password: "x", Role: "chef"},
	}
	for _, input := range invalid {
		_, err := svc.CreateIdentity(ctx, input)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed), "%+v", input)
	}

	all, err := svc.ListIdentities(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUpdateRoleAndMe(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()
	identity := createStaff(t, svc, "kai", domain.RoleKitchen)

	updated, err := svc.UpdateRole(ctx, identity.ID, "manager")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, updated.Role)

	me, err := svc.Me(ctx, identity.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, me.Role)

	_, err = svc.UpdateRole(ctx, identity.ID, "owner")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))

	_, err = svc.UpdateRole(ctx, "missing", "admin")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	_, err = svc.Me(ctx, "missing")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

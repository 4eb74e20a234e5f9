package service_test

import (
	"testing"
	"time"

	"skate_marketplace/internal/apperr"
	"skate_marketplace/internal/domain"
	"skate_marketplace/internal/dto"
	"skate_marketplace/internal/utils"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterIssuesUserToken(t *testing.T) {
	f := newFixture(t)

	resp, err := f.auth.Register(f.ctx, dto.CreateUserRequest{
		Email:    "  A@X.com ",
		Password: "password123",
		Role:     lo.ToPtr(domain.RoleAdmin),
	})
	require.NoError(t, err)

	assert.Equal(t, "a@x.com", resp.User.Email)
	assert.Equal(t, domain.RoleUser, resp.User.Role, "self-registration cannot pick a role")
	assert.True(t, resp.User.IsActive)
	assert.NotEqual(t, "password123", resp.User.Password)

	claims, err := utils.ParseJWT(resp.AccessToken, jwtSecret)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID())
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "USER", claims.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.register(t, "a@x.com")

	_, err := f.auth.Register(f.ctx, dto.CreateUserRequest{Email: "A@x.COM", Password: "password123"})
	assert.True(t, apperr.Is(err, apperr.KindConflict), "got %v", err)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	f.register(t, "a@x.com")

	resp, err := f.auth.Login(f.ctx, dto.LoginRequest{Email: "A@x.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "a@x.com", resp.User.Email)

	_, err = f.auth.Login(f.ctx, dto.LoginRequest{Email: "a@x.com", Password: "wrong-password"})
	assert.True(t, apperr.Is(err, apperr.KindAuthentication), "got %v", err)

	_, err = f.auth.Login(f.ctx, dto.LoginRequest{Email: "nobody@x.com", Password: "password123"})
	assert.True(t, apperr.Is(err, apperr.KindAuthentication), "got %v", err)
}

func TestLoginUnknownEmailStillHashes(t *testing.T) {
	f := newFixture(t)
	f.register(t, "a@x.com")

	start := time.Now()
	_, err := f.auth.Login(f.ctx, dto.LoginRequest{Email: "a@x.com", Password: "wrong-password"})
	wrongPassword := time.Since(start)
	require.Error(t, err)

	start = time.Now()
	_, err = f.auth.Login(f.ctx, dto.LoginRequest{Email: "nobody@x.com", Password: "wrong-password"})
	unknownEmail := time.Since(start)

	assert.Equal(t, "Invalid credentials", err.Error())
	assert.Greater(t, unknownEmail, wrongPassword/4, "unknown email answered in %s, wrong password in %s", unknownEmail, wrongPassword)
}

func TestLoginDeactivatedAccount(t *testing.T) {
	f := newFixture(t)
	caller := f.register(t, "a@x.com")
	_, err := f.users.Update(f.ctx, caller.UserID, dto.UpdateUserRequest{IsActive: lo.ToPtr(false)})
	require.NoError(t, err)

	_, err = f.auth.Login(f.ctx, dto.LoginRequest{Email: "a@x.com", Password: "password123"})
	assert.True(t, apperr.Is(err, apperr.KindAuthorization), "got %v", err)

	_, err = f.auth.Login(f.ctx, dto.LoginRequest{Email: "a@x.com", Password: "wrong-password"})
	assert.True(t, apperr.Is(err, apperr.KindAuthentication), "a wrong password never reveals the account state")
}

func TestLoginWithLegacyBcryptHash(t *testing.T) {
	f := newFixture(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), 10)
	require.NoError(t, err)
	require.NoError(t, f.mem.Users().Create(f.ctx, &domain.User{
		Email: "user@skateshop.com", Password: string(hash), Role: domain.RoleUser, IsActive: true,
	}))

	resp, err := f.auth.Login(f.ctx, dto.LoginRequest{Email: "user@skateshop.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, resp.User.Role)
}

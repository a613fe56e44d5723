package service

import (
	"context"
	"testing"

	"foboh/internal/config"
	"foboh/internal/dto"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test_jwt_secret_32_chars_minimum!"

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func newAuthCfg(t *testing.T) *config.Config {
	return &config.Config{
		JWTSecret:          testSecret,
		JWTExpirationHours: 8,
		AdminUsername:      "merch",
		AdminPasswordHash:  hash(t, "s3cret-pass"),
		ViewerUsername:     "viewer",
		ViewerPasswordHash: hash(t, "look-only"),
	}
}

func TestLogin_Success(t *testing.T) {
	svc := NewAuthService(newAuthCfg(t))

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "merch", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, RoleMerchandiser, resp.User.Role)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(resp.AccessToken, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "merch", claims["username"])
	assert.Equal(t, RoleMerchandiser, claims["role"])
}

func TestLogin_ViewerRole(t *testing.T) {
	svc := NewAuthService(newAuthCfg(t))
	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "viewer", Password: "look-only"})
	require.NoError(t, err)
	assert.Equal(t, RoleViewer, resp.User.Role)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := NewAuthService(newAuthCfg(t))

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "merch", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "ghost", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnconfiguredAccountDisabled(t *testing.T) {
	cfg := newAuthCfg(t)
	cfg.ViewerPasswordHash = ""
	svc := NewAuthService(cfg)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "viewer", Password: ""})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

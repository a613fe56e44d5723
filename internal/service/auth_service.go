package service

import (
	"context"
	"time"

	"foboh/internal/config"
	"foboh/internal/dto"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleMerchandiser = "merchandiser"
	RoleViewer       = "viewer"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}

type account struct {
	username     string
	passwordHash string
	role         string
}

type authService struct {
	accounts map[string]account
	cfg      *config.Config
}

// NewAuthService builds the account table from configuration: the admin
// user gets the merchandiser role, the viewer user read-only access. An
// account with an empty username or hash is disabled.
func NewAuthService(cfg *config.Config) AuthService {
	s := &authService{accounts: make(map[string]account), cfg: cfg}
	for _, a := range []account{
		{cfg.AdminUsername, cfg.AdminPasswordHash, RoleMerchandiser},
		{cfg.ViewerUsername, cfg.ViewerPasswordHash, RoleViewer},
	} {
		if a.username != "" && a.passwordHash != "" {
			s.accounts[a.username] = a
		}
	}
	return s
}

func (s *authService) Login(_ context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	acc, ok := s.accounts[req.Username]
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.passwordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(acc, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   s.cfg.JWTExpirationHours * 3600,
		User:        dto.UserResponse{Username: acc.username, Role: acc.role},
	}, nil
}

func (s *authService) generateToken(acc account, duration time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      acc.username,
		"username": acc.username,
		"role":     acc.role,
		"exp":      now.Add(duration).Unix(),
		"iat":      now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

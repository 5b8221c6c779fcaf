package service

import (
	"time"

	appErr "github.com/xxxsen/msgvault/internal/pkg/errors"
	"github.com/xxxsen/msgvault/internal/pkg/jwt"
	"github.com/xxxsen/msgvault/internal/pkg/password"
)

const AdminUserID = "admin"

type AuthService struct {
	passwordHash string
	jwtSecret    []byte
	tokenTTL     time.Duration
}

func NewAuthService(passwordHash string, jwtSecret []byte, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		passwordHash: passwordHash,
		jwtSecret:    jwtSecret,
		tokenTTL:     tokenTTL,
	}
}

func (s *AuthService) Login(plain string) (string, error) {
	if err := password.Compare(s.passwordHash, plain); err != nil {
		return "", appErr.ErrUnauthorized
	}
	return jwt.GenerateToken(AdminUserID, "admin", s.jwtSecret, s.tokenTTL)
}

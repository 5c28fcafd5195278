package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrJWTSecretMissing   = errors.New("JWT_SECRET not set")
)

// TokenTTL is how long an admin token stays valid.
const TokenTTL = time.Hour

type AdminAuthService interface {
	Login(email, password string) (string, error)
}

// adminAuthService checks a single admin account held in configuration.
type adminAuthService struct {
	email        string
	passwordHash string
	secret       []byte
	now          func() time.Time
}

func NewAdminAuthService(email, passwordHash, secret string) AdminAuthService {
	return &adminAuthService{
		email:        strings.ToLower(strings.TrimSpace(email)),
		passwordHash: passwordHash,
		secret:       []byte(secret),
		now:          time.Now,
	}
}

func (s *adminAuthService) Login(email, password string) (string, error) {
	if s.email == "" || s.passwordHash == "" {
		return "", ErrInvalidCredentials
	}
	if strings.ToLower(strings.TrimSpace(email)) != s.email {
		return "", ErrInvalidCredentials
	}

	// Compare against the stored bcrypt hash
	if !CheckPasswordHash(password, s.passwordHash) {
		return "", ErrInvalidCredentials
	}

	if len(s.secret) == 0 {
		return "", ErrJWTSecretMissing
	}

	claims := jwt.MapClaims{
		"sub":   "admin",
		"email": s.email,
		"exp":   s.now().Add(TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// HashPassword returns a bcrypt hash suitable for ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

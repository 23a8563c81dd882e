// Package service provides the catalog business logic and the session
// controller, delegating persistence to repository interfaces.
package service

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/atinyakov/CourseKeeper/internal/apperrors"
)

// Credentials is the single shared admin credential.
type Credentials struct {
	// Username is the expected login name.
	Username string
	// Password is the expected plain-text password. Ignored when
	// PasswordHash is set.
	Password string
	// PasswordHash is an optional bcrypt hash of the password.
	PasswordHash string
}

// AuthService checks login attempts against the configured credential.
type AuthService struct {
	creds Credentials
}

// NewAuthService constructs an AuthService. Surrounding whitespace in the
// configured values is ignored.
func NewAuthService(creds Credentials) *AuthService {
	return &AuthService{creds: Credentials{
		Username:     strings.TrimSpace(creds.Username),
		Password:     strings.TrimSpace(creds.Password),
		PasswordHash: strings.TrimSpace(creds.PasswordHash),
	}}
}

// Authenticate trims surrounding whitespace from both inputs and compares
// them byte for byte with the configured pair. It returns
// apperrors.ErrInvalidCredentials on any mismatch. Without a configured
// username and password (or hash) every attempt is rejected.
func (s *AuthService) Authenticate(username, password string) error {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.creds.Username)) == 1

	var passOK bool
	if s.creds.PasswordHash != "" {
		passOK = bcrypt.CompareHashAndPassword([]byte(s.creds.PasswordHash), []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(s.creds.Password)) == 1
	}

	configured := s.creds.Username != "" && (s.creds.Password != "" || s.creds.PasswordHash != "")
	if !userOK || !passOK || !configured {
		return apperrors.ErrInvalidCredentials
	}
	return nil
}

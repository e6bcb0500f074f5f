package api

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/rpupo63/portfolio/config"
	"github.com/rpupo63/portfolio/errs"
)

const (
	tokenIssuer       = "portfolio"
	minPasswordLength = 8
)

// tokenManager issues and verifies HS256 admin tokens.
type tokenManager struct {
	secret []byte
	ttl    time.Duration
}

func newTokenManager(c map[string]string) tokenManager {
	secret := config.GetString(c, "JWT_SECRET", "")
	if secret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			panic(fmt.Sprintf("generating jwt secret: %v", err))
		}
		secret = hex.EncodeToString(buf)
		log.Warn().Msg("JWT_SECRET is not set, tokens will not survive a restart")
	}
	ttl := time.Duration(config.GetInt(c, "TOKEN_TTL_HOURS", 24)) * time.Hour
	return tokenManager{secret: []byte(secret), ttl: ttl}
}

func (m tokenManager) issue(adminID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   adminID.String(),
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", errs.NewInternalErrorWithCause("failed to sign token", err)
	}
	return signed, nil
}

// verify returns the admin ID carried by a valid token.
func (m tokenManager) verify(token string) (uuid.UUID, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(tokenIssuer))
	if errors.Is(err, jwt.ErrTokenExpired) {
		return uuid.Nil, errs.NewExpiredTokenError()
	}
	if err != nil {
		return uuid.Nil, errs.NewInvalidTokenError()
	}
	adminID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, errs.NewInvalidTokenError()
	}
	return adminID, nil
}

type passwordHasher struct {
	cost int
}

func (h passwordHasher) hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", errs.NewInternalErrorWithCause("failed to hash password", err)
	}
	return string(hashed), nil
}

func (h passwordHasher) matches(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// normalizeCredentials trims the email and checks both fields.
func normalizeCredentials(creds *Credentials) error {
	creds.Email = strings.ToLower(strings.TrimSpace(creds.Email))
	if creds.Email == "" {
		return errs.NewMissingRequiredFieldError("email")
	}
	if creds.Password == "" {
		return errs.NewMissingRequiredFieldError("password")
	}
	if err := validateEmail(creds.Email); err != nil {
		return err
	}
	return validatePassword(creds.Password)
}

func validateEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return errs.NewInvalidFieldError("email", "must be a valid email address")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return errs.NewInvalidFieldError("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}
	if len(password) > 72 {
		return errs.NewInvalidFieldError("password", "must be at most 72 bytes")
	}
	return nil
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/booklore/catalog-go/catalog"
)

const bearerPrefix = "Bearer "

const (
	claimUsername = "username"
	claimUserID   = "id"
)

var (
	// ErrEmptySigningSecret is returned when a TokenService is created without a signing secret.
	ErrEmptySigningSecret = errors.New("signing secret must not be empty")

	// ErrInvalidToken is returned when a token cannot be parsed or its signature does not verify.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrWrongCredentials is returned when the password does not match on login.
	ErrWrongCredentials = errors.New("wrong credentials")
)

// Claims carries the identity embedded in an issued token.
type Claims struct {
	Username string
	UserID   uuid.UUID
}

// TokenService issues and verifies the HS256-signed tokens used to
// authenticate catalog mutations.
type TokenService struct {
	secret       []byte
	passwordHash []byte
}

// NewTokenService creates a TokenService with the given signing secret and
// the bcrypt hash of the shared service password.
func NewTokenService(secret string, passwordHash string) (*TokenService, error) {
	if secret == "" {
		return nil, ErrEmptySigningSecret
	}

	return &TokenService{
		secret:       []byte(secret),
		passwordHash: []byte(passwordHash),
	}, nil
}

// HashPassword derives the bcrypt hash to configure a TokenService with.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// VerifyPassword checks the given password against the configured bcrypt hash.
func (s *TokenService) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)) == nil
}

// IssueToken signs a token carrying the user's username and id.
func (s *TokenService) IssueToken(user catalog.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		claimUsername: user.Username,
		claimUserID:   user.ID.String(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}

	return signed, nil
}

// ParseToken verifies the token signature and extracts the embedded claims.
func (s *TokenService) ParseToken(tokenString string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	username, ok := mapClaims[claimUsername].(string)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	rawID, ok := mapClaims[claimUserID].(string)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	userID, parseErr := uuid.Parse(rawID)
	if parseErr != nil {
		return Claims{}, ErrInvalidToken
	}

	return Claims{Username: username, UserID: userID}, nil
}

// ResolveUser parses an Authorization header value and loads the
// authenticated user from the store. A missing or non-bearer header yields
// (nil, nil): the request proceeds unauthenticated and the command handlers
// reject mutations themselves.
func (s *TokenService) ResolveUser(ctx context.Context, users catalog.UserStore, authorization string) (*catalog.User, error) {
	if !strings.HasPrefix(authorization, bearerPrefix) {
		return nil, nil
	}

	claims, err := s.ParseToken(strings.TrimPrefix(authorization, bearerPrefix))
	if err != nil {
		return nil, err
	}

	return users.FindUserByID(ctx, claims.UserID)
}

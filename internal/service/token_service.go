package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/app/config"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/apperr"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
	TokenAdmin   TokenType = "admin"
)

// Claims defines the structure of the JWT claims issued by the service.
type Claims struct {
	UserID string    `json:"user_id"`
	Type   TokenType `json:"type"`
	jwt.RegisteredClaims
}

type TokenService struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	adminTTL   time.Duration
	clock      Clock
}

func NewTokenService(cfg config.JWTConfig, clock Clock) *TokenService {
	return &TokenService{
		secret:     []byte(cfg.Secret),
		issuer:     cfg.Issuer,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		adminTTL:   cfg.AdminTTL,
		clock:      clock,
	}
}

func (t *TokenService) IssueAccessToken(userID string) (string, error) {
	return t.sign(userID, TokenAccess, t.accessTTL, "")
}

// IssueRefreshToken carries a random jti so tokens issued within the same
// second still differ.
func (t *TokenService) IssueRefreshToken(userID string) (string, error) {
	return t.sign(userID, TokenRefresh, t.refreshTTL, uuid.NewString())
}

func (t *TokenService) IssueAdminToken(userID string) (string, error) {
	return t.sign(userID, TokenAdmin, t.adminTTL, "")
}

func (t *TokenService) sign(userID string, typ TokenType, ttl time.Duration, jti string) (string, error) {
	now := t.clock.Now()
	claims := Claims{
		UserID: userID,
		Type:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   userID,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", typ, err)
	}
	return signed, nil
}

// Verify returns the user id carried by a token of the expected type.
func (t *TokenService) Verify(tokenString string, expected TokenType) (string, error) {
	if tokenString == "" {
		return "", apperr.ErrMissingToken
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithTimeFunc(t.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", apperr.ErrExpiredToken
		}
		return "", apperr.Wrap(apperr.ErrInvalidToken, err)
	}
	if claims.Type != expected || claims.UserID == "" {
		return "", apperr.ErrInvalidToken
	}
	return claims.UserID, nil
}

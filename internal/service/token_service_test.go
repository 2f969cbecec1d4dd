package service

import (
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/apperr"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_IssueAndVerify(t *testing.T) {
	tokens := NewTokenService(testJWTConfig(), newFakeClock())

	access, err := tokens.IssueAccessToken("user-1")
	require.NoError(t, err)
	userID, err := tokens.Verify(access, TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	admin, err := tokens.IssueAdminToken("admin-1")
	require.NoError(t, err)
	userID, err = tokens.Verify(admin, TokenAdmin)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", userID)
}

func TestTokenService_Verify_TypeMismatch(t *testing.T) {
	tokens := NewTokenService(testJWTConfig(), newFakeClock())
	refresh, err := tokens.IssueRefreshToken("user-1")
	require.NoError(t, err)

	_, err = tokens.Verify(refresh, TokenAccess)
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)
	_, err = tokens.Verify(refresh, TokenAdmin)
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)
}

func TestTokenService_Verify_Expired(t *testing.T) {
	clock := newFakeClock()
	tokens := NewTokenService(testJWTConfig(), clock)
	access, err := tokens.IssueAccessToken("user-1")
	require.NoError(t, err)

	clock.Advance(16 * time.Minute)

	_, err = tokens.Verify(access, TokenAccess)
	assert.ErrorIs(t, err, apperr.ErrExpiredToken)
}

func TestTokenService_Verify_RejectsForeignSignature(t *testing.T) {
	clock := newFakeClock()
	other := testJWTConfig()
	other.Secret = "another-secret"
	forged, err := NewTokenService(other, clock).IssueAccessToken("user-1")
	require.NoError(t, err)

	_, err = NewTokenService(testJWTConfig(), clock).Verify(forged, TokenAccess)
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)
}

func TestTokenService_Verify_RejectsNoneAlgorithm(t *testing.T) {
	clock := newFakeClock()
	claims := Claims{
		UserID: "user-1",
		Type:   TokenAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "dealership-service",
			ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenService(testJWTConfig(), clock).Verify(unsigned, TokenAccess)
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)
}

func TestTokenService_Verify_Malformed(t *testing.T) {
	tokens := NewTokenService(testJWTConfig(), newFakeClock())

	_, err := tokens.Verify("", TokenAccess)
	assert.ErrorIs(t, err, apperr.ErrMissingToken)
	_, err = tokens.Verify("not.a.jwt", TokenAccess)
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)
}

func TestTokenService_RefreshTokensAreDistinct(t *testing.T) {
	tokens := NewTokenService(testJWTConfig(), newFakeClock())
	first, err := tokens.IssueRefreshToken("user-1")
	require.NoError(t, err)
	second, err := tokens.IssueRefreshToken("user-1")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(4)
	hash, err := hasher.Hash("secret1")
	require.NoError(t, err)
	assert.True(t, hasher.Compare(hash, "secret1"))
	assert.False(t, hasher.Compare(hash, "secret2"))
}

package jwt

import (
	"servio/config"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func testService() JWT {
	cfg := &config.Config{}
	cfg.JWT.AccessSecret = testSecret
	return New(cfg)
}

func signToken(t *testing.T, claims *Claims, secret string) string {
	t.Helper()
	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func accessClaims(expiresAt time.Time) *Claims {
	return &Claims{
		UserID: "user-1",
		Email:  "user@example.com",
		Role:   "customer",
		Type:   AccessToken,
		RegisteredClaims: gojwt.RegisteredClaims{
			ExpiresAt: gojwt.NewNumericDate(expiresAt),
			IssuedAt:  gojwt.NewNumericDate(time.Now()),
		},
	}
}

func TestService_ValidateToken(t *testing.T) {
	svc := testService()

	t.Run("valid access token", func(t *testing.T) {
		signed := signToken(t, accessClaims(time.Now().Add(time.Hour)), testSecret)

		claims, err := svc.ValidateToken(signed, AccessToken)

		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
		assert.Equal(t, "customer", claims.Role)
	})

	t.Run("expired token", func(t *testing.T) {
		signed := signToken(t, accessClaims(time.Now().Add(-time.Hour)), testSecret)

		_, err := svc.ValidateToken(signed, AccessToken)

		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		signed := signToken(t, accessClaims(time.Now().Add(time.Hour)), "other-secret")

		_, err := svc.ValidateToken(signed, AccessToken)

		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong token type claim", func(t *testing.T) {
		claims := accessClaims(time.Now().Add(time.Hour))
		claims.Type = TokenType("refresh")
		signed := signToken(t, claims, testSecret)

		_, err := svc.ValidateToken(signed, AccessToken)

		assert.ErrorIs(t, err, ErrInvalidClaim)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-token", AccessToken)

		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestExtractTokenFromHeader(t *testing.T) {
	t.Run("bearer header", func(t *testing.T) {
		token, err := ExtractTokenFromHeader("Bearer abc.def.ghi")

		require.NoError(t, err)
		assert.Equal(t, "abc.def.ghi", token)
	})

	t.Run("missing header", func(t *testing.T) {
		_, err := ExtractTokenFromHeader("")

		assert.Error(t, err)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		_, err := ExtractTokenFromHeader("Basic abc")

		assert.Error(t, err)
	})
}

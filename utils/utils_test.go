package utils

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Minute, time.Hour)

	raw, err := issuer.AccessToken(42, "mod")
	require.NoError(t, err)

	claims, err := issuer.ParseAccessToken(raw)
	require.NoError(t, err)
	assert.Equal(t, &UserClaims{UserID: 42, Role: "mod"}, claims)
}

func TestParseAccessTokenRejects(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Minute, time.Hour)

	refresh, _, err := issuer.RefreshToken(42)
	require.NoError(t, err)

	expired := NewTokenIssuer("secret", time.Minute, time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	old, err := expired.AccessToken(42, "user")
	require.NoError(t, err)

	foreign, err := NewTokenIssuer("other", time.Minute, time.Hour).AccessToken(42, "user")
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"user_id": 42, "type": "access", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := map[string]string{
		"garbage":       "not-a-token",
		"refresh token": refresh,
		"expired":       old,
		"wrong secret":  foreign,
		"alg none":      none,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := issuer.ParseAccessToken(raw)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestRefreshTokensAreUnique(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Minute, time.Hour)

	a, expA, err := issuer.RefreshToken(1)
	require.NoError(t, err)
	b, _, err := issuer.RefreshToken(1)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expA, 5*time.Second)
}

func TestUserInContext(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, GetUser(c))

	SetUser(c, &UserClaims{UserID: 7, Role: "user"})
	assert.Equal(t, uint(7), GetUser(c).UserID)

	c.Set(string(UserContextKey), "not claims")
	assert.Nil(t, GetUser(c))
}

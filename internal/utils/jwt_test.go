package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/consolehq/auth-service/internal/model"
)

const (
	testSecret   = "unit-test-secret"
	testIssuer   = "auth-service"
	testAudience = "admin-dashboard"
)

func testUser() model.User {
	return model.User{ID: 42, Name: "Ann", Email: "ann@x.com", Role: model.RoleUser}
}

func TestAccessToken_RoundTrip(t *testing.T) {
	tok, err := NewAccessToken(testSecret, testIssuer, testAudience, testUser(), 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)
	require.WithinDuration(t, time.Now().UTC().Add(time.Hour), tok.Exp, 5*time.Second)

	claims, err := ParseAccessToken(testSecret, testIssuer, testAudience, tok.Token)
	require.NoError(t, err)
	require.Equal(t, "42", claims.Subject)
	require.Equal(t, "ann@x.com", claims.Email)
	require.Equal(t, model.RoleUser, claims.Role)
	require.NotEmpty(t, claims.ID) // jti is always set

	uid, err := claims.UserID()
	require.NoError(t, err)
	require.Equal(t, uint64(42), uid)
}

func TestAccessToken_WrongSecret(t *testing.T) {
	tok, err := NewAccessToken(testSecret, testIssuer, testAudience, testUser(), 60)
	require.NoError(t, err)

	_, err = ParseAccessToken("other-secret", testIssuer, testAudience, tok.Token)
	require.ErrorIs(t, err, ErrInvalidAccessToken)
}

func TestAccessToken_Expired(t *testing.T) {
	tok, err := NewAccessToken(testSecret, testIssuer, testAudience, testUser(), -1)
	require.NoError(t, err)

	_, err = ParseAccessToken(testSecret, testIssuer, testAudience, tok.Token)
	require.ErrorIs(t, err, ErrInvalidAccessToken)
}

func TestAccessToken_IssuerAudienceMismatch(t *testing.T) {
	tok, err := NewAccessToken(testSecret, testIssuer, testAudience, testUser(), 60)
	require.NoError(t, err)

	_, err = ParseAccessToken(testSecret, "someone-else", testAudience, tok.Token)
	require.ErrorIs(t, err, ErrInvalidAccessToken)

	_, err = ParseAccessToken(testSecret, testIssuer, "other-app", tok.Token)
	require.ErrorIs(t, err, ErrInvalidAccessToken)
}

func TestAccessToken_Garbage(t *testing.T) {
	_, err := ParseAccessToken(testSecret, testIssuer, testAudience, "not-a-jwt")
	require.ErrorIs(t, err, ErrInvalidAccessToken)
}

func TestNewOpaqueToken(t *testing.T) {
	tok, err := NewOpaqueToken(RefreshTokenPrefix, 7*24*time.Hour)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(tok.Raw, RefreshTokenPrefix))
	require.Len(t, tok.Raw, len(RefreshTokenPrefix)+64) // 32 bytes hex-encoded
	require.True(t, tok.Exp.After(time.Now().UTC()))

	other, err := NewOpaqueToken(RefreshTokenPrefix, 7*24*time.Hour)
	require.NoError(t, err)
	require.NotEqual(t, tok.Raw, other.Raw)
}

func TestHashTokenRaw(t *testing.T) {
	h1 := HashTokenRaw("rt_abc")
	h2 := HashTokenRaw("rt_abc")
	require.Equal(t, h1, h2)
	require.Len(t, h1, 64)
	require.NotEqual(t, h1, HashTokenRaw("rt_abd"))
	require.NotContains(t, h1, "rt_")
}

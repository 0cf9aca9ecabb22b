package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	accessSecret  = "access-secret-for-tests"
	refreshSecret = "refresh-secret-for-tests"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := SignAccessToken(accessSecret, 42, "meng", "meng@example.com", "ST-001", []string{"admin", "librarian"}, time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseAccessToken(token, accessSecret)
	require.NoError(t, err)

	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "meng", claims.Username)
	assert.Equal(t, "meng@example.com", claims.Email)
	assert.Equal(t, "ST-001", claims.StudentID)
	assert.Equal(t, []string{"admin", "librarian"}, claims.Roles)
	assert.Equal(t, "42", claims.Subject)
	require.NotNil(t, claims.IssuedAt)
	require.NotNil(t, claims.ExpiresAt)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	token, err := SignRefreshToken(refreshSecret, 7, time.Hour)
	require.NoError(t, err)

	claims, err := ParseRefreshToken(token, refreshSecret)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	token, err := SignAccessToken(accessSecret, 1, "u", "u@example.com", "", nil, -time.Minute)
	require.NoError(t, err)

	_, err = ParseAccessToken(token, accessSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

// Expiry is strict: a token whose exp equals the current instant is
// already expired, only now < exp passes.
func TestParseRejectsTokenAtExactExpiry(t *testing.T) {
	issued := time.Now().Truncate(time.Second)
	expiry := issued.Add(time.Minute)

	claims := AccessClaims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expiry),
			Subject:   "1",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(accessSecret))
	require.NoError(t, err)

	err = parseInto(token, accessSecret, &AccessClaims{}, jwt.WithTimeFunc(func() time.Time { return expiry }))
	assert.ErrorIs(t, err, ErrInvalidToken)

	err = parseInto(token, accessSecret, &AccessClaims{}, jwt.WithTimeFunc(func() time.Time { return expiry.Add(-time.Second) }))
	assert.NoError(t, err)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := SignAccessToken(accessSecret, 1, "u", "u@example.com", "", nil, time.Minute)
	require.NoError(t, err)

	_, err = ParseAccessToken(token, "some-other-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

// A refresh token must never pass access-token verification even when
// the payload happens to decode. Distinct secrets guarantee it.
func TestRefreshTokenFailsAccessVerification(t *testing.T) {
	token, err := SignRefreshToken(refreshSecret, 1, time.Hour)
	require.NoError(t, err)

	_, err = ParseAccessToken(token, accessSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, tokenStr := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := ParseAccessToken(tokenStr, accessSecret)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", tokenStr)
	}
}

// Tampering with the payload must produce the same opaque error as any
// other failure mode.
func TestParseRejectsTamperedToken(t *testing.T) {
	token, err := SignAccessToken(accessSecret, 1, "u", "u@example.com", "", []string{"student"}, time.Minute)
	require.NoError(t, err)

	tampered := []byte(token)
	mid := len(tampered) / 2
	if tampered[mid] == 'A' {
		tampered[mid] = 'B'
	} else {
		tampered[mid] = 'A'
	}

	_, err = ParseAccessToken(string(tampered), accessSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

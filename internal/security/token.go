package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is the only failure surfaced by token verification.
// Malformed, tampered and expired tokens are indistinguishable to the
// caller so that a rejected request leaks nothing about why.
var ErrInvalidToken = errors.New("invalid token")

// AccessClaims is the point-in-time identity snapshot carried by an
// access token. Role changes after issuance do not affect it.
type AccessClaims struct {
	UserID    int64    `json:"uid"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	StudentID string   `json:"studentId,omitempty"`
	Roles     []string `json:"roles"`
	jwt.RegisteredClaims
}

// RefreshClaims carries only the user id. Current roles and active
// status are re-read from the store at refresh time.
type RefreshClaims struct {
	UserID int64 `json:"uid"`
	jwt.RegisteredClaims
}

func SignAccessToken(secret string, userID int64, username, email, studentID string, roles []string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		UserID:    userID,
		Username:  username,
		Email:     email,
		StudentID: studentID,
		Roles:     roles,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   fmt.Sprintf("%d", userID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

func SignRefreshToken(secret string, userID int64, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := RefreshClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   fmt.Sprintf("%d", userID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign refresh token: %w", err)
	}
	return signed, nil
}

func ParseAccessToken(tokenStr string, secret string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := parseInto(tokenStr, secret, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func ParseRefreshToken(tokenStr string, secret string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := parseInto(tokenStr, secret, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func parseInto(tokenStr string, secret string, claims jwt.Claims, extra ...jwt.ParserOption) error {
	opts := append([]jwt.ParserOption{jwt.WithExpirationRequired(), jwt.WithIssuedAt()}, extra...)
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, opts...)
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	return nil
}

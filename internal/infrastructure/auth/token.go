package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/snakegame/snake-api/internal/core/domain"
	"github.com/snakegame/snake-api/internal/core/ports"
)

// TokenCodec signs session cookies as HS256 JWTs.
type TokenCodec struct {
	secret []byte
}

func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{secret: []byte(secret)}
}

var _ ports.TokenCodec = (*TokenCodec)(nil)

type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

func (c *TokenCodec) Encode(claims domain.SessionClaims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		SessionID: claims.SessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.UserID,
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
	return t.SignedString(c.secret)
}

// Decode verifies the signature and expiry. Errors wrap the jwt sentinels
// (ErrTokenMalformed, ErrTokenExpired, ErrTokenSignatureInvalid).
func (c *TokenCodec) Decode(token string) (domain.SessionClaims, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return domain.SessionClaims{}, fmt.Errorf("session token: %w", err)
	}
	if claims.SessionID == "" || claims.Subject == "" {
		return domain.SessionClaims{}, fmt.Errorf("session token: %w", jwt.ErrTokenInvalidClaims)
	}

	return domain.SessionClaims{
		SessionID: claims.SessionID,
		UserID:    claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

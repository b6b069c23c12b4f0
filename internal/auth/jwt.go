// jwt.go — Session token signing and verification.
//
// Session tokens are HS256 JWTs carrying the originating access-code ID.
// The signing secret comes from config and is injected at construction;
// nothing here reads the environment.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "marquee"

// Claims are the JWT claims embedded in a Marquee session token.
type Claims struct {
	jwt.RegisteredClaims
	AccessCodeID string `json:"access_code_id"`
}

// Signer signs and verifies session tokens with a shared HMAC secret.
// The clock is injected so expiry claims can be exercised in tests.
type Signer struct {
	secret []byte
	now    func() time.Time
}

// NewSigner creates a Signer. now may be nil, in which case time.Now is used.
func NewSigner(secret string, now func() time.Time) *Signer {
	if now == nil {
		now = time.Now
	}
	return &Signer{secret: []byte(secret), now: now}
}

// Sign mints a session token for the given access code. issuedAt and
// expiresAt come from the caller so the JWT exp claim and the session row's
// expires_at column are derived from the same instant and cannot drift.
func (s *Signer) Sign(accessCodeID uuid.UUID, issuedAt, expiresAt time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   accessCodeID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Issuer:    issuer,
		},
		AccessCodeID: accessCodeID.String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses and validates a session token: signature, structure, and the
// embedded expiry claim. Returns the parsed claims or an error.
func (s *Signer) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithIssuer(issuer))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

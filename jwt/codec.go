package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMalformed is returned when a token cannot be parsed into its
	// header/payload/signature sections.
	ErrMalformed = errors.New("malformed token")
	// ErrInvalidSignature is returned when the recomputed signature does not
	// match the embedded one, including wrong-key and wrong-algorithm tokens.
	ErrInvalidSignature = errors.New("invalid token signature")
	// ErrExpired is returned when the token's exp claim has passed.
	ErrExpired = errors.New("token expired")
)

// Claims is the payload shape both token managers sign. Subject carries the
// user identifier as a decimal string; SessionStartedAt is set by the refresh
// token manager only and omitted from access tokens.
type Claims struct {
	SessionStartedAt int64 `json:"sessionStartedAt,omitempty"`
	jwt.RegisteredClaims
}

// NewClaims builds a claim set with the subject and time claims both token
// managers use. SessionStartedAt stays zero until the refresh manager sets it.
func NewClaims(subject string, issuedAt, expiresAt time.Time) *Claims {
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
}

// Codec signs and verifies HS256 tokens. The zero-argument constructor uses
// wall-clock time; tests inject a clock to simulate expiry.
type Codec struct {
	now func() time.Time
}

// NewCodec builds a Codec on wall-clock time.
func NewCodec() *Codec {
	return NewCodecWithClock(nil)
}

// NewCodecWithClock builds a Codec with an injected clock. A nil clock falls
// back to time.Now.
func NewCodecWithClock(now func() time.Time) *Codec {
	if now == nil {
		now = time.Now
	}
	return &Codec{now: now}
}

// Now exposes the codec's clock so managers derive timestamps from the same
// source verification uses.
func (c *Codec) Now() time.Time {
	return c.now()
}

// Sign serializes claims and signs header+payload with key. No randomness is
// involved: identical claims and key produce an identical token.
func (c *Codec) Sign(claims *Claims, key []byte) (string, error) {
	if len(key) == 0 {
		return "", errors.New("signing key required")
	}
	if claims == nil {
		return "", errors.New("claims required")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}

// Verify recomputes the signature over header and payload using key and
// validates the exp claim before any claim value is trusted. Failures map to
// [ErrMalformed], [ErrInvalidSignature], or [ErrExpired].
func (c *Codec) Verify(tokenStr string, key []byte) (*Claims, error) {
	if len(key) == 0 {
		return nil, errors.New("verification key required")
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return key, nil
	})
	if err != nil {
		return nil, mapVerifyError(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidSignature
	}

	return claims, nil
}

func mapVerifyError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	default:
		// Signature mismatches, unexpected algorithms, and missing exp all
		// land here: the token is well-formed but not trustworthy.
		return ErrInvalidSignature
	}
}

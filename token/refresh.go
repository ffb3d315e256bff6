package token

import (
	"errors"
	"strconv"
	"time"

	"github.com/ktyouta/frontauth/jwt"
)

// ErrMissingToken is returned by FromCookie when the cookie value is absent
// or empty.
var ErrMissingToken = errors.New("refresh token missing")

// RefreshManager mints, validates, rotates, and absolute-expires the
// long-lived credential used to obtain new access tokens without a password.
//
// One continuous session is identified by an unchanging iat: Create is the
// only operation that sets a new iat, and Refresh copies it verbatim, so the
// distance from iat to now measures total session age across any number of
// rotations.
type RefreshManager struct {
	codec *jwt.Codec
}

// NewRefreshManager builds a manager on wall-clock time.
func NewRefreshManager() *RefreshManager {
	return NewRefreshManagerWithClock(nil)
}

// NewRefreshManagerWithClock builds a manager with an injected clock for tests.
func NewRefreshManagerWithClock(now func() time.Time) *RefreshManager {
	return &RefreshManager{codec: jwt.NewCodecWithClock(now)}
}

// Create signs a refresh token with payload
// {sub, iat=now, exp=now+lifetime, sessionStartedAt=now}. It defines session
// origin: a fresh login is the only path here.
func (m *RefreshManager) Create(subjectID int64, key []byte, lifetime time.Duration) (string, error) {
	if subjectID <= 0 {
		return "", ErrInvalidSubject
	}

	now := m.codec.Now()
	claims := jwt.NewClaims(strconv.FormatInt(subjectID, 10), now, now.Add(lifetime))
	claims.SessionStartedAt = now.Unix()
	return m.codec.Sign(claims, key)
}

// FromCookie unwraps the cookie value as a token. This is a transport-layer
// unwrap, not a security check; no validation happens here.
func (m *RefreshManager) FromCookie(cookieValue string) (string, error) {
	if cookieValue == "" {
		return "", ErrMissingToken
	}
	return cookieValue, nil
}

// Subject verifies the token and parses its sub claim into a positive
// subject id.
func (m *RefreshManager) Subject(tokenStr string, key []byte) (int64, error) {
	claims, err := m.codec.Verify(tokenStr, key)
	if err != nil {
		return 0, err
	}

	return parseSubject(claims.Subject)
}

// IsAbsoluteExpired verifies the token and reports whether the session it
// anchors has outlived maxSession. The check reads the frozen iat, not exp,
// so it is unaffected by how many rotations have happened in between.
func (m *RefreshManager) IsAbsoluteExpired(tokenStr string, key []byte, maxSession time.Duration) (bool, error) {
	claims, err := m.codec.Verify(tokenStr, key)
	if err != nil {
		return false, err
	}
	if claims.IssuedAt == nil {
		return false, ErrInvalidPayload
	}

	nowMs := m.codec.Now().UnixMilli()
	iatMs := claims.IssuedAt.Time.UnixMilli()
	return nowMs-iatMs > maxSession.Milliseconds(), nil
}

// Refresh rotates the token: sub and iat are copied unchanged,
// sessionStartedAt becomes now, and exp becomes now+lifetime. Rotation always
// succeeds while the input token's signature and exp are valid; it does not
// re-check absolute expiry — callers must run IsAbsoluteExpired first and
// refuse to rotate when it reports true.
//
// The presented token is not invalidated: it stays cryptographically valid
// until its own exp. There is no server-side record to revoke it against, so
// two refreshes racing on the same session can each succeed and each mint a
// usable token.
func (m *RefreshManager) Refresh(tokenStr string, key []byte, lifetime time.Duration) (string, error) {
	claims, err := m.codec.Verify(tokenStr, key)
	if err != nil {
		return "", err
	}
	if claims.IssuedAt == nil {
		return "", ErrInvalidPayload
	}

	now := m.codec.Now()
	next := jwt.NewClaims(claims.Subject, claims.IssuedAt.Time, now.Add(lifetime))
	next.SessionStartedAt = now.Unix()
	return m.codec.Sign(next, key)
}

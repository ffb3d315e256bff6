package token

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/ktyouta/frontauth/jwt"
)

const bearerScheme = "Bearer"

var (
	// ErrMissingHeader is returned when the Authorization header is absent or empty.
	ErrMissingHeader = errors.New("authorization header missing")
	// ErrMalformedHeader is returned when the Authorization header is not
	// exactly "Bearer <token>".
	ErrMalformedHeader = errors.New("authorization header malformed")
	// ErrInvalidPayload is returned when a verified token carries a subject
	// that is not a positive integer.
	ErrInvalidPayload = errors.New("invalid token payload")
	// ErrInvalidSubject is returned when a manager is asked to mint a token
	// for a non-positive subject id.
	ErrInvalidSubject = errors.New("invalid subject id")
)

// AccessManager mints and validates the short-lived bearer credential used to
// authorize individual requests.
type AccessManager struct {
	codec *jwt.Codec
}

// NewAccessManager builds a manager on wall-clock time.
func NewAccessManager() *AccessManager {
	return NewAccessManagerWithClock(nil)
}

// NewAccessManagerWithClock builds a manager with an injected clock for tests.
func NewAccessManagerWithClock(now func() time.Time) *AccessManager {
	return &AccessManager{codec: jwt.NewCodecWithClock(now)}
}

// Create signs an access token with payload {sub, iat=now, exp=now+lifetime}.
// iat is stamped at every issuance; access tokens carry no session anchor.
func (m *AccessManager) Create(subjectID int64, key []byte, lifetime time.Duration) (string, error) {
	if subjectID <= 0 {
		return "", ErrInvalidSubject
	}

	now := m.codec.Now()
	claims := jwt.NewClaims(strconv.FormatInt(subjectID, 10), now, now.Add(lifetime))
	return m.codec.Sign(claims, key)
}

// FromHeader extracts the raw token from a bearer-scheme Authorization header.
// The header must be exactly two space-separated parts with scheme "Bearer";
// nothing is verified at this stage.
func (m *AccessManager) FromHeader(headerValue string) (string, error) {
	if headerValue == "" {
		return "", ErrMissingHeader
	}

	parts := strings.Split(headerValue, " ")
	if len(parts) != 2 || parts[0] != bearerScheme || parts[1] == "" {
		return "", ErrMalformedHeader
	}

	return parts[1], nil
}

// Subject verifies the token and parses its sub claim into a positive
// subject id.
func (m *AccessManager) Subject(tokenStr string, key []byte) (int64, error) {
	claims, err := m.codec.Verify(tokenStr, key)
	if err != nil {
		return 0, err
	}

	return parseSubject(claims.Subject)
}

func parseSubject(sub string) (int64, error) {
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidPayload
	}
	return id, nil
}

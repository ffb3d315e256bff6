package frontauth

import (
	"context"
	"time"
)

// LoginRecord is the credential row looked up by username during login.
// Salt and PasswordHash are created together at registration and replaced
// together on password change.
type LoginRecord struct {
	UserID       int64
	Name         string
	Salt         []byte
	PasswordHash string
}

// UserRecord is the minimal profile attached to a verified subject. It is
// request-scoped: the Engine re-derives it on every call and never caches it.
type UserRecord struct {
	UserID      int64
	Name        string
	Birthday    string
	LastLoginAt int64
}

// UserProvider is the external user-record collaborator. The Engine treats
// every call as a single atomic external request with ordinary
// request/response semantics; contention is the provider's concern.
//
// Lookups signal absence with [ErrUserNotFound] (wrapped or bare). On the
// authentication path any provider error collapses to the same generic
// unauthorized outcome, so a dangling login record behaves exactly like a
// wrong password.
type UserProvider interface {
	GetLoginByName(ctx context.Context, name string) (LoginRecord, error)
	GetUserByID(ctx context.Context, userID int64) (UserRecord, error)

	// UpdateLastLogin is best-effort: a failure is logged and audited but
	// never fails the login that triggered it.
	UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error
}

// LoginResult is returned by [Engine.Login].
type LoginResult struct {
	UserID       int64
	User         UserRecord
	AccessToken  string
	RefreshToken string
}

// RefreshRequest carries the transport values the refresh flow checks before
// any token parsing occurs.
type RefreshRequest struct {
	Origin    string
	CSRFToken string
	Cookie    string
}

// RefreshResult is returned by [Engine.Refresh]. RefreshToken is the rotated
// replacement; the presented token remains cryptographically valid until its
// own exp (no reuse detection, see Engine.Refresh).
type RefreshResult struct {
	UserID       int64
	AccessToken  string
	RefreshToken string
}

// AuthResult is returned by [Engine.Authorize]. It is valid for the duration
// of the request that produced it and must not be persisted across requests.
type AuthResult struct {
	UserID int64
	User   UserRecord
}

package flows

import (
	"context"
	"time"
)

// LoginFailureKind classifies login flow failures for root-level mapping.
type LoginFailureKind int

const (
	LoginFailureNone LoginFailureKind = iota
	LoginFailureNotReady
	LoginFailureLookup
	LoginFailurePassword
	LoginFailureUserRecord
	LoginFailureIssueAccess
	LoginFailureIssueRefresh
)

// LoginResult carries either the issued token pair or failure metadata.
type LoginResult struct {
	Failure      LoginFailureKind
	Err          error
	UserID       int64
	User         UserRecord
	AccessToken  string
	RefreshToken string
}

// LoginDeps captures login flow dependencies.
type LoginDeps struct {
	GetLoginByName    func(context.Context, string) (LoginRecord, error)
	GetUserByID       func(context.Context, int64) (UserRecord, error)
	VerifyPassword    func(plaintext string, salt []byte, storedHash string) (bool, error)
	IssueAccessToken  func(int64) (string, error)
	IssueRefreshToken func(int64) (string, error)
	UpdateLastLogin   func(context.Context, int64, time.Time) error
	Now               func() time.Time
	Warn              func(string, ...any)
}

// RunLogin executes the login flow: credential lookup, hash comparison, user
// record lookup, token issuance, then a best-effort last-login update. Every
// failure leg before issuance reports a distinct kind so the host can count
// and audit it, while callers only ever see the generic outcome.
func RunLogin(ctx context.Context, username, password string, deps LoginDeps) LoginResult {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Warn == nil {
		deps.Warn = func(string, ...any) {}
	}
	if deps.GetLoginByName == nil ||
		deps.GetUserByID == nil ||
		deps.VerifyPassword == nil ||
		deps.IssueAccessToken == nil ||
		deps.IssueRefreshToken == nil {
		return LoginResult{Failure: LoginFailureNotReady}
	}

	login, err := deps.GetLoginByName(ctx, username)
	if err != nil {
		return LoginResult{
			Failure: LoginFailureLookup,
			Err:     err,
		}
	}

	ok, err := deps.VerifyPassword(password, login.Salt, login.PasswordHash)
	if err != nil || !ok {
		return LoginResult{
			Failure: LoginFailurePassword,
			Err:     err,
			UserID:  login.UserID,
		}
	}

	// A login record without a user record is a dangling account; it is
	// treated exactly like a wrong password.
	user, err := deps.GetUserByID(ctx, login.UserID)
	if err != nil {
		return LoginResult{
			Failure: LoginFailureUserRecord,
			Err:     err,
			UserID:  login.UserID,
		}
	}

	access, err := deps.IssueAccessToken(user.UserID)
	if err != nil {
		return LoginResult{
			Failure: LoginFailureIssueAccess,
			Err:     err,
			UserID:  user.UserID,
			User:    user,
		}
	}

	refresh, err := deps.IssueRefreshToken(user.UserID)
	if err != nil {
		return LoginResult{
			Failure: LoginFailureIssueRefresh,
			Err:     err,
			UserID:  user.UserID,
			User:    user,
		}
	}

	if deps.UpdateLastLogin != nil {
		if err := deps.UpdateLastLogin(ctx, user.UserID, deps.Now()); err != nil {
			deps.Warn("frontauth: last login update failed")
		}
	}

	return LoginResult{
		Failure:      LoginFailureNone,
		UserID:       user.UserID,
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
	}
}

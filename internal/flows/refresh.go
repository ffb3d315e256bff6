package flows

import "context"

// RefreshFailureKind classifies refresh flow failures for root-level mapping.
type RefreshFailureKind int

const (
	RefreshFailureNone RefreshFailureKind = iota
	RefreshFailureNotReady
	RefreshFailureOrigin
	RefreshFailureCsrf
	RefreshFailureMissingToken
	RefreshFailureVerify
	RefreshFailureSubjectNotFound
	RefreshFailureAbsoluteExpired
	RefreshFailureRotate
	RefreshFailureIssueAccess
)

// RefreshResult carries either the rotated token pair or failure metadata.
type RefreshResult struct {
	Failure      RefreshFailureKind
	Err          error
	UserID       int64
	User         UserRecord
	AccessToken  string
	RefreshToken string
}

// RefreshDeps captures refresh flow dependencies.
type RefreshDeps struct {
	AllowedOrigin string
	CSRFExpected  string

	UnwrapCookie      func(string) (string, error)
	Subject           func(string) (int64, error)
	GetUserByID       func(context.Context, int64) (UserRecord, error)
	IsAbsoluteExpired func(string) (bool, error)
	Rotate            func(string) (string, error)
	IssueAccessToken  func(int64) (string, error)
}

// RunRefresh executes the refresh flow. The origin and CSRF sentinel checks
// run before any token parsing; then the cookie is unwrapped, the token
// verified, the subject re-derived, the absolute session age checked against
// the frozen iat, and only then is the token rotated and a new access token
// minted.
func RunRefresh(ctx context.Context, origin, csrfToken, cookie string, deps RefreshDeps) RefreshResult {
	if deps.UnwrapCookie == nil ||
		deps.Subject == nil ||
		deps.GetUserByID == nil ||
		deps.IsAbsoluteExpired == nil ||
		deps.Rotate == nil ||
		deps.IssueAccessToken == nil {
		return RefreshResult{Failure: RefreshFailureNotReady}
	}

	if origin == "" || origin != deps.AllowedOrigin {
		return RefreshResult{Failure: RefreshFailureOrigin}
	}

	if csrfToken != deps.CSRFExpected {
		return RefreshResult{Failure: RefreshFailureCsrf}
	}

	refreshToken, err := deps.UnwrapCookie(cookie)
	if err != nil {
		return RefreshResult{
			Failure: RefreshFailureMissingToken,
			Err:     err,
		}
	}

	userID, err := deps.Subject(refreshToken)
	if err != nil {
		return RefreshResult{
			Failure: RefreshFailureVerify,
			Err:     err,
		}
	}

	// Deleted accounts keep cryptographically valid tokens until exp; the
	// record lookup is what actually revokes them.
	user, err := deps.GetUserByID(ctx, userID)
	if err != nil {
		return RefreshResult{
			Failure: RefreshFailureSubjectNotFound,
			Err:     err,
			UserID:  userID,
		}
	}

	expired, err := deps.IsAbsoluteExpired(refreshToken)
	if err != nil {
		return RefreshResult{
			Failure: RefreshFailureVerify,
			Err:     err,
			UserID:  userID,
		}
	}
	if expired {
		return RefreshResult{
			Failure: RefreshFailureAbsoluteExpired,
			UserID:  userID,
		}
	}

	rotated, err := deps.Rotate(refreshToken)
	if err != nil {
		return RefreshResult{
			Failure: RefreshFailureRotate,
			Err:     err,
			UserID:  userID,
		}
	}

	access, err := deps.IssueAccessToken(userID)
	if err != nil {
		return RefreshResult{
			Failure: RefreshFailureIssueAccess,
			Err:     err,
			UserID:  userID,
		}
	}

	return RefreshResult{
		Failure:      RefreshFailureNone,
		UserID:       userID,
		User:         user,
		AccessToken:  access,
		RefreshToken: rotated,
	}
}

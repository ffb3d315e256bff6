package flows

import "context"

// AuthorizeFailureKind classifies per-request authorization failures for
// root-level mapping.
type AuthorizeFailureKind int

const (
	AuthorizeFailureNone AuthorizeFailureKind = iota
	AuthorizeFailureNotReady
	AuthorizeFailureHeader
	AuthorizeFailureVerify
	AuthorizeFailureSubjectNotFound
)

// AuthorizeResult carries the verified identity or failure metadata.
type AuthorizeResult struct {
	Failure AuthorizeFailureKind
	Err     error
	UserID  int64
	User    UserRecord
}

// AuthorizeDeps captures per-request authorization dependencies.
type AuthorizeDeps struct {
	ExtractBearer func(string) (string, error)
	Subject       func(string) (int64, error)
	GetUserByID   func(context.Context, int64) (UserRecord, error)
}

// RunAuthorize executes the per-request authorization flow: bearer
// extraction, token verification, subject parsing, and user record lookup.
// The result is scoped to the request that produced it.
func RunAuthorize(ctx context.Context, headerValue string, deps AuthorizeDeps) AuthorizeResult {
	if deps.ExtractBearer == nil || deps.Subject == nil || deps.GetUserByID == nil {
		return AuthorizeResult{Failure: AuthorizeFailureNotReady}
	}

	tokenStr, err := deps.ExtractBearer(headerValue)
	if err != nil {
		return AuthorizeResult{
			Failure: AuthorizeFailureHeader,
			Err:     err,
		}
	}

	userID, err := deps.Subject(tokenStr)
	if err != nil {
		return AuthorizeResult{
			Failure: AuthorizeFailureVerify,
			Err:     err,
		}
	}

	user, err := deps.GetUserByID(ctx, userID)
	if err != nil {
		return AuthorizeResult{
			Failure: AuthorizeFailureSubjectNotFound,
			Err:     err,
			UserID:  userID,
		}
	}

	return AuthorizeResult{
		Failure: AuthorizeFailureNone,
		UserID:  userID,
		User:    user,
	}
}

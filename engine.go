package frontauth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ktyouta/frontauth/internal/flows"
	"github.com/ktyouta/frontauth/jwt"
	"github.com/ktyouta/frontauth/password"
	"github.com/ktyouta/frontauth/token"
)

// Engine composes the token managers, the credential hasher, and the
// user-record collaborator into the login, refresh, and per-request
// authorization flows.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config  Config
	hasher  *password.Hasher
	access  *token.AccessManager
	refresh *token.RefreshManager
	users   UserProvider
	audit   *auditDispatcher
	metrics *Metrics
	warn    func(string, ...any)
}

// Close stops the audit dispatcher after draining queued events.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped reports how many audit events were discarded under
// backpressure.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of the engine's counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// RefreshCookie builds the Set-Cookie value carrying a refresh token, with
// attributes derived from the engine's production flag and refresh lifetime.
func (e *Engine) RefreshCookie(refreshToken string) *http.Cookie {
	return token.NewRefreshCookie(refreshToken, e.config.Production, e.config.Token.RefreshTTL)
}

// ClearRefreshCookie builds the Set-Cookie value that removes the refresh
// cookie.
func (e *Engine) ClearRefreshCookie() *http.Cookie {
	return token.ClearRefreshCookie(e.config.Production)
}

// CSRFHeader returns the name of the sentinel header required on refresh
// requests.
func (e *Engine) CSRFHeader() string {
	return e.config.CSRF.HeaderName
}

// Login verifies a username/password pair and, on success, issues a fresh
// access and refresh token pair, starting a new session (new iat anchor).
//
// Every credential-path failure — unknown username, wrong password, dangling
// login record — returns [ErrUnauthorized] with no further distinction, so
// callers cannot enumerate usernames. The last-login update is best-effort
// and never fails the login.
func (e *Engine) Login(ctx context.Context, username, passwd string) (*LoginResult, error) {
	if e == nil || e.users == nil {
		return nil, ErrEngineNotReady
	}

	result := flows.RunLogin(ctx, username, passwd, flows.LoginDeps{
		GetLoginByName: func(ctx context.Context, name string) (flows.LoginRecord, error) {
			rec, err := e.users.GetLoginByName(ctx, name)
			if err != nil {
				return flows.LoginRecord{}, err
			}
			return flows.LoginRecord{
				UserID:       rec.UserID,
				Name:         rec.Name,
				Salt:         rec.Salt,
				PasswordHash: rec.PasswordHash,
			}, nil
		},
		GetUserByID:    e.flowUserByID,
		VerifyPassword: e.hasher.Verify,
		IssueAccessToken: func(userID int64) (string, error) {
			return e.access.Create(userID, e.config.Token.AccessKey, e.config.Token.AccessTTL)
		},
		IssueRefreshToken: func(userID int64) (string, error) {
			return e.refresh.Create(userID, e.config.Token.RefreshKey, e.config.Token.RefreshTTL)
		},
		UpdateLastLogin: func(ctx context.Context, userID int64, at time.Time) error {
			err := e.users.UpdateLastLogin(ctx, userID, at)
			if err != nil {
				e.emitAudit(ctx, AuditEvent{
					EventType: EventLastLoginUpdateFailed,
					UserID:    userID,
					Success:   false,
					Error:     err.Error(),
				})
			}
			return err
		},
		Warn: e.warn,
	})

	switch result.Failure {
	case flows.LoginFailureNone:
		e.metricInc(MetricLoginSuccess)
		e.emitAudit(ctx, AuditEvent{
			EventType: EventLogin,
			UserID:    result.UserID,
			Username:  username,
			Success:   true,
		})
		return &LoginResult{
			UserID:       result.UserID,
			User:         toUserRecord(result.User),
			AccessToken:  result.AccessToken,
			RefreshToken: result.RefreshToken,
		}, nil

	case flows.LoginFailureNotReady:
		return nil, ErrEngineNotReady

	case flows.LoginFailureIssueAccess, flows.LoginFailureIssueRefresh:
		// Token signing failures are host faults, not authentication
		// outcomes; they must not masquerade as bad credentials.
		e.warnf("frontauth: token issuance failed during login")
		return nil, result.Err

	default:
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, AuditEvent{
			EventType: EventLogin,
			UserID:    result.UserID,
			Username:  username,
			Success:   false,
			Error:     loginFailureError(result.Failure).Error(),
		})
		return nil, ErrUnauthorized
	}
}

// Refresh validates the origin/CSRF pair and the presented refresh token,
// enforces the absolute session lifetime, rotates the refresh token, and
// mints a new access token.
//
// All failures surface as [ErrUnauthorized]; the caller's only recourse is a
// full re-login. The presented token is not invalidated by rotation — there
// is no revocation store — so it stays usable until its own exp.
func (e *Engine) Refresh(ctx context.Context, req RefreshRequest) (*RefreshResult, error) {
	if e == nil || e.users == nil {
		return nil, ErrEngineNotReady
	}

	refreshKey := e.config.Token.RefreshKey

	result := flows.RunRefresh(ctx, req.Origin, req.CSRFToken, req.Cookie, flows.RefreshDeps{
		AllowedOrigin: e.config.CSRF.AllowedOrigin,
		CSRFExpected:  e.config.CSRF.ExpectedValue,
		UnwrapCookie:  e.refresh.FromCookie,
		Subject: func(tokenStr string) (int64, error) {
			return e.refresh.Subject(tokenStr, refreshKey)
		},
		GetUserByID: e.flowUserByID,
		IsAbsoluteExpired: func(tokenStr string) (bool, error) {
			return e.refresh.IsAbsoluteExpired(tokenStr, refreshKey, e.config.absoluteSessionLifetime())
		},
		Rotate: func(tokenStr string) (string, error) {
			return e.refresh.Refresh(tokenStr, refreshKey, e.config.Token.RefreshTTL)
		},
		IssueAccessToken: func(userID int64) (string, error) {
			return e.access.Create(userID, e.config.Token.AccessKey, e.config.Token.AccessTTL)
		},
	})

	switch result.Failure {
	case flows.RefreshFailureNone:
		e.metricInc(MetricRefreshSuccess)
		e.emitAudit(ctx, AuditEvent{
			EventType: EventRefresh,
			UserID:    result.UserID,
			Success:   true,
		})
		return &RefreshResult{
			UserID:       result.UserID,
			AccessToken:  result.AccessToken,
			RefreshToken: result.RefreshToken,
		}, nil

	case flows.RefreshFailureNotReady:
		return nil, ErrEngineNotReady

	case flows.RefreshFailureRotate, flows.RefreshFailureIssueAccess:
		e.warnf("frontauth: token issuance failed during refresh")
		return nil, result.Err

	default:
		kind := refreshFailureError(result)
		switch result.Failure {
		case flows.RefreshFailureOrigin:
			e.metricInc(MetricOriginRejected)
		case flows.RefreshFailureCsrf:
			e.metricInc(MetricCsrfRejected)
		case flows.RefreshFailureAbsoluteExpired:
			e.metricInc(MetricRefreshAbsoluteExpired)
		}
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, AuditEvent{
			EventType: EventRefresh,
			UserID:    result.UserID,
			Success:   false,
			Error:     kind.Error(),
		})
		return nil, ErrUnauthorized
	}
}

// Authorize re-derives the caller's identity from an Authorization header.
// The returned AuthResult is valid for the current request only; nothing is
// cached between calls.
func (e *Engine) Authorize(ctx context.Context, authorizationHeader string) (*AuthResult, error) {
	if e == nil || e.users == nil {
		return nil, ErrEngineNotReady
	}

	start := time.Now()

	result := flows.RunAuthorize(ctx, authorizationHeader, flows.AuthorizeDeps{
		ExtractBearer: e.access.FromHeader,
		Subject: func(tokenStr string) (int64, error) {
			return e.access.Subject(tokenStr, e.config.Token.AccessKey)
		},
		GetUserByID: e.flowUserByID,
	})

	if e.metrics.LatencyEnabled() {
		e.metrics.Observe(MetricAuthorizeLatency, time.Since(start))
	}

	switch result.Failure {
	case flows.AuthorizeFailureNone:
		e.metricInc(MetricAuthorizeSuccess)
		return &AuthResult{
			UserID: result.UserID,
			User:   toUserRecord(result.User),
		}, nil

	case flows.AuthorizeFailureNotReady:
		return nil, ErrEngineNotReady

	default:
		e.metricInc(MetricAuthorizeFailure)
		e.emitAudit(ctx, AuditEvent{
			EventType: EventAuthorize,
			UserID:    result.UserID,
			Success:   false,
			Error:     authorizeFailureError(result).Error(),
		})
		return nil, ErrUnauthorized
	}
}

func (e *Engine) flowUserByID(ctx context.Context, userID int64) (flows.UserRecord, error) {
	user, err := e.users.GetUserByID(ctx, userID)
	if err != nil {
		return flows.UserRecord{}, err
	}
	return flows.UserRecord{
		UserID:      user.UserID,
		Name:        user.Name,
		Birthday:    user.Birthday,
		LastLoginAt: user.LastLoginAt,
	}, nil
}

func (e *Engine) warnf(format string, args ...any) {
	if e == nil || e.warn == nil {
		return
	}
	e.warn(format, args...)
}

func (e *Engine) emitAudit(ctx context.Context, event AuditEvent) {
	if e == nil || e.audit == nil {
		return
	}
	e.audit.Emit(ctx, event)
}

func toUserRecord(u flows.UserRecord) UserRecord {
	return UserRecord{
		UserID:      u.UserID,
		Name:        u.Name,
		Birthday:    u.Birthday,
		LastLoginAt: u.LastLoginAt,
	}
}

// loginFailureError translates a login failure kind into the internal
// sentinel recorded for diagnostics. Callers never see these.
func loginFailureError(kind flows.LoginFailureKind) error {
	switch kind {
	case flows.LoginFailurePassword:
		return ErrCredentialMismatch
	case flows.LoginFailureLookup, flows.LoginFailureUserRecord:
		return ErrSubjectNotFound
	default:
		return ErrUnauthorized
	}
}

func refreshFailureError(result flows.RefreshResult) error {
	switch result.Failure {
	case flows.RefreshFailureOrigin:
		return ErrOriginRejected
	case flows.RefreshFailureCsrf:
		return ErrCsrfRejected
	case flows.RefreshFailureMissingToken:
		return ErrMissingCredential
	case flows.RefreshFailureVerify:
		return classifyVerifyError(result.Err)
	case flows.RefreshFailureSubjectNotFound:
		return ErrSubjectNotFound
	case flows.RefreshFailureAbsoluteExpired:
		return ErrAbsoluteSessionExpired
	default:
		return ErrUnauthorized
	}
}

func authorizeFailureError(result flows.AuthorizeResult) error {
	switch result.Failure {
	case flows.AuthorizeFailureHeader:
		if errors.Is(result.Err, token.ErrMissingHeader) {
			return ErrMissingCredential
		}
		return ErrMalformedCredential
	case flows.AuthorizeFailureVerify:
		return classifyVerifyError(result.Err)
	case flows.AuthorizeFailureSubjectNotFound:
		return ErrSubjectNotFound
	default:
		return ErrUnauthorized
	}
}

func classifyVerifyError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrMalformed), errors.Is(err, token.ErrInvalidPayload):
		return ErrMalformedCredential
	default:
		return ErrInvalidSignature
	}
}

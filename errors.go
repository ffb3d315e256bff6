package frontauth

import "errors"

var (
	// ErrUnauthorized is an exported constant or variable used by the authentication engine.
	//
	// It is the only error any authentication-path failure surfaces at the
	// Engine boundary; the finer-grained sentinels below feed audit and
	// metrics only and must never reach callers as differentiated outcomes.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrMissingCredential is an exported constant or variable used by the authentication engine.
	ErrMissingCredential = errors.New("missing credential")
	// ErrMalformedCredential is an exported constant or variable used by the authentication engine.
	ErrMalformedCredential = errors.New("malformed credential")
	// ErrInvalidSignature is an exported constant or variable used by the authentication engine.
	ErrInvalidSignature = errors.New("invalid token signature")
	// ErrExpired is an exported constant or variable used by the authentication engine.
	ErrExpired = errors.New("token expired")
	// ErrAbsoluteSessionExpired is an exported constant or variable used by the authentication engine.
	ErrAbsoluteSessionExpired = errors.New("absolute session lifetime exceeded")
	// ErrOriginRejected is an exported constant or variable used by the authentication engine.
	ErrOriginRejected = errors.New("origin not allowed")
	// ErrCsrfRejected is an exported constant or variable used by the authentication engine.
	ErrCsrfRejected = errors.New("csrf header rejected")
	// ErrSubjectNotFound is an exported constant or variable used by the authentication engine.
	ErrSubjectNotFound = errors.New("subject not found")
	// ErrCredentialMismatch is an exported constant or variable used by the authentication engine.
	ErrCredentialMismatch = errors.New("credential mismatch")
	// ErrUserNotFound is an exported constant or variable used by the authentication engine.
	//
	// UserProvider implementations return it (or wrap it) when no record
	// exists for a lookup; any other provider error is treated the same way
	// on the authentication path.
	ErrUserNotFound = errors.New("user not found")
	// ErrEngineNotReady is an exported constant or variable used by the authentication engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)

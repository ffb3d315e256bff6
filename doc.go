// Package frontauth provides a stateless authentication engine built on signed
// tokens: short-lived JWT access tokens presented per request, and rotating JWT
// refresh tokens carried in an HTTP-only cookie. Sessions live entirely inside
// the tokens themselves — there is no server-side session record, no revocation
// list, and no lock shared between concurrent logins, refreshes, or validations.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Session model
//
// A refresh token's iat claim is frozen at the first login and survives every
// rotation; each rotation resets exp (sliding expiration) and stamps
// sessionStartedAt. The distance between now and the frozen iat bounds the
// total session age (absolute expiration), so a client can stay logged in
// while active but is forced through a full re-login once the session is old
// enough, no matter how often it refreshed.
//
// # Architecture boundaries
//
// frontauth is the public surface. It exposes [Engine], [Builder], [Config],
// sentinel errors, and value types (LoginResult, AuthResult, MetricsSnapshot).
// Flow orchestration lives under internal/ and is never exported. Token
// construction and verification live in the token and jwt subpackages;
// password hashing in the password subpackage; the Redis-backed user store in
// userstore; net/http glue in middleware.
//
// # What this package must NOT do
//
//   - Persist tokens or keep per-session state between requests.
//   - Expose which step of an authentication flow failed — every
//     authentication-path failure surfaces as [ErrUnauthorized].
//   - Mutate signing keys or the pepper after [Builder.Build].
package frontauth

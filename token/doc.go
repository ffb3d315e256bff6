// Package token builds and validates the two credentials of a session: the
// short-lived access token presented on every request and the rotating
// refresh token carried in an HTTP-only cookie.
//
// Both managers are stateless; every call is independently verifiable with no
// shared mutable state, so concurrent creates, validations, and rotations
// need no coordination. The managers own their claim shapes: only the refresh
// manager reads or writes sessionStartedAt.
package token

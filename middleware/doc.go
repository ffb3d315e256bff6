// Package middleware provides net/http adapters for the frontauth engine:
// a Guard wrapper that authorizes requests from the Authorization header,
// and ready-made JSON handlers for login, refresh, and logout that own the
// refresh cookie.
package middleware

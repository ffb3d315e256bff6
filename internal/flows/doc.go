// Package flows holds the bodies of the login, refresh, and authorize flows.
//
// Each flow is a plain function over a Deps struct of injected callables and
// returns a Result carrying a FailureKind instead of an error taxonomy. The
// root package owns the mapping from failure kinds to its sentinel errors,
// metrics, and audit events, and collapses every kind to the single generic
// unauthorized outcome it exposes to callers. Keeping the bodies here means
// they never import the root package and stay trivially testable with func
// literals.
package flows

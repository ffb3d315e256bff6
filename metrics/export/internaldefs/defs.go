package internaldefs

import (
	"github.com/ktyouta/frontauth"
)

// CounterDef defines a public type used by frontauth APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   frontauth.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by frontauth APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   frontauth.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the authentication engine.
var CounterDefs = []CounterDef{
	{ID: frontauth.MetricLoginSuccess, Name: "frontauth_login_success_total", Help: "Successful login attempts."},
	{ID: frontauth.MetricLoginFailure, Name: "frontauth_login_failure_total", Help: "Failed login attempts."},
	{ID: frontauth.MetricRefreshSuccess, Name: "frontauth_refresh_success_total", Help: "Successful refresh operations."},
	{ID: frontauth.MetricRefreshFailure, Name: "frontauth_refresh_failure_total", Help: "Failed refresh operations."},
	{ID: frontauth.MetricRefreshAbsoluteExpired, Name: "frontauth_refresh_absolute_expired_total", Help: "Refresh attempts rejected for exceeding the absolute session lifetime."},
	{ID: frontauth.MetricOriginRejected, Name: "frontauth_origin_rejected_total", Help: "Refresh attempts rejected by the origin check."},
	{ID: frontauth.MetricCsrfRejected, Name: "frontauth_csrf_rejected_total", Help: "Refresh attempts rejected by the CSRF sentinel check."},
	{ID: frontauth.MetricAuthorizeSuccess, Name: "frontauth_authorize_success_total", Help: "Successful request authorizations."},
	{ID: frontauth.MetricAuthorizeFailure, Name: "frontauth_authorize_failure_total", Help: "Failed request authorizations."},
}

// HistogramDefs is an exported constant or variable used by the authentication engine.
var HistogramDefs = []HistogramDef{
	{ID: frontauth.MetricAuthorizeLatency, Name: "frontauth_authorize_latency_seconds", Help: "Authorize latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the authentication engine.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the authentication engine.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets may return an error when input validation, dependency calls, or security checks fail.
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets may return an error when input validation, dependency calls, or security checks fail.
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}

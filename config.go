package frontauth

import (
	"bytes"
	"errors"
	"time"
)

// Config defines a public type used by frontauth APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Token      TokenConfig
	Password   PasswordConfig
	CSRF       CSRFConfig
	Audit      AuditConfig
	Metrics    MetricsConfig
	Production bool
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig defines a public type used by frontauth APIs.
//
// Access and refresh tokens use independent signing keys and lifetimes;
// compromise of one key must not allow forging the other token type, so
// Validate rejects identical keys.
type TokenConfig struct {
	AccessKey  []byte
	AccessTTL  time.Duration
	RefreshKey []byte
	RefreshTTL time.Duration

	// AbsoluteSessionLifetime bounds total session age measured from the
	// refresh token's frozen iat, independent of sliding renewal.
	// Zero means "same as RefreshTTL".
	AbsoluteSessionLifetime time.Duration
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig defines a public type used by frontauth APIs.
//
// PasswordConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type PasswordConfig struct {
	Memory      uint32 // in KB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32

	// Pepper is the process-wide secret mixed into every password hash.
	// A missing pepper is a deployment error and fails Builder.Build;
	// changing it invalidates every stored hash.
	Pepper string
}

/*
====================================
CSRF CONFIG
====================================
*/

// CSRFConfig governs the origin/sentinel-header pair required on refresh
// requests. Cookies alone do not prove same-site origin for state-changing
// requests, so both checks run before any token parsing.
type CSRFConfig struct {
	AllowedOrigin string
	HeaderName    string
	ExpectedValue string
}

// AuditConfig defines a public type used by frontauth APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig defines a public type used by frontauth APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

const (
	// DefaultCSRFHeader is an exported constant or variable used by the authentication engine.
	DefaultCSRFHeader = "X-Csrf-Token"
	// DefaultCSRFValue is an exported constant or variable used by the authentication engine.
	DefaultCSRFValue = "web"
)

// DefaultConfig returns the baseline configuration. Signing keys, the pepper,
// and the allowed origin have no safe defaults and must be filled in by the
// host before Build.
func DefaultConfig() Config {
	return Config{
		Token: TokenConfig{
			AccessTTL:               5 * time.Minute,
			RefreshTTL:              7 * 24 * time.Hour,
			AbsoluteSessionLifetime: 0,
		},
		Password: PasswordConfig{
			Memory:      65536,
			Time:        3,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
		},
		CSRF: CSRFConfig{
			HeaderName:    DefaultCSRFHeader,
			ExpectedValue: DefaultCSRFValue,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
		Production: false,
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Token.AccessKey = cloneBytes(cfg.Token.AccessKey)
	out.Token.RefreshKey = cloneBytes(cfg.Token.RefreshKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate checks the configuration for startup-fatal problems. Configuration
// errors (missing pepper, missing signing key) are construction-time errors,
// never per-request ones.
func (c *Config) Validate() error {
	if len(c.Token.AccessKey) == 0 {
		return errors.New("access token signing key required")
	}
	if len(c.Token.RefreshKey) == 0 {
		return errors.New("refresh token signing key required")
	}
	if bytes.Equal(c.Token.AccessKey, c.Token.RefreshKey) {
		return errors.New("access and refresh signing keys must differ")
	}
	if c.Token.AccessTTL <= 0 {
		return errors.New("invalid access token TTL")
	}
	if c.Token.RefreshTTL <= 0 {
		return errors.New("invalid refresh token TTL")
	}
	if c.Token.AbsoluteSessionLifetime < 0 {
		return errors.New("invalid absolute session lifetime")
	}
	if c.Password.Pepper == "" {
		return errors.New("password pepper required")
	}
	if c.CSRF.AllowedOrigin == "" {
		return errors.New("allowed origin required")
	}
	if c.CSRF.HeaderName == "" {
		return errors.New("csrf header name required")
	}
	if c.CSRF.ExpectedValue == "" {
		return errors.New("csrf expected value required")
	}

	return nil
}

// absoluteSessionLifetime resolves the zero-value default.
func (c *Config) absoluteSessionLifetime() time.Duration {
	if c.Token.AbsoluteSessionLifetime > 0 {
		return c.Token.AbsoluteSessionLifetime
	}
	return c.Token.RefreshTTL
}

package token

import (
	"errors"
	"testing"
	"time"

	"github.com/ktyouta/frontauth/jwt"
)

var refreshKey = []byte("refresh-test-signing-key")

const (
	refreshTTL = 7 * 24 * time.Hour
	maxSession = 30 * 24 * time.Hour
)

func refreshClaims(t *testing.T, at time.Time, tokenStr string) *jwt.Claims {
	t.Helper()
	claims, err := jwt.NewCodecWithClock(fixedClock(at)).Verify(tokenStr, refreshKey)
	if err != nil {
		t.Fatalf("verify refresh token: %v", err)
	}
	return claims
}

func TestRefreshCreateClaims(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := NewRefreshManagerWithClock(fixedClock(now))

	tok, err := m.Create(42, refreshKey, refreshTTL)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	claims := refreshClaims(t, now, tok)
	if claims.Subject != "42" {
		t.Fatalf("sub = %q, want %q", claims.Subject, "42")
	}
	if got := claims.IssuedAt.Time.Unix(); got != now.Unix() {
		t.Fatalf("iat = %d, want %d", got, now.Unix())
	}
	if claims.SessionStartedAt != now.Unix() {
		t.Fatalf("sessionStartedAt = %d, want %d", claims.SessionStartedAt, now.Unix())
	}
	if got := claims.ExpiresAt.Time.Unix(); got != now.Add(refreshTTL).Unix() {
		t.Fatalf("exp = %d, want %d", got, now.Add(refreshTTL).Unix())
	}
}

func TestRefreshRotationPreservesOrigin(t *testing.T) {
	origin := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	first, err := NewRefreshManagerWithClock(fixedClock(origin)).Create(42, refreshKey, refreshTTL)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	// Walk the token through five rotations, days apart.
	tok := first
	at := origin
	for i := 0; i < 5; i++ {
		at = at.Add(3 * 24 * time.Hour)
		m := NewRefreshManagerWithClock(fixedClock(at))

		next, err := m.Refresh(tok, refreshKey, refreshTTL)
		if err != nil {
			t.Fatalf("rotation %d: %v", i, err)
		}

		claims := refreshClaims(t, at, next)
		if claims.Subject != "42" {
			t.Fatalf("rotation %d: sub = %q, want %q", i, claims.Subject, "42")
		}
		if got := claims.IssuedAt.Time.Unix(); got != origin.Unix() {
			t.Fatalf("rotation %d: iat = %d, want frozen origin %d", i, got, origin.Unix())
		}
		if claims.SessionStartedAt != at.Unix() {
			t.Fatalf("rotation %d: sessionStartedAt = %d, want %d", i, claims.SessionStartedAt, at.Unix())
		}
		if got := claims.ExpiresAt.Time.Unix(); got != at.Add(refreshTTL).Unix() {
			t.Fatalf("rotation %d: exp = %d, want %d", i, got, at.Add(refreshTTL).Unix())
		}

		tok = next
	}
}

func TestRefreshRotatedTokenStaysValid(t *testing.T) {
	// There is no revocation store: a rotated-away token keeps working until
	// its own exp.
	origin := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := NewRefreshManagerWithClock(fixedClock(origin))

	old, err := m.Create(42, refreshKey, refreshTTL)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	later := NewRefreshManagerWithClock(fixedClock(origin.Add(24 * time.Hour)))
	if _, err := later.Refresh(old, refreshKey, refreshTTL); err != nil {
		t.Fatalf("Refresh error: %v", err)
	}

	if _, err := later.Subject(old, refreshKey); err != nil {
		t.Fatalf("expected rotated-away token to stay valid, got %v", err)
	}
}

func TestIsAbsoluteExpired(t *testing.T) {
	origin := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tok, err := NewRefreshManagerWithClock(fixedClock(origin)).Create(42, refreshKey, maxSession+refreshTTL)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	cases := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"fresh", origin.Add(time.Hour), false},
		{"just inside", origin.Add(maxSession), false},
		{"just past", origin.Add(maxSession + time.Second), true},
		{"far past", origin.Add(maxSession + 24*time.Hour), true},
	}

	for _, tc := range cases {
		m := NewRefreshManagerWithClock(fixedClock(tc.at))
		got, err := m.IsAbsoluteExpired(tok, refreshKey, maxSession)
		if err != nil {
			t.Fatalf("%s: IsAbsoluteExpired error: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: IsAbsoluteExpired = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestIsAbsoluteExpiredSurvivesRotation(t *testing.T) {
	// Rotating right before the absolute limit must not extend it: the
	// rotated token carries the frozen iat, so the next check still trips.
	origin := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tok, err := NewRefreshManagerWithClock(fixedClock(origin)).Create(42, refreshKey, maxSession+refreshTTL)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	nearLimit := origin.Add(maxSession - time.Hour)
	rotated, err := NewRefreshManagerWithClock(fixedClock(nearLimit)).Refresh(tok, refreshKey, refreshTTL)
	if err != nil {
		t.Fatalf("Refresh error: %v", err)
	}

	past := NewRefreshManagerWithClock(fixedClock(origin.Add(maxSession + time.Minute)))
	expired, err := past.IsAbsoluteExpired(rotated, refreshKey, maxSession)
	if err != nil {
		t.Fatalf("IsAbsoluteExpired error: %v", err)
	}
	if !expired {
		t.Fatal("rotation must not reset the absolute session clock")
	}
}

func TestRefreshExpiredToken(t *testing.T) {
	origin := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tok, err := NewRefreshManagerWithClock(fixedClock(origin)).Create(42, refreshKey, refreshTTL)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	late := NewRefreshManagerWithClock(fixedClock(origin.Add(refreshTTL + time.Hour)))
	if _, err := late.Refresh(tok, refreshKey, refreshTTL); !errors.Is(err, jwt.ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestRefreshWrongKey(t *testing.T) {
	origin := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := NewRefreshManagerWithClock(fixedClock(origin))

	tok, err := m.Create(42, refreshKey, refreshTTL)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if _, err := m.Refresh(tok, []byte("access-key-by-mistake"), refreshTTL); !errors.Is(err, jwt.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestFromCookie(t *testing.T) {
	m := NewRefreshManager()

	tok, err := m.FromCookie("some.refresh.token")
	if err != nil {
		t.Fatalf("FromCookie error: %v", err)
	}
	if tok != "some.refresh.token" {
		t.Fatalf("token = %q", tok)
	}

	if _, err := m.FromCookie(""); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

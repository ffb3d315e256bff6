package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ktyouta/frontauth"
	"github.com/ktyouta/frontauth/password"
	"github.com/ktyouta/frontauth/token"
)

type memProvider struct {
	mu     sync.RWMutex
	byID   map[int64]frontauth.UserRecord
	logins map[string]frontauth.LoginRecord
}

func (p *memProvider) GetLoginByName(_ context.Context, name string) (frontauth.LoginRecord, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	rec, ok := p.logins[name]
	if !ok {
		return frontauth.LoginRecord{}, frontauth.ErrUserNotFound
	}
	return rec, nil
}

func (p *memProvider) GetUserByID(_ context.Context, userID int64) (frontauth.UserRecord, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	user, ok := p.byID[userID]
	if !ok {
		return frontauth.UserRecord{}, frontauth.ErrUserNotFound
	}
	return user, nil
}

func (p *memProvider) UpdateLastLogin(_ context.Context, userID int64, at time.Time) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	user, ok := p.byID[userID]
	if !ok {
		return frontauth.ErrUserNotFound
	}
	user.LastLoginAt = at.Unix()
	p.byID[userID] = user
	return nil
}

func testConfig() frontauth.Config {
	cfg := frontauth.DefaultConfig()
	cfg.Token.AccessKey = []byte("mw-access-signing-key")
	cfg.Token.RefreshKey = []byte("mw-refresh-signing-key")
	cfg.Password = frontauth.PasswordConfig{
		Memory:      8192,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
		Pepper:      "mw-pepper",
	}
	cfg.CSRF.AllowedOrigin = "http://localhost:3000"
	return cfg
}

func newTestEngine(t *testing.T) (*frontauth.Engine, frontauth.Config) {
	t.Helper()

	cfg := testConfig()

	hasher, err := password.NewHasher(password.Config{
		Memory:      cfg.Password.Memory,
		Time:        cfg.Password.Time,
		Parallelism: cfg.Password.Parallelism,
		SaltLength:  cfg.Password.SaltLength,
		KeyLength:   cfg.Password.KeyLength,
	}, cfg.Password.Pepper)
	if err != nil {
		t.Fatalf("NewHasher error: %v", err)
	}

	salt, err := hasher.GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt error: %v", err)
	}
	hash, err := hasher.Hash("correct-horse", salt)
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	provider := &memProvider{
		byID: map[int64]frontauth.UserRecord{
			1: {UserID: 1, Name: "alice", Birthday: "1990-01-01"},
		},
		logins: map[string]frontauth.LoginRecord{
			"alice": {UserID: 1, Name: "alice", Salt: salt, PasswordHash: hash},
		},
	}

	engine, err := frontauth.New().
		WithConfig(cfg).
		WithUserProvider(provider).
		WithWarnFunc(func(string, ...any) {}).
		Build()
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine, cfg
}

func doLogin(t *testing.T, engine *frontauth.Engine) (accessToken string, refreshCookie *http.Cookie) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"userName":"alice","password":"correct-horse"}`))
	rec := httptest.NewRecorder()
	LoginHandler(engine)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}

	var body struct {
		UserID      int64  `json:"userId"`
		UserName    string `json:"userName"`
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode login body: %v", err)
	}
	if body.UserID != 1 || body.UserName != "alice" || body.AccessToken == "" {
		t.Fatalf("unexpected login body: %+v", body)
	}

	for _, c := range rec.Result().Cookies() {
		if c.Name == token.CookieKey {
			refreshCookie = c
		}
	}
	if refreshCookie == nil || refreshCookie.Value == "" {
		t.Fatal("login must set the refresh cookie")
	}
	if !refreshCookie.HttpOnly {
		t.Fatal("refresh cookie must be HttpOnly")
	}

	return body.AccessToken, refreshCookie
}

func TestLoginHandler(t *testing.T) {
	engine, _ := newTestEngine(t)
	doLogin(t, engine)
}

func TestLoginHandlerBadCredentials(t *testing.T) {
	engine, _ := newTestEngine(t)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"userName":"alice","password":"wrong"}`))
	rec := httptest.NewRecorder()
	LoginHandler(engine)(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("401 body leaks detail: %s", rec.Body.String())
	}
}

func TestGuardAllowsValidToken(t *testing.T) {
	engine, _ := newTestEngine(t)
	access, _ := doLogin(t, engine)

	var seen *frontauth.AuthResult
	handler := Guard(engine)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res, ok := AuthResultFromContext(r.Context())
		if !ok {
			t.Fatal("expected auth result on context")
		}
		seen = res
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if seen == nil || seen.UserID != 1 || seen.User.Name != "alice" {
		t.Fatalf("unexpected auth result: %+v", seen)
	}
}

func TestGuardRejects(t *testing.T) {
	engine, _ := newTestEngine(t)
	access, _ := doLogin(t, engine)

	handler := Guard(engine)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run for rejected requests")
	}))

	headers := []string{
		"",
		access,
		"Basic " + access,
		"Bearer not.a.token",
	}
	for _, h := range headers {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if h != "" {
			req.Header.Set("Authorization", h)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: status = %d, want 401", h, rec.Code)
		}
	}
}

func TestRefreshHandler(t *testing.T) {
	engine, cfg := newTestEngine(t)
	_, cookie := doLogin(t, engine)

	req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
	req.Header.Set("Origin", cfg.CSRF.AllowedOrigin)
	req.Header.Set(cfg.CSRF.HeaderName, cfg.CSRF.ExpectedValue)
	req.AddCookie(&http.Cookie{Name: token.CookieKey, Value: cookie.Value})
	rec := httptest.NewRecorder()
	RefreshHandler(engine)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var body struct {
		UserID      int64  `json:"userId"`
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode refresh body: %v", err)
	}
	if body.UserID != 1 || body.AccessToken == "" {
		t.Fatalf("unexpected refresh body: %+v", body)
	}

	var rotated *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == token.CookieKey {
			rotated = c
		}
	}
	if rotated == nil || rotated.Value == "" {
		t.Fatal("refresh must set a rotated cookie")
	}
}

func TestRefreshHandlerRejections(t *testing.T) {
	engine, cfg := newTestEngine(t)
	_, cookie := doLogin(t, engine)

	cases := []struct {
		name   string
		mutate func(*http.Request)
	}{
		{"missing origin", func(r *http.Request) { r.Header.Del("Origin") }},
		{"wrong origin", func(r *http.Request) { r.Header.Set("Origin", "http://evil.example") }},
		{"missing csrf header", func(r *http.Request) { r.Header.Del(cfg.CSRF.HeaderName) }},
		{"wrong csrf value", func(r *http.Request) { r.Header.Set(cfg.CSRF.HeaderName, "app") }},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
		req.Header.Set("Origin", cfg.CSRF.AllowedOrigin)
		req.Header.Set(cfg.CSRF.HeaderName, cfg.CSRF.ExpectedValue)
		req.AddCookie(&http.Cookie{Name: token.CookieKey, Value: cookie.Value})
		tc.mutate(req)

		rec := httptest.NewRecorder()
		RefreshHandler(engine)(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: status = %d, want 401", tc.name, rec.Code)
		}

		// A rejected refresh clears the cookie.
		var cleared *http.Cookie
		for _, c := range rec.Result().Cookies() {
			if c.Name == token.CookieKey {
				cleared = c
			}
		}
		if cleared == nil || cleared.Value != "" || cleared.MaxAge != -1 {
			t.Fatalf("%s: expected cleared cookie, got %+v", tc.name, cleared)
		}
	}
}

func TestRefreshHandlerMissingCookie(t *testing.T) {
	engine, cfg := newTestEngine(t)
	doLogin(t, engine)

	req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
	req.Header.Set("Origin", cfg.CSRF.AllowedOrigin)
	req.Header.Set(cfg.CSRF.HeaderName, cfg.CSRF.ExpectedValue)
	rec := httptest.NewRecorder()
	RefreshHandler(engine)(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestLogoutHandler(t *testing.T) {
	engine, _ := newTestEngine(t)
	doLogin(t, engine)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	rec := httptest.NewRecorder()
	LogoutHandler(engine)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var cleared *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == token.CookieKey {
			cleared = c
		}
	}
	if cleared == nil || cleared.Value != "" || cleared.MaxAge != -1 {
		t.Fatalf("expected cleared cookie, got %+v", cleared)
	}
}

func TestHandlersRejectWrongMethod(t *testing.T) {
	engine, _ := newTestEngine(t)

	for name, h := range map[string]http.HandlerFunc{
		"login":   LoginHandler(engine),
		"refresh": RefreshHandler(engine),
		"logout":  LogoutHandler(engine),
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		h(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s: status = %d, want 405", name, rec.Code)
		}
	}
}

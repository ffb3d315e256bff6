//go:build integration
// +build integration

package test

import (
	"context"
	"testing"

	"github.com/ktyouta/frontauth"
	"github.com/ktyouta/frontauth/password"
	"github.com/ktyouta/frontauth/userstore"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func integrationConfig() frontauth.Config {
	cfg := frontauth.DefaultConfig()
	cfg.Token.AccessKey = []byte("it-access-signing-key")
	cfg.Token.RefreshKey = []byte("it-refresh-signing-key")
	cfg.Password = frontauth.PasswordConfig{
		Memory:      8192,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
		Pepper:      "it-pepper",
	}
	cfg.CSRF.AllowedOrigin = "http://localhost:3000"
	return cfg
}

func newIntegrationStore(t *testing.T) *userstore.Store {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return userstore.NewStore(rdb, "it")
}

func seedAccount(t *testing.T, store *userstore.Store, cfg frontauth.Config, name, plaintext string) int64 {
	t.Helper()

	hasher, err := password.NewHasher(password.Config{
		Memory:      cfg.Password.Memory,
		Time:        cfg.Password.Time,
		Parallelism: cfg.Password.Parallelism,
		SaltLength:  cfg.Password.SaltLength,
		KeyLength:   cfg.Password.KeyLength,
	}, cfg.Password.Pepper)
	if err != nil {
		t.Fatalf("new hasher: %v", err)
	}

	salt, err := hasher.GenerateSalt()
	if err != nil {
		t.Fatalf("generate salt: %v", err)
	}
	hash, err := hasher.Hash(plaintext, salt)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	id, err := store.Create(context.Background(), name, "1990-01-01", salt, hash)
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	return id
}

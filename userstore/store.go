package userstore

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrUserNotFound is an exported constant or variable used by the authentication engine.
var ErrUserNotFound = errors.New("user not found")

// ErrUserExists is an exported constant or variable used by the authentication engine.
var ErrUserExists = errors.New("user already exists")

// ErrRedisUnavailable is an exported constant or variable used by the authentication engine.
var ErrRedisUnavailable = errors.New("redis unavailable")

const (
	fieldName        = "name"
	fieldBirthday    = "birthday"
	fieldSalt        = "salt"
	fieldHash        = "password_hash"
	fieldLastLoginAt = "last_login_at"
	fieldDeleted     = "deleted"
)

// User is the stored account row: profile fields plus the credential
// material the engine compares during login.
//
// User instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type User struct {
	UserID       int64
	Name         string
	Birthday     string
	Salt         []byte
	PasswordHash string
	LastLoginAt  int64
}

// Store is a Redis-backed account store. It keeps one hash per account,
// a username index for login lookup, and a sequence counter for IDs.
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

// NewStore creates an account [Store] backed by the given Redis client.
// prefix sets the Redis key namespace.
func NewStore(redis redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = "fa"
	}
	return &Store{
		redis:  redis,
		prefix: prefix,
	}
}

func (s *Store) userKey(userID int64) string {
	return s.prefix + ":user:" + strconv.FormatInt(userID, 10)
}

func (s *Store) nameKey(name string) string {
	return s.prefix + ":name:" + name
}

func (s *Store) seqKey() string {
	return s.prefix + ":user:seq"
}

// Create registers a new account and returns its assigned ID. The username
// index is claimed with SETNX before the hash is written, so a concurrent
// Create with the same name loses with [ErrUserExists] and never half-writes.
//
//	Performance: 1 INCR + 1 SETNX + 1 HSET.
func (s *Store) Create(ctx context.Context, name, birthday string, salt []byte, passwordHash string) (int64, error) {
	if name == "" {
		return 0, errors.New("username required")
	}
	if len(salt) == 0 || passwordHash == "" {
		return 0, errors.New("credential material required")
	}

	userID, err := s.redis.Incr(ctx, s.seqKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	claimed, err := s.redis.SetNX(ctx, s.nameKey(name), userID, 0).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if !claimed {
		return 0, ErrUserExists
	}

	err = s.redis.HSet(ctx, s.userKey(userID), map[string]interface{}{
		fieldName:        name,
		fieldBirthday:    birthday,
		fieldSalt:        base64.RawStdEncoding.EncodeToString(salt),
		fieldHash:        passwordHash,
		fieldLastLoginAt: 0,
		fieldDeleted:     0,
	}).Err()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return userID, nil
}

// GetByID retrieves an account by ID. Soft-deleted accounts read as
// [ErrUserNotFound].
//
//	Performance: 1 HGETALL.
func (s *Store) GetByID(ctx context.Context, userID int64) (*User, error) {
	fields, err := s.redis.HGetAll(ctx, s.userKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return decodeUser(userID, fields)
}

// GetByName resolves a username through the index and retrieves the account.
//
//	Performance: 1 GET + 1 HGETALL.
func (s *Store) GetByName(ctx context.Context, name string) (*User, error) {
	userID, err := s.redis.Get(ctx, s.nameKey(name)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return s.GetByID(ctx, userID)
}

// UpdatePassword replaces the account's salt and hash together. The pair is
// written in one HSET; a salt without its matching hash would lock the
// account out.
func (s *Store) UpdatePassword(ctx context.Context, userID int64, salt []byte, passwordHash string) error {
	if len(salt) == 0 || passwordHash == "" {
		return errors.New("credential material required")
	}

	if _, err := s.GetByID(ctx, userID); err != nil {
		return err
	}

	err := s.redis.HSet(ctx, s.userKey(userID), map[string]interface{}{
		fieldSalt: base64.RawStdEncoding.EncodeToString(salt),
		fieldHash: passwordHash,
	}).Err()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// UpdateLastLogin stamps the account's last successful login time.
func (s *Store) UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error {
	if _, err := s.GetByID(ctx, userID); err != nil {
		return err
	}

	err := s.redis.HSet(ctx, s.userKey(userID), fieldLastLoginAt, at.Unix()).Err()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// SoftDelete flags an account as deleted. The hash and username index stay in
// place so the ID and name cannot be reused; reads treat the account as gone,
// which is what revokes its outstanding refresh tokens at the next lookup.
func (s *Store) SoftDelete(ctx context.Context, userID int64) error {
	if _, err := s.GetByID(ctx, userID); err != nil {
		return err
	}

	err := s.redis.HSet(ctx, s.userKey(userID), fieldDeleted, 1).Err()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

func decodeUser(userID int64, fields map[string]string) (*User, error) {
	if len(fields) == 0 {
		return nil, ErrUserNotFound
	}
	if fields[fieldDeleted] == "1" {
		return nil, ErrUserNotFound
	}

	salt, err := base64.RawStdEncoding.DecodeString(fields[fieldSalt])
	if err != nil {
		return nil, fmt.Errorf("corrupt salt for user %d: %w", userID, err)
	}

	lastLogin, err := strconv.ParseInt(fields[fieldLastLoginAt], 10, 64)
	if err != nil {
		lastLogin = 0
	}

	return &User{
		UserID:       userID,
		Name:         fields[fieldName],
		Birthday:     fields[fieldBirthday],
		Salt:         salt,
		PasswordHash: fields[fieldHash],
		LastLoginAt:  lastLogin,
	}, nil
}

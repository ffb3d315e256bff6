package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"io"

	"golang.org/x/crypto/argon2"
)

const (
	minMemoryKB    uint32 = 8 * 1024
	minTimeCost    uint32 = 1
	minParallelism uint8  = 1
	minSaltLength  uint32 = 16
	minKeyLength   uint32 = 16
)

// Composition contract: the argon2id secret input is plaintext||pepper and
// the salt goes in as the argon2 salt parameter. This order is load-bearing —
// any asymmetry between hash-at-creation and hash-at-login silently breaks
// every login — and is pinned by TestHashCompositionPinned.

// Config defines a public type used by frontauth APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Memory      uint32 // in KB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// Hasher derives password digests with a fixed cost configuration and a
// process-wide pepper. The pepper is not stored per user; losing or changing
// it invalidates every existing hash.
type Hasher struct {
	config Config
	pepper string
}

// NewHasher validates the cost configuration and the pepper. A missing pepper
// is a deployment error and is raised here, before any hashing is attempted.
func NewHasher(cfg Config, pepper string) (*Hasher, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if pepper == "" {
		return nil, errors.New("password pepper required")
	}

	return &Hasher{config: cfg, pepper: pepper}, nil
}

// GenerateSalt returns a fresh cryptographically random salt of the
// configured length. Salts are generated once per account and replaced only
// together with the stored hash.
func (h *Hasher) GenerateSalt() ([]byte, error) {
	salt := make([]byte, h.config.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// Hash derives the digest of (plaintext, salt, pepper). Deterministic:
// identical inputs always yield an identical base64 string.
func (h *Hasher) Hash(plaintext string, salt []byte) (string, error) {
	if len(salt) < int(minSaltLength) {
		return "", errors.New("invalid salt length")
	}

	key := argon2.IDKey(
		h.secret(plaintext),
		salt,
		h.config.Time,
		h.config.Memory,
		h.config.Parallelism,
		h.config.KeyLength,
	)

	return base64.RawStdEncoding.EncodeToString(key), nil
}

// Verify recomputes the digest and compares it byte-exactly against the
// stored value in constant time. No length-insensitive or partial matching.
func (h *Hasher) Verify(plaintext string, salt []byte, storedHash string) (bool, error) {
	computed, err := h.Hash(plaintext, salt)
	if err != nil {
		return false, err
	}

	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1, nil
}

func (h *Hasher) secret(plaintext string) []byte {
	out := make([]byte, 0, len(plaintext)+len(h.pepper))
	out = append(out, plaintext...)
	out = append(out, h.pepper...)
	return out
}

func validateConfig(cfg Config) error {
	if cfg.Memory < minMemoryKB {
		return errors.New("password memory must be >= 8192 KB")
	}
	if cfg.Time < minTimeCost {
		return errors.New("password time must be >= 1")
	}
	if cfg.Parallelism < minParallelism {
		return errors.New("password parallelism must be >= 1")
	}
	if cfg.SaltLength < minSaltLength {
		return errors.New("password salt length must be >= 16")
	}
	if cfg.KeyLength < minKeyLength {
		return errors.New("password key length must be >= 16")
	}

	return nil
}

// Package password derives deterministic, salted and peppered argon2id
// digests for equality-based credential verification.
//
// The digest is a pure function of (plaintext, salt, pepper): hashing the
// same inputs at registration and at login must produce byte-identical
// output, which is what lets the caller compare stored and recomputed hashes
// directly instead of going through a dedicated verify routine.
package password

// Package jwt is the sign/verify primitive shared by both token managers.
// It has no notion of subjects or sessions — it serializes a claim set,
// signs it with HS256 over a caller-supplied symmetric key, and maps
// verification failures onto three sentinel errors (malformed, invalid
// signature, expired) so call sites can distinguish them.
package jwt

// Package userstore is a Redis-backed account store implementing the
// engine's UserProvider contract.
//
// Layout: each account lives in a hash keyed by numeric ID, with a
// string key mapping the unique username back to that ID and a counter
// key handing out new IDs. Accounts are soft-deleted: the hash keeps a
// deleted flag so the ID and username stay reserved, and reads treat
// flagged accounts as absent.
package userstore

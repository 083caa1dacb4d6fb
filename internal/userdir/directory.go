// Package userdir is the relational directory of players: one row per
// Telegram user, upserted on every successful auth handshake (spec.md §6).
package userdir

import (
	"context"
	"time"
)

// User is one row of the users table.
type User struct {
	ID           int64
	ExternalID   int64
	FirstName    string
	Username     string
	LanguageCode string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Directory is the user-directory contract consumed by the HTTP auth
// handler. Each row is only ever written by the request handling the auth
// for that externalId; no cross-request races on the same row.
type Directory interface {
	// Upsert inserts a new user row for externalID or refreshes the
	// mutable profile fields on an existing one, and returns the current
	// row either way.
	Upsert(ctx context.Context, externalID int64, firstName, username, languageCode string) (User, error)
	Close() error
}

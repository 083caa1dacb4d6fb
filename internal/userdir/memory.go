package userdir

import (
	"context"
	"sync"
	"time"
)

// MemoryDirectory keeps users in a process-local map; sufficient for tests
// and single-instance dev.
type MemoryDirectory struct {
	mu     sync.Mutex
	nextID int64
	byExt  map[int64]User
}

func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{byExt: make(map[int64]User)}
}

func (d *MemoryDirectory) Upsert(_ context.Context, externalID int64, firstName, username, languageCode string) (User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := d.byExt[externalID]; ok {
		existing.FirstName = firstName
		existing.Username = username
		existing.LanguageCode = languageCode
		existing.UpdatedAt = now
		d.byExt[externalID] = existing
		return existing, nil
	}

	d.nextID++
	u := User{
		ID:           d.nextID,
		ExternalID:   externalID,
		FirstName:    firstName,
		Username:     username,
		LanguageCode: languageCode,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	d.byExt[externalID] = u
	return u, nil
}

func (d *MemoryDirectory) Close() error { return nil }

package userdir

import (
	"fmt"
	"os"
	"strings"
)

const (
	DirectoryModeMemory = "memory"
	DirectoryModeDB     = "db"
	DirectoryModeLocal  = "local"
)

func directoryModeFromEnv() string {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv("USERDIR_MODE")))
	switch raw {
	case "", DirectoryModeDB, "postgres", "postgresql":
		return DirectoryModeDB
	case DirectoryModeLocal, "sqlite":
		return DirectoryModeLocal
	case DirectoryModeMemory, "mem":
		return DirectoryModeMemory
	default:
		return raw
	}
}

// NewDirectoryFromEnv picks the backing store from USERDIR_MODE (db by
// default, local for sqlite, memory for tests/dev).
func NewDirectoryFromEnv() (Directory, string, error) {
	mode := directoryModeFromEnv()
	switch mode {
	case DirectoryModeDB:
		dir, err := NewPostgresDirectoryFromEnv()
		if err != nil {
			return nil, mode, err
		}
		return dir, mode, nil
	case DirectoryModeLocal:
		dir, err := NewSQLiteDirectoryFromEnv()
		if err != nil {
			return nil, mode, err
		}
		return dir, mode, nil
	case DirectoryModeMemory:
		return NewMemoryDirectory(), mode, nil
	default:
		return nil, mode, fmt.Errorf("invalid USERDIR_MODE %q (supported: %s, %s, %s)", mode, DirectoryModeMemory, DirectoryModeDB, DirectoryModeLocal)
	}
}

package userdir

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const defaultLocalDBName = "durak_users.db"

type SQLiteDirectory struct {
	db *sql.DB
}

func userdirLocalDatabasePathFromEnv() (string, error) {
	if v := strings.TrimSpace(os.Getenv("USERDIR_LOCAL_DATABASE_PATH")); v != "" {
		return filepath.Clean(v), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "durak", defaultLocalDBName), nil
}

func NewSQLiteDirectoryFromEnv() (*SQLiteDirectory, error) {
	path, err := userdirLocalDatabasePathFromEnv()
	if err != nil {
		return nil, err
	}
	return NewSQLiteDirectory(path)
}

func NewSQLiteDirectory(dbPath string) (*SQLiteDirectory, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	if dbPath != ":memory:" {
		if parent := filepath.Dir(dbPath); parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
		`PRAGMA foreign_keys = ON;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSQLiteUserSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteDirectory{db: db}, nil
}

func ensureSQLiteUserSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    external_id INTEGER NOT NULL UNIQUE,
    first_name TEXT NOT NULL DEFAULT '',
    username TEXT NOT NULL DEFAULT '',
    language_code TEXT NOT NULL DEFAULT '',
    created_at_ms INTEGER NOT NULL,
    updated_at_ms INTEGER NOT NULL
)`)
	return err
}

func (d *SQLiteDirectory) Upsert(ctx context.Context, externalID int64, firstName, username, languageCode string) (User, error) {
	nowMs := time.Now().UTC().UnixMilli()
	_, err := d.db.ExecContext(ctx, `
INSERT INTO users (external_id, first_name, username, language_code, created_at_ms, updated_at_ms)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(external_id) DO UPDATE SET
    first_name = excluded.first_name,
    username = excluded.username,
    language_code = excluded.language_code,
    updated_at_ms = excluded.updated_at_ms
`, externalID, firstName, username, languageCode, nowMs, nowMs)
	if err != nil {
		return User{}, err
	}

	var (
		u             User
		createdAtMs   int64
		updatedAtMs   int64
	)
	err = d.db.QueryRowContext(ctx, `
SELECT id, external_id, first_name, username, language_code, created_at_ms, updated_at_ms
FROM users WHERE external_id = ?
`, externalID).Scan(&u.ID, &u.ExternalID, &u.FirstName, &u.Username, &u.LanguageCode, &createdAtMs, &updatedAtMs)
	if err != nil {
		return User{}, err
	}
	u.CreatedAt = time.UnixMilli(createdAtMs).UTC()
	u.UpdatedAt = time.UnixMilli(updatedAtMs).UTC()
	return u, nil
}

func (d *SQLiteDirectory) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

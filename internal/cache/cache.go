// Package cache persists fetched catalog snapshots in sqlite so repeated
// startups within the TTL skip the network.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"
)

type Store struct {
	db   *sql.DB
	lock *flock.Flock
}

type Result struct {
	Hit   bool
	Value []byte
	Age   time.Duration
	Fresh bool
}

func Open(path, lockPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	// Schema init runs under the file lock: concurrent opens of the same
	// cache would otherwise race the WAL switch and fail with SQLITE_BUSY.
	lock := flock.New(lockPath)
	if err := acquire(lock); err != nil {
		return nil, err
	}
	defer func() { _ = lock.Unlock() }()

	// busy_timeout goes in the DSN so every pooled connection inherits it.
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open snapshot cache: %w", err)
	}

	queries := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"CREATE TABLE IF NOT EXISTS snapshots (key TEXT PRIMARY KEY, value BLOB NOT NULL, fetched_at INTEGER NOT NULL);",
	}
	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init snapshot schema: %w", err)
		}
	}

	return &Store{db: db, lock: lock}, nil
}

// acquire takes the file lock, retrying briefly instead of blocking forever.
func acquire(lock *flock.Flock) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	locked, err := lock.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return fmt.Errorf("lock snapshot cache: %w", err)
	}
	if !locked {
		return fmt.Errorf("lock snapshot cache: timeout acquiring lock")
	}
	return nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the stored snapshot for key. Fresh is set when the entry is
// younger than ttl.
func (s *Store) Get(key string, ttl time.Duration) (Result, error) {
	var value []byte
	var fetchedUnix int64
	err := s.db.QueryRow("SELECT value, fetched_at FROM snapshots WHERE key = ?", key).Scan(&value, &fetchedUnix)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Result{Hit: false}, nil
		}
		return Result{}, fmt.Errorf("snapshot read: %w", err)
	}

	age := time.Since(time.Unix(fetchedUnix, 0).UTC())
	if age < 0 {
		age = 0
	}
	return Result{
		Hit:   true,
		Value: value,
		Age:   age,
		Fresh: age <= ttl,
	}, nil
}

func (s *Store) Set(key string, value []byte) error {
	if err := acquire(s.lock); err != nil {
		return err
	}
	defer func() { _ = s.lock.Unlock() }()

	_, err := s.db.Exec(`
		INSERT INTO snapshots (key, value, fetched_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value=excluded.value,
			fetched_at=excluded.fetched_at
	`, key, value, time.Now().UTC().Unix())
	if err != nil {
		return fmt.Errorf("snapshot write: %w", err)
	}
	return nil
}

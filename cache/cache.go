// Package cache persists rendered registrations keyed by the content hash
// of everything that went into them, so unchanged functions are not
// re-rendered across runs.
package cache

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"
	_ "modernc.org/sqlite"

	"github.com/chazu/wrapgen/descriptor"
	"github.com/chazu/wrapgen/lambda"
)

var log = commonlog.GetLogger("wrapgen.cache")

// ErrMiss indicates the key has no stored entry.
var ErrMiss = errors.New("cache: miss")

// Store is a SQLite-backed render cache. It is safe for concurrent use.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the cache database at path. ":memory:" keeps the
// cache in memory for the lifetime of the Store.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("cache: creating dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("cache: opening database: %w", err)
	}
	// One connection serializes the generator's concurrent writers; an
	// in-memory database would otherwise be private to each connection.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS wrappers (
		key TEXT PRIMARY KEY,
		body TEXT NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: creating table: %w", err)
	}

	log.Debugf("opened %s", path)
	return &Store{db: db, path: path}, nil
}

// dsn applies the pragmas on every connection the pool opens. Pragmas
// run through Exec only reach one of them.
func dsn(path string) string {
	if path == ":memory:" {
		return path
	}
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Get returns the lines stored under key, or ErrMiss.
func (s *Store) Get(ctx context.Context, key string) ([]string, error) {
	var body string
	err := s.db.QueryRowContext(ctx, "SELECT body FROM wrappers WHERE key = ?", key).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("cache: querying %s: %w", key, err)
	}
	if body == "" {
		return nil, nil
	}
	return strings.Split(body, "\n"), nil
}

// Put stores lines under key, replacing any previous entry.
func (s *Store) Put(ctx context.Context, key string, lines []string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO wrappers (key, body) VALUES (?, ?)",
		key, strings.Join(lines, "\n"),
	)
	if err != nil {
		return fmt.Errorf("cache: storing %s: %w", key, err)
	}
	return nil
}

// Len returns the number of stored entries.
func (s *Store) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM wrappers").Scan(&n); err != nil {
		return 0, fmt.Errorf("cache: counting: %w", err)
	}
	return n, nil
}

// keyInput is everything a rendered registration depends on.
type keyInput struct {
	Target   string
	Function descriptor.Function
	Class    *descriptor.Class
	Suffix   string
	Idioms   lambda.Idioms
}

// Key derives the cache key for one registration.
func Key(target string, b descriptor.Binding, idioms lambda.Idioms) (string, error) {
	h, err := descriptor.ContentHash(keyInput{
		Target:   target,
		Function: b.Function,
		Class:    b.Class,
		Suffix:   b.Suffix,
		Idioms:   idioms,
	})
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(h[:]), nil
}

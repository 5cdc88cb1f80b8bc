package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/olive/internal/meal"
)

// ErrNotFound is returned by single-row reads when no meal has the given id.
var ErrNotFound = errors.New("meal not found")

// Store provides durable storage for meals.
// Uses SQLite through a single lazily opened connection.
type Store struct {
	path   string
	logger *slog.Logger
	clock  meal.Clock
	ids    meal.IDGenerator

	mu sync.Mutex
	db *sql.DB
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithClock sets the clock used for created_at stamps and "today".
func WithClock(clock meal.Clock) Option {
	return func(s *Store) { s.clock = clock }
}

// WithIDGenerator sets the generator used for meals submitted without an id.
func WithIDGenerator(ids meal.IDGenerator) Option {
	return func(s *Store) { s.ids = ids }
}

// New returns a Store for the database at path without touching the disk.
// The connection is opened, configured and migrated on first use.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:   path,
		logger: slog.Default(),
		clock:  meal.SystemClock{},
		ids:    meal.TimestampIDGenerator{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates or opens a SQLite database at the given path and brings its
// schema to the latest version before returning.
//
// This function is idempotent - safe to call on every startup.
func Open(path string, opts ...Option) (*Store, error) {
	s := New(path, opts...)
	if _, err := s.conn(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection. A later call on the Store reopens it.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeLocked()
}

// Reset deletes the database file and recreates an empty, fully migrated
// database in its place.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.closeLocked(); err != nil {
		return fmt.Errorf("reset database: %w", err)
	}
	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := os.Remove(s.path + suffix); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("reset database: %w", err)
		}
	}
	s.logger.Info("database deleted", "path", s.path)

	if _, err := s.openLocked(ctx); err != nil {
		return fmt.Errorf("reset database: %w", err)
	}
	return nil
}

// DB returns the underlying sql.DB, opening it if needed.
// Use with caution - prefer using Store methods when available.
func (s *Store) DB(ctx context.Context) (*sql.DB, error) {
	return s.conn(ctx)
}

// conn returns the shared connection, opening and migrating it exactly once.
func (s *Store) conn(ctx context.Context) (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db, nil
	}
	return s.openLocked(ctx)
}

func (s *Store) openLocked(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", "file:"+s.path+"?_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := migrate(ctx, db, s.logger); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	s.logger.Debug("database ready", "path", s.path)
	s.db = db
	return db, nil
}

func (s *Store) closeLocked() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = FULL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	db, err := s.conn(context.Background())
	if err != nil {
		return err
	}
	var value string
	if err := db.QueryRow(fmt.Sprintf("PRAGMA %s", name)).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}

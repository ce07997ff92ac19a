// Package sqlite implements the repository interfaces on top of SQLite.
//
// WHY modernc.org/sqlite?
// It is a pure-Go translation of the SQLite C sources — no CGo, no C
// compiler, cross-compiles anywhere Go does. The blank import below registers
// it with database/sql as the driver named "sqlite".
//
// The whole durable state of the service lives in three tables:
//
//	users      1 ──< todo_lists 1 ──< todo_items
//
// Both foreign keys are declared ON DELETE CASCADE, so removing a user takes
// its lists and their items with it in a single statement. SQLite ships with
// foreign keys OFF for backwards compatibility, which is why New() enables
// them per connection with a PRAGMA.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"
)

// DB wraps a sql.DB handle and hands out per-entity stores that share it.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and ensures the schema
// exists. Use ":memory:" for a throwaway database in tests.
//
// The pool is capped at a single connection. SQLite allows one writer at a
// time anyway, and with ":memory:" every pool connection would otherwise get
// its own private, empty database — a classic test heisenbug.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	// sql.Open is lazy; Ping forces a real connection so a bad path or
	// permissions problem surfaces here, not on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets reads proceed while a write is in flight.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Without this, the ON DELETE CASCADE clauses below are inert.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the underlying connection pool. Safe to call on shutdown
// after in-flight requests have drained.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Users returns the user store backed by this database.
func (db *DB) Users() *UserStore { return &UserStore{conn: db.conn} }

// Lists returns the list store backed by this database.
func (db *DB) Lists() *ListStore { return &ListStore{conn: db.conn} }

// Items returns the item store backed by this database.
func (db *DB) Items() *ItemStore { return &ItemStore{conn: db.conn} }

// migrate creates the schema. CREATE TABLE IF NOT EXISTS makes it safe to
// run on every start, including against an already-populated database.
//
// created_at is TEXT, not DATETIME: the service layer writes fixed-width UTC
// ISO-8601 strings, so lexicographic ORDER BY is chronological and the stored
// value round-trips to JSON untouched.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			email    TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS todo_lists (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id    INTEGER NOT NULL,
			title      TEXT NOT NULL,
			created_at TEXT NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		);

		CREATE TABLE IF NOT EXISTS todo_items (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			list_id    INTEGER NOT NULL,
			content    TEXT NOT NULL,
			created_at TEXT NOT NULL,
			FOREIGN KEY (list_id) REFERENCES todo_lists(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_todo_lists_user_id ON todo_lists(user_id);
		CREATE INDEX IF NOT EXISTS idx_todo_items_list_id ON todo_items(list_id);
	`)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// isConstraintErr reports whether err is a SQLite constraint violation with
// the given extended result code (e.g. sqlite3.SQLITE_CONSTRAINT_UNIQUE).
// The driver returns a typed *sqlite.Error, so we match on the code rather
// than parsing message text.
func isConstraintErr(err error, code int) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == code
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	sqlite3 "modernc.org/sqlite/lib"

	"github.com/sakif/simple-todo/internal/apperror"
	"github.com/sakif/simple-todo/internal/model"
	"github.com/sakif/simple-todo/internal/repository"
)

// compile-time check that *UserStore implements repository.UserRepository
var _ repository.UserRepository = (*UserStore)(nil)

// UserStore persists user accounts.
type UserStore struct {
	conn *sql.DB
}

// Create inserts a new user and fills in the database-assigned ID.
//
// The caller is expected to have normalized the email (trimmed, lowercased),
// so the UNIQUE constraint on the column gives case-insensitive uniqueness
// for free. A violation comes back from the driver as extended result code
// SQLITE_CONSTRAINT_UNIQUE, which we translate to a Conflict domain error.
func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	res, err := s.conn.ExecContext(ctx,
		`INSERT INTO users (email, password) VALUES (?, ?)`,
		user.Email,
		user.Password,
	)
	if err != nil {
		if isConstraintErr(err, sqlite3.SQLITE_CONSTRAINT_UNIQUE) {
			return apperror.Conflict("An account with this email already exists.")
		}
		return fmt.Errorf("sqlite: creating user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new user id: %w", err)
	}
	user.ID = id

	return nil
}

// GetByCredentials returns the user matching both email and password exactly.
//
// Passwords are stored and compared verbatim — a single WHERE clause does the
// whole credential check. The failure message never distinguishes "unknown
// email" from "wrong password", so responses can't be used to enumerate
// accounts.
func (s *UserStore) GetByCredentials(ctx context.Context, email, password string) (*model.User, error) {
	var u model.User

	err := s.conn.QueryRowContext(ctx,
		`SELECT id, email FROM users WHERE email = ? AND password = ?`,
		email,
		password,
	).Scan(&u.ID, &u.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.Unauthorized("Invalid email or password.")
		}
		return nil, fmt.Errorf("sqlite: looking up credentials: %w", err)
	}

	return &u, nil
}

// Exists reports whether a user with the given id is registered.
func (s *UserStore) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := s.conn.QueryRowContext(ctx,
		`SELECT 1 FROM users WHERE id = ?`, id,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("sqlite: checking user %d: %w", id, err)
	}
	return true, nil
}

// Delete removes a user. The ON DELETE CASCADE clauses take the user's lists
// and those lists' items with it in the same statement.
func (s *UserStore) Delete(ctx context.Context, id int64) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting user %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("user", id)
	}

	return nil
}

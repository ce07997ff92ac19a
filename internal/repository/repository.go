// Package repository declares the storage interfaces the service layer
// depends on. Services receive these interfaces, never a concrete *sql.DB —
// tests inject in-memory fakes, production injects the sqlite implementation.
package repository

import (
	"context"

	"github.com/sakif/simple-todo/internal/model"
)

// MaxItemsPerList caps how many items a single list may hold.
// Enforced by the item store itself (see sqlite.ItemStore.Create), not by a
// schema constraint.
const MaxItemsPerList = 100

type UserRepository interface {
	// Create inserts the user and fills in its assigned ID.
	// Returns apperror.ErrConflict if the email is already registered.
	Create(ctx context.Context, user *model.User) error

	// GetByCredentials returns the user whose email and password both match
	// exactly. Returns apperror.ErrUnauthorized on any mismatch.
	GetByCredentials(ctx context.Context, email, password string) (*model.User, error)

	Exists(ctx context.Context, id int64) (bool, error)

	// Delete removes the user; lists and items cascade away with it.
	// No HTTP endpoint exposes this — it exists for referential cleanup.
	Delete(ctx context.Context, id int64) error
}

type ListRepository interface {
	// Create inserts the list and fills in its assigned ID. CreatedAt is
	// supplied by the caller.
	Create(ctx context.Context, list *model.TodoList) error

	// ListByUser returns the user's lists newest-first, each populated with
	// its items oldest-first.
	ListByUser(ctx context.Context, userID int64) ([]model.TodoList, error)

	Exists(ctx context.Context, id int64) (bool, error)
}

type ItemRepository interface {
	// Create inserts the item and fills in its assigned ID. Returns
	// apperror.ErrLimitExceeded once the list holds MaxItemsPerList items,
	// and apperror.ErrNotFound if the list does not exist.
	Create(ctx context.Context, item *model.TodoItem) error

	CountByList(ctx context.Context, listID int64) (int, error)
}

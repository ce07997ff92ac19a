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

// compile-time interface checks
var (
	_ repository.ListRepository = (*ListStore)(nil)
	_ repository.ItemRepository = (*ItemStore)(nil)
)

// ListStore persists todo lists.
type ListStore struct {
	conn *sql.DB
}

// Create inserts a new list and fills in the database-assigned ID.
// CreatedAt comes from the caller so one clock reading covers the whole
// request.
func (s *ListStore) Create(ctx context.Context, list *model.TodoList) error {
	res, err := s.conn.ExecContext(ctx,
		`INSERT INTO todo_lists (user_id, title, created_at) VALUES (?, ?, ?)`,
		list.UserID,
		list.Title,
		list.CreatedAt,
	)
	if err != nil {
		if isConstraintErr(err, sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY) {
			return apperror.NotFound("user", list.UserID)
		}
		return fmt.Errorf("sqlite: creating list: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new list id: %w", err)
	}
	list.ID = id

	return nil
}

// ListByUser returns the user's lists newest-first, each populated with its
// items oldest-first. That asymmetry is the product's presentation rule:
// recent lists float to the top, items read in the order they were added.
//
// The items come from one query per list rather than a join — the response
// shape is a list object containing an items array, and a flat join result
// would need a second grouping pass anyway. Lists are read fully before the
// item queries start so only one statement is ever in flight.
func (s *ListStore) ListByUser(ctx context.Context, userID int64) ([]model.TodoList, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, user_id, title, created_at
		 FROM todo_lists
		 WHERE user_id = ?
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing lists for user %d: %w", userID, err)
	}
	defer rows.Close()

	lists := make([]model.TodoList, 0)
	for rows.Next() {
		var l model.TodoList
		if err := rows.Scan(&l.ID, &l.UserID, &l.Title, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning list row: %w", err)
		}
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating lists: %w", err)
	}

	for i := range lists {
		items, err := s.itemsForList(ctx, lists[i].ID)
		if err != nil {
			return nil, err
		}
		lists[i].Items = items
	}

	return lists, nil
}

// itemsForList returns a list's items oldest-first. Never returns a nil
// slice — an empty list must marshal as [].
func (s *ListStore) itemsForList(ctx context.Context, listID int64) ([]model.TodoItem, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, list_id, content, created_at
		 FROM todo_items
		 WHERE list_id = ?
		 ORDER BY created_at ASC`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing items for list %d: %w", listID, err)
	}
	defer rows.Close()

	items := make([]model.TodoItem, 0)
	for rows.Next() {
		var it model.TodoItem
		if err := rows.Scan(&it.ID, &it.ListID, &it.Content, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning item row: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating items: %w", err)
	}

	return items, nil
}

// Exists reports whether a list with the given id exists.
func (s *ListStore) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := s.conn.QueryRowContext(ctx,
		`SELECT 1 FROM todo_lists WHERE id = ?`, id,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("sqlite: checking list %d: %w", id, err)
	}
	return true, nil
}

// ItemStore persists todo items.
type ItemStore struct {
	conn *sql.DB
}

// Create inserts a new item, enforcing the per-list capacity in the same
// statement.
//
// INSERT ... SELECT ... WHERE count < limit is a conditional insert: SQLite
// executes the statement atomically, so two concurrent inserts at the
// boundary cannot both observe count 99 — a separate count-then-insert
// sequence could, and the list would creep past the limit.
//
// Zero affected rows on an existing list therefore means the list is full.
// A missing list trips the foreign key instead.
func (s *ItemStore) Create(ctx context.Context, item *model.TodoItem) error {
	res, err := s.conn.ExecContext(ctx,
		`INSERT INTO todo_items (list_id, content, created_at)
		 SELECT ?, ?, ?
		 WHERE (SELECT COUNT(*) FROM todo_items WHERE list_id = ?) < ?`,
		item.ListID,
		item.Content,
		item.CreatedAt,
		item.ListID,
		repository.MaxItemsPerList,
	)
	if err != nil {
		if isConstraintErr(err, sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY) {
			return apperror.NotFound("list", item.ListID)
		}
		return fmt.Errorf("sqlite: creating item: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.LimitExceeded(
			fmt.Sprintf("Each list is limited to %d items.", repository.MaxItemsPerList))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new item id: %w", err)
	}
	item.ID = id

	return nil
}

// CountByList returns how many items a list currently holds.
func (s *ItemStore) CountByList(ctx context.Context, listID int64) (int, error) {
	var count int
	err := s.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM todo_items WHERE list_id = ?`, listID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting items for list %d: %w", listID, err)
	}
	return count, nil
}

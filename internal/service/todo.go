package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/simple-todo/internal/apperror"
	"github.com/sakif/simple-todo/internal/model"
	"github.com/sakif/simple-todo/internal/repository"
)

// TimeLayout is the creation timestamp format: UTC, fixed width, so the
// strings sort lexicographically in chronological order. The store relies on
// that for its ORDER BY clauses, which is why this is a single shared
// constant and not time.RFC3339Nano (whose trailing-zero trimming breaks
// fixed width).
const TimeLayout = "2006-01-02T15:04:05.000000Z"

// TodoService handles lists and their items.
type TodoService struct {
	users  repository.UserRepository
	lists  repository.ListRepository
	items  repository.ItemRepository
	logger *slog.Logger
}

// NewTodoService creates a TodoService.
func NewTodoService(
	users repository.UserRepository,
	lists repository.ListRepository,
	items repository.ItemRepository,
	logger *slog.Logger,
) *TodoService {
	return &TodoService{
		users:  users,
		lists:  lists,
		items:  items,
		logger: logger,
	}
}

// CreateList validates and creates a list owned by userID.
//
// The owner check is explicit rather than left to the foreign key so the
// caller gets "user not found", not a generic constraint violation. The
// foreign key still backstops the race where the user vanishes between check
// and insert.
func (s *TodoService) CreateList(ctx context.Context, userID int64, title string) (*model.TodoList, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "List title is required.")
	}

	ok, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("checking user %d: %w", userID, err)
	}
	if !ok {
		return nil, apperror.NotFound("user", userID)
	}

	list := &model.TodoList{
		UserID:    userID,
		Title:     title,
		CreatedAt: s.now(),
		Items:     []model.TodoItem{},
	}

	if err := s.lists.Create(ctx, list); err != nil {
		s.logger.Error("failed to create list",
			slog.Int64("userId", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating list: %w", err)
	}

	s.logger.Info("list created",
		slog.Int64("id", list.ID),
		slog.Int64("userId", userID),
	)

	return list, nil
}

// CreateItem validates and appends an item to a list. The store enforces the
// per-list capacity and returns ErrLimitExceeded once the list is full.
func (s *TodoService) CreateItem(ctx context.Context, listID int64, content string) (*model.TodoItem, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.ValidationFailed("content", "Item content is required.")
	}

	ok, err := s.lists.Exists(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("checking list %d: %w", listID, err)
	}
	if !ok {
		return nil, apperror.NotFound("list", listID)
	}

	item := &model.TodoItem{
		ListID:    listID,
		Content:   content,
		CreatedAt: s.now(),
	}

	if err := s.items.Create(ctx, item); err != nil {
		// ErrLimitExceeded and ErrNotFound pass through as-is; the handler
		// maps them. Anything else is a storage failure.
		return nil, err
	}

	s.logger.Info("item created",
		slog.Int64("id", item.ID),
		slog.Int64("listId", listID),
	)

	return item, nil
}

// ListsForUser returns the user's lists, newest-first, with items
// oldest-first inside each. An unknown user simply has no lists — the
// original serves [] there, and a GET should not fail louder than the thing
// it reads.
func (s *TodoService) ListsForUser(ctx context.Context, userID int64) ([]model.TodoList, error) {
	lists, err := s.lists.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list lists",
			slog.Int64("userId", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing lists: %w", err)
	}

	return lists, nil
}

// now returns the current UTC instant in TimeLayout. One call per created
// record keeps a single clock source per request.
func (s *TodoService) now() string {
	return time.Now().UTC().Format(TimeLayout)
}

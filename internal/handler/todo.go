package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/simple-todo/internal/apperror"
	"github.com/sakif/simple-todo/internal/service"
)

// TodoHandler serves list and item endpoints.
type TodoHandler struct {
	todos  *service.TodoService
	logger *slog.Logger
}

// NewTodoHandler creates a TodoHandler.
func NewTodoHandler(todos *service.TodoService, logger *slog.Logger) *TodoHandler {
	return &TodoHandler{
		todos:  todos,
		logger: logger,
	}
}

// pathID parses the named URL parameter as an integer identity key.
// A non-integer segment is a malformed request, reported as 400 rather than
// falling through to a panic or a spurious 404.
func pathID(r *http.Request, name, message string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		return 0, apperror.ValidationFailed(name, message)
	}
	return id, nil
}

// HandleListsForUser returns a user's lists with their nested items.
//
// HTTP: GET /api/users/{userID}/lists
// → 200 [{"id":..,"userId":..,"title":..,"createdAt":..,"items":[...]}, ...]
//
// Lists come newest-first, items inside each list oldest-first. A user with
// no lists (or an unknown user id) gets [].
func (h *TodoHandler) HandleListsForUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID", "Invalid user id.")
	if err != nil {
		writeError(w, err)
		return
	}

	lists, err := h.todos.ListsForUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, lists)
}

// HandleCreateList creates a list owned by the user in the path.
//
// HTTP: POST /api/users/{userID}/lists
// Body: {"title": "..."}
// → 201 list with "items": [] | 400 | 404
func (h *TodoHandler) HandleCreateList(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID", "Invalid user id.")
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		Title string `json:"title"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	list, err := h.todos.CreateList(r.Context(), userID, req.Title)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, list)
}

// HandleCreateItem appends an item to the list in the path.
//
// HTTP: POST /api/lists/{listID}/items
// Body: {"content": "..."}
// → 201 item | 400 (empty content or full list) | 404 (unknown list)
func (h *TodoHandler) HandleCreateItem(w http.ResponseWriter, r *http.Request) {
	listID, err := pathID(r, "listID", "Invalid list id.")
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	item, err := h.todos.CreateItem(r.Context(), listID, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

package server_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sakif/simple-todo/internal/model"
	"github.com/sakif/simple-todo/internal/repository"
	"github.com/sakif/simple-todo/internal/server"
)

// newTestServer wires the real stack — router, handlers, services, sqlite —
// over an in-memory database. Requests go through s.Router().ServeHTTP, so
// routing, middleware, and path-parameter extraction are all exercised.
func newTestServer(t *testing.T) *server.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	s, err := server.New(server.Config{
		Port:      0,
		StaticDir: t.TempDir(),
		DBPath:    ":memory:",
	}, logger)
	if err != nil {
		t.Fatalf("failed to create test server: %v", err)
	}
	return s
}

func request(t *testing.T, s *server.Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
	return v
}

// TestEndToEnd walks the whole happy path: register, log in, create a list,
// add an item, read everything back.
func TestEndToEnd(t *testing.T) {
	s := newTestServer(t)

	rr := request(t, s, http.MethodPost, "/api/register",
		`{"email":"a@b.com","password":"secret1"}`)
	assert.Equal(t, http.StatusCreated, rr.Code)
	registered := decodeBody[model.User](t, rr)
	assert.NotZero(t, registered.ID)
	assert.Equal(t, "a@b.com", registered.Email)

	rr = request(t, s, http.MethodPost, "/api/login",
		`{"email":"a@b.com","password":"secret1"}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	loggedIn := decodeBody[model.User](t, rr)
	assert.Equal(t, registered.ID, loggedIn.ID)

	listsPath := fmt.Sprintf("/api/users/%d/lists", registered.ID)

	rr = request(t, s, http.MethodGet, listsPath, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]\n", rr.Body.String())

	rr = request(t, s, http.MethodPost, listsPath, `{"title":"groceries"}`)
	assert.Equal(t, http.StatusCreated, rr.Code)
	list := decodeBody[model.TodoList](t, rr)
	assert.Equal(t, "groceries", list.Title)
	assert.NotNil(t, list.Items)
	assert.Empty(t, list.Items)

	rr = request(t, s, http.MethodPost, fmt.Sprintf("/api/lists/%d/items", list.ID),
		`{"content":"milk"}`)
	assert.Equal(t, http.StatusCreated, rr.Code)
	item := decodeBody[model.TodoItem](t, rr)
	assert.Equal(t, "milk", item.Content)
	assert.Equal(t, list.ID, item.ListID)

	rr = request(t, s, http.MethodGet, listsPath, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	lists := decodeBody[[]model.TodoList](t, rr)
	if assert.Len(t, lists, 1) {
		assert.Equal(t, "groceries", lists[0].Title)
		if assert.Len(t, lists[0].Items, 1) {
			assert.Equal(t, "milk", lists[0].Items[0].Content)
		}
	}
}

func TestRegisterDuplicateCasing(t *testing.T) {
	s := newTestServer(t)

	rr := request(t, s, http.MethodPost, "/api/register",
		`{"email":"A@B.com","password":"secret1"}`)
	assert.Equal(t, http.StatusCreated, rr.Code)

	rr = request(t, s, http.MethodPost, "/api/register",
		`{"email":"a@b.com","password":"secret1"}`)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

// TestOrdering creates lists and items spaced out in time and checks the
// asymmetric presentation order on the wire: lists newest-first, items
// oldest-first.
func TestOrdering(t *testing.T) {
	s := newTestServer(t)

	rr := request(t, s, http.MethodPost, "/api/register",
		`{"email":"order@b.com","password":"secret1"}`)
	assert.Equal(t, http.StatusCreated, rr.Code)
	user := decodeBody[model.User](t, rr)
	listsPath := fmt.Sprintf("/api/users/%d/lists", user.ID)

	var firstListID int64
	for i, title := range []string{"first", "second", "third"} {
		rr = request(t, s, http.MethodPost, listsPath,
			fmt.Sprintf(`{"title":%q}`, title))
		assert.Equal(t, http.StatusCreated, rr.Code)
		if i == 0 {
			firstListID = decodeBody[model.TodoList](t, rr).ID
		}
		// Timestamps carry microsecond precision; space creations out so
		// each record gets a distinct instant.
		time.Sleep(2 * time.Millisecond)
	}

	for _, content := range []string{"alpha", "beta", "gamma"} {
		rr = request(t, s, http.MethodPost,
			fmt.Sprintf("/api/lists/%d/items", firstListID),
			fmt.Sprintf(`{"content":%q}`, content))
		assert.Equal(t, http.StatusCreated, rr.Code)
		time.Sleep(2 * time.Millisecond)
	}

	rr = request(t, s, http.MethodGet, listsPath, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	lists := decodeBody[[]model.TodoList](t, rr)

	if assert.Len(t, lists, 3) {
		assert.Equal(t, "third", lists[0].Title)
		assert.Equal(t, "second", lists[1].Title)
		assert.Equal(t, "first", lists[2].Title)

		items := lists[2].Items
		if assert.Len(t, items, 3) {
			assert.Equal(t, "alpha", items[0].Content)
			assert.Equal(t, "beta", items[1].Content)
			assert.Equal(t, "gamma", items[2].Content)
		}
	}
}

// TestItemLimit drives a list to capacity over HTTP: 100 creations succeed,
// the 101st is rejected and the count stays put.
func TestItemLimit(t *testing.T) {
	s := newTestServer(t)

	rr := request(t, s, http.MethodPost, "/api/register",
		`{"email":"limit@b.com","password":"secret1"}`)
	assert.Equal(t, http.StatusCreated, rr.Code)
	user := decodeBody[model.User](t, rr)

	rr = request(t, s, http.MethodPost,
		fmt.Sprintf("/api/users/%d/lists", user.ID), `{"title":"everything"}`)
	assert.Equal(t, http.StatusCreated, rr.Code)
	list := decodeBody[model.TodoList](t, rr)

	itemsPath := fmt.Sprintf("/api/lists/%d/items", list.ID)
	for i := 0; i < repository.MaxItemsPerList; i++ {
		rr = request(t, s, http.MethodPost, itemsPath,
			fmt.Sprintf(`{"content":"item %d"}`, i))
		if rr.Code != http.StatusCreated {
			t.Fatalf("item %d: status = %d, want 201", i, rr.Code)
		}
	}

	rr = request(t, s, http.MethodPost, itemsPath, `{"content":"one too many"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	body := decodeBody[map[string]string](t, rr)
	assert.Equal(t, "Each list is limited to 100 items.", body["error"])

	rr = request(t, s, http.MethodGet, fmt.Sprintf("/api/users/%d/lists", user.ID), "")
	lists := decodeBody[[]model.TodoList](t, rr)
	if assert.Len(t, lists, 1) {
		assert.Len(t, lists[0].Items, repository.MaxItemsPerList)
	}
}

func TestRouting(t *testing.T) {
	s := newTestServer(t)

	t.Run("unknown api path", func(t *testing.T) {
		rr := request(t, s, http.MethodGet, "/api/nope", "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
		body := decodeBody[map[string]string](t, rr)
		assert.Equal(t, "Not found", body["error"])
	})

	t.Run("wrong method on known api path", func(t *testing.T) {
		rr := request(t, s, http.MethodPut, "/api/register", `{}`)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("non-integer path id", func(t *testing.T) {
		rr := request(t, s, http.MethodGet, "/api/users/abc/lists", "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("non-GET method on a static path", func(t *testing.T) {
		// The file server answers GET only; http.FileServer would happily
		// serve a POST, so other methods must fall through to a 404.
		for _, path := range []string{"/", "/index.html"} {
			rr := request(t, s, http.MethodPost, path, `{}`)
			assert.Equal(t, http.StatusNotFound, rr.Code, "POST %s", path)

			rr = request(t, s, http.MethodDelete, path, "")
			assert.Equal(t, http.StatusNotFound, rr.Code, "DELETE %s", path)
		}
	})

	t.Run("list creation for unknown user leaves no record", func(t *testing.T) {
		rr := request(t, s, http.MethodPost, "/api/users/999/lists", `{"title":"ghost"}`)
		assert.Equal(t, http.StatusNotFound, rr.Code)

		rr = request(t, s, http.MethodGet, "/api/users/999/lists", "")
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "[]\n", rr.Body.String())
	})
}

package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// TestBookRoutesStaticBeforeParam pins down the route table contract:
// the static `search` and `stock/available` segments must never be
// swallowed by the `{id}` pattern.
func TestBookRoutesStaticBeforeParam(t *testing.T) {
	var gotOneID string
	var searched, stocked bool

	api := newTestAPI(&MockBookStorage{
		GetOneFunc: func(ctx context.Context, id string) (Book, error) {
			gotOneID = id
			return Book{}, ErrBookNotFound
		},
		SearchFunc: func(ctx context.Context, text string) ([]Book, error) {
			searched = true
			return []Book{}, nil
		},
		GetInStockFunc: func(ctx context.Context) ([]Book, error) {
			stocked = true
			return []Book{}, nil
		},
	})
	router := api.SetupRoutes(Middlewares{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/books/search?q=x", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, searched, "search must hit the search handler")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/books/stock/available", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, stocked, "stock/available must hit the stock handler")

	assert.Empty(t, gotOneID, "neither static route may reach the fetch-one handler")
}

// TestImplementedRoutes walks the whole route table with a storage mock
// behind it and checks each endpoint is reachable.
func TestImplementedRoutes(t *testing.T) {
	api := newTestAPI(&MockBookStorage{
		AddFunc: func(ctx context.Context, book Book) (Book, error) { return book, nil },
		GetOneFunc: func(ctx context.Context, id string) (Book, error) {
			return Book{}, ErrBookNotFound
		},
		UpdateFunc: func(ctx context.Context, id string, book Book) (Book, error) {
			return book, ErrBookNotFound
		},
		DeleteFunc: func(ctx context.Context, id string) (Book, error) {
			return Book{}, ErrBookNotFound
		},
		GetAllFunc:     func(ctx context.Context) ([]Book, error) { return []Book{}, nil },
		SearchFunc:     func(ctx context.Context, text string) ([]Book, error) { return []Book{}, nil },
		GetByGenreFunc: func(ctx context.Context, genre string) ([]Book, error) { return []Book{}, nil },
		GetInStockFunc: func(ctx context.Context) ([]Book, error) { return []Book{}, nil },
	})
	router := api.SetupRoutes(Middlewares{})

	cases := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/api", http.StatusOK},
		{http.MethodPost, "/api/books", http.StatusBadRequest},
		{http.MethodGet, "/api/books", http.StatusOK},
		{http.MethodGet, "/api/books/search?q=x", http.StatusOK},
		{http.MethodGet, "/api/books/stock/available", http.StatusOK},
		{http.MethodGet, "/api/books/genre/Fantasy", http.StatusOK},
		{http.MethodGet, "/api/books/abc", http.StatusNotFound},
		{http.MethodPut, "/api/books/abc", http.StatusBadRequest},
		{http.MethodDelete, "/api/books/abc", http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
			assert.Equal(t, tc.status, w.Code)
		})
	}
}

// TestUnknownRouteAnswersJSON ensures the catch-all keeps the uniform
// envelope instead of the router's plain text default.
func TestUnknownRouteAnswersJSON(t *testing.T) {
	api := newTestAPI(&MockBookStorage{})
	router := api.SetupRoutes(Middlewares{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nowhere", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json; charset=UTF-8", w.Header().Get("Content-Type"))

	data, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	envelope := make(map[string]interface{})
	require.NoError(t, json.Unmarshal(data, &envelope))
	assert.Equal(t, false, envelope["success"])
	assert.Equal(t, "route does not exist", envelope["message"])
	assert.Equal(t, "GET /api/nowhere", envelope["error"])
}

// TestMethodNotAllowedRoute ensures a known path with a wrong verb is
// answered 405 with the envelope.
func TestMethodNotAllowedRoute(t *testing.T) {
	api := newTestAPI(&MockBookStorage{})
	router := api.SetupRoutes(Middlewares{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/api/books", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	envelope := make(map[string]interface{})
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, false, envelope["success"])
}

// TestPreflightRequest goes through the full middleware stack and
// expects cors to short-circuit OPTIONS with 200.
func TestPreflightRequest(t *testing.T) {
	clock := NewMockClocker()
	bs := NewBookService(zap.NewNop(), &Config{}, clock, &MockBookStorage{})
	api := NewAPIHandler(zap.NewNop(), &Config{}, &Statistics{started: clock.Now()}, clock, NewMockUIDHandler("abc"), bs)
	handler := api.Handler()

	req := httptest.NewRequest(http.MethodOptions, "/api/books", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}

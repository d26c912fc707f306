package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hbar1st/wheres-waldo-api/internal/database"
	"github.com/hbar1st/wheres-waldo-api/internal/migrations"
)

type testEnv struct {
	t      *testing.T
	router *chi.Mux
	store  *SQLiteStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migrations.Run(db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := NewSQLiteStore(db)
	if err := SeedScenes(ctx, logger, store); err != nil {
		t.Fatalf("seed scenes: %v", err)
	}

	r := chi.NewRouter()
	addRoutes(r, logger, store, nil, "test-secret")

	return &testEnv{t: t, router: r, store: store}
}

// agent mimics a browser session: it carries the session cookie across
// requests, like supertest's request.agent.
type agent struct {
	t       *testing.T
	router  http.Handler
	cookies []*http.Cookie
	authz   string
}

func (e *testEnv) agent() *agent {
	return &agent{t: e.t, router: e.router}
}

func (a *agent) do(method, target string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			a.t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Accept", "application/json")
	for _, c := range a.cookies {
		req.AddCookie(c)
	}
	if a.authz != "" {
		req.Header.Set("Authorization", a.authz)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	if cs := w.Result().Cookies(); len(cs) > 0 {
		a.cookies = cs
	}
	return w
}

func (a *agent) get(target string) *httptest.ResponseRecorder {
	return a.do(http.MethodGet, target, nil)
}

func (a *agent) put(target string, body any) *httptest.ResponseRecorder {
	return a.do(http.MethodPut, target, body)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return v
}

// insertCompletedGame seeds a finished run directly, bypassing the HTTP
// surface, for leaderboard tests.
func (e *testEnv) insertCompletedGame(sceneID int64, username string, start, end int64) int64 {
	e.t.Helper()
	ctx := context.Background()

	sessionID := uuid.NewString()
	if err := e.store.CreateSession(ctx, sessionID, start); err != nil {
		e.t.Fatalf("create session: %v", err)
	}

	var id int64
	err := e.store.db.QueryRowContext(ctx, `
		INSERT INTO games (session_id, scene_id, username, start_time, end_time)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`, sessionID, sceneID, username, start, end).Scan(&id)
	if err != nil {
		e.t.Fatalf("insert completed game: %v", err)
	}
	return id
}

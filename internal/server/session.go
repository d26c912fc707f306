package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type ctxKey int

const (
	ctxKeySession ctxKey = iota
	ctxKeyUserID
)

const sessionCookieName = "waldo_session"

// sessionMiddleware guarantees every request under /scene carries a valid
// session: an unknown or absent cookie is replaced by a freshly minted
// token, persisted, and set on the response. The session id is threaded
// through the request context, never read from globals.
func sessionMiddleware(logger *slog.Logger, store Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
				ok, err := store.SessionExists(r.Context(), cookie.Value)
				if err != nil {
					logger.Error("session lookup failed", "error", err)
					writeError(w, http.StatusInternalServerError, "internal error")
					return
				}
				if ok {
					id = cookie.Value
				}
			}

			if id == "" {
				id = uuid.NewString()
				if err := store.CreateSession(r.Context(), id, time.Now().UnixMilli()); err != nil {
					logger.Error("session create failed", "error", err)
					writeError(w, http.StatusInternalServerError, "internal error")
					return
				}
			}

			// Refresh the cookie on every response so active players
			// keep their session alive.
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   int(30 * 24 * time.Hour / time.Second),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})

			ctx := context.WithValue(r.Context(), ctxKeySession, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionFrom(r *http.Request) string {
	return r.Context().Value(ctxKeySession).(string)
}

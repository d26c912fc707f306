package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, store Store, rdb *redis.Client, jwtSecret string) {
	cache := NewLeaderboardCache(rdb)
	tokens := newTokenIssuer(jwtSecret)

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Where's Waldo API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, store, rdb))
	r.Get("/", handleRoot())

	// Game routes — every request is bound to an anonymous cookie session.
	r.Route("/scene", func(r chi.Router) {
		r.Use(sessionMiddleware(logger, store))
		r.Get("/", handleListScenes(logger, store))
		r.Get("/{id}", handleGetScene(logger, store))
		r.Get("/{id}/characters", handleListCharacters(logger, store))
		r.Get("/{id}/game", handleGetGame(logger, store))
		r.Put("/{id}/game", handleClaimUsername(logger, store, cache))
		r.Put("/{id}/game/answer", handleSubmitAnswer(logger, store, cache))
		r.Get("/{id}/game/answer", handleListAnswers(logger, store))
		r.Get("/{id}/topten", handleTopTen(logger, store, cache))
		r.Get("/{id}/resumeGame", handleResumeGame(logger, store))
	})

	// User accounts — bearer-token auth, independent of the game session.
	r.Route("/user", func(r chi.Router) {
		r.Post("/signup", handleSignup(logger, store))
		r.Post("/login", handleLogin(logger, store, tokens))

		r.Group(func(r chi.Router) {
			r.Use(userAuthMiddleware(tokens))
			r.Get("/", handleGetUser(logger, store))
			r.Put("/", handleUpdateUser(logger, store))
			r.Delete("/", handleDeleteUser(logger, store))
		})
	})

	r.NotFound(handleNotFound())
}

func handleRoot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "The Where's Waldo API supports hbar1st's TOP Where's Waldo project.",
		})
	}
}

package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hbar1st/wheres-waldo-api/internal/waldo"
)

// GameScene is the scene as seen from inside a game: characters holds only
// the names not yet found, so a completed game shows an empty list.
type GameScene struct {
	ID         int64    `json:"id"`
	Level      int      `json:"level"`
	URL        string   `json:"url"`
	Characters []string `json:"characters"`
}

// GameView is the client-facing game state. Times are epoch milliseconds;
// EndTime is null while the game is in progress.
type GameView struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	StartTime int64     `json:"start_time"`
	EndTime   *int64    `json:"end_time"`
	SceneID   int64     `json:"scene_id"`
	Scene     GameScene `json:"scene"`
}

// GameResponse wraps a game view for GET and PUT /scene/{id}/game.
type GameResponse struct {
	Message string   `json:"message"`
	Game    GameView `json:"game"`
}

// ClaimRequest is the body for PUT /scene/{id}/game.
type ClaimRequest struct {
	Username string `json:"username"`
}

func handleGetGame(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scene, details, err := sceneFromRequest(r, store)
		if err != nil {
			logger.Error("scene lookup failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if details != nil {
			writeValidation(w, details)
			return
		}

		game, err := store.GetOrCreateGame(r.Context(), sessionFrom(r), scene.ID, time.Now().UnixMilli())
		if err != nil {
			logger.Error("get-or-create game failed", "scene_id", scene.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		view, err := gameView(r.Context(), store, game, scene)
		if err != nil {
			logger.Error("building game view failed", "game_id", game.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, GameResponse{Message: "success", Game: view})
	}
}

func handleClaimUsername(logger *slog.Logger, store Store, cache *LeaderboardCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scene, details, err := sceneFromRequest(r, store)
		if err != nil {
			logger.Error("scene lookup failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if details != nil {
			writeValidation(w, details)
			return
		}

		var req ClaimRequest
		// An unparsable or empty body falls through to the blank-username
		// validation below.
		_ = readJSON(r, &req)
		if details := validateUsername(req.Username); details != nil {
			writeValidation(w, details)
			return
		}

		game, err := store.GetGame(r.Context(), sessionFrom(r), scene.ID)
		if errors.Is(err, ErrNotFound) {
			writeMessage(w, http.StatusBadRequest, "This game is not in the top ten")
			return
		}
		if err != nil {
			logger.Error("game lookup failed", "scene_id", scene.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		// Qualification is re-checked now, not trusted from completion
		// time: a run that was top ten then may have been pushed out since.
		ok, err := store.Qualifies(r.Context(), game)
		if err != nil {
			logger.Error("qualification check failed", "game_id", game.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if !ok {
			writeMessage(w, http.StatusBadRequest, "This game is not in the top ten")
			return
		}

		username := strings.TrimSpace(req.Username)
		if err := store.SetUsername(r.Context(), game.ID, username); err != nil {
			logger.Error("username claim failed", "game_id", game.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		game.Username = username
		cache.Invalidate(r.Context(), scene.ID)

		view, err := gameView(r.Context(), store, game, scene)
		if err != nil {
			logger.Error("building game view failed", "game_id", game.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, GameResponse{Message: "Success", Game: view})
	}
}

func handleResumeGame(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scene, details, err := sceneFromRequest(r, store)
		if err != nil {
			logger.Error("scene lookup failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if details != nil {
			writeValidation(w, details)
			return
		}

		_, err = store.GetGame(r.Context(), sessionFrom(r), scene.ID)
		switch {
		case err == nil:
			writeMessage(w, http.StatusOK, "true")
		case errors.Is(err, ErrNotFound):
			writeMessage(w, http.StatusOK, "false")
		default:
			logger.Error("game lookup failed", "scene_id", scene.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
	}
}

// gameView assembles the client-facing state: the scene projection keeps
// only the characters the player has not found yet.
func gameView(ctx context.Context, store Store, game waldo.Game, scene waldo.Scene) (GameView, error) {
	chars, err := store.ListCharacters(ctx, scene.ID)
	if err != nil {
		return GameView{}, err
	}
	answers, err := store.ListAnswers(ctx, game.ID)
	if err != nil {
		return GameView{}, err
	}

	found := make(map[string]bool, len(answers))
	for _, a := range answers {
		found[a.CharacterName] = true
	}
	remaining := make([]string, 0, len(chars))
	for _, c := range chars {
		if !found[c.Name] {
			remaining = append(remaining, c.Name)
		}
	}

	return GameView{
		ID:        game.ID,
		Username:  game.Username,
		StartTime: game.StartTime,
		EndTime:   game.EndTime,
		SceneID:   scene.ID,
		Scene: GameScene{
			ID:         scene.ID,
			Level:      scene.Level,
			URL:        scene.URL,
			Characters: remaining,
		},
	}, nil
}

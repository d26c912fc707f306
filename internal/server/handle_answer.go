package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// AnswerResponse echoes the submitted guess back with the verdict. The
// coordinates are returned as the raw query strings, exactly as sent.
// ElapsedTime and InTopTen appear only on the submission that completes
// the game.
type AnswerResponse struct {
	Message     string `json:"message"`
	X           string `json:"x"`
	Y           string `json:"y"`
	Character   string `json:"character"`
	ElapsedTime *int64 `json:"elapsed_time,omitempty"`
	InTopTen    *bool  `json:"inTopTen,omitempty"`
}

// GameAnswerItem is one found character with its last accepted coordinates.
type GameAnswerItem struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Name string  `json:"name"`
}

// GameAnswersResponse is the response for GET /scene/{id}/game/answer.
type GameAnswersResponse struct {
	Message     string           `json:"message"`
	GameAnswers []GameAnswerItem `json:"gameAnswers"`
}

func handleSubmitAnswer(logger *slog.Logger, store Store, cache *LeaderboardCache) http.HandlerFunc {
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

		in, details, err := validateAnswer(r.Context(), r, store, scene)
		if err != nil {
			logger.Error("answer validation failed", "scene_id", scene.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if details != nil {
			writeValidation(w, details)
			return
		}

		game, err := store.GetGame(r.Context(), sessionFrom(r), scene.ID)
		if errors.Is(err, ErrNotFound) {
			writeMessage(w, http.StatusBadRequest, "No game exists for this scene yet")
			return
		}
		if err != nil {
			logger.Error("game lookup failed", "scene_id", scene.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		resp := AnswerResponse{
			X:         in.RawX,
			Y:         in.RawY,
			Character: in.Character.Name,
		}

		if !in.Character.Hit(in.X, in.Y) {
			resp.Message = "Wrong answer"
			writeJSON(w, http.StatusOK, resp)
			return
		}

		result, err := store.RecordHit(r.Context(), game, in.Character, in.X, in.Y, time.Now().UnixMilli())
		if err != nil {
			logger.Error("recording answer failed", "game_id", game.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		resp.Message = "Correct answer"
		if result.Completed {
			resp.ElapsedTime = &result.Elapsed
			resp.InTopTen = &result.InTopTen
			cache.Invalidate(r.Context(), scene.ID)
			logger.Info("game completed",
				"game_id", game.ID,
				"scene_id", scene.ID,
				"elapsed_ms", result.Elapsed,
				"in_top_ten", result.InTopTen,
			)
		}
		writeJSON(w, http.StatusCreated, resp)
	}
}

func handleListAnswers(logger *slog.Logger, store Store) http.HandlerFunc {
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

		resp := GameAnswersResponse{Message: "success", GameAnswers: []GameAnswerItem{}}

		game, err := store.GetGame(r.Context(), sessionFrom(r), scene.ID)
		if errors.Is(err, ErrNotFound) {
			// No game yet means nothing found yet, not an error.
			writeJSON(w, http.StatusOK, resp)
			return
		}
		if err != nil {
			logger.Error("game lookup failed", "scene_id", scene.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		answers, err := store.ListAnswers(r.Context(), game.ID)
		if err != nil {
			logger.Error("listing answers failed", "game_id", game.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		for _, a := range answers {
			resp.GameAnswers = append(resp.GameAnswers, GameAnswerItem{X: a.X, Y: a.Y, Name: a.CharacterName})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

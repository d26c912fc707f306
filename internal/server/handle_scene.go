package server

import (
	"log/slog"
	"net/http"

	"github.com/hbar1st/wheres-waldo-api/internal/waldo"
)

// SceneItem is one entry in the scene catalog listing. Characters are
// deliberately absent: their names are privileged until revealed in a game.
type SceneItem struct {
	ID    int64  `json:"id"`
	Level int    `json:"level"`
	URL   string `json:"url"`
}

// SceneListResponse is the response for GET /scene.
type SceneListResponse struct {
	Scenes []SceneItem `json:"scenes"`
}

// SceneResponse is the response for GET /scene/{id}.
type SceneResponse struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
}

// CharacterItem is the display metadata for one scene character.
type CharacterItem struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// CharacterListResponse is the response for GET /scene/{id}/characters.
type CharacterListResponse struct {
	Message    string          `json:"message"`
	Characters []CharacterItem `json:"characters"`
}

func handleListScenes(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scenes, err := store.ListScenes(r.Context())
		if err != nil {
			logger.Error("listing scenes failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		resp := SceneListResponse{Scenes: make([]SceneItem, 0, len(scenes))}
		for _, sc := range scenes {
			resp.Scenes = append(resp.Scenes, sceneItem(sc))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleGetScene(logger *slog.Logger, store Store) http.HandlerFunc {
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

		writeJSON(w, http.StatusOK, SceneResponse{ID: scene.ID, URL: scene.URL})
	}
}

func handleListCharacters(logger *slog.Logger, store Store) http.HandlerFunc {
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

		chars, err := store.ListCharacters(r.Context(), scene.ID)
		if err != nil {
			logger.Error("listing characters failed", "scene_id", scene.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		resp := CharacterListResponse{
			Message:    "success",
			Characters: make([]CharacterItem, 0, len(chars)),
		}
		for _, c := range chars {
			resp.Characters = append(resp.Characters, CharacterItem{Name: c.Name, URL: c.URL})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func sceneItem(sc waldo.Scene) SceneItem {
	return SceneItem{ID: sc.ID, Level: sc.Level, URL: sc.URL}
}

package server

import (
	"log/slog"
	"net/http"

	"github.com/hbar1st/wheres-waldo-api/internal/waldo"
)

// TopTenEntry is one ranked completed game.
type TopTenEntry struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	ElapsedTime int64  `json:"elapsed_time"`
}

// TopTenResponse lists the fastest completed games ascending. The
// top-level ID and ElapsedTime echo the best entry and are omitted when
// the board is empty.
type TopTenResponse struct {
	TopTen      []TopTenEntry `json:"topTen"`
	ID          *int64        `json:"id,omitempty"`
	ElapsedTime *int64        `json:"elapsed_time,omitempty"`
}

func handleTopTen(logger *slog.Logger, store Store, cache *LeaderboardCache) http.HandlerFunc {
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

		if resp, ok := cache.Get(r.Context(), scene.ID); ok {
			writeJSON(w, http.StatusOK, resp)
			return
		}

		entries, err := store.TopTen(r.Context(), scene.ID)
		if err != nil {
			logger.Error("leaderboard query failed", "scene_id", scene.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		resp := topTenResponse(entries)
		cache.Set(r.Context(), scene.ID, resp)
		writeJSON(w, http.StatusOK, resp)
	}
}

func topTenResponse(entries []waldo.LeaderboardEntry) TopTenResponse {
	resp := TopTenResponse{TopTen: make([]TopTenEntry, 0, len(entries))}
	for _, e := range entries {
		resp.TopTen = append(resp.TopTen, TopTenEntry{
			ID:          e.GameID,
			Username:    e.Username,
			ElapsedTime: e.ElapsedTime,
		})
	}
	if len(resp.TopTen) > 0 {
		best := resp.TopTen[0]
		resp.ID = &best.ID
		resp.ElapsedTime = &best.ElapsedTime
	}
	return resp
}

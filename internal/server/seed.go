package server

import (
	"context"
	"fmt"
	"log/slog"
)

type seedCharacter struct {
	name      string
	url       string
	x, y      float64
	tolerance float64
}

type seedScene struct {
	id         int64
	level      int
	url        string
	characters []seedCharacter
}

// The acceptance radius is in normalized percent units around the true
// location.
const defaultTolerance = 1.5

const mediaBase = "https://res.cloudinary.com/hbrwdfccc/image/upload"

var seedScenes = []seedScene{
	{
		id:    1,
		level: 2,
		url:   mediaBase + "/v1763249346/Where%27s%20Waldo/Wheres-Waldo-Space-Station-Super-High-Resolution-scaled.jpg",
		characters: []seedCharacter{
			{name: "Odlaw", url: mediaBase + "/v1763875339/Where%27s%20Waldo/odlaw.png", x: 6.87, y: 68.55, tolerance: defaultTolerance},
			{name: "Waldo", url: mediaBase + "/v1764635698/Where%27s%20Waldo/wally_e_background_removal_f_png.png", x: 40.45, y: 62.17, tolerance: defaultTolerance},
			{name: "Wizard Whitebeard", url: mediaBase + "/v1764420240/Where%27s%20Waldo/wizard.png", x: 77.86, y: 57.39, tolerance: defaultTolerance},
		},
	},
	{
		id:    2,
		level: 1,
		url:   mediaBase + "/v1765246758/Where%27s%20Waldo/candy-scene-wally-odlaw.jpg",
		characters: []seedCharacter{
			{name: "Odlaw", url: mediaBase + "/v1763875339/Where%27s%20Waldo/odlaw.png", x: 22, y: 67, tolerance: defaultTolerance},
			{name: "Waldo", url: mediaBase + "/v1764635698/Where%27s%20Waldo/wally_e_background_removal_f_png.png", x: 49, y: 19, tolerance: defaultTolerance},
		},
	},
}

// SeedScenes loads the scene catalog if the scenes table is empty.
// Idempotent: does nothing once scenes exist.
func SeedScenes(ctx context.Context, logger *slog.Logger, store *SQLiteStore) error {
	existing, err := store.ListScenes(ctx)
	if err != nil {
		return fmt.Errorf("listing scenes: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	for _, sc := range seedScenes {
		if _, err := store.db.ExecContext(ctx, `
			INSERT INTO scenes (id, level, url) VALUES (?, ?, ?)
		`, sc.id, sc.level, sc.url); err != nil {
			return fmt.Errorf("inserting scene %d: %w", sc.id, err)
		}
		for _, c := range sc.characters {
			if _, err := store.db.ExecContext(ctx, `
				INSERT INTO characters (scene_id, name, url, x, y, tolerance)
				VALUES (?, ?, ?, ?, ?, ?)
			`, sc.id, c.name, c.url, c.x, c.y, c.tolerance); err != nil {
				return fmt.Errorf("inserting character %q: %w", c.name, err)
			}
		}
	}

	logger.Info("scene catalog seeded", "scenes", len(seedScenes))
	return nil
}

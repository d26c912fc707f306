// Package waldo defines the core domain types of the Where's Waldo API.
// It has zero external dependencies — everything here is pure Go.
package waldo

import "math"

// Scene is a playable image with a fixed set of hidden characters.
// Scenes are seeded once at startup and never mutated.
type Scene struct {
	ID    int64
	Level int
	URL   string
}

// Character is a hidden target within a scene. X and Y are normalized
// percentages of the image dimensions, in [0,100]. Tolerance is the
// acceptance radius around (X, Y); any click within that distance counts
// as finding the character.
type Character struct {
	ID        int64
	SceneID   int64
	Name      string
	URL       string
	X         float64
	Y         float64
	Tolerance float64
}

// Hit reports whether the click at (x, y) lands inside the character's
// acceptance radius.
func (c Character) Hit(x, y float64) bool {
	return math.Hypot(x-c.X, y-c.Y) <= c.Tolerance
}

// Game is one play-through of one scene by one session. StartTime and
// EndTime are epoch milliseconds; EndTime is nil until every character in
// the scene has been found, and once set it never changes.
type Game struct {
	ID        int64
	SessionID string
	SceneID   int64
	Username  string
	StartTime int64
	EndTime   *int64
}

// Completed reports whether the game has been finalized.
func (g Game) Completed() bool { return g.EndTime != nil }

// ElapsedTime returns EndTime - StartTime in milliseconds, or 0 for a game
// still in progress.
func (g Game) ElapsedTime() int64 {
	if g.EndTime == nil {
		return 0
	}
	return *g.EndTime - g.StartTime
}

// Answer is an accepted guess: the last coordinates at which a character
// was found in a game. Re-finding a character overwrites its coordinates.
type Answer struct {
	GameID        int64
	CharacterName string
	X             float64
	Y             float64
	FoundAt       int64
}

// LeaderboardEntry is a completed game ranked by elapsed time.
type LeaderboardEntry struct {
	GameID      int64
	Username    string
	ElapsedTime int64
}

// TopTenSize caps the per-scene leaderboard.
const TopTenSize = 10

// AnonymousUser is the username assigned to every game until a qualifying
// claim replaces it.
const AnonymousUser = "anonymous"

// User is a registered account. Avatar binaries live on the media host;
// AvatarID is the host-side identifier only.
type User struct {
	ID       int64
	Username string
	Email    string
	Nickname string
	AvatarID string
}

package server

import (
	"context"
	"errors"

	"github.com/hbar1st/wheres-waldo-api/internal/waldo"
)

var ErrNotFound = errors.New("not found")

// HitResult describes the outcome of recording a correct answer.
// Completed is true only for the submission that finalized the game;
// Elapsed and InTopTen are meaningful only when Completed is set.
type HitResult struct {
	Completed bool
	Elapsed   int64
	InTopTen  bool
}

// UserRecord carries a user row together with its password hash. The hash
// never leaves the server package.
type UserRecord struct {
	waldo.User
	PasswordHash string
}

type Store interface {
	Ping(ctx context.Context) error

	ListScenes(ctx context.Context) ([]waldo.Scene, error)
	GetScene(ctx context.Context, id int64) (waldo.Scene, error)
	ListCharacters(ctx context.Context, sceneID int64) ([]waldo.Character, error)

	CreateSession(ctx context.Context, id string, now int64) error
	SessionExists(ctx context.Context, id string) (bool, error)

	// GetGame returns the game for (session, scene) or ErrNotFound.
	GetGame(ctx context.Context, sessionID string, sceneID int64) (waldo.Game, error)
	GetOrCreateGame(ctx context.Context, sessionID string, sceneID int64, now int64) (waldo.Game, error)
	ListAnswers(ctx context.Context, gameID int64) ([]waldo.Answer, error)

	// RecordHit upserts the accepted answer and, when it completes the
	// character set of a game whose end_time is still unset, finalizes the
	// game and evaluates top-ten qualification. Everything runs in a single
	// transaction so two racing submissions cannot both finalize.
	RecordHit(ctx context.Context, game waldo.Game, ch waldo.Character, x, y float64, now int64) (HitResult, error)

	TopTen(ctx context.Context, sceneID int64) ([]waldo.LeaderboardEntry, error)
	// Qualifies reports whether the completed game currently places within
	// the top ten for its scene. Ties are broken by earlier completion.
	Qualifies(ctx context.Context, game waldo.Game) (bool, error)
	SetUsername(ctx context.Context, gameID int64, username string) error

	CreateUser(ctx context.Context, username, email, nickname, passwordHash string, now int64) (waldo.User, error)
	GetUserByUsername(ctx context.Context, username string) (UserRecord, error)
	GetUserByID(ctx context.Context, id int64) (waldo.User, error)
	UpdateUser(ctx context.Context, id int64, email, nickname, avatarID *string) (waldo.User, error)
	DeleteUser(ctx context.Context, id int64) error

	// ClearGameData wipes games, answers, and sessions. Administrative
	// reset used between test runs; scenes and users survive.
	ClearGameData(ctx context.Context) error
}

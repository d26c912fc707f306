package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/hbar1st/wheres-waldo-api/internal/waldo"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) ListScenes(ctx context.Context) ([]waldo.Scene, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, level, url FROM scenes ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scenes []waldo.Scene
	for rows.Next() {
		var sc waldo.Scene
		if err := rows.Scan(&sc.ID, &sc.Level, &sc.URL); err != nil {
			return nil, err
		}
		scenes = append(scenes, sc)
	}
	return scenes, rows.Err()
}

func (s *SQLiteStore) GetScene(ctx context.Context, id int64) (waldo.Scene, error) {
	var sc waldo.Scene
	err := s.db.QueryRowContext(ctx, `
		SELECT id, level, url FROM scenes WHERE id = ?
	`, id).Scan(&sc.ID, &sc.Level, &sc.URL)
	if errors.Is(err, sql.ErrNoRows) {
		return sc, ErrNotFound
	}
	return sc, err
}

func (s *SQLiteStore) ListCharacters(ctx context.Context, sceneID int64) ([]waldo.Character, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, scene_id, name, url, x, y, tolerance
		FROM characters
		WHERE scene_id = ?
		ORDER BY name
	`, sceneID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chars []waldo.Character
	for rows.Next() {
		var c waldo.Character
		if err := rows.Scan(&c.ID, &c.SceneID, &c.Name, &c.URL, &c.X, &c.Y, &c.Tolerance); err != nil {
			return nil, err
		}
		chars = append(chars, c)
	}
	return chars, rows.Err()
}

func (s *SQLiteStore) CreateSession(ctx context.Context, id string, now int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, created_at) VALUES (?, ?)
		ON CONFLICT(id) DO NOTHING
	`, id, now)
	return err
}

func (s *SQLiteStore) SessionExists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `
		SELECT 1 FROM sessions WHERE id = ?
	`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (s *SQLiteStore) GetGame(ctx context.Context, sessionID string, sceneID int64) (waldo.Game, error) {
	return scanGame(s.db.QueryRowContext(ctx, `
		SELECT id, session_id, scene_id, username, start_time, end_time
		FROM games
		WHERE session_id = ? AND scene_id = ?
	`, sessionID, sceneID))
}

func (s *SQLiteStore) GetOrCreateGame(ctx context.Context, sessionID string, sceneID int64, now int64) (waldo.Game, error) {
	// DO NOTHING keeps the existing game when two requests race on the
	// (session_id, scene_id) unique constraint.
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO games (session_id, scene_id, username, start_time)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id, scene_id) DO NOTHING
	`, sessionID, sceneID, waldo.AnonymousUser, now)
	if err != nil {
		return waldo.Game{}, err
	}
	return s.GetGame(ctx, sessionID, sceneID)
}

func (s *SQLiteStore) ListAnswers(ctx context.Context, gameID int64) ([]waldo.Answer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.game_id, c.name, a.x, a.y, a.found_at
		FROM game_answers a
		JOIN characters c ON c.id = a.character_id
		WHERE a.game_id = ?
		ORDER BY a.found_at, c.name
	`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []waldo.Answer
	for rows.Next() {
		var a waldo.Answer
		if err := rows.Scan(&a.GameID, &a.CharacterName, &a.X, &a.Y, &a.FoundAt); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

func (s *SQLiteStore) RecordHit(ctx context.Context, game waldo.Game, ch waldo.Character, x, y float64, now int64) (HitResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return HitResult{}, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO game_answers (game_id, character_id, x, y, found_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(game_id, character_id)
		DO UPDATE SET x = excluded.x, y = excluded.y, found_at = excluded.found_at
	`, game.ID, ch.ID, x, y, now)
	if err != nil {
		return HitResult{}, err
	}

	var found, total int
	err = tx.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM game_answers WHERE game_id = ?),
			(SELECT COUNT(*) FROM characters WHERE scene_id = ?)
	`, game.ID, game.SceneID).Scan(&found, &total)
	if err != nil {
		return HitResult{}, err
	}

	if found < total {
		return HitResult{}, tx.Commit()
	}

	// The end_time IS NULL guard makes finalization first-writer-wins: a
	// resubmission on a completed game falls through without touching the
	// recorded time.
	res, err := tx.ExecContext(ctx, `
		UPDATE games SET end_time = ? WHERE id = ? AND end_time IS NULL
	`, now, game.ID)
	if err != nil {
		return HitResult{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return HitResult{}, err
	}
	if n == 0 {
		return HitResult{}, tx.Commit()
	}

	elapsed := now - game.StartTime
	better, err := countBetter(ctx, tx, game.SceneID, game.ID, elapsed, now)
	if err != nil {
		return HitResult{}, err
	}
	if err := tx.Commit(); err != nil {
		return HitResult{}, err
	}

	return HitResult{
		Completed: true,
		Elapsed:   elapsed,
		InTopTen:  better < waldo.TopTenSize,
	}, nil
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// countBetter counts completed games for the scene that outrank the given
// game: strictly faster, or equally fast but finished earlier.
func countBetter(ctx context.Context, q querier, sceneID, gameID, elapsed, endTime int64) (int, error) {
	var n int
	err := q.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM games
		WHERE scene_id = ? AND id <> ? AND end_time IS NOT NULL
		  AND (end_time - start_time < ?
		       OR (end_time - start_time = ? AND end_time < ?))
	`, sceneID, gameID, elapsed, elapsed, endTime).Scan(&n)
	return n, err
}

func (s *SQLiteStore) TopTen(ctx context.Context, sceneID int64) ([]waldo.LeaderboardEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, end_time - start_time AS elapsed
		FROM games
		WHERE scene_id = ? AND end_time IS NOT NULL
		ORDER BY elapsed, end_time, id
		LIMIT ?
	`, sceneID, waldo.TopTenSize)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []waldo.LeaderboardEntry
	for rows.Next() {
		var e waldo.LeaderboardEntry
		if err := rows.Scan(&e.GameID, &e.Username, &e.ElapsedTime); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) Qualifies(ctx context.Context, game waldo.Game) (bool, error) {
	if !game.Completed() {
		return false, nil
	}
	better, err := countBetter(ctx, s.db, game.SceneID, game.ID, game.ElapsedTime(), *game.EndTime)
	if err != nil {
		return false, err
	}
	return better < waldo.TopTenSize, nil
}

func (s *SQLiteStore) SetUsername(ctx context.Context, gameID int64, username string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE games SET username = ? WHERE id = ?
	`, username, gameID)
	return err
}

func (s *SQLiteStore) CreateUser(ctx context.Context, username, email, nickname, passwordHash string, now int64) (waldo.User, error) {
	var u waldo.User
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, email, nickname, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, username, email, nickname, avatar_id
	`, username, email, nickname, passwordHash, now).Scan(&u.ID, &u.Username, &u.Email, &u.Nickname, &u.AvatarID)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return u, ErrDuplicateUser
	}
	return u, err
}

var ErrDuplicateUser = errors.New("username or email already taken")

func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (UserRecord, error) {
	var u UserRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, email, nickname, avatar_id, password_hash
		FROM users WHERE username = ?
	`, username).Scan(&u.ID, &u.Username, &u.Email, &u.Nickname, &u.AvatarID, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrNotFound
	}
	return u, err
}

func (s *SQLiteStore) GetUserByID(ctx context.Context, id int64) (waldo.User, error) {
	var u waldo.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, email, nickname, avatar_id
		FROM users WHERE id = ?
	`, id).Scan(&u.ID, &u.Username, &u.Email, &u.Nickname, &u.AvatarID)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrNotFound
	}
	return u, err
}

func (s *SQLiteStore) UpdateUser(ctx context.Context, id int64, email, nickname, avatarID *string) (waldo.User, error) {
	var sets []string
	var args []any
	if email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *email)
	}
	if nickname != nil {
		sets = append(sets, "nickname = ?")
		args = append(args, *nickname)
	}
	if avatarID != nil {
		sets = append(sets, "avatar_id = ?")
		args = append(args, *avatarID)
	}
	if len(sets) > 0 {
		args = append(args, id)
		query := fmt.Sprintf("UPDATE users SET %s WHERE id = ?", strings.Join(sets, ", "))
		if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
			if strings.Contains(err.Error(), "UNIQUE constraint failed") {
				return waldo.User{}, ErrDuplicateUser
			}
			return waldo.User{}, err
		}
	}
	return s.GetUserByID(ctx, id)
}

func (s *SQLiteStore) DeleteUser(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) ClearGameData(ctx context.Context) error {
	for _, q := range []string{
		`DELETE FROM game_answers`,
		`DELETE FROM games`,
		`DELETE FROM sessions`,
	} {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func scanGame(row *sql.Row) (waldo.Game, error) {
	var g waldo.Game
	var endTime sql.NullInt64
	err := row.Scan(&g.ID, &g.SessionID, &g.SceneID, &g.Username, &g.StartTime, &endTime)
	if errors.Is(err, sql.ErrNoRows) {
		return g, ErrNotFound
	}
	if endTime.Valid {
		g.EndTime = &endTime.Int64
	}
	return g, err
}

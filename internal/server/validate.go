package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hbar1st/wheres-waldo-api/internal/waldo"
)

// FieldError is a single field-level validation failure in the shape the
// clients expect: one object per violated rule, so a missing value can
// produce both a "required" and a "range" entry for the same path.
type FieldError struct {
	Type     string `json:"type"`
	Value    any    `json:"value"`
	Msg      string `json:"msg"`
	Path     string `json:"path"`
	Location string `json:"location"`
}

func fieldError(value any, msg, path, location string) FieldError {
	return FieldError{Type: "field", Value: value, Msg: msg, Path: path, Location: location}
}

// sceneFromRequest resolves the {id} route param against the scene catalog.
// A malformed id and an unknown id produce distinct validation details; the
// detail value is the raw string for the former and the parsed integer for
// the latter, mirroring what the caller sent.
func sceneFromRequest(r *http.Request, store Store) (waldo.Scene, []FieldError, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return waldo.Scene{}, []FieldError{
			fieldError(raw, "The scene id should be an int", "id", "params"),
		}, nil
	}

	scene, err := store.GetScene(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		return waldo.Scene{}, []FieldError{
			fieldError(id, "This scene id is invalid.", "id", "params"),
		}, nil
	}
	if err != nil {
		return waldo.Scene{}, nil, err
	}
	return scene, nil, nil
}

// answerInput is the validated coordinate guess from the query string. The
// raw strings are kept so responses can echo exactly what was submitted.
type answerInput struct {
	X, Y      float64
	RawX, RawY string
	Character waldo.Character
}

// validateAnswer checks the x, y, and character query params against the
// scene's character set, collecting every violation instead of stopping at
// the first.
func validateAnswer(ctx context.Context, r *http.Request, store Store, scene waldo.Scene) (answerInput, []FieldError, error) {
	q := r.URL.Query()
	var details []FieldError
	var in answerInput

	chars, err := store.ListCharacters(ctx, scene.ID)
	if err != nil {
		return in, nil, err
	}

	name := q.Get("character")
	if name == "" {
		details = append(details, fieldError("", "A character is required to complete the request", "character", "query"))
	} else {
		found := false
		for _, c := range chars {
			if c.Name == name {
				in.Character = c
				found = true
				break
			}
		}
		if !found {
			names := make([]string, len(chars))
			for i, c := range chars {
				names[i] = c.Name
			}
			msg := fmt.Sprintf("The character name %s is invalid. Must be one of [%s]", name, strings.Join(names, ","))
			details = append(details, fieldError(name, msg, "character", "query"))
		}
	}

	in.RawX = q.Get("x")
	in.X, details = validateCoordinate(in.RawX, "x", details)
	in.RawY = q.Get("y")
	in.Y, details = validateCoordinate(in.RawY, "y", details)

	return in, details, nil
}

func validateCoordinate(raw, path string, details []FieldError) (float64, []FieldError) {
	rangeMsg := fmt.Sprintf("the %s coordinate should be a number between 0 and 100", path)
	if raw == "" {
		requiredMsg := fmt.Sprintf("a%s %s coordinate is required", article(path), path)
		details = append(details,
			fieldError("", requiredMsg, path, "query"),
			fieldError("", rangeMsg, path, "query"))
		return 0, details
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 || v > 100 {
		details = append(details, fieldError(raw, rangeMsg, path, "query"))
		return 0, details
	}
	return v, details
}

// article returns "n" when the coordinate name starts with a vowel sound,
// so messages read "an x coordinate" but "a y coordinate".
func article(path string) string {
	if path == "x" {
		return "n"
	}
	return ""
}

// validateUsername enforces the non-blank username rule for claiming a
// leaderboard spot.
func validateUsername(username string) []FieldError {
	if strings.TrimSpace(username) != "" {
		return nil
	}
	return []FieldError{
		fieldError(username, "username should not be blank", "username", "body"),
		fieldError(username, "a username is required to complete the request", "username", "body"),
	}
}

package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hbar1st/wheres-waldo-api/internal/waldo"
)

// SignupRequest is the body for POST /user/signup. The password field
// names follow the browser autocomplete convention the web client uses.
type SignupRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Nickname        string `json:"nickname"`
	NewPassword     string `json:"new-password"`
	ConfirmPassword string `json:"confirm-password"`
}

// LoginRequest is the body for POST /user/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserData is the account payload returned under "data".
type UserData struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	AvatarID string `json:"avatar_id"`
}

// UserResponse wraps account payloads.
type UserResponse struct {
	Data UserData `json:"data"`
}

// UpdateUserRequest is the body for PUT /user; nil fields are untouched.
// AvatarID references an asset already stored on the media host.
type UpdateUserRequest struct {
	Email    *string `json:"email"`
	Nickname *string `json:"nickname"`
	AvatarID *string `json:"avatar_id"`
}

func handleSignup(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignupRequest
		if err := readJSON(r, &req); err != nil {
			writeValidation(w, []FieldError{
				fieldError("", "a signup request body is required", "body", "body"),
			})
			return
		}

		var details []FieldError
		req.Username = strings.TrimSpace(req.Username)
		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		if req.Username == "" {
			details = append(details, fieldError(req.Username, "username should not be blank", "username", "body"))
		}
		if req.Email == "" {
			details = append(details, fieldError(req.Email, "email should not be blank", "email", "body"))
		}
		if req.NewPassword == "" {
			details = append(details, fieldError("", "a password is required", "new-password", "body"))
		}
		if req.NewPassword != req.ConfirmPassword {
			details = append(details, fieldError("", "the passwords do not match", "confirm-password", "body"))
		}
		if details != nil {
			writeValidation(w, details)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			logger.Error("password hashing failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		user, err := store.CreateUser(r.Context(), req.Username, req.Email, req.Nickname, string(hash), time.Now().UnixMilli())
		if errors.Is(err, ErrDuplicateUser) {
			writeMessage(w, http.StatusBadRequest, "This username or email is already registered")
			return
		}
		if err != nil {
			logger.Error("user create failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		logger.Info("user signed up", "user_id", user.ID)
		writeJSON(w, http.StatusCreated, UserResponse{Data: userData(user)})
	}
}

func handleLogin(logger *slog.Logger, store Store, tokens *tokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Username == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "username and password are required")
			return
		}

		rec, err := store.GetUserByUsername(r.Context(), req.Username)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		if err != nil {
			logger.Error("user lookup failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(req.Password)); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		token, err := tokens.Issue(rec.ID, time.Now())
		if err != nil {
			logger.Error("token issue failed", "user_id", rec.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		w.Header().Set("Authorization", "Bearer "+token)
		writeJSON(w, http.StatusOK, UserResponse{Data: userData(rec.User)})
	}
}

func handleGetUser(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := store.GetUserByID(r.Context(), userIDFrom(r))
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		if err != nil {
			logger.Error("user lookup failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, UserResponse{Data: userData(user)})
	}
}

func handleUpdateUser(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateUserRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Email != nil && strings.TrimSpace(*req.Email) == "" {
			writeValidation(w, []FieldError{
				fieldError("", "email should not be blank", "email", "body"),
			})
			return
		}

		user, err := store.UpdateUser(r.Context(), userIDFrom(r), req.Email, req.Nickname, req.AvatarID)
		if errors.Is(err, ErrDuplicateUser) {
			writeMessage(w, http.StatusBadRequest, "This email is already registered")
			return
		}
		if err != nil {
			logger.Error("user update failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, UserResponse{Data: userData(user)})
	}
}

func handleDeleteUser(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := store.DeleteUser(r.Context(), userIDFrom(r))
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		if err != nil {
			logger.Error("user delete failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func userData(u waldo.User) UserData {
	return UserData{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Nickname: u.Nickname,
		AvatarID: u.AvatarID,
	}
}

package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// writeMessage is used for domain-rule rejections that carry a single
// human-readable message, e.g. "This game is not in the top ten".
func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// validationResponse is the payload for every field-validation failure.
type validationResponse struct {
	StatusCode int          `json:"statusCode"`
	Message    string       `json:"message"`
	Timestamp  string       `json:"timestamp"`
	Details    []FieldError `json:"details"`
}

const validationMessage = "Action has failed due to some validation errors"

func writeValidation(w http.ResponseWriter, details []FieldError) {
	writeJSON(w, http.StatusBadRequest, validationResponse{
		StatusCode: http.StatusBadRequest,
		Message:    validationMessage,
		Timestamp:  time.Now().UTC().Format(http.TimeFormat),
		Details:    details,
	})
}

// failResponse is the envelope for unmatched routes.
type failResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func handleNotFound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, failResponse{
			Status:  "fail",
			Message: fmt.Sprintf("This is a surprising request. I can't find %s on this server!", r.URL.Path),
		})
	}
}

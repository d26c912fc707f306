package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
)

func TestOpenAPISpec(t *testing.T) {
	env := newTestEnv(t)

	w := env.agent().get("/openapi.json")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("content type = %q", ct)
	}

	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths map[string]json.RawMessage `json:"paths"`
	}
	if err := json.NewDecoder(w.Body).Decode(&doc); err != nil {
		t.Fatalf("decode spec: %v", err)
	}
	if doc.Info.Title == "" {
		t.Error("spec has no title")
	}

	for _, p := range []string{
		"/scene",
		"/scene/{id}",
		"/scene/{id}/game",
		"/scene/{id}/game/answer",
		"/scene/{id}/topten",
		"/user/signup",
		"/user/login",
	} {
		if _, ok := doc.Paths[p]; !ok {
			t.Errorf("spec missing path %s", p)
		}
	}
}

func TestDocsPage(t *testing.T) {
	env := newTestEnv(t)

	w := env.agent().get("/docs")
	if w.Code != http.StatusOK && w.Code != http.StatusMovedPermanently {
		t.Fatalf("expected docs page, got %d", w.Code)
	}
}

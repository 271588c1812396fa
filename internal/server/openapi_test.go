package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAPISpec(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/openapi.json", nil)
	handleOpenAPI()(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var doc struct {
		OpenAPI string `json:"openapi"`
		Info    struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decoding spec: %v", err)
	}
	if doc.OpenAPI == "" {
		t.Error("missing openapi version")
	}
	if doc.Info.Title != "SkyQuiz API" {
		t.Errorf("title = %q", doc.Info.Title)
	}

	for _, path := range []string{
		"/healthz",
		"/api/airports",
		"/api/game/new",
		"/api/game/{sessionID}/challenge",
		"/api/game/{sessionID}/state",
		"/api/game/{sessionID}/status",
		"/api/game/{sessionID}/save",
		"/api/players/{playerID}/saves",
		"/api/players/{playerID}/saves/{saveName}",
		"/api/players/{playerID}/saves/{saveName}/restore",
	} {
		if _, ok := doc.Paths[path]; !ok {
			t.Errorf("path %s missing from spec", path)
		}
	}
}

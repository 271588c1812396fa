package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()
	db := newTestDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := NewSQLiteStore(db)
	engine := NewEngine(store, testRules())
	saves := NewSaves(store)

	r := chi.NewRouter()
	addRoutes(r, logger, db, store, engine, saves, "")
	return r
}

func doJSON(t *testing.T, router chi.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
}

func startGame(t *testing.T, router chi.Router, difficulty string) int64 {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/game/new", NewGameRequest{
		Difficulty: difficulty,
		PlayerName: "amelia",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("new game: status %d, body %s", rec.Code, rec.Body.String())
	}
	var resp NewGameResponse
	decodeBody(t, rec, &resp)
	return resp.SessionID
}

func TestNewGameEndpoint(t *testing.T) {
	router := newTestRouter(t)

	sessionID := startGame(t, router, " MEDIUM ")
	if sessionID == 0 {
		t.Fatal("expected a session id")
	}

	rec := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/game/%d/state", sessionID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("state: status %d, body %s", rec.Code, rec.Body.String())
	}
	var state GameStateResponse
	decodeBody(t, rec, &state)
	if state.DifficultyLevel != "medium" {
		t.Errorf("difficulty = %q, want medium", state.DifficultyLevel)
	}
	if state.BatteryLevel != 90 {
		t.Errorf("battery = %d, want 90", state.BatteryLevel)
	}
	if state.Player.Name != "amelia" {
		t.Errorf("player name = %q, want amelia", state.Player.Name)
	}
	if state.CountriesGuessed == nil {
		t.Error("countries_guessed should be [] not null")
	}
}

func TestNewGameValidation(t *testing.T) {
	router := newTestRouter(t)

	cases := []struct {
		name string
		body NewGameRequest
		want string
	}{
		{"missing player", NewGameRequest{Difficulty: "easy"}, "player_name is required"},
		{"missing difficulty", NewGameRequest{PlayerName: "amelia"}, "difficulty is required"},
		{"bad difficulty", NewGameRequest{Difficulty: "nightmare", PlayerName: "amelia"}, ""},
	}
	for _, tc := range cases {
		rec := doJSON(t, router, http.MethodPost, "/api/game/new", tc.body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", tc.name, rec.Code)
			continue
		}
		var resp struct {
			Error string `json:"error"`
		}
		decodeBody(t, rec, &resp)
		if tc.want != "" && resp.Error != tc.want {
			t.Errorf("%s: error %q, want %q", tc.name, resp.Error, tc.want)
		}
	}
}

func TestChallengeEndpoint(t *testing.T) {
	router := newTestRouter(t)
	sessionID := startGame(t, router, "easy")

	rec := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/game/%d/challenge", sessionID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("challenge: status %d, body %s", rec.Code, rec.Body.String())
	}
	var challenge struct {
		Type     string `json:"type"`
		Question string `json:"question"`
	}
	decodeBody(t, rec, &challenge)
	if challenge.Type != "open_question" && challenge.Type != "multiple_choice" {
		t.Errorf("challenge type = %q", challenge.Type)
	}
	if challenge.Question == "" {
		t.Error("challenge has no question text")
	}

	rec = doJSON(t, router, http.MethodGet, "/api/game/99999/challenge", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing session: status %d, want 404", rec.Code)
	}
}

func TestUpdateStateEndpoint(t *testing.T) {
	router := newTestRouter(t)
	sessionID := startGame(t, router, "easy")

	rec := doJSON(t, router, http.MethodGet, "/api/airports", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("airports: status %d", rec.Code)
	}
	var airports []struct {
		ID          int64  `json:"id"`
		CountryCode string `json:"country_code"`
	}
	decodeBody(t, rec, &airports)
	if len(airports) == 0 {
		t.Fatal("no airports seeded")
	}

	airportID := airports[0].ID
	passed := true
	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/game/%d/state", sessionID), UpdateStateRequest{
		CurrentAirportID: &airportID,
		PassedChallenge:  &passed,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update state: status %d, body %s", rec.Code, rec.Body.String())
	}
	var state GameStateResponse
	decodeBody(t, rec, &state)
	if state.PuzzlesSolved != 1 {
		t.Errorf("puzzles solved = %d, want 1", state.PuzzlesSolved)
	}
	if state.CurrentAirport == nil || state.CurrentAirport.ID != airportID {
		t.Error("current airport not moved")
	}
	if len(state.CountriesGuessed) != 1 || state.CountriesGuessed[0].Code != airports[0].CountryCode {
		t.Errorf("unexpected guessed countries: %v", state.CountriesGuessed)
	}

	// Required fields.
	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/game/%d/state", sessionID), UpdateStateRequest{
		PassedChallenge: &passed,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing airport id: status %d, want 400", rec.Code)
	}

	// Unknown airport.
	bogus := int64(99999)
	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/game/%d/state", sessionID), UpdateStateRequest{
		CurrentAirportID: &bogus,
		PassedChallenge:  &passed,
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown airport: status %d, want 404", rec.Code)
	}
}

func TestUpdateStatusEndpoint(t *testing.T) {
	router := newTestRouter(t)
	sessionID := startGame(t, router, "easy")

	rec := doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/game/%d/status", sessionID), UpdateStatusRequest{Status: "won"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status: status %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/game/%d/state", sessionID), nil)
	var state GameStateResponse
	decodeBody(t, rec, &state)
	if state.Status != "won" {
		t.Errorf("status = %q, want won", state.Status)
	}

	rec = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/game/%d/status", sessionID), UpdateStatusRequest{Status: "paused"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad status: status %d, want 400", rec.Code)
	}
}

func TestSaveEndpoints(t *testing.T) {
	router := newTestRouter(t)
	sessionID := startGame(t, router, "easy")

	// Save without a name lands in the default slot.
	rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/game/%d/save", sessionID), SaveGameRequest{})
	if rec.Code != http.StatusCreated {
		t.Fatalf("save: status %d, body %s", rec.Code, rec.Body.String())
	}
	var saveResp SaveGameResponse
	decodeBody(t, rec, &saveResp)
	if saveResp.SaveName != DefaultSaveName {
		t.Errorf("save name = %q, want %q", saveResp.SaveName, DefaultSaveName)
	}

	// The session owner is player 1 in a fresh database.
	rec = doJSON(t, router, http.MethodGet, "/api/players/1/saves", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list saves: status %d", rec.Code)
	}
	var summaries []SaveSummary
	decodeBody(t, rec, &summaries)
	if len(summaries) != 1 || summaries[0].SaveName != DefaultSaveName {
		t.Fatalf("unexpected save listing: %+v", summaries)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/players/1/saves/autosave", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("load save: status %d", rec.Code)
	}
	var snap SaveSnapshot
	decodeBody(t, rec, &snap)
	if snap.SessionID != sessionID {
		t.Errorf("snapshot session = %d, want %d", snap.SessionID, sessionID)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/players/1/saves/autosave/restore", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("restore: status %d, body %s", rec.Code, rec.Body.String())
	}
	var restored RestoredSessionResponse
	decodeBody(t, rec, &restored)
	if restored.SessionID != sessionID || restored.PlayerID != 1 {
		t.Errorf("restored ids = (%d, %d), want (%d, 1)", restored.SessionID, restored.PlayerID, sessionID)
	}

	rec = doJSON(t, router, http.MethodDelete, "/api/players/1/saves/autosave", nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete save: status %d, want 204", rec.Code)
	}
	rec = doJSON(t, router, http.MethodDelete, "/api/players/1/saves/autosave", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("delete missing save: status %d, want 404", rec.Code)
	}
}

func TestListAirportsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/airports", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("airports: status %d", rec.Code)
	}
	var airports []struct {
		ICAOCode    string `json:"icao_code"`
		CountryName string `json:"country_name"`
		Continent   string `json:"continent"`
	}
	decodeBody(t, rec, &airports)
	if len(airports) == 0 {
		t.Fatal("expected seeded airports")
	}
	for _, a := range airports {
		if a.ICAOCode == "" || a.CountryName == "" || a.Continent == "" {
			t.Errorf("airport missing joined country data: %+v", a)
		}
	}
}

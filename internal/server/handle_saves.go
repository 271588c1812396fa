package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/flightcrew/skyquiz/internal/skyquiz"
)

type SaveGameRequest struct {
	SaveName string `json:"save_name"`
}

type SaveGameResponse struct {
	SaveName string `json:"save_name"`
}

// RestoredSessionResponse mirrors a session rebuilt from a save blob.
// Guessed countries carry only their codes: restore does not re-resolve
// them against the country table.
type RestoredSessionResponse struct {
	SessionID         int64              `json:"session_id"`
	PlayerID          int64              `json:"player_id"`
	DifficultyLevel   skyquiz.Difficulty `json:"difficulty_level"`
	StartingAirportID int64              `json:"starting_airport_id"`
	BossAirportID     int64              `json:"boss_airport_id"`
	BossCountryCode   string             `json:"boss_country_code"`
	CurrentAirportID  int64              `json:"current_airport_id"`
	BatteryLevel      int                `json:"battery_level"`
	PuzzlesSolved     int                `json:"puzzles_solved"`
	CountriesGuessed  []skyquiz.Country  `json:"countries_guessed"`
	Status            skyquiz.Status     `json:"status"`
	Score             int                `json:"score"`
}

func handleSaveGame(engine *Engine, saves *Saves) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := urlInt64(r, "sessionID")
		if err != nil {
			writeError(w, http.StatusBadRequest, "session id must be an integer")
			return
		}

		var req SaveGameRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		name := strings.TrimSpace(req.SaveName)
		if name == "" {
			name = DefaultSaveName
		}

		sess, err := engine.LoadSession(r.Context(), sessionID)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "invalid game session id")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if err := saves.SaveGame(r.Context(), sess.PlayerID, sess, name); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to save game")
			return
		}

		writeJSON(w, http.StatusCreated, SaveGameResponse{SaveName: name})
	}
}

func handleListSaves(saves *Saves) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, err := urlInt64(r, "playerID")
		if err != nil {
			writeError(w, http.StatusBadRequest, "player id must be an integer")
			return
		}

		summaries, err := saves.PlayerSaves(r.Context(), playerID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if summaries == nil {
			summaries = []SaveSummary{}
		}
		writeJSON(w, http.StatusOK, summaries)
	}
}

func handleLoadSave(saves *Saves) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, err := urlInt64(r, "playerID")
		if err != nil {
			writeError(w, http.StatusBadRequest, "player id must be an integer")
			return
		}
		name := chi.URLParam(r, "saveName")

		snap, err := saves.LoadGame(r.Context(), playerID, name)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "save not found")
			return
		}
		if errors.Is(err, errInvalidSave) {
			writeError(w, http.StatusInternalServerError, "invalid save data")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, snap)
	}
}

func handleRestoreSave(saves *Saves) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, err := urlInt64(r, "playerID")
		if err != nil {
			writeError(w, http.StatusBadRequest, "player id must be an integer")
			return
		}
		name := chi.URLParam(r, "saveName")

		snap, err := saves.LoadGame(r.Context(), playerID, name)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "save not found")
			return
		}
		if errors.Is(err, errInvalidSave) {
			writeError(w, http.StatusInternalServerError, "invalid save data")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		sess := RestoreSession(playerID, snap)
		resp := RestoredSessionResponse{
			SessionID:         sess.ID,
			PlayerID:          sess.PlayerID,
			DifficultyLevel:   sess.Difficulty,
			StartingAirportID: sess.StartingAirportID,
			BossAirportID:     sess.BossAirportID,
			BossCountryCode:   sess.BossCountryCode,
			CurrentAirportID:  sess.CurrentAirportID,
			BatteryLevel:      sess.BatteryLevel,
			PuzzlesSolved:     sess.PuzzlesSolved,
			CountriesGuessed:  sess.CountriesGuessed,
			Status:            sess.Status,
			Score:             sess.Score,
		}
		if resp.CountriesGuessed == nil {
			resp.CountriesGuessed = []skyquiz.Country{}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleDeleteSave(saves *Saves) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, err := urlInt64(r, "playerID")
		if err != nil {
			writeError(w, http.StatusBadRequest, "player id must be an integer")
			return
		}
		name := chi.URLParam(r, "saveName")

		err = saves.DeleteSave(r.Context(), playerID, name)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "save not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/flightcrew/skyquiz/internal/skyquiz"
)

type NewGameRequest struct {
	Difficulty string `json:"difficulty"`
	PlayerName string `json:"player_name"`
}

type NewGameResponse struct {
	SessionID int64 `json:"session_id"`
}

func handleNewGame(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req NewGameRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.PlayerName = strings.TrimSpace(req.PlayerName)
		if req.PlayerName == "" {
			writeError(w, http.StatusBadRequest, "player_name is required")
			return
		}
		if req.Difficulty == "" {
			writeError(w, http.StatusBadRequest, "difficulty is required")
			return
		}

		difficulty, err := skyquiz.ParseDifficulty(req.Difficulty)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		sessionID, err := engine.NewGame(r.Context(), req.PlayerName, difficulty)
		if errors.Is(err, errNoAirports) {
			writeError(w, http.StatusInternalServerError, "failed to create game session: no airports available")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to create game session")
			return
		}

		writeJSON(w, http.StatusCreated, NewGameResponse{SessionID: sessionID})
	}
}

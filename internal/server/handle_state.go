package server

import (
	"errors"
	"net/http"
)

type UpdateStateRequest struct {
	CurrentAirportID *int64 `json:"current_airport_id"`
	PassedChallenge  *bool  `json:"passed_challenge"`
}

func handleGameState(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := urlInt64(r, "sessionID")
		if err != nil {
			writeError(w, http.StatusBadRequest, "session id must be an integer")
			return
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

		state, err := engine.GameState(r.Context(), sess)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, state)
	}
}

func handleUpdateState(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := urlInt64(r, "sessionID")
		if err != nil {
			writeError(w, http.StatusBadRequest, "session id must be an integer")
			return
		}

		var req UpdateStateRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.CurrentAirportID == nil {
			writeError(w, http.StatusBadRequest, "current_airport_id is required")
			return
		}
		if req.PassedChallenge == nil {
			writeError(w, http.StatusBadRequest, "passed_challenge is required")
			return
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

		airport, err := engine.store.AirportByID(r.Context(), *req.CurrentAirportID)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "invalid airport id")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if err := engine.ApplyChallengeOutcome(r.Context(), sess, airport, *req.PassedChallenge); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to update game state")
			return
		}

		state, err := engine.GameState(r.Context(), sess)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, state)
	}
}

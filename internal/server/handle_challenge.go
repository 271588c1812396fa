package server

import (
	"errors"
	"net/http"
)

func handleChallenge(engine *Engine) http.HandlerFunc {
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

		challenge, err := engine.Challenge(r.Context(), sess)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "no challenge available for this difficulty")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, challenge)
	}
}

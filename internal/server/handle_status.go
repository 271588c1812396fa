package server

import (
	"errors"
	"net/http"

	"github.com/flightcrew/skyquiz/internal/skyquiz"
)

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func handleUpdateStatus(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := urlInt64(r, "sessionID")
		if err != nil {
			writeError(w, http.StatusBadRequest, "session id must be an integer")
			return
		}

		var req UpdateStatusRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Status == "" {
			writeError(w, http.StatusBadRequest, "status is required")
			return
		}

		status, err := skyquiz.ParseStatus(req.Status)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
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

		if err := engine.UpdateStatus(r.Context(), sess, status); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to update session status")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "successfully updated status"})
	}
}

package server

import (
	"net/http"

	"github.com/flightcrew/skyquiz/internal/skyquiz"
)

func handleListAirports(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		airports, err := store.ListAirports(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "error retrieving airports")
			return
		}
		if airports == nil {
			airports = []skyquiz.Airport{}
		}
		writeJSON(w, http.StatusOK, airports)
	}
}

package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/flightcrew/skyquiz/internal/skyquiz"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "SkyQuiz API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the SkyQuiz geography game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/airports
	getAirports, _ := r.NewOperationContext(http.MethodGet, "/api/airports")
	getAirports.SetSummary("List airports")
	getAirports.SetDescription("Returns all airports with country and continent data.")
	getAirports.AddRespStructure([]skyquiz.Airport{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getAirports)

	// POST /api/game/new
	postNewGame, _ := r.NewOperationContext(http.MethodPost, "/api/game/new")
	postNewGame.SetSummary("Start a new game")
	postNewGame.SetDescription("Creates or fetches the player and opens a new game session.")
	postNewGame.AddReqStructure(NewGameRequest{})
	postNewGame.AddRespStructure(NewGameResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postNewGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postNewGame)

	// GET /api/game/{sessionID}/challenge
	getChallenge, _ := r.NewOperationContext(http.MethodGet, "/api/game/{sessionID}/challenge")
	getChallenge.SetSummary("Fetch a challenge")
	getChallenge.SetDescription("Returns a random open or multiple-choice question for the session's difficulty.")
	getChallenge.AddRespStructure(skyquiz.MultipleChoiceQuestion{}, openapi.WithHTTPStatus(http.StatusOK))
	getChallenge.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getChallenge)

	// GET /api/game/{sessionID}/state
	getState, _ := r.NewOperationContext(http.MethodGet, "/api/game/{sessionID}/state")
	getState.SetSummary("Get game state")
	getState.SetDescription("Returns the composite state view for a session.")
	getState.AddRespStructure(GameStateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getState)

	// POST /api/game/{sessionID}/state
	postState, _ := r.NewOperationContext(http.MethodPost, "/api/game/{sessionID}/state")
	postState.SetSummary("Apply challenge outcome")
	postState.SetDescription("Records a challenge result: moves the player, counts the puzzle, adjusts battery.")
	postState.AddReqStructure(UpdateStateRequest{})
	postState.AddRespStructure(GameStateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postState)

	// PUT /api/game/{sessionID}/status
	putStatus, _ := r.NewOperationContext(http.MethodPut, "/api/game/{sessionID}/status")
	putStatus.SetSummary("Update session status")
	putStatus.SetDescription("Transitions the session to active, won, lost, or abandoned.")
	putStatus.AddReqStructure(UpdateStatusRequest{})
	putStatus.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	putStatus.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	putStatus.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(putStatus)

	// POST /api/game/{sessionID}/save
	postSave, _ := r.NewOperationContext(http.MethodPost, "/api/game/{sessionID}/save")
	postSave.SetSummary("Save game")
	postSave.SetDescription("Snapshots the session under a save name, defaulting to 'autosave'.")
	postSave.AddReqStructure(SaveGameRequest{})
	postSave.AddRespStructure(SaveGameResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postSave.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postSave)

	// GET /api/players/{playerID}/saves
	getSaves, _ := r.NewOperationContext(http.MethodGet, "/api/players/{playerID}/saves")
	getSaves.SetSummary("List saves")
	getSaves.SetDescription("Returns a player's saves, most recently updated first, with previews.")
	getSaves.AddRespStructure([]SaveSummary{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getSaves)

	// GET /api/players/{playerID}/saves/{saveName}
	getSave, _ := r.NewOperationContext(http.MethodGet, "/api/players/{playerID}/saves/{saveName}")
	getSave.SetSummary("Load save")
	getSave.SetDescription("Returns the stored session snapshot.")
	getSave.AddRespStructure(SaveSnapshot{}, openapi.WithHTTPStatus(http.StatusOK))
	getSave.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getSave)

	// POST /api/players/{playerID}/saves/{saveName}/restore
	postRestore, _ := r.NewOperationContext(http.MethodPost, "/api/players/{playerID}/saves/{saveName}/restore")
	postRestore.SetSummary("Restore session from save")
	postRestore.SetDescription("Rebuilds session fields from the snapshot. Guessed countries stay raw codes.")
	postRestore.AddRespStructure(RestoredSessionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postRestore.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postRestore)

	// DELETE /api/players/{playerID}/saves/{saveName}
	deleteSave, _ := r.NewOperationContext(http.MethodDelete, "/api/players/{playerID}/saves/{saveName}")
	deleteSave.SetSummary("Delete save")
	deleteSave.SetDescription("Removes a save slot.")
	deleteSave.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deleteSave.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deleteSave)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

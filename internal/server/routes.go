package server

import (
	"database/sql"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, db *sql.DB, store Store, engine *Engine, saves *Saves, spaDir string) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("SkyQuiz API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, db))

	r.Route("/api", func(r chi.Router) {
		r.Get("/airports", handleListAirports(store))

		r.Route("/game", func(r chi.Router) {
			r.Post("/new", handleNewGame(engine))
			r.Get("/{sessionID}/challenge", handleChallenge(engine))
			r.Get("/{sessionID}/state", handleGameState(engine))
			r.Post("/{sessionID}/state", handleUpdateState(engine))
			r.Put("/{sessionID}/status", handleUpdateStatus(engine))
			r.Post("/{sessionID}/save", handleSaveGame(engine, saves))
		})

		r.Route("/players/{playerID}/saves", func(r chi.Router) {
			r.Get("/", handleListSaves(saves))
			r.Get("/{saveName}", handleLoadSave(saves))
			r.Post("/{saveName}/restore", handleRestoreSave(saves))
			r.Delete("/{saveName}", handleDeleteSave(saves))
		})
	})

	if spaDir != "" {
		if info, err := os.Stat(spaDir); err == nil && info.IsDir() {
			logger.Info("serving frontend", "dir", spaDir)
			r.NotFound(handleSPA(spaDir))
		}
	}
}

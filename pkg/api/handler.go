// Package api serves roster generation over HTTP
package api

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/jakechorley/peninsula-roster/pkg/db"
)

// maxBodyBytes bounds the size of a staff document upload
const maxBodyBytes = 1 << 20

// Handler holds the dependencies of the HTTP API
type Handler struct {
	store  db.RosterStore // nil disables persistence
	logger *zap.Logger

	Mux *chi.Mux
}

// NewHandler creates a handler with its routes registered
func NewHandler(store db.RosterStore, logger *zap.Logger) *Handler {
	h := &Handler{
		store:  store,
		logger: logger,
		Mux:    chi.NewRouter(),
	}
	h.registerRoutes()
	return h
}

func (h *Handler) registerRoutes() {
	h.Mux.Use(h.requestLogger)
	h.Mux.Use(h.recoverer)

	h.Mux.Get("/healthz", h.Health)

	h.Mux.Route("/rosters", func(r chi.Router) {
		r.Post("/", h.GenerateRoster)
		r.Get("/", h.ListRosterRuns)
	})
}

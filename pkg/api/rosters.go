package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/jakechorley/peninsula-roster/internal/config"
	"github.com/jakechorley/peninsula-roster/pkg/core/allocator"
	"github.com/jakechorley/peninsula-roster/pkg/core/services"
)

// GenerateRequest is the body of POST /rosters
type GenerateRequest struct {
	// Staff is a staff document, e.g. {"DOCTORS": {...}}
	Staff     json.RawMessage `json:"staff"`
	Weeks     int             `json:"weeks"`
	StartDate string          `json:"start_date"`
	DryRun    bool            `json:"dry_run"`
}

// RosterRunResponse is one entry of GET /rosters
type RosterRunResponse struct {
	ID              string `json:"id"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	Weeks           int    `json:"weeks"`
	CreatedAt       string `json:"created_at"`
	PeopleCount     int    `json:"people_count"`
	AssignmentCount int    `json:"assignment_count"`
	VacantCount     int    `json:"vacant_count"`
	SwapCount       int    `json:"swap_count"`
	Published       bool   `json:"published"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// GenerateRoster runs the pipeline and responds with the process contract object
func (h *Handler) GenerateRoster(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if len(req.Staff) == 0 {
		h.badRequest(w, r, errors.New("staff is required"))
		return
	}

	staff, err := config.ParseStaff(req.Staff)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	result, err := services.GenerateRoster(r.Context(), h.store, h.logger, services.GenerateInput{
		Staff:     staff,
		StartDate: req.StartDate,
		Weeks:     req.Weeks,
		DryRun:    req.DryRun,
	})
	switch {
	case errors.Is(err, allocator.ErrConfiguration):
		h.badRequest(w, r, err)
		return
	case err != nil:
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, result)
}

// ListRosterRuns lists stored runs, newest first
func (h *Handler) ListRosterRuns(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		h.errorResponse(w, r, http.StatusServiceUnavailable, errors.New("no database configured"))
		return
	}

	runs, err := services.ListRosterRuns(r.Context(), h.store)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	response := make([]RosterRunResponse, 0, len(runs))
	for _, run := range runs {
		response = append(response, RosterRunResponse{
			ID:              run.ID,
			StartDate:       run.StartDate,
			EndDate:         run.EndDate(),
			Weeks:           run.Weeks,
			CreatedAt:       run.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
			PeopleCount:     run.PeopleCount,
			AssignmentCount: run.AssignmentCount,
			VacantCount:     run.VacantCount,
			SwapCount:       run.SwapCount,
			Published:       run.PublishedAt != nil,
		})
	}

	h.writeJSON(w, r, http.StatusOK, response)
}

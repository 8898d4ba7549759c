package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/peninsula-roster/internal/config"
	"github.com/jakechorley/peninsula-roster/pkg/core/allocator"
	"github.com/jakechorley/peninsula-roster/pkg/core/report"
	"github.com/jakechorley/peninsula-roster/pkg/db"
)

// GenerateInput describes one roster generation request
type GenerateInput struct {
	Staff     *config.StaffDocument
	StartDate string // Format: "2006-01-02"
	Weeks     int

	// DryRun skips persistence
	DryRun bool
}

// GenerateResult is the success half of the process contract
type GenerateResult struct {
	Success    bool              `json:"success"`
	Statistics report.Statistics `json:"statistics"`
	Outputs    report.Outputs    `json:"outputs"`

	// RunID is set when the run was stored
	RunID string `json:"run_id,omitempty"`

	Outcome *allocator.AllocationOutcome `json:"-"`
}

// FailureResult is the failure half of the process contract
type FailureResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// NewFailureResult wraps an error for the process contract
func NewFailureResult(err error) FailureResult {
	return FailureResult{Success: false, Error: err.Error()}
}

// GenerateRoster builds a roster from the staff document, renders the reports
// and, unless DryRun is set or store is nil, stores the run
func GenerateRoster(ctx context.Context, store db.RosterStore, logger *zap.Logger, input GenerateInput) (*GenerateResult, error) {
	if input.Staff == nil {
		return nil, fmt.Errorf("%w: staff document is required", allocator.ErrConfiguration)
	}

	start, err := time.Parse(allocator.DateLayout, input.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: start date must be YYYY-MM-DD: %w", allocator.ErrConfiguration, err)
	}
	if input.Weeks <= 0 {
		return nil, fmt.Errorf("%w: weeks must be positive, got %d", allocator.ErrConfiguration, input.Weeks)
	}

	logger.Debug("Generating roster",
		zap.String("start_date", input.StartDate),
		zap.Int("weeks", input.Weeks),
		zap.Int("staff", len(input.Staff.Members)),
		zap.Bool("dry_run", input.DryRun))

	people, err := PeopleFromStaff(input.Staff, start, input.Weeks)
	if err != nil {
		return nil, err
	}

	outcome, err := allocator.Allocate(allocator.AllocationConfig{
		People:    people,
		StartDate: start,
		Weeks:     input.Weeks,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to allocate roster: %w", err)
	}

	outputs, err := report.Render(outcome.State)
	if err != nil {
		return nil, fmt.Errorf("failed to render reports: %w", err)
	}

	result := &GenerateResult{
		Success:    true,
		Statistics: report.BuildStatistics(outcome.State.People, outcome.State.Workloads),
		Outputs:    outputs,
		Outcome:    outcome,
	}

	if input.DryRun {
		logger.Info("Dry run, roster not stored")
		return result, nil
	}
	if store == nil {
		logger.Info("No database configured, roster not stored")
		return result, nil
	}

	run, assignments, workloads := buildRecords(uuid.New().String(), input.StartDate, input.Weeks, outcome)
	if err := store.InsertRosterRun(ctx, run, assignments, workloads); err != nil {
		return nil, fmt.Errorf("failed to store roster run: %w", err)
	}
	result.RunID = run.ID

	logger.Info("Roster run stored",
		zap.String("run_id", run.ID),
		zap.Int("assignments", len(assignments)))

	return result, nil
}

// PeopleFromStaff converts the staff document to allocator people in document order,
// expanding recurring unavailability over the horizon
func PeopleFromStaff(staff *config.StaffDocument, start time.Time, weeks int) ([]allocator.Person, error) {
	last := start.AddDate(0, 0, weeks*7-1)

	people := make([]allocator.Person, 0, len(staff.Members))
	for _, member := range staff.Members {
		unavailable, err := member.UnavailableBetween(start, last)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", allocator.ErrConfiguration, err)
		}

		people = append(people, allocator.Person{
			Name:             member.Name,
			CapacityFactor:   member.CapacityFactor(),
			SitePreference:   member.RosebudPreference,
			UnavailableDates: unavailable,
			Active:           member.Active(),
		})
	}

	return people, nil
}

// buildRecords flattens an outcome into storable records
func buildRecords(runID, startDate string, weeks int, outcome *allocator.AllocationOutcome) (*db.RosterRun, []db.AssignmentRecord, []db.WorkloadRecord) {
	state := outcome.State

	var assignments []db.AssignmentRecord
	workloads := make([]db.WorkloadRecord, 0, len(state.People))

	for _, person := range state.People {
		for _, a := range state.SortedAssignments(person.Name) {
			assignments = append(assignments, db.AssignmentRecord{
				RunID:         runID,
				PersonName:    person.Name,
				ShiftDate:     a.Date,
				Site:          string(a.Shift.Site),
				Role:          a.Shift.Role,
				Category:      string(a.Shift.Category),
				DurationHours: a.Shift.DurationHours,
			})
		}

		w := state.Workloads[person.Name]
		workloads = append(workloads, db.WorkloadRecord{
			RunID:             runID,
			PersonName:        person.Name,
			CapacityFactor:    person.CapacityFactor,
			TotalHours:        w.TotalHours,
			MaxHours:          w.MaxHours,
			RemainingHours:    w.RemainingHours,
			PenaltyPoints:     w.PenaltyPoints,
			TotalShifts:       w.TotalShifts,
			UndesirableShifts: w.UndesirableShifts,
			ClinicalShifts:    w.CurrentClinical,
			AdminShifts:       w.CurrentAdmin,
		})
	}

	run := &db.RosterRun{
		ID:              runID,
		StartDate:       startDate,
		Weeks:           weeks,
		CreatedAt:       time.Now().UTC(),
		PeopleCount:     len(state.People),
		AssignmentCount: len(assignments),
		VacantCount:     len(outcome.VacantSlots),
		SwapCount:       len(outcome.Swaps),
	}

	return run, assignments, workloads
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jakechorley/peninsula-roster/pkg/core/allocator"
	"github.com/jakechorley/peninsula-roster/pkg/core/report"
	"github.com/jakechorley/peninsula-roster/pkg/db"
)

// ErrNoRosterRuns is returned when the latest run is requested but none are stored
var ErrNoRosterRuns = errors.New("no roster runs found")

// ListRosterRuns returns every stored run, newest first
func ListRosterRuns(ctx context.Context, store db.RosterStore) ([]db.RosterRun, error) {
	runs, err := store.GetRosterRuns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roster runs: %w", err)
	}
	return runs, nil
}

// resolveRun loads the run with the given id, or the newest run when runID is empty
func resolveRun(ctx context.Context, store db.RosterStore, runID string) (*db.RosterRun, error) {
	if runID != "" {
		run, err := store.GetRosterRun(ctx, runID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch roster run: %w", err)
		}
		return run, nil
	}

	runs, err := store.GetRosterRuns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roster runs: %w", err)
	}
	if len(runs) == 0 {
		return nil, ErrNoRosterRuns
	}
	return findLatestRun(runs), nil
}

// findLatestRun picks the most recently created run
func findLatestRun(runs []db.RosterRun) *db.RosterRun {
	latest := &runs[0]
	for i := range runs {
		if runs[i].CreatedAt.After(latest.CreatedAt) {
			latest = &runs[i]
		}
	}
	return latest
}

// runDates expands a stored run into its horizon
func runDates(run *db.RosterRun) ([]string, error) {
	start, err := time.Parse(allocator.DateLayout, run.StartDate)
	if err != nil {
		return nil, fmt.Errorf("roster run %s has invalid start date: %w", run.ID, err)
	}
	return allocator.DateRange(start, run.Weeks), nil
}

// labelsFromRecords rebuilds the person -> date -> label table of a stored run
func labelsFromRecords(assignments []db.AssignmentRecord) report.Labels {
	labels := make(report.Labels)
	for _, a := range assignments {
		if labels[a.PersonName] == nil {
			labels[a.PersonName] = make(map[string]string)
		}
		labels[a.PersonName][a.ShiftDate] = a.Label()
	}
	return labels
}

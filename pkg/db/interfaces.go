package db

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested run does not exist
var ErrNotFound = errors.New("not found")

// RosterStore defines the interface for roster run persistence.
// postgres.DB implements this interface.
type RosterStore interface {
	// InsertRosterRun stores a run with its assignments and workloads atomically
	InsertRosterRun(ctx context.Context, run *RosterRun, assignments []AssignmentRecord, workloads []WorkloadRecord) error

	// GetRosterRuns returns every stored run, newest first
	GetRosterRuns(ctx context.Context) ([]RosterRun, error)

	// GetRosterRun returns a single run or ErrNotFound
	GetRosterRun(ctx context.Context, id string) (*RosterRun, error)

	GetAssignments(ctx context.Context, runID string) ([]AssignmentRecord, error)
	GetWorkloads(ctx context.Context, runID string) ([]WorkloadRecord, error)

	SetRosterRunPublished(ctx context.Context, runID string, at time.Time) error
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/peninsula-roster/internal/config"
	"github.com/jakechorley/peninsula-roster/pkg/clients/sheetsclient"
	"github.com/jakechorley/peninsula-roster/pkg/core/report"
	"github.com/jakechorley/peninsula-roster/pkg/db"
)

// RosterPublisher writes a roster grid to a spreadsheet.
// sheetsclient.Client implements this interface.
type RosterPublisher interface {
	PublishRoster(spreadsheetID string, roster *sheetsclient.PublishedRoster) (string, error)
}

// PublishResult describes a published roster
type PublishResult struct {
	RunID    string
	TabTitle string
	Roster   *sheetsclient.PublishedRoster
}

// PublishRoster publishes a stored run's calendar grid to the roster sheet.
// The newest run is used when runID is empty.
func PublishRoster(ctx context.Context, store db.RosterStore, publisher RosterPublisher, cfg *config.Config, logger *zap.Logger, runID string) (*PublishResult, error) {
	if cfg.RosterSheetID == "" {
		return nil, errors.New("no roster sheet configured, set rosterSheetID or ROSTER_SHEET_ID")
	}

	run, err := resolveRun(ctx, store, runID)
	if err != nil {
		return nil, err
	}

	logger.Debug("Publishing roster run",
		zap.String("run_id", run.ID),
		zap.String("start_date", run.StartDate),
		zap.Int("weeks", run.Weeks))

	assignments, err := store.GetAssignments(ctx, run.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assignments: %w", err)
	}

	dates, err := runDates(run)
	if err != nil {
		return nil, err
	}

	roster := &sheetsclient.PublishedRoster{
		StartDate: run.StartDate,
		Weeks:     run.Weeks,
		Rows:      report.CalendarGrid(labelsFromRecords(assignments), dates),
	}

	title, err := publisher.PublishRoster(cfg.RosterSheetID, roster)
	if err != nil {
		return nil, fmt.Errorf("failed to publish roster: %w", err)
	}

	if err := store.SetRosterRunPublished(ctx, run.ID, time.Now()); err != nil {
		return nil, fmt.Errorf("roster published but failed to record it: %w", err)
	}

	logger.Info("Roster published", zap.String("run_id", run.ID), zap.String("tab", title))

	return &PublishResult{
		RunID:    run.ID,
		TabTitle: title,
		Roster:   roster,
	}, nil
}

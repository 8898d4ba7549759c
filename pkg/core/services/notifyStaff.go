package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/peninsula-roster/internal/config"
	"github.com/jakechorley/peninsula-roster/pkg/core/allocator"
	"github.com/jakechorley/peninsula-roster/pkg/db"
)

// Mailer sends plain text email. gmailclient.Client implements this interface.
type Mailer interface {
	SendEmail(to, subject, body string) error
}

// SentEmail records a delivered notification
type SentEmail struct {
	Name   string
	Email  string
	Shifts int
}

// FailedEmail records a notification that could not be delivered
type FailedEmail struct {
	Name  string
	Email string
	Error string
}

// NotifyResult lists what happened for each staff member
type NotifyResult struct {
	RunID   string
	Sent    []SentEmail
	Failed  []FailedEmail
	Skipped []string // Active members with no email address
}

// NotifyStaff emails each active staff member their shifts for a stored run.
// The newest run is used when runID is empty. Delivery failures are collected
// in the result rather than aborting the remaining sends.
func NotifyStaff(ctx context.Context, store db.RosterStore, mailer Mailer, staff *config.StaffDocument, logger *zap.Logger, runID string) (*NotifyResult, error) {
	run, err := resolveRun(ctx, store, runID)
	if err != nil {
		return nil, err
	}

	assignments, err := store.GetAssignments(ctx, run.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assignments: %w", err)
	}

	byPerson := make(map[string][]db.AssignmentRecord)
	for _, a := range assignments {
		byPerson[a.PersonName] = append(byPerson[a.PersonName], a)
	}

	subject, err := notificationSubject(run)
	if err != nil {
		return nil, err
	}

	result := &NotifyResult{RunID: run.ID}

	for _, member := range staff.Members {
		if !member.Active() {
			continue
		}
		if member.Email == "" {
			logger.Debug("Skipping staff member without email", zap.String("name", member.Name))
			result.Skipped = append(result.Skipped, member.Name)
			continue
		}

		shifts := byPerson[member.Name]
		body := buildShiftEmail(member.Name, run, shifts)

		if err := mailer.SendEmail(member.Email, subject, body); err != nil {
			logger.Warn("Failed to send roster email",
				zap.String("name", member.Name),
				zap.String("email", member.Email),
				zap.Error(err))
			result.Failed = append(result.Failed, FailedEmail{
				Name:  member.Name,
				Email: member.Email,
				Error: err.Error(),
			})
			continue
		}

		logger.Debug("Roster email sent", zap.String("name", member.Name), zap.Int("shifts", len(shifts)))
		result.Sent = append(result.Sent, SentEmail{
			Name:   member.Name,
			Email:  member.Email,
			Shifts: len(shifts),
		})
	}

	logger.Info("Staff notified",
		zap.String("run_id", run.ID),
		zap.Int("sent", len(result.Sent)),
		zap.Int("failed", len(result.Failed)),
		zap.Int("skipped", len(result.Skipped)))

	return result, nil
}

func notificationSubject(run *db.RosterRun) (string, error) {
	start, err := time.Parse(allocator.DateLayout, run.StartDate)
	if err != nil {
		return "", fmt.Errorf("roster run %s has invalid start date: %w", run.ID, err)
	}
	end := start.AddDate(0, 0, run.Weeks*7-1)

	return fmt.Sprintf("Your roster: %s - %s", start.Format("Mon Jan 02 2006"), end.Format("Mon Jan 02 2006")), nil
}

// buildShiftEmail lists a person's shifts in date order.
// Stored assignments are already ordered by date.
func buildShiftEmail(name string, run *db.RosterRun, shifts []db.AssignmentRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", name)

	if len(shifts) == 0 {
		fmt.Fprintf(&b, "You have no shifts in the roster from %s to %s.\n", run.StartDate, run.EndDate())
	} else {
		fmt.Fprintf(&b, "Your shifts from %s to %s:\n\n", run.StartDate, run.EndDate())
		for _, s := range shifts {
			fmt.Fprintf(&b, "  %s  %s (%.0fh)\n", s.ShiftDate, s.Label(), s.DurationHours)
		}
	}

	b.WriteString("\nPlease contact the rostering team about any problems.\n")
	return b.String()
}

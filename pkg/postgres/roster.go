package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/peninsula-roster/pkg/db"
)

const rosterRunColumns = `id, start_date, weeks, created_at, people_count, assignment_count, vacant_count, swap_count, published_at`

// InsertRosterRun stores a run with its assignments and workloads in one transaction
func (d *DB) InsertRosterRun(ctx context.Context, run *db.RosterRun, assignments []db.AssignmentRecord, workloads []db.WorkloadRecord) error {
	return d.withTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO roster_run (id, start_date, weeks, created_at, people_count, assignment_count, vacant_count, swap_count)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, run.ID, run.StartDate, run.Weeks, run.CreatedAt.UTC(), run.PeopleCount, run.AssignmentCount, run.VacantCount, run.SwapCount)
		if err != nil {
			return fmt.Errorf("failed to insert roster run: %w", err)
		}

		if len(assignments) > 0 {
			rows := make([][]any, 0, len(assignments))
			for _, a := range assignments {
				shiftDate, err := time.Parse("2006-01-02", a.ShiftDate)
				if err != nil {
					return fmt.Errorf("invalid shift date %q: %w", a.ShiftDate, err)
				}
				rows = append(rows, []any{run.ID, a.PersonName, shiftDate, a.Site, a.Role, a.Category, a.DurationHours})
			}

			_, err = tx.CopyFrom(ctx,
				pgx.Identifier{"assignment"},
				[]string{"run_id", "person_name", "shift_date", "site", "role", "category", "duration_hours"},
				pgx.CopyFromRows(rows))
			if err != nil {
				return fmt.Errorf("failed to insert assignments: %w", err)
			}
		}

		if len(workloads) > 0 {
			rows := make([][]any, 0, len(workloads))
			for _, w := range workloads {
				rows = append(rows, []any{
					run.ID, w.PersonName, w.CapacityFactor, w.TotalHours, w.MaxHours, w.RemainingHours,
					w.PenaltyPoints, w.TotalShifts, w.UndesirableShifts, w.ClinicalShifts, w.AdminShifts,
				})
			}

			_, err = tx.CopyFrom(ctx,
				pgx.Identifier{"workload"},
				[]string{
					"run_id", "person_name", "capacity_factor", "total_hours", "max_hours", "remaining_hours",
					"penalty_points", "total_shifts", "undesirable_shifts", "clinical_shifts", "admin_shifts",
				},
				pgx.CopyFromRows(rows))
			if err != nil {
				return fmt.Errorf("failed to insert workloads: %w", err)
			}
		}

		return nil
	})
}

// GetRosterRuns retrieves all roster runs, newest first
func (d *DB) GetRosterRuns(ctx context.Context) ([]db.RosterRun, error) {
	rows, err := d.pool.Query(ctx, `SELECT `+rosterRunColumns+` FROM roster_run ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query roster runs: %w", err)
	}
	defer rows.Close()

	var runs []db.RosterRun
	for rows.Next() {
		run, err := scanRosterRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roster runs: %w", err)
	}

	return runs, nil
}

// GetRosterRun retrieves a single run by id
func (d *DB) GetRosterRun(ctx context.Context, id string) (*db.RosterRun, error) {
	row := d.pool.QueryRow(ctx, `SELECT `+rosterRunColumns+` FROM roster_run WHERE id = $1`, id)

	run, err := scanRosterRun(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("roster run %s: %w", id, db.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

func scanRosterRun(row pgx.Row) (*db.RosterRun, error) {
	var run db.RosterRun
	var start time.Time
	if err := row.Scan(&run.ID, &start, &run.Weeks, &run.CreatedAt, &run.PeopleCount,
		&run.AssignmentCount, &run.VacantCount, &run.SwapCount, &run.PublishedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan roster run: %w", err)
	}
	run.StartDate = start.Format("2006-01-02")
	return &run, nil
}

// GetAssignments retrieves a run's assignments ordered by date then person
func (d *DB) GetAssignments(ctx context.Context, runID string) ([]db.AssignmentRecord, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT run_id, person_name, shift_date, site, role, category, duration_hours
		FROM assignment
		WHERE run_id = $1
		ORDER BY shift_date, person_name
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	var assignments []db.AssignmentRecord
	for rows.Next() {
		var a db.AssignmentRecord
		var shiftDate time.Time
		if err := rows.Scan(&a.RunID, &a.PersonName, &shiftDate, &a.Site, &a.Role, &a.Category, &a.DurationHours); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		a.ShiftDate = shiftDate.Format("2006-01-02")
		assignments = append(assignments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignments: %w", err)
	}

	return assignments, nil
}

// GetWorkloads retrieves a run's workload ledger
func (d *DB) GetWorkloads(ctx context.Context, runID string) ([]db.WorkloadRecord, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT run_id, person_name, capacity_factor, total_hours, max_hours, remaining_hours,
			penalty_points, total_shifts, undesirable_shifts, clinical_shifts, admin_shifts
		FROM workload
		WHERE run_id = $1
		ORDER BY person_name
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query workloads: %w", err)
	}
	defer rows.Close()

	workloads, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (db.WorkloadRecord, error) {
		var w db.WorkloadRecord
		err := row.Scan(&w.RunID, &w.PersonName, &w.CapacityFactor, &w.TotalHours, &w.MaxHours, &w.RemainingHours,
			&w.PenaltyPoints, &w.TotalShifts, &w.UndesirableShifts, &w.ClinicalShifts, &w.AdminShifts)
		return w, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan workloads: %w", err)
	}

	return workloads, nil
}

// SetRosterRunPublished records when a run was published
func (d *DB) SetRosterRunPublished(ctx context.Context, runID string, at time.Time) error {
	tag, err := d.pool.Exec(ctx, `UPDATE roster_run SET published_at = $2 WHERE id = $1`, runID, at.UTC())
	if err != nil {
		return fmt.Errorf("failed to set roster run published_at: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("roster run %s: %w", runID, db.ErrNotFound)
	}
	return nil
}

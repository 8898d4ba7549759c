package db

import (
	"fmt"
	"time"
)

// RosterRun represents a stored roster generation run
type RosterRun struct {
	ID        string
	StartDate string
	Weeks     int
	CreatedAt time.Time

	PeopleCount     int
	AssignmentCount int
	VacantCount     int
	SwapCount       int

	// PublishedAt is nil until the run has been published to a sheet
	PublishedAt *time.Time
}

// EndDate returns the last date covered by the run, or "" if StartDate is malformed
func (r RosterRun) EndDate() string {
	start, err := time.Parse("2006-01-02", r.StartDate)
	if err != nil {
		return ""
	}
	return start.AddDate(0, 0, r.Weeks*7-1).Format("2006-01-02")
}

// AssignmentRecord represents one stored person/date/shift assignment
type AssignmentRecord struct {
	RunID         string
	PersonName    string
	ShiftDate     string
	Site          string
	Role          string
	Category      string
	DurationHours float64
}

// Label renders the shift the same way the roster reports do
func (a AssignmentRecord) Label() string {
	return fmt.Sprintf("%s %s %s", a.Site, a.Role, a.Category)
}

// WorkloadRecord represents a person's final ledger for a run
type WorkloadRecord struct {
	RunID             string
	PersonName        string
	CapacityFactor    float64
	TotalHours        float64
	MaxHours          float64
	RemainingHours    float64
	PenaltyPoints     float64
	TotalShifts       int
	UndesirableShifts int
	ClinicalShifts    int
	AdminShifts       int
}

package allocator

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the format used for every date key in the roster
const DateLayout = "2006-01-02"

// Site identifies one of the two hospital campuses
type Site string

const (
	SiteFrankston Site = "Frankston"
	SiteRosebud   Site = "Rosebud"
)

// Category is the kind of work a shift represents
type Category string

const (
	CategoryAM    Category = "AM"
	CategoryPM    Category = "PM"
	CategoryAdmin Category = "Admin"
)

// IsClinical returns true for patient-facing categories
func (c Category) IsClinical() bool {
	return c == CategoryAM || c == CategoryPM
}

// ShiftKey is the structured identity of a named shift slot.
// Two definitions with the same key are the same slot.
type ShiftKey struct {
	Site     Site
	Role     string
	Category Category
}

// Label renders the key as "<site> <role> <category>".
// Report consumers match on this format, so it must stay stable.
func (k ShiftKey) Label() string {
	return fmt.Sprintf("%s %s %s", k.Site, k.Role, k.Category)
}

func (k ShiftKey) String() string {
	return k.Label()
}

// IsAdmin returns true if the key names an administrative slot
func (k ShiftKey) IsAdmin() bool {
	return k.Category == CategoryAdmin
}

// ShiftDefinition describes a recurring shift slot offered every day
type ShiftDefinition struct {
	Site          Site
	Role          string
	Category      Category
	DurationHours float64
	Undesirable   bool
}

// Key returns the structured identity of the definition
func (d ShiftDefinition) Key() ShiftKey {
	return ShiftKey{Site: d.Site, Role: d.Role, Category: d.Category}
}

// Label is shorthand for d.Key().Label()
func (d ShiftDefinition) Label() string {
	return d.Key().Label()
}

// Person is a member of staff available to the roster.
// Person values are treated as immutable input to a run.
type Person struct {
	Name string

	// CapacityFactor is the fractional full-time equivalent (e.g. 0.5 = half time)
	CapacityFactor float64

	// SitePreference is a signed weight for working at the minority site
	SitePreference int

	// UnavailableDates are dates (DateLayout) the person cannot work
	UnavailableDates []string

	Active bool
}

// IsUnavailable returns true if the person marked the date as unavailable
func (p Person) IsUnavailable(date string) bool {
	for _, d := range p.UnavailableDates {
		if d == date {
			return true
		}
	}
	return false
}

// Assignment maps one person on one date to exactly one shift slot
type Assignment struct {
	Person string
	Date   string
	Shift  ShiftDefinition
}

// Workload is the per-person capacity and fairness ledger for a run.
// It is only mutated through RosterState.Commit and RosterState.Swap.
type Workload struct {
	TotalHours        float64
	TotalShifts       int
	UndesirableShifts int
	PenaltyPoints     float64

	MaxHours       float64
	RemainingHours float64

	TargetClinical  int
	TargetAdmin     int
	CurrentClinical int
	CurrentAdmin    int
}

// ClinicalDeficit is how many clinical shifts the person still needs
func (w *Workload) ClinicalDeficit() int {
	return w.TargetClinical - w.CurrentClinical
}

// AdminDeficit is how many admin shifts the person still needs
func (w *Workload) AdminDeficit() int {
	return w.TargetAdmin - w.CurrentAdmin
}

// Utilization returns total hours as a percentage of max hours
func (w *Workload) Utilization() float64 {
	if w.MaxHours <= 0 {
		return 0
	}
	return w.TotalHours / w.MaxHours * 100
}

// DateRange returns every date of a horizon starting at start and spanning numWeeks weeks
func DateRange(start time.Time, numWeeks int) []string {
	if numWeeks <= 0 {
		return []string{}
	}
	normalized := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)

	dates := make([]string, 0, numWeeks*7)
	for i := 0; i < numWeeks*7; i++ {
		dates = append(dates, normalized.AddDate(0, 0, i).Format(DateLayout))
	}
	return dates
}

// IsFriday reports whether a DateLayout date falls on a Friday.
// Unparseable dates are never Fridays.
func IsFriday(date string) bool {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return false
	}
	return t.Weekday() == time.Friday
}

// IsAdminLabel detects admin slots from a rendered label the way report consumers do
func IsAdminLabel(label string) bool {
	return strings.Contains(label, string(CategoryAdmin))
}

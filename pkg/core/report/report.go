// Package report renders a finished roster as CSV grids and summary statistics
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"

	"github.com/jakechorley/peninsula-roster/pkg/core/allocator"
)

const (
	// Vacant marks a calendar cell with nobody assigned
	Vacant = "VACANT"

	// Off marks a staff view cell where the person has no shift
	Off = "OFF"
)

// Labels is the exported assignment table: person -> date -> shift label
type Labels map[string]map[string]string

// Outputs holds the three rendered CSV documents
type Outputs struct {
	CalendarView  string `json:"calendar_view"`
	DoctorView    string `json:"doctor_view"`
	DoctorSummary string `json:"doctor_summary"`
}

// Render builds all three CSV documents for a finished roster state
func Render(state *allocator.RosterState) (Outputs, error) {
	labels := Labels(state.Labels())

	calendar, err := CalendarViewCSV(labels, state.Dates)
	if err != nil {
		return Outputs{}, fmt.Errorf("failed to render calendar view: %w", err)
	}

	staff, err := StaffViewCSV(labels, state.Dates)
	if err != nil {
		return Outputs{}, fmt.Errorf("failed to render staff view: %w", err)
	}

	summary, err := StaffSummaryCSV(state.People, state.Workloads, labels)
	if err != nil {
		return Outputs{}, fmt.Errorf("failed to render staff summary: %w", err)
	}

	return Outputs{
		CalendarView:  calendar,
		DoctorView:    staff,
		DoctorSummary: summary,
	}, nil
}

// ShiftColumns returns every label that appears in the table,
// clinical labels sorted first and then admin labels sorted
func ShiftColumns(labels Labels) []string {
	seen := make(map[string]bool)
	for _, byDate := range labels {
		for _, label := range byDate {
			seen[label] = true
		}
	}

	var clinical, admin []string
	for label := range seen {
		if allocator.IsAdminLabel(label) {
			admin = append(admin, label)
		} else {
			clinical = append(clinical, label)
		}
	}
	sort.Strings(clinical)
	sort.Strings(admin)

	return append(clinical, admin...)
}

// CalendarViewCSV renders one row per date and one column per shift label.
// Each cell holds the assigned person or VACANT.
func CalendarViewCSV(labels Labels, dates []string) (string, error) {
	return writeCSV(CalendarGrid(labels, dates))
}

// CalendarGrid builds the calendar view rows, header first
func CalendarGrid(labels Labels, dates []string) [][]string {
	columns := ShiftColumns(labels)

	// date -> label -> person
	holders := make(map[string]map[string]string, len(dates))
	for person, byDate := range labels {
		for date, label := range byDate {
			if holders[date] == nil {
				holders[date] = make(map[string]string)
			}
			holders[date][label] = person
		}
	}

	rows := make([][]string, 0, len(dates)+1)
	rows = append(rows, append([]string{"Date"}, columns...))

	for _, date := range dates {
		row := make([]string, 0, len(columns)+1)
		row = append(row, date)
		for _, label := range columns {
			person, ok := holders[date][label]
			if !ok {
				person = Vacant
			}
			row = append(row, person)
		}
		rows = append(rows, row)
	}

	return rows
}

// StaffViewCSV renders one row per date and one column per person, sorted by name.
// Each cell holds the person's shift label or OFF.
func StaffViewCSV(labels Labels, dates []string) (string, error) {
	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][]string, 0, len(dates)+1)
	rows = append(rows, append([]string{"Date"}, names...))

	for _, date := range dates {
		row := make([]string, 0, len(names)+1)
		row = append(row, date)
		for _, name := range names {
			label, ok := labels[name][date]
			if !ok {
				label = Off
			}
			row = append(row, label)
		}
		rows = append(rows, row)
	}

	return writeCSV(rows)
}

// SummaryHeader is the column order of the staff summary
var SummaryHeader = []string{
	"Doctor_Name", "EFT", "Total_Hours", "Max_Hours", "EFT_Utilization_%",
	"Total_Shifts", "Undesirable_Shifts", "Clinical_Shifts", "Admin_Shifts", "Remaining_Hours",
}

// StaffSummaryCSV renders one row per person in ledger order.
// Clinical and admin counts are taken from the labels, not the ledger.
func StaffSummaryCSV(people []allocator.Person, workloads map[string]*allocator.Workload, labels Labels) (string, error) {
	rows := make([][]string, 0, len(people)+1)
	rows = append(rows, SummaryHeader)

	for _, person := range people {
		workload, ok := workloads[person.Name]
		if !ok {
			return "", fmt.Errorf("no workload for %s", person.Name)
		}

		clinical, admin := 0, 0
		for _, label := range labels[person.Name] {
			if allocator.IsAdminLabel(label) {
				admin++
			} else {
				clinical++
			}
		}

		rows = append(rows, []string{
			person.Name,
			strconv.FormatFloat(person.CapacityFactor, 'f', 2, 64),
			strconv.FormatFloat(workload.TotalHours, 'f', 1, 64),
			strconv.FormatFloat(workload.MaxHours, 'f', 1, 64),
			strconv.FormatFloat(workload.Utilization(), 'f', 1, 64),
			strconv.Itoa(workload.TotalShifts),
			strconv.Itoa(workload.UndesirableShifts),
			strconv.Itoa(clinical),
			strconv.Itoa(admin),
			strconv.FormatFloat(workload.RemainingHours, 'f', 1, 64),
		})
	}

	return writeCSV(rows)
}

func writeCSV(rows [][]string) (string, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	writer.UseCRLF = true

	if err := writer.WriteAll(rows); err != nil {
		return "", err
	}
	return buf.String(), nil
}

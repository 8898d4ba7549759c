package allocator

import (
	"errors"
	"fmt"
)

var (
	// ErrInternalInconsistency marks a violation of the one-shift-per-person-per-day
	// or one-person-per-slot invariants, or an overdrawn capacity ledger. It is fatal.
	ErrInternalInconsistency = errors.New("internal inconsistency")

	// ErrConfiguration marks malformed input; the run never starts
	ErrConfiguration = errors.New("configuration error")
)

// RosterState owns the workload ledger and the assignment table for one run.
// Nothing outside the pipeline mutates it while a run is in progress.
type RosterState struct {
	// People in ledger order. Iteration order everywhere follows this slice.
	People []Person

	// Workloads by person name
	Workloads map[string]*Workload

	// Assignments by person name then date
	Assignments map[string]map[string]Assignment

	// Dates of the horizon in chronological order
	Dates []string

	Catalog *Catalog
	Penalty PenaltyModel

	// slotHolders indexes who holds each slot on each date
	slotHolders map[string]map[ShiftKey]string

	unavailable map[string]map[string]bool
	people      map[string]Person
}

// NewRosterState builds an empty state with initialised workloads
func NewRosterState(people []Person, dates []string, numWeeks int, catalog *Catalog) *RosterState {
	state := &RosterState{
		People:      people,
		Workloads:   InitWorkloads(people, numWeeks),
		Assignments: make(map[string]map[string]Assignment, len(people)),
		Dates:       dates,
		Catalog:     catalog,
		Penalty:     NewPenaltyModel(catalog),
		slotHolders: make(map[string]map[ShiftKey]string, len(dates)),
		unavailable: make(map[string]map[string]bool, len(people)),
		people:      make(map[string]Person, len(people)),
	}

	for _, person := range people {
		state.Assignments[person.Name] = make(map[string]Assignment)
		state.people[person.Name] = person

		dates := make(map[string]bool, len(person.UnavailableDates))
		for _, d := range person.UnavailableDates {
			dates[d] = true
		}
		state.unavailable[person.Name] = dates
	}

	return state
}

// Person returns the person with the given name
func (s *RosterState) Person(name string) (Person, bool) {
	p, ok := s.people[name]
	return p, ok
}

// IsAssigned returns true if the person already works a shift on date
func (s *RosterState) IsAssigned(name, date string) bool {
	_, ok := s.Assignments[name][date]
	return ok
}

// IsUnavailable returns true if the person marked date as unavailable
func (s *RosterState) IsUnavailable(name, date string) bool {
	return s.unavailable[name][date]
}

// IsFree returns true if the person can take a new shift on date
func (s *RosterState) IsFree(name, date string) bool {
	return !s.IsAssigned(name, date) && !s.IsUnavailable(name, date)
}

// SlotHolder returns who holds the slot on date, if anyone
func (s *RosterState) SlotHolder(date string, key ShiftKey) (string, bool) {
	name, ok := s.slotHolders[date][key]
	return name, ok
}

// IsSlotFilled returns true if someone already covers the slot on date
func (s *RosterState) IsSlotFilled(date string, key ShiftKey) bool {
	_, ok := s.SlotHolder(date, key)
	return ok
}

// Commit assigns def on date to the named person and updates the ledger.
// This is the only way assignments are created. It refuses, rather than
// overwrites, anything that would break an invariant.
func (s *RosterState) Commit(name, date string, def ShiftDefinition) error {
	workload, ok := s.Workloads[name]
	if !ok {
		return fmt.Errorf("%w: unknown person %q", ErrInternalInconsistency, name)
	}

	if existing, ok := s.Assignments[name][date]; ok {
		return fmt.Errorf("%w: %s already works %q on %s",
			ErrInternalInconsistency, name, existing.Shift.Label(), date)
	}

	if holder, ok := s.SlotHolder(date, def.Key()); ok {
		return fmt.Errorf("%w: %q on %s already held by %s",
			ErrInternalInconsistency, def.Label(), date, holder)
	}

	if workload.RemainingHours < def.DurationHours {
		return fmt.Errorf("%w: %s has %.1fh remaining, %q needs %.1fh",
			ErrInternalInconsistency, name, workload.RemainingHours, def.Label(), def.DurationHours)
	}

	s.place(name, date, def)
	s.account(workload, date, def, 1)

	return nil
}

// Swap relocates two assignments between two people: personA gives up
// (dateA, its shift) and takes (dateB, B's shift), and personB the reverse.
// The same slots stay filled on the same dates, so the global assignment
// count is unchanged.
func (s *RosterState) Swap(personA, dateA, personB, dateB string) error {
	if personA == personB {
		return fmt.Errorf("%w: cannot swap %s with themselves", ErrInternalInconsistency, personA)
	}

	a, ok := s.Assignments[personA][dateA]
	if !ok {
		return fmt.Errorf("%w: %s has no assignment on %s", ErrInternalInconsistency, personA, dateA)
	}
	b, ok := s.Assignments[personB][dateB]
	if !ok {
		return fmt.Errorf("%w: %s has no assignment on %s", ErrInternalInconsistency, personB, dateB)
	}

	if dateA != dateB {
		if s.IsAssigned(personA, dateB) {
			return fmt.Errorf("%w: %s already works on %s", ErrInternalInconsistency, personA, dateB)
		}
		if s.IsAssigned(personB, dateA) {
			return fmt.Errorf("%w: %s already works on %s", ErrInternalInconsistency, personB, dateA)
		}
	}

	workloadA := s.Workloads[personA]
	workloadB := s.Workloads[personB]

	if workloadA.TotalHours-a.Shift.DurationHours+b.Shift.DurationHours > workloadA.MaxHours {
		return fmt.Errorf("%w: swap would overdraw %s", ErrInternalInconsistency, personA)
	}
	if workloadB.TotalHours-b.Shift.DurationHours+a.Shift.DurationHours > workloadB.MaxHours {
		return fmt.Errorf("%w: swap would overdraw %s", ErrInternalInconsistency, personB)
	}

	s.unplace(personA, dateA, a.Shift)
	s.unplace(personB, dateB, b.Shift)
	s.account(workloadA, dateA, a.Shift, -1)
	s.account(workloadB, dateB, b.Shift, -1)

	s.place(personA, dateB, b.Shift)
	s.place(personB, dateA, a.Shift)
	s.account(workloadA, dateB, b.Shift, 1)
	s.account(workloadB, dateA, a.Shift, 1)

	return nil
}

func (s *RosterState) place(name, date string, def ShiftDefinition) {
	s.Assignments[name][date] = Assignment{Person: name, Date: date, Shift: def}

	holders, ok := s.slotHolders[date]
	if !ok {
		holders = make(map[ShiftKey]string)
		s.slotHolders[date] = holders
	}
	holders[def.Key()] = name
}

func (s *RosterState) unplace(name, date string, def ShiftDefinition) {
	delete(s.Assignments[name], date)
	delete(s.slotHolders[date], def.Key())
}

// account applies (sign=1) or reverts (sign=-1) one shift's effect on a ledger
func (s *RosterState) account(w *Workload, date string, def ShiftDefinition, sign int) {
	hours := def.DurationHours * float64(sign)
	w.TotalHours += hours
	w.RemainingHours -= hours
	w.TotalShifts += sign

	if def.Category == CategoryAdmin {
		w.CurrentAdmin += sign
	} else {
		w.CurrentClinical += sign
	}

	if def.Undesirable {
		w.UndesirableShifts += sign
	}

	w.PenaltyPoints += s.Penalty.ScoreOn(def, date) * float64(sign)
}

// AssignmentCount returns the number of assignments across all people
func (s *RosterState) AssignmentCount() int {
	count := 0
	for _, byDate := range s.Assignments {
		count += len(byDate)
	}
	return count
}

// Labels exports the assignment table as person -> date -> shift label
func (s *RosterState) Labels() map[string]map[string]string {
	labels := make(map[string]map[string]string, len(s.Assignments))
	for name, byDate := range s.Assignments {
		personLabels := make(map[string]string, len(byDate))
		for date, assignment := range byDate {
			personLabels[date] = assignment.Shift.Label()
		}
		labels[name] = personLabels
	}
	return labels
}

// SortedAssignments returns a person's assignments in chronological order
func (s *RosterState) SortedAssignments(name string) []Assignment {
	byDate := s.Assignments[name]
	result := make([]Assignment, 0, len(byDate))
	for _, date := range s.Dates {
		if a, ok := byDate[date]; ok {
			result = append(result, a)
		}
	}
	return result
}

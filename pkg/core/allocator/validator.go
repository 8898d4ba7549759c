package allocator

import (
	"fmt"
	"math"
)

// hoursEpsilon absorbs float drift when comparing accumulated hours
const hoursEpsilon = 1e-6

// ValidationError represents an invariant violation found in a finished state
type ValidationError struct {
	Person      string
	Date        string
	Description string
}

func (e ValidationError) Error() string {
	if e.Date == "" {
		return fmt.Sprintf("%s: %s", e.Person, e.Description)
	}
	return fmt.Sprintf("%s on %s: %s", e.Person, e.Date, e.Description)
}

// ValidateRosterState checks the roster invariants:
//   - every assignment is keyed by its own person and date
//   - no slot is held by two people on the same date
//   - totalHours == maxHours - remainingHours and totalHours <= maxHours
//   - ledger counts agree with the assignment table
//
// An empty slice means the state is consistent.
func ValidateRosterState(state *RosterState) []ValidationError {
	var errors []ValidationError

	holders := make(map[string]map[ShiftKey]string)

	for _, person := range state.People {
		name := person.Name
		workload, ok := state.Workloads[name]
		if !ok {
			errors = append(errors, ValidationError{Person: name, Description: "missing workload"})
			continue
		}

		clinical, admin := 0, 0
		hours := 0.0

		for date, assignment := range state.Assignments[name] {
			if assignment.Person != name || assignment.Date != date {
				errors = append(errors, ValidationError{
					Person:      name,
					Date:        date,
					Description: fmt.Sprintf("assignment keyed as %s/%s", assignment.Person, assignment.Date),
				})
			}

			byKey, ok := holders[date]
			if !ok {
				byKey = make(map[ShiftKey]string)
				holders[date] = byKey
			}
			if other, taken := byKey[assignment.Shift.Key()]; taken {
				errors = append(errors, ValidationError{
					Person:      name,
					Date:        date,
					Description: fmt.Sprintf("%q also held by %s", assignment.Shift.Label(), other),
				})
			}
			byKey[assignment.Shift.Key()] = name

			if assignment.Shift.Category == CategoryAdmin {
				admin++
			} else {
				clinical++
			}
			hours += assignment.Shift.DurationHours
		}

		if math.Abs(workload.TotalHours-(workload.MaxHours-workload.RemainingHours)) > hoursEpsilon {
			errors = append(errors, ValidationError{
				Person:      name,
				Description: fmt.Sprintf("total hours %.1f do not match max %.1f minus remaining %.1f", workload.TotalHours, workload.MaxHours, workload.RemainingHours),
			})
		}
		if workload.TotalHours > workload.MaxHours+hoursEpsilon {
			errors = append(errors, ValidationError{
				Person:      name,
				Description: fmt.Sprintf("total hours %.1f exceed max %.1f", workload.TotalHours, workload.MaxHours),
			})
		}
		if math.Abs(workload.TotalHours-hours) > hoursEpsilon {
			errors = append(errors, ValidationError{
				Person:      name,
				Description: fmt.Sprintf("ledger hours %.1f but assignments total %.1f", workload.TotalHours, hours),
			})
		}
		if workload.CurrentClinical != clinical || workload.CurrentAdmin != admin {
			errors = append(errors, ValidationError{
				Person:      name,
				Description: fmt.Sprintf("ledger counts %d/%d but assignments %d/%d", workload.CurrentClinical, workload.CurrentAdmin, clinical, admin),
			})
		}
	}

	return errors
}

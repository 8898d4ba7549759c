package allocator

import (
	"sort"

	"go.uber.org/zap"
)

// adminCandidate is a person eligible for an admin shift on a given day
type adminCandidate struct {
	name    string
	deficit int
}

// AllocateAdmin assigns administrative shifts day by day across the horizon.
//
// For each date the people who are free, below their admin target, and have
// at least AdminShiftHours remaining are ranked by admin deficit (largest
// first). Minority-site admin slots are offered before majority-site ones so
// the minority site is represented before the daily cap is reached.
//
// The daily cap is max(1, floor(total admin target / number of dates)),
// computed once for the whole horizon.
func AllocateAdmin(state *RosterState, logger *zap.Logger) error {
	if len(state.Dates) == 0 {
		return nil
	}

	totalAdminNeeded := 0
	for _, person := range state.People {
		totalAdminNeeded += state.Workloads[person.Name].TargetAdmin
	}
	dailyCap := max(1, totalAdminNeeded/len(state.Dates))

	orderedShifts := orderAdminShifts(state.Catalog)

	logger.Debug("Allocating admin shifts",
		zap.Int("total_admin_needed", totalAdminNeeded),
		zap.Int("daily_cap", dailyCap),
		zap.Int("admin_slots", len(orderedShifts)))

	assignedTotal := 0
	for _, date := range state.Dates {
		candidates := rankAdminCandidates(state, date)

		assignedToday := 0
		for _, shift := range orderedShifts {
			if assignedToday >= dailyCap || len(candidates) == 0 {
				break
			}

			if state.IsSlotFilled(date, shift.Key()) {
				continue
			}

			candidate := candidates[0]
			candidates = candidates[1:]

			if err := state.Commit(candidate.name, date, shift); err != nil {
				return err
			}
			assignedToday++
		}

		assignedTotal += assignedToday
	}

	logger.Debug("Admin allocation complete", zap.Int("assigned", assignedTotal))

	return nil
}

// rankAdminCandidates returns eligible people ordered by admin deficit, largest first.
// Equal deficits keep ledger order.
func rankAdminCandidates(state *RosterState, date string) []adminCandidate {
	candidates := make([]adminCandidate, 0, len(state.People))

	for _, person := range state.People {
		if !state.IsFree(person.Name, date) {
			continue
		}

		workload := state.Workloads[person.Name]
		if workload.CurrentAdmin >= workload.TargetAdmin {
			continue
		}
		if workload.RemainingHours < AdminShiftHours {
			continue
		}

		candidates = append(candidates, adminCandidate{
			name:    person.Name,
			deficit: workload.AdminDeficit(),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].deficit > candidates[j].deficit
	})

	return candidates
}

// orderAdminShifts places every minority-site admin definition before the majority-site ones
func orderAdminShifts(catalog *Catalog) []ShiftDefinition {
	minority := catalog.AdminMinoritySite()

	ordered := make([]ShiftDefinition, 0, len(catalog.Admin))
	for _, def := range catalog.Admin {
		if def.Site == minority {
			ordered = append(ordered, def)
		}
	}
	for _, def := range catalog.Admin {
		if def.Site != minority {
			ordered = append(ordered, def)
		}
	}

	return ordered
}

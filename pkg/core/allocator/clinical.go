package allocator

import "go.uber.org/zap"

// VacantSlot is a clinical slot nobody eligible could cover
type VacantSlot struct {
	Date  string
	Shift ShiftKey
}

// AllocateClinical assigns clinical shifts for every (date, clinical slot) pair.
// It runs after AllocateAdmin, so admin days are already blocked.
//
// For each slot the free person below their clinical target with enough hours
// and the largest clinical deficit wins. Ties go to whoever comes first in
// ledger order; that precedence is incidental, not a guarantee.
// A slot with no eligible person stays vacant and is returned.
func AllocateClinical(state *RosterState, logger *zap.Logger) ([]VacantSlot, error) {
	vacant := make([]VacantSlot, 0)
	assigned := 0

	for _, date := range state.Dates {
		for _, shift := range state.Catalog.Clinical {
			if state.IsSlotFilled(date, shift.Key()) {
				continue
			}

			best, ok := bestClinicalCandidate(state, date, shift)
			if !ok {
				vacant = append(vacant, VacantSlot{Date: date, Shift: shift.Key()})
				continue
			}

			if err := state.Commit(best, date, shift); err != nil {
				return nil, err
			}
			assigned++
		}
	}

	logger.Debug("Clinical allocation complete",
		zap.Int("assigned", assigned),
		zap.Int("vacant", len(vacant)))

	return vacant, nil
}

// bestClinicalCandidate finds the eligible person with the largest clinical deficit
func bestClinicalCandidate(state *RosterState, date string, shift ShiftDefinition) (string, bool) {
	var best string
	bestDeficit := 0
	found := false

	for _, person := range state.People {
		if !state.IsFree(person.Name, date) {
			continue
		}

		workload := state.Workloads[person.Name]
		if workload.CurrentClinical >= workload.TargetClinical {
			continue
		}
		if workload.RemainingHours < shift.DurationHours {
			continue
		}

		deficit := workload.ClinicalDeficit()
		if !found || deficit > bestDeficit {
			best = person.Name
			bestDeficit = deficit
			found = true
		}
	}

	return best, found
}

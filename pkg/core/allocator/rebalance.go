package allocator

import (
	"go.uber.org/zap"
)

const (
	// HighPenaltyFactor marks people above this multiple of the mean penalty
	HighPenaltyFactor = 1.2

	// LowPenaltyFactor marks people below this multiple of the mean penalty
	LowPenaltyFactor = 0.8

	// MinSwapPenaltyGain is how much more the high person's shift must score
	MinSwapPenaltyGain = 1.0

	// MaxSwaps caps the number of swaps in one rebalancing pass
	MaxSwaps = 10
)

// Swap records one accepted rebalancing exchange
type Swap struct {
	HighPerson string
	HighDate   string
	HighShift  ShiftKey
	LowPerson  string
	LowDate    string
	LowShift   ShiftKey

	// PenaltyMoved is the penalty transferred from the high to the low person
	PenaltyMoved float64
}

// Rebalance trades assignments between heavily and lightly penalised people.
//
// People above 1.2x the mean penalty are paired, in ledger order, with people
// below 0.8x the mean. For each pair the first (high date, low date) pair
// whose high shift outscores the low shift by more than one point, and that
// passes the safety checks, is swapped; the pair's search then ends.
// At most min(10, 2 * number of high people) swaps are made.
func Rebalance(state *RosterState, logger *zap.Logger) ([]Swap, error) {
	swaps := make([]Swap, 0)
	if len(state.People) < 2 {
		return swaps, nil
	}

	total := 0.0
	for _, person := range state.People {
		total += state.Workloads[person.Name].PenaltyPoints
	}
	mean := total / float64(len(state.People))

	var high, low []string
	for _, person := range state.People {
		penalty := state.Workloads[person.Name].PenaltyPoints
		if penalty > mean*HighPenaltyFactor {
			high = append(high, person.Name)
		}
		if penalty < mean*LowPenaltyFactor {
			low = append(low, person.Name)
		}
	}

	maxSwaps := min(MaxSwaps, len(high)*2)

	logger.Debug("Balancing tough shifts",
		zap.Float64("mean_penalty", mean),
		zap.Int("high_penalty", len(high)),
		zap.Int("low_penalty", len(low)),
		zap.Int("max_swaps", maxSwaps))

	for _, highPerson := range high {
		if len(swaps) >= maxSwaps {
			break
		}

		for _, lowPerson := range low {
			if len(swaps) >= maxSwaps {
				break
			}

			swap, found := findSwap(state, highPerson, lowPerson)
			if !found {
				continue
			}

			if err := state.Swap(highPerson, swap.HighDate, lowPerson, swap.LowDate); err != nil {
				return swaps, err
			}
			swaps = append(swaps, swap)

			logger.Debug("Swapped tough shift",
				zap.String("high", highPerson),
				zap.String("high_shift", swap.HighShift.Label()),
				zap.String("low", lowPerson),
				zap.String("low_shift", swap.LowShift.Label()),
				zap.Float64("penalty_moved", swap.PenaltyMoved))
		}
	}

	logger.Info("Tough shift balancing complete", zap.Int("swaps", len(swaps)))

	return swaps, nil
}

// findSwap returns the first acceptable exchange between two people.
// Assignments are searched in chronological order.
func findSwap(state *RosterState, highPerson, lowPerson string) (Swap, bool) {
	minPenalty, maxPenalty := penaltyRange(state)

	highWorkload := state.Workloads[highPerson]
	lowWorkload := state.Workloads[lowPerson]

	for _, h := range state.SortedAssignments(highPerson) {
		highPenalty := state.Penalty.ScoreOn(h.Shift, h.Date)

		for _, l := range state.SortedAssignments(lowPerson) {
			lowPenalty := state.Penalty.ScoreOn(l.Shift, l.Date)

			if highPenalty <= lowPenalty+MinSwapPenaltyGain {
				continue
			}

			// Each person must be able to work the date they newly occupy
			if state.IsUnavailable(highPerson, l.Date) || state.IsUnavailable(lowPerson, h.Date) {
				continue
			}

			if h.Date != l.Date {
				if state.IsAssigned(highPerson, l.Date) || state.IsAssigned(lowPerson, h.Date) {
					continue
				}
			}

			if highWorkload.TotalHours-h.Shift.DurationHours+l.Shift.DurationHours > highWorkload.MaxHours {
				continue
			}
			if lowWorkload.TotalHours-l.Shift.DurationHours+h.Shift.DurationHours > lowWorkload.MaxHours {
				continue
			}

			// Neither new total may leave the current range, so the widest gap never grows
			moved := highPenalty - lowPenalty
			if highWorkload.PenaltyPoints-moved < minPenalty || lowWorkload.PenaltyPoints+moved > maxPenalty {
				continue
			}

			return Swap{
				HighPerson:   highPerson,
				HighDate:     h.Date,
				HighShift:    h.Shift.Key(),
				LowPerson:    lowPerson,
				LowDate:      l.Date,
				LowShift:     l.Shift.Key(),
				PenaltyMoved: moved,
			}, true
		}
	}

	return Swap{}, false
}

// penaltyRange returns the smallest and largest penalty totals in the ledger
func penaltyRange(state *RosterState) (float64, float64) {
	if len(state.People) == 0 {
		return 0, 0
	}

	first := state.Workloads[state.People[0].Name].PenaltyPoints
	minPenalty, maxPenalty := first, first
	for _, person := range state.People[1:] {
		p := state.Workloads[person.Name].PenaltyPoints
		minPenalty = min(minPenalty, p)
		maxPenalty = max(maxPenalty, p)
	}
	return minPenalty, maxPenalty
}

// MaxPenaltyGap is the widest difference in penalty points between any two people
func MaxPenaltyGap(state *RosterState) float64 {
	minPenalty, maxPenalty := penaltyRange(state)
	return maxPenalty - minPenalty
}

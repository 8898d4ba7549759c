package allocator

import (
	"math"

	"go.uber.org/zap"
)

// RatioTolerance is how far a clinical:admin ratio may drift from 3:1 before it is reported
const RatioTolerance = 1.0

// RatioDeviation describes a person whose final mix strays from the 3:1 target
type RatioDeviation struct {
	Person   string
	Clinical int
	Admin    int
}

// Ratio returns clinical per admin shift, or +Inf when no admin shifts were worked
func (d RatioDeviation) Ratio() float64 {
	if d.Admin == 0 {
		return math.Inf(1)
	}
	return float64(d.Clinical) / float64(d.Admin)
}

// VerifyRatios reports people whose clinical:admin mix is off target.
// It is advisory only: nothing is reassigned and the run never fails here.
// People with no admin target are not expected to follow the ratio.
func VerifyRatios(state *RosterState, logger *zap.Logger) []RatioDeviation {
	deviations := make([]RatioDeviation, 0)

	for _, person := range state.People {
		workload := state.Workloads[person.Name]
		if workload.TargetAdmin == 0 || workload.TotalShifts == 0 {
			continue
		}

		deviation := RatioDeviation{
			Person:   person.Name,
			Clinical: workload.CurrentClinical,
			Admin:    workload.CurrentAdmin,
		}

		if math.Abs(deviation.Ratio()-ClinicalPerAdmin) > RatioTolerance {
			deviations = append(deviations, deviation)
			logger.Debug("Clinical:admin ratio off target",
				zap.String("person", person.Name),
				zap.Int("clinical", deviation.Clinical),
				zap.Int("admin", deviation.Admin))
		}
	}

	return deviations
}

package allocator

const (
	// WeeklyHoursPerFTE is the standard weekly hours for a capacity factor of 1.0
	WeeklyHoursPerFTE = 40.0

	// AverageShiftHours is the hours-weighted mean of a 3:1 clinical:admin mix
	// of 10h and 8h shifts: (3*10 + 1*8) / 4
	AverageShiftHours = 9.5

	// ClinicalPerAdmin is the target clinical to administrative ratio
	ClinicalPerAdmin = 3
)

// InitWorkloads computes the ledger for every person over a numWeeks horizon.
//
// Targets follow the 3:1 ratio:
//   - maxHours = capacity * 40 * numWeeks
//   - totalShifts = floor(maxHours / 9.5)
//   - admin = floor(total / 4), clinical = floor(total * 3/4)
//
// Floors:
//   - capacity >= 0.5: clinical at least 2, admin at least 1
//   - capacity in [0.25, 0.5): clinical at least 1, admin at least 1 only when clinical >= 3
//
// If the targets would need more hours than maxHours they are scaled down
// proportionally and truncated.
func InitWorkloads(people []Person, numWeeks int) map[string]*Workload {
	workloads := make(map[string]*Workload, len(people))
	for _, person := range people {
		workloads[person.Name] = NewWorkload(person.CapacityFactor, numWeeks)
	}
	return workloads
}

// NewWorkload builds a single person's starting ledger
func NewWorkload(capacityFactor float64, numWeeks int) *Workload {
	maxHours := capacityFactor * WeeklyHoursPerFTE * float64(numWeeks)

	totalShiftsPossible := int(maxHours / AverageShiftHours)

	targetAdmin := max(0, int(float64(totalShiftsPossible)/4))
	targetClinical := max(0, int(float64(totalShiftsPossible)*3/4))

	if capacityFactor >= 0.5 {
		targetClinical = max(2, targetClinical)
		targetAdmin = max(1, targetAdmin)
	} else if capacityFactor >= 0.25 {
		targetClinical = max(1, targetClinical)
		// Small capacity people may legitimately get no admin work
		if targetClinical >= 3 {
			targetAdmin = max(1, targetAdmin)
		}
	}

	totalTargetHours := float64(targetClinical)*ClinicalShiftHours + float64(targetAdmin)*AdminShiftHours
	if totalTargetHours > maxHours {
		scale := maxHours / totalTargetHours
		targetClinical = int(float64(targetClinical) * scale)
		targetAdmin = int(float64(targetAdmin) * scale)
	}

	return &Workload{
		MaxHours:       maxHours,
		RemainingHours: maxHours,
		TargetClinical: targetClinical,
		TargetAdmin:    targetAdmin,
	}
}

package report

import "github.com/jakechorley/peninsula-roster/pkg/core/allocator"

// Statistics summarises a finished roster
type Statistics struct {
	TotalDoctors      int     `json:"total_doctors"`
	TotalShifts       int     `json:"total_shifts"`
	TotalHours        float64 `json:"total_hours"`
	AvgEFTUtilization float64 `json:"avg_eft_utilization"`
}

// BuildStatistics totals the ledger. Utilisation is the mean of each person's
// hours as a percentage of their maximum; people with no capacity count as 0%.
func BuildStatistics(people []allocator.Person, workloads map[string]*allocator.Workload) Statistics {
	stats := Statistics{TotalDoctors: len(people)}
	if len(people) == 0 {
		return stats
	}

	utilization := 0.0
	for _, person := range people {
		w, ok := workloads[person.Name]
		if !ok {
			continue
		}
		stats.TotalShifts += w.TotalShifts
		stats.TotalHours += w.TotalHours
		utilization += w.Utilization()
	}
	stats.AvgEFTUtilization = utilization / float64(len(people))

	return stats
}

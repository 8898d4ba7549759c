package allocator

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocate_SinglePersonOneWeek(t *testing.T) {
	outcome, err := Allocate(AllocationConfig{
		People:    []Person{fullTime("Dr A")},
		StartDate: testStart,
		Weeks:     1,
	})
	require.NoError(t, err)

	assert.Equal(t, []Stage{
		StageInit, StageAllocateAdmin, StageAllocateClinical, StageVerifyRatios, StageRebalance, StageDone,
	}, outcome.Stages)
	assert.Equal(t, StageDone, outcome.FinalStage())

	w := outcome.State.Workloads["Dr A"]
	assert.Equal(t, 3*w.TargetAdmin, w.TargetClinical)
	assert.Equal(t, 1, w.CurrentAdmin)
	assert.Equal(t, 3, w.CurrentClinical)
	assert.Equal(t, 38.0, w.TotalHours)
	assert.Equal(t, 2.0, w.RemainingHours)

	labels := outcome.State.Labels()["Dr A"]
	assert.Equal(t, "Rosebud Admin-1 Admin", labels["2024-01-01"])
	assert.Equal(t, "Frankston Blue AM", labels["2024-01-02"])
	assert.Equal(t, "Frankston Blue AM", labels["2024-01-04"])

	assert.Empty(t, outcome.Swaps)
	assert.Empty(t, outcome.RatioDeviations)
}

func TestAllocate_FullyUnavailablePersonGetsNothing(t *testing.T) {
	away := fullTime("Dr Away")
	away.UnavailableDates = DateRange(testStart, 1)

	outcome, err := Allocate(AllocationConfig{
		People:    []Person{away, fullTime("Dr Here")},
		StartDate: testStart,
		Weeks:     1,
	})
	require.NoError(t, err)

	assert.Empty(t, outcome.State.Assignments["Dr Away"])
	assert.Equal(t, 0.0, outcome.State.Workloads["Dr Away"].TotalHours)

	here := outcome.State.Workloads["Dr Here"]
	assert.Equal(t, 4, here.TotalShifts)
	assert.Equal(t, 38.0, here.TotalHours)
	assert.LessOrEqual(t, here.TotalHours, here.MaxHours)
}

func TestAllocate_InactivePeopleExcluded(t *testing.T) {
	retired := fullTime("Dr Retired")
	retired.Active = false

	outcome, err := Allocate(AllocationConfig{
		People:    []Person{retired, fullTime("Dr A")},
		StartDate: testStart,
		Weeks:     1,
	})
	require.NoError(t, err)

	require.Len(t, outcome.State.People, 1)
	assert.Equal(t, "Dr A", outcome.State.People[0].Name)
	_, ok := outcome.State.Workloads["Dr Retired"]
	assert.False(t, ok)
}

func TestAllocate_InvariantsHoldForLargerRoster(t *testing.T) {
	people := []Person{
		fullTime("Dr A"),
		fullTime("Dr B", "2024-01-05", "2024-01-12"),
		{Name: "Dr C", CapacityFactor: 0.5, Active: true},
		{Name: "Dr D", CapacityFactor: 0.8, SitePreference: 1, Active: true},
		{Name: "Dr E", CapacityFactor: 0.25, Active: true},
		fullTime("Dr F", "2024-01-01"),
	}

	outcome, err := Allocate(AllocationConfig{People: people, StartDate: testStart, Weeks: 4})
	require.NoError(t, err)

	state := outcome.State
	assert.Empty(t, ValidateRosterState(state))

	for _, person := range state.People {
		w := state.Workloads[person.Name]
		assert.LessOrEqual(t, w.TotalHours, w.MaxHours, person.Name)
		for date := range state.Assignments[person.Name] {
			assert.False(t, person.IsUnavailable(date), "%s on %s", person.Name, date)
		}
	}

	assert.LessOrEqual(t, len(outcome.Swaps), MaxSwaps)
}

func TestAllocate_DeterministicForSameInput(t *testing.T) {
	config := AllocationConfig{
		People:    []Person{fullTime("Dr A"), fullTime("Dr B"), {Name: "Dr C", CapacityFactor: 0.6, Active: true}},
		StartDate: testStart,
		Weeks:     2,
	}

	first, err := Allocate(config)
	require.NoError(t, err)
	second, err := Allocate(config)
	require.NoError(t, err)

	assert.Equal(t, first.State.Labels(), second.State.Labels())
}

func TestAllocate_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name   string
		config AllocationConfig
	}{
		{
			name:   "zero weeks",
			config: AllocationConfig{People: []Person{fullTime("Dr A")}, StartDate: testStart, Weeks: 0},
		},
		{
			name:   "missing start date",
			config: AllocationConfig{People: []Person{fullTime("Dr A")}, Weeks: 1},
		},
		{
			name:   "duplicate names",
			config: AllocationConfig{People: []Person{fullTime("Dr A"), fullTime("Dr A")}, StartDate: testStart, Weeks: 1},
		},
		{
			name: "negative capacity",
			config: AllocationConfig{
				People:    []Person{{Name: "Dr A", CapacityFactor: -0.5, Active: true}},
				StartDate: testStart,
				Weeks:     1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, err := Allocate(tt.config)

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfiguration)

			var stageErr *StageError
			require.True(t, errors.As(err, &stageErr))
			assert.Equal(t, StageInit, stageErr.Stage)
			assert.Equal(t, StageFailed, outcome.FinalStage())
		})
	}
}

func TestAllocate_NoPeople(t *testing.T) {
	outcome, err := Allocate(AllocationConfig{StartDate: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), Weeks: 1})
	require.NoError(t, err)

	assert.Equal(t, 0, outcome.State.AssignmentCount())
	assert.Len(t, outcome.VacantSlots, 77)
}

func TestStage_String(t *testing.T) {
	assert.Equal(t, "AllocateClinical", StageAllocateClinical.String())
	assert.Equal(t, "Failed", StageFailed.String())
	assert.Equal(t, "Stage(42)", Stage(42).String())
}

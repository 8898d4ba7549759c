package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/peninsula-roster/internal/config"
	"github.com/jakechorley/peninsula-roster/pkg/core/allocator"
)

func twoDoctors() *config.StaffDocument {
	return staffDoc(
		config.StaffMember{Name: "Dr A", EFT: eft(1.0), Email: "a@example.com"},
		config.StaffMember{Name: "Dr B", EFT: eft(0.5), UnavailableDates: []string{"2024-01-03"}},
	)
}

func TestGenerateRoster_StoresRun(t *testing.T) {
	store := newMockStore()

	result, err := GenerateRoster(context.Background(), store, zap.NewNop(), GenerateInput{
		Staff:     twoDoctors(),
		StartDate: "2024-01-01",
		Weeks:     1,
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.Statistics.TotalDoctors)
	assert.True(t, strings.HasPrefix(result.Outputs.DoctorView, "Date,Dr A,Dr B\r\n"))

	require.Len(t, store.runs, 1)
	run := store.runs[0]
	assert.Equal(t, result.RunID, run.ID)
	assert.Equal(t, "2024-01-01", run.StartDate)
	assert.Equal(t, 1, run.Weeks)
	assert.Equal(t, 2, run.PeopleCount)
	assert.Equal(t, result.Statistics.TotalShifts, run.AssignmentCount)
	assert.Len(t, store.assignments[run.ID], run.AssignmentCount)
	assert.Len(t, store.workloads[run.ID], 2)

	for _, a := range store.assignments[run.ID] {
		if a.PersonName == "Dr B" {
			assert.NotEqual(t, "2024-01-03", a.ShiftDate)
		}
	}
}

func TestGenerateRoster_DryRunSkipsStore(t *testing.T) {
	store := newMockStore()

	result, err := GenerateRoster(context.Background(), store, zap.NewNop(), GenerateInput{
		Staff:     twoDoctors(),
		StartDate: "2024-01-01",
		Weeks:     1,
		DryRun:    true,
	})
	require.NoError(t, err)

	assert.Empty(t, result.RunID)
	assert.Empty(t, store.runs)
}

func TestGenerateRoster_NilStore(t *testing.T) {
	result, err := GenerateRoster(context.Background(), nil, zap.NewNop(), GenerateInput{
		Staff:     twoDoctors(),
		StartDate: "2024-01-01",
		Weeks:     1,
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestGenerateRoster_StoreError(t *testing.T) {
	store := newMockStore()
	store.insertErr = errors.New("connection refused")

	_, err := GenerateRoster(context.Background(), store, zap.NewNop(), GenerateInput{
		Staff:     twoDoctors(),
		StartDate: "2024-01-01",
		Weeks:     1,
	})
	assert.ErrorContains(t, err, "connection refused")
}

func TestGenerateRoster_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name  string
		input GenerateInput
	}{
		{"missing staff", GenerateInput{StartDate: "2024-01-01", Weeks: 1}},
		{"bad start date", GenerateInput{Staff: twoDoctors(), StartDate: "01/01/2024", Weeks: 1}},
		{"zero weeks", GenerateInput{Staff: twoDoctors(), StartDate: "2024-01-01", Weeks: 0}},
		{"negative eft", GenerateInput{
			Staff:     staffDoc(config.StaffMember{Name: "Dr A", EFT: eft(-1)}),
			StartDate: "2024-01-01",
			Weeks:     1,
		}},
		{"duplicate names", GenerateInput{
			Staff: staffDoc(
				config.StaffMember{Name: "Dr A", EFT: eft(1)},
				config.StaffMember{Name: "Dr A", EFT: eft(1)},
			),
			StartDate: "2024-01-01",
			Weeks:     1,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateRoster(context.Background(), nil, zap.NewNop(), tt.input)
			assert.ErrorIs(t, err, allocator.ErrConfiguration)
		})
	}
}

func TestPeopleFromStaff(t *testing.T) {
	staff := staffDoc(
		config.StaffMember{
			Name:              "Dr A",
			EFT:               eft(0.8),
			RosebudPreference: 2,
			UnavailableDates:  []string{"2024-01-05"},
			UnavailableRules:  []string{"FREQ=WEEKLY;BYDAY=MO"},
		},
		config.StaffMember{Name: "Dr B", EFT: eft(1.0), Status: "inactive"},
	)

	people, err := PeopleFromStaff(staff, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 2)
	require.NoError(t, err)

	require.Len(t, people, 2)
	assert.Equal(t, "Dr A", people[0].Name)
	assert.Equal(t, 0.8, people[0].CapacityFactor)
	assert.Equal(t, 2, people[0].SitePreference)
	assert.True(t, people[0].Active)
	assert.Equal(t, []string{"2024-01-01", "2024-01-05", "2024-01-08"}, people[0].UnavailableDates)
	assert.False(t, people[1].Active)
}

func TestPeopleFromStaff_InvalidRule(t *testing.T) {
	staff := staffDoc(config.StaffMember{Name: "Dr A", EFT: eft(1), UnavailableRules: []string{"FREQ=SOMETIMES"}})

	_, err := PeopleFromStaff(staff, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 1)
	assert.ErrorIs(t, err, allocator.ErrConfiguration)
}

func TestNewFailureResult(t *testing.T) {
	result := NewFailureResult(errors.New("boom"))

	assert.False(t, result.Success)
	assert.Equal(t, "boom", result.Error)
}

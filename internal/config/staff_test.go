package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStaff_JSONKeepsDocumentOrder(t *testing.T) {
	doc := []byte("{\n\t\"DOCTORS\": {\n" +
		"\t\t\"_comment\": {\"note\": \"metadata\"},\n" +
		"\t\t\"Dr Zed\": {\"eft\": 1.0, \"email\": \"zed@example.com\"},\n" +
		"\t\t\"Dr Adams\": {\"eft\": 0.5, \"rosebud_preference\": 2, \"unavailable_dates\": [\"2024-01-03\"]},\n" +
		"\t\t\"Dr Moss\": {\"eft\": 0.8, \"status\": \"inactive\"}\n" +
		"\t}\n}")

	staff, err := ParseStaff(doc)
	require.NoError(t, err)

	require.Len(t, staff.Members, 3)
	assert.Equal(t, "Dr Zed", staff.Members[0].Name)
	assert.Equal(t, "Dr Adams", staff.Members[1].Name)
	assert.Equal(t, "Dr Moss", staff.Members[2].Name)

	adams := staff.Members[1]
	assert.Equal(t, 0.5, adams.CapacityFactor())
	assert.Equal(t, 2, adams.RosebudPreference)
	assert.Equal(t, []string{"2024-01-03"}, adams.UnavailableDates)
	assert.True(t, adams.Active())
	assert.False(t, staff.Members[2].Active())
	assert.Equal(t, "zed@example.com", staff.Members[0].Email)
}

func TestParseStaff_YAML(t *testing.T) {
	doc := []byte(`
DOCTORS:
  Dr One:
    eft: 1
    unavailable_rules:
      - FREQ=WEEKLY;BYDAY=MO
  Dr Two:
    eft: 0.25
    specialization: Emergency
`)

	staff, err := ParseStaff(doc)
	require.NoError(t, err)

	require.Len(t, staff.Members, 2)
	member, ok := staff.Lookup("Dr Two")
	require.True(t, ok)
	assert.Equal(t, "Emergency", member.Specialization)
	_, ok = staff.Lookup("Dr Three")
	assert.False(t, ok)
}

func TestParseStaff_NoDoctorsKey(t *testing.T) {
	staff, err := ParseStaff([]byte(`{"OTHER": {}}`))
	require.NoError(t, err)
	assert.Empty(t, staff.Members)
}

func TestParseStaff_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name:    "missing eft",
			doc:     `{"DOCTORS": {"Dr A": {"email": "a@example.com"}}}`,
			wantErr: "validation failed",
		},
		{
			name:    "negative eft",
			doc:     `{"DOCTORS": {"Dr A": {"eft": -1}}}`,
			wantErr: "validation failed",
		},
		{
			name:    "bad date",
			doc:     `{"DOCTORS": {"Dr A": {"eft": 1, "unavailable_dates": ["03/01/2024"]}}}`,
			wantErr: "validation failed",
		},
		{
			name:    "bad rule",
			doc:     `{"DOCTORS": {"Dr A": {"eft": 1, "unavailable_rules": ["NOT_A_RULE"]}}}`,
			wantErr: "unavailable_rules[0]",
		},
		{
			name:    "duplicate names",
			doc:     "DOCTORS:\n  Dr A:\n    eft: 1\n  Dr A:\n    eft: 0.5\n",
			wantErr: "duplicate staff member",
		},
		{
			name:    "doctors not a mapping",
			doc:     `{"DOCTORS": ["Dr A"]}`,
			wantErr: "must be a mapping",
		},
		{
			name:    "top level list",
			doc:     `["Dr A"]`,
			wantErr: "must be a mapping",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseStaff([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestStaffMember_UnavailableBetween(t *testing.T) {
	member := StaffMember{
		Name:             "Dr One",
		UnavailableDates: []string{"2024-01-03", "2024-01-08"},
		UnavailableRules: []string{"FREQ=WEEKLY;BYDAY=MO"},
	}
	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC)

	dates, err := member.UnavailableBetween(first, last)
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-01-01", "2024-01-03", "2024-01-08"}, dates)
}

func TestLoadStaff_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"DOCTORS": {"Dr A": {"eft": 1.0}}}`), 0644))

	staff, err := LoadStaff(path)
	require.NoError(t, err)
	require.Len(t, staff.Members, 1)

	_, err = LoadStaff(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

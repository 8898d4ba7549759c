package sheetsclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTabTitle(t *testing.T) {
	title, err := GenerateTabTitle("2024-01-01", 1)
	require.NoError(t, err)
	assert.Equal(t, "Roster Mon Jan 01 2024 - Sun Jan 07 2024", title)

	title, err = GenerateTabTitle("2024-12-30", 2)
	require.NoError(t, err)
	assert.Equal(t, "Roster Mon Dec 30 2024 - Sun Jan 12 2025", title)
}

func TestGenerateTabTitle_Invalid(t *testing.T) {
	_, err := GenerateTabTitle("not-a-date", 1)
	assert.Error(t, err)

	_, err = GenerateTabTitle("2024-01-01", 0)
	assert.Error(t, err)
}

func TestToSheetValues(t *testing.T) {
	values := toSheetValues([][]string{
		{"Date", "Frankston Blue AM"},
		{"2024-01-01", "VACANT"},
	})

	require.Len(t, values, 2)
	assert.Equal(t, []interface{}{"Date", "Frankston Blue AM"}, values[0])
	assert.Equal(t, []interface{}{"2024-01-01", "VACANT"}, values[1])
}

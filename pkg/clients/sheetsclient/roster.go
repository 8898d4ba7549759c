package sheetsclient

import (
	"fmt"
	"time"

	"google.golang.org/api/sheets/v4"
)

const tabDateFormat = "Mon Jan 02 2006"

// PublishedRoster is the calendar grid of a roster run
type PublishedRoster struct {
	StartDate string // Format: "2006-01-02"
	Weeks     int

	// Rows[0] is the header: "Date" followed by shift labels
	Rows [][]string
}

// PublishRoster writes the roster to a tab titled "Roster Mon Jan 01 2024 - Sun Jan 07 2024".
// The tab is created if missing, otherwise its contents are replaced.
// Returns the tab title.
func (c *Client) PublishRoster(spreadsheetID string, roster *PublishedRoster) (string, error) {
	title, err := GenerateTabTitle(roster.StartDate, roster.Weeks)
	if err != nil {
		return "", fmt.Errorf("failed to generate tab title: %w", err)
	}

	existing, err := c.findSheet(spreadsheetID, title)
	if err != nil {
		return "", err
	}

	if existing == nil {
		if err := c.createSheet(spreadsheetID, title); err != nil {
			return "", fmt.Errorf("failed to create tab: %w", err)
		}
	} else {
		_, err := c.service.Spreadsheets.Values.Clear(spreadsheetID, title, &sheets.ClearValuesRequest{}).Context(c.ctx).Do()
		if err != nil {
			return "", fmt.Errorf("failed to clear existing tab: %w", err)
		}
	}

	valueRange := &sheets.ValueRange{Values: toSheetValues(roster.Rows)}
	_, err = c.service.Spreadsheets.Values.Update(spreadsheetID, fmt.Sprintf("'%s'!A1", title), valueRange).
		ValueInputOption("RAW").
		Context(c.ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to write roster: %w", err)
	}

	return title, nil
}

// GenerateTabTitle creates a title in the format "Roster Mon Jan 01 2024 - Sun Jan 07 2024"
func GenerateTabTitle(startDate string, weeks int) (string, error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return "", fmt.Errorf("invalid start date: %w", err)
	}
	if weeks <= 0 {
		return "", fmt.Errorf("weeks must be positive, got %d", weeks)
	}

	end := start.AddDate(0, 0, weeks*7-1)

	return fmt.Sprintf("Roster %s - %s", start.Format(tabDateFormat), end.Format(tabDateFormat)), nil
}

// toSheetValues converts the grid to the API's cell type
func toSheetValues(rows [][]string) [][]interface{} {
	values := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		cells := make([]interface{}, len(row))
		for i, cell := range row {
			cells[i] = cell
		}
		values = append(values, cells)
	}
	return values
}

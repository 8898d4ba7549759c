package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/peninsula-roster/pkg/db"
)

const staffJSON = `{"DOCTORS": {
	"_comment": "metadata",
	"Dr A": {"eft": 1.0, "rosebud_preference": 1},
	"Dr B": {"eft": 0.5, "unavailable_dates": ["2024-01-03"]}
}}`

// memoryStore keeps inserted runs in memory
type memoryStore struct {
	runs []db.RosterRun
}

func (m *memoryStore) InsertRosterRun(ctx context.Context, run *db.RosterRun, assignments []db.AssignmentRecord, workloads []db.WorkloadRecord) error {
	m.runs = append(m.runs, *run)
	return nil
}

func (m *memoryStore) GetRosterRuns(ctx context.Context) ([]db.RosterRun, error) {
	return m.runs, nil
}

func (m *memoryStore) GetRosterRun(ctx context.Context, id string) (*db.RosterRun, error) {
	return nil, db.ErrNotFound
}

func (m *memoryStore) GetAssignments(ctx context.Context, runID string) ([]db.AssignmentRecord, error) {
	return nil, nil
}

func (m *memoryStore) GetWorkloads(ctx context.Context, runID string) ([]db.WorkloadRecord, error) {
	return nil, nil
}

func (m *memoryStore) SetRosterRunPublished(ctx context.Context, runID string, at time.Time) error {
	return nil
}

func do(t *testing.T, h *Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, req)
	return rec
}

func generateBody(t *testing.T, weeks int, start string, dryRun bool) string {
	t.Helper()
	body, err := json.Marshal(GenerateRequest{
		Staff:     json.RawMessage(staffJSON),
		Weeks:     weeks,
		StartDate: start,
		DryRun:    dryRun,
	})
	require.NoError(t, err)
	return string(body)
}

func TestHealth(t *testing.T) {
	rec := do(t, NewHandler(nil, zap.NewNop()), http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGenerateRoster_Success(t *testing.T) {
	store := &memoryStore{}
	h := NewHandler(store, zap.NewNop())

	rec := do(t, h, http.MethodPost, "/rosters", generateBody(t, 1, "2024-01-01", false))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp struct {
		Success    bool   `json:"success"`
		RunID      string `json:"run_id"`
		Statistics struct {
			TotalDoctors int `json:"total_doctors"`
		} `json:"statistics"`
		Outputs map[string]string `json:"outputs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.Statistics.TotalDoctors)
	assert.Contains(t, resp.Outputs, "calendar_view")
	assert.Contains(t, resp.Outputs, "doctor_view")
	assert.Contains(t, resp.Outputs, "doctor_summary")
	require.Len(t, store.runs, 1)
	assert.Equal(t, store.runs[0].ID, resp.RunID)
}

func TestGenerateRoster_DryRun(t *testing.T) {
	store := &memoryStore{}

	rec := do(t, NewHandler(store, zap.NewNop()), http.MethodPost, "/rosters", generateBody(t, 1, "2024-01-01", true))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "run_id")
	assert.Empty(t, store.runs)
}

func TestGenerateRoster_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"weeks": `},
		{"unknown field", `{"weeks": 1, "colour": "blue"}`},
		{"missing staff", `{"weeks": 1, "start_date": "2024-01-01"}`},
		{"staff not a mapping", `{"staff": [1, 2], "weeks": 1, "start_date": "2024-01-01"}`},
		{"zero weeks", generateBody(t, 0, "2024-01-01", true)},
		{"bad date", generateBody(t, 1, "next monday", true)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, NewHandler(nil, zap.NewNop()), http.MethodPost, "/rosters", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp struct {
				Success bool   `json:"success"`
				Error   string `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestListRosterRuns(t *testing.T) {
	published := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	store := &memoryStore{runs: []db.RosterRun{
		{ID: "run-1", StartDate: "2024-01-01", Weeks: 2, CreatedAt: time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC), PublishedAt: &published},
	}}

	rec := do(t, NewHandler(store, zap.NewNop()), http.MethodGet, "/rosters", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var runs []RosterRunResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].ID)
	assert.Equal(t, "2024-01-14", runs[0].EndDate)
	assert.Equal(t, "2024-01-02T09:00:00Z", runs[0].CreatedAt)
	assert.True(t, runs[0].Published)
}

func TestListRosterRuns_NoDatabase(t *testing.T) {
	rec := do(t, NewHandler(nil, zap.NewNop()), http.MethodGet, "/rosters", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRecoverer(t *testing.T) {
	h := NewHandler(nil, zap.NewNop())
	h.Mux.Get("/panic", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec := do(t, h, http.MethodGet, "/panic", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestRecoverer_PanicAfterHeadersWritten(t *testing.T) {
	h := NewHandler(nil, zap.NewNop())
	h.Mux.Get("/partial", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"status":"started"}`))
		panic("boom")
	})

	rec := do(t, h, http.MethodGet, "/partial", "")

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, `{"status":"started"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "internal server error")
}

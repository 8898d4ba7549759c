package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jakechorley/peninsula-roster/internal/config"
	"github.com/jakechorley/peninsula-roster/pkg/clients/sheetsclient"
	"github.com/jakechorley/peninsula-roster/pkg/db"
)

// mockStore is an in-memory db.RosterStore
type mockStore struct {
	runs        []db.RosterRun
	assignments map[string][]db.AssignmentRecord
	workloads   map[string][]db.WorkloadRecord
	published   map[string]time.Time

	insertErr error
}

func newMockStore() *mockStore {
	return &mockStore{
		assignments: make(map[string][]db.AssignmentRecord),
		workloads:   make(map[string][]db.WorkloadRecord),
		published:   make(map[string]time.Time),
	}
}

func (m *mockStore) InsertRosterRun(ctx context.Context, run *db.RosterRun, assignments []db.AssignmentRecord, workloads []db.WorkloadRecord) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.runs = append(m.runs, *run)
	m.assignments[run.ID] = assignments
	m.workloads[run.ID] = workloads
	return nil
}

func (m *mockStore) GetRosterRuns(ctx context.Context) ([]db.RosterRun, error) {
	return m.runs, nil
}

func (m *mockStore) GetRosterRun(ctx context.Context, id string) (*db.RosterRun, error) {
	for i := range m.runs {
		if m.runs[i].ID == id {
			return &m.runs[i], nil
		}
	}
	return nil, fmt.Errorf("roster run %s: %w", id, db.ErrNotFound)
}

func (m *mockStore) GetAssignments(ctx context.Context, runID string) ([]db.AssignmentRecord, error) {
	return m.assignments[runID], nil
}

func (m *mockStore) GetWorkloads(ctx context.Context, runID string) ([]db.WorkloadRecord, error) {
	return m.workloads[runID], nil
}

func (m *mockStore) SetRosterRunPublished(ctx context.Context, runID string, at time.Time) error {
	if _, err := m.GetRosterRun(ctx, runID); err != nil {
		return err
	}
	m.published[runID] = at
	return nil
}

// mockPublisher records published rosters
type mockPublisher struct {
	spreadsheetID string
	rosters       []*sheetsclient.PublishedRoster
	err           error
}

func (m *mockPublisher) PublishRoster(spreadsheetID string, roster *sheetsclient.PublishedRoster) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.spreadsheetID = spreadsheetID
	m.rosters = append(m.rosters, roster)
	return sheetsclient.GenerateTabTitle(roster.StartDate, roster.Weeks)
}

type sentMessage struct {
	to, subject, body string
}

// mockMailer records messages and fails for addresses in failFor
type mockMailer struct {
	sent    []sentMessage
	failFor map[string]bool
}

func (m *mockMailer) SendEmail(to, subject, body string) error {
	if m.failFor[to] {
		return errors.New("mailbox unavailable")
	}
	m.sent = append(m.sent, sentMessage{to: to, subject: subject, body: body})
	return nil
}

func eft(v float64) *float64 {
	return &v
}

func staffDoc(members ...config.StaffMember) *config.StaffDocument {
	return &config.StaffDocument{Members: members}
}

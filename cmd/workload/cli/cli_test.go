package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/acquisition-ops/workload/internal/roster"
	"github.com/acquisition-ops/workload/internal/workload"
	"github.com/acquisition-ops/workload/jobs"
)

func newService(t *testing.T) *workload.Service {
	t.Helper()
	r, err := roster.Default()
	require.NoError(t, err)
	return workload.NewService(r, nil, nil)
}

func TestSummaryCommandJSON(t *testing.T) {
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	exitCode := SummaryCommand(context.Background(), newService(t), SummaryOptions{
		Filter:     "ecommerce",
		JSONOutput: true,
		Stdout:     stdout,
		Stderr:     stderr,
	})
	require.Zero(t, exitCode)
	require.Empty(t, stderr.String())

	var dash workload.Dashboard
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &dash))
	require.Equal(t, 7, dash.Totals.ProjectCount)
	require.InDelta(t, 48, dash.Totals.TotalDaysSold, 1e-9)
}

func TestSummaryCommandHuman(t *testing.T) {
	stdout := new(bytes.Buffer)
	exitCode := SummaryCommand(context.Background(), newService(t), SummaryOptions{Stdout: stdout, Stderr: new(bytes.Buffer)})
	require.Zero(t, exitCode)
	require.Contains(t, stdout.String(), "projects: 20  days: 51.9j  hours: 363.5h")
	require.Contains(t, stdout.String(), "near_limit")
}

func TestSummaryCommandUnknownFilter(t *testing.T) {
	stderr := new(bytes.Buffer)
	exitCode := SummaryCommand(context.Background(), newService(t), SummaryOptions{Filter: "retail", Stdout: new(bytes.Buffer), Stderr: stderr})
	require.Equal(t, 2, exitCode)
	require.Contains(t, stderr.String(), "unknown")
}

func TestValidateRosterCommand(t *testing.T) {
	stdout := new(bytes.Buffer)
	require.Zero(t, ValidateRosterCommand("", stdout, new(bytes.Buffer)))
	require.Contains(t, stdout.String(), "20 projects")

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"projects":[{"client":"X","totalDaysSold":1,"totalAdsCount":0,"priority":"HIGH","clientType":"retail","activities":[]}]}`), 0o600))
	stderr := new(bytes.Buffer)
	require.Equal(t, 10, ValidateRosterCommand(bad, new(bytes.Buffer), stderr))
	require.Contains(t, stderr.String(), "ClientType")

	require.Equal(t, 1, ValidateRosterCommand(filepath.Join(dir, "missing.json"), new(bytes.Buffer), new(bytes.Buffer)))
}

func TestValidateRosterReportsDrift(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drift.json")
	doc := `{"projects":[
		{"client":"ACME","totalDaysSold":3,"totalAdsCount":1,"priority":"LOW","clientType":"ecommerce",
		 "activities":[{"name":"Reporting","days":1.5,"type":"ADS_REPORTING","pole":"ADS"}]},
		{"client":"EXACT","totalDaysSold":2,"totalAdsCount":0,"priority":"LOW","clientType":"ecommerce",
		 "activities":[{"name":"Design","days":2,"type":"CREATIVE_DESIGN","pole":"CREATIVE"}]}
	]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	stdout := new(bytes.Buffer)
	require.Zero(t, ValidateRosterCommand(path, stdout, new(bytes.Buffer)))
	require.Contains(t, stdout.String(), "roster ok: 2 projects")
	require.Contains(t, stdout.String(), "drift: ACME sold 3j, activities 1.5j")
	require.NotContains(t, stdout.String(), "EXACT")
}

type stubEnqueuer struct {
	payload jobs.DashboardWarmupPayload
	err     error
}

func (s *stubEnqueuer) EnqueueDashboardWarmup(_ context.Context, payload jobs.DashboardWarmupPayload) (*asynq.TaskInfo, error) {
	s.payload = payload
	if s.err != nil {
		return nil, s.err
	}
	return &asynq.TaskInfo{ID: "abc", Queue: jobs.QueueDefault, Type: jobs.TaskDashboardWarmup}, nil
}

type stubInspector struct{}

func (stubInspector) GetQueueInfo(string) (*asynq.QueueInfo, error) {
	return &asynq.QueueInfo{Queue: jobs.QueueDefault, Pending: 2}, nil
}

func (stubInspector) ListScheduledTasks(string, ...asynq.ListOption) ([]*asynq.TaskInfo, error) {
	return nil, nil
}

func TestWarmupCommand(t *testing.T) {
	enq := &stubEnqueuer{}
	c := NewJobsCLIWith(enq, stubInspector{})

	stdout := new(bytes.Buffer)
	exitCode := c.WarmupCommand(context.Background(), WarmupOptions{Filters: []string{"ecommerce"}, Reset: true, JSONOutput: true, Stdout: stdout, Stderr: new(bytes.Buffer)})
	require.Zero(t, exitCode)
	require.True(t, enq.payload.Reset)
	require.Equal(t, []string{"ecommerce"}, enq.payload.Filters)

	var out map[string]string
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))
	require.Equal(t, "abc", out["id"])

	enq.err = errors.New("redis down")
	require.Equal(t, 1, c.WarmupCommand(context.Background(), WarmupOptions{Stdout: new(bytes.Buffer), Stderr: new(bytes.Buffer)}))
}

func TestStatsCommand(t *testing.T) {
	c := NewJobsCLIWith(&stubEnqueuer{}, stubInspector{})
	stdout := new(bytes.Buffer)
	require.Zero(t, c.StatsCommand(context.Background(), false, stdout, new(bytes.Buffer)))
	require.Contains(t, stdout.String(), "pending=2")

	var missing *JobsCLI
	require.Equal(t, 1, missing.StatsCommand(context.Background(), true, new(bytes.Buffer), new(bytes.Buffer)))
}

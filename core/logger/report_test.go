package logger

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type updater interface {
	Update(le *LogEntry)
}

func readFixture(t *testing.T, reports ...updater) {
	t.Helper()

	fd, err := os.Open("testdata/app.log")
	require.NoError(t, err)
	defer fd.Close()

	require.NoError(t, ReadJSONLinesLog(fd, func(le *LogEntry) {
		for _, r := range reports {
			r.Update(le)
		}
	}))
}

func TestReadJSONLinesLog_invalid(t *testing.T) {
	var count int
	err := ReadJSONLinesLog(strings.NewReader(`{"event":"builtin"}`+"\n{oops\n"), func(*LogEntry) {
		count++
	})

	assert.Error(t, err)
	assert.Equal(t, 1, count)
}

func TestReport(t *testing.T) {
	report := &Report{}
	readFixture(t, report)

	got, err := json.Marshal(report)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"log_entries": 13,
		"sessions": 2,
		"unknown_log_entries": {"mystery": 1},
		"run_command_report": {
			"resolved_command_paths": {"/bin/ls": 1, "/bin/false": 1},
			"command_names": {"ls": 1, "false": 1},
			"statuses": {"0": 1, "1": 1}
		},
		"builtin_report": {"command_names": {"echo": 1}},
		"unknown_command_report": {"command_names": {"nope": 2}},
		"pipeline_report": {"count": 2, "invalid": 1, "stage_counts": {"2": 1}},
		"error_report": {"redirect_error": 1}
	}`, string(got))
}

func TestReport_empty(t *testing.T) {
	got, err := json.Marshal(&Report{})
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"log_entries": 0,
		"sessions": 0,
		"unknown_log_entries": {},
		"run_command_report": {"resolved_command_paths": {}, "command_names": {}, "statuses": {}},
		"builtin_report": {"command_names": {}},
		"unknown_command_report": {"command_names": {}},
		"pipeline_report": {"count": 0, "invalid": 0, "stage_counts": {}},
		"error_report": {}
	}`, string(got))
}

func TestBugReport(t *testing.T) {
	report := NewBugReport()
	readFixture(t, report)

	got, err := json.Marshal(report)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"log_entries": 13,
		"unknown_commands": [{"count": 2, "event": {"command": "nope"}}],
		"errors": [{"count": 1, "event": {"event": "redirect_error", "error": "permission denied"}}]
	}`, string(got))
}

func TestInteractionReport(t *testing.T) {
	report := &InteractionReport{}
	readFixture(t, report)

	first, ok := report.Session("s1")
	require.True(t, ok)
	assert.Equal(t, "interactive", first.Mode)
	assert.Equal(t, "2024-01-01T00:00:00Z", first.Start)
	assert.Equal(t, "2024-01-01T00:00:09Z", first.End)
	require.NotNil(t, first.ExitStatus)
	assert.Equal(t, 1, *first.ExitStatus)
	assert.Equal(t, 9, first.LogEntries)
	assert.Equal(t, []string{"echo hi", "ls -l", "false", "nope", "ls | wc", "ls |"}, first.Commands)

	second, ok := report.Session("s2")
	require.True(t, ok)
	assert.Equal(t, "command", second.Mode)
	assert.Equal(t, []string{"nope"}, second.Commands)
	require.NotNil(t, second.ExitStatus)
	assert.Equal(t, 127, *second.ExitStatus)

	_, ok = report.Session("")
	assert.False(t, ok)
}

func TestPathCounter(t *testing.T) {
	ctr := NewPathCounter("a", "b")
	ctr.Increment("x", "y")
	ctr.Increment("x", "z")
	ctr.Increment("x", "z")

	got, err := json.Marshal(ctr)
	require.NoError(t, err)
	assert.Equal(t, `[{"count":2,"event":{"a":"x","b":"z"}},{"count":1,"event":{"a":"x","b":"y"}}]`, string(got))

	assert.Panics(t, func() { ctr.Increment("x") })
}

func TestStrCounter(t *testing.T) {
	var ctr StrCounter
	assert.Equal(t, 0, ctr.Get("a"))

	ctr.Increment("a")
	ctr.Increment("a")
	assert.Equal(t, 2, ctr.Get("a"))
}

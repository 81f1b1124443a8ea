package logger

import (
	"encoding/json"
	"io"
	"sort"
	"strconv"
	"strings"
)

// LogEntry is a single decoded event.
type LogEntry struct {
	Level     string   `json:"level"`
	Time      string   `json:"time"`
	SessionID string   `json:"session_id"`
	Event     string   `json:"event"`
	Mode      string   `json:"mode,omitempty"`
	Command   string   `json:"command,omitempty"`
	Path      string   `json:"path,omitempty"`
	Args      []string `json:"args,omitempty"`
	Commands  []string `json:"commands,omitempty"`
	Line      string   `json:"line,omitempty"`
	Valid     *bool    `json:"valid,omitempty"`
	Status    *int     `json:"status,omitempty"`
	Target    string   `json:"target,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var logEntry LogEntry
		if err := decoder.Decode(&logEntry); err != nil {
			return err
		}

		handler(&logEntry)
	}
	return nil
}

func NewBugReport() *BugReport {
	return &BugReport{
		UnknownCommands: NewPathCounter("command"),
		Errors:          NewPathCounter("event", "error"),
	}
}

// BugReport pulls events that are likely problems with the shell or its
// environment.
type BugReport struct {
	LogEntries int `json:"log_entries"`

	UnknownCommands *PathCounter `json:"unknown_commands"`
	Errors          *PathCounter `json:"errors"`
}

func (r *BugReport) Update(le *LogEntry) {
	r.LogEntries++

	switch le.Event {
	case EventUnknownCommand:
		r.UnknownCommands.Increment(le.Command)
	case EventRedirectError, EventHistoryError, EventReadError:
		r.Errors.Increment(le.Event, le.Error)
	}
}

type InteractionReport struct {
	// Map of sessionID -> interactions
	interactions map[string]*InteractiveSession
}

type InteractiveSession struct {
	Mode       string   `json:"mode"`
	Start      string   `json:"start"`
	End        string   `json:"end,omitempty"`
	ExitStatus *int     `json:"exit_status,omitempty"`
	LogEntries int      `json:"log_entries"`
	Commands   []string `json:"commands"`
}

func (i *InteractiveSession) Update(le *LogEntry) {
	i.LogEntries++

	switch le.Event {
	case EventSessionStart:
		i.Mode = le.Mode
		i.Start = le.Time
	case EventSessionEnd:
		i.End = le.Time
		i.ExitStatus = le.Status
	case EventRunCommand, EventBuiltin, EventUnknownCommand:
		i.Commands = append(i.Commands, strings.Join(append([]string{le.Command}, le.Args...), " "))
	case EventPipeline:
		if len(le.Commands) > 0 {
			i.Commands = append(i.Commands, strings.Join(le.Commands, " | "))
		} else {
			i.Commands = append(i.Commands, le.Line)
		}
	}
}

func (i *InteractionReport) init() {
	if i.interactions == nil {
		i.interactions = make(map[string]*InteractiveSession)
	}
}

// MarshalJSON implemnts custom JSON marshaler.
func (i *InteractionReport) MarshalJSON() ([]byte, error) {
	i.init()

	return json.Marshal(i.interactions)
}

// Session returns the interactions recorded for a session.
func (i *InteractionReport) Session(sessionID string) (*InteractiveSession, bool) {
	i.init()

	report, ok := i.interactions[sessionID]
	return report, ok
}

func (i *InteractionReport) Update(le *LogEntry) {
	i.init()

	sessionID := le.SessionID
	if sessionID == "" {
		return
	}
	report, ok := i.interactions[sessionID]
	if !ok {
		report = &InteractiveSession{}
		i.interactions[sessionID] = report
	}

	report.Update(le)
}

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int        `json:"log_entries"`
	Sessions       int        `json:"sessions"`
	InvalidEntries StrCounter `json:"unknown_log_entries,omitempty"`

	RunCommand     RunCommandReport     `json:"run_command_report"`
	Builtin        BuiltinReport        `json:"builtin_report"`
	UnknownCommand UnknownCommandReport `json:"unknown_command_report"`
	Pipeline       PipelineReport       `json:"pipeline_report"`
	Errors         StrCounter           `json:"error_report"`
}

func (r *Report) Update(le *LogEntry) {
	r.LogEntries++

	switch le.Event {
	case EventSessionStart:
		r.Sessions++
	case EventRunCommand:
		r.RunCommand.update(le)
	case EventBuiltin:
		r.Builtin.update(le)
	case EventUnknownCommand:
		r.UnknownCommand.update(le)
	case EventPipeline:
		r.Pipeline.update(le)
	case EventRedirectError, EventHistoryError, EventReadError:
		r.Errors.Increment(le.Event)
	case EventSessionEnd:
		// Ignore
	default:
		r.InvalidEntries.Increment(le.Event)
	}
}

type RunCommandReport struct {
	// Name of the resolved command
	ResolvedCommandPaths StrCounter `json:"resolved_command_paths"`
	// Name of the command
	CommandNames StrCounter `json:"command_names"`
	// Exit statuses of the commands
	Statuses StrCounter `json:"statuses"`
}

func (r *RunCommandReport) update(le *LogEntry) {
	r.ResolvedCommandPaths.Increment(le.Path)
	r.CommandNames.Increment(le.Command)
	if le.Status != nil {
		r.Statuses.Increment(strconv.Itoa(*le.Status))
	}
}

type BuiltinReport struct {
	CommandNames StrCounter `json:"command_names"`
}

func (r *BuiltinReport) update(le *LogEntry) {
	r.CommandNames.Increment(le.Command)
}

type UnknownCommandReport struct {
	CommandNames StrCounter `json:"command_names"`
}

func (r *UnknownCommandReport) update(le *LogEntry) {
	r.CommandNames.Increment(le.Command)
}

type PipelineReport struct {
	Count   int        `json:"count"`
	Invalid int        `json:"invalid"`
	Stages  StrCounter `json:"stage_counts"`
}

func (r *PipelineReport) update(le *LogEntry) {
	r.Count++
	if le.Valid != nil && !*le.Valid {
		r.Invalid++
		return
	}
	r.Stages.Increment(strconv.Itoa(len(le.Commands)))
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// Get returns the count for the given key.
func (s *StrCounter) Get(key string) int {
	return s.internal[key]
}

// MarshalJSON implemnts custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	if s.internal == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s.internal)
}

func NewPathCounter(cols ...string) *PathCounter {
	return &PathCounter{
		cols:     cols,
		internal: make(map[string]int),
	}
}

// PathCounter counts the number of strings seen.
type PathCounter struct {
	cols     []string
	internal map[string]int
}

// Increment adds one to the given key.
func (ctr *PathCounter) Increment(toAdd ...string) {
	if len(toAdd) != len(ctr.cols) {
		panic("wrong number of columns to add")
	}

	ctr.internal[toKey(toAdd...)]++
}

// MarshalJSON implemnts custom JSON marshaler.
func (ctr *PathCounter) MarshalJSON() ([]byte, error) {
	type Count struct {
		Count  int               `json:"count"`
		Fields map[string]string `json:"event"`
		Path   string            `json:"-"`
	}

	out := []Count{}
	for k, v := range ctr.internal {
		count := Count{
			Count:  v,
			Path:   k,
			Fields: make(map[string]string),
		}

		splitPath := fromKey(k)
		for colNum, colVal := range ctr.cols {
			count.Fields[colVal] = splitPath[colNum]
		}

		out = append(out, count)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Path < out[j].Path
		}
		return out[i].Count > out[j].Count
	})

	return json.Marshal(out)
}

func toKey(vals ...string) string {
	key, _ := json.Marshal(vals)
	return string(key)
}

func fromKey(key string) (out []string) {
	json.Unmarshal([]byte(key), &out)
	return
}

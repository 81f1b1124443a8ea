package logger

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_NewSession(t *testing.T) {
	out := &bytes.Buffer{}
	l := NewJSONLinesLogger(out)

	session := l.NewSession()
	_, err := uuid.Parse(session.SessionID())
	require.NoError(t, err)

	session.Start("interactive")
	session.Info().Str(EventField, EventBuiltin).Str("command", "pwd").Int("status", 0).Send()
	session.End(0)

	var entries []*LogEntry
	require.NoError(t, ReadJSONLinesLog(out, func(le *LogEntry) {
		entries = append(entries, le)
	}))
	require.Len(t, entries, 3)

	for _, le := range entries {
		assert.Equal(t, session.SessionID(), le.SessionID)
		assert.Equal(t, "info", le.Level)
		assert.NotEmpty(t, le.Time)
	}

	assert.Equal(t, EventSessionStart, entries[0].Event)
	assert.Equal(t, "interactive", entries[0].Mode)
	assert.Equal(t, EventBuiltin, entries[1].Event)
	assert.Equal(t, EventSessionEnd, entries[2].Event)
	require.NotNil(t, entries[2].Status)
	assert.Equal(t, 0, *entries[2].Status)
}

func TestLogger_sessionsAreDistinct(t *testing.T) {
	l := NewJSONLinesLogger(&bytes.Buffer{})

	assert.NotEqual(t, l.NewSession().SessionID(), l.NewSession().SessionID())
}

func TestNop(t *testing.T) {
	session := Nop()

	assert.Empty(t, session.SessionID())
	assert.NotPanics(t, func() {
		session.Start("command")
		session.End(1)
	})
}

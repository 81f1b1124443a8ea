package logger

import (
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Event names written to the "event" field.
const (
	EventSessionStart   = "session_start"
	EventSessionEnd     = "session_end"
	EventRunCommand     = "run_command"
	EventBuiltin        = "builtin"
	EventUnknownCommand = "unknown_command"
	EventPipeline       = "pipeline"
	EventRedirectError  = "redirect_error"
	EventHistoryError   = "history_error"
	EventReadError      = "read_error"
)

const (
	// EventField holds the event name.
	EventField = "event"
	// SessionIDField holds the ID shared by every event of a session.
	SessionIDField = "session_id"
)

// Logger creates session loggers that export events in newline delimited
// JSON object format.
type Logger struct {
	out io.Writer
}

// NewJSONLinesLogger creates a Logger writing to w.
func NewJSONLinesLogger(w io.Writer) *Logger {
	return &Logger{out: w}
}

// NewSession creates a logger with an attached random session ID.
func (l *Logger) NewSession() *SessionLogger {
	return l.newSession(uuid.NewString())
}

func (l *Logger) newSession(sessionID string) *SessionLogger {
	return &SessionLogger{
		Logger: zerolog.New(l.out).With().
			Timestamp().
			Str(SessionIDField, sessionID).
			Logger(),
		sessionID: sessionID,
	}
}

// SessionLogger logs events with a shared session ID.
type SessionLogger struct {
	zerolog.Logger
	sessionID string
}

// Nop returns a session logger that discards everything.
func Nop() *SessionLogger {
	return &SessionLogger{Logger: zerolog.Nop()}
}

// SessionID returns the ID attached to every event.
func (l *SessionLogger) SessionID() string {
	return l.sessionID
}

// Start records the beginning of the session.
func (l *SessionLogger) Start(mode string) {
	l.Info().Str(EventField, EventSessionStart).Str("mode", mode).Send()
}

// End records the end of the session with the shell's final status.
func (l *SessionLogger) End(status int) {
	l.Info().Str(EventField, EventSessionEnd).Int("status", status).Send()
}

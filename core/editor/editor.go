// Package editor implements an interactive line editor for raw terminals with
// history recall and tab completion of command names.
package editor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/abiosoft/readline"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const (
	// DefaultPrompt is shown when no other prompt is configured.
	DefaultPrompt = "$ "

	newline = "\r\n"
)

var (
	eraseLine = termenv.CSI + termenv.EraseEntireLineSeq
	eraseBack = termenv.CSI + fmt.Sprintf(termenv.CursorBackSeq, 1) + termenv.CSI + termenv.EraseLineRightSeq
)

// History is the list of previously entered lines.
type History interface {
	Append(line string)
	// Entry fetches the nth most recent entry, Entry(1) is the newest.
	Entry(n int) (string, bool)
}

// State holds the line being edited. A fresh State is used for every line.
type State struct {
	Buffer []rune
	// HistoryCursor is the position of the recalled entry counted from the
	// newest, zero means no entry is recalled.
	HistoryCursor int
	// TabPending is set after a Tab that couldn't extend the buffer.
	TabPending bool
}

// Editor reads lines from a terminal.
type Editor struct {
	// Prompt is written before each line.
	Prompt string
	// Bell enables the audible bell.
	Bell bool

	stdin  *readline.CancelableStdin
	reader *bufio.Reader
	out    io.Writer

	fd     int
	isTerm bool

	history   History
	completer Completer
}

// New creates an editor reading keys from in and echoing to out. Raw mode is
// only used if in is a terminal.
func New(in io.Reader, out io.Writer, history History, completer Completer) *Editor {
	stdin := readline.NewCancelableStdin(in)

	e := &Editor{
		Prompt:    DefaultPrompt,
		Bell:      true,
		stdin:     stdin,
		reader:    bufio.NewReader(stdin),
		out:       out,
		history:   history,
		completer: completer,
	}

	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		e.fd = int(f.Fd())
		e.isTerm = true
	}

	return e
}

// SetCompleter replaces the source of tab completions.
func (e *Editor) SetCompleter(c Completer) {
	e.completer = c
}

// ReadLine shows the prompt and returns the next line entered. It returns
// io.EOF once the input is exhausted and no partial line is pending.
func (e *Editor) ReadLine() (string, error) {
	if e.isTerm {
		prev, err := term.MakeRaw(e.fd)
		if err != nil {
			return "", fmt.Errorf("enabling raw mode: %w", err)
		}
		defer term.Restore(e.fd, prev)
	}

	st := &State{}
	e.write(e.Prompt)

	for {
		ev, err := readEvent(e.reader)
		switch {
		case errors.Is(err, io.EOF) && len(st.Buffer) > 0:
			return e.accept(st), nil
		case errors.Is(err, io.EOF):
			if e.isTerm {
				e.write(newline)
			}
			return "", io.EOF
		case err != nil:
			return "", err
		}

		if line, done := e.HandleKey(st, ev); done {
			return line, nil
		}
	}
}

// HandleKey applies a single key press to the state. It returns the completed
// line and true when the line is ready.
func (e *Editor) HandleKey(st *State, ev Event) (string, bool) {
	switch ev.Key {
	case KeyEnter:
		return e.accept(st), true

	case KeyBackspace:
		if len(st.Buffer) > 0 {
			st.Buffer = st.Buffer[:len(st.Buffer)-1]
			st.TabPending = false
			e.write(eraseBack)
		}

	case KeyTab:
		e.complete(st)

	case KeyRune:
		st.Buffer = append(st.Buffer, ev.Rune)
		st.TabPending = false
		e.write(string(ev.Rune))

	case KeyUp:
		if entry, ok := e.history.Entry(st.HistoryCursor + 1); ok {
			st.HistoryCursor++
			st.Buffer = []rune(entry)
			st.TabPending = false
			e.redraw(st)
		}

	case KeyDown:
		if st.HistoryCursor == 0 {
			return "", false
		}
		st.HistoryCursor--
		st.Buffer = nil
		if entry, ok := e.history.Entry(st.HistoryCursor); ok {
			st.Buffer = []rune(entry)
		}
		st.TabPending = false
		e.redraw(st)

	case KeyInterrupt:
		e.write("^C" + newline)
		st.Buffer = nil
		st.HistoryCursor = 0
		st.TabPending = false
		e.redraw(st)
	}

	return "", false
}

// accept finishes the line and records it in the history.
func (e *Editor) accept(st *State) string {
	line := string(st.Buffer)
	if line != "" {
		e.history.Append(line)
	}
	e.write(newline)
	return line
}

// redraw rewrites the whole line from column zero.
func (e *Editor) redraw(st *State) {
	e.write("\r" + eraseLine + e.Prompt + string(st.Buffer))
}

func (e *Editor) bell() {
	if e.Bell {
		e.write(string(rune(readline.CharBell)))
	}
}

func (e *Editor) write(s string) {
	io.WriteString(e.out, s)
}

// Close cancels a pending read, causing ReadLine to return io.EOF.
func (e *Editor) Close() error {
	return e.stdin.Close()
}

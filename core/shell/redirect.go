package shell

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/josephlewis42/rawsh/core/logger"
)

// Stream selects which output of a command is redirected.
type Stream int

const (
	Stdout Stream = iota
	Stderr
)

func (s Stream) String() string {
	switch s {
	case Stdout:
		return "stdout"
	case Stderr:
		return "stderr"
	default:
		return fmt.Sprintf("Stream(%d)", int(s))
	}
}

// Mode determines whether a redirect target is truncated or appended to.
type Mode int

const (
	Truncate Mode = iota
	Append
)

func (m Mode) String() string {
	switch m {
	case Truncate:
		return "truncate"
	case Append:
		return "append"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Redirect describes a single output redirection.
type Redirect struct {
	Stream Stream
	Mode   Mode
	// Target holds the path of the file receiving the output.
	Target string
}

// Flags returns the flags the target should be opened with.
func (r *Redirect) Flags() int {
	if r.Mode == Append {
		return os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	return os.O_CREATE | os.O_WRONLY | os.O_TRUNC
}

var redirectOperators = map[string]Redirect{
	">":   {Stream: Stdout, Mode: Truncate},
	"1>":  {Stream: Stdout, Mode: Truncate},
	">>":  {Stream: Stdout, Mode: Append},
	"1>>": {Stream: Stdout, Mode: Append},
	"2>":  {Stream: Stderr, Mode: Truncate},
	"2>>": {Stream: Stderr, Mode: Append},
}

// IsRedirectOperator returns true if the token is one of the supported
// redirection operators.
func IsRedirectOperator(token string) bool {
	_, ok := redirectOperators[token]
	return ok
}

// ResolveRedirect finds the first redirection operator after the program name
// and returns the remaining command words along with the redirect, if any.
//
// Only the first operator is honored, later operators are passed through as
// ordinary arguments. An operator without a target is dropped.
func ResolveRedirect(tokens []string) ([]string, *Redirect) {
	for i := 1; i < len(tokens); i++ {
		if !IsRedirectOperator(tokens[i]) {
			continue
		}

		op := redirectOperators[tokens[i]]
		command := append([]string{}, tokens[:i]...)
		if i+1 >= len(tokens) {
			return command, nil
		}

		redirect := op
		redirect.Target = tokens[i+1]
		command = append(command, tokens[i+2:]...)
		return command, &redirect
	}

	return tokens, nil
}

// trimOutput removes trailing ASCII whitespace from captured output.
func trimOutput(b []byte) []byte {
	return bytes.TrimRight(b, " \t\r\n\v\f")
}

// writeTerminal writes captured output to one of the shell's own streams.
func writeTerminal(w io.Writer, b []byte) {
	b = trimOutput(b)
	if len(b) == 0 {
		return
	}
	w.Write(b)
	io.WriteString(w, "\n")
}

// writeRedirect writes captured output to the redirect target. Content is
// trimmed and terminated by a single newline unless it's empty.
func (s *Shell) writeRedirect(r *Redirect, b []byte) error {
	fd, err := s.Fs.OpenFile(r.Target, r.Flags(), 0644)
	if err != nil {
		return err
	}
	defer fd.Close()

	b = trimOutput(b)
	if len(b) == 0 {
		return nil
	}
	if _, err := fd.Write(append(b, '\n')); err != nil {
		return err
	}
	return nil
}

// release sends captured stdout and stderr to their destinations. Output bound
// for the terminal is trimmed only if trimTerminal is set, redirect targets
// are always trimmed.
func (s *Shell) release(r *Redirect, stdout, stderr []byte, trimTerminal bool) {
	outputs := []struct {
		stream Stream
		data   []byte
		w      io.Writer
	}{
		{Stdout, stdout, s.Stdout},
		{Stderr, stderr, s.Stderr},
	}

	for _, out := range outputs {
		if r == nil || r.Stream != out.stream {
			if trimTerminal {
				writeTerminal(out.w, out.data)
			} else {
				out.w.Write(out.data)
			}
			continue
		}

		if err := s.writeRedirect(r, out.data); err != nil {
			s.Log.Warn().Err(err).Str(logger.EventField, logger.EventRedirectError).Str("target", r.Target).Send()
			fmt.Fprintln(s.Stderr, "cant create file")
		}
	}
}

package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/josephlewis42/rawsh/core/history"
	"github.com/josephlewis42/rawsh/core/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// LineReader supplies the shell with lines of input.
type LineReader interface {
	ReadLine() (string, error)
}

type Shell struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Fs is used to open redirect targets and history files.
	Fs       afero.Fs
	Resolver *Resolver
	Getenv   func(string) string

	History *history.List
	// HistoryFile receives new history entries when the shell exits, it's
	// disabled if blank.
	HistoryFile string

	Log zerolog.Logger

	lastRet int

	// Set to true to quit the shell
	Quit bool
}

// NewShell creates a shell connected to the host OS.
func NewShell(stdin io.Reader, stdout, stderr io.Writer) *Shell {
	return &Shell{
		Stdin:    stdin,
		Stdout:   stdout,
		Stderr:   stderr,
		Fs:       afero.NewOsFs(),
		Resolver: NewOsResolver(),
		Getenv:   os.Getenv,
		History:  history.NewList(),
		Log:      zerolog.Nop(),
	}
}

// LoadHistory reads the history file into memory, a missing file is ignored.
func (s *Shell) LoadHistory(path string) error {
	s.HistoryFile = path
	if path == "" {
		return nil
	}

	if err := s.History.Load(s.Fs, path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading history: %w", err)
	}
	return nil
}

func (s *Shell) flushHistory() {
	if s.HistoryFile == "" {
		return
	}

	if err := s.History.AppendFile(s.Fs, s.HistoryFile); err != nil {
		s.Log.Warn().Err(err).Str(logger.EventField, logger.EventHistoryError).Str("path", s.HistoryFile).Send()
		fmt.Fprintf(s.Stderr, "history: %s: %v\n", s.HistoryFile, err)
	}
}

func (s *Shell) homeDir() string {
	if home := s.Getenv(EnvHome); home != "" {
		return home
	}
	home, _ := os.UserHomeDir()
	return home
}

// ExitCode returns the status of the last command.
func (s *Shell) ExitCode() int {
	return s.lastRet
}

// Complete returns the command names that start with prefix. Builtins are
// preferred, executables on the PATH are only consulted if no builtin matches.
func (s *Shell) Complete(prefix string) []string {
	var out []string
	for _, name := range BuiltinNames() {
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}

	if len(out) > 0 {
		return out
	}

	return s.Resolver.Executables(prefix)
}

// RunCommand executes a single line of input.
func (s *Shell) RunCommand(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}

	if HasPipe(line) {
		s.lastRet = s.runPipeline(line)
		return
	}

	tokens := Tokenize(line)
	if len(tokens) == 0 {
		return
	}

	s.lastRet = s.dispatch(ResolveRedirect(tokens))
}

// RunInteractive reads and executes lines until the input ends or the shell is
// told to quit. It returns the status of the last command.
func (s *Shell) RunInteractive(lr LineReader) int {
	for !s.Quit {
		line, err := lr.ReadLine()

		switch {
		case errors.Is(err, io.EOF):
			s.flushHistory()
			return s.lastRet

		case err != nil:
			s.Log.Error().Err(err).Str(logger.EventField, logger.EventReadError).Send()
			fmt.Fprintf(s.Stderr, "sh: %v\n", err)
			s.flushHistory()
			return 1

		default:
			s.RunCommand(line)
		}
	}

	return s.lastRet
}

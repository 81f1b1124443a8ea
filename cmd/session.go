package cmd

import (
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/josephlewis42/rawsh/core/config"
	"github.com/josephlewis42/rawsh/core/editor"
	"github.com/josephlewis42/rawsh/core/logger"
	"github.com/josephlewis42/rawsh/core/shell"
)

const (
	modeInteractive = "interactive"
	modeCommand     = "command"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openSessionLog starts a session in the configured app log, the returned
// logger discards events if no log is configured.
func openSessionLog(cfg *config.Configuration) (*logger.SessionLogger, io.Closer, error) {
	logFd, err := cfg.OpenAppLog()
	switch {
	case errors.Is(err, config.ErrAppLogDisabled):
		return logger.Nop(), nopCloser{}, nil
	case err != nil:
		return nil, nil, err
	}

	return logger.NewJSONLinesLogger(logFd).NewSession(), logFd, nil
}

func newShell(sessionLog *logger.SessionLogger) *shell.Shell {
	sh := shell.NewShell(os.Stdin, os.Stdout, os.Stderr)
	sh.Log = sessionLog.Logger
	return sh
}

// runCommandLine runs a single line of input and returns its status.
func runCommandLine(cfg *config.Configuration, line string) (int, error) {
	sessionLog, closer, err := openSessionLog(cfg)
	if err != nil {
		return 1, err
	}
	defer closer.Close()

	sh := newShell(sessionLog)

	sessionLog.Start(modeCommand)
	sh.RunCommand(line)
	sessionLog.End(sh.ExitCode())

	return sh.ExitCode(), nil
}

// runInteractive reads lines from the terminal until the user exits or the
// input ends.
func runInteractive(cfg *config.Configuration) (int, error) {
	sessionLog, closer, err := openSessionLog(cfg)
	if err != nil {
		return 1, err
	}
	defer closer.Close()

	sh := newShell(sessionLog)
	if err := sh.LoadHistory(cfg.HistoryPath()); err != nil {
		return 1, err
	}

	ed := editor.New(os.Stdin, os.Stdout, sh.History, sh)
	ed.Prompt = cfg.ColoredPrompt()
	ed.Bell = cfg.Bell

	// Ctrl-C is read as a key in raw mode but the shell must also survive it
	// when stdin isn't a terminal. Children must not inherit SIG_IGN.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigs)
	go func() {
		for sig := range sigs {
			if sig != os.Interrupt {
				ed.Close()
				return
			}
		}
	}()

	sessionLog.Start(modeInteractive)
	status := sh.RunInteractive(ed)
	sessionLog.End(status)

	return status, nil
}

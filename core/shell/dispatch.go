package shell

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"syscall"

	"github.com/josephlewis42/rawsh/core/logger"
)

// dispatch runs a builtin or external command with its output captured and
// then released to the terminal or the redirect target.
func (s *Shell) dispatch(args []string, r *Redirect) int {
	if len(args) == 0 {
		return s.lastRet
	}

	if builtin, ok := AllBuiltins[args[0]]; ok {
		if args[0] == "exit" {
			r = nil
		}
		return s.runBuiltin(builtin, args, r)
	}

	return s.runExternal(args, r)
}

func (s *Shell) runBuiltin(builtin ShellBuiltin, args []string, r *Redirect) int {
	var stdout, stderr bytes.Buffer
	ret := builtin.Main(s, ExecContext{
		Stdout: &stdout,
		Stderr: &stderr,
		Args:   args,
	})

	s.Log.Info().
		Str(logger.EventField, logger.EventBuiltin).
		Str("command", args[0]).
		Strs("args", args[1:]).
		Int("status", ret).
		Send()

	s.release(r, stdout.Bytes(), stderr.Bytes(), false)
	return ret
}

func (s *Shell) runExternal(args []string, r *Redirect) int {
	path, err := s.Resolver.LookPath(args[0])
	if err != nil {
		s.Log.Info().Str(logger.EventField, logger.EventUnknownCommand).Str("command", args[0]).Strs("args", args[1:]).Send()
		fmt.Fprintf(s.Stderr, "%s: command not found\n", args[0])
		return 127
	}

	var stdout, stderr bytes.Buffer
	cmd := &exec.Cmd{
		Path:   path,
		Args:   args,
		Stdout: &stdout,
		Stderr: &stderr,
	}

	err = cmd.Run()
	ret := exitStatus(err)

	s.Log.Info().
		Str(logger.EventField, logger.EventRunCommand).
		Str("command", args[0]).
		Str("path", path).
		Strs("args", args[1:]).
		Int("status", ret).
		Send()

	s.release(r, stdout.Bytes(), stderr.Bytes(), true)
	if isStartError(err) {
		fmt.Fprintf(s.Stderr, "%s: %v\n", args[0], err)
	}
	return ret
}

// exitStatus converts the result of running a process into a shell status.
func exitStatus(err error) int {
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &exitErr):
		if code := exitErr.ExitCode(); code >= 0 {
			return code
		}
		// Killed by a signal.
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			return 128 + int(ws.Signal())
		}
		return 1
	default:
		return 126
	}
}

// isStartError returns true if the process couldn't be run at all.
func isStartError(err error) bool {
	var exitErr *exec.ExitError
	return err != nil && !errors.As(err, &exitErr)
}

package shell

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/josephlewis42/rawsh/core/logger"
)

// stage is a single command in a pipeline.
type stage struct {
	args     []string
	redirect *Redirect
}

// parsePipeline tokenizes every segment of the line. It returns false if any
// segment has no program to run.
func parsePipeline(line string) ([]stage, bool) {
	var stages []stage
	for _, segment := range SplitPipeline(line) {
		args, r := ResolveRedirect(Tokenize(segment))
		if len(args) == 0 {
			return nil, false
		}
		stages = append(stages, stage{args: args, redirect: r})
	}
	return stages, true
}

// runPipeline connects the stdout of each stage to the stdin of the next,
// starts every stage and then waits for all of them.
func (s *Shell) runPipeline(line string) int {
	stages, ok := parsePipeline(line)
	if !ok {
		s.Log.Info().Str(logger.EventField, logger.EventPipeline).Str("line", line).Bool("valid", false).Send()
		return s.lastRet
	}

	// exit ends the line. cd changes directory and lets the rest run.
	switch name := stages[0].args[0]; name {
	case "exit":
		return s.runBuiltin(AllBuiltins[name], stages[0].args, nil)
	case "cd":
		ret := s.runBuiltin(AllBuiltins[name], stages[0].args, nil)
		stages = stages[1:]
		if len(stages) == 0 {
			return ret
		}
	}

	var commands []string
	for _, st := range stages {
		commands = append(commands, st.args[0])
	}
	s.Log.Info().Str(logger.EventField, logger.EventPipeline).Strs("commands", commands).Send()

	return s.startPipeline(stages)
}

func (s *Shell) startPipeline(stages []stage) int {
	var (
		started []*exec.Cmd
		// files are closed after every started process exits.
		files []io.Closer
		// next is the read end of the previous stage's pipe.
		next *os.File
		ret  = 127
	)

	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()

	var stdin io.Reader
	if f, ok := s.Stdin.(*os.File); ok {
		stdin = f
	}

	// Every stage shares stderr.
	stderr := s.Stderr
	if _, ok := stderr.(*os.File); !ok {
		stderr = &lockedWriter{w: stderr}
	}

	for i, st := range stages {
		last := i == len(stages)-1

		cmd, err := s.pipelineCommand(st, stderr)
		if err != nil {
			closeFile(next)
			next = nil
			break
		}

		switch {
		case i == 0:
			cmd.Stdin = stdin
		case next != nil:
			cmd.Stdin = next
		}

		if st.redirect != nil {
			fd, err := s.Fs.OpenFile(st.redirect.Target, st.redirect.Flags(), 0644)
			if err != nil {
				s.Log.Warn().Err(err).Str(logger.EventField, logger.EventRedirectError).Str("target", st.redirect.Target).Send()
				fmt.Fprintln(stderr, "cant create file")
				closeFile(next)
				next = nil
				ret = 1
				break
			}
			files = append(files, fd)

			if st.redirect.Stream == Stderr {
				cmd.Stderr = fd
			} else {
				cmd.Stdout = fd
			}
		}

		var pipeWrite, pipeRead *os.File
		if !last && cmd.Stdout == nil {
			pipeRead, pipeWrite, err = os.Pipe()
			if err != nil {
				fmt.Fprintf(stderr, "sh: %v\n", err)
				closeFile(next)
				next = nil
				break
			}
			cmd.Stdout = pipeWrite
		} else if cmd.Stdout == nil {
			cmd.Stdout = s.Stdout
		}

		if err := cmd.Start(); err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", st.args[0], err)
			closeFile(pipeWrite)
			closeFile(pipeRead)
			closeFile(next)
			next = nil
			ret = 126
			break
		}
		started = append(started, cmd)

		// The child holds its own copies now.
		closeFile(pipeWrite)
		closeFile(next)
		next = pipeRead
	}
	closeFile(next)

	for i, cmd := range started {
		status := exitStatus(cmd.Wait())
		if i == len(stages)-1 {
			ret = status
		}
	}

	return ret
}

// pipelineCommand resolves the program for a stage. Stdout is left nil so the
// caller can decide where it goes.
func (s *Shell) pipelineCommand(st stage, stderr io.Writer) (*exec.Cmd, error) {
	path, err := s.Resolver.LookPath(st.args[0])
	if err != nil {
		s.Log.Info().Str(logger.EventField, logger.EventUnknownCommand).Str("command", st.args[0]).Strs("args", st.args[1:]).Send()
		fmt.Fprintf(stderr, "%s: command not found\n", st.args[0])
		return nil, err
	}

	return &exec.Cmd{
		Path:   path,
		Args:   st.args,
		Stderr: stderr,
	}, nil
}

func closeFile(f *os.File) {
	if f != nil {
		f.Close()
	}
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

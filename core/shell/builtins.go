package shell

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const (
	EnvHome = "HOME"
	EnvPath = "PATH"
)

// AllBuiltins holds a list of all registered shell builtins
var AllBuiltins = make(map[string]ShellBuiltin)

type ShellBuiltin interface {
	Main(s *Shell, ec ExecContext) int
}

type ShellBuiltinFunc func(s *Shell, ec ExecContext) int

func (f ShellBuiltinFunc) Main(s *Shell, ec ExecContext) int {
	return f(s, ec)
}

var _ ShellBuiltin = (ShellBuiltinFunc)(nil)

var builtinSummaries = map[string]string{
	"cd":      "Change the working directory.",
	"echo":    "Write arguments to standard output.",
	"exit":    "Exit the shell.",
	"history": "Display or manipulate the history list.",
	"pwd":     "Print the working directory.",
	"type":    "Describe how a command name would be interpreted.",
}

// BuiltinSummary returns a one line description of the builtin.
func BuiltinSummary(name string) string {
	return builtinSummaries[name]
}

// IsBuiltin returns true if name is a shell builtin.
func IsBuiltin(name string) bool {
	_, ok := AllBuiltins[name]
	return ok
}

// BuiltinNames returns the sorted names of all builtins.
func BuiltinNames() []string {
	var out []string
	for name := range AllBuiltins {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Exit quits the shell with an optional status.
func Exit(s *Shell, ec ExecContext) int {
	status := 0
	if len(ec.Args) > 1 {
		n, err := strconv.Atoi(ec.Args[1])
		if err != nil {
			fmt.Fprintf(ec.Stderr, "%s: %s: numeric argument required\n", ec.Args[0], ec.Args[1])
			n = 2
		}
		status = n
	}

	s.flushHistory()
	s.Quit = true
	return status
}

// Echo writes its arguments separated by spaces.
func Echo(s *Shell, ec ExecContext) int {
	fmt.Fprintln(ec.Stdout, strings.Join(ec.Args[1:], " "))
	return 0
}

// Type reports how each name would be interpreted as a command.
func Type(s *Shell, ec ExecContext) int {
	ret := 0
	for _, name := range ec.Args[1:] {
		if IsBuiltin(name) {
			fmt.Fprintf(ec.Stdout, "%s is a shell builtin\n", name)
			continue
		}

		if path, err := s.Resolver.LookPath(name); err == nil {
			fmt.Fprintf(ec.Stdout, "%s is %s\n", name, path)
			continue
		}

		fmt.Fprintf(ec.Stderr, "%s: not found\n", name)
		ret = 1
	}
	return ret
}

// Pwd prints the working directory.
func Pwd(s *Shell, ec ExecContext) int {
	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(ec.Stderr, "%s: %v\n", ec.Args[0], err)
		return 1
	}
	fmt.Fprintln(ec.Stdout, wd)
	return 0
}

// Cd is the cd shell builtin
func Cd(s *Shell, ec ExecContext) int {
	args := ec.Args
	var target string

	switch len(args) {
	case 1:
		target = "~"
	case 2:
		target = args[1]
	default:
		fmt.Fprintf(ec.Stderr, "%s: too many arguments\n", args[0])
		return 1
	}

	dir := target
	if target == "~" || strings.HasPrefix(target, "~/") {
		home := s.homeDir()
		if home == "" {
			fmt.Fprintf(ec.Stderr, "%s: HOME not set\n", args[0])
			return 1
		}
		dir = filepath.Join(home, strings.TrimPrefix(target, "~"))
	}

	if err := os.Chdir(dir); err != nil {
		var pathErr *fs.PathError
		switch {
		case errors.Is(err, fs.ErrNotExist):
			fmt.Fprintf(ec.Stderr, "%s: %s: No such file or directory\n", args[0], target)
		case errors.As(err, &pathErr):
			fmt.Fprintf(ec.Stderr, "%s: %s: %v\n", args[0], target, pathErr.Err)
		default:
			fmt.Fprintf(ec.Stderr, "%s: %s: %v\n", args[0], target, err)
		}
		return 1
	}
	return 0
}

// History displays or manipulates the history list.
func History(s *Shell, ec ExecContext) int {
	cmd := &SimpleCommand{
		Use:   "history [-c] [-r FILE] [-w FILE] [-a FILE] [N]",
		Short: "Display or manipulate the history list with line numbers.",
	}
	clearAll := cmd.Flags().Bool('c', "clear the history by deleting all entries")
	readFile := cmd.Flags().String('r', "", "append the contents of FILE to the history", "FILE")
	writeFile := cmd.Flags().String('w', "", "write the history to FILE", "FILE")
	appendFile := cmd.Flags().String('a', "", "append new history entries to FILE", "FILE")

	return cmd.Run(ec, func(args []string) int {
		optionChosen := false
		ret := 0
		fileOp := func(path string, op func(string) error) {
			optionChosen = true
			if err := op(path); err != nil {
				fmt.Fprintf(ec.Stderr, "%s: %s: %v\n", ec.Args[0], path, err)
				ret = 1
			}
		}

		if *clearAll {
			s.History.Clear()
			optionChosen = true
		}
		if *readFile != "" {
			fileOp(*readFile, func(path string) error { return s.History.ReadFile(s.Fs, path) })
		}
		if *writeFile != "" {
			fileOp(*writeFile, func(path string) error { return s.History.WriteFile(s.Fs, path) })
		}
		if *appendFile != "" {
			fileOp(*appendFile, func(path string) error { return s.History.AppendFile(s.Fs, path) })
		}

		if optionChosen {
			return ret
		}

		entries := s.History.Entries()
		start := 0
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 0 {
				fmt.Fprintf(ec.Stderr, "%s: %s: numeric argument required\n", ec.Args[0], args[0])
				return 1
			}
			if n < len(entries) {
				start = len(entries) - n
			}
		}

		for i := start; i < len(entries); i++ {
			fmt.Fprintf(ec.Stdout, "%5d  %s\n", i+1, entries[i])
		}
		return 0
	})
}

func init() {
	AllBuiltins["exit"] = ShellBuiltinFunc(Exit)
	AllBuiltins["echo"] = ShellBuiltinFunc(Echo)
	AllBuiltins["type"] = ShellBuiltinFunc(Type)
	AllBuiltins["pwd"] = ShellBuiltinFunc(Pwd)
	AllBuiltins["cd"] = ShellBuiltinFunc(Cd)
	AllBuiltins["history"] = ShellBuiltinFunc(History)
}

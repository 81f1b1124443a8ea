package shell

import (
	"fmt"
	"io"

	getopt "github.com/pborman/getopt/v2"
)

// ExecContext holds the I/O and arguments of a single command invocation.
type ExecContext struct {
	Stdout io.Writer
	Stderr io.Writer

	// Args contains the CLI arguments for the command, including the name it
	// was invoked with.
	Args []string
}

// SimpleCommand parses flags for a builtin and prints usage on error.
type SimpleCommand struct {
	// Use holds a one line usage string
	Use string
	// Short holds a one line description of the command.
	Short string
	// ShowHelp sets whether help is displayed or not.
	// If this is non-nil when Run() is called, then the default help flag isn't
	// added.
	ShowHelp *bool

	flags *getopt.Set
}

// Flags gets the command's flag set.
func (s *SimpleCommand) Flags() *getopt.Set {
	if s.flags == nil {
		s.flags = getopt.New()
	}

	return s.flags
}

// PrintHelp writes help for the command to the given writer.
func (s *SimpleCommand) PrintHelp(w io.Writer) {
	fmt.Fprint(w, "usage: ")
	fmt.Fprintln(w, s.Use)
	fmt.Fprintln(w, s.Short)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	s.Flags().PrintOptions(w)
}

// Run the command, if flag parsing was successful call the callback with the
// remaining positional arguments.
func (s *SimpleCommand) Run(ec ExecContext, callback func(args []string) int) int {
	opts := s.Flags()

	// Add help flag if not overridden.
	if s.ShowHelp == nil {
		s.ShowHelp = opts.BoolLong("help", 'h', "show this help and exit")
	}

	if err := opts.Getopt(ec.Args, nil); err != nil {
		fmt.Fprintf(ec.Stderr, "%s: %s\n", ec.Args[0], err)
		s.PrintHelp(ec.Stderr)
		return 2
	}

	if *s.ShowHelp {
		s.PrintHelp(ec.Stdout)
		return 0
	}

	return callback(opts.Args())
}

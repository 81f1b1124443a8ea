// Package history holds the list of lines entered into the shell and
// persists it to plain text files, one command per line.
package history

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/afero"
)

// List is an append-only, in-memory command history.
//
// Entries are addressed either by their 1-based global index (as displayed by
// the history builtin) or by their 1-based position from the newest entry.
type List struct {
	mu      sync.Mutex
	entries []string
	// flushed is the number of entries already written by WriteFile or
	// AppendFile.
	flushed int
}

// NewList creates a history seeded with the given entries.
func NewList(entries ...string) *List {
	return &List{entries: append([]string{}, entries...)}
}

// Append adds a line to the end of the history. Blank lines are ignored.
func (l *List) Append(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, line)
}

// Entry fetches the nth most recent entry, Entry(1) is the newest.
func (l *List) Entry(n int) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n < 1 || n > len(l.entries) {
		return "", false
	}
	return l.entries[len(l.entries)-n], true
}

// Entries returns a copy of every entry, oldest first.
func (l *List) Entries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]string{}, l.entries...)
}

// Clear deletes all entries.
func (l *List) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = nil
	l.flushed = 0
}

// ReadFile appends every non-blank line of the file to the history.
func (l *List) ReadFile(fs afero.Fs, path string) error {
	lines, err := ReadFile(fs, path)
	if err != nil {
		return err
	}

	for _, line := range lines {
		l.Append(line)
	}
	return nil
}

// Load reads the file into the history and marks every entry as already
// written so a later AppendFile doesn't duplicate them.
func (l *List) Load(fs afero.Fs, path string) error {
	if err := l.ReadFile(fs, path); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.flushed = len(l.entries)
	return nil
}

// WriteFile replaces the contents of the file with the whole history.
func (l *List) WriteFile(fs afero.Fs, path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := writeLines(fs, path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, l.entries); err != nil {
		return err
	}
	l.flushed = len(l.entries)
	return nil
}

// AppendFile appends the entries added since the last WriteFile or AppendFile
// to the file.
func (l *List) AppendFile(fs afero.Fs, path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := writeLines(fs, path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, l.entries[l.flushed:]); err != nil {
		return err
	}
	l.flushed = len(l.entries)
	return nil
}

// ReadFile reads the non-blank lines of a history file.
func ReadFile(fs afero.Fs, path string) ([]string, error) {
	fd, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	var out []string
	scanner := bufio.NewScanner(fd)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	return out, nil
}

func writeLines(fs afero.Fs, path string, flag int, lines []string) error {
	fd, err := fs.OpenFile(path, flag, 0644)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(fd)
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}

	if err := w.Flush(); err != nil {
		fd.Close()
		return err
	}
	return fd.Close()
}

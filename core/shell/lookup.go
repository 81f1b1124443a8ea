package shell

import (
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// ErrNotFound is the error resulting if a path search failed to find an executable file.
var ErrNotFound = exec.ErrNotFound

// Resolver finds executables on the search path.
type Resolver struct {
	Fs     afero.Fs
	Getenv func(string) string
}

// NewOsResolver creates a resolver backed by the host filesystem and
// environment.
func NewOsResolver() *Resolver {
	return &Resolver{
		Fs:     afero.NewOsFs(),
		Getenv: os.Getenv,
	}
}

func (r *Resolver) findExecutable(file string) error {
	d, err := r.Fs.Stat(file)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrNotFound
	case err != nil:
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0111 != 0 {
		return nil
	}
	return fs.ErrPermission
}

func (r *Resolver) searchPath() []string {
	var dirs []string
	for _, dir := range filepath.SplitList(r.Getenv("PATH")) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		dirs = append(dirs, dir)
	}
	return dirs
}

// LookPath searches for an executable named file in the directories named by
// the PATH environment variable. If file contains a slash, it is tried directly
// and the PATH is not consulted. The result may be an absolute path or a path
// relative to the current directory.
func (r *Resolver) LookPath(file string) (string, error) {
	if strings.Contains(file, "/") {
		err := r.findExecutable(file)
		if err == nil {
			return file, nil
		}
		return "", err
	}
	for _, dir := range r.searchPath() {
		path := filepath.Join(dir, file)
		if err := r.findExecutable(path); err == nil {
			return path, nil
		}
	}
	return "", ErrNotFound
}

// Executables lists the names of executables on the PATH starting with prefix.
// The result is sorted and contains no duplicates. Unreadable directories are
// skipped.
func (r *Resolver) Executables(prefix string) []string {
	seen := make(map[string]bool)
	var out []string

	for _, dir := range r.searchPath() {
		entries, err := afero.ReadDir(r.Fs, dir)
		if err != nil {
			continue
		}

		for _, entry := range entries {
			name := entry.Name()
			if seen[name] || !strings.HasPrefix(name, prefix) {
				continue
			}
			// Stat follows symlinks, which ReadDir doesn't.
			if r.findExecutable(filepath.Join(dir, name)) != nil {
				continue
			}
			seen[name] = true
			out = append(out, name)
		}
	}

	sort.Strings(out)
	return out
}

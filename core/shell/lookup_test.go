package shell

import (
	"io/fs"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T, path string, files map[string]fs.FileMode) *Resolver {
	t.Helper()

	memFs := afero.NewMemMapFs()
	for name, mode := range files {
		require.NoError(t, afero.WriteFile(memFs, name, []byte("#!/bin/sh\n"), mode))
		require.NoError(t, memFs.Chmod(name, mode))
	}

	return &Resolver{
		Fs: memFs,
		Getenv: func(key string) string {
			if key == EnvPath {
				return path
			}
			return ""
		},
	}
}

func TestResolver_LookPath(t *testing.T) {
	r := newTestResolver(t, "/usr/local/bin:/usr/bin:/bin", map[string]fs.FileMode{
		"/usr/bin/ls":       0755,
		"/bin/ls":           0755,
		"/bin/cat":          0755,
		"/usr/bin/readme":   0644,
		"/opt/tool":         0755,
		"/usr/local/bin/ok": 0700,
	})

	cases := map[string]struct {
		file    string
		want    string
		wantErr error
	}{
		"first-match-wins": {file: "ls", want: "/usr/bin/ls"},
		"later-dir":        {file: "cat", want: "/bin/cat"},
		"owner-exec":       {file: "ok", want: "/usr/local/bin/ok"},
		"not-executable":   {file: "readme", wantErr: ErrNotFound},
		"missing":          {file: "nope", wantErr: ErrNotFound},
		"absolute":         {file: "/opt/tool", want: "/opt/tool"},
		"absolute-missing": {file: "/opt/nope", wantErr: ErrNotFound},
		"absolute-no-exec": {file: "/usr/bin/readme", wantErr: fs.ErrPermission},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			got, err := r.LookPath(tc.file)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolver_LookPath_emptyPathElement(t *testing.T) {
	r := newTestResolver(t, ":/bin", map[string]fs.FileMode{
		"run.sh": 0755,
	})

	got, err := r.LookPath("run.sh")
	require.NoError(t, err)
	assert.Equal(t, "run.sh", got)
}

func TestResolver_Executables(t *testing.T) {
	r := newTestResolver(t, "/usr/bin:/bin:/missing", map[string]fs.FileMode{
		"/usr/bin/cat":   0755,
		"/usr/bin/cargo": 0755,
		"/bin/cat":       0755,
		"/bin/cal":       0755,
		"/bin/cache":     0644,
		"/bin/ls":        0755,
	})

	assert.Equal(t, []string{"cal", "cargo", "cat"}, r.Executables("ca"))
	assert.Equal(t, []string{"ls"}, r.Executables("l"))
	assert.Empty(t, r.Executables("zz"))
	assert.Equal(t, []string{"cal", "cargo", "cat", "ls"}, r.Executables(""))
}

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func TestBuiltinConfig(t *testing.T) {
	rawConfig := make(map[string]interface{})
	assert.Nil(t, yaml.Unmarshal(defaultConfigData, &rawConfig))

	knownFields := make(map[string]bool)
	rt := reflect.TypeOf(Configuration{})
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		assert.NotEmpty(t, jsonTag)
		jsonField := strings.Split(jsonTag, ",")[0]
		knownFields[jsonField] = true

		if _, ok := rawConfig[jsonField]; !ok {
			assert.False(t, true, "default config missing field: %q", jsonField)
		}
	}

	for k := range rawConfig {
		_, ok := knownFields[k]
		assert.True(t, ok, "default config contains invalid field: %q", k)
	}
}

func TestDefaultConfig(t *testing.T) {
	// Will panic() on load failure because it should never happen at runtime.
	cfg := defaultConfig()
	assert.NotNil(t, cfg)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "$ ", cfg.Prompt)
	assert.True(t, cfg.Bell)
}

func TestConfiguration_Validate(t *testing.T) {
	cases := map[string]struct {
		mutate  func(*Configuration)
		wantErr string
	}{
		"default": {
			mutate: func(*Configuration) {},
		},
		"missing-prompt": {
			mutate:  func(c *Configuration) { c.Prompt = "" },
			wantErr: "prompt",
		},
		"bad-color": {
			mutate:  func(c *Configuration) { c.PromptColor = "purple" },
			wantErr: "prompt_color",
		},
		"good-color": {
			mutate: func(c *Configuration) { c.PromptColor = "cyan" },
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestConfiguration_HistoryPath(t *testing.T) {
	cfg := defaultConfig()
	cfg.configurationDir = "/etc/rawsh"

	assert.Empty(t, cfg.HistoryPath())

	cfg.HistoryFile = "history.txt"
	assert.Equal(t, "/etc/rawsh/history.txt", cfg.HistoryPath())

	cfg.HistoryFile = "/tmp/history"
	assert.Equal(t, "/tmp/history", cfg.HistoryPath())
}

func TestConfiguration_ColoredPrompt(t *testing.T) {
	noColor := color.NoColor
	t.Cleanup(func() { color.NoColor = noColor })
	color.NoColor = false

	cfg := defaultConfig()
	assert.Equal(t, "$ ", cfg.ColoredPrompt())

	cfg.PromptColor = "green"
	assert.Equal(t, "\x1b[32;1m$ \x1b[0m", cfg.ColoredPrompt())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	contents := "prompt: '> '\nprompt_color: blue\nhistory_file: hist\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigurationName), []byte(contents), 0600))

	for _, path := range []string{dir, filepath.Join(dir, ConfigurationName)} {
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "> ", cfg.Prompt)
		assert.Equal(t, "blue", cfg.PromptColor)
		assert.Equal(t, filepath.Join(dir, "hist"), cfg.HistoryPath())
		// Unset fields keep their defaults.
		assert.True(t, cfg.Bell)
		assert.Equal(t, dir, cfg.Dir())
	}
}

func TestLoad_errors(t *testing.T) {
	cases := map[string]struct {
		contents string
		wantErr  string
	}{
		"unknown-field": {contents: "prompt: '$ '\nmotd: hello\n", wantErr: "motd"},
		"invalid":       {contents: "prompt_color: purple\n", wantErr: "prompt_color"},
		"not-yaml":      {contents: "prompt: [\n", wantErr: ConfigurationName},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigurationName), []byte(tc.contents), 0600))

			_, err := Load(dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadOrDefault(dir)
	require.NoError(t, err)
	assert.Equal(t, "$ ", cfg.Prompt)
	assert.Equal(t, dir, cfg.Dir())

	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigurationName), []byte("prompt_color: bad\n"), 0600))
	_, err = LoadOrDefault(dir)
	assert.Error(t, err)
}

func TestConfiguration_AppLog(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadOrDefault(dir)
	require.NoError(t, err)

	_, err = cfg.OpenAppLog()
	assert.ErrorIs(t, err, ErrAppLogDisabled)
	_, err = cfg.ReadAppLog()
	assert.ErrorIs(t, err, ErrAppLogDisabled)

	cfg.AppLog = filepath.Join("logs", "app.log")
	w, err := cfg.OpenAppLog()
	require.NoError(t, err)
	_, err = w.WriteString("{}\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	got, err := os.ReadFile(filepath.Join(dir, "logs", "app.log"))
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(got))

	r, err := cfg.ReadAppLog()
	require.NoError(t, err)
	r.Close()
}

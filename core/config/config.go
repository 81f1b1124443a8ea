package config

import (
	_ "embed"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/fatih/color"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

const (
	ConfigurationName = "config.yaml"
)

// ErrAppLogDisabled is returned when opening the application log if none is
// configured.
var ErrAppLogDisabled = errors.New("app_log is not configured")

var promptColors = map[string]color.Attribute{
	"red":     color.FgRed,
	"green":   color.FgGreen,
	"yellow":  color.FgYellow,
	"blue":    color.FgBlue,
	"magenta": color.FgMagenta,
	"cyan":    color.FgCyan,
}

type Configuration struct {
	configFs         afero.Fs
	configurationDir string

	Prompt      string `json:"prompt" validate:"required"`
	PromptColor string `json:"prompt_color" validate:"oneof=none red green yellow blue magenta cyan"`
	HistoryFile string `json:"history_file"`
	AppLog      string `json:"app_log"`
	Bell        bool   `json:"bell"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

func (c *Configuration) fs() afero.Fs {
	return c.configFs
}

// Dir returns the absolute path of the configuration directory.
func (c *Configuration) Dir() string {
	return c.configurationDir
}

// HistoryPath returns the path of the history file on the host, or a blank
// string if history isn't persisted.
func (c *Configuration) HistoryPath() string {
	switch {
	case c.HistoryFile == "":
		return ""
	case filepath.IsAbs(c.HistoryFile):
		return c.HistoryFile
	default:
		return filepath.Join(c.configurationDir, c.HistoryFile)
	}
}

// ColoredPrompt returns the prompt wrapped in the configured color.
func (c *Configuration) ColoredPrompt() string {
	attr, ok := promptColors[c.PromptColor]
	if !ok {
		return c.Prompt
	}
	return color.New(attr, color.Bold).Sprint(c.Prompt)
}

// OpenAppLog opens the application log in an append only state.
func (c *Configuration) OpenAppLog() (afero.File, error) {
	if c.AppLog == "" {
		return nil, ErrAppLogDisabled
	}
	if err := c.fs().MkdirAll(filepath.Dir(c.AppLog), 0700); err != nil {
		return nil, err
	}
	return c.fs().OpenFile(c.AppLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

func (c *Configuration) ReadAppLog() (afero.File, error) {
	if c.AppLog == "" {
		return nil, ErrAppLogDisabled
	}
	return c.fs().OpenFile(c.AppLog, os.O_RDONLY, 0600)
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}

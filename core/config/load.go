package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// dirFs returns a filesystem rooted at the configuration directory along with
// the directory's absolute path.
func dirFs(path string) (afero.Fs, string, error) {
	// If given the path to a config.yaml file, move back up a level.
	if filepath.Base(path) == ConfigurationName {
		path = filepath.Dir(path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, "", err
	}

	return afero.NewBasePathFs(afero.NewOsFs(), abs), abs, nil
}

// Load loads the configuration from the directory. Fields missing from the
// file keep their default values.
func Load(path string) (*Configuration, error) {
	configFs, dir, err := dirFs(path)
	if err != nil {
		return nil, err
	}

	configContents, err := afero.ReadFile(configFs, ConfigurationName)
	if err != nil {
		return nil, err
	}

	out := defaultConfig()
	if err := yaml.UnmarshalStrict(configContents, out); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ConfigurationName, err)
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ConfigurationName, err)
	}

	out.configFs = configFs
	out.configurationDir = dir
	return out, nil
}

// LoadOrDefault loads the configuration from the directory, falling back to
// the defaults if the directory has no configuration file.
func LoadOrDefault(path string) (*Configuration, error) {
	cfg, err := Load(path)
	if !errors.Is(err, fs.ErrNotExist) {
		return cfg, err
	}

	configFs, dir, err := dirFs(path)
	if err != nil {
		return nil, err
	}

	out := defaultConfig()
	out.configFs = configFs
	out.configurationDir = dir
	return out, nil
}

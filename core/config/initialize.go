package config

import (
	"log"

	"github.com/spf13/afero"
)

// Initialize writes the default configuration to the directory if it doesn't
// already contain one and then loads it.
func Initialize(dir string, logger *log.Logger) (*Configuration, error) {
	configFs, abs, err := dirFs(dir)
	if err != nil {
		return nil, err
	}

	if err := configFs.MkdirAll("/", 0755); err != nil {
		return nil, err
	}

	exists, err := afero.Exists(configFs, ConfigurationName)
	switch {
	case err != nil:
		return nil, err
	case exists:
		logger.Printf("%s already exists in %s, skipping", ConfigurationName, abs)
	default:
		logger.Printf("writing %s to %s", ConfigurationName, abs)
		if err := afero.WriteFile(configFs, ConfigurationName, defaultConfigData, 0600); err != nil {
			return nil, err
		}
	}

	return Load(abs)
}

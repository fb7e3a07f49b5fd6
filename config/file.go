package config

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultPath returns the XDG-resolved path for the tuning config file.
func DefaultPath() (string, error) {
	path, err := xdg.ConfigFile("docinspect/tuning.yml")
	if err != nil {
		return "", errors.Wrapf(err, "xdg.ConfigFile")
	}
	return path, nil
}

// Load reads tuning parameters from a YAML file, overlaying them on the
// defaults. Callers can use os.IsNotExist(err) to detect a missing file.
func Load(path string) (Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return Config{}, errors.Wrapf(err, "yaml.Unmarshal")
	}

	c := DefaultConfig()
	c.Apply(overlay)
	return c, nil
}

// Save writes a Config to a YAML file, creating parent directories as
// needed.
func Save(path string, c Config) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrapf(err, "yaml.Marshal")
	}

	dirPath := filepath.Dir(path)
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return errors.Wrapf(err, "os.MkdirAll")
	}

	if err := ioutil.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "ioutil.WriteFile")
	}

	return nil
}

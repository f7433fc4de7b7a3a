// Package config loads the add-on options the gate interprets.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/tidwall/jsonc"

	"github.com/nicholas-fedor/esphome-gate/internal/util"
	"github.com/nicholas-fedor/esphome-gate/pkg/types"
)

// DefaultOptionsFile is where the Supervisor writes the add-on options.
const DefaultOptionsFile = "/data/options.json"

// Option keys in the options file.
const (
	KeyContainer = "esphome_container"
	KeyDryRun    = "dry_run"
)

var (
	// errReadOptionsFailed indicates the options file exists but could not be read.
	errReadOptionsFailed = errors.New("failed to read options file")
	// errParseOptionsFailed indicates the options file is not valid JSON.
	errParseOptionsFailed = errors.New("failed to parse options file")
	// errDecodeOptionsFailed indicates an option has a value of the wrong type.
	errDecodeOptionsFailed = errors.New("failed to decode options")
)

// Load reads the options file at path from fs.
//
// A missing file yields the defaults and no error. An unreadable or malformed
// file yields the defaults together with an error the caller should log as a
// warning; the returned configuration is always usable. Comments and trailing
// commas are tolerated. Keys other than esphome_container and dry_run belong to
// the updater and are ignored.
//
// Parameters:
//   - fs: Filesystem holding the file.
//   - path: Options file path, usually DefaultOptionsFile.
//
// Returns:
//   - types.Configuration: Loaded or default configuration.
//   - error: Non-nil if the file was present but unusable.
func Load(fs afero.Fs, path string) (types.Configuration, error) {
	defaults := types.DefaultConfiguration()
	clog := logrus.WithField("options_file", path)

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			clog.Debug("Options file not found, using defaults")

			return defaults, nil
		}

		return defaults, fmt.Errorf("%w: %w", errReadOptionsFailed, err)
	}

	v := viper.New()
	v.SetConfigType("json")
	v.SetDefault(KeyContainer, defaults.ContainerIdentifier)
	v.SetDefault(KeyDryRun, defaults.DryRun)

	if err := v.ReadConfig(bytes.NewReader(jsonc.ToJSON(data))); err != nil {
		return defaults, fmt.Errorf("%w: %w", errParseOptionsFailed, err)
	}

	var config types.Configuration
	if err := v.Unmarshal(&config); err != nil {
		return defaults, fmt.Errorf("%w: %w", errDecodeOptionsFailed, err)
	}

	config.ContainerIdentifier = util.NormalizeContainerName(config.ContainerIdentifier)
	if config.ContainerIdentifier == "" {
		clog.Warn("Option esphome_container is empty, using " + defaults.ContainerIdentifier)
		config.ContainerIdentifier = defaults.ContainerIdentifier
	}

	clog.WithFields(logrus.Fields{
		"container": config.ContainerIdentifier,
		"dry_run":   config.DryRun,
	}).Debug("Loaded add-on options")

	return config, nil
}

package actions

import (
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/nicholas-fedor/esphome-gate/internal/logging"
)

// CheckConfigDirectory counts the device configurations in the ESPHome config
// directory and warns when there is nothing for the updater to compile.
//
// The check never aborts the run: the updater repeats it and decides itself.
//
// Returns:
//   - int: Number of *.yaml files found, 0 if the directory is missing.
func (p *Pipeline) CheckConfigDirectory() int {
	clog := p.log.WithField("directory", p.configDir)

	exists, err := afero.DirExists(p.fs, p.configDir)
	if err != nil {
		clog = clog.WithError(err)
	}

	if !exists {
		clog.Warn("ESPHome config directory not found, the updater has no devices to compile")

		return 0
	}

	matches, err := afero.Glob(p.fs, filepath.Join(p.configDir, "*.yaml"))
	if err != nil {
		clog.WithError(err).Warn("Failed to list ESPHome device configurations")

		return 0
	}

	clog = clog.WithField("count", len(matches))
	if len(matches) == 0 {
		clog.Warn("No device configurations found, add device YAML files to " + logging.ConfigDirectory)

		return 0
	}

	clog.Info("ESPHome config directory accessible")

	return len(matches)
}

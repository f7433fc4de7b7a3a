package main

import (
	"github.com/sirupsen/logrus"

	"github.com/nicholas-fedor/esphome-gate/cmd"
)

// init configures the initial logging level for the gate.
//
// It sets logrus to InfoLevel by default, so the banner and stage sections
// are visible unless overridden by --debug, --trace or --log-level.
func init() {
	logrus.SetLevel(logrus.InfoLevel)
}

// main serves as the entry point for the ESPHome gate.
func main() {
	cmd.Execute()
}

// Package meta holds build metadata injected at link time.
package meta

// Version is the gate's version, set with -ldflags "-X .../internal/meta.Version=...".
var Version = "v0.0.0-dev"

// UserAgent identifies the gate in notifications.
var UserAgent = "esphome-gate/" + Version

package types

// DefaultContainerIdentifier is the container name of the official ESPHome add-on.
const DefaultContainerIdentifier = "addon_15ef4d2f_esphome"

// KnownContainerIdentifiers lists the ESPHome add-on container names seen in the wild.
//
// They are suggested to the operator when the configured container cannot be inspected.
var KnownContainerIdentifiers = []string{
	"addon_15ef4d2f_esphome", // official ESPHome add-on
	"addon_a0d7b954_esphome",
	"addon_5c53de3b_esphome",
}

// Configuration holds the two add-on options interpreted by the gate.
//
// It is loaded once at startup and never mutated afterwards. DryRun is not
// interpreted by the gate itself; it is passed through to the updater.
type Configuration struct {
	// ContainerIdentifier is the name or ID of the ESPHome container to verify.
	ContainerIdentifier string `mapstructure:"esphome_container"`
	// DryRun is forwarded unmodified to the updater.
	DryRun bool `mapstructure:"dry_run"`
}

// DefaultConfiguration returns the configuration used when no options file is present.
func DefaultConfiguration() Configuration {
	return Configuration{
		ContainerIdentifier: DefaultContainerIdentifier,
		DryRun:              false,
	}
}

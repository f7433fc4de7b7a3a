package types

import (
	"strings"
)

// ContainerID is a hash string for a container instance.
type ContainerID string

// ShortID returns the 12-character short version of a container ID.
//
// Returns:
//   - string: Shortened ID without "sha256:" prefix.
func (id ContainerID) ShortID() string {
	return shortID(string(id))
}

// ContainerDescriptor records that the target container exists and could be inspected.
//
// Raw holds the inspection output exactly as the runtime returned it. The
// remaining fields are best-effort extractions from Raw and may be empty; the
// gate never fails because one of them is missing.
type ContainerDescriptor struct {
	// Identifier is the name or ID the container was inspected by.
	Identifier string
	// Exists is true when the inspect call succeeded.
	Exists bool
	// Raw is the unparsed inspection output.
	Raw []byte
	// ID is the full container ID, when it could be extracted.
	ID ContainerID
	// Image is the familiar image reference the container runs, when known.
	Image string
	// State is the container status (e.g. "running"), when known.
	State string
}

// Running reports whether the inspected container was in the running state.
func (d ContainerDescriptor) Running() bool {
	return d.State == "running"
}

// shortID shortens a hash string to 12 characters.
//
// Parameters:
//   - longID: Full hash string.
//
// Returns:
//   - string: Shortened ID, adjusted for "sha256:" prefix.
func shortID(longID string) string {
	prefixSep := strings.IndexRune(longID, ':')
	offset := 0
	length := 12

	// Adjust offset for "sha256:" prefix.
	if prefixSep >= 0 {
		if longID[0:prefixSep] == "sha256" {
			offset = prefixSep + 1
		} else {
			length += prefixSep + 1
		}
	}

	// Return shortened ID or full string if too short.
	if len(longID) >= offset+length {
		return longID[offset : offset+length]
	}

	return longID
}

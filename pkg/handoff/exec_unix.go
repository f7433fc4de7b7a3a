//go:build unix

package handoff

import "golang.org/x/sys/unix"

// replaceProcess replaces the current process image. It only returns on failure.
func replaceProcess(argv0 string, argv []string, envv []string) error {
	return unix.Exec(argv0, argv, envv)
}

//go:build !unix

package handoff

import "os"

// replaceProcess runs the updater as a child and exits with its exit code.
func replaceProcess(argv0 string, argv []string, envv []string) error {
	code, err := Spawn(argv0, argv, envv)
	if err != nil {
		return err
	}

	os.Exit(code)

	return nil
}

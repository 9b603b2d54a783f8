// Package reveal opens a directory in the platform file browser.
package reveal

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Command returns the program and arguments that open dir on goos.
func Command(goos, dir string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{dir}
	case "windows":
		return "explorer", []string{dir}
	default:
		return "xdg-open", []string{dir}
	}
}

// Open starts the file browser on dir and returns without waiting for it.
//
// Only a failure to start the program is reported; callers are expected to
// ignore it.
func Open(dir string) error {
	name, args := Command(runtime.GOOS, dir)
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("reveal %s: %w", dir, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

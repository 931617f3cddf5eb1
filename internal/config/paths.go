package config

import (
	"os"
	"path/filepath"
)

// BaseDir is the directory holding the running binary. Default config and
// log locations hang off it so a run does not depend on the caller's working
// directory. Falls back to the working directory.
func BaseDir() string {
	exe, err := os.Executable()
	if err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		return filepath.Dir(exe)
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// DefaultPath joins elem onto BaseDir.
func DefaultPath(elem ...string) string {
	return filepath.Join(append([]string{BaseDir()}, elem...)...)
}

package hcloud

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/raoulx24/hcloud-snapshot-rotator/internal/logging"
)

// ErrNotFound is returned when no hcloud executable could be located.
var ErrNotFound = errors.New("hcloud command not found")

// DefaultName is the executable name searched for.
const DefaultName = "hcloud"

// Locator finds the hcloud executable: PATH first, then common install
// directories, then next to the running binary and the working directory.
type Locator struct {
	Name     string
	LookPath func(string) (string, error)
	Dirs     []string
	Log      logging.Logger
}

// NewLocator returns a Locator with the standard search list.
func NewLocator(log logging.Logger) *Locator {
	return &Locator{
		Name:     DefaultName,
		LookPath: exec.LookPath,
		Dirs:     searchDirs(),
		Log:      log,
	}
}

func (l *Locator) Find() (string, error) {
	name := l.Name
	if runtime.GOOS == "windows" && filepath.Ext(name) == "" {
		name += ".exe"
	}

	if l.LookPath != nil {
		if p, err := l.LookPath(name); err == nil {
			l.Log.Debug("Found %s in PATH: %s", l.Name, p)
			return p, nil
		}
	}

	for _, dir := range l.Dirs {
		p := filepath.Join(dir, name)
		if isFile(p) {
			l.Log.Debug("Found %s in %s", l.Name, p)
			return p, nil
		}
	}

	l.Log.Error("%s CLI not found in PATH or common installation locations", l.Name)
	return "", ErrNotFound
}

func searchDirs() []string {
	dirs := []string{
		"/usr/local/bin",    // macOS, Linux
		"/usr/bin",          // Linux
		"/opt/homebrew/bin", // macOS ARM
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".local", "bin"), filepath.Join(home, "bin"))
	}
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, wd)
	}
	return dirs
}

func isFile(p string) bool {
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}

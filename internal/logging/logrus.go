package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// TimeLayout is the asctime layout of every log line. The status notifier
// relies on the " - " separators around the level, so keep them stable.
const TimeLayout = "2006-01-02 15:04:05,000"

// LineFormatter renders "<time> - <LEVEL> - <message>".
type LineFormatter struct{}

func (LineFormatter) Format(e *logrus.Entry) ([]byte, error) {
	level := strings.ToUpper(e.Level.String())
	return []byte(fmt.Sprintf("%s - %s - %s\n", e.Time.Format(TimeLayout), level, e.Message)), nil
}

// Logrus adapts a *logrus.Logger to Logger.
type Logrus struct {
	l      *logrus.Logger
	closer io.Closer
}

// New builds a debug-level logger writing to out.
func New(out io.Writer) *Logrus {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(LineFormatter{})
	l.SetLevel(logrus.DebugLevel)
	return &Logrus{l: l}
}

// Open recreates the log file at path and returns a logger writing to it.
// With verbose set, every line is also echoed to console.
func Open(path string, verbose bool, console io.Writer) (*Logrus, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	var out io.Writer = f
	if verbose && console != nil {
		out = io.MultiWriter(f, console)
	}

	lg := New(out)
	lg.closer = f
	return lg, nil
}

// Close releases the underlying log file, if any.
func (g *Logrus) Close() error {
	if g.closer == nil {
		return nil
	}
	return g.closer.Close()
}

func (g *Logrus) Debug(msg string, args ...any) { g.logf(logrus.DebugLevel, msg, args) }
func (g *Logrus) Info(msg string, args ...any)  { g.logf(logrus.InfoLevel, msg, args) }
func (g *Logrus) Warn(msg string, args ...any)  { g.logf(logrus.WarnLevel, msg, args) }
func (g *Logrus) Error(msg string, args ...any) { g.logf(logrus.ErrorLevel, msg, args) }

// logf skips formatting when there are no args, so raw lines containing
// '%' are written unchanged.
func (g *Logrus) logf(level logrus.Level, msg string, args []any) {
	if len(args) == 0 {
		g.l.Log(level, msg)
		return
	}
	g.l.Logf(level, msg, args...)
}

package logging

import (
	"fmt"
	"strings"
	"sync"
)

// Entry is one line captured by a Recorder.
type Entry struct {
	Level   string
	Message string
}

// Recorder keeps every formatted message in memory. Used as a test double.
type Recorder struct {
	mu      sync.Mutex
	Entries []Entry
}

func (r *Recorder) Debug(msg string, args ...any) { r.add("DEBUG", msg, args) }
func (r *Recorder) Info(msg string, args ...any)  { r.add("INFO", msg, args) }
func (r *Recorder) Warn(msg string, args ...any)  { r.add("WARNING", msg, args) }
func (r *Recorder) Error(msg string, args ...any) { r.add("ERROR", msg, args) }

func (r *Recorder) add(level, msg string, args []any) {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	r.mu.Lock()
	r.Entries = append(r.Entries, Entry{Level: level, Message: msg})
	r.mu.Unlock()
}

// Messages returns the messages logged at level.
func (r *Recorder) Messages(level string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []string
	for _, e := range r.Entries {
		if e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}

// Contains reports whether any message at level contains substr.
func (r *Recorder) Contains(level, substr string) bool {
	for _, m := range r.Messages(level) {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}
